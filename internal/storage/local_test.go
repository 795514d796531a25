package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/volunteer-hub/internal/models"
	"github.com/volunteer-hub/internal/types"
)

func newTestLocalStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create local store: %v", err)
	}
	return store
}

func TestLocalStoreMode(t *testing.T) {
	store := newTestLocalStore(t)
	if store.Mode() != types.ModeLocal {
		t.Errorf("Expected mode %q, got %q", types.ModeLocal, store.Mode())
	}
}

func TestLocalStoreHoursRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestLocalStore(t)

	entry, err := store.InsertHours(ctx, &models.HoursEntry{
		Organization: "Food Bank",
		Date:         "2026-01-15",
		Hours:        4,
	})
	if err != nil {
		t.Fatalf("Failed to insert hours: %v", err)
	}
	if entry.ID == "" {
		t.Error("Expected an assigned id")
	}
	if entry.Status != types.HoursPending {
		t.Errorf("Expected default status %q, got %q", types.HoursPending, entry.Status)
	}

	entries, err := store.ListHours(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to list hours: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Organization != "Food Bank" || entries[0].Hours != 4 {
		t.Errorf("Round-tripped entry mismatch: %+v", entries[0])
	}
}

func TestLocalStoreHoursFilter(t *testing.T) {
	ctx := context.Background()
	store := newTestLocalStore(t)

	seed := []*models.HoursEntry{
		{Organization: "Food Bank", Date: "2026-01-10", Hours: 2},
		{Organization: "Animal Shelter", Date: "2026-02-01", Hours: 3},
		{Organization: "Food Bank", Date: "2026-03-05", Hours: 1.5},
	}
	for _, e := range seed {
		if _, err := store.InsertHours(ctx, e); err != nil {
			t.Fatalf("Failed to insert: %v", err)
		}
	}

	byOrg, err := store.ListHours(ctx, &models.HoursFilter{Organization: "Food Bank"})
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(byOrg) != 2 {
		t.Errorf("Expected 2 Food Bank entries, got %d", len(byOrg))
	}

	byRange, err := store.ListHours(ctx, &models.HoursFilter{DateFrom: "2026-01-15", DateTo: "2026-02-28"})
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(byRange) != 1 || byRange[0].Organization != "Animal Shelter" {
		t.Errorf("Expected only the February entry, got %+v", byRange)
	}
}

func TestLocalStoreVerifyHours(t *testing.T) {
	ctx := context.Background()
	store := newTestLocalStore(t)

	entry, err := store.InsertHours(ctx, &models.HoursEntry{
		Organization: "Food Bank",
		Date:         "2026-01-15",
		Hours:        4,
	})
	if err != nil {
		t.Fatalf("Failed to insert hours: %v", err)
	}

	verified, err := store.VerifyHours(ctx, entry.ID, &models.HoursVerification{
		VerifiedBy: "supervisor-001",
		Approved:   true,
		Notes:      "Confirmed against the shift roster",
	})
	if err != nil {
		t.Fatalf("Failed to verify hours: %v", err)
	}
	if verified.Status != types.HoursVerified {
		t.Errorf("Expected status %q, got %q", types.HoursVerified, verified.Status)
	}
	if verified.VerifiedBy != "supervisor-001" {
		t.Errorf("Expected verifier supervisor-001, got %q", verified.VerifiedBy)
	}
	if verified.VerifiedAt == nil {
		t.Error("Expected a verification timestamp")
	}
	if verified.ImpactNotes != "Confirmed against the shift roster" {
		t.Errorf("Expected notes to be recorded, got %q", verified.ImpactNotes)
	}

	entries, err := store.ListHours(ctx, &models.HoursFilter{Status: types.HoursVerified})
	if err != nil {
		t.Fatalf("Failed to list hours: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected the decision to persist, got %d verified entries", len(entries))
	}
}

func TestLocalStoreVerifyHoursRejects(t *testing.T) {
	ctx := context.Background()
	store := newTestLocalStore(t)

	entry, err := store.InsertHours(ctx, &models.HoursEntry{
		Organization: "Library",
		Date:         "2026-02-05",
		Hours:        2,
	})
	if err != nil {
		t.Fatalf("Failed to insert hours: %v", err)
	}

	rejected, err := store.VerifyHours(ctx, entry.ID, &models.HoursVerification{
		VerifiedBy: "supervisor-002",
		Approved:   false,
	})
	if err != nil {
		t.Fatalf("Failed to reject hours: %v", err)
	}
	if rejected.Status != types.HoursRejected {
		t.Errorf("Expected status %q, got %q", types.HoursRejected, rejected.Status)
	}

	if _, err := store.VerifyHours(ctx, "no-such-id", &models.HoursVerification{VerifiedBy: "s"}); err == nil {
		t.Error("Expected verifying an unknown id to fail")
	} else if serviceErr, ok := err.(*types.ServiceError); !ok || serviceErr.Code != types.CodeNotFound {
		t.Errorf("Expected a not-found error, got %v", err)
	}
}

func TestLocalStoreProfileUpdatedAtStrictlyIncreases(t *testing.T) {
	ctx := context.Background()
	store := newTestLocalStore(t)

	name := "Jane"
	var prev time.Time
	for i := 0; i < 5; i++ {
		profile, err := store.UpdateProfile(ctx, &models.ProfileUpdate{FirstName: &name})
		if err != nil {
			t.Fatalf("Failed to update profile: %v", err)
		}
		if !profile.UpdatedAt.After(prev) {
			t.Fatalf("Expected updated_at to strictly increase on save %d: %v then %v", i, prev, profile.UpdatedAt)
		}
		prev = profile.UpdatedAt
	}
}

func TestLocalStoreDeleteHoursAbsentID(t *testing.T) {
	ctx := context.Background()
	store := newTestLocalStore(t)

	if _, err := store.InsertHours(ctx, &models.HoursEntry{Organization: "Food Bank", Date: "2026-01-10", Hours: 2}); err != nil {
		t.Fatalf("Failed to insert: %v", err)
	}
	if err := store.DeleteHours(ctx, "no-such-id"); err != nil {
		t.Errorf("Expected absent-id delete to be a no-op, got %v", err)
	}

	entries, err := store.ListHours(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected 1 entry after no-op delete, got %d", len(entries))
	}
}

func TestLocalStoreProfileMerge(t *testing.T) {
	ctx := context.Background()
	store := newTestLocalStore(t)

	first := "Jane"
	city := "Portland"
	profile, err := store.UpdateProfile(ctx, &models.ProfileUpdate{FirstName: &first, City: &city})
	if err != nil {
		t.Fatalf("Failed to update profile: %v", err)
	}
	if profile.ID == "" {
		t.Error("Expected profile to be created on first save")
	}
	firstUpdatedAt := profile.UpdatedAt

	skills := []string{"teaching", "cooking"}
	profile, err = store.UpdateProfile(ctx, &models.ProfileUpdate{Skills: &skills})
	if err != nil {
		t.Fatalf("Failed to update profile: %v", err)
	}

	if profile.FirstName != "Jane" || profile.City != "Portland" {
		t.Errorf("Expected earlier fields to survive the merge, got %+v", profile)
	}
	if len(profile.Skills) != 2 {
		t.Errorf("Expected 2 skills, got %v", profile.Skills)
	}
	if !profile.UpdatedAt.After(firstUpdatedAt) {
		t.Error("Expected updated_at to strictly increase")
	}

	got, err := store.GetProfile(ctx)
	if err != nil {
		t.Fatalf("Failed to get profile: %v", err)
	}
	if got.FirstName != "Jane" {
		t.Errorf("Expected persisted profile, got %+v", got)
	}
}

func TestLocalStoreEventUpdateNotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestLocalStore(t)

	_, err := store.UpdateEvent(ctx, &models.Event{ID: "missing", Title: "Orientation"})
	if err == nil {
		t.Fatal("Expected not-found error")
	}
	svcErr, ok := err.(*types.ServiceError)
	if !ok || svcErr.Code != types.CodeNotFound {
		t.Errorf("Expected NOT_FOUND service error, got %v", err)
	}
}

func TestLocalStoreLetterDefaults(t *testing.T) {
	ctx := context.Background()
	store := newTestLocalStore(t)

	letter, err := store.InsertLetter(ctx, &models.Letter{Type: types.LetterApplication, Content: "body"})
	if err != nil {
		t.Fatalf("Failed to insert letter: %v", err)
	}
	if letter.Status != types.LetterDraft {
		t.Errorf("Expected default status %q, got %q", types.LetterDraft, letter.Status)
	}

	letter.Status = types.LetterSent
	if _, err := store.UpdateLetter(ctx, letter); err != nil {
		t.Fatalf("Failed to update letter: %v", err)
	}

	letters, err := store.ListLetters(ctx)
	if err != nil {
		t.Fatalf("Failed to list letters: %v", err)
	}
	if len(letters) != 1 || letters[0].Status != types.LetterSent {
		t.Errorf("Expected updated letter, got %+v", letters)
	}
}

func TestLocalStoreSessionRoundTrip(t *testing.T) {
	store := newTestLocalStore(t)

	if user, err := store.LoadSession(); err != nil || user != nil {
		t.Fatalf("Expected empty session, got %+v, %v", user, err)
	}

	saved := &models.User{ID: "demo-1", DisplayName: "Jane", Email: "jane@example.com"}
	if err := store.SaveSession(saved); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	user, err := store.LoadSession()
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}
	if user == nil || user.ID != "demo-1" {
		t.Errorf("Expected persisted session, got %+v", user)
	}

	if err := store.ClearSession(); err != nil {
		t.Fatalf("Failed to clear session: %v", err)
	}
	if user, err := store.LoadSession(); err != nil || user != nil {
		t.Errorf("Expected cleared session, got %+v, %v", user, err)
	}
}

// Property: listing after N inserts returns exactly N rows, in insertion
// order, regardless of the inserted values.
func TestLocalStoreInsertCountProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("N inserts yield N rows in order", prop.ForAll(
		func(hours []float64) bool {
			store, err := NewLocalStore(t.TempDir())
			if err != nil {
				return false
			}
			ctx := context.Background()

			var ids []string
			for i, h := range hours {
				entry, err := store.InsertHours(ctx, &models.HoursEntry{
					Organization: fmt.Sprintf("Org %d", i),
					Date:         "2026-01-01",
					Hours:        h,
				})
				if err != nil {
					return false
				}
				ids = append(ids, entry.ID)
			}

			entries, err := store.ListHours(ctx, nil)
			if err != nil || len(entries) != len(hours) {
				return false
			}
			for i, e := range entries {
				if e.ID != ids[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(0.5, 24)),
	))

	properties.TestingRun(t)
}

// Property: deleting one id removes exactly that row and no other.
func TestLocalStoreDeletePrecisionProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("delete removes exactly the targeted row", prop.ForAll(
		func(count int, victim int) bool {
			store, err := NewLocalStore(t.TempDir())
			if err != nil {
				return false
			}
			ctx := context.Background()

			var ids []string
			for i := 0; i < count; i++ {
				entry, err := store.InsertHours(ctx, &models.HoursEntry{
					Organization: "Org",
					Date:         "2026-01-01",
					Hours:        1,
				})
				if err != nil {
					return false
				}
				ids = append(ids, entry.ID)
			}

			target := ids[victim%count]
			if err := store.DeleteHours(ctx, target); err != nil {
				return false
			}

			entries, err := store.ListHours(ctx, nil)
			if err != nil || len(entries) != count-1 {
				return false
			}
			for _, e := range entries {
				if e.ID == target {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 12),
		gen.IntRange(0, 11),
	))

	properties.TestingRun(t)
}
