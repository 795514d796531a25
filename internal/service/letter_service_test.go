package service

import (
	"context"
	"strings"
	"testing"

	"github.com/volunteer-hub/internal/storage"
	"github.com/volunteer-hub/internal/types"
)

func newTestLetterService(t *testing.T) *LetterService {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create local store: %v", err)
	}
	return NewLetterService(store)
}

func TestGenerateApplicationLetter(t *testing.T) {
	svc := newTestLetterService(t)

	generated := svc.Generate(&LetterContext{
		Type:          types.LetterApplication,
		SenderName:    "Jane Smith",
		RecipientName: "Mr. Lopez",
		Organization:  "Community Food Bank",
		Role:          "Food Sorter",
		Reason:        "I care deeply about hunger relief in my city",
		Experience:    "Two years of weekly shifts at a soup kitchen",
		Skills:        "Inventory management and teamwork",
	})

	if !strings.Contains(generated.Body, "Jane Smith") {
		t.Error("Expected sender name in the body")
	}
	if !strings.Contains(generated.Body, "Community Food Bank") {
		t.Error("Expected organization in the body")
	}
	if !strings.Contains(generated.Body, "Mr. Lopez") {
		t.Error("Expected recipient in the body")
	}
	if strings.Contains(generated.Body, "{") {
		t.Errorf("Expected all placeholders replaced, body: %q", generated.Body)
	}
	if generated.Subject != "Volunteer Application - Food Sorter" {
		t.Errorf("Unexpected subject: %q", generated.Subject)
	}
}

func TestGeneratePlaceholderFallbacks(t *testing.T) {
	svc := newTestLetterService(t)

	generated := svc.Generate(&LetterContext{Type: types.LetterApplication})

	if !strings.Contains(generated.Body, "[Your Name]") {
		t.Error("Expected '[Your Name]' placeholder when sender name is empty")
	}
	if !strings.Contains(generated.Body, "Hiring Manager") {
		t.Error("Expected 'Hiring Manager' fallback recipient")
	}
	if !strings.Contains(generated.Body, "your organization") {
		t.Error("Expected 'your organization' fallback")
	}
}

func TestGenerateUnknownTypeFallsBack(t *testing.T) {
	svc := newTestLetterService(t)

	generated := svc.Generate(&LetterContext{
		Type:       types.LetterType("newsletter"),
		SenderName: "Jane",
	})
	if generated.Body == "" {
		t.Fatal("Expected a generated body for unknown type")
	}
	if generated.Subject != "Volunteer Inquiry" {
		t.Errorf("Expected generic subject for unknown type, got %q", generated.Subject)
	}
}

func TestGenerateSubjects(t *testing.T) {
	svc := newTestLetterService(t)

	cases := []struct {
		ctx  LetterContext
		want string
	}{
		{LetterContext{Type: types.LetterThankYou, Organization: "Elder Care"}, "Thank You - Elder Care"},
		{LetterContext{Type: types.LetterThankYou}, "Thank You - Volunteer Experience"},
		{LetterContext{Type: types.LetterFollowUp}, "Follow Up - Volunteer Application"},
		{LetterContext{Type: types.LetterPartnership}, "Partnership Proposal - Volunteer Program"},
		{LetterContext{Type: types.LetterRecommendationRequest}, "Recommendation Request - Volunteer Service"},
		{LetterContext{Type: types.LetterConfirmation, Role: "Tutor"}, "Confirmation - Tutor"},
		{LetterContext{Type: types.LetterCancellation}, "Schedule Change - Volunteer Session"},
	}
	for _, tc := range cases {
		got := svc.Generate(&tc.ctx).Subject
		if got != tc.want {
			t.Errorf("Type %q: expected subject %q, got %q", tc.ctx.Type, tc.want, got)
		}
	}
}

func TestQualityScoreDeductions(t *testing.T) {
	svc := newTestLetterService(t)

	empty := svc.Generate(&LetterContext{Type: types.LetterApplication})
	filled := svc.Generate(&LetterContext{
		Type:          types.LetterApplication,
		SenderName:    "Jane Smith",
		RecipientName: "Mr. Lopez",
		Organization:  "Community Food Bank",
		Role:          "Food Sorter",
		Reason:        "I care about hunger relief",
		Experience:    "Two years at a soup kitchen",
		Skills:        "Teamwork",
	})

	if empty.QualityScore >= filled.QualityScore {
		t.Errorf("Expected filled letter to score higher: empty=%v filled=%v",
			empty.QualityScore, filled.QualityScore)
	}
	if empty.QualityScore < 0 || empty.QualityScore > 1 {
		t.Errorf("Score out of bounds: %v", empty.QualityScore)
	}
	if len(empty.Suggestions) == 0 {
		t.Error("Expected suggestions for an unpersonalized letter")
	}
}

func TestGenerateCustomFields(t *testing.T) {
	svc := newTestLetterService(t)

	generated := svc.Generate(&LetterContext{
		Type:       types.LetterApplication,
		SenderName: "Jane",
		CustomFields: map[string]string{
			"skills": "Spanish fluency",
		},
	})
	if !strings.Contains(generated.Body, "Spanish fluency") {
		t.Error("Expected custom field substitution in the body")
	}
}

func TestGenerateAndSave(t *testing.T) {
	svc := newTestLetterService(t)
	ctx := context.Background()

	saved, generated, err := svc.GenerateAndSave(ctx, &LetterContext{
		Type:       types.LetterThankYou,
		SenderName: "Jane",
	})
	if err != nil {
		t.Fatalf("Failed to generate and save: %v", err)
	}
	if saved.Status != types.LetterDraft {
		t.Errorf("Expected draft status, got %q", saved.Status)
	}
	if saved.Content != generated.Body {
		t.Error("Expected saved content to match the generated body")
	}

	letters, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(letters) != 1 {
		t.Fatalf("Expected 1 saved letter, got %d", len(letters))
	}

	sent, err := svc.MarkSent(ctx, letters[0])
	if err != nil {
		t.Fatalf("Failed to mark sent: %v", err)
	}
	if sent.Status != types.LetterSent {
		t.Errorf("Expected sent status, got %q", sent.Status)
	}

	if err := svc.Delete(ctx, sent.ID); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	letters, err = svc.List(ctx)
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(letters) != 0 {
		t.Errorf("Expected no letters after delete, got %d", len(letters))
	}
}

func TestAllLetterTypesHaveTemplates(t *testing.T) {
	allTypes := []types.LetterType{
		types.LetterApplication,
		types.LetterThankYou,
		types.LetterOutreach,
		types.LetterFollowUp,
		types.LetterPartnership,
		types.LetterRecommendationRequest,
		types.LetterConfirmation,
		types.LetterCancellation,
	}
	for _, lt := range allTypes {
		if _, ok := letterTemplates[lt]; !ok {
			t.Errorf("Missing template for letter type %q", lt)
		}
	}
}
