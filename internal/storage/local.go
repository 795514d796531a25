package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/volunteer-hub/internal/models"
	"github.com/volunteer-hub/internal/types"
)

// Local persistence keys, one JSON file per logical table or singleton.
// These mirror the browser-storage keys of the original client.
const (
	keySession      = "session"
	keyProfile      = "profile"
	keyHoursLog     = "hours_log"
	keyEvents       = "events"
	keyLetters      = "letters"
	keyApplications = "applications"
)

// LocalStore emulates the remote table semantics over flat JSON files, one
// key per logical table. It serves exactly one user per data directory, so
// owner scoping is structural rather than per-row: entries are never
// filtered by user id, and listing after N inserts returns exactly N rows
// regardless of sign-in/out interleaving.
type LocalStore struct {
	dir string
	mu  sync.Mutex
}

// NewLocalStore creates the local fallback store, creating the data
// directory if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create local store directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Mode reports the local fallback mode.
func (s *LocalStore) Mode() types.StoreMode {
	return types.ModeLocal
}

// localID generates a timestamp-based id with a random suffix. There is no
// collision check: local mode is single-device, so uniqueness within one
// directory is all that is required.
func localID() string {
	var suffix [2]byte
	_, _ = rand.Read(suffix[:])
	return fmt.Sprintf("local-%d-%s", time.Now().UnixNano(), hex.EncodeToString(suffix[:]))
}

// read unmarshals one key into dest. A missing file is not an error: dest
// is left at its zero value, matching the empty-sequence contract for
// unknown or absent tables.
func (s *LocalStore) read(key string, dest interface{}) error {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// write persists one key atomically: the new value is written to a temp
// file and renamed over the old one, so either the full updated sequence is
// stored or the prior state is retained.
func (s *LocalStore) write(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(s.dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", key, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file for %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}

func (s *LocalStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// remove drops one key entirely. Absence is not an error.
func (s *LocalStore) remove(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// GetProfile returns the profile singleton, or an empty profile when none
// has been saved yet.
func (s *LocalStore) GetProfile(ctx context.Context) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var profile models.Profile
	if err := s.read(keyProfile, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile merges the provided fields into the existing profile,
// refreshes updated_at and persists the whole object. The profile is
// created on first save.
func (s *LocalStore) UpdateProfile(ctx context.Context, update *models.ProfileUpdate) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var profile models.Profile
	if err := s.read(keyProfile, &profile); err != nil {
		return nil, err
	}

	if profile.ID == "" {
		profile.ID = localID()
		profile.CreatedAt = time.Now().UTC()
	}
	update.Apply(&profile)
	// touch guarantees updated_at strictly increases across rapid saves.
	profile.UpdatedAt = touch(profile.UpdatedAt)

	if err := s.write(keyProfile, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListHours returns all entries matching the filter, in insertion order.
func (s *LocalStore) ListHours(ctx context.Context, filter *models.HoursFilter) ([]*models.HoursEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []*models.HoursEntry
	if err := s.read(keyHoursLog, &entries); err != nil {
		return nil, err
	}
	if filter == nil {
		return entries, nil
	}

	matched := make([]*models.HoursEntry, 0, len(entries))
	for _, e := range entries {
		if filter.Matches(e) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// InsertHours assigns a fresh id and creation timestamp if absent, appends
// the entry and persists the whole sequence back.
func (s *LocalStore) InsertHours(ctx context.Context, entry *models.HoursEntry) (*models.HoursEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []*models.HoursEntry
	if err := s.read(keyHoursLog, &entries); err != nil {
		return nil, err
	}

	if entry.ID == "" {
		entry.ID = localID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.Status == "" {
		entry.Status = types.HoursPending
	}

	entries = append(entries, entry)
	if err := s.write(keyHoursLog, entries); err != nil {
		return nil, err
	}
	return entry, nil
}

// VerifyHours applies a verification decision to the entry with the
// matching id and stamps the verifier and decision time.
func (s *LocalStore) VerifyHours(ctx context.Context, id string, v *models.HoursVerification) (*models.HoursEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []*models.HoursEntry
	if err := s.read(keyHoursLog, &entries); err != nil {
		return nil, err
	}

	for _, e := range entries {
		if e.ID != id {
			continue
		}
		if v.Approved {
			e.Status = types.HoursVerified
		} else {
			e.Status = types.HoursRejected
		}
		e.VerifiedBy = v.VerifiedBy
		now := time.Now().UTC()
		e.VerifiedAt = &now
		if v.Notes != "" {
			e.ImpactNotes = v.Notes
		}
		if err := s.write(keyHoursLog, entries); err != nil {
			return nil, err
		}
		return e, nil
	}
	return nil, errNotFound("hours entry", id)
}

// DeleteHours removes the entry with the matching id. Absent ids are a
// no-op, not an error.
func (s *LocalStore) DeleteHours(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []*models.HoursEntry
	if err := s.read(keyHoursLog, &entries); err != nil {
		return err
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}
	return s.write(keyHoursLog, kept)
}

// ListEvents returns all events matching the filter, in insertion order.
func (s *LocalStore) ListEvents(ctx context.Context, filter *models.EventFilter) ([]*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []*models.Event
	if err := s.read(keyEvents, &events); err != nil {
		return nil, err
	}
	if filter == nil {
		return events, nil
	}

	matched := make([]*models.Event, 0, len(events))
	for _, e := range events {
		if filter.Matches(e) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// InsertEvent appends an event and persists the sequence.
func (s *LocalStore) InsertEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []*models.Event
	if err := s.read(keyEvents, &events); err != nil {
		return nil, err
	}

	if event.ID == "" {
		event.ID = localID()
	}
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now

	events = append(events, event)
	if err := s.write(keyEvents, events); err != nil {
		return nil, err
	}
	return event, nil
}

// UpdateEvent replaces the stored event with the same id.
func (s *LocalStore) UpdateEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []*models.Event
	if err := s.read(keyEvents, &events); err != nil {
		return nil, err
	}

	for i, e := range events {
		if e.ID == event.ID {
			event.CreatedAt = e.CreatedAt
			event.UpdatedAt = time.Now().UTC()
			events[i] = event
			if err := s.write(keyEvents, events); err != nil {
				return nil, err
			}
			return event, nil
		}
	}
	return nil, &types.ServiceError{Code: types.CodeNotFound, Message: "event not found: " + event.ID}
}

// DeleteEvent removes the event with the matching id; absent ids are a no-op.
func (s *LocalStore) DeleteEvent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []*models.Event
	if err := s.read(keyEvents, &events); err != nil {
		return err
	}

	kept := events[:0]
	for _, e := range events {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(events) {
		return nil
	}
	return s.write(keyEvents, kept)
}

// ListLetters returns all stored letters in insertion order.
func (s *LocalStore) ListLetters(ctx context.Context) ([]*models.Letter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var letters []*models.Letter
	if err := s.read(keyLetters, &letters); err != nil {
		return nil, err
	}
	return letters, nil
}

// InsertLetter appends a letter and persists the sequence.
func (s *LocalStore) InsertLetter(ctx context.Context, letter *models.Letter) (*models.Letter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var letters []*models.Letter
	if err := s.read(keyLetters, &letters); err != nil {
		return nil, err
	}

	if letter.ID == "" {
		letter.ID = localID()
	}
	now := time.Now().UTC()
	if letter.CreatedAt.IsZero() {
		letter.CreatedAt = now
	}
	letter.UpdatedAt = now
	if letter.Status == "" {
		letter.Status = types.LetterDraft
	}

	letters = append(letters, letter)
	if err := s.write(keyLetters, letters); err != nil {
		return nil, err
	}
	return letter, nil
}

// UpdateLetter replaces the stored letter with the same id.
func (s *LocalStore) UpdateLetter(ctx context.Context, letter *models.Letter) (*models.Letter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var letters []*models.Letter
	if err := s.read(keyLetters, &letters); err != nil {
		return nil, err
	}

	for i, l := range letters {
		if l.ID == letter.ID {
			letter.CreatedAt = l.CreatedAt
			letter.UpdatedAt = time.Now().UTC()
			letters[i] = letter
			if err := s.write(keyLetters, letters); err != nil {
				return nil, err
			}
			return letter, nil
		}
	}
	return nil, &types.ServiceError{Code: types.CodeNotFound, Message: "letter not found: " + letter.ID}
}

// DeleteLetter removes the letter with the matching id; absent ids are a no-op.
func (s *LocalStore) DeleteLetter(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var letters []*models.Letter
	if err := s.read(keyLetters, &letters); err != nil {
		return err
	}

	kept := letters[:0]
	for _, l := range letters {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(letters) {
		return nil
	}
	return s.write(keyLetters, kept)
}

// ListApplications returns all stored applications in insertion order.
func (s *LocalStore) ListApplications(ctx context.Context) ([]*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var apps []*models.Application
	if err := s.read(keyApplications, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// InsertApplication appends an application and persists the sequence.
func (s *LocalStore) InsertApplication(ctx context.Context, app *models.Application) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var apps []*models.Application
	if err := s.read(keyApplications, &apps); err != nil {
		return nil, err
	}

	if app.ID == "" {
		app.ID = localID()
	}
	now := time.Now().UTC()
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = types.ApplicationDraft
	}

	apps = append(apps, app)
	if err := s.write(keyApplications, apps); err != nil {
		return nil, err
	}
	return app, nil
}

// UpdateApplication replaces the stored application with the same id.
func (s *LocalStore) UpdateApplication(ctx context.Context, app *models.Application) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var apps []*models.Application
	if err := s.read(keyApplications, &apps); err != nil {
		return nil, err
	}

	for i, a := range apps {
		if a.ID == app.ID {
			app.CreatedAt = a.CreatedAt
			app.UpdatedAt = time.Now().UTC()
			apps[i] = app
			if err := s.write(keyApplications, apps); err != nil {
				return nil, err
			}
			return app, nil
		}
	}
	return nil, &types.ServiceError{Code: types.CodeNotFound, Message: "application not found: " + app.ID}
}

// SaveSession persists the demo session under the well-known session key.
// Implements auth.SessionStore.
func (s *LocalStore) SaveSession(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(keySession, user)
}

// LoadSession returns the persisted demo session, or nil when absent.
func (s *LocalStore) LoadSession() (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var user models.User
	if err := s.read(keySession, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, nil
	}
	return &user, nil
}

// ClearSession removes the persisted demo session.
func (s *LocalStore) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(keySession)
}
