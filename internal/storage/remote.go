package storage

import (
	"context"
	"time"

	"github.com/volunteer-hub/internal/auth"
	"github.com/volunteer-hub/internal/models"
	"github.com/volunteer-hub/internal/types"
)

// RemoteStore serves data from the hosted Postgres backend. Every per-user
// operation requires an authenticated user in the context and fails with
// an unauthenticated error before any query is issued when there is none.
type RemoteStore struct {
	db           *PostgresDB
	profiles     *ProfileRepository
	hours        *HoursRepository
	events       *EventRepository
	letters      *LetterRepository
	applications *ApplicationRepository
}

// NewRemoteStore creates a remote store over an initialized connection pool.
func NewRemoteStore(db *PostgresDB) *RemoteStore {
	return &RemoteStore{
		db:           db,
		profiles:     NewProfileRepository(db),
		hours:        NewHoursRepository(db),
		events:       NewEventRepository(db),
		letters:      NewLetterRepository(db),
		applications: NewApplicationRepository(db),
	}
}

// Mode reports the remote backend mode.
func (s *RemoteStore) Mode() types.StoreMode {
	return types.ModeRemote
}

// requireUser returns the session user's id, or the unauthenticated error
// that every remote per-user operation surfaces before touching the pool.
func requireUser(ctx context.Context) (string, error) {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return "", types.Unauthenticated()
	}
	return user.ID, nil
}

func (s *RemoteStore) GetProfile(ctx context.Context) (*models.Profile, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		// An account with no saved profile row reads as an empty profile.
		return &models.Profile{ID: userID}, nil
	}
	return profile, nil
}

func (s *RemoteStore) UpdateProfile(ctx context.Context, update *models.ProfileUpdate) (*models.Profile, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &models.Profile{ID: userID, CreatedAt: time.Now().UTC()}
	}
	update.Apply(profile)
	profile.UpdatedAt = touch(profile.UpdatedAt)
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *RemoteStore) ListHours(ctx context.Context, filter *models.HoursFilter) ([]*models.HoursEntry, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.hours.List(ctx, userID, filter)
}

func (s *RemoteStore) InsertHours(ctx context.Context, entry *models.HoursEntry) (*models.HoursEntry, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.hours.Insert(ctx, userID, entry)
}

func (s *RemoteStore) VerifyHours(ctx context.Context, id string, v *models.HoursVerification) (*models.HoursEntry, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.hours.Verify(ctx, userID, id, v)
}

func (s *RemoteStore) DeleteHours(ctx context.Context, id string) error {
	userID, err := requireUser(ctx)
	if err != nil {
		return err
	}
	return s.hours.Delete(ctx, userID, id)
}

func (s *RemoteStore) ListEvents(ctx context.Context, filter *models.EventFilter) ([]*models.Event, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.events.List(ctx, userID, filter)
}

func (s *RemoteStore) InsertEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.events.Insert(ctx, userID, event)
}

func (s *RemoteStore) UpdateEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.events.Update(ctx, userID, event)
}

func (s *RemoteStore) DeleteEvent(ctx context.Context, id string) error {
	userID, err := requireUser(ctx)
	if err != nil {
		return err
	}
	return s.events.Delete(ctx, userID, id)
}

func (s *RemoteStore) ListLetters(ctx context.Context) ([]*models.Letter, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.letters.List(ctx, userID)
}

func (s *RemoteStore) InsertLetter(ctx context.Context, letter *models.Letter) (*models.Letter, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.letters.Insert(ctx, userID, letter)
}

func (s *RemoteStore) UpdateLetter(ctx context.Context, letter *models.Letter) (*models.Letter, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.letters.Update(ctx, userID, letter)
}

func (s *RemoteStore) DeleteLetter(ctx context.Context, id string) error {
	userID, err := requireUser(ctx)
	if err != nil {
		return err
	}
	return s.letters.Delete(ctx, userID, id)
}

func (s *RemoteStore) ListApplications(ctx context.Context) ([]*models.Application, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.applications.List(ctx, userID)
}

func (s *RemoteStore) InsertApplication(ctx context.Context, app *models.Application) (*models.Application, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.applications.Insert(ctx, userID, app)
}

func (s *RemoteStore) UpdateApplication(ctx context.Context, app *models.Application) (*models.Application, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.applications.Update(ctx, userID, app)
}
