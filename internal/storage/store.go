// Package storage provides the dual-mode data-access layer: a remote
// Postgres-backed store and a local JSON fallback store behind one
// interface, selected once at startup.
package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/volunteer-hub/internal/config"
	"github.com/volunteer-hub/internal/logging"
	"github.com/volunteer-hub/internal/models"
	"github.com/volunteer-hub/internal/types"
)

// Store is the single data-access capability. The remote implementation
// scopes every per-user operation by the authenticated user from the
// context; the local implementation serves one user per data directory.
type Store interface {
	// Mode reports which backend serves this store. Fixed for the life
	// of the process; switching modes mid-session is deliberately not
	// supported and performs no data migration.
	Mode() types.StoreMode

	GetProfile(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, update *models.ProfileUpdate) (*models.Profile, error)

	ListHours(ctx context.Context, filter *models.HoursFilter) ([]*models.HoursEntry, error)
	InsertHours(ctx context.Context, entry *models.HoursEntry) (*models.HoursEntry, error)
	VerifyHours(ctx context.Context, id string, v *models.HoursVerification) (*models.HoursEntry, error)
	DeleteHours(ctx context.Context, id string) error

	ListEvents(ctx context.Context, filter *models.EventFilter) ([]*models.Event, error)
	InsertEvent(ctx context.Context, event *models.Event) (*models.Event, error)
	UpdateEvent(ctx context.Context, event *models.Event) (*models.Event, error)
	DeleteEvent(ctx context.Context, id string) error

	ListLetters(ctx context.Context) ([]*models.Letter, error)
	InsertLetter(ctx context.Context, letter *models.Letter) (*models.Letter, error)
	UpdateLetter(ctx context.Context, letter *models.Letter) (*models.Letter, error)
	DeleteLetter(ctx context.Context, id string) error

	ListApplications(ctx context.Context) ([]*models.Application, error)
	InsertApplication(ctx context.Context, app *models.Application) (*models.Application, error)
	UpdateApplication(ctx context.Context, app *models.Application) (*models.Application, error)
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func errNotFound(resource, id string) *types.ServiceError {
	return &types.ServiceError{
		Code:    types.CodeNotFound,
		Message: resource + " not found: " + id,
	}
}

// SelectStore builds the store for this process. The remote store is used
// iff real backend credentials are configured and the connection pool
// initializes and pings; every failure degrades silently to the local
// fallback store. Callers never see an initialization error from the
// remote path - the returned store is always usable.
func SelectStore(cfg *config.Config, logger *logging.Logger) (Store, *PostgresDB) {
	local, err := NewLocalStore(cfg.LocalStore.Dir)
	if err != nil {
		// The local store only fails when the data directory cannot be
		// created; there is no further fallback below it.
		logger.WithError(err).Fatal("Failed to initialize local store")
	}

	if !cfg.Database.Postgres.IsConfigured() {
		logger.Info("Backend credentials absent or placeholder, using local store")
		return local, nil
	}

	db, err := NewPostgresDB(&cfg.Database.Postgres)
	if err != nil {
		logger.WithError(err).Warn("Backend unreachable, degrading to local store")
		return local, nil
	}

	logger.Info("Connected to hosted backend, using remote store")
	return NewRemoteStore(db), db
}
