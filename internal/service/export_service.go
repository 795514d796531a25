package service

import (
	"context"
	"errors"
	"time"

	"github.com/volunteer-hub/internal/logging"
	"github.com/volunteer-hub/internal/models"
	"github.com/volunteer-hub/internal/storage"
	"github.com/volunteer-hub/internal/types"
)

// UserExport bundles everything a user owns into one document. The bundle
// is read table by table without a transaction, so a concurrent write can
// tear it; each section that failed to load is listed in Errors instead of
// aborting the whole export.
type UserExport struct {
	ExportedAt   time.Time             `json:"exportedAt"`
	Mode         types.StoreMode       `json:"mode"`
	Profile      *models.Profile       `json:"profile,omitempty"`
	Hours        []*models.HoursEntry  `json:"hours,omitempty"`
	Events       []*models.Event       `json:"events,omitempty"`
	Letters      []*models.Letter      `json:"letters,omitempty"`
	Applications []*models.Application `json:"applications,omitempty"`
	Errors       []string              `json:"errors,omitempty"`
}

// ExportService assembles best-effort full-account exports.
type ExportService struct {
	store  storage.Store
	logger *logging.Logger
}

// NewExportService creates a new export service
func NewExportService(store storage.Store, logger *logging.Logger) *ExportService {
	return &ExportService{store: store, logger: logger}
}

// Export gathers the user's data across every table.
func (s *ExportService) Export(ctx context.Context) (*UserExport, error) {
	export := &UserExport{
		ExportedAt: time.Now().UTC(),
		Mode:       s.store.Mode(),
	}

	profile, err := s.store.GetProfile(ctx)
	if err != nil {
		// An unauthenticated session would fail every section the same
		// way; stop here rather than emit a bundle of failures.
		var svcErr *types.ServiceError
		if errors.As(err, &svcErr) && svcErr.Code == types.CodeUnauthenticated {
			return nil, err
		}
		s.recordFailure(export, "profile", err)
	} else {
		export.Profile = profile
	}

	hours, err := s.store.ListHours(ctx, nil)
	if err != nil {
		s.recordFailure(export, "hours", err)
	} else {
		export.Hours = hours
	}

	events, err := s.store.ListEvents(ctx, nil)
	if err != nil {
		s.recordFailure(export, "events", err)
	} else {
		export.Events = events
	}

	letters, err := s.store.ListLetters(ctx)
	if err != nil {
		s.recordFailure(export, "letters", err)
	} else {
		export.Letters = letters
	}

	apps, err := s.store.ListApplications(ctx)
	if err != nil {
		s.recordFailure(export, "applications", err)
	} else {
		export.Applications = apps
	}

	return export, nil
}

func (s *ExportService) recordFailure(export *UserExport, section string, err error) {
	s.logger.WithError(err).WithField("section", section).Warn("Export section failed")
	export.Errors = append(export.Errors, section+": "+err.Error())
}
