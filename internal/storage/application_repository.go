package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/volunteer-hub/internal/models"
	"github.com/volunteer-hub/internal/types"
)

// ApplicationRepository handles application persistence against the hosted backend
type ApplicationRepository struct {
	db *PostgresDB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *PostgresDB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// List returns the user's applications, oldest first.
func (r *ApplicationRepository) List(ctx context.Context, userID string) ([]*models.Application, error) {
	query := `
		SELECT id, user_id, COALESCE(opportunity_id::text, ''), status,
			notes, submitted_at, created_at, updated_at
		FROM applications
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Pool().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		var a models.Application
		err := rows.Scan(
			&a.ID, &a.UserID, &a.OpportunityID, &a.Status,
			&a.Notes, &a.SubmittedAt, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}
	return apps, nil
}

// Insert creates a new application stamped with the authenticated user's id.
func (r *ApplicationRepository) Insert(ctx context.Context, userID string, app *models.Application) (*models.Application, error) {
	app.ID = uuid.New().String()
	app.UserID = userID
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = types.ApplicationDraft
	}

	query := `
		INSERT INTO applications (
			id, user_id, opportunity_id, status, notes, submitted_at,
			created_at, updated_at
		)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		app.ID, app.UserID, app.OpportunityID, app.Status,
		app.Notes, app.SubmittedAt, app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert application: %w", err)
	}
	return app, nil
}

// Update rewrites the user's application by id.
func (r *ApplicationRepository) Update(ctx context.Context, userID string, app *models.Application) (*models.Application, error) {
	app.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE applications SET
			opportunity_id = NULLIF($3, '')::uuid, status = $4,
			notes = $5, submitted_at = $6, updated_at = $7
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.db.Pool().Exec(ctx, query,
		app.ID, userID, app.OpportunityID, app.Status,
		app.Notes, app.SubmittedAt, app.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, errNotFound("application", app.ID)
	}
	app.UserID = userID
	return app, nil
}
