package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/volunteer-hub/internal/models"
)

// RecommendationRepository stores scored user-opportunity matches. The
// (user_id, opportunity_id) pair is unique; regeneration upserts in place
// so dismiss and save flags survive a rescore.
type RecommendationRepository struct {
	db *PostgresDB
}

// NewRecommendationRepository creates a new recommendation repository
func NewRecommendationRepository(db *PostgresDB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

// ListForUser returns the user's recommendations, highest score first.
// Dismissed rows are excluded unless includeDismissed is set, and rows
// whose opportunity has since been deactivated never surface.
func (r *RecommendationRepository) ListForUser(ctx context.Context, userID string, includeDismissed bool) ([]*models.Recommendation, error) {
	query := `
		SELECT r.id, r.user_id, r.opportunity_id, r.score, r.match_reasons,
			r.dismissed, r.saved, r.created_at
		FROM recommendations r
		JOIN opportunities o ON o.id = r.opportunity_id AND o.is_active = true
		WHERE r.user_id = $1
	`
	if !includeDismissed {
		query += ` AND r.dismissed = false`
	}
	query += ` ORDER BY r.score DESC, r.created_at DESC`

	rows, err := r.db.Pool().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	defer rows.Close()

	var recs []*models.Recommendation
	for rows.Next() {
		var rec models.Recommendation
		err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.OpportunityID, &rec.Score,
			&rec.MatchReasons, &rec.Dismissed, &rec.Saved, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		recs = append(recs, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recommendations: %w", err)
	}
	return recs, nil
}

// Upsert writes a scored match. On conflict the score and reasons are
// refreshed; the user's dismissed and saved choices are kept.
func (r *RecommendationRepository) Upsert(ctx context.Context, rec *models.Recommendation) (*models.Recommendation, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO recommendations (
			id, user_id, opportunity_id, score, match_reasons,
			dismissed, saved, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, opportunity_id) DO UPDATE SET
			score = EXCLUDED.score,
			match_reasons = EXCLUDED.match_reasons
	`

	_, err := r.db.Pool().Exec(ctx, query,
		rec.ID, rec.UserID, rec.OpportunityID, rec.Score,
		rec.MatchReasons, rec.Dismissed, rec.Saved, rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert recommendation: %w", err)
	}
	return rec, nil
}

// SetDismissed flips the dismissed flag on the user's recommendation.
func (r *RecommendationRepository) SetDismissed(ctx context.Context, userID, id string, dismissed bool) error {
	return r.setFlag(ctx, userID, id, "dismissed", dismissed)
}

// SetSaved flips the saved flag on the user's recommendation.
func (r *RecommendationRepository) SetSaved(ctx context.Context, userID, id string, saved bool) error {
	return r.setFlag(ctx, userID, id, "saved", saved)
}

func (r *RecommendationRepository) setFlag(ctx context.Context, userID, id, column string, value bool) error {
	// column is one of the two fixed names above, never caller input.
	query := `UPDATE recommendations SET ` + column + ` = $3 WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Pool().Exec(ctx, query, id, userID, value)
	if err != nil {
		return fmt.Errorf("failed to update recommendation %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return errNotFound("recommendation", id)
	}
	return nil
}
