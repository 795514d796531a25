package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/volunteer-hub/internal/models"
	"github.com/volunteer-hub/internal/types"
)

// LetterRepository handles letter persistence against the hosted backend
type LetterRepository struct {
	db *PostgresDB
}

// NewLetterRepository creates a new letter repository
func NewLetterRepository(db *PostgresDB) *LetterRepository {
	return &LetterRepository{db: db}
}

// List returns the user's letters, oldest first.
func (r *LetterRepository) List(ctx context.Context, userID string) ([]*models.Letter, error) {
	query := `
		SELECT id, user_id, COALESCE(opportunity_id::text, ''), letter_type,
			subject, content, status, created_at, updated_at
		FROM letters
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Pool().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list letters: %w", err)
	}
	defer rows.Close()

	var letters []*models.Letter
	for rows.Next() {
		var l models.Letter
		err := rows.Scan(
			&l.ID, &l.UserID, &l.OpportunityID, &l.Type, &l.Subject,
			&l.Content, &l.Status, &l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan letter: %w", err)
		}
		letters = append(letters, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate letters: %w", err)
	}
	return letters, nil
}

// Insert creates a new letter stamped with the authenticated user's id.
func (r *LetterRepository) Insert(ctx context.Context, userID string, letter *models.Letter) (*models.Letter, error) {
	letter.ID = uuid.New().String()
	letter.UserID = userID
	now := time.Now().UTC()
	letter.CreatedAt = now
	letter.UpdatedAt = now
	if letter.Status == "" {
		letter.Status = types.LetterDraft
	}

	query := `
		INSERT INTO letters (
			id, user_id, opportunity_id, letter_type, subject, content,
			status, created_at, updated_at
		)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		letter.ID, letter.UserID, letter.OpportunityID, letter.Type,
		letter.Subject, letter.Content, letter.Status,
		letter.CreatedAt, letter.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert letter: %w", err)
	}
	return letter, nil
}

// Update rewrites the user's letter; both predicates carry the owner id.
func (r *LetterRepository) Update(ctx context.Context, userID string, letter *models.Letter) (*models.Letter, error) {
	letter.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE letters SET
			opportunity_id = NULLIF($3, '')::uuid, letter_type = $4,
			subject = $5, content = $6, status = $7, updated_at = $8
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.db.Pool().Exec(ctx, query,
		letter.ID, userID, letter.OpportunityID, letter.Type,
		letter.Subject, letter.Content, letter.Status, letter.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update letter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, errNotFound("letter", letter.ID)
	}
	letter.UserID = userID
	return letter, nil
}

// Delete removes the user's letter with the matching id; absent ids are a no-op.
func (r *LetterRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM letters WHERE id = $1 AND user_id = $2`

	_, err := r.db.Pool().Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete letter: %w", err)
	}
	return nil
}
