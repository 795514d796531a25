package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/volunteer-hub/internal/models"
	"github.com/volunteer-hub/internal/types"
)

// HoursRepository handles hours_log persistence against the hosted backend.
// Every operation takes the authenticated user's id explicitly; caller-
// supplied owner fields on the row are ignored.
type HoursRepository struct {
	db *PostgresDB
}

// NewHoursRepository creates a new hours repository
func NewHoursRepository(db *PostgresDB) *HoursRepository {
	return &HoursRepository{db: db}
}

// List returns the user's hours entries matching the filter, oldest first.
func (r *HoursRepository) List(ctx context.Context, userID string, filter *models.HoursFilter) ([]*models.HoursEntry, error) {
	query := `
		SELECT id, user_id, organization, to_char(date, 'YYYY-MM-DD'),
			hours, activity_type, description, supervisor, status,
			verified_by, verified_at, people_served, impact_notes, created_at
		FROM hours_log
		WHERE user_id = $1
	`
	args := []interface{}{userID}

	if filter != nil {
		if filter.Organization != "" {
			args = append(args, filter.Organization)
			query += " AND organization = $" + strconv.Itoa(len(args))
		}
		if filter.DateFrom != "" {
			args = append(args, filter.DateFrom)
			query += " AND date >= $" + strconv.Itoa(len(args))
		}
		if filter.DateTo != "" {
			args = append(args, filter.DateTo)
			query += " AND date <= $" + strconv.Itoa(len(args))
		}
		if filter.Status != "" {
			args = append(args, filter.Status)
			query += " AND status = $" + strconv.Itoa(len(args))
		}
	}
	query += " ORDER BY created_at ASC"

	rows, err := r.db.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list hours: %w", err)
	}
	defer rows.Close()

	var entries []*models.HoursEntry
	for rows.Next() {
		var e models.HoursEntry
		err := rows.Scan(
			&e.ID, &e.UserID, &e.Organization, &e.Date, &e.Hours,
			&e.ActivityType, &e.Description, &e.Supervisor, &e.Status,
			&e.VerifiedBy, &e.VerifiedAt, &e.PeopleServed, &e.ImpactNotes,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hours entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate hours: %w", err)
	}
	return entries, nil
}

// Insert creates a new entry stamped with the authenticated user's id.
func (r *HoursRepository) Insert(ctx context.Context, userID string, entry *models.HoursEntry) (*models.HoursEntry, error) {
	entry.ID = uuid.New().String()
	entry.UserID = userID // always the session user, never the payload
	entry.CreatedAt = time.Now().UTC()
	if entry.Status == "" {
		entry.Status = types.HoursPending
	}
	if entry.ActivityType == "" {
		entry.ActivityType = types.ActivityDirectService
	}

	query := `
		INSERT INTO hours_log (
			id, user_id, organization, date, hours, activity_type,
			description, supervisor, status, verified_by, verified_at,
			people_served, impact_notes, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		entry.ID, entry.UserID, entry.Organization, entry.Date,
		entry.Hours, entry.ActivityType, entry.Description,
		entry.Supervisor, entry.Status, entry.VerifiedBy, entry.VerifiedAt,
		entry.PeopleServed, entry.ImpactNotes, entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert hours entry: %w", err)
	}
	return entry, nil
}

// Verify applies a verification decision to the user's entry and returns
// the updated row. The user_id predicate mirrors the backend row policy.
func (r *HoursRepository) Verify(ctx context.Context, userID, id string, v *models.HoursVerification) (*models.HoursEntry, error) {
	status := types.HoursRejected
	if v.Approved {
		status = types.HoursVerified
	}

	query := `
		UPDATE hours_log
		SET status = $1, verified_by = $2, verified_at = $3,
			impact_notes = CASE WHEN $4 <> '' THEN $4 ELSE impact_notes END
		WHERE id = $5 AND user_id = $6
		RETURNING id, user_id, organization, to_char(date, 'YYYY-MM-DD'),
			hours, activity_type, description, supervisor, status,
			verified_by, verified_at, people_served, impact_notes, created_at
	`

	var e models.HoursEntry
	err := r.db.Pool().QueryRow(ctx, query,
		status, v.VerifiedBy, time.Now().UTC(), v.Notes, id, userID,
	).Scan(
		&e.ID, &e.UserID, &e.Organization, &e.Date, &e.Hours,
		&e.ActivityType, &e.Description, &e.Supervisor, &e.Status,
		&e.VerifiedBy, &e.VerifiedAt, &e.PeopleServed, &e.ImpactNotes,
		&e.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, errNotFound("hours entry", id)
		}
		return nil, fmt.Errorf("failed to verify hours entry: %w", err)
	}
	return &e, nil
}

// Delete removes the user's entry with the matching id. Deleting an absent
// id is a no-op; the user_id predicate mirrors the backend row policy.
func (r *HoursRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM hours_log WHERE id = $1 AND user_id = $2`

	_, err := r.db.Pool().Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete hours entry: %w", err)
	}
	return nil
}
