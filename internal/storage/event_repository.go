package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/volunteer-hub/internal/models"
)

// EventRepository handles event persistence against the hosted backend
type EventRepository struct {
	db *PostgresDB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *PostgresDB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `
	id, user_id, title, description, organization, location, starts_at,
	ends_at, duration_minutes, reminder_minutes, created_at, updated_at`

// List returns the user's events matching the filter, oldest first.
func (r *EventRepository) List(ctx context.Context, userID string, filter *models.EventFilter) ([]*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE user_id = $1`
	args := []interface{}{userID}

	if filter != nil {
		if !filter.From.IsZero() {
			args = append(args, filter.From)
			query += " AND starts_at >= $" + strconv.Itoa(len(args))
		}
		if !filter.To.IsZero() {
			args = append(args, filter.To)
			query += " AND starts_at <= $" + strconv.Itoa(len(args))
		}
	}
	query += " ORDER BY created_at ASC"

	rows, err := r.db.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		var e models.Event
		err := rows.Scan(
			&e.ID, &e.UserID, &e.Title, &e.Description, &e.Organization,
			&e.Location, &e.StartsAt, &e.EndsAt, &e.DurationMinutes,
			&e.ReminderMinutes, &e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

// Insert creates a new event stamped with the authenticated user's id.
func (r *EventRepository) Insert(ctx context.Context, userID string, event *models.Event) (*models.Event, error) {
	event.ID = uuid.New().String()
	event.UserID = userID
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	query := `
		INSERT INTO events (
			id, user_id, title, description, organization, location,
			starts_at, ends_at, duration_minutes, reminder_minutes,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		event.ID, event.UserID, event.Title, event.Description,
		event.Organization, event.Location, event.StartsAt, event.EndsAt,
		event.DurationMinutes, event.ReminderMinutes,
		event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}
	return event, nil
}

// Update rewrites the user's event; both predicates carry the owner id.
func (r *EventRepository) Update(ctx context.Context, userID string, event *models.Event) (*models.Event, error) {
	event.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE events SET
			title = $3, description = $4, organization = $5, location = $6,
			starts_at = $7, ends_at = $8, duration_minutes = $9,
			reminder_minutes = $10, updated_at = $11
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.db.Pool().Exec(ctx, query,
		event.ID, userID, event.Title, event.Description,
		event.Organization, event.Location, event.StartsAt, event.EndsAt,
		event.DurationMinutes, event.ReminderMinutes, event.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, errNotFound("event", event.ID)
	}
	event.UserID = userID
	return event, nil
}

// Delete removes the user's event with the matching id; absent ids are a no-op.
func (r *EventRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM events WHERE id = $1 AND user_id = $2`

	_, err := r.db.Pool().Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}
