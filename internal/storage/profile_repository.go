package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/volunteer-hub/internal/models"
)

// ProfileRepository handles profile persistence against the hosted backend
type ProfileRepository struct {
	db *PostgresDB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *PostgresDB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `
	id, email, display_name, avatar_url, first_name, last_name, phone,
	city, state, zip_code, date_of_birth, skills, causes_interested,
	languages, experience, availability_hours_per_week, prefers_virtual,
	emergency_contact_name, emergency_contact_phone, profile_complete,
	created_at, updated_at`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.ID, &p.Email, &p.DisplayName, &p.AvatarURL, &p.FirstName,
		&p.LastName, &p.Phone, &p.City, &p.State, &p.ZipCode,
		&p.DateOfBirth, &p.Skills, &p.CausesInterested, &p.Languages,
		&p.Experience, &p.AvailabilityHoursWeek, &p.PrefersVirtual,
		&p.EmergencyContactName, &p.EmergencyContactPhone,
		&p.ProfileComplete, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Get retrieves the profile owned by userID. Returns nil (no error) when
// the profile row does not exist yet.
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	profile, err := scanProfile(r.db.Pool().QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// Upsert writes the full profile row for its owner. The row id always
// equals the owning user's id; the backend additionally enforces this with
// a row-level policy.
func (r *ProfileRepository) Upsert(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO profiles (
			id, email, display_name, avatar_url, first_name, last_name,
			phone, city, state, zip_code, date_of_birth, skills,
			causes_interested, languages, experience,
			availability_hours_per_week, prefers_virtual,
			emergency_contact_name, emergency_contact_phone,
			profile_complete, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			display_name = EXCLUDED.display_name,
			avatar_url = EXCLUDED.avatar_url,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			phone = EXCLUDED.phone,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			zip_code = EXCLUDED.zip_code,
			date_of_birth = EXCLUDED.date_of_birth,
			skills = EXCLUDED.skills,
			causes_interested = EXCLUDED.causes_interested,
			languages = EXCLUDED.languages,
			experience = EXCLUDED.experience,
			availability_hours_per_week = EXCLUDED.availability_hours_per_week,
			prefers_virtual = EXCLUDED.prefers_virtual,
			emergency_contact_name = EXCLUDED.emergency_contact_name,
			emergency_contact_phone = EXCLUDED.emergency_contact_phone,
			profile_complete = EXCLUDED.profile_complete,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Pool().Exec(ctx, query,
		p.ID, p.Email, p.DisplayName, p.AvatarURL, p.FirstName,
		p.LastName, p.Phone, p.City, p.State, p.ZipCode, p.DateOfBirth,
		p.Skills, p.CausesInterested, p.Languages, p.Experience,
		p.AvailabilityHoursWeek, p.PrefersVirtual,
		p.EmergencyContactName, p.EmergencyContactPhone,
		p.ProfileComplete, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// ListComplete returns all profiles with the onboarding flag set. Used by
// the privileged recommendation job, never by the client path.
func (r *ProfileRepository) ListComplete(ctx context.Context) ([]*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE profile_complete = true`

	rows, err := r.db.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list complete profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}
	return profiles, nil
}

// touch is shared by callers that merge updates client-side before the
// upsert: updated_at must be strictly greater than the prior value.
func touch(prev time.Time) time.Time {
	now := time.Now().UTC()
	if !now.After(prev) {
		now = prev.Add(time.Microsecond)
	}
	return now
}
