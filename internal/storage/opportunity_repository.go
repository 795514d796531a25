package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/volunteer-hub/internal/models"
)

const defaultOpportunityLimit = 50

const opportunityColumns = `
	id, source, source_id, source_url, title, organization, organization_url,
	description, requirements, location_city, location_state, is_virtual,
	cause_areas, skills_needed, hours_per_week_min, hours_per_week_max,
	is_active, created_at, updated_at
`

// OpportunityRepository reads the shared opportunity directory. Rows are
// written only by the ingestion job running with the service-role DSN;
// client-facing reads never touch inactive rows.
type OpportunityRepository struct {
	db *PostgresDB
}

// NewOpportunityRepository creates a new opportunity repository
func NewOpportunityRepository(db *PostgresDB) *OpportunityRepository {
	return &OpportunityRepository{db: db}
}

func scanOpportunity(row interface{ Scan(...any) error }) (*models.Opportunity, error) {
	var o models.Opportunity
	err := row.Scan(
		&o.ID, &o.Source, &o.SourceID, &o.SourceURL, &o.Title,
		&o.Organization, &o.OrganizationURL, &o.Description, &o.Requirements,
		&o.LocationCity, &o.LocationState, &o.IsVirtual,
		&o.CauseAreas, &o.SkillsNeeded, &o.HoursPerWeekMin, &o.HoursPerWeekMax,
		&o.IsActive, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// List returns active opportunities matching the filter, newest first.
func (r *OpportunityRepository) List(ctx context.Context, filter *models.OpportunityFilter) ([]*models.Opportunity, error) {
	query := `SELECT ` + opportunityColumns + ` FROM opportunities WHERE is_active = true`
	args := []any{}

	if filter != nil {
		if filter.CauseArea != "" {
			args = append(args, filter.CauseArea)
			query += ` AND $` + strconv.Itoa(len(args)) + ` = ANY(cause_areas)`
		}
		if filter.IsVirtual != nil {
			args = append(args, *filter.IsVirtual)
			query += ` AND is_virtual = $` + strconv.Itoa(len(args))
		}
	}

	limit := defaultOpportunityLimit
	if filter != nil && filter.Limit > 0 {
		limit = filter.Limit
	}
	args = append(args, limit)
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args))

	rows, err := r.db.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list opportunities: %w", err)
	}
	defer rows.Close()

	var opps []*models.Opportunity
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan opportunity: %w", err)
		}
		opps = append(opps, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate opportunities: %w", err)
	}
	return opps, nil
}

// Get returns a single active opportunity, or nil when absent or inactive.
func (r *OpportunityRepository) Get(ctx context.Context, id string) (*models.Opportunity, error) {
	query := `SELECT ` + opportunityColumns + ` FROM opportunities WHERE id = $1 AND is_active = true`

	o, err := scanOpportunity(r.db.Pool().QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get opportunity: %w", err)
	}
	return o, nil
}

// Upsert writes an ingested opportunity keyed by source and source id.
// Privileged path used only by the ingestion command.
func (r *OpportunityRepository) Upsert(ctx context.Context, o *models.Opportunity) (*models.Opportunity, error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now

	query := `
		INSERT INTO opportunities (` + opportunityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (source, source_id) DO UPDATE SET
			source_url = EXCLUDED.source_url,
			title = EXCLUDED.title,
			organization = EXCLUDED.organization,
			organization_url = EXCLUDED.organization_url,
			description = EXCLUDED.description,
			requirements = EXCLUDED.requirements,
			location_city = EXCLUDED.location_city,
			location_state = EXCLUDED.location_state,
			is_virtual = EXCLUDED.is_virtual,
			cause_areas = EXCLUDED.cause_areas,
			skills_needed = EXCLUDED.skills_needed,
			hours_per_week_min = EXCLUDED.hours_per_week_min,
			hours_per_week_max = EXCLUDED.hours_per_week_max,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Pool().Exec(ctx, query,
		o.ID, o.Source, o.SourceID, o.SourceURL, o.Title,
		o.Organization, o.OrganizationURL, o.Description, o.Requirements,
		o.LocationCity, o.LocationState, o.IsVirtual,
		o.CauseAreas, o.SkillsNeeded, o.HoursPerWeekMin, o.HoursPerWeekMax,
		o.IsActive, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert opportunity: %w", err)
	}
	return o, nil
}

// DeactivateStale marks rows from a source inactive when the ingestion run
// has not touched them since the cutoff.
func (r *OpportunityRepository) DeactivateStale(ctx context.Context, source string, cutoff time.Time) (int64, error) {
	query := `
		UPDATE opportunities SET is_active = false, updated_at = now()
		WHERE source = $1 AND updated_at < $2 AND is_active = true
	`

	tag, err := r.db.Pool().Exec(ctx, query, source, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate stale opportunities: %w", err)
	}
	return tag.RowsAffected(), nil
}
