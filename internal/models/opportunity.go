package models

import "time"

// Opportunity is a shared, publicly readable volunteering listing. It is
// not owned by any user; rows are written only by the external ingestion
// process and readable by everyone while IsActive is true.
type Opportunity struct {
	ID              string    `json:"id" db:"id"`
	Source          string    `json:"source" db:"source"`
	SourceID        string    `json:"sourceId,omitempty" db:"source_id"`
	SourceURL       string    `json:"sourceUrl,omitempty" db:"source_url"`
	Title           string    `json:"title" db:"title"`
	Organization    string    `json:"organization" db:"organization"`
	OrganizationURL string    `json:"organizationUrl,omitempty" db:"organization_url"`
	Description     string    `json:"description,omitempty" db:"description"`
	Requirements    string    `json:"requirements,omitempty" db:"requirements"`
	LocationCity    string    `json:"locationCity,omitempty" db:"location_city"`
	LocationState   string    `json:"locationState,omitempty" db:"location_state"`
	IsVirtual       bool      `json:"isVirtual" db:"is_virtual"`
	CauseAreas      []string  `json:"causeAreas,omitempty" db:"cause_areas"`
	SkillsNeeded    []string  `json:"skillsNeeded,omitempty" db:"skills_needed"`
	HoursPerWeekMin int       `json:"hoursPerWeekMin,omitempty" db:"hours_per_week_min"`
	HoursPerWeekMax int       `json:"hoursPerWeekMax,omitempty" db:"hours_per_week_max"`
	IsActive        bool      `json:"isActive" db:"is_active"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// OpportunityFilter narrows the public opportunity listing. Reads are
// always restricted to active rows regardless of the filter.
type OpportunityFilter struct {
	CauseArea string // containment match against CauseAreas
	IsVirtual *bool  // equality match when set
	Limit     int    // result-count limit; 0 means the server default
}

// Matches reports whether an opportunity satisfies the cause and virtual
// predicates. The limit is applied by the caller.
func (f *OpportunityFilter) Matches(o *Opportunity) bool {
	if !o.IsActive {
		return false
	}
	if f.IsVirtual != nil && o.IsVirtual != *f.IsVirtual {
		return false
	}
	if f.CauseArea != "" {
		found := false
		for _, c := range o.CauseAreas {
			if c == f.CauseArea {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Recommendation pairs a user with an opportunity, uniquely per pair, and
// carries the match score plus dismiss/save flags.
type Recommendation struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"userId" db:"user_id"`
	OpportunityID string    `json:"opportunityId" db:"opportunity_id"`
	Score         int       `json:"score" db:"score"`
	MatchReasons  []string  `json:"matchReasons,omitempty" db:"match_reasons"`
	Dismissed     bool      `json:"dismissed" db:"dismissed"`
	Saved         bool      `json:"saved" db:"saved"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}
