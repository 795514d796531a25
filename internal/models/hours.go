package models

import (
	"time"

	"github.com/volunteer-hub/internal/types"
)

// HoursEntry represents a single logged block of volunteer hours. Entries
// belong to exactly one user and are append-only from the user's
// perspective; only the owner may delete them.
type HoursEntry struct {
	ID           string             `json:"id" db:"id"`
	UserID       string             `json:"userId" db:"user_id"`
	Organization string             `json:"organization" db:"organization"`
	Date         string             `json:"date" db:"date"` // YYYY-MM-DD
	Hours        float64            `json:"hours" db:"hours"`
	ActivityType types.ActivityType `json:"activityType" db:"activity_type"`
	Description  string             `json:"description,omitempty" db:"description"`
	Supervisor   string             `json:"supervisor,omitempty" db:"supervisor"`
	Status       types.HoursStatus  `json:"status" db:"status"`
	VerifiedBy   string             `json:"verifiedBy,omitempty" db:"verified_by"`
	VerifiedAt   *time.Time         `json:"verifiedAt,omitempty" db:"verified_at"`
	PeopleServed int                `json:"peopleServed,omitempty" db:"people_served"`
	ImpactNotes  string             `json:"impactNotes,omitempty" db:"impact_notes"`
	CreatedAt    time.Time          `json:"createdAt" db:"created_at"`
}

// HoursVerification records a supervisor's decision on a logged entry.
// Approval marks the entry verified, otherwise it is rejected; both stamp
// the verifier and decision time.
type HoursVerification struct {
	VerifiedBy string `json:"verifiedBy"`
	Approved   bool   `json:"approved"`
	Notes      string `json:"notes,omitempty"`
}

// HoursFilter narrows an hours listing by equality and date-range
// predicates. Zero values mean "no constraint".
type HoursFilter struct {
	Organization string
	DateFrom     string // inclusive, YYYY-MM-DD
	DateTo       string // inclusive, YYYY-MM-DD
	Status       types.HoursStatus
}

// Matches reports whether the entry satisfies every set predicate.
func (f *HoursFilter) Matches(e *HoursEntry) bool {
	if f.Organization != "" && e.Organization != f.Organization {
		return false
	}
	if f.DateFrom != "" && e.Date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && e.Date > f.DateTo {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	return true
}
