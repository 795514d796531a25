package models

import (
	"time"

	"github.com/volunteer-hub/internal/types"
)

// Letter represents a generated or hand-written letter owned by one user.
// OpportunityID is set when the letter was written for a specific listing.
type Letter struct {
	ID            string             `json:"id" db:"id"`
	UserID        string             `json:"userId" db:"user_id"`
	OpportunityID string             `json:"opportunityId,omitempty" db:"opportunity_id"`
	Type          types.LetterType   `json:"type" db:"letter_type"`
	Subject       string             `json:"subject" db:"subject"`
	Content       string             `json:"content" db:"content"`
	Status        types.LetterStatus `json:"status" db:"status"`
	CreatedAt     time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time          `json:"updatedAt" db:"updated_at"`
}

// Application tracks a user's application to an opportunity.
type Application struct {
	ID            string                  `json:"id" db:"id"`
	UserID        string                  `json:"userId" db:"user_id"`
	OpportunityID string                  `json:"opportunityId" db:"opportunity_id"`
	Status        types.ApplicationStatus `json:"status" db:"status"`
	Notes         string                  `json:"notes,omitempty" db:"notes"`
	SubmittedAt   *time.Time              `json:"submittedAt,omitempty" db:"submitted_at"`
	CreatedAt     time.Time               `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time               `json:"updatedAt" db:"updated_at"`
}
