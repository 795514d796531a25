// Package types provides common type definitions for the volunteer hub system.
package types

// StoreMode represents which data-access backend is serving operations
type StoreMode string

const (
	// ModeRemote means operations are served by the hosted Postgres backend
	ModeRemote StoreMode = "remote"
	// ModeLocal means operations are served by the local JSON fallback store
	ModeLocal StoreMode = "local"
)

// LetterType represents the kind of letter to generate
type LetterType string

const (
	// LetterApplication is a volunteer application letter
	LetterApplication LetterType = "application"
	// LetterThankYou is a thank-you note after volunteering
	LetterThankYou LetterType = "thank_you"
	// LetterOutreach is an inquiry about volunteer opportunities
	LetterOutreach LetterType = "outreach"
	// LetterFollowUp follows up on a previous application or inquiry
	LetterFollowUp LetterType = "follow_up"
	// LetterPartnership proposes an organization partnership
	LetterPartnership LetterType = "partnership"
	// LetterRecommendationRequest asks for a letter of recommendation
	LetterRecommendationRequest LetterType = "recommendation_request"
	// LetterConfirmation confirms a volunteer commitment
	LetterConfirmation LetterType = "confirmation"
	// LetterCancellation cancels or reschedules a volunteer session
	LetterCancellation LetterType = "cancellation"
)

// LetterStatus represents the lifecycle state of a stored letter
type LetterStatus string

const (
	// LetterDraft is a letter that has not been sent
	LetterDraft LetterStatus = "draft"
	// LetterSent is a letter the user has marked as sent
	LetterSent LetterStatus = "sent"
)

// HoursStatus represents the verification state of a logged hours entry
type HoursStatus string

const (
	// HoursPending means the entry has not been reviewed yet
	HoursPending HoursStatus = "pending"
	// HoursVerified means a supervisor confirmed the entry
	HoursVerified HoursStatus = "verified"
	// HoursRejected means the entry was rejected on review
	HoursRejected HoursStatus = "rejected"
	// HoursDisputed means the entry is under dispute
	HoursDisputed HoursStatus = "disputed"
)

// ActivityType categorizes a volunteer activity
type ActivityType string

const (
	// ActivityDirectService is hands-on service to people or animals
	ActivityDirectService ActivityType = "direct_service"
	// ActivityIndirectService supports service delivery behind the scenes
	ActivityIndirectService ActivityType = "indirect_service"
	// ActivityFundraising is fundraising work
	ActivityFundraising ActivityType = "fundraising"
	// ActivityAdvocacy is advocacy or awareness work
	ActivityAdvocacy ActivityType = "advocacy"
	// ActivityTraining is training or onboarding time
	ActivityTraining ActivityType = "training"
	// ActivityAdministrative is administrative work
	ActivityAdministrative ActivityType = "administrative"
	// ActivityTravel is travel time related to service
	ActivityTravel ActivityType = "travel"
	// ActivityOther is anything not covered above
	ActivityOther ActivityType = "other"
)

// ReportPeriod selects the time window for hours reports
type ReportPeriod string

const (
	// PeriodWeek covers the last 7 days
	PeriodWeek ReportPeriod = "week"
	// PeriodMonth covers the last 30 days
	PeriodMonth ReportPeriod = "month"
	// PeriodQuarter covers the last 90 days
	PeriodQuarter ReportPeriod = "quarter"
	// PeriodYear covers the last 365 days
	PeriodYear ReportPeriod = "year"
	// PeriodAll covers the full history
	PeriodAll ReportPeriod = "all"
)

// ApplicationStatus represents the state of an opportunity application
type ApplicationStatus string

const (
	// ApplicationDraft is an application being prepared
	ApplicationDraft ApplicationStatus = "draft"
	// ApplicationSubmitted is an application sent to the organization
	ApplicationSubmitted ApplicationStatus = "submitted"
	// ApplicationAccepted is an accepted application
	ApplicationAccepted ApplicationStatus = "accepted"
	// ApplicationDeclined is a declined application
	ApplicationDeclined ApplicationStatus = "declined"
)

// ServiceError represents a structured error response
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Error codes shared between the storage layer and the API surface
const (
	// CodeUnauthenticated means a per-user operation was attempted with no session
	CodeUnauthenticated = "UNAUTHENTICATED"
	// CodeValidation means input validation failed, no state was changed
	CodeValidation = "VALIDATION_FAILED"
	// CodeNotFound means the requested row does not exist
	CodeNotFound = "NOT_FOUND"
	// CodeBackend means the remote backend reported a failure
	CodeBackend = "BACKEND_ERROR"
	// CodeUnavailable means the operation cannot be served in the current mode
	CodeUnavailable = "SERVICE_UNAVAILABLE"
)

// Unauthenticated returns the error raised when a per-user operation has no session
func Unauthenticated() *ServiceError {
	return &ServiceError{
		Code:    CodeUnauthenticated,
		Message: "no authenticated user for per-user operation",
	}
}

// ValidationError returns a validation failure with a field hint
func ValidationError(message, field string) *ServiceError {
	return &ServiceError{
		Code:    CodeValidation,
		Message: message,
		Details: map[string]interface{}{"field": field},
	}
}
