package models

import "time"

// Profile represents a volunteer profile, one per user. The row id equals
// the owning user's id. All demographic, skill and availability fields are
// optional; ProfileComplete gates onboarding.
type Profile struct {
	ID                    string    `json:"id" db:"id"`
	Email                 string    `json:"email,omitempty" db:"email"`
	DisplayName           string    `json:"displayName,omitempty" db:"display_name"`
	AvatarURL             string    `json:"avatarUrl,omitempty" db:"avatar_url"`
	FirstName             string    `json:"firstName,omitempty" db:"first_name"`
	LastName              string    `json:"lastName,omitempty" db:"last_name"`
	Phone                 string    `json:"phone,omitempty" db:"phone"`
	City                  string    `json:"city,omitempty" db:"city"`
	State                 string    `json:"state,omitempty" db:"state"`
	ZipCode               string    `json:"zipCode,omitempty" db:"zip_code"`
	DateOfBirth           string    `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	Skills                []string  `json:"skills,omitempty" db:"skills"`
	CausesInterested      []string  `json:"causesInterested,omitempty" db:"causes_interested"`
	Languages             []string  `json:"languages,omitempty" db:"languages"`
	Experience            string    `json:"experience,omitempty" db:"experience"`
	AvailabilityHoursWeek int       `json:"availabilityHoursPerWeek,omitempty" db:"availability_hours_per_week"`
	PrefersVirtual        bool      `json:"prefersVirtual" db:"prefers_virtual"`
	EmergencyContactName  string    `json:"emergencyContactName,omitempty" db:"emergency_contact_name"`
	EmergencyContactPhone string    `json:"emergencyContactPhone,omitempty" db:"emergency_contact_phone"`
	ProfileComplete       bool      `json:"profileComplete" db:"profile_complete"`
	CreatedAt             time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt             time.Time `json:"updatedAt" db:"updated_at"`
}

// ProfileUpdate carries the fields of a partial profile update. Nil fields
// are left untouched by the merge; see Apply.
type ProfileUpdate struct {
	Email                 *string   `json:"email,omitempty"`
	DisplayName           *string   `json:"displayName,omitempty"`
	AvatarURL             *string   `json:"avatarUrl,omitempty"`
	FirstName             *string   `json:"firstName,omitempty"`
	LastName              *string   `json:"lastName,omitempty"`
	Phone                 *string   `json:"phone,omitempty"`
	City                  *string   `json:"city,omitempty"`
	State                 *string   `json:"state,omitempty"`
	ZipCode               *string   `json:"zipCode,omitempty"`
	DateOfBirth           *string   `json:"dateOfBirth,omitempty"`
	Skills                *[]string `json:"skills,omitempty"`
	CausesInterested      *[]string `json:"causesInterested,omitempty"`
	Languages             *[]string `json:"languages,omitempty"`
	Experience            *string   `json:"experience,omitempty"`
	AvailabilityHoursWeek *int      `json:"availabilityHoursPerWeek,omitempty"`
	PrefersVirtual        *bool     `json:"prefersVirtual,omitempty"`
	EmergencyContactName  *string   `json:"emergencyContactName,omitempty"`
	EmergencyContactPhone *string   `json:"emergencyContactPhone,omitempty"`
	ProfileComplete       *bool     `json:"profileComplete,omitempty"`
}

// Apply merges the update into the profile in place. Only non-nil fields
// change; UpdatedAt is the caller's responsibility so that both stores
// refresh it consistently.
func (u *ProfileUpdate) Apply(p *Profile) {
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.DisplayName != nil {
		p.DisplayName = *u.DisplayName
	}
	if u.AvatarURL != nil {
		p.AvatarURL = *u.AvatarURL
	}
	if u.FirstName != nil {
		p.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		p.LastName = *u.LastName
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.City != nil {
		p.City = *u.City
	}
	if u.State != nil {
		p.State = *u.State
	}
	if u.ZipCode != nil {
		p.ZipCode = *u.ZipCode
	}
	if u.DateOfBirth != nil {
		p.DateOfBirth = *u.DateOfBirth
	}
	if u.Skills != nil {
		p.Skills = *u.Skills
	}
	if u.CausesInterested != nil {
		p.CausesInterested = *u.CausesInterested
	}
	if u.Languages != nil {
		p.Languages = *u.Languages
	}
	if u.Experience != nil {
		p.Experience = *u.Experience
	}
	if u.AvailabilityHoursWeek != nil {
		p.AvailabilityHoursWeek = *u.AvailabilityHoursWeek
	}
	if u.PrefersVirtual != nil {
		p.PrefersVirtual = *u.PrefersVirtual
	}
	if u.EmergencyContactName != nil {
		p.EmergencyContactName = *u.EmergencyContactName
	}
	if u.EmergencyContactPhone != nil {
		p.EmergencyContactPhone = *u.EmergencyContactPhone
	}
	if u.ProfileComplete != nil {
		p.ProfileComplete = *u.ProfileComplete
	}
}
