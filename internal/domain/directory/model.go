package directory

import (
	"time"

	"github.com/bloodlink/bloodlink/internal/domain/access"
)

// BloodGroupAll is the sentinel that disables blood group filtering.
const BloodGroupAll = "All"

// Query carries the directory search filters. Name and location are
// case-insensitive substring matches.
type Query struct {
	Name       string
	Location   string
	BloodGroup string
}

// DonorView is one directory hit, shaped for the caller: availability flags
// plus either the phone number or the call-to-action replacing it.
type DonorView struct {
	ID                string              `json:"id"`
	Name              string              `json:"name"`
	BloodGroup        string              `json:"blood_group"`
	Location          string              `json:"location,omitempty"`
	ProfileColor      string              `json:"profile_color"`
	Available         bool                `json:"available"`
	DaysSinceDonation int                 `json:"days_since_donation"`
	NextEligible      *time.Time          `json:"next_eligible,omitempty"`
	ContactState      access.ContactState `json:"contact_state"`
	// Phone is set only when the contact state exposes it and the donor is
	// not cooling.
	Phone string `json:"phone,omitempty"`
}
