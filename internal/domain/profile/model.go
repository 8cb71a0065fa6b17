package profile

import "time"

// Roles a profile can hold. Donors appear in the directory and may respond
// to blood requests; plain users can post requests and ask for contact access.
const (
	RoleUser  = "user"
	RoleDonor = "donor"
)

// DefaultColor is the avatar color assigned when signup omits one.
const DefaultColor = "#CE1126"

var validBloodGroups = map[string]bool{
	"A+": true, "A-": true, "B+": true, "B-": true,
	"AB+": true, "AB-": true, "O+": true, "O-": true,
}

// ValidBloodGroup reports whether g is one of the eight ABO/Rh groups.
func ValidBloodGroup(g string) bool { return validBloodGroups[g] }

// Profile maps to the user_profile table. The ID is the identity provider's
// subject and is assigned at signup, never by this service.
type Profile struct {
	ID                  string     `db:"id" json:"id"`
	Name                string     `db:"name" json:"name"`
	Phone               string     `db:"phone" json:"phone"`
	Email               string     `db:"email" json:"email"`
	Role                string     `db:"role" json:"role"`
	BloodGroup          string     `db:"blood_group" json:"blood_group,omitempty"`
	Location            string     `db:"location" json:"location,omitempty"`
	ProfileColor        string     `db:"profile_color" json:"profile_color"`
	ProfileLocked       bool       `db:"profile_locked" json:"profile_locked"`
	LastDonationDate    *time.Time `db:"last_donation_date" json:"last_donation_date,omitempty"`
	DonationCooldownEnd *time.Time `db:"donation_cooldown_end" json:"donation_cooldown_end,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// IsDonor reports whether the profile is a donor.
func (p *Profile) IsDonor() bool { return p.Role == RoleDonor }

// Update is the set of mutable fields for a whole-field profile edit.
// Email and role are fixed at creation; role changes go through UpgradeToDonor.
type Update struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	BloodGroup    string `json:"blood_group"`
	Location      string `json:"location"`
	ProfileColor  string `json:"profile_color"`
	ProfileLocked bool   `json:"profile_locked"`
}

// Stats is the signup-page summary: how many donors are registered and how
// many blood requests are currently on the board.
type Stats struct {
	TotalDonors       int `json:"total_donors"`
	OpenBloodRequests int `json:"open_blood_requests"`
}
