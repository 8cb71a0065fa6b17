package donation

import "time"

// CooldownDays is the fixed recovery window after a whole-blood donation.
const CooldownDays = 90

// Status describes a donor's availability at a point in time.
type Status struct {
	Available         bool       `json:"available"`
	DaysSinceDonation int        `json:"days_since_donation"`
	NextEligible      *time.Time `json:"next_eligible,omitempty"`
}

// Availability computes donor availability from the two cooldown timestamps.
// Cooling covers the closed interval up to and including the cooldown end.
func Availability(last, end *time.Time, now time.Time) Status {
	st := Status{Available: true}

	if last != nil {
		days := int(now.Sub(*last).Hours() / 24)
		if days < 0 {
			days = 0
		}
		st.DaysSinceDonation = days
	}

	if end != nil {
		st.NextEligible = end
		if !now.After(*end) {
			st.Available = false
		}
	} else if last != nil {
		next := last.Add(CooldownDays * 24 * time.Hour)
		st.NextEligible = &next
	}

	return st
}
