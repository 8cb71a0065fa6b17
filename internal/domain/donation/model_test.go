package donation

import (
	"testing"
	"time"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAvailability_NeverDonated(t *testing.T) {
	st := Availability(nil, nil, ts("2026-06-01T00:00:00Z"))
	if !st.Available {
		t.Error("expected available with no donation history")
	}
	if st.DaysSinceDonation != 0 {
		t.Errorf("expected 0 days, got %d", st.DaysSinceDonation)
	}
	if st.NextEligible != nil {
		t.Errorf("expected no next-eligible date, got %v", st.NextEligible)
	}
}

func TestAvailability_CoolingWindow(t *testing.T) {
	last := ts("2026-01-01T00:00:00Z")
	end := last.Add(CooldownDays * 24 * time.Hour)

	tests := []struct {
		name      string
		now       time.Time
		available bool
	}{
		{"at donation time", last, false},
		{"mid window", last.Add(45 * 24 * time.Hour), false},
		{"exactly at end", end, false},
		{"just past end", end.Add(time.Second), true},
		{"long after", end.Add(365 * 24 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := Availability(&last, &end, tt.now)
			if st.Available != tt.available {
				t.Errorf("at %v: available = %v, want %v", tt.now, st.Available, tt.available)
			}
		})
	}
}

func TestAvailability_DaysSinceDonation(t *testing.T) {
	last := ts("2026-01-01T00:00:00Z")
	end := last.Add(CooldownDays * 24 * time.Hour)

	st := Availability(&last, &end, last.Add(10*24*time.Hour+6*time.Hour))
	if st.DaysSinceDonation != 10 {
		t.Errorf("expected 10 days, got %d", st.DaysSinceDonation)
	}

	// Clock skew: donation timestamp in the future floors at zero.
	st = Availability(&last, &end, last.Add(-time.Hour))
	if st.DaysSinceDonation != 0 {
		t.Errorf("expected 0 days for future donation, got %d", st.DaysSinceDonation)
	}
}

func TestAvailability_NextEligible(t *testing.T) {
	last := ts("2026-01-01T00:00:00Z")
	end := ts("2026-04-01T00:00:00Z")

	st := Availability(&last, &end, ts("2026-02-01T00:00:00Z"))
	if st.NextEligible == nil || !st.NextEligible.Equal(end) {
		t.Errorf("expected next eligible %v, got %v", end, st.NextEligible)
	}

	// Without a stored end, derive it from the donation date.
	st = Availability(&last, nil, ts("2026-02-01T00:00:00Z"))
	want := last.Add(CooldownDays * 24 * time.Hour)
	if st.NextEligible == nil || !st.NextEligible.Equal(want) {
		t.Errorf("expected derived next eligible %v, got %v", want, st.NextEligible)
	}
}
