package directory

import (
	"context"
	"strings"
	"time"

	"github.com/bloodlink/bloodlink/internal/domain/access"
	"github.com/bloodlink/bloodlink/internal/domain/donation"
	"github.com/bloodlink/bloodlink/internal/domain/profile"
)

// DonorLister returns every donor profile.
type DonorLister interface {
	ListDonors(ctx context.Context) ([]*profile.Profile, error)
}

// AccessLister returns a donor's full access request history.
type AccessLister interface {
	ListAll(ctx context.Context, donorID string) ([]*access.Request, error)
}

// Recorder counts directory searches for telemetry.
type Recorder interface {
	RecordDirectorySearch()
}

type Service struct {
	donors  DonorLister
	access  AccessLister
	metrics Recorder
	now     func() time.Time
}

func NewService(donors DonorLister, accessLists AccessLister, metrics Recorder) *Service {
	return &Service{donors: donors, access: accessLists, metrics: metrics, now: time.Now}
}

// Search filters the donor directory and resolves availability and contact
// visibility for the requesting user. A cooling donor stays listed but has
// contact details withheld whatever the lock state says.
func (s *Service) Search(ctx context.Context, requesterID string, q Query) ([]*DonorView, error) {
	donors, err := s.donors.ListDonors(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()

	name := strings.ToLower(strings.TrimSpace(q.Name))
	location := strings.ToLower(strings.TrimSpace(q.Location))
	group := strings.TrimSpace(q.BloodGroup)

	views := []*DonorView{}
	for _, d := range donors {
		if name != "" && !strings.Contains(strings.ToLower(d.Name), name) {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(d.Location), location) {
			continue
		}
		if group != "" && group != BloodGroupAll && d.BloodGroup != group {
			continue
		}

		st := donation.Availability(d.LastDonationDate, d.DonationCooldownEnd, now)

		entries, err := s.access.ListAll(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		state := access.Visibility(d.ProfileLocked, entries, requesterID)

		view := &DonorView{
			ID:                d.ID,
			Name:              d.Name,
			BloodGroup:        d.BloodGroup,
			Location:          d.Location,
			ProfileColor:      d.ProfileColor,
			Available:         st.Available,
			DaysSinceDonation: st.DaysSinceDonation,
			NextEligible:      st.NextEligible,
			ContactState:      state,
		}
		if st.Available && state.PhoneVisible() {
			view.Phone = d.Phone
		}
		views = append(views, view)
	}

	if s.metrics != nil {
		s.metrics.RecordDirectorySearch()
	}
	return views, nil
}
