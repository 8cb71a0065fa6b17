package donation

import (
	"context"
	"errors"
	"time"
)

// Common errors returned by the donation tracker.
var (
	ErrNotFound       = errors.New("donor not found")
	ErrCooldownActive = errors.New("donation cooldown is still active")
)

// Recorder counts recorded donations for telemetry.
type Recorder interface {
	RecordDonation()
}

type Service struct {
	repo    Repository
	metrics Recorder
}

func NewService(repo Repository, metrics Recorder) *Service {
	return &Service{repo: repo, metrics: metrics}
}

// Record stores a donation at the given time and starts a new cooldown
// window. The conditional write keeps a concurrent double-record from
// extending the window twice.
func (s *Service) Record(ctx context.Context, donorID string, at time.Time) (Status, error) {
	end := at.Add(CooldownDays * 24 * time.Hour)

	applied, err := s.repo.Record(ctx, donorID, at, end)
	if err != nil {
		return Status{}, err
	}
	if !applied {
		// Either the donor does not exist or the cooldown is active.
		if _, _, err := s.repo.Cooldown(ctx, donorID); err != nil {
			return Status{}, err
		}
		return Status{}, ErrCooldownActive
	}

	if s.metrics != nil {
		s.metrics.RecordDonation()
	}
	return Availability(&at, &end, at), nil
}

// Current returns the donor's availability as of now.
func (s *Service) Current(ctx context.Context, donorID string) (Status, error) {
	last, end, err := s.repo.Cooldown(ctx, donorID)
	if err != nil {
		return Status{}, err
	}
	return Availability(last, end, time.Now()), nil
}
