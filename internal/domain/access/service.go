package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/bloodlink/bloodlink/internal/domain/profile"
)

// Common errors returned by the access request workflow.
var (
	ErrNotFound        = errors.New("access request not found")
	ErrDonorNotFound   = errors.New("donor not found")
	ErrSelfRequest     = errors.New("cannot request access to your own profile")
	ErrAlreadyResolved = errors.New("access request is already resolved")
	ErrInvalidDecision = errors.New("decision must be approved or ignored")
)

var validDecisions = map[string]bool{
	StatusApproved: true,
	StatusIgnored:  true,
}

// ProfileGetter is the slice of the profile service the workflow needs.
type ProfileGetter interface {
	Get(ctx context.Context, id string) (*profile.Profile, error)
}

// Recorder counts access request outcomes for telemetry.
type Recorder interface {
	RecordAccessRequest(outcome string)
}

type Service struct {
	repo     Repository
	profiles ProfileGetter
	metrics  Recorder
}

func NewService(repo Repository, profiles ProfileGetter, metrics Recorder) *Service {
	return &Service{repo: repo, profiles: profiles, metrics: metrics}
}

// Ask files a contact access request against a donor. Repeating the call
// returns the existing entry unchanged, whatever its status; an ignored
// request stays ignored.
func (s *Service) Ask(ctx context.Context, requesterID, requesterName, donorID string) (*Request, error) {
	if requesterID == donorID {
		return nil, ErrSelfRequest
	}

	donor, err := s.profiles.Get(ctx, donorID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return nil, ErrDonorNotFound
		}
		return nil, err
	}
	if !donor.IsDonor() {
		return nil, ErrDonorNotFound
	}

	if requesterName == "" {
		if p, err := s.profiles.Get(ctx, requesterID); err == nil {
			requesterName = p.Name
		}
	}

	inserted, err := s.repo.Insert(ctx, &Request{
		DonorID:       donorID,
		RequesterID:   requesterID,
		RequesterName: requesterName,
	})
	if err != nil {
		return nil, err
	}
	if inserted && s.metrics != nil {
		s.metrics.RecordAccessRequest("requested")
	}

	return s.repo.Get(ctx, donorID, requesterID)
}

// Resolve moves a pending request to approved or ignored. A request that is
// already terminal fails with ErrAlreadyResolved and keeps its status.
func (s *Service) Resolve(ctx context.Context, donorID, requesterID, decision string) (*Request, error) {
	if !validDecisions[decision] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDecision, decision)
	}

	resolved, err := s.repo.Resolve(ctx, donorID, requesterID, decision)
	if err != nil {
		return nil, err
	}
	if !resolved {
		// Distinguish a missing entry from a lost race on a terminal one.
		if _, err := s.repo.Get(ctx, donorID, requesterID); err != nil {
			return nil, err
		}
		return nil, ErrAlreadyResolved
	}

	if s.metrics != nil {
		s.metrics.RecordAccessRequest(decision)
	}
	return s.repo.Get(ctx, donorID, requesterID)
}

// ListPending returns the donor's open requests, oldest first.
func (s *Service) ListPending(ctx context.Context, donorID string) ([]*Request, error) {
	return s.repo.ListPending(ctx, donorID)
}

// ListAll returns the donor's full request history, oldest first.
func (s *Service) ListAll(ctx context.Context, donorID string) ([]*Request, error) {
	return s.repo.ListByDonor(ctx, donorID)
}
