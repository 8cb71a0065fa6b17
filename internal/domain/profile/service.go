package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Common errors returned by the profile service.
var (
	ErrNotFound      = errors.New("profile not found")
	ErrAlreadyExists = errors.New("profile already exists")
	ErrValidation    = errors.New("validation failed")
)

// RequestCounter reports how many blood requests sit on the board. The board
// package provides the implementation; the indirection keeps profile a leaf.
type RequestCounter interface {
	CountRequests(ctx context.Context) (int, error)
}

type Service struct {
	repo     Repository
	requests RequestCounter
}

func NewService(repo Repository, requests RequestCounter) *Service {
	return &Service{repo: repo, requests: requests}
}

// SetRequestCounter installs the board dependency after construction. The
// profile and board services reference each other, so one side binds late.
func (s *Service) SetRequestCounter(requests RequestCounter) {
	s.requests = requests
}

func (s *Service) Create(ctx context.Context, p *Profile) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	if p.ID == "" {
		return fmt.Errorf("%w: id is required", ErrValidation)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if p.Email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if p.Role == "" {
		p.Role = RoleUser
	}
	if p.Role != RoleUser && p.Role != RoleDonor {
		return fmt.Errorf("%w: invalid role %q", ErrValidation, p.Role)
	}
	if p.Role == RoleDonor && !ValidBloodGroup(p.BloodGroup) {
		return fmt.Errorf("%w: blood group is required for donors", ErrValidation)
	}
	if p.BloodGroup != "" && !ValidBloodGroup(p.BloodGroup) {
		return fmt.Errorf("%w: invalid blood group %q", ErrValidation, p.BloodGroup)
	}
	if p.ProfileColor == "" {
		p.ProfileColor = DefaultColor
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id string) (*Profile, error) {
	return s.repo.GetByID(ctx, id)
}

// Update replaces the mutable fields of a profile. Email and role never
// change here.
func (s *Service) Update(ctx context.Context, id string, u Update) (*Profile, error) {
	u.Name = strings.TrimSpace(u.Name)
	if u.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if u.BloodGroup != "" && !ValidBloodGroup(u.BloodGroup) {
		return nil, fmt.Errorf("%w: invalid blood group %q", ErrValidation, u.BloodGroup)
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.IsDonor() && u.BloodGroup == "" {
		return nil, fmt.Errorf("%w: blood group is required for donors", ErrValidation)
	}

	p.Name = u.Name
	p.Phone = u.Phone
	p.BloodGroup = u.BloodGroup
	p.Location = u.Location
	p.ProfileLocked = u.ProfileLocked
	if u.ProfileColor != "" {
		p.ProfileColor = u.ProfileColor
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpgradeToDonor promotes a user profile to the donor role. Upgrading an
// existing donor just updates the blood group.
func (s *Service) UpgradeToDonor(ctx context.Context, id, bloodGroup string) (*Profile, error) {
	if !ValidBloodGroup(bloodGroup) {
		return nil, fmt.Errorf("%w: invalid blood group %q", ErrValidation, bloodGroup)
	}
	if err := s.repo.SetDonor(ctx, id, bloodGroup); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListDonors(ctx context.Context) ([]*Profile, error) {
	return s.repo.ListByRole(ctx, RoleDonor)
}

// Stats returns the public counters shown on the signup page.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	donors, err := s.repo.CountByRole(ctx, RoleDonor)
	if err != nil {
		return nil, err
	}
	open, err := s.requests.CountRequests(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{TotalDonors: donors, OpenBloodRequests: open}, nil
}
