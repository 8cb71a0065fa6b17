package profile

import "context"

type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
	ListByRole(ctx context.Context, role string) ([]*Profile, error)
	CountByRole(ctx context.Context, role string) (int, error)
	// SetDonor promotes a profile to the donor role with the given blood
	// group in one statement.
	SetDonor(ctx context.Context, id, bloodGroup string) error
}
