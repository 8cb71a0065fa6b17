package access

import "context"

type Repository interface {
	// Insert appends a pending request unless one already exists for the
	// (donor, requester) pair. Reports whether a row was inserted.
	Insert(ctx context.Context, r *Request) (bool, error)
	Get(ctx context.Context, donorID, requesterID string) (*Request, error)
	// Resolve moves a pending request to a terminal status. Reports false
	// when no pending row matched, leaving terminal rows untouched.
	Resolve(ctx context.Context, donorID, requesterID, status string) (bool, error)
	ListByDonor(ctx context.Context, donorID string) ([]*Request, error)
	ListPending(ctx context.Context, donorID string) ([]*Request, error)
}
