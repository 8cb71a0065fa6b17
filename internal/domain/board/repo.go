package board

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *BloodRequest) error
	// GetByID returns the request with its responses loaded.
	GetByID(ctx context.Context, id uuid.UUID) (*BloodRequest, error)
	// List returns the newest requests first, responses loaded.
	List(ctx context.Context, limit, offset int) ([]*BloodRequest, error)
	// ListByCreator returns the creator's requests, responses loaded.
	ListByCreator(ctx context.Context, userID string) ([]*BloodRequest, error)
	Count(ctx context.Context) (int, error)
	// InsertResponse appends a response unless the donor already has one on
	// the request. Reports whether a row was inserted.
	InsertResponse(ctx context.Context, resp *Response) (bool, error)
}
