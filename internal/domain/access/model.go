package access

import "time"

// Access request lifecycle. Pending is the only non-terminal status;
// approved and ignored are terminal and never transition again.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusIgnored  = "ignored"
)

// Request maps to the access_request table. Each requester gets at most one
// row per donor; history is never deleted.
type Request struct {
	DonorID       string    `db:"donor_id" json:"donor_id"`
	RequesterID   string    `db:"requester_id" json:"requester_id"`
	RequesterName string    `db:"requester_name" json:"requester_name"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Terminal reports whether the request can no longer change status.
func (r *Request) Terminal() bool {
	return r.Status == StatusApproved || r.Status == StatusIgnored
}

// ContactState is what a requester is allowed to see of a donor's contact
// details, or which call-to-action to show instead.
type ContactState string

const (
	// StateVisible: the profile is unlocked, phone is public.
	StateVisible ContactState = "visible"
	// StateApproved: the donor approved this requester, phone is shown.
	StateApproved ContactState = "approved"
	// StatePending: a request is waiting on the donor.
	StatePending ContactState = "pending"
	// StateRequest: no live request, show the request-access action.
	StateRequest ContactState = "request"
)

// PhoneVisible reports whether the state exposes the donor's phone number.
func (s ContactState) PhoneVisible() bool {
	return s == StateVisible || s == StateApproved
}

// Visibility decides the contact state for one requester against a donor's
// request list. Pure function, no I/O. An ignored entry renders the same
// call-to-action as no entry; re-requesting is idempotent and stays ignored.
func Visibility(locked bool, entries []*Request, requesterID string) ContactState {
	if !locked {
		return StateVisible
	}
	for _, e := range entries {
		if e.RequesterID != requesterID {
			continue
		}
		switch e.Status {
		case StatusApproved:
			return StateApproved
		case StatusPending:
			return StatePending
		}
	}
	return StateRequest
}
