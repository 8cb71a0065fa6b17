package board

import (
	"time"

	"github.com/google/uuid"
)

// BloodRequest maps to the blood_request table. Core fields are immutable
// after creation; only the response list grows.
type BloodRequest struct {
	ID           uuid.UUID   `db:"id" json:"id"`
	CreatedBy    string      `db:"created_by" json:"created_by"`
	CreatorRole  string      `db:"creator_role" json:"creator_role"`
	PatientName  string      `db:"patient_name" json:"patient_name"`
	PatientAge   int         `db:"patient_age" json:"patient_age"`
	BloodGroup   string      `db:"blood_group" json:"blood_group"`
	HospitalName string      `db:"hospital_name" json:"hospital_name"`
	Description  string      `db:"description" json:"description"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	Responses    []*Response `json:"responses"`
}

// Response maps to the blood_request_response table. One per donor per
// request; never edited or removed.
type Response struct {
	RequestID       uuid.UUID `db:"request_id" json:"request_id"`
	DonorID         string    `db:"donor_id" json:"donor_id"`
	DonorName       string    `db:"donor_name" json:"donor_name"`
	DonorBloodGroup string    `db:"donor_blood_group" json:"donor_blood_group"`
	DonorColor      string    `db:"donor_color" json:"donor_color"`
	Message         string    `db:"message" json:"message"`
	RespondedAt     time.Time `db:"responded_at" json:"responded_at"`
}

// HasResponseFrom reports whether the donor already responded.
func (r *BloodRequest) HasResponseFrom(donorID string) bool {
	for _, resp := range r.Responses {
		if resp.DonorID == donorID {
			return true
		}
	}
	return false
}
