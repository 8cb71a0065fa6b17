package board

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/domain/profile"
)

// Common errors returned by the blood request board.
var (
	ErrNotFound          = errors.New("blood request not found")
	ErrValidation        = errors.New("validation failed")
	ErrSelfResponse      = errors.New("cannot respond to your own request")
	ErrNoProfile         = errors.New("no profile for user")
	ErrDuplicateResponse = errors.New("donor already responded to this request")
)

// DefaultFeedLimit caps the board feed when the caller asks for no limit.
const DefaultFeedLimit = 50

// ProfileGetter is the slice of the profile service the board needs for
// attribution.
type ProfileGetter interface {
	Get(ctx context.Context, id string) (*profile.Profile, error)
}

// Recorder counts board activity for telemetry.
type Recorder interface {
	RecordBloodRequestPosted(bloodGroup string)
	RecordBloodRequestResponse()
}

type Service struct {
	repo      Repository
	profiles  ProfileGetter
	metrics   Recorder
	feedLimit int
}

func NewService(repo Repository, profiles ProfileGetter, metrics Recorder, feedLimit int) *Service {
	if feedLimit <= 0 {
		feedLimit = DefaultFeedLimit
	}
	return &Service{repo: repo, profiles: profiles, metrics: metrics, feedLimit: feedLimit}
}

// PostInput carries the caller-supplied fields of a new blood request.
type PostInput struct {
	PatientName  string `json:"patient_name"`
	PatientAge   int    `json:"patient_age"`
	BloodGroup   string `json:"blood_group"`
	HospitalName string `json:"hospital_name"`
	Description  string `json:"description"`
}

// Post validates and stores a new blood request. Validation runs before any
// store call; a rejected post writes nothing.
func (s *Service) Post(ctx context.Context, createdBy string, in PostInput) (*BloodRequest, error) {
	in.PatientName = strings.TrimSpace(in.PatientName)
	in.HospitalName = strings.TrimSpace(in.HospitalName)
	in.Description = strings.TrimSpace(in.Description)

	if in.PatientName == "" {
		return nil, fmt.Errorf("%w: patient name is required", ErrValidation)
	}
	if in.PatientAge <= 0 {
		return nil, fmt.Errorf("%w: patient age must be a positive integer", ErrValidation)
	}
	if !profile.ValidBloodGroup(in.BloodGroup) {
		return nil, fmt.Errorf("%w: invalid blood group %q", ErrValidation, in.BloodGroup)
	}
	if in.HospitalName == "" {
		return nil, fmt.Errorf("%w: hospital name is required", ErrValidation)
	}
	if in.Description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}

	creator, err := s.profiles.Get(ctx, createdBy)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return nil, ErrNoProfile
		}
		return nil, err
	}

	br := &BloodRequest{
		CreatedBy:    createdBy,
		CreatorRole:  creator.Role,
		PatientName:  in.PatientName,
		PatientAge:   in.PatientAge,
		BloodGroup:   in.BloodGroup,
		HospitalName: in.HospitalName,
		Description:  in.Description,
		Responses:    []*Response{},
	}
	if err := s.repo.Create(ctx, br); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordBloodRequestPosted(br.BloodGroup)
	}
	return br, nil
}

// List returns the newest requests, at most limit (capped by the feed limit).
// List returns one page of the feed, newest first, plus the total number of
// requests on the board so callers can page through.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*BloodRequest, int, error) {
	if limit <= 0 || limit > s.feedLimit {
		limit = s.feedLimit
	}
	if offset < 0 {
		offset = 0
	}
	items, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Respond records a donor's offer on a request. The explicit duplicate check
// gives a clean error; the unique index catches the concurrent case.
func (s *Service) Respond(ctx context.Context, requestID uuid.UUID, donorID, message string) (*Response, error) {
	br, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if br.CreatedBy == donorID {
		return nil, ErrSelfResponse
	}
	if br.HasResponseFrom(donorID) {
		return nil, ErrDuplicateResponse
	}

	donor, err := s.profiles.Get(ctx, donorID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return nil, ErrNoProfile
		}
		return nil, err
	}

	resp := &Response{
		RequestID:       requestID,
		DonorID:         donorID,
		DonorName:       donor.Name,
		DonorBloodGroup: donor.BloodGroup,
		DonorColor:      donor.ProfileColor,
		Message:         strings.TrimSpace(message),
	}
	inserted, err := s.repo.InsertResponse(ctx, resp)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, ErrDuplicateResponse
	}

	if s.metrics != nil {
		s.metrics.RecordBloodRequestResponse()
	}
	return resp, nil
}

// Notifications returns the caller's requests that have at least one
// response. Derived on every call; there is no read/unread state.
func (s *Service) Notifications(ctx context.Context, userID string) ([]*BloodRequest, error) {
	mine, err := s.repo.ListByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := []*BloodRequest{}
	for _, br := range mine {
		if len(br.Responses) > 0 {
			out = append(out, br)
		}
	}
	return out, nil
}

// CountRequests satisfies the profile package's RequestCounter.
func (s *Service) CountRequests(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
