package access

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bloodlink/bloodlink/internal/domain/profile"
)

// -- Mocks --

type reqKey struct{ donor, requester string }

type mockRepo struct {
	mu       sync.Mutex
	requests map[reqKey]*Request
}

func newMockRepo() *mockRepo {
	return &mockRepo{requests: make(map[reqKey]*Request)}
}

func (m *mockRepo) Insert(_ context.Context, r *Request) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := reqKey{r.DonorID, r.RequesterID}
	if _, ok := m.requests[k]; ok {
		return false, nil
	}
	cp := *r
	cp.Status = StatusPending
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.requests[k] = &cp
	return true, nil
}

func (m *mockRepo) Get(_ context.Context, donorID, requesterID string) (*Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[reqKey{donorID, requesterID}]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockRepo) Resolve(_ context.Context, donorID, requesterID, status string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[reqKey{donorID, requesterID}]
	if !ok || r.Status != StatusPending {
		return false, nil
	}
	r.Status = status
	r.UpdatedAt = time.Now()
	return true, nil
}

func (m *mockRepo) ListByDonor(_ context.Context, donorID string) ([]*Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Request
	for _, r := range m.requests {
		if r.DonorID == donorID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockRepo) ListPending(_ context.Context, donorID string) ([]*Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Request
	for _, r := range m.requests {
		if r.DonorID == donorID && r.Status == StatusPending {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

type mockProfiles struct {
	profiles map[string]*profile.Profile
}

func (m *mockProfiles) Get(_ context.Context, id string) (*profile.Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return nil, profile.ErrNotFound
	}
	return p, nil
}

type outcomeRecorder struct {
	mu       sync.Mutex
	outcomes []string
}

func (r *outcomeRecorder) RecordAccessRequest(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func newTestService() (*Service, *mockRepo, *outcomeRecorder) {
	repo := newMockRepo()
	profiles := &mockProfiles{profiles: map[string]*profile.Profile{
		"donor-1": {ID: "donor-1", Name: "Tanvir", Role: profile.RoleDonor, BloodGroup: "O+"},
		"user-1":  {ID: "user-1", Name: "Asha", Role: profile.RoleUser},
	}}
	rec := &outcomeRecorder{}
	return NewService(repo, profiles, rec), repo, rec
}

// -- Tests --

func TestAsk_CreatesPendingEntry(t *testing.T) {
	svc, _, rec := newTestService()

	entry, err := svc.Ask(context.Background(), "user-1", "Asha", "donor-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Status != StatusPending {
		t.Errorf("expected pending, got %s", entry.Status)
	}
	if entry.RequesterName != "Asha" {
		t.Errorf("expected requester name, got %q", entry.RequesterName)
	}
	if len(rec.outcomes) != 1 || rec.outcomes[0] != "requested" {
		t.Errorf("expected one requested metric, got %v", rec.outcomes)
	}
}

func TestAsk_Idempotent(t *testing.T) {
	svc, repo, rec := newTestService()

	first, err := svc.Ask(context.Background(), "user-1", "Asha", "donor-1")
	if err != nil {
		t.Fatalf("first ask: %v", err)
	}
	second, err := svc.Ask(context.Background(), "user-1", "Asha", "donor-1")
	if err != nil {
		t.Fatalf("second ask: %v", err)
	}

	if second.Status != first.Status {
		t.Errorf("repeat ask changed status: %s -> %s", first.Status, second.Status)
	}
	entries, _ := repo.ListByDonor(context.Background(), "donor-1")
	if len(entries) != 1 {
		t.Fatalf("expected exactly one entry, got %d", len(entries))
	}
	if len(rec.outcomes) != 1 {
		t.Errorf("repeat ask must not record a second metric, got %v", rec.outcomes)
	}
}

func TestAsk_IgnoredStaysIgnored(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.Ask(context.Background(), "user-1", "Asha", "donor-1"); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if _, err := svc.Resolve(context.Background(), "donor-1", "user-1", StatusIgnored); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	entry, err := svc.Ask(context.Background(), "user-1", "Asha", "donor-1")
	if err != nil {
		t.Fatalf("re-ask: %v", err)
	}
	if entry.Status != StatusIgnored {
		t.Errorf("re-ask must return the ignored entry unchanged, got %s", entry.Status)
	}
}

func TestAsk_SelfRequest(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Ask(context.Background(), "donor-1", "Tanvir", "donor-1")
	if !errors.Is(err, ErrSelfRequest) {
		t.Fatalf("expected ErrSelfRequest, got %v", err)
	}
}

func TestAsk_DonorMissingOrNotDonor(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.Ask(context.Background(), "user-1", "Asha", "ghost"); !errors.Is(err, ErrDonorNotFound) {
		t.Fatalf("absent donor: expected ErrDonorNotFound, got %v", err)
	}
	// user-1 exists but is not a donor
	if _, err := svc.Ask(context.Background(), "donor-1", "Tanvir", "user-1"); !errors.Is(err, ErrDonorNotFound) {
		t.Fatalf("non-donor target: expected ErrDonorNotFound, got %v", err)
	}
}

func TestAsk_FillsNameFromProfile(t *testing.T) {
	svc, _, _ := newTestService()

	entry, err := svc.Ask(context.Background(), "user-1", "", "donor-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.RequesterName != "Asha" {
		t.Errorf("expected name from profile, got %q", entry.RequesterName)
	}
}

func TestResolve_Approve(t *testing.T) {
	svc, _, rec := newTestService()

	if _, err := svc.Ask(context.Background(), "user-1", "Asha", "donor-1"); err != nil {
		t.Fatalf("ask: %v", err)
	}

	entry, err := svc.Resolve(context.Background(), "donor-1", "user-1", StatusApproved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Status != StatusApproved {
		t.Errorf("expected approved, got %s", entry.Status)
	}
	if len(rec.outcomes) != 2 || rec.outcomes[1] != StatusApproved {
		t.Errorf("expected approved metric, got %v", rec.outcomes)
	}
}

func TestResolve_TerminalFailsAlreadyResolved(t *testing.T) {
	svc, repo, _ := newTestService()

	if _, err := svc.Ask(context.Background(), "user-1", "Asha", "donor-1"); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if _, err := svc.Resolve(context.Background(), "donor-1", "user-1", StatusApproved); err != nil {
		t.Fatalf("first resolve: %v", err)
	}

	_, err := svc.Resolve(context.Background(), "donor-1", "user-1", StatusIgnored)
	if !errors.Is(err, ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved, got %v", err)
	}

	// The losing resolve must not flip the stored status.
	entry, _ := repo.Get(context.Background(), "donor-1", "user-1")
	if entry.Status != StatusApproved {
		t.Errorf("status changed by rejected resolve: %s", entry.Status)
	}
}

func TestResolve_NoEntry(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Resolve(context.Background(), "donor-1", "stranger", StatusApproved)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolve_InvalidDecision(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Resolve(context.Background(), "donor-1", "user-1", "maybe")
	if !errors.Is(err, ErrInvalidDecision) {
		t.Fatalf("expected ErrInvalidDecision, got %v", err)
	}
}

func TestResolve_ConcurrentExactlyOneWins(t *testing.T) {
	svc, repo, _ := newTestService()

	if _, err := svc.Ask(context.Background(), "user-1", "Asha", "donor-1"); err != nil {
		t.Fatalf("ask: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]error, 2)
	decisions := []string{StatusApproved, StatusIgnored}
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Resolve(context.Background(), "donor-1", "user-1", decisions[i])
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrAlreadyResolved):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != 1 {
		t.Fatalf("expected exactly one winner and one conflict, got wins=%d conflicts=%d", wins, conflicts)
	}

	entry, _ := repo.Get(context.Background(), "donor-1", "user-1")
	if !entry.Terminal() {
		t.Errorf("entry must be terminal after the race, got %s", entry.Status)
	}
}

func TestListPending(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.Ask(context.Background(), "user-1", "Asha", "donor-1"); err != nil {
		t.Fatalf("ask: %v", err)
	}

	pending, err := svc.ListPending(context.Background(), "donor-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 1 || pending[0].RequesterID != "user-1" {
		t.Fatalf("unexpected pending list: %+v", pending)
	}

	if _, err := svc.Resolve(context.Background(), "donor-1", "user-1", StatusApproved); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	pending, _ = svc.ListPending(context.Background(), "donor-1")
	if len(pending) != 0 {
		t.Errorf("expected empty pending list after resolve, got %d", len(pending))
	}
}
