package auth

import (
	"sync"
	"testing"
)

func TestBroker_SubscribeFiresImmediately(t *testing.T) {
	b := NewBroker()

	var got *Identity
	fired := 0
	b.Subscribe(func(id *Identity) {
		got = id
		fired++
	})

	if fired != 1 {
		t.Fatalf("expected handler to fire once on subscribe, fired %d times", fired)
	}
	if got != nil {
		t.Errorf("expected nil identity before sign-in, got %+v", got)
	}
}

func TestBroker_SetNotifiesSubscribers(t *testing.T) {
	b := NewBroker()

	var got *Identity
	b.Subscribe(func(id *Identity) {
		got = id
	})

	b.Set(Identity{UserID: "u1", DisplayName: "Asha", Roles: []string{"donor"}})

	if got == nil {
		t.Fatal("expected identity after Set")
	}
	if got.UserID != "u1" || got.DisplayName != "Asha" {
		t.Errorf("unexpected identity: %+v", got)
	}
	if cur := b.Current(); cur == nil || cur.UserID != "u1" {
		t.Errorf("Current() = %+v, want u1", cur)
	}
}

func TestBroker_ClearNotifiesWithNil(t *testing.T) {
	b := NewBroker()
	b.Set(Identity{UserID: "u1"})

	var calls []*Identity
	b.Subscribe(func(id *Identity) {
		calls = append(calls, id)
	})

	b.Clear()

	if len(calls) != 2 {
		t.Fatalf("expected 2 calls (subscribe + clear), got %d", len(calls))
	}
	if calls[0] == nil || calls[0].UserID != "u1" {
		t.Errorf("subscribe call: expected u1, got %+v", calls[0])
	}
	if calls[1] != nil {
		t.Errorf("clear call: expected nil, got %+v", calls[1])
	}
	if b.Current() != nil {
		t.Error("Current() should be nil after Clear")
	}
}

func TestBroker_Unsubscribe(t *testing.T) {
	b := NewBroker()

	fired := 0
	sub := b.Subscribe(func(id *Identity) {
		fired++
	})

	sub.Unsubscribe()
	b.Set(Identity{UserID: "u1"})

	if fired != 1 {
		t.Errorf("expected only the subscribe-time call, got %d", fired)
	}

	// Double unsubscribe and nil are no-ops
	sub.Unsubscribe()
	var nilSub *Subscription
	nilSub.Unsubscribe()
}

func TestBroker_MultipleSubscribers(t *testing.T) {
	b := NewBroker()

	var a, c int
	b.Subscribe(func(id *Identity) { a++ })
	b.Subscribe(func(id *Identity) { c++ })

	b.Set(Identity{UserID: "u1"})
	b.Clear()

	if a != 3 || c != 3 {
		t.Errorf("expected both handlers to fire 3 times, got a=%d c=%d", a, c)
	}
}

func TestBroker_ConcurrentSetAndSubscribe(t *testing.T) {
	b := NewBroker()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			b.Set(Identity{UserID: "u1"})
		}()
		go func() {
			defer wg.Done()
			sub := b.Subscribe(func(id *Identity) {})
			sub.Unsubscribe()
		}()
	}
	wg.Wait()
}
