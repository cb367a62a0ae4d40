package router_test

import (
	"testing"

	"go.mavbridge.dev/bridge/internal/mavlink"
	"go.mavbridge.dev/bridge/internal/router"
)

func msg(sysID, compID byte, payload mavlink.Payload) mavlink.Message {
	return mavlink.Message{SystemID: sysID, ComponentID: compID, Payload: payload}
}

func TestFilter_Matches(t *testing.T) {
	t.Parallel()

	hb := msg(1, 2, &mavlink.Heartbeat{})
	cases := []struct {
		name string
		f    router.Filter
		want bool
	}{
		{"empty filter matches anything", router.Filter{}, true},
		{"system id match", router.Filter{SystemID: 1}, true},
		{"system id mismatch", router.Filter{SystemID: 9}, false},
		{"component id match", router.Filter{ComponentID: 2}, true},
		{"component id mismatch", router.Filter{ComponentID: 9}, false},
		{"message id match", router.Filter{MessageIDs: []uint32{0}}, true},
		{"message id mismatch", router.Filter{MessageIDs: []uint32{1}}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.f.Matches(hb); got != c.want {
				t.Fatalf("Matches = %v, want %v", got, c.want)
			}
		})
	}
}

// TestRouter_FanOutExactness covers S4: an unfiltered subscriber sees every
// message in receive order, a filtered subscriber sees only its matches, in
// order.
func TestRouter_FanOutExactness(t *testing.T) {
	t.Parallel()

	r := router.New()

	var aSeen []uint32
	r.Subscribe(router.Filter{}, func(m mavlink.Message) bool {
		aSeen = append(aSeen, m.Payload.MessageID())
		return true
	})

	var bSeen []uint32
	r.Subscribe(router.Filter{MessageIDs: []uint32{0}}, func(m mavlink.Message) bool {
		bSeen = append(bSeen, m.Payload.MessageID())
		return true
	})

	messages := []mavlink.Message{
		msg(1, 1, &mavlink.Heartbeat{}),  // id 0
		msg(1, 1, &mavlink.SysStatus{}),  // id 1
		msg(1, 1, &mavlink.Heartbeat{}),  // id 0
	}
	for _, m := range messages {
		r.RouteMessage(m)
	}

	if len(aSeen) != 3 || aSeen[0] != 0 || aSeen[1] != 1 || aSeen[2] != 0 {
		t.Fatalf("subscriber A saw %v, want [0 1 0]", aSeen)
	}
	if len(bSeen) != 2 || bSeen[0] != 0 || bSeen[1] != 0 {
		t.Fatalf("subscriber B saw %v, want [0 0]", bSeen)
	}
}

// TestRouter_WriteFailureEvictsWithoutRemoving covers property #5 and S6:
// a writer returning false is marked inactive immediately (no further
// deliveries), subscription_count drops, and cleanup_inactive reaps it.
func TestRouter_WriteFailureEvictsWithoutRemoving(t *testing.T) {
	t.Parallel()

	r := router.New()

	delivered := 0
	fail := false
	r.Subscribe(router.Filter{}, func(mavlink.Message) bool {
		delivered++
		return !fail
	})

	for i := 0; i < 10; i++ {
		r.RouteMessage(msg(1, 1, &mavlink.Heartbeat{}))
	}
	if delivered != 10 {
		t.Fatalf("delivered = %d, want 10", delivered)
	}
	if r.SubscriptionCount() != 1 {
		t.Fatalf("subscription_count = %d, want 1", r.SubscriptionCount())
	}

	fail = true
	n := r.RouteMessage(msg(1, 1, &mavlink.Heartbeat{}))
	if n != 0 {
		t.Fatalf("RouteMessage delivered = %d on the failing write, want 0", n)
	}
	if delivered != 11 {
		t.Fatalf("delivered = %d, want 11 (writer invoked once more before eviction)", delivered)
	}
	if r.SubscriptionCount() != 0 {
		t.Fatalf("subscription_count after failure = %d, want 0", r.SubscriptionCount())
	}

	// The 12th matching message must not reach the retired subscriber.
	r.RouteMessage(msg(1, 1, &mavlink.Heartbeat{}))
	if delivered != 11 {
		t.Fatalf("delivered = %d after eviction, want unchanged 11", delivered)
	}

	if removed := r.CleanupInactive(); removed != 1 {
		t.Fatalf("CleanupInactive = %d, want 1", removed)
	}
	if removed := r.CleanupInactive(); removed != 0 {
		t.Fatalf("second CleanupInactive = %d, want 0", removed)
	}
}

// TestRouter_SubscribeIDsAreUnique covers property #6.
func TestRouter_SubscribeIDsAreUnique(t *testing.T) {
	t.Parallel()

	r := router.New()
	seen := make(map[uint64]bool)
	for i := 0; i < 1000; i++ {
		id := r.Subscribe(router.Filter{}, func(mavlink.Message) bool { return true })
		if seen[id] {
			t.Fatalf("duplicate subscription id %d", id)
		}
		seen[id] = true
	}
}

func TestRouter_Unsubscribe(t *testing.T) {
	t.Parallel()

	r := router.New()
	id := r.Subscribe(router.Filter{}, func(mavlink.Message) bool { return true })
	if !r.Unsubscribe(id) {
		t.Fatal("Unsubscribe of a live id should return true")
	}
	if r.Unsubscribe(id) {
		t.Fatal("second Unsubscribe of the same id should return false")
	}
	if r.SubscriptionCount() != 0 {
		t.Fatalf("subscription_count = %d, want 0", r.SubscriptionCount())
	}
}
