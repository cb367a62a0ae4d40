// Package router implements the fan-out router: a mutex-guarded registry of
// subscriber filters that delivers matching structured messages to each
// subscriber and evicts dead subscribers without disturbing delivery order.
// Grounded on the fan-out/subscribe-unsubscribe shape of
// other_examples/a1319d3d_michelsedgh-Shiri__linux-app-internal-stream-broadcaster.go.go,
// adapted from byte-chunk channels to MAVLink message filters with a
// two-phase (mark-then-compact) eviction per spec.md §4.3.
package router

import (
	"sync"

	"go.mavbridge.dev/bridge/internal/mavlink"
)

// Filter selects which messages a subscription wants. A zero SystemID or
// ComponentID means "any"; an empty MessageIDs means "any message id".
type Filter struct {
	SystemID    byte
	ComponentID byte
	MessageIDs  []uint32
}

// Matches reports whether msg satisfies f.
func (f Filter) Matches(msg mavlink.Message) bool {
	if f.SystemID != 0 && f.SystemID != msg.SystemID {
		return false
	}
	if f.ComponentID != 0 && f.ComponentID != msg.ComponentID {
		return false
	}
	if len(f.MessageIDs) == 0 {
		return true
	}
	id := msg.Payload.MessageID()
	for _, want := range f.MessageIDs {
		if want == id {
			return true
		}
	}
	return false
}

// WriteFunc delivers one message to a subscriber. It returns false to signal
// that the delivery channel has failed, at which point the router retires
// the subscription. WriteFunc must not call back into the Router: Router
// holds its lock while invoking it.
type WriteFunc func(mavlink.Message) bool

type subscription struct {
	id     uint64
	filter Filter
	write  WriteFunc
	active bool
}

// Router holds the dynamic set of subscriber filters and fans out matching
// messages to each.
type Router struct {
	mu   sync.Mutex
	subs []*subscription
	next uint64
}

// New returns an empty Router.
func New() *Router {
	return &Router{}
}

// Subscribe registers filter and write, returning a process-unique,
// monotonically increasing id. The subscription starts active.
func (r *Router) Subscribe(filter Filter, write WriteFunc) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	id := r.next
	r.subs = append(r.subs, &subscription{id: id, filter: filter, write: write, active: true})
	return id
}

// Unsubscribe removes the subscription with the given id. Returns true iff
// a matching subscription was found.
func (r *Router) Unsubscribe(id uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.subs {
		if s.id == id {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			return true
		}
	}
	return false
}

// RouteMessage delivers msg to every active subscription whose filter
// matches, under the router's lock. A subscriber whose write returns false
// is marked inactive (not removed) so route_message never mutates the slice
// it's iterating. Returns the number of subscribers the message was
// delivered to.
func (r *Router) RouteMessage(msg mavlink.Message) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	delivered := 0
	for _, s := range r.subs {
		if !s.active || !s.filter.Matches(msg) {
			continue
		}
		if s.write(msg) {
			delivered++
		} else {
			s.active = false
		}
	}
	return delivered
}

// SubscriptionCount returns the number of currently active subscriptions.
func (r *Router) SubscriptionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, s := range r.subs {
		if s.active {
			n++
		}
	}
	return n
}

// CleanupInactive compacts the subscription list by dropping inactive
// records, returning the number removed.
func (r *Router) CleanupInactive() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.subs[:0]
	removed := 0
	for _, s := range r.subs {
		if s.active {
			kept = append(kept, s)
		} else {
			removed++
		}
	}
	r.subs = kept
	return removed
}
