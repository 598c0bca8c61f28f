package toast

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/mscartozzoni/noticeq/internal/core/notice"
)

// Subscriber is a callback invoked with every published state. The state is
// shared with other subscribers and must be treated as read-only.
type Subscriber func(notice.State)

type subscription struct {
	fn      Subscriber
	removed atomic.Bool
}

// Registry holds the set of subscribers a Dispatcher fans out to.
type Registry struct {
	log zerolog.Logger

	mu   sync.Mutex
	next uint64
	subs map[uint64]*subscription
}

// NewRegistry creates an empty registry. Subscriber panics are recovered and
// reported to logger.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		log:  logger,
		subs: make(map[uint64]*subscription),
	}
}

// Subscribe registers fn and returns a function that removes it. Once the
// returned function has been called, fn receives nothing further, including
// the rest of a publish already in progress. Calling it more than once is a
// no-op.
func (r *Registry) Subscribe(fn Subscriber) (unsubscribe func()) {
	if fn == nil {
		panic("toast: nil subscriber")
	}

	sub := &subscription{fn: fn}

	r.mu.Lock()
	id := r.next
	r.next++
	r.subs[id] = sub
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		sub.removed.Store(true)
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// Len returns the number of registered subscribers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// Publish delivers s to every registered subscriber. Order is unspecified.
func (r *Registry) Publish(s notice.State) {
	r.mu.Lock()
	subs := make([]*subscription, 0, len(r.subs))
	for _, sub := range r.subs {
		subs = append(subs, sub)
	}
	r.mu.Unlock()

	for _, sub := range subs {
		r.deliver(sub, s)
	}
}

func (r *Registry) deliver(sub *subscription, s notice.State) {
	if sub.removed.Load() {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Str("panic", fmt.Sprint(rec)).Msg("subscriber panicked")
		}
	}()
	sub.fn(s)
}

func (r *Registry) reset() {
	r.mu.Lock()
	for _, sub := range r.subs {
		sub.removed.Store(true)
	}
	r.subs = make(map[uint64]*subscription)
	r.mu.Unlock()
}
