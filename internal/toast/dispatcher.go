// Package toast provides the Dispatcher: a bounded, time-expiring queue of
// user-facing notices with subscriber fan-out.
//
// A Dispatcher applies transitions from package notice one at a time. Each
// transition is published to every subscriber before the next one starts, so
// subscribers observe the same sequence of fully applied states. Subscribers
// may call back into the Dispatcher: the transition is applied at once and
// its state is delivered after the current one. Dismissed
// notices stay in the queue, hidden, for the grace delay before they are
// removed.
package toast

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mscartozzoni/noticeq/internal/core/logging"
	"github.com/mscartozzoni/noticeq/internal/core/notice"
)

const (
	// DefaultCapacity is the number of notices kept when Config.Capacity is unset.
	DefaultCapacity = 5
	// CompactCapacity keeps a single notice on screen.
	CompactCapacity = 1

	// DefaultGraceDelay is the wait between dismissal and removal when
	// Config.GraceDelay is unset.
	DefaultGraceDelay = 5 * time.Second
	// ExtendedGraceDelay keeps dismissed notices around for roughly 16 minutes.
	ExtendedGraceDelay = 1_000_000 * time.Millisecond
)

var (
	// ErrClosed is the panic value for Notify or Subscribe on a closed Dispatcher.
	ErrClosed = errors.New("toast: use of closed dispatcher")
	// ErrUninitialized is the panic value for a Dispatcher not built by New,
	// or a context without one.
	ErrUninitialized = errors.New("toast: dispatcher not initialized")
	// ErrInvalidID is the panic value for Notify when Config.NewID returns ""
	// or an id that is still queued.
	ErrInvalidID = errors.New("toast: NewID returned an empty or duplicate id")
)

// Recorder receives every notice created by a Dispatcher.
type Recorder interface {
	Record(ctx context.Context, portal string, n notice.Notice) error
}

// Config configures a Dispatcher. Zero values get defaults.
type Config struct {
	// Name identifies the dispatcher in logs and history, usually the portal.
	Name string

	Capacity   int
	GraceDelay time.Duration

	// DefaultTTL auto-dismisses notices created without their own TTL.
	// Zero keeps them until dismissed.
	DefaultTTL time.Duration

	Clock    Clock
	Logger   *zerolog.Logger
	Recorder Recorder

	// NewID generates notice ids. It must never return the same id twice and
	// never return "".
	NewID func() string
}

func (c Config) withDefaults() Config {
	if c.Capacity <= 0 {
		c.Capacity = DefaultCapacity
	}
	if c.GraceDelay <= 0 {
		c.GraceDelay = DefaultGraceDelay
	}
	if c.DefaultTTL < 0 {
		c.DefaultTTL = 0
	}
	if c.Clock == nil {
		c.Clock = RealClock{}
	}
	if c.NewID == nil {
		c.NewID = uuid.NewString
	}
	return c
}

// Options describes a notice passed to Notify.
type Options struct {
	Title       string
	Description string
	Variant     notice.Variant

	// TTL auto-dismisses the notice. Zero uses Config.DefaultTTL, a negative
	// value keeps the notice until dismissed.
	TTL time.Duration
}

// Dispatcher owns a notice queue. Create one with New and release it with Close.
//
// Transitions are applied under mu; their states are delivered outside it,
// in order, by whichever caller finds no delivery running. A call made while
// another goroutine, or the caller's own subscriber, is delivering returns
// once its transition is applied, and the state reaches subscribers when the
// running delivery gets to it.
type Dispatcher struct {
	cfg      Config
	queue    notice.Queue
	log      zerolog.Logger
	registry *Registry

	closed   atomic.Bool
	snapshot atomic.Pointer[notice.State]

	mu        sync.Mutex
	state     notice.State
	timers    map[uint64]Timer
	nextTimer uint64

	outMu      sync.Mutex
	outbox     []notice.State
	delivering bool
}

// New creates a Dispatcher.
func New(cfg Config) *Dispatcher {
	cfg = cfg.withDefaults()

	logger := logging.Component("toast")
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	if cfg.Name != "" {
		logger = logger.With().Str("portal", cfg.Name).Logger()
	}

	d := &Dispatcher{
		cfg:      cfg,
		queue:    notice.NewQueue(cfg.Capacity),
		log:      logger,
		registry: NewRegistry(logger),
		timers:   make(map[uint64]Timer),
	}
	d.snapshot.Store(&notice.State{})
	return d
}

// Name returns the configured dispatcher name.
func (d *Dispatcher) Name() string {
	d.mustInit()
	return d.cfg.Name
}

// Capacity returns the maximum number of notices held.
func (d *Dispatcher) Capacity() int {
	d.mustInit()
	return d.queue.Capacity()
}

// GraceDelay returns the wait between dismissal and removal.
func (d *Dispatcher) GraceDelay() time.Duration {
	d.mustInit()
	return d.cfg.GraceDelay
}

// State returns the most recently published state.
func (d *Dispatcher) State() notice.State {
	d.mustInit()
	return *d.snapshot.Load()
}

// Subscribe registers fn to receive every published state. It panics with
// ErrClosed after Close.
func (d *Dispatcher) Subscribe(fn Subscriber) (unsubscribe func()) {
	d.mustInit()
	if d.closed.Load() {
		panic(ErrClosed)
	}
	return d.registry.Subscribe(fn)
}

// Notify adds a visible notice and returns a handle bound to it. It panics
// with ErrClosed after Close and with ErrInvalidID when Config.NewID breaks
// its contract.
func (d *Dispatcher) Notify(opts Options) *Handle {
	d.mustInit()

	variant, ok := notice.Normalize(opts.Variant)
	if !ok {
		d.log.Warn().Str("variant", string(opts.Variant)).Msg("unknown variant, using default")
	}

	ttl := opts.TTL
	if ttl == 0 {
		ttl = d.cfg.DefaultTTL
	}
	ttl = max(ttl, 0)

	id := d.cfg.NewID()
	if id == "" {
		panic(ErrInvalidID)
	}

	n := notice.Notice{
		ID:          id,
		Title:       opts.Title,
		Description: opts.Description,
		Variant:     variant,
		Visible:     true,
		CreatedAt:   d.cfg.Clock.Now(),
		TTL:         ttl,
	}

	d.mu.Lock()
	if d.closed.Load() {
		d.mu.Unlock()
		panic(ErrClosed)
	}
	added := d.apply(notice.Add{Notice: n})
	if added && ttl > 0 {
		d.schedule(ttl, func() { d.dismissLocked(n.ID) })
	}
	d.mu.Unlock()
	d.deliver()

	if !added {
		panic(ErrInvalidID)
	}

	d.log.Debug().Str("notice_id", n.ID).Str("variant", string(n.Variant)).Dur("ttl", ttl).Msg("notice added")
	d.record(n)

	return &Handle{d: d, id: n.ID}
}

// Infof adds an info notice titled with the formatted message.
func (d *Dispatcher) Infof(format string, args ...any) *Handle {
	return d.Notify(Options{Title: fmt.Sprintf(format, args...), Variant: notice.VariantInfo})
}

// Successf adds a success notice titled with the formatted message.
func (d *Dispatcher) Successf(format string, args ...any) *Handle {
	return d.Notify(Options{Title: fmt.Sprintf(format, args...), Variant: notice.VariantSuccess})
}

// Warnf adds a warning notice titled with the formatted message.
func (d *Dispatcher) Warnf(format string, args ...any) *Handle {
	return d.Notify(Options{Title: fmt.Sprintf(format, args...), Variant: notice.VariantWarning})
}

// Errorf adds a destructive notice titled with the formatted message.
func (d *Dispatcher) Errorf(format string, args ...any) *Handle {
	return d.Notify(Options{Title: fmt.Sprintf(format, args...), Variant: notice.VariantDestructive})
}

// Update merges p into the notice with the given id. Unknown ids, including
// notices already removed, are ignored.
func (d *Dispatcher) Update(id string, p notice.Patch) {
	d.mustInit()

	if p.Variant != nil {
		v, ok := notice.Normalize(*p.Variant)
		if !ok {
			d.log.Warn().Str("variant", string(*p.Variant)).Msg("unknown variant, using default")
		}
		p.Variant = &v
	}

	d.mu.Lock()
	if d.closed.Load() {
		d.mu.Unlock()
		return
	}
	d.apply(notice.Update{ID: id, Patch: p})
	d.mu.Unlock()
	d.deliver()
}

// Dismiss hides the notice with the given id and removes it after the grace
// delay. Unknown or already dismissed ids are ignored.
func (d *Dispatcher) Dismiss(id string) {
	d.mustInit()

	d.mu.Lock()
	if d.closed.Load() {
		d.mu.Unlock()
		return
	}
	d.dismissLocked(id)
	d.mu.Unlock()
	d.deliver()
}

// Clear removes every notice immediately and cancels all pending timers.
func (d *Dispatcher) Clear() {
	d.mustInit()

	d.mu.Lock()
	if d.closed.Load() {
		d.mu.Unlock()
		return
	}
	cancelled := d.stopTimersLocked()
	d.apply(notice.RemoveAll())
	d.mu.Unlock()
	d.deliver()

	d.log.Debug().Int("timers_cancelled", cancelled).Msg("queue cleared")
}

// Pending returns the number of scheduled dismiss and remove callbacks.
func (d *Dispatcher) Pending() int {
	d.mustInit()
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Close cancels all timers and drops all subscribers. Notify and Subscribe
// panic afterwards; Update, Dismiss and Clear become no-ops. Close is
// idempotent.
func (d *Dispatcher) Close() {
	d.mustInit()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed.Swap(true) {
		return
	}
	d.stopTimersLocked()
	d.registry.reset()
	d.outMu.Lock()
	d.outbox = nil
	d.outMu.Unlock()
	d.log.Debug().Msg("dispatcher closed")
}

func (d *Dispatcher) mustInit() {
	if d == nil || d.registry == nil {
		panic(ErrUninitialized)
	}
}

// apply runs one transition and queues the result for delivery. d.mu must
// be held.
func (d *Dispatcher) apply(a notice.Action) bool {
	next, changed := d.queue.Reduce(d.state, a)
	if !changed {
		return false
	}
	d.state = next
	d.snapshot.Store(&next)

	d.outMu.Lock()
	d.outbox = append(d.outbox, next)
	d.outMu.Unlock()
	return true
}

// deliver publishes queued states in the order they were applied. It returns
// at once if a delivery is already running; that one drains the rest. d.mu
// must not be held.
func (d *Dispatcher) deliver() {
	d.outMu.Lock()
	if d.delivering {
		d.outMu.Unlock()
		return
	}
	d.delivering = true

	for len(d.outbox) > 0 {
		next := d.outbox[0]
		d.outbox = d.outbox[1:]
		d.outMu.Unlock()

		d.registry.Publish(next)

		d.outMu.Lock()
	}

	d.delivering = false
	d.outMu.Unlock()
}

// dismissLocked hides id and schedules its removal. d.mu must be held.
func (d *Dispatcher) dismissLocked(id string) {
	if !d.apply(notice.SetVisibility{ID: id, Visible: false}) {
		return
	}
	d.log.Debug().Str("notice_id", id).Dur("grace_delay", d.cfg.GraceDelay).Msg("notice dismissed")
	d.schedule(d.cfg.GraceDelay, func() {
		if d.apply(notice.Remove{ID: id}) {
			d.log.Debug().Str("notice_id", id).Msg("notice removed")
		}
	})
}

// schedule runs fn with d.mu held after delay, unless the timer is stopped
// first. d.mu must be held.
func (d *Dispatcher) schedule(delay time.Duration, fn func()) {
	key := d.nextTimer
	d.nextTimer++

	d.timers[key] = d.cfg.Clock.AfterFunc(delay, func() {
		d.mu.Lock()
		// A timer that fired while Clear or Close held the lock is no longer
		// in the map.
		if _, ok := d.timers[key]; !ok {
			d.mu.Unlock()
			return
		}
		delete(d.timers, key)
		fn()
		d.mu.Unlock()
		d.deliver()
	})
}

func (d *Dispatcher) stopTimersLocked() int {
	n := len(d.timers)
	for _, t := range d.timers {
		t.Stop()
	}
	clear(d.timers)
	return n
}

func (d *Dispatcher) record(n notice.Notice) {
	if d.cfg.Recorder == nil {
		return
	}

	ctx := logging.WithNoticeID(logging.WithPortal(context.Background(), d.cfg.Name), n.ID)
	if err := d.cfg.Recorder.Record(ctx, d.cfg.Name, n); err != nil {
		d.log.Error().Err(err).Str("notice_id", n.ID).Msg("failed to record notice")
	}
}
