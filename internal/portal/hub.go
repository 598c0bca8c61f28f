// Package portal owns one notice dispatcher per configured portal.
package portal

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mscartozzoni/noticeq/internal/core/config"
	"github.com/mscartozzoni/noticeq/internal/toast"
)

// Options are shared by every dispatcher the hub creates.
type Options struct {
	Recorder toast.Recorder
	Clock    toast.Clock
	Logger   *zerolog.Logger
}

// Hub manages dispatcher lifecycle for a set of portals.
type Hub struct {
	mu          sync.RWMutex
	dispatchers map[string]*toast.Dispatcher
	closed      bool
}

// NewHub creates a dispatcher for every portal in cfg.
func NewHub(cfg *config.Config, opts Options) *Hub {
	h := &Hub{dispatchers: make(map[string]*toast.Dispatcher, len(cfg.Portals))}

	for _, name := range cfg.PortalNames() {
		profile, _ := cfg.Portal(name)

		tc := profile.ToastConfig(name)
		tc.Recorder = opts.Recorder
		tc.Clock = opts.Clock
		tc.Logger = opts.Logger

		h.dispatchers[name] = toast.New(tc)
		log.Debug().
			Str("portal", name).
			Int("capacity", profile.Capacity).
			Dur("grace_delay", profile.GraceDelay).
			Dur("default_ttl", profile.DefaultTTL).
			Msg("portal dispatcher created")
	}

	return h
}

// Get returns the dispatcher for a portal.
func (h *Hub) Get(name string) (*toast.Dispatcher, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return nil, false
	}
	d, ok := h.dispatchers[name]
	return d, ok
}

// Lookup is like Get but returns an error naming the known portals.
func (h *Hub) Lookup(name string) (*toast.Dispatcher, error) {
	if d, ok := h.Get(name); ok {
		return d, nil
	}
	return nil, fmt.Errorf("unknown portal %q (known: %s)", name, strings.Join(h.Names(), ", "))
}

// Context returns ctx carrying the dispatcher of the named portal, for view
// code that receives its dispatcher through toast.FromContext.
func (h *Hub) Context(ctx context.Context, name string) (context.Context, error) {
	d, err := h.Lookup(name)
	if err != nil {
		return ctx, err
	}
	return toast.WithDispatcher(ctx, d), nil
}

// Names returns the portal names, sorted.
func (h *Hub) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.dispatchers))
	for name := range h.dispatchers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ClearAll removes every notice from every portal, e.g. on logout.
func (h *Hub) ClearAll() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, d := range h.dispatchers {
		d.Clear()
	}
}

// Close closes every dispatcher. The hub is unusable afterwards.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, d := range h.dispatchers {
		d.Close()
	}
}
