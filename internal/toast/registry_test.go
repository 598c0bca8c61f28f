package toast

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mscartozzoni/noticeq/internal/core/notice"
)

func TestRegistry_Publish_dispatches_to_subscribers(t *testing.T) {
	r := NewRegistry(zerolog.Nop())

	var a, b []notice.State
	r.Subscribe(func(s notice.State) { a = append(a, s) })
	r.Subscribe(func(s notice.State) { b = append(b, s) })

	s := notice.State{Notices: []notice.Notice{{ID: "1", Title: "hi"}}}
	r.Publish(s)

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, s, a[0])
	assert.Equal(t, s, b[0])
}

func TestRegistry_Unsubscribe(t *testing.T) {
	r := NewRegistry(zerolog.Nop())

	calls := 0
	unsubscribe := r.Subscribe(func(notice.State) { calls++ })
	require.Equal(t, 1, r.Len())

	unsubscribe()
	unsubscribe()
	r.Publish(notice.State{})

	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_Subscribe_during_publish(t *testing.T) {
	r := NewRegistry(zerolog.Nop())

	late := 0
	r.Subscribe(func(notice.State) {
		r.Subscribe(func(notice.State) { late++ })
	})

	r.Publish(notice.State{})
	assert.Equal(t, 0, late, "subscribers added during a publish wait for the next one")
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_Unsubscribe_during_publish(t *testing.T) {
	for range 50 {
		r := NewRegistry(zerolog.Nop())

		var (
			unsubA, unsubB func()
			calledA        bool
			callsB         int
		)
		// Map order is random, so either subscriber may run first.
		unsubA = r.Subscribe(func(notice.State) {
			calledA = true
			unsubB()
		})
		unsubB = r.Subscribe(func(notice.State) {
			if calledA {
				callsB++
			}
		})

		r.Publish(notice.State{})
		r.Publish(notice.State{})

		assert.Equal(t, 0, callsB, "no delivery after unsubscribe returned")
		assert.Equal(t, 1, r.Len())
		unsubA()
	}
}

func TestRegistry_reset_stops_publish_in_progress(t *testing.T) {
	r := NewRegistry(zerolog.Nop())

	var calledA bool
	callsB := 0
	r.Subscribe(func(notice.State) {
		calledA = true
		r.reset()
	})
	r.Subscribe(func(notice.State) {
		if calledA {
			callsB++
		}
	})

	r.Publish(notice.State{})

	assert.Equal(t, 0, callsB)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_recovers_panics(t *testing.T) {
	var buf bytes.Buffer
	r := NewRegistry(zerolog.New(&buf))

	r.Subscribe(func(notice.State) { panic("bad view") })

	assert.NotPanics(t, func() { r.Publish(notice.State{}) })
	assert.Contains(t, buf.String(), "bad view")
}

func TestRegistry_nil_subscriber_panics(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	assert.Panics(t, func() { r.Subscribe(nil) })
}
