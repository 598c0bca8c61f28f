package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mscartozzoni/noticeq/internal/toast"
	"github.com/mscartozzoni/noticeq/internal/toast/toasttest"
)

func TestStateWatcher_coalescesSignals(t *testing.T) {
	d := toast.New(toast.Config{Clock: toasttest.NewClock()})
	t.Cleanup(d.Close)
	w := Watch(d)
	t.Cleanup(w.Close)

	d.Infof("one")
	d.Infof("two")
	d.Infof("three")

	msg := w.WaitForSignal()()
	require.IsType(t, stateChangedMsg{}, msg)
	assert.Equal(t, 3, w.Latest().Len())

	select {
	case <-w.signal:
		t.Fatal("expected a single coalesced signal")
	default:
	}
}

func TestStateWatcher_startsFromCurrentState(t *testing.T) {
	d := toast.New(toast.Config{Clock: toasttest.NewClock()})
	t.Cleanup(d.Close)
	d.Infof("before")

	w := Watch(d)
	t.Cleanup(w.Close)

	assert.Equal(t, 1, w.Latest().Len())
}

func TestStateWatcher_closeDetaches(t *testing.T) {
	d := toast.New(toast.Config{Clock: toasttest.NewClock()})
	t.Cleanup(d.Close)
	w := Watch(d)

	w.Close()
	d.Infof("after close")

	assert.Equal(t, 0, w.Latest().Len())
}
