package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mscartozzoni/noticeq/internal/core/notice"
	"github.com/mscartozzoni/noticeq/internal/toast"
)

type stateChangedMsg struct{}

// StateWatcher subscribes to a dispatcher and turns published states into
// coalesced tea messages. The subscriber never blocks, so the dispatcher is
// never held up by a slow render loop.
type StateWatcher struct {
	mu          sync.Mutex
	latest      notice.State
	signal      chan struct{}
	unsubscribe func()
}

// Watch subscribes to d. Call Close to detach.
func Watch(d *toast.Dispatcher) *StateWatcher {
	w := &StateWatcher{
		latest: d.State(),
		signal: make(chan struct{}, 1),
	}
	w.unsubscribe = d.Subscribe(w.push)
	return w
}

func (w *StateWatcher) push(s notice.State) {
	w.mu.Lock()
	w.latest = s
	w.mu.Unlock()

	select {
	case w.signal <- struct{}{}:
	default:
	}
}

// Latest returns the most recent state received.
func (w *StateWatcher) Latest() notice.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.latest
}

// WaitForSignal blocks until a new state has been received.
func (w *StateWatcher) WaitForSignal() tea.Cmd {
	return func() tea.Msg {
		<-w.signal
		return stateChangedMsg{}
	}
}

// Close detaches the watcher from its dispatcher.
func (w *StateWatcher) Close() {
	w.unsubscribe()
}
