// Package tui implements the Bubble Tea preview of a portal's notice queue.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/mscartozzoni/noticeq/internal/core/logging"
	"github.com/mscartozzoni/noticeq/internal/core/notice"
	"github.com/mscartozzoni/noticeq/internal/core/styles"
	"github.com/mscartozzoni/noticeq/internal/toast"
)

// Model drives a single dispatcher from the keyboard and renders its queue.
type Model struct {
	d       *toast.Dispatcher
	watcher *StateWatcher
	log     zerolog.Logger

	keys keyMap
	help help.Model

	state   notice.State
	width   int
	height  int
	seq     int
	updates int
}

// New creates a Model bound to d. The model subscribes immediately; call
// Close once the program exits.
func New(d *toast.Dispatcher) Model {
	w := Watch(d)
	return Model{
		d:       d,
		watcher: w,
		log:     logging.Portal("tui", d.Name()),
		keys:    defaultKeyMap(),
		help:    help.New(),
		state:   w.Latest(),
	}
}

// Close detaches the model from its dispatcher.
func (m Model) Close() {
	m.watcher.Close()
}

func (m Model) Init() tea.Cmd {
	return m.watcher.WaitForSignal()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case stateChangedMsg:
		m.state = m.watcher.Latest()
		return m, m.watcher.WaitForSignal()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Info):
		m.push(notice.VariantInfo)
	case key.Matches(msg, m.keys.Success):
		m.push(notice.VariantSuccess)
	case key.Matches(msg, m.keys.Warning):
		m.push(notice.VariantWarning)
	case key.Matches(msg, m.keys.Destructive):
		m.push(notice.VariantDestructive)
	case key.Matches(msg, m.keys.Update):
		if n, ok := newest(m.d.State(), false); ok {
			m.updates++
			m.d.Update(n.ID, notice.Description(fmt.Sprintf("updated %d time(s)", m.updates)))
		}
	case key.Matches(msg, m.keys.Dismiss):
		if n, ok := newest(m.d.State(), true); ok {
			m.d.Dismiss(n.ID)
		}
	case key.Matches(msg, m.keys.Clear):
		m.d.Clear()
	}
	return m, nil
}

func (m *Model) push(v notice.Variant) {
	m.seq++
	h := m.d.Notify(toast.Options{
		Title:       fmt.Sprintf("%s #%d", v, m.seq),
		Description: "pushed from the keyboard",
		Variant:     v,
	})
	m.log.Debug().Str("notice_id", h.ID()).Msg("notice pushed")
}

// newest returns the first notice in queue order, optionally skipping
// hidden ones.
func newest(s notice.State, visibleOnly bool) (notice.Notice, bool) {
	for _, n := range s.Notices {
		if visibleOnly && !n.Visible {
			continue
		}
		return n, true
	}
	return notice.Notice{}, false
}

func (m Model) View() string {
	var b strings.Builder

	header := fmt.Sprintf("%s  %d/%d", m.d.Name(), m.state.Len(), m.d.Capacity())
	b.WriteString(styles.HeaderStyle.Render(header))
	b.WriteString("\n\n")

	if stack := RenderStack(m.state, m.width); stack != "" {
		b.WriteString(stack)
	} else {
		b.WriteString(styles.MutedStyle.Render("no notices"))
	}
	b.WriteString("\n")

	b.WriteString(styles.HelpStyle.Render(m.help.View(m.keys)))
	return b.String()
}
