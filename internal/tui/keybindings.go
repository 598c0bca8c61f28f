package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Info        key.Binding
	Success     key.Binding
	Warning     key.Binding
	Destructive key.Binding
	Update      key.Binding
	Dismiss     key.Binding
	Clear       key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Info:        key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "info")),
		Success:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "success")),
		Warning:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "warning")),
		Destructive: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "error")),
		Update:      key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "update newest")),
		Dismiss:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dismiss newest")),
		Clear:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Info, k.Dismiss, k.Clear, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Info, k.Success, k.Warning, k.Destructive},
		{k.Update, k.Dismiss, k.Clear},
		{k.Help, k.Quit},
	}
}
