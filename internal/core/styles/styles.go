// Package styles provides the lipgloss styles shared by the demo renderer and
// the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mscartozzoni/noticeq/internal/core/notice"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

var (
	ToastBaseStyle        lipgloss.Style
	ToastDefaultStyle     lipgloss.Style
	ToastInfoStyle        lipgloss.Style
	ToastSuccessStyle     lipgloss.Style
	ToastWarningStyle     lipgloss.Style
	ToastDestructiveStyle lipgloss.Style
	// ToastHiddenStyle renders dismissed notices waiting for removal.
	ToastHiddenStyle lipgloss.Style

	ToastTitleStyle       lipgloss.Style
	ToastDescriptionStyle lipgloss.Style

	HeaderStyle lipgloss.Style
	HelpStyle   lipgloss.Style
	MutedStyle  lipgloss.Style
)

// SetTheme rebuilds every style from p.
func SetTheme(p Palette) {
	CurrentPalette = p

	ToastBaseStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	ToastDefaultStyle = ToastBaseStyle.BorderForeground(p.Foreground)
	ToastInfoStyle = ToastBaseStyle.BorderForeground(p.Primary)
	ToastSuccessStyle = ToastBaseStyle.BorderForeground(p.Success)
	ToastWarningStyle = ToastBaseStyle.BorderForeground(p.Warning)
	ToastDestructiveStyle = ToastBaseStyle.BorderForeground(p.Error)
	ToastHiddenStyle = ToastBaseStyle.
		BorderForeground(p.Surface).
		Foreground(p.Muted).
		Faint(true)

	ToastTitleStyle = lipgloss.NewStyle().
		Foreground(p.Foreground).
		Bold(true)
	ToastDescriptionStyle = lipgloss.NewStyle().
		Foreground(p.Muted)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
	HelpStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		MarginTop(1)
	MutedStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
}

// UseTheme activates the named theme. It reports false, leaving the current
// theme in place, when the name is unknown.
func UseTheme(name string) bool {
	p, ok := GetPalette(name)
	if !ok {
		return false
	}
	SetTheme(p)
	return true
}

// ToastStyle returns the border style for a notice of variant v.
func ToastStyle(v notice.Variant) lipgloss.Style {
	switch v {
	case notice.VariantInfo:
		return ToastInfoStyle
	case notice.VariantSuccess:
		return ToastSuccessStyle
	case notice.VariantWarning:
		return ToastWarningStyle
	case notice.VariantDestructive:
		return ToastDestructiveStyle
	default:
		return ToastDefaultStyle
	}
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
