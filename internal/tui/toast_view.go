package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mscartozzoni/noticeq/internal/core/notice"
	"github.com/mscartozzoni/noticeq/internal/core/styles"
)

const toastWidth = 50

// RenderStack renders the queue newest first, one bordered box per notice.
// Hidden notices waiting for removal are drawn dimmed. width caps the box
// width; zero or less uses the default.
func RenderStack(s notice.State, width int) string {
	if s.Len() == 0 {
		return ""
	}

	w := toastWidth
	if width > 0 {
		w = min(w, width)
	}

	rendered := make([]string, 0, s.Len())
	for _, n := range s.Notices {
		rendered = append(rendered, RenderToast(n, w))
	}

	return strings.Join(rendered, "\n")
}

// RenderToast renders a single notice at the given outer width.
func RenderToast(n notice.Notice, width int) string {
	style := styles.ToastStyle(n.Variant)
	if !n.Visible {
		style = styles.ToastHiddenStyle
	}

	title := n.Title
	if title == "" {
		title = string(n.Variant)
	}

	lines := []string{styles.Icon(n.Variant) + " " + styles.ToastTitleStyle.Render(title)}
	if n.Description != "" {
		lines = append(lines, styles.ToastDescriptionStyle.Render(n.Description))
	}

	inner := max(width-style.GetHorizontalBorderSize(), 1)
	return style.Width(inner).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
