// Package printer writes styled, line-oriented command output.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/mscartozzoni/noticeq/internal/core/notice"
	"github.com/mscartozzoni/noticeq/internal/core/styles"
)

type ctxKey struct{}

// Printer prints status lines prefixed with the notice variant icons.
type Printer struct {
	out io.Writer
}

// New creates a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{out: w}
}

// NewContext returns ctx carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the Printer stored in ctx, or one writing to stdout.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout)
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Printf prints a plain line.
func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

// Section prints a bold header line.
func (p *Printer) Section(title string) {
	_, _ = fmt.Fprintln(p.out, styles.HeaderStyle.Render(title))
}

func (p *Printer) Infof(format string, args ...any) {
	p.status(notice.VariantInfo, styles.CurrentPalette.Primary, format, args...)
}

func (p *Printer) Successf(format string, args ...any) {
	p.status(notice.VariantSuccess, styles.CurrentPalette.Success, format, args...)
}

func (p *Printer) Warnf(format string, args ...any) {
	p.status(notice.VariantWarning, styles.CurrentPalette.Warning, format, args...)
}

func (p *Printer) Errorf(format string, args ...any) {
	p.status(notice.VariantDestructive, styles.CurrentPalette.Error, format, args...)
}

func (p *Printer) status(v notice.Variant, c lipgloss.Color, format string, args ...any) {
	icon := lipgloss.NewStyle().Foreground(c).Render(styles.Icon(v))
	_, _ = fmt.Fprintf(p.out, "%s %s\n", icon, fmt.Sprintf(format, args...))
}
