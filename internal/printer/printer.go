// Package printer writes styled status lines for CLI commands.
package printer

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"os"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/portal/internal/core/styles"
)

type ctxKey struct{}

// Printer writes status lines to a writer.
type Printer struct {
	out io.Writer
}

func New(out io.Writer) *Printer {
	return &Printer{out: out}
}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the printer stored in ctx, or one writing to stdout.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok && p != nil {
		return p
	}
	return New(os.Stdout)
}

func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Section(title string) {
	_, _ = fmt.Fprintln(p.out, styles.CommandHeaderStyle.Render(title))
}

func (p *Printer) Successf(format string, args ...any) {
	p.line(styles.ColorSuccess, "✔", format, args...)
}

func (p *Printer) Infof(format string, args ...any) {
	p.line(styles.ColorPrimary, styles.IconInfo, format, args...)
}

func (p *Printer) Warnf(format string, args ...any) {
	p.line(styles.ColorWarning, styles.IconWarning, format, args...)
}

func (p *Printer) Errorf(format string, args ...any) {
	p.line(styles.ColorError, styles.IconError, format, args...)
}

func (p *Printer) line(c color.Color, icon, format string, args ...any) {
	prefix := lipgloss.NewStyle().Foreground(c).Bold(true).Render(icon)
	_, _ = fmt.Fprintf(p.out, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}
