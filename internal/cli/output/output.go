// Package output renders CLI output. Styled output goes to terminals,
// plain text everywhere else.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/leapstack-labs/namedgen/internal/gen"
)

// Styles holds the lipgloss styles used across commands.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
	Path    lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
}

func newStyles() *Styles {
	return &Styles{
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Path:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold:    lipgloss.NewStyle().Bold(true),
	}
}

// Renderer writes command output, styling it when the destination is a
// terminal and color has not been disabled.
type Renderer struct {
	out     io.Writer
	errOut  io.Writer
	styles  *Styles
	colored bool
}

// NewRenderer builds a renderer for the given writers. color forces
// styling on or off; pass Auto to detect from the output writer.
func NewRenderer(out, errOut io.Writer, colored bool) *Renderer {
	return &Renderer{out: out, errOut: errOut, styles: newStyles(), colored: colored}
}

// Auto reports whether w looks like a terminal.
func Auto(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// Writer returns the standard output writer.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the error output writer.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Styles returns the style set when styling is active, or nil styles
// rendered as plain text otherwise.
func (r *Renderer) Styles() *Styles { return r.styles }

func (r *Renderer) render(s lipgloss.Style, text string) string {
	if !r.colored {
		return text
	}
	return s.Render(text)
}

// Diagnostic prints one generation diagnostic as file:line:col: message.
func (r *Renderer) Diagnostic(d gen.Diagnostic) {
	fmt.Fprintf(r.errOut, "%s: %s %s\n",
		r.render(r.styles.Path, d.Pos.String()),
		r.render(r.styles.Error, "error:"),
		d.Message)
}

// Errorf prints a styled error line to the error writer.
func (r *Renderer) Errorf(format string, args ...any) {
	fmt.Fprintf(r.errOut, "%s %s\n", r.render(r.styles.Error, "error:"), fmt.Sprintf(format, args...))
}

// Successf prints a styled confirmation line.
func (r *Renderer) Successf(format string, args ...any) {
	fmt.Fprintln(r.out, r.render(r.styles.Success, fmt.Sprintf(format, args...)))
}

// Infof prints a plain informational line.
func (r *Renderer) Infof(format string, args ...any) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

// Mutedf prints a de-emphasized line.
func (r *Renderer) Mutedf(format string, args ...any) {
	fmt.Fprintln(r.out, r.render(r.styles.Muted, fmt.Sprintf(format, args...)))
}
