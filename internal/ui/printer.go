// internal/ui/printer.go

// Package ui renders tagged progress and error lines. Informational
// lines go to stdout, failures to stderr, each with a fixed severity
// tag so logs stay greppable.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	stepStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Faint(true)
)

// Printer writes tagged status lines.
type Printer struct {
	out io.Writer
	err io.Writer

	// Verbose enables detail lines.
	Verbose bool
}

// NewPrinter returns a Printer on stdout/stderr.
func NewPrinter() *Printer {
	return &Printer{out: os.Stdout, err: os.Stderr}
}

// NewPrinterTo returns a Printer on the given writers.
func NewPrinterTo(out, err io.Writer) *Printer {
	return &Printer{out: out, err: err}
}

func (p *Printer) line(w io.Writer, tag string, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", tag, fmt.Sprintf(format, args...))
}

// Stepf announces a workflow stage.
func (p *Printer) Stepf(format string, args ...interface{}) {
	p.line(p.out, stepStyle.Render("[step]"), format, args...)
}

// Infof reports progress.
func (p *Printer) Infof(format string, args ...interface{}) {
	p.line(p.out, infoStyle.Render("[info]"), format, args...)
}

// Detailf reports progress only when verbose.
func (p *Printer) Detailf(format string, args ...interface{}) {
	if !p.Verbose {
		return
	}
	p.line(p.out, dimStyle.Render("[....]"), format, args...)
}

// Okf reports a satisfied condition.
func (p *Printer) Okf(format string, args ...interface{}) {
	p.line(p.out, okStyle.Render("[ ok ]"), format, args...)
}

// Warnf reports a non-fatal condition.
func (p *Printer) Warnf(format string, args ...interface{}) {
	p.line(p.out, warnStyle.Render("[warn]"), format, args...)
}

// Failf reports a fatal condition on stderr.
func (p *Printer) Failf(format string, args ...interface{}) {
	p.line(p.err, failStyle.Render("[fail]"), format, args...)
}
