// Package output prints hcp's own diagnostics to the local error stream.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jwalton/go-supportscolor"
)

var (
	red    = "\033[31m"
	yellow = "\033[33m"
	dim    = "\033[2m"
	reset  = "\033[0m"
)

func init() {
	if !supportscolor.Stderr().SupportsColor {
		red, yellow, dim, reset = "", "", "", ""
	}
}

// Printer writes prefixed diagnostic lines. The zero value writes to os.Stderr.
type Printer struct {
	W io.Writer
}

// Stderr returns a Printer for the process error stream.
func Stderr() *Printer {
	return &Printer{W: os.Stderr}
}

func (p *Printer) writer() io.Writer {
	if p == nil || p.W == nil {
		return os.Stderr
	}
	return p.W
}

// Errorf prints a failure line, e.g. "[hcp] spawn failure: ...".
func (p *Printer) Errorf(format string, args ...any) {
	p.print(red, format, args...)
}

// Warnf prints a warning line.
func (p *Printer) Warnf(format string, args ...any) {
	p.print(yellow, format, args...)
}

// Infof prints a plain line.
func (p *Printer) Infof(format string, args ...any) {
	p.print("", format, args...)
}

func (p *Printer) print(color, format string, args ...any) {
	msg := formatLabel(fmt.Sprintf(format, args...))
	if color != "" {
		_, _ = fmt.Fprintf(p.writer(), "%s[hcp]%s %s\n", color, reset, msg)
		return
	}
	_, _ = fmt.Fprintf(p.writer(), "[hcp] %s\n", msg)
}

// formatLabel dims the leading "label:" part of a message.
func formatLabel(s string) string {
	if dim == "" {
		return s
	}
	if idx := strings.Index(s, ":"); idx > 0 {
		return dim + s[:idx+1] + reset + s[idx+1:]
	}
	return s
}
