// Package format renders a concrete syntax tree back to canonical
// text. The printer is deterministic and idempotent: formatting its
// own output changes nothing. Comments survive formatting, attached
// before the statement they precede.
package format

import (
	"strings"
)

// Options controls the rendered layout.
type Options struct {
	// IndentWidth is the number of spaces per nesting level.
	IndentWidth int
	// MaxWidth is the line width limit in display cells. Statements
	// wider than this wrap their body.
	MaxWidth int
}

// DefaultOptions matches the conventional layout of existing
// documents.
func DefaultOptions() Options {
	return Options{IndentWidth: 2, MaxWidth: 80}
}

func (o Options) normalized() Options {
	if o.IndentWidth <= 0 {
		o.IndentWidth = 2
	}
	if o.MaxWidth <= 0 {
		o.MaxWidth = 80
	}
	return o
}

// writer accumulates output lines with indentation bookkeeping. It
// collapses consecutive blank lines to one.
type writer struct {
	sb          strings.Builder
	indentWidth int
	depth       int
	atLineStart bool
	blankRun    int
}

func newWriter(indentWidth int) *writer {
	return &writer{indentWidth: indentWidth, atLineStart: true}
}

func (w *writer) indent() { w.depth++ }
func (w *writer) outdent() {
	if w.depth > 0 {
		w.depth--
	}
}

// line writes one full line at the current indentation.
func (w *writer) line(s string) {
	if s == "" {
		w.blank()
		return
	}
	if !w.atLineStart {
		w.newline()
	}
	w.sb.WriteString(strings.Repeat(" ", w.depth*w.indentWidth))
	w.sb.WriteString(s)
	w.newline()
	w.blankRun = 0
}

func (w *writer) newline() {
	w.sb.WriteByte('\n')
	w.atLineStart = true
}

// blank requests one empty separator line. Repeated requests collapse.
func (w *writer) blank() {
	if w.sb.Len() == 0 || w.blankRun > 0 {
		return
	}
	w.newline()
	w.blankRun++
}

func (w *writer) String() string {
	out := w.sb.String()
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}
