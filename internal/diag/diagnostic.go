package diag

import (
	"satyls/internal/source"
)

// Note is a secondary span attached to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one reportable finding. Recoverable syntax errors carry
// SevError like unrecoverable ones; the distinction lives in the code and
// in how much tree survived around them.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// New constructs a diagnostic without notes.
func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

// NewError is the SevError shortcut.
func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// WithNote returns a copy with an extra note appended.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
