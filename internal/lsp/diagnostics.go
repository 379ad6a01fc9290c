package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"satyls/internal/analysis"
	"satyls/internal/diag"
)

const diagnosticSource = "satyls"

// diagnosticsFor converts a snapshot's diagnostics to protocol form.
// The result is never nil: an empty slice clears previous squiggles.
func diagnosticsFor(snap *analysis.Snapshot) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(snap.Diags))
	for _, d := range snap.Diags {
		severity := protocolSeverity(d.Severity)
		code := protocol.IntegerOrString{Value: d.Code.String()}
		src := diagnosticSource
		pd := protocol.Diagnostic{
			Range:    rangeOf(snap.File, d.Primary),
			Severity: &severity,
			Code:     &code,
			Source:   &src,
			Message:  d.Message,
		}
		for _, note := range d.Notes {
			pd.RelatedInformation = append(pd.RelatedInformation, protocol.DiagnosticRelatedInformation{
				Location: protocol.Location{
					URI:   pathToURI(snap.File.Path),
					Range: rangeOf(snap.File, note.Span),
				},
				Message: note.Msg,
			})
		}
		out = append(out, pd)
	}
	return out
}

// hasErrors reports whether the snapshot carries at least one
// error-severity diagnostic.
func hasErrors(snap *analysis.Snapshot) bool {
	for _, d := range snap.Diags {
		if d.Severity == diag.SevError {
			return true
		}
	}
	return false
}

func protocolSeverity(sev diag.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case diag.SevError:
		return protocol.DiagnosticSeverityError
	case diag.SevWarning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}
