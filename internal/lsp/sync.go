package lsp

import (
	"context"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// publishTimeout bounds how long a diagnostics push waits for
// analysis before giving up. A later edit triggers a fresh push.
const publishTimeout = 10 * time.Second

func (s *Server) TextDocumentDidOpen(glspCtx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path := uriToPath(params.TextDocument.URI)
	s.analyzer.Open(path, params.TextDocument.Version, params.TextDocument.Text)
	go s.publishDiagnostics(glspCtx.Notify, params.TextDocument.URI, path)
	return nil
}

func (s *Server) TextDocumentDidChange(glspCtx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path := uriToPath(params.TextDocument.URI)
	text, ok := fullText(params.ContentChanges)
	if !ok {
		s.log.Warningf("no full-text change for %s", path)
		return nil
	}
	s.analyzer.Update(path, params.TextDocument.Version, text)
	go s.publishDiagnostics(glspCtx.Notify, params.TextDocument.URI, path)
	return nil
}

// fullText extracts the full document text from a change set. The
// server advertises full sync, so incremental events are not expected.
func fullText(changes []any) (string, bool) {
	for _, change := range changes {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			return c.Text, true
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				return c.Text, true
			}
		}
	}
	return "", false
}

func (s *Server) TextDocumentDidClose(glspCtx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.analyzer.Close(uriToPath(params.TextDocument.URI))
	// Clear stale squiggles for the closed document.
	glspCtx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) TextDocumentDidSave(glspCtx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		path := uriToPath(params.TextDocument.URI)
		s.analyzer.Update(path, latestVersion(s, path)+1, *params.Text)
		go s.publishDiagnostics(glspCtx.Notify, params.TextDocument.URI, path)
	}
	return nil
}

func latestVersion(s *Server, path string) int32 {
	if snap := s.analyzer.Latest(path); snap != nil {
		return snap.Version
	}
	return 0
}

// publishDiagnostics waits for the snapshot of the latest version and
// pushes its diagnostics. Superseded waits simply resolve to the
// newer snapshot.
func (s *Server) publishDiagnostics(notify glsp.NotifyFunc, uri string, path string) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	snap, err := s.analyzer.Snapshot(ctx, path)
	if err != nil {
		// Closed in the meantime or analysis is stuck, nothing to send.
		return
	}
	version := protocol.UInteger(snap.Version)
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Version:     &version,
		Diagnostics: diagnosticsFor(snap),
	})
}
