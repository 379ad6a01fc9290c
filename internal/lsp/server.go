// Package lsp is the protocol boundary: it translates LSP requests
// into analysis queries and analysis results back into protocol
// structures. All language knowledge lives below it.
package lsp

import (
	"context"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserv "github.com/tliron/glsp/server"

	"satyls/internal/analysis"
	"satyls/internal/format"
	"satyls/internal/primitive"
)

// Analyzer is what the server needs from the analysis layer. The
// concrete implementation is analysis.Engine; tests substitute their
// own.
type Analyzer interface {
	Open(path string, version int32, text string)
	Update(path string, version int32, text string)
	Close(path string)
	Snapshot(ctx context.Context, path string) (*analysis.Snapshot, error)
	Latest(path string) *analysis.Snapshot
}

// Config carries everything a Server needs at construction.
type Config struct {
	Name     string
	Version  string
	Analyzer Analyzer
	// PackageRoots are searched for header completion.
	PackageRoots []string
	Format       format.Options
	Log          commonlog.Logger
	Debug        bool
}

// Server owns the protocol handler and the feature providers.
type Server struct {
	name    string
	version string

	analyzer Analyzer
	cat      *primitive.Catalogue
	pkgRoots []string
	fmtOpts  format.Options
	log      commonlog.Logger
	debug    bool

	handler protocol.Handler
}

// New builds a server. It fails only if the embedded primitive
// catalogue is unreadable, which is a build defect.
func New(cfg Config) (*Server, error) {
	cat, err := primitive.Load()
	if err != nil {
		return nil, err
	}
	s := &Server{
		name:     cfg.Name,
		version:  cfg.Version,
		analyzer: cfg.Analyzer,
		cat:      cat,
		pkgRoots: cfg.PackageRoots,
		fmtOpts:  cfg.Format,
		log:      cfg.Log,
		debug:    cfg.Debug,
	}
	s.handler = protocol.Handler{
		Initialize:  s.Initialize,
		Initialized: s.Initialized,
		Shutdown:    s.Shutdown,
		SetTrace:    s.SetTrace,

		TextDocumentDidOpen:   s.TextDocumentDidOpen,
		TextDocumentDidChange: s.TextDocumentDidChange,
		TextDocumentDidClose:  s.TextDocumentDidClose,
		TextDocumentDidSave:   s.TextDocumentDidSave,

		TextDocumentCompletion: s.TextDocumentCompletion,
		TextDocumentHover:      s.TextDocumentHover,
		TextDocumentDefinition: s.TextDocumentDefinition,
		TextDocumentFormatting: s.TextDocumentFormatting,
	}
	return s, nil
}

// RunStdio serves the client over stdin/stdout until it disconnects.
func (s *Server) RunStdio() error {
	return glspserv.NewServer(&s.handler, s.name, s.debug).RunStdio()
}

// RunTCP serves clients on the given address.
func (s *Server) RunTCP(addr string) error {
	return glspserv.NewServer(&s.handler, s.name, s.debug).RunTCP(addr)
}
