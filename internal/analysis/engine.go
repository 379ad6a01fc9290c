package analysis

import (
	"context"
	"fmt"
	"sync"

	"github.com/tliron/commonlog"

	"satyls/internal/source"
	"satyls/internal/symbols"
)

// Engine owns the open documents and serializes analysis per document.
// An edit supersedes the running analysis of the same document: the
// old run is cancelled and a new one starts from the latest text.
// Published snapshots move strictly forward in version.
type Engine struct {
	mu     sync.Mutex
	docs   map[string]*document
	loader *Loader
	log    commonlog.Logger
}

type document struct {
	path string
	// wanted is the latest version handed to Update.
	wanted int32
	// ready is the newest published snapshot, nil until the first run
	// completes.
	ready *Snapshot
	// done is closed when the current run exits, successfully or not.
	done   chan struct{}
	cancel context.CancelFunc
}

// NewEngine builds an engine. The loader may be nil when dependency
// resolution is not wanted, in tests for instance.
func NewEngine(loader *Loader, log commonlog.Logger) *Engine {
	return &Engine{
		docs:   make(map[string]*document),
		loader: loader,
		log:    log,
	}
}

// Open registers a document and starts its first analysis.
func (e *Engine) Open(path string, version int32, text string) {
	e.Update(path, version, text)
}

// Update replaces the document text and schedules analysis. A run
// already in flight for the same document is cancelled.
func (e *Engine) Update(path string, version int32, text string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc := e.docs[path]
	if doc == nil {
		doc = &document{path: path}
		e.docs[path] = doc
	}
	if version < doc.wanted {
		// Stale notification, the client has already sent newer text.
		return
	}
	doc.wanted = version
	if doc.cancel != nil {
		doc.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	doc.cancel = cancel
	done := make(chan struct{})
	doc.done = done

	go e.run(ctx, doc, version, text, done)
}

func (e *Engine) run(ctx context.Context, doc *document, version int32, text string, done chan struct{}) {
	defer close(done)

	fs := source.NewFileSet()
	id := fs.AddVirtual(doc.path, []byte(text))
	file := fs.Get(id)

	var deps []*symbols.Table
	if e.loader != nil {
		deps = e.loader.LoadFor(ctx, fs, file)
	}

	snap, err := build(ctx, fs, file, version, deps)
	if err != nil {
		e.log.Debugf("analysis of %s v%d cancelled", doc.path, version)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if doc.ready != nil && doc.ready.Version >= snap.Version {
		return
	}
	doc.ready = snap
	e.log.Debugf("analysis of %s v%d published (%d diagnostics)",
		doc.path, version, len(snap.Diags))
}

// Close forgets a document and stops its running analysis.
func (e *Engine) Close(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if doc := e.docs[path]; doc != nil && doc.cancel != nil {
		doc.cancel()
	}
	delete(e.docs, path)
}

// Latest returns the newest published snapshot without waiting. It is
// nil until the first analysis of the document completes.
func (e *Engine) Latest(path string) *Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	if doc := e.docs[path]; doc != nil {
		return doc.ready
	}
	return nil
}

// Snapshot blocks until a snapshot for the latest requested version of
// the document is published, the context ends, or the document is
// closed.
func (e *Engine) Snapshot(ctx context.Context, path string) (*Snapshot, error) {
	for {
		e.mu.Lock()
		doc := e.docs[path]
		if doc == nil {
			e.mu.Unlock()
			return nil, fmt.Errorf("analysis: unknown document %s", path)
		}
		if doc.ready != nil && doc.ready.Version >= doc.wanted {
			snap := doc.ready
			e.mu.Unlock()
			return snap, nil
		}
		done := doc.done
		e.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-done:
			// The run finished or was superseded, re-check.
		}
	}
}
