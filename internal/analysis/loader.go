package analysis

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/tliron/commonlog"

	"satyls/internal/diag"
	"satyls/internal/lexer"
	"satyls/internal/parser"
	"satyls/internal/source"
	"satyls/internal/symbols"
	"satyls/internal/token"
)

// depExtensions are tried in order when a header names a package
// without an extension.
var depExtensions = []string{".satyh", ".satyg"}

// Loader resolves @require and @import headers to files, analyzes
// them and returns their exported environments. Results are cached in
// memory by content hash and persisted through an optional disk cache.
type Loader struct {
	// roots are the package roots searched by @require, in order.
	roots []string
	cache *DepCache
	log   commonlog.Logger

	// memo maps content hash to extracted exports. Runs for
	// different documents share the loader, hence the lock.
	mu   sync.Mutex
	memo map[[32]byte]*depExports
}

// NewLoader builds a loader. Extra roots, from a project manifest for
// instance, are searched before the user package root. A nil cache
// disables persistence.
func NewLoader(extraRoots []string, cache *DepCache, log commonlog.Logger) *Loader {
	roots := append([]string{}, extraRoots...)
	if home := packageRoot(); home != "" {
		roots = append(roots, home)
	}
	return &Loader{
		roots: roots,
		cache: cache,
		log:   log,
		memo:  make(map[[32]byte]*depExports),
	}
}

// packageRoot returns the installed package directory, honouring the
// SATYSFI_HOME override.
func packageRoot() string {
	if home := os.Getenv("SATYSFI_HOME"); home != "" {
		return filepath.Join(home, "dist", "packages")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".satysfi", "dist", "packages")
}

// LoadFor reads the headers of the document and returns the exported
// environment of every reachable dependency. Missing or cyclic
// dependencies are skipped; the document still analyzes.
func (l *Loader) LoadFor(ctx context.Context, fs *source.FileSet, file *source.File) []*symbols.Table {
	headers := scanHeaders(file)
	if len(headers) == 0 {
		return nil
	}
	visited := map[string]bool{file.Path: true}
	var tables []*symbols.Table
	l.loadHeaders(ctx, fs, filepath.Dir(file.Path), headers, visited, &tables)
	return tables
}

func (l *Loader) loadHeaders(ctx context.Context, fs *source.FileSet, dir string,
	headers []symbols.HeaderRef, visited map[string]bool, tables *[]*symbols.Table) {
	for _, h := range headers {
		if ctx.Err() != nil {
			return
		}
		path := l.resolveHeader(dir, h)
		if path == "" {
			continue
		}
		if visited[path] {
			continue
		}
		visited[path] = true
		table, deps := l.loadDep(ctx, fs, path)
		if table == nil {
			continue
		}
		// Transitive dependencies first so their names are importable
		// too.
		l.loadHeaders(ctx, fs, filepath.Dir(path), deps, visited, tables)
		*tables = append(*tables, table)
	}
}

// resolveHeader maps a header to an existing file path, or "".
func (l *Loader) resolveHeader(docDir string, h symbols.HeaderRef) string {
	var bases []string
	if h.Kind == symbols.HeaderImport {
		bases = []string{docDir}
	} else {
		bases = l.roots
	}
	for _, base := range bases {
		if base == "" {
			continue
		}
		candidate := filepath.Join(base, filepath.FromSlash(h.Name))
		if filepath.Ext(candidate) != "" {
			if fileExists(candidate) {
				return candidate
			}
			continue
		}
		for _, ext := range depExtensions {
			if fileExists(candidate + ext) {
				return candidate + ext
			}
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// loadDep analyzes one dependency file, going through the caches when
// possible, and returns its environment plus its own headers.
func (l *Loader) loadDep(ctx context.Context, fs *source.FileSet, path string) (*symbols.Table, []symbols.HeaderRef) {
	id, err := fs.Load(path)
	if err != nil {
		l.log.Warningf("dependency %s: %s", path, err)
		return nil, nil
	}
	file := fs.Get(id)
	hash := file.Hash

	if exp := l.lookupExports(hash); exp != nil {
		return exp.toTable(file), exp.headerRefs(file)
	}

	root := parser.ParseFile(file, diag.NewBag(maxDiagnostics))
	if ctx.Err() != nil {
		return nil, nil
	}
	table := symbols.Resolve(file, root)
	exp := exportsFromTable(table)
	l.mu.Lock()
	l.memo[hash] = exp
	l.mu.Unlock()
	if l.cache != nil {
		if err := l.cache.Store(hash, exp); err != nil {
			l.log.Warningf("dependency cache: %s", err)
		}
	}
	return table, table.Headers
}

func (l *Loader) lookupExports(hash [32]byte) *depExports {
	l.mu.Lock()
	exp := l.memo[hash]
	l.mu.Unlock()
	if exp != nil {
		return exp
	}
	if l.cache == nil {
		return nil
	}
	exp, err := l.cache.Lookup(hash)
	if err != nil || exp == nil {
		return nil
	}
	l.mu.Lock()
	l.memo[hash] = exp
	l.mu.Unlock()
	return exp
}

// scanHeaders extracts the dependency headers from the raw token
// stream, without a parse.
func scanHeaders(file *source.File) []symbols.HeaderRef {
	var out []symbols.HeaderRef
	lx := lexer.New(file)
	kind := symbols.HeaderRequire
	pending := false
	for {
		tok := lx.Next()
		switch tok.Kind {
		case token.HeaderRequire:
			kind, pending = symbols.HeaderRequire, true
			continue
		case token.HeaderImport:
			kind, pending = symbols.HeaderImport, true
			continue
		case token.HeaderName:
			if pending {
				out = append(out, symbols.HeaderRef{Kind: kind, Name: tok.Text, Span: tok.Span})
			}
			pending = false
			continue
		case token.EOF:
			return out
		default:
			// Headers only appear before the first statement.
			return out
		}
	}
}
