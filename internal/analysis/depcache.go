package analysis

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"satyls/internal/source"
	"satyls/internal/symbols"
)

// depSchema is bumped whenever the export record layout changes, which
// invalidates every cached entry at once.
const depSchema = 1

// symRec is the serializable form of an exported symbol. Spans are
// stored as raw offsets; the file identity is re-established when the
// dependency file is registered in the run's file set.
type symRec struct {
	Name     string `msgpack:"n"`
	Kind     uint8  `msgpack:"k"`
	Vis      uint8  `msgpack:"v"`
	SigText  string `msgpack:"s,omitempty"`
	DefStart uint32 `msgpack:"ds"`
	DefEnd   uint32 `msgpack:"de"`
}

type moduleRec struct {
	Name     string   `msgpack:"n"`
	DefStart uint32   `msgpack:"ds"`
	DefEnd   uint32   `msgpack:"de"`
	Members  []symRec `msgpack:"m"`
}

type headerRec struct {
	Kind  uint8  `msgpack:"k"`
	Name  string `msgpack:"n"`
	Start uint32 `msgpack:"s"`
	End   uint32 `msgpack:"e"`
}

// depExports is the cached environment of one dependency file.
type depExports struct {
	Schema   int         `msgpack:"schema"`
	TopLevel []symRec    `msgpack:"top"`
	Modules  []moduleRec `msgpack:"mods"`
	Headers  []headerRec `msgpack:"hdrs"`
}

func exportsFromTable(t *symbols.Table) *depExports {
	exp := &depExports{Schema: depSchema}
	for _, s := range t.Root.Symbols {
		if s.Kind == symbols.KindParam || s.Kind == symbols.KindModule {
			continue
		}
		exp.TopLevel = append(exp.TopLevel, recFromSymbol(s))
	}
	for name, info := range t.Modules {
		rec := moduleRec{Name: name}
		if info.Sym != nil {
			rec.DefStart = info.Sym.Def.Start
			rec.DefEnd = info.Sym.Def.End
		}
		for _, m := range info.Members {
			if m.Vis == symbols.VisPrivate {
				continue
			}
			rec.Members = append(rec.Members, recFromSymbol(m))
		}
		exp.Modules = append(exp.Modules, rec)
	}
	for _, h := range t.Headers {
		exp.Headers = append(exp.Headers, headerRec{
			Kind:  uint8(h.Kind),
			Name:  h.Name,
			Start: h.Span.Start,
			End:   h.Span.End,
		})
	}
	return exp
}

func recFromSymbol(s *symbols.Symbol) symRec {
	return symRec{
		Name:     s.Name,
		Kind:     uint8(s.Kind),
		Vis:      uint8(s.Vis),
		SigText:  s.SigText,
		DefStart: s.Def.Start,
		DefEnd:   s.Def.End,
	}
}

// toTable rebuilds a mergeable symbol table against the given file
// registration.
func (e *depExports) toTable(file *source.File) *symbols.Table {
	fileSpan := source.Span{File: file.ID, Start: 0, End: uint32(len(file.Content))}
	t := &symbols.Table{
		File:    file,
		Root:    &symbols.Scope{Span: fileSpan},
		Modules: make(map[string]*symbols.ModuleInfo),
	}
	for _, rec := range e.TopLevel {
		t.Root.Symbols = append(t.Root.Symbols, rec.toSymbol(file.ID, "", fileSpan))
	}
	for _, mod := range e.Modules {
		info := &symbols.ModuleInfo{Name: mod.Name}
		info.Sym = &symbols.Symbol{
			Name:    mod.Name,
			Kind:    symbols.KindModule,
			Def:     source.Span{File: file.ID, Start: mod.DefStart, End: mod.DefEnd},
			Visible: fileSpan,
		}
		for _, rec := range mod.Members {
			info.Members = append(info.Members, rec.toSymbol(file.ID, mod.Name, fileSpan))
		}
		t.Modules[mod.Name] = info
	}
	return t
}

func (rec symRec) toSymbol(fileID source.FileID, module string, visible source.Span) *symbols.Symbol {
	return &symbols.Symbol{
		Name:    rec.Name,
		Kind:    symbols.Kind(rec.Kind),
		Vis:     symbols.Visibility(rec.Vis),
		SigText: rec.SigText,
		Def:     source.Span{File: fileID, Start: rec.DefStart, End: rec.DefEnd},
		Visible: visible,
		Module:  module,
	}
}

func (e *depExports) headerRefs(file *source.File) []symbols.HeaderRef {
	out := make([]symbols.HeaderRef, 0, len(e.Headers))
	for _, h := range e.Headers {
		out = append(out, symbols.HeaderRef{
			Kind: symbols.HeaderKind(h.Kind),
			Name: h.Name,
			Span: source.Span{File: file.ID, Start: h.Start, End: h.End},
		})
	}
	return out
}

// DepCache persists dependency environments across server restarts,
// keyed by content hash.
type DepCache struct {
	dir string
}

// OpenDepCache places the cache under the user cache directory unless
// an explicit directory is given.
func OpenDepCache(dir string) (*DepCache, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("dep cache: %w", err)
		}
		dir = filepath.Join(base, "satyls", "deps")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("dep cache: %w", err)
	}
	return &DepCache{dir: dir}, nil
}

func (c *DepCache) entryPath(hash [32]byte) string {
	return filepath.Join(c.dir, hex.EncodeToString(hash[:])+".msgpack")
}

// Lookup returns the cached exports for a content hash. A missing
// entry or a schema mismatch yields nil without error.
func (c *DepCache) Lookup(hash [32]byte) (*depExports, error) {
	data, err := os.ReadFile(c.entryPath(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var exp depExports
	if err := msgpack.Unmarshal(data, &exp); err != nil {
		// A corrupt entry is dropped, not reported.
		_ = os.Remove(c.entryPath(hash))
		return nil, nil
	}
	if exp.Schema != depSchema {
		return nil, nil
	}
	return &exp, nil
}

// Store writes an entry atomically: temp file in the same directory,
// then rename.
func (c *DepCache) Store(hash [32]byte, exp *depExports) error {
	data, err := msgpack.Marshal(exp)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(c.dir, "entry-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, c.entryPath(hash))
}
