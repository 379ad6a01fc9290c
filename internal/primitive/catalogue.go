// Package primitive embeds the catalogue of built-in names offered by
// completion and hover. The catalogue is loaded once from a TOML
// resource compiled into the binary and is immutable afterwards.
package primitive

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/BurntSushi/toml"
)

//go:embed primitives.toml
var rawCatalogue []byte

// Mode selects the syntactic position a primitive is offered in.
type Mode uint8

const (
	// ModeProgram is a plain value or function name.
	ModeProgram Mode = iota
	// ModeInline is an inline command, \name.
	ModeInline
	// ModeBlock is a block command, +name.
	ModeBlock
	// ModeMath is a math command or symbol.
	ModeMath
)

func (m Mode) String() string {
	switch m {
	case ModeProgram:
		return "program"
	case ModeInline:
		return "inline"
	case ModeBlock:
		return "block"
	case ModeMath:
		return "math"
	default:
		return "mode(?)"
	}
}

// Entry is one built-in item.
type Entry struct {
	// Name is the surface name, including the \ or + sigil for
	// command primitives.
	Name string
	// Mode is where the entry is offered.
	Mode Mode
	// Signature is the type shown as completion detail and in hover.
	Signature string
	// Documentation is a short prose description.
	Documentation string
	// InsertText overrides Name on acceptance; empty means insert the
	// name itself.
	InsertText string
	// Snippet marks InsertText as an LSP snippet with tab stops.
	Snippet bool
}

// Catalogue is the full set of built-ins, indexed by name and by mode.
type Catalogue struct {
	entries []Entry
	byName  map[string]*Entry
	byMode  map[Mode][]*Entry
}

type rawEntry struct {
	Name          string `toml:"name"`
	Mode          string `toml:"mode"`
	Signature     string `toml:"signature"`
	Documentation string `toml:"documentation"`
	InsertText    string `toml:"insert-text"`
	InsertFormat  string `toml:"insert-format"`
}

type rawFile struct {
	Primitive []rawEntry `toml:"primitive"`
}

var (
	loadOnce sync.Once
	loaded   *Catalogue
	loadErr  error
)

// Load parses the embedded catalogue. Repeated calls return the same
// instance.
func Load() (*Catalogue, error) {
	loadOnce.Do(func() {
		loaded, loadErr = parse(rawCatalogue)
	})
	return loaded, loadErr
}

func parse(data []byte) (*Catalogue, error) {
	var raw rawFile
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("primitive catalogue: %w", err)
	}
	cat := &Catalogue{
		entries: make([]Entry, 0, len(raw.Primitive)),
		byName:  make(map[string]*Entry, len(raw.Primitive)),
		byMode:  make(map[Mode][]*Entry, 4),
	}
	for _, r := range raw.Primitive {
		if r.Name == "" {
			return nil, fmt.Errorf("primitive catalogue: entry without a name")
		}
		mode, err := parseMode(r.Mode)
		if err != nil {
			return nil, fmt.Errorf("primitive %s: %w", r.Name, err)
		}
		cat.entries = append(cat.entries, Entry{
			Name:          r.Name,
			Mode:          mode,
			Signature:     r.Signature,
			Documentation: r.Documentation,
			InsertText:    r.InsertText,
			Snippet:       r.InsertFormat == "snippet",
		})
	}
	for i := range cat.entries {
		e := &cat.entries[i]
		if _, dup := cat.byName[e.Name]; dup {
			return nil, fmt.Errorf("primitive catalogue: duplicate name %s", e.Name)
		}
		cat.byName[e.Name] = e
		cat.byMode[e.Mode] = append(cat.byMode[e.Mode], e)
	}
	return cat, nil
}

func parseMode(s string) (Mode, error) {
	switch s {
	case "program":
		return ModeProgram, nil
	case "inline":
		return ModeInline, nil
	case "block":
		return ModeBlock, nil
	case "math":
		return ModeMath, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

// Lookup returns the entry with the given surface name, or nil.
func (c *Catalogue) Lookup(name string) *Entry {
	return c.byName[name]
}

// ByMode lists the entries offered in the given mode, in file order.
// The returned slice must not be mutated.
func (c *Catalogue) ByMode(mode Mode) []*Entry {
	return c.byMode[mode]
}

// Len is the total number of entries.
func (c *Catalogue) Len() int { return len(c.entries) }
