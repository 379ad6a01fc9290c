// Package project locates and reads the satyls.toml workspace
// manifest. The manifest is optional; absence means defaults.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file looked for when walking up from a
// document.
const ManifestName = "satyls.toml"

// Manifest is the parsed workspace configuration.
type Manifest struct {
	// Root is the directory containing the manifest file.
	Root string `toml:"-"`

	Format   FormatConfig `toml:"format"`
	Packages Packages     `toml:"packages"`
}

// FormatConfig overrides the formatter defaults.
type FormatConfig struct {
	IndentWidth int `toml:"indent-width"`
	MaxWidth    int `toml:"max-width"`
}

// Packages configures dependency resolution.
type Packages struct {
	// Dirs are extra package roots, relative paths resolve against the
	// manifest directory.
	Dirs []string `toml:"dirs"`
}

// Find walks up from the given directory to the filesystem root
// looking for the manifest. A nil manifest without error means none
// exists.
func Find(dir string) (*Manifest, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return Load(candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Load reads and validates one manifest file.
func Load(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	if m.Format.IndentWidth < 0 || m.Format.MaxWidth < 0 {
		return nil, fmt.Errorf("manifest %s: negative format option", path)
	}
	m.Root = filepath.Dir(path)
	return &m, nil
}

// PackageDirs returns the configured package roots as absolute paths.
func (m *Manifest) PackageDirs() []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.Packages.Dirs))
	for _, d := range m.Packages.Dirs {
		if !filepath.IsAbs(d) {
			d = filepath.Join(m.Root, d)
		}
		out = append(out, d)
	}
	return out
}
