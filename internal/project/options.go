package project

import "satyls/internal/format"

// FormatOptions merges the manifest overrides onto the formatter
// defaults. Safe to call on a nil manifest.
func (m *Manifest) FormatOptions() format.Options {
	opts := format.DefaultOptions()
	if m == nil {
		return opts
	}
	if m.Format.IndentWidth > 0 {
		opts.IndentWidth = m.Format.IndentWidth
	}
	if m.Format.MaxWidth > 0 {
		opts.MaxWidth = m.Format.MaxWidth
	}
	return opts
}
