package view

import "apidiff/internal/diff"

// Side selects one of the two rendered panels.
type Side int

const (
	Left Side = iota
	Right
)

// NavEntry pairs a difference record with its target line on each side. A nil
// line means the value is absent on that side.
type NavEntry struct {
	Record    diff.Difference
	LineLeft  *int
	LineRight *int
}

// Model drives the rendering surface for one loaded file: per-line highlight
// flags and ordered jump-to-difference navigation. It holds no state beyond
// what was derived from the records and projections it was built from.
type Model struct {
	entries    []NavEntry
	highlights map[Side]map[int]bool
}

// NewModel resolves each record's path to its rendered line on each side
// independently. Record order is preserved, so navigation follows the
// differ's pre-order traversal.
func NewModel(records []diff.Difference, left, right *diff.Projection) *Model {
	m := &Model{
		entries:    make([]NavEntry, 0, len(records)),
		highlights: map[Side]map[int]bool{Left: {}, Right: {}},
	}
	for _, rec := range records {
		entry := NavEntry{Record: rec}
		if idx, ok := left.LineFor(rec.Path); ok {
			line := idx
			entry.LineLeft = &line
			m.highlights[Left][idx] = true
		}
		if idx, ok := right.LineFor(rec.Path); ok {
			line := idx
			entry.LineRight = &line
			m.highlights[Right][idx] = true
		}
		m.entries = append(m.entries, entry)
	}
	return m
}

// Highlighted reports whether some difference record maps to the given
// rendered line on that side.
func (m *Model) Highlighted(side Side, lineIndex int) bool {
	return m.highlights[side][lineIndex]
}

// Navigation returns the ordered difference list for next/previous jumps and
// list display.
func (m *Model) Navigation() []NavEntry {
	return m.entries
}

// Resolved classifies each record against the set of resolved canonical
// paths. Membership is independent of the file-level resolved flag; the two
// are separate knobs the UI shows side by side.
func (m *Model) Resolved(resolvedPaths map[string]bool) []bool {
	resolved := make([]bool, len(m.entries))
	for i, entry := range m.entries {
		resolved[i] = resolvedPaths[entry.Record.Path.String()]
	}
	return resolved
}
