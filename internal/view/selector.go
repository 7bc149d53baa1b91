package view

import "sync/atomic"

// Selector hands out monotonically increasing selection tokens. A new file
// selection does not abort an in-flight computation; it just makes the older
// token stale so only the latest result is rendered.
type Selector struct {
	current atomic.Uint64
}

// Next starts a new selection and returns its token.
func (s *Selector) Next() uint64 {
	return s.current.Add(1)
}

// Latest reports whether token still identifies the most recent selection.
func (s *Selector) Latest(token uint64) bool {
	return s.current.Load() == token
}
