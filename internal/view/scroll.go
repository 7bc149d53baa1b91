package view

// ScrollSync mirrors scroll offsets between the two panels. The guard is
// asymmetric on purpose: a programmatic scroll triggered by the other side's
// listener records the new offset but must not re-trigger the mirrored write,
// otherwise the two panels feed back into each other forever.
type ScrollSync struct {
	mirroring bool
	offsets   [2]int
	apply     [2]func(offset int)
}

// NewScrollSync wires the apply callbacks that move each panel. Either may be
// nil for a panel with no rendering surface attached (tests, headless use).
func NewScrollSync(applyLeft, applyRight func(offset int)) *ScrollSync {
	return &ScrollSync{apply: [2]func(int){applyLeft, applyRight}}
}

// Scroll records a scroll event on one side and mirrors it to the other.
func (s *ScrollSync) Scroll(side Side, offset int) {
	s.offsets[side] = offset
	if s.mirroring {
		return
	}
	s.mirroring = true
	other := Right
	if side == Right {
		other = Left
	}
	s.offsets[other] = offset
	if s.apply[other] != nil {
		s.apply[other](offset)
	}
	s.mirroring = false
}

// Offset returns the last recorded offset for a side.
func (s *ScrollSync) Offset(side Side) int {
	return s.offsets[side]
}
