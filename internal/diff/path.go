package diff

import (
	"strconv"
	"strings"
)

// Segment is one step into a JSON document: an object key or an array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Path identifies a location in the logical JSON tree.
type Path []Segment

func Key(k string) Segment {
	return Segment{Key: k}
}

func Index(i int) Segment {
	return Segment{Index: i, IsIndex: true}
}

// Child returns a new path extended by one segment. The receiver is never
// mutated; diff recursion hands child paths to each branch independently.
func (p Path) Child(s Segment) Path {
	child := make(Path, len(p), len(p)+1)
	copy(child, p)
	return append(child, s)
}

// String renders the canonical flattened form used for ignore matching and
// resolution tracking: object keys joined by dots, array indices as [n],
// e.g. data[3].timestamp. The root path renders as the empty string.
func (p Path) String() string {
	var b strings.Builder
	for _, s := range p {
		if s.IsIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteByte(']')
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.Key)
	}
	return b.String()
}
