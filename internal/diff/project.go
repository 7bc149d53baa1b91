package diff

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// AbsentPlaceholder is the single line shown for a side whose document could
// not be loaded.
const AbsentPlaceholder = "(no document)"

// RenderedLine is one line of pretty-printed output on one side, addressable
// by zero-based index. Path is the JSON node whose opening or value produced
// the line; closing brackets carry their container's path.
type RenderedLine struct {
	Index int
	Text  string
	Path  Path
}

// Projection is the ordered line rendering of one side plus the mapping from
// canonical path to the line where that node starts. Left and right documents
// project independently; logically-corresponding data may land on different
// line indices per side.
type Projection struct {
	Lines []RenderedLine

	index map[string]int
}

// Project pretty-prints a JSON value into display lines: one logical element
// per line, two-space indent, object keys in insertion order. Every path
// reachable in the value maps to exactly one starting line.
func Project(value gjson.Result) *Projection {
	p := &Projection{index: make(map[string]int)}
	p.render(nil, value, "", "", true)
	return p
}

// ProjectAbsent renders the placeholder for a missing document. It maps no
// paths, so no difference record can highlight it.
func ProjectAbsent() *Projection {
	p := &Projection{index: make(map[string]int)}
	p.Lines = []RenderedLine{{Index: 0, Text: AbsentPlaceholder}}
	return p
}

// LineFor returns the starting line index of the node at path.
func (p *Projection) LineFor(path Path) (int, bool) {
	return p.LineForString(path.String())
}

// LineForString is LineFor keyed by a canonical path string.
func (p *Projection) LineForString(canonical string) (int, bool) {
	idx, ok := p.index[canonical]
	return idx, ok
}

// Texts returns the bare line texts in order, the shape the presentation
// boundary exposes as left_content/right_content.
func (p *Projection) Texts() []string {
	texts := make([]string, len(p.Lines))
	for i, line := range p.Lines {
		texts[i] = line.Text
	}
	return texts
}

func (p *Projection) render(path Path, value gjson.Result, indent, prefix string, last bool) {
	comma := ","
	if last {
		comma = ""
	}

	switch typeOf(value) {
	case typeObject:
		keys, vals := members(value)
		if len(keys) == 0 {
			p.add(indent+prefix+"{}"+comma, path, true)
			return
		}
		p.add(indent+prefix+"{", path, true)
		for i, k := range keys {
			p.render(path.Child(Key(k)), vals[k], indent+"  ", quoteKey(k)+": ", i == len(keys)-1)
		}
		p.add(indent+"}"+comma, path, false)

	case typeArray:
		elems := value.Array()
		if len(elems) == 0 {
			p.add(indent+prefix+"[]"+comma, path, true)
			return
		}
		p.add(indent+prefix+"[", path, true)
		for i, elem := range elems {
			p.render(path.Child(Index(i)), elem, indent+"  ", "", i == len(elems)-1)
		}
		p.add(indent+"]"+comma, path, false)

	default:
		p.add(indent+prefix+scalarLiteral(value)+comma, path, true)
	}
}

// add appends a line; opening lines register the node's starting line, first
// registration wins.
func (p *Projection) add(text string, path Path, opening bool) {
	idx := len(p.Lines)
	p.Lines = append(p.Lines, RenderedLine{Index: idx, Text: text, Path: path})
	if opening {
		key := path.String()
		if _, seen := p.index[key]; !seen {
			p.index[key] = idx
		}
	}
}

func scalarLiteral(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return quoteKey(v.Str)
	case gjson.Number:
		return v.Raw
	case gjson.True:
		return "true"
	case gjson.False:
		return "false"
	default:
		return "null"
	}
}

func quoteKey(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `"` + s + `"`
	}
	return string(b)
}
