package diff

import "github.com/tidwall/gjson"

// Kind classifies a single structural discrepancy.
type Kind string

const (
	ValueChanged     Kind = "value_changed"
	AddedOnRight     Kind = "added_on_right"
	RemovedFromRight Kind = "removed_from_right"
	TypeChanged      Kind = "type_changed"
)

// Difference is one structural discrepancy between the two documents at a
// given path. Left/Right are nil when the value is absent on that side.
type Difference struct {
	Path  Path
	Kind  Kind
	Left  *gjson.Result
	Right *gjson.Result
}

// LeftValue returns the left value decoded for serialization, or nil.
func (d Difference) LeftValue() interface{} {
	if d.Left == nil {
		return nil
	}
	return d.Left.Value()
}

// RightValue returns the right value decoded for serialization, or nil.
func (d Difference) RightValue() interface{} {
	if d.Right == nil {
		return nil
	}
	return d.Right.Value()
}

// ArrayStrategy compares two arrays at path and appends records to out. The
// default is positional comparison; an aligned (LCS) strategy can be plugged
// in without touching the rest of the differ.
type ArrayStrategy func(d *Differ, path Path, left, right gjson.Result, out *[]Difference)

// Differ performs recursive structural comparison of two JSON documents.
// The record list it produces is a pure function of (left, right, ignore
// patterns): no hidden state, stable pre-order output.
type Differ struct {
	ignore *IgnoreFilter
	arrays ArrayStrategy
}

type Option func(*Differ)

func WithArrayStrategy(s ArrayStrategy) Option {
	return func(d *Differ) { d.arrays = s }
}

func NewDiffer(ignore *IgnoreFilter, opts ...Option) *Differ {
	d := &Differ{ignore: ignore, arrays: PositionalArrays}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Diff compares two parsed response_data documents. Both top-level inputs
// must be JSON objects; anything else is a MalformedInputError.
func (d *Differ) Diff(left, right gjson.Result) ([]Difference, error) {
	if !left.IsObject() {
		return nil, &MalformedInputError{Side: "left", Reason: "response_data is not a JSON object"}
	}
	if !right.IsObject() {
		return nil, &MalformedInputError{Side: "right", Reason: "response_data is not a JSON object"}
	}
	out := make([]Difference, 0)
	d.compare(nil, left, right, &out)
	return out, nil
}

func (d *Differ) compare(path Path, left, right gjson.Result, out *[]Difference) {
	lt, rt := typeOf(left), typeOf(right)
	if lt != rt {
		l, r := left, right
		d.emit(out, Difference{Path: path, Kind: TypeChanged, Left: &l, Right: &r})
		return
	}

	switch lt {
	case typeObject:
		leftKeys, leftVals := members(left)
		rightKeys, rightVals := members(right)

		// Union in left-then-right-exclusive order keeps the record list
		// deterministic across runs.
		for _, k := range leftKeys {
			child := path.Child(Key(k))
			rv, ok := rightVals[k]
			if !ok {
				lv := leftVals[k]
				d.emit(out, Difference{Path: child, Kind: RemovedFromRight, Left: &lv})
				continue
			}
			d.compare(child, leftVals[k], rv, out)
		}
		for _, k := range rightKeys {
			if _, ok := leftVals[k]; ok {
				continue
			}
			rv := rightVals[k]
			d.emit(out, Difference{Path: path.Child(Key(k)), Kind: AddedOnRight, Right: &rv})
		}

	case typeArray:
		d.arrays(d, path, left, right, out)

	default:
		if !scalarEqual(left, right) {
			l, r := left, right
			d.emit(out, Difference{Path: path, Kind: ValueChanged, Left: &l, Right: &r})
		}
	}
}

// PositionalArrays compares elements index by index up to the shorter length
// and emits the remainder as added/removed. An insertion mid-array therefore
// shifts every subsequent index and shows up as cascading value changes; this
// is a documented tradeoff, not a bug.
func PositionalArrays(d *Differ, path Path, left, right gjson.Result, out *[]Difference) {
	leftElems := left.Array()
	rightElems := right.Array()

	n := len(leftElems)
	if len(rightElems) < n {
		n = len(rightElems)
	}
	for i := 0; i < n; i++ {
		d.compare(path.Child(Index(i)), leftElems[i], rightElems[i], out)
	}
	for i := n; i < len(leftElems); i++ {
		lv := leftElems[i]
		d.emit(out, Difference{Path: path.Child(Index(i)), Kind: RemovedFromRight, Left: &lv})
	}
	for i := n; i < len(rightElems); i++ {
		rv := rightElems[i]
		d.emit(out, Difference{Path: path.Child(Index(i)), Kind: AddedOnRight, Right: &rv})
	}
}

// emit appends rec unless its path matches an ignore pattern. Suppression
// happens record by record: an ignored container path does not stop the
// recursion that produced records beneath it.
func (d *Differ) emit(out *[]Difference, rec Difference) {
	if d.ignore.ShouldIgnore(rec.Path) {
		return
	}
	*out = append(*out, rec)
}

type valueType int

const (
	typeNull valueType = iota
	typeBool
	typeNumber
	typeString
	typeObject
	typeArray
)

func typeOf(v gjson.Result) valueType {
	if v.IsObject() {
		return typeObject
	}
	if v.IsArray() {
		return typeArray
	}
	switch v.Type {
	case gjson.String:
		return typeString
	case gjson.Number:
		return typeNumber
	case gjson.True, gjson.False:
		return typeBool
	default:
		return typeNull
	}
}

func scalarEqual(a, b gjson.Result) bool {
	switch typeOf(a) {
	case typeNumber:
		return a.Num == b.Num
	case typeString:
		return a.Str == b.Str
	case typeBool:
		return a.Type == b.Type
	default: // both null
		return true
	}
}

// members collects an object's keys in document order plus a lookup map.
func members(v gjson.Result) ([]string, map[string]gjson.Result) {
	keys := make([]string, 0)
	vals := make(map[string]gjson.Result)
	v.ForEach(func(k, val gjson.Result) bool {
		keys = append(keys, k.String())
		vals[k.String()] = val
		return true
	})
	return keys, vals
}
