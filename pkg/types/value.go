package types

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindText
	KindVector
	KindIntSet
)

// String returns the kind name used in logs and scene documents
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindVector:
		return "vector"
	case KindIntSet:
		return "intset"
	default:
		return "unknown"
	}
}

// Value is a typed property value. Numeric values carry their declared range
// so sliders and toggle projection never need a side table.
type Value struct {
	kind    Kind
	num     float64
	text    string
	vec     []float64
	set     []int
	min     float64
	max     float64
	bounded bool
}

// Int returns an unbounded integer value
func Int(v int) Value {
	return Value{kind: KindInt, num: float64(v)}
}

// IntRange returns an integer value with a declared [min,max] range
func IntRange(v, min, max int) Value {
	return Value{kind: KindInt, num: float64(v), min: float64(min), max: float64(max), bounded: true}
}

// Float returns an unbounded float value
func Float(v float64) Value {
	return Value{kind: KindFloat, num: v}
}

// FloatRange returns a float value with a declared [min,max] range
func FloatRange(v, min, max float64) Value {
	return Value{kind: KindFloat, num: v, min: min, max: max, bounded: true}
}

// Text returns a text value
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Vector returns a vector value, used for colors and bone positions
func Vector(components ...float64) Value {
	return Value{kind: KindVector, vec: slices.Clone(components)}
}

// IntSet returns a set-valued requirement
func IntSet(members ...int) Value {
	return Value{kind: KindIntSet, set: slices.Clone(members)}
}

// Kind returns the variant held by v
func (v Value) Kind() Kind { return v.kind }

// IsNumeric reports whether v is an Int or a Float
func (v Value) IsNumeric() bool {
	return v.kind == KindInt || v.kind == KindFloat
}

// Number returns the numeric payload; zero for non-numeric values
func (v Value) Number() float64 {
	if !v.IsNumeric() {
		return 0
	}
	return v.num
}

// IntValue returns the numeric payload truncated to an int
func (v Value) IntValue() int {
	return int(v.Number())
}

// TextValue returns the text payload
func (v Value) TextValue() string { return v.text }

// VectorValue returns a copy of the vector components
func (v Value) VectorValue() []float64 { return slices.Clone(v.vec) }

// Members returns a copy of the set members
func (v Value) Members() []int { return slices.Clone(v.set) }

// Contains reports whether n is a member of an IntSet value
func (v Value) Contains(n float64) bool {
	for _, m := range v.set {
		if float64(m) == n {
			return true
		}
	}
	return false
}

// Range returns the declared range of a numeric value
func (v Value) Range() (min, max float64, ok bool) {
	return v.min, v.max, v.bounded
}

// IsBoolRange reports whether v is an integer declared over exactly [0,1]
func (v Value) IsBoolRange() bool {
	return v.kind == KindInt && v.bounded && v.min == 0 && v.max == 1
}

// WithNumber returns v with a new numeric payload, keeping kind and range.
// Bounded values are clamped; integers are rounded.
func (v Value) WithNumber(n float64) Value {
	if v.kind == KindInt {
		n = math.Round(n)
	}
	if v.bounded {
		n = math.Max(v.min, math.Min(v.max, n))
	}
	out := v
	out.num = n
	return out
}

// Equal compares kind and payload. Ranges are metadata and do not take part.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInt, KindFloat:
		return v.num == o.num
	case KindText:
		return v.text == o.text
	case KindVector:
		return slices.Equal(v.vec, o.vec)
	case KindIntSet:
		return slices.Equal(v.set, o.set)
	}
	return false
}

// String renders the value the way it appears in status output
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.Itoa(int(v.num))
	case KindFloat:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindText:
		return v.text
	case KindVector:
		parts := make([]string, len(v.vec))
		for i, c := range v.vec {
			parts[i] = strconv.FormatFloat(c, 'g', -1, 64)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindIntSet:
		parts := make([]string, len(v.set))
		for i, m := range v.set {
			parts[i] = strconv.Itoa(m)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return fmt.Sprintf("<%s>", v.kind)
}
