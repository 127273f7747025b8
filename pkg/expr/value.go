package expr

import (
	"math"
	"strconv"

	"github.com/arthur-debert/rigkit/pkg/types"
)

// Kind identifies the type of an evaluated Value
type Kind int

const (
	// KindUnknown is the result of a failed evaluation. Callers treat it as
	// "no opinion" and leave existing state alone.
	KindUnknown Kind = iota
	KindBool
	KindNumber
	KindString
)

// Value is the result of evaluating an expression
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
}

// Unknown is the sentinel returned by failed evaluations
var Unknown = Value{}

// Bool returns a boolean value
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric value
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String returns a text value
func String(s string) Value { return Value{kind: KindString, s: s} }

// FromProperty converts a scope property into an expression value.
// Vectors and sets have no scalar form and report false.
func FromProperty(v types.Value) (Value, bool) {
	switch v.Kind() {
	case types.KindInt, types.KindFloat:
		return Number(v.Number()), true
	case types.KindText:
		return String(v.TextValue()), true
	}
	return Unknown, false
}

// Kind returns the value's type
func (v Value) Kind() Kind { return v.kind }

// Known reports whether evaluation produced a value
func (v Value) Known() bool { return v.kind != KindUnknown }

// Truthy applies the usual truth rules: non-zero numbers, non-empty text, true
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n != 0
	case KindString:
		return v.s != ""
	}
	return false
}

// Float returns the numeric form of numbers and booleans
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.n, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Text returns the payload of a string value
func (v Value) Text() (string, bool) {
	return v.s, v.kind == KindString
}

// String renders v as an expression literal
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		if v.b {
			return "True"
		}
		return "False"
	case KindNumber:
		if v.n == math.Trunc(v.n) && math.Abs(v.n) < 1e15 {
			return strconv.FormatInt(int64(v.n), 10)
		}
		return strconv.FormatFloat(v.n, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.s)
	}
	return "<unknown>"
}
