package types

import (
	"cogentcore.org/core/ordmap"
)

// Scope is a named, insertion-ordered bag of properties. Characters, outfits,
// rig data and bones all keep their custom properties in a Scope.
type Scope struct {
	Name  string
	props *ordmap.Map[string, Value]
}

// NewScope returns an empty scope
func NewScope(name string) *Scope {
	return &Scope{Name: name, props: ordmap.New[string, Value]()}
}

func (s *Scope) init() {
	if s.props == nil {
		s.props = ordmap.New[string, Value]()
	}
}

// Set adds or replaces a property, keeping its original position
func (s *Scope) Set(name string, v Value) {
	s.init()
	s.props.Add(name, v)
}

// Get returns a property and whether it exists. A nil scope holds nothing.
func (s *Scope) Get(name string) (Value, bool) {
	if s == nil || s.props == nil {
		return Value{}, false
	}
	return s.props.ValueByKeyTry(name)
}

// Has reports whether the scope declares name
func (s *Scope) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Delete removes a property if present
func (s *Scope) Delete(name string) bool {
	if s == nil || s.props == nil {
		return false
	}
	idx, ok := s.props.IndexByKeyTry(name)
	if !ok {
		return false
	}
	s.props.DeleteIndex(idx, idx+1)
	return true
}

// Len returns the number of properties
func (s *Scope) Len() int {
	if s == nil || s.props == nil {
		return 0
	}
	return s.props.Len()
}

// Keys returns property names in declaration order
func (s *Scope) Keys() []string {
	if s == nil || s.props == nil {
		return nil
	}
	keys := make([]string, 0, s.props.Len())
	for _, kv := range s.props.Order {
		keys = append(keys, kv.Key)
	}
	return keys
}

// Each calls fn for every property in declaration order
func (s *Scope) Each(fn func(name string, v Value)) {
	if s == nil || s.props == nil {
		return
	}
	for _, kv := range s.props.Order {
		fn(kv.Key, kv.Value)
	}
}

// SetNumber updates an existing numeric property, keeping its kind and range.
// It reports false when the property is missing or not numeric.
func (s *Scope) SetNumber(name string, n float64) bool {
	v, ok := s.Get(name)
	if !ok || !v.IsNumeric() {
		return false
	}
	s.props.Add(name, v.WithNumber(n))
	return true
}

// Clone returns an independent copy of the scope
func (s *Scope) Clone() *Scope {
	if s == nil {
		return nil
	}
	out := NewScope(s.Name)
	s.Each(func(name string, v Value) {
		out.Set(name, v)
	})
	return out
}
