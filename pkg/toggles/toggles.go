// Package toggles projects boolean outfit and character properties onto a
// flat list of on/off switches.
//
// A property is a toggle when it is an integer declared over [0, 1] and its
// name does not carry the hidden marker. When the outfit and the character
// both declare the same name, one toggle drives both.
package toggles

import (
	"strings"

	"cogentcore.org/core/ordmap"

	"github.com/arthur-debert/rigkit/pkg/config"
	"github.com/arthur-debert/rigkit/pkg/scene"
	"github.com/arthur-debert/rigkit/pkg/types"
)

// Toggle is a named switch bound to one or more scopes
type Toggle struct {
	Name   string
	Scopes []*types.Scope
}

// Value reads the switch from its first scope
func (t *Toggle) Value() bool {
	for _, s := range t.Scopes {
		if v, ok := s.Get(t.Name); ok {
			return v.Number() != 0
		}
	}
	return false
}

// Set writes the switch to every owning scope. It returns how many scopes
// actually changed.
func (t *Toggle) Set(on bool) int {
	n := 0.0
	if on {
		n = 1
	}
	changed := 0
	for _, s := range t.Scopes {
		if v, ok := s.Get(t.Name); ok && v.Number() == n {
			continue
		}
		if s.SetNumber(t.Name, n) {
			changed++
		}
	}
	return changed
}

// List is the ordered set of toggles for the current selection
type List struct {
	items *ordmap.Map[string, *Toggle]
}

// IsToggle reports whether a property qualifies as a toggle
func IsToggle(name string, v types.Value, naming config.Naming) bool {
	if naming.IsReserved(name) {
		return false
	}
	if naming.HiddenMarker != "" && strings.HasPrefix(name, naming.HiddenMarker) {
		return false
	}
	return v.IsBoolRange()
}

// Build collects the toggles of the selected outfit, then the selected
// character. Outfit toggles come first.
func Build(rig *scene.Rig, sel types.Selection, naming config.Naming) *List {
	l := &List{items: ordmap.New[string, *Toggle]()}
	for _, s := range []*types.Scope{rig.Outfit(sel.Outfit), rig.Character(sel.Character)} {
		if s == nil {
			continue
		}
		s.Each(func(name string, v types.Value) {
			if !IsToggle(name, v, naming) {
				return
			}
			if t, ok := l.items.ValueByKeyTry(name); ok {
				t.Scopes = append(t.Scopes, s)
				return
			}
			l.items.Add(name, &Toggle{Name: name, Scopes: []*types.Scope{s}})
		})
	}
	return l
}

// Len returns the number of toggles
func (l *List) Len() int {
	if l == nil || l.items == nil {
		return 0
	}
	return l.items.Len()
}

// Get returns the named toggle
func (l *List) Get(name string) (*Toggle, bool) {
	if l.Len() == 0 {
		return nil, false
	}
	return l.items.ValueByKeyTry(name)
}

// All returns the toggles in display order
func (l *List) All() []*Toggle {
	out := make([]*Toggle, 0, l.Len())
	if l.Len() == 0 {
		return out
	}
	for _, kv := range l.items.Order {
		out = append(out, kv.Value)
	}
	return out
}

// Names returns toggle names in display order
func (l *List) Names() []string {
	var names []string
	for _, t := range l.All() {
		names = append(names, t.Name)
	}
	return names
}
