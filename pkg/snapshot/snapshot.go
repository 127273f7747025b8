// Package snapshot captures the numeric state of a rig and compares captures
// to tell user edits apart from incidental re-evaluation.
package snapshot

import (
	"fmt"
	"sort"
	"strings"

	"cogentcore.org/core/ordmap"

	"github.com/arthur-debert/rigkit/pkg/config"
	"github.com/arthur-debert/rigkit/pkg/logging"
	"github.com/arthur-debert/rigkit/pkg/scene"
	"github.com/arthur-debert/rigkit/pkg/types"
)

// Section names one of the three captured scopes
type Section string

const (
	SectionCharacter Section = "character"
	SectionOutfit    Section = "outfit"
	SectionRig       Section = "rig"
)

// Sections lists the captured scopes in capture order
var Sections = []Section{SectionCharacter, SectionOutfit, SectionRig}

// Snapshot is the numeric state of a rig at one instant
type Snapshot struct {
	sections map[Section]*ordmap.Map[string, float64]
}

func empty() *Snapshot {
	s := &Snapshot{sections: map[Section]*ordmap.Map[string, float64]{}}
	for _, sec := range Sections {
		s.sections[sec] = ordmap.New[string, float64]()
	}
	return s
}

// Capture reads every numeric, non-reserved property of the active character,
// the active outfit and the rig data. A missing scope is logged and captured
// as empty.
func Capture(rig *scene.Rig, sel types.Selection, naming config.Naming) *Snapshot {
	logger := logging.WithRig("snapshot", rig.Name)
	snap := empty()

	sources := []struct {
		section Section
		name    string
		scope   *types.Scope
	}{
		{SectionCharacter, sel.Character, rig.Character(sel.Character)},
		{SectionOutfit, sel.Outfit, rig.Outfit(sel.Outfit)},
		{SectionRig, rig.Name, rig.Data},
	}

	for _, src := range sources {
		if src.scope == nil {
			logger.Warn().Str("section", string(src.section)).Str("scope", src.name).
				Msg("scope not found")
			continue
		}
		m := snap.sections[src.section]
		src.scope.Each(func(name string, v types.Value) {
			if !v.IsNumeric() || naming.IsReserved(name) {
				return
			}
			m.Add(name, v.Number())
		})
	}
	return snap
}

// Values returns a copy of one section as a plain map
func (s *Snapshot) Values(sec Section) map[string]float64 {
	out := map[string]float64{}
	if s == nil {
		return out
	}
	for _, kv := range s.sections[sec].Order {
		out[kv.Key] = kv.Value
	}
	return out
}

// Keys returns the captured names of one section in capture order
func (s *Snapshot) Keys(sec Section) []string {
	if s == nil {
		return nil
	}
	m := s.sections[sec]
	keys := make([]string, 0, m.Len())
	for _, kv := range m.Order {
		keys = append(keys, kv.Key)
	}
	return keys
}

// Equal reports whether both snapshots hold the same keys and values in
// every section. Insertion order does not matter.
func (s *Snapshot) Equal(o *Snapshot) bool {
	if s == nil || o == nil {
		return s == o
	}
	for _, sec := range Sections {
		a, b := s.sections[sec], o.sections[sec]
		if a.Len() != b.Len() {
			return false
		}
		for _, kv := range a.Order {
			v, ok := b.ValueByKeyTry(kv.Key)
			if !ok || v != kv.Value {
				return false
			}
		}
	}
	return true
}

// Diff reports whether next differs from prev. A missing previous snapshot
// always differs.
func Diff(prev, next *Snapshot) bool {
	if prev == nil {
		return true
	}
	return !prev.Equal(next)
}

// Change is one property that differs between two snapshots
type Change struct {
	Section Section
	Name    string
	Old     float64
	New     float64
	Added   bool
	Removed bool
}

func (c Change) String() string {
	switch {
	case c.Added:
		return fmt.Sprintf("%s.%s: +%g", c.Section, c.Name, c.New)
	case c.Removed:
		return fmt.Sprintf("%s.%s: -%g", c.Section, c.Name, c.Old)
	}
	return fmt.Sprintf("%s.%s: %g -> %g", c.Section, c.Name, c.Old, c.New)
}

// Changes lists the differences between prev and next, sorted by section
// and name
func Changes(prev, next *Snapshot) []Change {
	if prev == nil {
		prev = empty()
	}
	if next == nil {
		next = empty()
	}
	var out []Change
	for _, sec := range Sections {
		a, b := prev.sections[sec], next.sections[sec]
		var part []Change
		for _, kv := range a.Order {
			nv, ok := b.ValueByKeyTry(kv.Key)
			switch {
			case !ok:
				part = append(part, Change{Section: sec, Name: kv.Key, Old: kv.Value, Removed: true})
			case nv != kv.Value:
				part = append(part, Change{Section: sec, Name: kv.Key, Old: kv.Value, New: nv})
			}
		}
		for _, kv := range b.Order {
			if _, ok := a.ValueByKeyTry(kv.Key); !ok {
				part = append(part, Change{Section: sec, Name: kv.Key, New: kv.Value, Added: true})
			}
		}
		sort.Slice(part, func(i, j int) bool { return part[i].Name < part[j].Name })
		out = append(out, part...)
	}
	return out
}

// String renders the snapshot one section per line
func (s *Snapshot) String() string {
	var sb strings.Builder
	for _, sec := range Sections {
		sb.WriteString(string(sec))
		sb.WriteString(":")
		for _, k := range s.Keys(sec) {
			fmt.Fprintf(&sb, " %s=%g", k, s.Values(sec)[k])
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
