package engine

import (
	"sync"

	"github.com/arthur-debert/rigkit/pkg/constraints"
	"github.com/arthur-debert/rigkit/pkg/modifiers"
	"github.com/arthur-debert/rigkit/pkg/scene"
	"github.com/arthur-debert/rigkit/pkg/snapshot"
	"github.com/arthur-debert/rigkit/pkg/toggles"
	"github.com/arthur-debert/rigkit/pkg/types"
)

// Settings are the per-rig panel values that are not part of the selection
type Settings struct {
	ShowAll         bool
	IK              constraints.IK
	Physics         modifiers.Physics
	RenderModifiers bool
	// Shrinkwrap maps a shrinkwrap constraint key to its target object
	Shrinkwrap map[string]string
}

// DefaultSettings returns the settings a rig starts with
func DefaultSettings() Settings {
	return Settings{
		IK:              constraints.IK{Sliders: map[string]float64{}},
		Physics:         modifiers.DefaultPhysics(),
		RenderModifiers: true,
		Shrinkwrap:      map[string]string{},
	}
}

// RigState is everything the engine remembers about one registered rig
type RigState struct {
	mu sync.Mutex

	Rig       *scene.Rig
	Selection types.Selection
	Settings  Settings
	Toggles   *toggles.List

	snapshot *snapshot.Snapshot
	dirty    bool
}

// Dirty reports whether the rig waits for a mesh update
func (st *RigState) Dirty() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.dirty
}

// Snapshot returns the last captured property snapshot, nil before the
// first pre-update hook
func (st *RigState) Snapshot() *snapshot.Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.snapshot
}

// ToggleState is a toggle as shown in the panel
type ToggleState struct {
	Name string
	On   bool
}
