package scene

import (
	"sort"
	"sync"

	"github.com/arthur-debert/rigkit/pkg/types"
)

// Listener receives rig lifecycle events from a Scene
type Listener interface {
	RigAdded(s *Scene, rig *Rig)
	RigRemoved(s *Scene, rig *Rig)
}

// Keyframe is a stepped animation key on a numeric scope property
type Keyframe struct {
	Rig      string
	Scope    string // "data", "extras", or a character/outfit name
	Property string
	Frame    int
	Value    float64
}

// Collection groups rigs and objects for visibility in the host
type Collection struct {
	Name         string
	Members      []string
	Children     []*Collection
	HideViewport bool
	HideRender   bool
}

// Contains reports whether name is a direct member of c
func (c *Collection) Contains(name string) bool {
	for _, m := range c.Members {
		if m == name {
			return true
		}
	}
	return false
}

// Walk visits c and every nested collection depth first
func (c *Collection) Walk(fn func(*Collection)) {
	fn(c)
	for _, child := range c.Children {
		child.Walk(fn)
	}
}

// Scene is the host scene graph: rigs, shared node groups, collections and
// animation data. Mutations that the host would re-evaluate (hide flags,
// vertex weights, shape key values) advance the scene epoch.
type Scene struct {
	Name string
	Root *Collection

	mu         sync.Mutex
	rigs       []*Rig
	nodeGroups []*NodeTree
	keyframes  []Keyframe
	frame      int
	epoch      uint64
	listeners  []Listener
}

// New creates an empty scene
func New(name string) *Scene {
	return &Scene{Name: name, Root: &Collection{Name: "Scene Collection"}}
}

// Subscribe registers l for rig events. Rigs already in the scene are
// announced immediately.
func (s *Scene) Subscribe(l Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	rigs := append([]*Rig(nil), s.rigs...)
	s.mu.Unlock()
	for _, r := range rigs {
		l.RigAdded(s, r)
	}
}

// AddRig attaches rig and its objects to the scene and notifies listeners
func (s *Scene) AddRig(rig *Rig) {
	s.mu.Lock()
	rig.attach(s)
	s.rigs = append(s.rigs, rig)
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()
	for _, l := range listeners {
		l.RigAdded(s, rig)
	}
}

// RemoveRig detaches the named rig and notifies listeners
func (s *Scene) RemoveRig(name string) bool {
	s.mu.Lock()
	var removed *Rig
	for i, r := range s.rigs {
		if r.Name == name {
			removed = r
			s.rigs = append(s.rigs[:i], s.rigs[i+1:]...)
			break
		}
	}
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()
	if removed == nil {
		return false
	}
	for _, l := range listeners {
		l.RigRemoved(s, removed)
	}
	return true
}

// Rig returns the named rig
func (s *Scene) Rig(name string) *Rig {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rigs {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// Rigs returns the scene's rigs sorted by name
func (s *Scene) Rigs() []*Rig {
	s.mu.Lock()
	out := append([]*Rig(nil), s.rigs...)
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AddNodeGroup registers a shared node group, replacing one with the same name
func (s *Scene) AddNodeGroup(tree *NodeTree) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.nodeGroups {
		if t.Name == tree.Name {
			s.nodeGroups[i] = tree
			return
		}
	}
	s.nodeGroups = append(s.nodeGroups, tree)
}

// NodeGroup returns the shared node group called name
func (s *Scene) NodeGroup(name string) *NodeTree {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.nodeGroups {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// NodeGroups returns every shared node group
func (s *Scene) NodeGroups() []*NodeTree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*NodeTree(nil), s.nodeGroups...)
}

// FindObject searches every rig hierarchy for a live object called name
func (s *Scene) FindObject(name string) *Object {
	for _, r := range s.Rigs() {
		var found *Object
		r.Walk(func(o *Object) bool {
			if found == nil && o.Alive() && o.Name == name {
				found = o
			}
			return found == nil
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// CollectionOf returns the first collection that lists name as a member
func (s *Scene) CollectionOf(name string) *Collection {
	var found *Collection
	if s.Root == nil {
		return nil
	}
	s.Root.Walk(func(c *Collection) {
		if found == nil && c.Contains(name) {
			found = c
		}
	})
	return found
}

// Epoch returns a counter advanced by every tracked mutation
func (s *Scene) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

func (s *Scene) touch() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.epoch++
	s.mu.Unlock()
}

// AddKeyframe records an animation key
func (s *Scene) AddKeyframe(k Keyframe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keyframes = append(s.keyframes, k)
}

// Keyframes returns every animation key
func (s *Scene) Keyframes() []Keyframe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Keyframe(nil), s.keyframes...)
}

// Frame returns the current frame
func (s *Scene) Frame() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// SetFrame moves the playhead and applies stepped keyframes to scope
// properties. Like playback in the host, this fires no callbacks and does not
// advance the epoch; returns the number of properties written.
func (s *Scene) SetFrame(frame int) int {
	s.mu.Lock()
	s.frame = frame
	keys := append([]Keyframe(nil), s.keyframes...)
	s.mu.Unlock()

	type channel struct{ rig, scope, prop string }
	latest := map[channel]Keyframe{}
	var order []channel
	for _, k := range keys {
		if k.Frame > frame {
			continue
		}
		ch := channel{k.Rig, k.Scope, k.Property}
		prev, seen := latest[ch]
		if !seen {
			order = append(order, ch)
		}
		if !seen || k.Frame >= prev.Frame {
			latest[ch] = k
		}
	}

	written := 0
	for _, ch := range order {
		rig := s.Rig(ch.rig)
		if rig == nil {
			continue
		}
		if scope := rig.ScopeByName(ch.scope); scope.SetNumber(ch.prop, latest[ch].Value) {
			written++
		}
	}
	return written
}

// ScopeByName resolves the keyframe scope naming used by Keyframe.Scope
func (r *Rig) ScopeByName(name string) *types.Scope {
	switch name {
	case "data":
		return r.Data
	case "extras":
		return r.Extras
	}
	if c := r.Character(name); c != nil {
		return c
	}
	return r.Outfit(name)
}
