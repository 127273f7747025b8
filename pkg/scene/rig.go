package scene

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/arthur-debert/rigkit/pkg/types"
)

// Mode is the interaction mode of a rig in the host
type Mode string

const (
	ModeObject Mode = "OBJECT"
	ModePose   Mode = "POSE"
	ModeEdit   Mode = "EDIT"
)

// ConstraintType classifies bone constraints
type ConstraintType string

const (
	ConstraintIK             ConstraintType = "IK"
	ConstraintCopyTransforms ConstraintType = "COPY_TRANSFORMS"
	ConstraintShrinkwrap     ConstraintType = "SHRINKWRAP"
	ConstraintDampedTrack    ConstraintType = "DAMPED_TRACK"
	ConstraintOther          ConstraintType = "OTHER"
)

// Constraint is a pose bone constraint
type Constraint struct {
	Name      string
	Type      ConstraintType
	Influence float64
	Mute      bool
	Target    string
}

// Bone is an armature bone with its pose-level custom properties
type Bone struct {
	Name        string
	Group       string
	Layers      [32]bool
	Head        r3.Vec
	Tail        r3.Vec
	Props       *types.Scope
	Constraints []*Constraint
}

// NewBone returns a bone on layer 0 with an empty property scope
func NewBone(name string) *Bone {
	b := &Bone{Name: name, Props: types.NewScope(name)}
	b.Layers[0] = true
	return b
}

// Character is a character scope and the outfits it owns
type Character struct {
	Scope   *types.Scope
	Outfits []*types.Scope
}

// Name returns the character name
func (c *Character) Name() string { return c.Scope.Name }

// Rig is one armature instance and everything parented to it
type Rig struct {
	Name       string
	Data       *types.Scope
	Extras     *types.Scope
	Characters []*Character
	Bones      []*Bone
	Children   []*Object
	MirrorX    bool

	// Selection is the choice stored with the rig. It seeds the engine's
	// state record when the rig is registered.
	Selection types.Selection

	mode  Mode
	scene *Scene
}

// NewRig returns an empty rig in object mode
func NewRig(name string) *Rig {
	return &Rig{
		Name:   name,
		Data:   types.NewScope(name),
		Extras: types.NewScope(name + ".extras"),
		mode:   ModeObject,
	}
}

func (r *Rig) attach(s *Scene) {
	r.scene = s
	for _, c := range r.Children {
		c.attach(s)
	}
}

// Scene returns the scene the rig belongs to, if any
func (r *Rig) Scene() *Scene { return r.scene }

// Mode returns the current interaction mode
func (r *Rig) Mode() Mode {
	if r.mode == "" {
		return ModeObject
	}
	return r.mode
}

// SetMode switches the interaction mode
func (r *Rig) SetMode(m Mode) { r.mode = m }

// AddCharacter adds a character scope and returns its record
func (r *Rig) AddCharacter(scope *types.Scope, outfits ...*types.Scope) *Character {
	c := &Character{Scope: scope, Outfits: outfits}
	r.Characters = append(r.Characters, c)
	return c
}

// CharacterRecord returns the named character with its outfits
func (r *Rig) CharacterRecord(name string) *Character {
	for _, c := range r.Characters {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// Character returns the named character scope, or nil
func (r *Rig) Character(name string) *types.Scope {
	if c := r.CharacterRecord(name); c != nil {
		return c.Scope
	}
	return nil
}

// Outfit returns the named outfit scope from any character, or nil
func (r *Rig) Outfit(name string) *types.Scope {
	for _, c := range r.Characters {
		for _, o := range c.Outfits {
			if o.Name == name {
				return o
			}
		}
	}
	return nil
}

// OwnerOf returns the character that owns the named outfit
func (r *Rig) OwnerOf(outfit string) *Character {
	for _, c := range r.Characters {
		for _, o := range c.Outfits {
			if o.Name == outfit {
				return c
			}
		}
	}
	return nil
}

// Bone returns the named bone
func (r *Rig) Bone(name string) *Bone {
	for _, b := range r.Bones {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// AddChild parents obj directly to the rig
func (r *Rig) AddChild(obj *Object) *Object {
	obj.attach(r.scene)
	r.Children = append(r.Children, obj)
	return obj
}

// Walk visits the rig's object hierarchy depth first. Returning false from fn
// skips the object's subtree.
func (r *Rig) Walk(fn func(*Object) bool) {
	for _, c := range r.Children {
		c.walk(fn)
	}
}

// Descendants returns every object below the rig, including stale ones
func (r *Rig) Descendants() []*Object {
	var out []*Object
	r.Walk(func(o *Object) bool {
		out = append(out, o)
		return true
	})
	return out
}
