package testutil

import (
	"fmt"

	"github.com/arthur-debert/rigkit/pkg/scene"
	"github.com/arthur-debert/rigkit/pkg/types"
)

// Scope builds a scope from name/value pairs, keeping their order
func Scope(name string, pairs ...interface{}) *types.Scope {
	if len(pairs)%2 != 0 {
		panic(fmt.Sprintf("testutil.Scope(%q): odd number of arguments", name))
	}
	s := types.NewScope(name)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("testutil.Scope(%q): key %v is not a string", name, pairs[i]))
		}
		s.Set(key, toValue(pairs[i+1]))
	}
	return s
}

func toValue(v interface{}) types.Value {
	switch x := v.(type) {
	case types.Value:
		return x
	case int:
		return types.Int(x)
	case float64:
		return types.Float(x)
	case string:
		return types.Text(x)
	case []int:
		return types.IntSet(x...)
	case []float64:
		return types.Vector(x...)
	}
	panic(fmt.Sprintf("testutil: unsupported value %T", v))
}

// Mesh builds a mesh object with properties given as name/value pairs
func Mesh(name string, pairs ...interface{}) *scene.Object {
	o := scene.NewObject(name, scene.TypeMesh)
	o.Props = Scope(name, pairs...)
	return o
}

// Empty builds an empty object with properties given as name/value pairs
func Empty(name string, pairs ...interface{}) *scene.Object {
	o := scene.NewObject(name, scene.TypeEmpty)
	o.Props = Scope(name, pairs...)
	return o
}

// RigBuilder assembles a rig declaratively
type RigBuilder struct {
	rig *scene.Rig
}

// NewRig starts a rig with the given name
func NewRig(name string) *RigBuilder {
	return &RigBuilder{rig: scene.NewRig(name)}
}

// Data sets rig-level properties from name/value pairs
func (b *RigBuilder) Data(pairs ...interface{}) *RigBuilder {
	Scope("", pairs...).Each(func(k string, v types.Value) { b.rig.Data.Set(k, v) })
	return b
}

// Extras sets rig extra settings from name/value pairs
func (b *RigBuilder) Extras(pairs ...interface{}) *RigBuilder {
	Scope("", pairs...).Each(func(k string, v types.Value) { b.rig.Extras.Set(k, v) })
	return b
}

// Character adds a character scope
func (b *RigBuilder) Character(name string, pairs ...interface{}) *RigBuilder {
	b.rig.AddCharacter(Scope(name, pairs...))
	return b
}

// Outfit adds an outfit scope to an existing character
func (b *RigBuilder) Outfit(character, name string, pairs ...interface{}) *RigBuilder {
	c := b.rig.CharacterRecord(character)
	if c == nil {
		panic(fmt.Sprintf("testutil: outfit %q needs character %q first", name, character))
	}
	c.Outfits = append(c.Outfits, Scope(name, pairs...))
	return b
}

// Child parents objects directly to the rig
func (b *RigBuilder) Child(objs ...*scene.Object) *RigBuilder {
	for _, o := range objs {
		b.rig.AddChild(o)
	}
	return b
}

// Bone adds bones
func (b *RigBuilder) Bone(bones ...*scene.Bone) *RigBuilder {
	b.rig.Bones = append(b.rig.Bones, bones...)
	return b
}

// Build returns the rig
func (b *RigBuilder) Build() *scene.Rig {
	return b.rig
}

// InScene adds the rig to a fresh scene
func (b *RigBuilder) InScene() (*scene.Scene, *scene.Rig) {
	s := scene.New("Scene")
	s.AddRig(b.rig)
	return s, b.rig
}

// CiriSelection is the default selection for CiriRig
func CiriSelection() types.Selection {
	return types.Selection{
		Character: "Ciri",
		OutfitSet: types.OutfitSetCharacter,
		Outfit:    "Ciri_Default",
		Hair:      "Ciri_Bun",
	}
}

// CiriRig returns a rig with two characters, a generic outfit and a small
// object hierarchy:
//
//	Ciri_Body        Character=Ciri
//	Corset           Outfit=Ciri_Default, Corset=1
//	  Corset_Buckles
//	Hood             Outfit=Ciri_Default, Hood=1
//	Winter_Cape      Outfit=Ciri_Winter
//	Hair_Bun         Hair=Ciri_Bun
//	Rig_Widgets      (no metadata)
func CiriRig() *RigBuilder {
	corset := Mesh("Corset", "Outfit", "Ciri_Default", "Corset", 1)
	corset.AddChild(Mesh("Corset_Buckles"))

	return NewRig("MetsRig").
		Data(
			"body", types.IntRange(1, 1, 3),
			"material_controller", "MetsRig_Controller",
		).
		Character("Ciri",
			"Hair", "Ciri_Bun, Ciri_Loose",
			"Face", types.IntRange(1, 0, 3),
			"_body", types.IntRange(2, 1, 3),
		).
		Outfit("Ciri", "Ciri_Default",
			"Corset", types.IntRange(1, 0, 1),
			"Hood", types.IntRange(0, 0, 1),
			"Gloves", types.IntRange(1, 0, 2),
			"_Sleeve", types.IntRange(1, 0, 1),
		).
		Outfit("Ciri", "Ciri_Winter",
			"Hair", "Ciri_Loose",
			"Cape", types.IntRange(1, 0, 1),
		).
		Character("Yennefer",
			"Hair", "Yen_Curls",
		).
		Outfit("Yennefer", "Yen_Default",
			"Belt", types.IntRange(0, 0, 1),
		).
		Character("Generic").
		Outfit("Generic", "Generic_Towel",
			"Wet", types.IntRange(0, 0, 1),
		).
		Child(
			Mesh("Ciri_Body", "Character", "Ciri"),
			corset,
			Mesh("Hood", "Outfit", "Ciri_Default", "Hood", 1),
			Mesh("Winter_Cape", "Outfit", "Ciri_Winter"),
			Mesh("Hair_Bun", "Hair", "Ciri_Bun"),
			Empty("Rig_Widgets"),
		)
}

// CiriScene returns CiriRig inside a fresh scene
func CiriScene() (*scene.Scene, *scene.Rig) {
	return CiriRig().InScene()
}

// Object finds a descendant of rig by name
func Object(rig *scene.Rig, name string) *scene.Object {
	var found *scene.Object
	rig.Walk(func(o *scene.Object) bool {
		if o.Name == name {
			found = o
		}
		return found == nil
	})
	return found
}
