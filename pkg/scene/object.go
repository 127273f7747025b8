package scene

import (
	"github.com/arthur-debert/rigkit/pkg/types"
)

// ObjectType is the host object type
type ObjectType string

const (
	TypeMesh  ObjectType = "MESH"
	TypeEmpty ObjectType = "EMPTY"
	TypeCurve ObjectType = "CURVE"
)

// ModifierType is the host modifier type
type ModifierType string

const (
	ModCloth         ModifierType = "CLOTH"
	ModCollision     ModifierType = "COLLISION"
	ModMeshDeform    ModifierType = "MESH_DEFORM"
	ModSurfaceDeform ModifierType = "SURFACE_DEFORM"
	ModSolidify      ModifierType = "SOLIDIFY"
	ModBevel         ModifierType = "BEVEL"
	ModSubsurf       ModifierType = "SUBSURF"
	ModMask          ModifierType = "MASK"
	ModArmature      ModifierType = "ARMATURE"
)

// Modifier is an object modifier. Cloth settings live on the modifier itself.
type Modifier struct {
	Name         string
	Type         ModifierType
	ShowViewport bool
	ShowRender   bool

	TimeScale  float64
	CacheStart int
	CacheEnd   int

	Levels       int
	RenderLevels int
}

// VertexGroup holds per-vertex weights. Vertices missing from Weights are
// not members of the group.
type VertexGroup struct {
	Name    string
	Weights map[int]float64
}

// Weight returns the vertex weight and whether the vertex is a member
func (g *VertexGroup) Weight(vertex int) (float64, bool) {
	w, ok := g.Weights[vertex]
	return w, ok
}

// ShapeKey is a blend shape with its current value
type ShapeKey struct {
	Name  string
	Value float64
}

// Object is a renderable object in a rig hierarchy
type Object struct {
	Name     string
	Type     ObjectType
	Props    *types.Scope
	Children []*Object

	Vertices     int
	VertexGroups []*VertexGroup
	ShapeKeys    []*ShapeKey
	Modifiers    []*Modifier
	Materials    []*Material

	// Color is the viewport object color (RGBA)
	Color []float64
	// SavedColor keeps the color replaced while physics display is on
	SavedColor []float64

	hideViewport bool
	hideRender   bool
	deleted      bool
	scene        *Scene
}

// NewObject returns an object with an empty property scope
func NewObject(name string, typ ObjectType) *Object {
	return &Object{
		Name:  name,
		Type:  typ,
		Props: types.NewScope(name),
		Color: []float64{1, 1, 1, 1},
	}
}

func (o *Object) attach(s *Scene) {
	o.scene = s
	for _, c := range o.Children {
		c.attach(s)
	}
}

func (o *Object) walk(fn func(*Object) bool) {
	if !fn(o) {
		return
	}
	for _, c := range o.Children {
		c.walk(fn)
	}
}

// AddChild parents child to o
func (o *Object) AddChild(child *Object) *Object {
	child.attach(o.scene)
	o.Children = append(o.Children, child)
	return child
}

// Delete marks the object as removed by the user. References held elsewhere
// become stale.
func (o *Object) Delete() { o.deleted = true }

// Alive reports whether the object still exists in the host
func (o *Object) Alive() bool { return o != nil && !o.deleted }

// IsMesh reports whether the object carries mesh data
func (o *Object) IsMesh() bool { return o.Type == TypeMesh }

// HideViewport reports the viewport hide flag
func (o *Object) HideViewport() bool { return o.hideViewport }

// HideRender reports the render hide flag
func (o *Object) HideRender() bool { return o.hideRender }

// SetHide sets both hide flags, advancing the scene epoch on change
func (o *Object) SetHide(hide bool) bool {
	if o.hideViewport == hide && o.hideRender == hide {
		return false
	}
	o.hideViewport = hide
	o.hideRender = hide
	o.scene.touch()
	return true
}

// VertexGroup returns the named vertex group
func (o *Object) VertexGroup(name string) *VertexGroup {
	for _, g := range o.VertexGroups {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// AddVertexGroup adds a vertex group with the given weights
func (o *Object) AddVertexGroup(name string, weights map[int]float64) *VertexGroup {
	if weights == nil {
		weights = map[int]float64{}
	}
	g := &VertexGroup{Name: name, Weights: weights}
	o.VertexGroups = append(o.VertexGroups, g)
	return g
}

// SetWeight assigns a vertex weight, advancing the scene epoch on change
func (o *Object) SetWeight(g *VertexGroup, vertex int, w float64) bool {
	if old, ok := g.Weights[vertex]; ok && old == w {
		return false
	}
	if g.Weights == nil {
		g.Weights = map[int]float64{}
	}
	g.Weights[vertex] = w
	o.scene.touch()
	return true
}

// ShapeKey returns the named shape key
func (o *Object) ShapeKey(name string) *ShapeKey {
	for _, k := range o.ShapeKeys {
		if k.Name == name {
			return k
		}
	}
	return nil
}

// SetShapeValue assigns a shape key value, advancing the scene epoch on change
func (o *Object) SetShapeValue(k *ShapeKey, v float64) bool {
	if k.Value == v {
		return false
	}
	k.Value = v
	o.scene.touch()
	return true
}
