package sceneio

import (
	"path/filepath"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/arthur-debert/rigkit/pkg/errors"
	"github.com/arthur-debert/rigkit/pkg/logging"
	"github.com/arthur-debert/rigkit/pkg/scene"
	"github.com/arthur-debert/rigkit/pkg/types"
)

// Load reads a scene document and builds the scene it declares. Libraries
// resolve relative to the document's directory.
func Load(path string) (*scene.Scene, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}
	return Build(doc, filepath.Dir(path))
}

type builder struct {
	doc       *Document
	dir       string
	scene     *scene.Scene
	trees     map[string]TreeDoc
	materials map[string]*scene.Material
}

// Build creates the scene a document declares. Every reference is checked:
// unknown materials, node groups, link endpoints and keyframe targets fail
// with SCENE_INVALID.
func Build(doc *Document, dir string) (*scene.Scene, error) {
	name := doc.Scene
	if name == "" {
		name = "Scene"
	}
	b := &builder{
		doc:       doc,
		dir:       dir,
		scene:     scene.New(name),
		trees:     map[string]TreeDoc{},
		materials: map[string]*scene.Material{},
	}
	logger := logging.GetLogger("sceneio")

	steps := []func() error{b.libraries, b.nodeGroups, b.buildMaterials, b.rigs, b.collections, b.keyframes}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	if doc.Frame != 0 {
		b.scene.SetFrame(doc.Frame)
	}
	logger.Debug().Str("scene", name).Int("rigs", len(doc.Rigs)).
		Int("materials", len(b.materials)).Msg("scene built")
	return b.scene, nil
}

func (b *builder) libraries() error {
	for _, p := range b.doc.Libraries {
		if !filepath.IsAbs(p) {
			p = filepath.Join(b.dir, p)
		}
		lib, err := ReadLibrary(p)
		if err != nil {
			return err
		}
		for _, g := range lib.Groups {
			tree, err := b.tree(g)
			if err != nil {
				return err
			}
			b.scene.AddNodeGroup(tree)
		}
		for name, t := range lib.Trees {
			b.trees[name] = t
		}
	}
	return nil
}

func (b *builder) nodeGroups() error {
	for _, g := range b.doc.NodeGroups {
		tree, err := b.tree(g)
		if err != nil {
			return err
		}
		b.scene.AddNodeGroup(tree)
	}
	return nil
}

func (b *builder) buildMaterials() error {
	for _, m := range b.doc.Materials {
		if _, dup := b.materials[m.Name]; dup {
			return invalid("duplicate material %q", m.Name).WithDetail("item", m.Name)
		}
		td := m.Tree
		if m.Library != "" {
			var ok bool
			if td, ok = b.trees[m.Library]; !ok {
				return invalid("material %q refers to unknown library tree %q", m.Name, m.Library).
					WithDetail("item", m.Name)
			}
		}
		if td.Name == "" {
			td.Name = m.Name
		}
		tree, err := b.tree(td)
		if err != nil {
			return err
		}
		b.materials[m.Name] = &scene.Material{Name: m.Name, Tree: tree}
	}
	return nil
}

func (b *builder) tree(td TreeDoc) (*scene.NodeTree, error) {
	t := scene.NewNodeTree(td.Name)
	for _, s := range td.Inputs {
		t.Inputs = append(t.Inputs, &scene.Socket{Name: s.Name, Value: s.Value})
	}
	for _, s := range td.Outputs {
		t.Outputs = append(t.Outputs, &scene.Socket{Name: s.Name, Value: s.Value})
	}
	for _, nd := range td.Nodes {
		if t.Node(nd.Name) != nil {
			return nil, invalid("duplicate node %q in tree %q", nd.Name, td.Name)
		}
		n, err := b.node(nd)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrSceneInvalid, "in tree %q", td.Name)
		}
		t.AddNode(n)
	}
	for _, l := range td.Links {
		from, to := t.Node(l.From), t.Node(l.To)
		if from == nil || to == nil ||
			l.FromSocket < 0 || l.FromSocket >= len(from.Outputs) ||
			l.ToSocket < 0 || l.ToSocket >= len(to.Inputs) {
			return nil, invalid("unknown link endpoint %s:%d -> %s:%d in tree %q",
				l.From, l.FromSocket, l.To, l.ToSocket, td.Name)
		}
		t.Connect(from, l.FromSocket, to, l.ToSocket)
	}
	if td.Active != "" {
		if t.Active = t.Node(td.Active); t.Active == nil {
			return nil, invalid("active node %q not found in tree %q", td.Active, td.Name)
		}
	}
	return t, nil
}

func (b *builder) node(nd NodeDoc) (*scene.Node, error) {
	var n *scene.Node
	switch scene.NodeType(nd.Type) {
	case scene.NodeValue:
		n = scene.ValueNode(nd.Name, nd.Value)
	case scene.NodeCombine:
		n = scene.CombineNode(nd.Name)
	case scene.NodeReroute:
		n = scene.RerouteNode(nd.Name)
	case scene.NodeTexImage:
		n = scene.TextureNode(nd.Name)
	case scene.NodeGroup:
		group := b.scene.NodeGroup(nd.Group)
		if group == nil {
			return nil, invalid("group node %q uses unknown node group %q", nd.Name, nd.Group)
		}
		n = scene.GroupNode(nd.Name, group, nd.Inputs)
	default:
		typ := scene.NodeType(nd.Type)
		if typ == "" {
			typ = scene.NodeOther
		}
		n = &scene.Node{Name: nd.Name, Type: typ, Outputs: []*scene.Socket{{Name: "Output"}}}
		for i := 0; i < nd.Inputs; i++ {
			n.Inputs = append(n.Inputs, &scene.Socket{Name: "Input"})
		}
	}
	n.Label = nd.Label
	n.Mute = nd.Mute
	return n, nil
}

func (b *builder) rigs() error {
	for _, rd := range b.doc.Rigs {
		if b.scene.Rig(rd.Name) != nil {
			return invalid("duplicate rig %q", rd.Name).WithDetail("rig", rd.Name)
		}
		rig, err := b.rig(rd)
		if err != nil {
			return err
		}
		b.scene.AddRig(rig)
	}
	return nil
}

func (b *builder) rig(rd RigDoc) (*scene.Rig, error) {
	if rd.Name == "" {
		return nil, invalid("rig without a name")
	}
	rig := scene.NewRig(rd.Name)
	rig.MirrorX = rd.MirrorX
	rig.Data = rd.Data.Scope(rd.Name)
	rig.Extras = rd.Extras.Scope(rd.Name + ".extras")

	for _, cd := range rd.Characters {
		if rig.Character(cd.Name) != nil {
			return nil, invalid("duplicate character %q", cd.Name).WithDetail("rig", rd.Name)
		}
		var outfits []*types.Scope
		for _, od := range cd.Outfits {
			if rig.Outfit(od.Name) != nil {
				return nil, invalid("duplicate outfit %q", od.Name).WithDetail("rig", rd.Name)
			}
			outfits = append(outfits, od.Properties.Scope(od.Name))
		}
		rig.AddCharacter(cd.Properties.Scope(cd.Name), outfits...)
	}

	for _, bd := range rd.Bones {
		bone, err := buildBone(bd)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrSceneInvalid, "in rig %q", rd.Name).WithDetail("rig", rd.Name)
		}
		rig.Bones = append(rig.Bones, bone)
	}

	seen := map[string]bool{}
	for _, od := range rd.Objects {
		obj, err := b.object(od, seen)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrSceneInvalid, "in rig %q", rd.Name).WithDetail("rig", rd.Name)
		}
		rig.AddChild(obj)
	}

	rig.Selection = types.Selection{
		Character: rd.Selection.Character,
		Outfit:    rd.Selection.Outfit,
		Hair:      rd.Selection.Hair,
	}
	if rd.Selection.OutfitSet != "" {
		set, ok := types.ParseOutfitSet(rd.Selection.OutfitSet)
		if !ok {
			return nil, invalid("unknown outfit set %q", rd.Selection.OutfitSet).WithDetail("rig", rd.Name)
		}
		rig.Selection.OutfitSet = set
	}
	return rig, nil
}

func buildBone(bd BoneDoc) (*scene.Bone, error) {
	bone := scene.NewBone(bd.Name)
	bone.Group = bd.Group
	bone.Props = bd.Properties.Scope(bd.Name)
	if len(bd.Layers) > 0 {
		bone.Layers = [32]bool{}
		for _, l := range bd.Layers {
			if l < 0 || l >= len(bone.Layers) {
				return nil, invalid("bone %q uses layer %d outside 0..31", bd.Name, l)
			}
			bone.Layers[l] = true
		}
	}
	var err error
	if bone.Head, err = vec(bd.Head, bd.Name, "head"); err != nil {
		return nil, err
	}
	if bone.Tail, err = vec(bd.Tail, bd.Name, "tail"); err != nil {
		return nil, err
	}
	for _, cd := range bd.Constraints {
		typ := scene.ConstraintType(cd.Type)
		if typ == "" {
			typ = scene.ConstraintOther
		}
		bone.Constraints = append(bone.Constraints, &scene.Constraint{
			Name:      cd.Name,
			Type:      typ,
			Influence: cd.Influence,
			Mute:      cd.Mute,
			Target:    cd.Target,
		})
	}
	return bone, nil
}

func vec(v []float64, bone, field string) (r3.Vec, error) {
	switch len(v) {
	case 0:
		return r3.Vec{}, nil
	case 3:
		return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
	}
	return r3.Vec{}, invalid("bone %q %s needs 3 components, got %d", bone, field, len(v))
}

func (b *builder) object(od ObjectDoc, seen map[string]bool) (*scene.Object, error) {
	if od.Name == "" {
		return nil, invalid("object without a name")
	}
	if seen[od.Name] {
		return nil, invalid("duplicate object %q", od.Name).WithDetail("object", od.Name)
	}
	seen[od.Name] = true

	typ := scene.ObjectType(od.Type)
	if typ == "" {
		typ = scene.TypeMesh
	}
	obj := scene.NewObject(od.Name, typ)
	obj.Props = od.Properties.Scope(od.Name)
	obj.Vertices = od.Vertices
	if len(od.Color) > 0 {
		if len(od.Color) != 4 {
			return nil, invalid("object %q color needs 4 components", od.Name).WithDetail("object", od.Name)
		}
		obj.Color = append([]float64(nil), od.Color...)
	}
	for _, g := range od.VertexGroups {
		weights := make(map[int]float64, len(g.Weights))
		for v, w := range g.Weights {
			weights[v] = w
		}
		obj.AddVertexGroup(g.Name, weights)
	}
	for _, k := range od.ShapeKeys {
		obj.ShapeKeys = append(obj.ShapeKeys, &scene.ShapeKey{Name: k.Name, Value: k.Value})
	}
	for _, md := range od.Modifiers {
		obj.Modifiers = append(obj.Modifiers, &scene.Modifier{
			Name:         md.Name,
			Type:         scene.ModifierType(md.Type),
			ShowViewport: md.ShowViewport,
			ShowRender:   md.ShowRender,
			TimeScale:    md.TimeScale,
			CacheStart:   md.CacheStart,
			CacheEnd:     md.CacheEnd,
			Levels:       md.Levels,
			RenderLevels: md.RenderLevels,
		})
	}
	for _, name := range od.Materials {
		m, ok := b.materials[name]
		if !ok {
			return nil, invalid("object %q uses unknown material %q", od.Name, name).
				WithDetail("object", od.Name).WithDetail("item", name)
		}
		obj.Materials = append(obj.Materials, m)
	}
	for _, cd := range od.Children {
		child, err := b.object(cd, seen)
		if err != nil {
			return nil, err
		}
		obj.AddChild(child)
	}
	if od.Hidden {
		obj.SetHide(true)
	}
	if od.Deleted {
		obj.Delete()
	}
	return obj, nil
}

func (b *builder) collections() error {
	for _, cd := range b.doc.Collections {
		b.scene.Root.Children = append(b.scene.Root.Children, collection(cd))
	}
	return nil
}

func collection(cd CollectionDoc) *scene.Collection {
	c := &scene.Collection{
		Name:         cd.Name,
		Members:      append([]string(nil), cd.Members...),
		HideViewport: cd.HideViewport,
		HideRender:   cd.HideRender,
	}
	for _, child := range cd.Children {
		c.Children = append(c.Children, collection(child))
	}
	return c
}

func (b *builder) keyframes() error {
	for _, kd := range b.doc.Keyframes {
		rig := b.scene.Rig(kd.Rig)
		if rig == nil {
			return invalid("keyframe on unknown rig %q", kd.Rig).WithDetail("rig", kd.Rig)
		}
		scope := rig.ScopeByName(kd.Scope)
		if scope == nil {
			return invalid("keyframe on unknown scope %q", kd.Scope).
				WithDetail("rig", kd.Rig).WithDetail("scope", kd.Scope)
		}
		if v, ok := scope.Get(kd.Property); !ok || !v.IsNumeric() {
			return invalid("keyframe on missing or non-numeric property %q", kd.Property).
				WithDetail("rig", kd.Rig).WithDetail("item", kd.Property)
		}
		b.scene.AddKeyframe(scene.Keyframe{
			Rig:      kd.Rig,
			Scope:    kd.Scope,
			Property: kd.Property,
			Frame:    kd.Frame,
			Value:    kd.Value,
		})
	}
	return nil
}

func invalid(format string, args ...interface{}) *errors.RigError {
	return errors.Newf(errors.ErrSceneInvalid, format, args...)
}
