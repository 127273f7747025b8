package sceneio

import (
	"bytes"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/rigkit/pkg/errors"
	"github.com/arthur-debert/rigkit/pkg/scene"
	"github.com/arthur-debert/rigkit/pkg/types"
)

// Export captures the current state of a scene as a document. Materials are
// written inline; library references are not kept.
func Export(s *scene.Scene) *Document {
	doc := &Document{Scene: s.Name, Frame: s.Frame()}
	for _, g := range s.NodeGroups() {
		doc.NodeGroups = append(doc.NodeGroups, treeDoc(g))
	}

	seen := map[string]bool{}
	for _, rig := range s.Rigs() {
		rig.Walk(func(o *scene.Object) bool {
			for _, m := range o.Materials {
				if !seen[m.Name] {
					seen[m.Name] = true
					doc.Materials = append(doc.Materials, MaterialDoc{Name: m.Name, Tree: treeDoc(m.Tree)})
				}
			}
			return true
		})
		doc.Rigs = append(doc.Rigs, rigDoc(rig))
	}

	if s.Root != nil {
		for _, c := range s.Root.Children {
			doc.Collections = append(doc.Collections, collectionDoc(c))
		}
	}
	for _, k := range s.Keyframes() {
		doc.Keyframes = append(doc.Keyframes, KeyframeDoc{
			Rig: k.Rig, Scope: k.Scope, Property: k.Property, Frame: k.Frame, Value: k.Value,
		})
	}
	return doc
}

func treeDoc(t *scene.NodeTree) TreeDoc {
	if t == nil {
		return TreeDoc{}
	}
	td := TreeDoc{Name: t.Name}
	if t.Active != nil {
		td.Active = t.Active.Name
	}
	for _, s := range t.Inputs {
		td.Inputs = append(td.Inputs, SocketDoc{Name: s.Name, Value: s.Value})
	}
	for _, s := range t.Outputs {
		td.Outputs = append(td.Outputs, SocketDoc{Name: s.Name, Value: s.Value})
	}
	for _, n := range t.Nodes {
		nd := NodeDoc{Name: n.Name, Label: n.Label, Type: string(n.Type), Mute: n.Mute}
		switch n.Type {
		case scene.NodeValue:
			if len(n.Outputs) > 0 {
				nd.Value = n.Outputs[0].Scalar()
			}
		case scene.NodeGroup:
			nd.Inputs = len(n.Inputs)
			if n.Group != nil {
				nd.Group = n.Group.Name
			}
		case scene.NodeCombine, scene.NodeReroute, scene.NodeTexImage:
		default:
			nd.Inputs = len(n.Inputs)
		}
		td.Nodes = append(td.Nodes, nd)
	}
	for _, l := range t.Links {
		td.Links = append(td.Links, LinkDoc{
			From: l.From.Name, FromSocket: l.FromSocket, To: l.To.Name, ToSocket: l.ToSocket,
		})
	}
	return td
}

func rigDoc(rig *scene.Rig) RigDoc {
	rd := RigDoc{
		Name:    rig.Name,
		MirrorX: rig.MirrorX,
		Selection: SelectionDoc{
			Character: rig.Selection.Character,
			OutfitSet: string(rig.Selection.OutfitSet),
			Outfit:    rig.Selection.Outfit,
			Hair:      rig.Selection.Hair,
		},
		Data:   PropsOf(rig.Data),
		Extras: PropsOf(rig.Extras),
	}
	for _, c := range rig.Characters {
		cd := CharacterDoc{Name: c.Name(), Properties: PropsOf(c.Scope)}
		for _, o := range c.Outfits {
			cd.Outfits = append(cd.Outfits, OutfitDoc{Name: o.Name, Properties: PropsOf(o)})
		}
		rd.Characters = append(rd.Characters, cd)
	}
	for _, b := range rig.Bones {
		bd := BoneDoc{
			Name:       b.Name,
			Group:      b.Group,
			Head:       []float64{b.Head.X, b.Head.Y, b.Head.Z},
			Tail:       []float64{b.Tail.X, b.Tail.Y, b.Tail.Z},
			Properties: PropsOf(b.Props),
		}
		for i, on := range b.Layers {
			if on {
				bd.Layers = append(bd.Layers, i)
			}
		}
		for _, c := range b.Constraints {
			bd.Constraints = append(bd.Constraints, ConstraintDoc{
				Name: c.Name, Type: string(c.Type), Influence: c.Influence, Mute: c.Mute, Target: c.Target,
			})
		}
		rd.Bones = append(rd.Bones, bd)
	}
	for _, o := range rig.Children {
		rd.Objects = append(rd.Objects, objectDoc(o))
	}
	return rd
}

func objectDoc(o *scene.Object) ObjectDoc {
	od := ObjectDoc{
		Name:       o.Name,
		Type:       string(o.Type),
		Properties: PropsOf(o.Props),
		Vertices:   o.Vertices,
		Color:      o.Color,
		Hidden:     o.HideViewport(),
		Deleted:    !o.Alive(),
	}
	for _, g := range o.VertexGroups {
		od.VertexGroups = append(od.VertexGroups, VertexGroupDoc{Name: g.Name, Weights: g.Weights})
	}
	for _, k := range o.ShapeKeys {
		od.ShapeKeys = append(od.ShapeKeys, ShapeKeyDoc{Name: k.Name, Value: k.Value})
	}
	for _, m := range o.Modifiers {
		od.Modifiers = append(od.Modifiers, ModifierDoc{
			Name: m.Name, Type: string(m.Type),
			ShowViewport: m.ShowViewport, ShowRender: m.ShowRender,
			TimeScale: m.TimeScale, CacheStart: m.CacheStart, CacheEnd: m.CacheEnd,
			Levels: m.Levels, RenderLevels: m.RenderLevels,
		})
	}
	for _, m := range o.Materials {
		od.Materials = append(od.Materials, m.Name)
	}
	for _, c := range o.Children {
		od.Children = append(od.Children, objectDoc(c))
	}
	return od
}

func collectionDoc(c *scene.Collection) CollectionDoc {
	cd := CollectionDoc{
		Name:         c.Name,
		Members:      c.Members,
		HideViewport: c.HideViewport,
		HideRender:   c.HideRender,
	}
	for _, child := range c.Children {
		cd.Children = append(cd.Children, collectionDoc(child))
	}
	return cd
}

// Save exports a scene and writes it to path in the format its extension
// names
func Save(s *scene.Scene, path string) error {
	return WriteDocument(Export(s), path)
}

// WriteDocument encodes a document and writes it to path
func WriteDocument(doc *Document, path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Marshal(doc, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrSceneLoad, "failed to write scene document %s", path).
			WithDetail("path", path)
	}
	return nil
}

// Marshal encodes a document. YAML output keeps declaration order; TOML
// tables come out sorted.
func Marshal(doc *Document, format Format) ([]byte, error) {
	t := documentTable(doc)
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(toYAML(t)); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode YAML scene document")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode YAML scene document")
		}
		return buf.Bytes(), nil
	case FormatTOML:
		data, err := toml.Marshal(toTOML(t))
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode TOML scene document")
		}
		return data, nil
	}
	return nil, errors.Newf(errors.ErrInvalidInput, "unknown scene document format %q", format)
}

// field and table form an ordered intermediate tree shared by both encoders.
// Zero values are left out since decoding restores them.
type field struct {
	key   string
	value interface{}
}

type table []field

func (t *table) add(key string, v interface{}) {
	switch x := v.(type) {
	case string:
		if x == "" {
			return
		}
	case int:
		if x == 0 {
			return
		}
	case float64:
		if x == 0 {
			return
		}
	case bool:
		if !x {
			return
		}
	case table:
		if len(x) == 0 {
			return
		}
	case []table:
		if len(x) == 0 {
			return
		}
	case []float64:
		if len(x) == 0 {
			return
		}
	case []int:
		if len(x) == 0 {
			return
		}
	case []string:
		if len(x) == 0 {
			return
		}
	}
	*t = append(*t, field{key, v})
}

func documentTable(doc *Document) table {
	var t table
	t.add("scene", doc.Scene)
	t.add("frame", doc.Frame)
	t.add("libraries", doc.Libraries)
	t.add("node_groups", each(doc.NodeGroups, treeTable))
	t.add("materials", each(doc.Materials, func(m MaterialDoc) table {
		var mt table
		mt.add("name", m.Name)
		mt.add("library", m.Library)
		mt.add("tree", treeTable(m.Tree))
		return mt
	}))
	t.add("rigs", each(doc.Rigs, rigTable))
	t.add("collections", each(doc.Collections, collectionTable))
	t.add("keyframes", each(doc.Keyframes, func(k KeyframeDoc) table {
		var kt table
		kt.add("rig", k.Rig)
		kt.add("scope", k.Scope)
		kt.add("property", k.Property)
		kt.add("frame", k.Frame)
		kt.add("value", k.Value)
		return kt
	}))
	return t
}

func each[T any](items []T, fn func(T) table) []table {
	out := make([]table, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}

func treeTable(td TreeDoc) table {
	var t table
	t.add("name", td.Name)
	t.add("active", td.Active)
	socket := func(s SocketDoc) table {
		var st table
		st.add("name", s.Name)
		st.add("value", s.Value)
		return st
	}
	t.add("inputs", each(td.Inputs, socket))
	t.add("outputs", each(td.Outputs, socket))
	t.add("nodes", each(td.Nodes, func(n NodeDoc) table {
		var nt table
		nt.add("name", n.Name)
		nt.add("label", n.Label)
		nt.add("type", n.Type)
		nt.add("value", n.Value)
		nt.add("group", n.Group)
		nt.add("inputs", n.Inputs)
		nt.add("mute", n.Mute)
		return nt
	}))
	t.add("links", each(td.Links, func(l LinkDoc) table {
		var lt table
		lt.add("from", l.From)
		lt.add("from_socket", l.FromSocket)
		lt.add("to", l.To)
		lt.add("to_socket", l.ToSocket)
		return lt
	}))
	return t
}

func rigTable(rd RigDoc) table {
	var t table
	t.add("name", rd.Name)
	t.add("mirror_x", rd.MirrorX)
	var sel table
	sel.add("character", rd.Selection.Character)
	sel.add("outfit_set", rd.Selection.OutfitSet)
	sel.add("outfit", rd.Selection.Outfit)
	sel.add("hair", rd.Selection.Hair)
	t.add("selection", sel)
	t.add("data", propsTable(rd.Data))
	t.add("extras", propsTable(rd.Extras))
	t.add("characters", each(rd.Characters, func(c CharacterDoc) table {
		var ct table
		ct.add("name", c.Name)
		ct.add("properties", propsTable(c.Properties))
		ct.add("outfits", each(c.Outfits, func(o OutfitDoc) table {
			var ot table
			ot.add("name", o.Name)
			ot.add("properties", propsTable(o.Properties))
			return ot
		}))
		return ct
	}))
	t.add("bones", each(rd.Bones, func(b BoneDoc) table {
		var bt table
		bt.add("name", b.Name)
		bt.add("group", b.Group)
		bt.add("layers", b.Layers)
		bt.add("head", b.Head)
		bt.add("tail", b.Tail)
		bt.add("properties", propsTable(b.Properties))
		bt.add("constraints", each(b.Constraints, func(c ConstraintDoc) table {
			var ct table
			ct.add("name", c.Name)
			ct.add("type", c.Type)
			ct.add("influence", c.Influence)
			ct.add("mute", c.Mute)
			ct.add("target", c.Target)
			return ct
		}))
		return bt
	}))
	t.add("objects", each(rd.Objects, objectTable))
	return t
}

func objectTable(od ObjectDoc) table {
	var t table
	t.add("name", od.Name)
	t.add("type", od.Type)
	t.add("properties", propsTable(od.Properties))
	t.add("vertices", od.Vertices)
	t.add("vertex_groups", each(od.VertexGroups, func(g VertexGroupDoc) table {
		var gt table
		gt.add("name", g.Name)
		gt.add("weights", weightsTable(g.Weights))
		return gt
	}))
	t.add("shape_keys", each(od.ShapeKeys, func(k ShapeKeyDoc) table {
		var kt table
		kt.add("name", k.Name)
		kt.add("value", k.Value)
		return kt
	}))
	t.add("modifiers", each(od.Modifiers, func(m ModifierDoc) table {
		var mt table
		mt.add("name", m.Name)
		mt.add("type", m.Type)
		mt.add("show_viewport", m.ShowViewport)
		mt.add("show_render", m.ShowRender)
		mt.add("time_scale", m.TimeScale)
		mt.add("cache_start", m.CacheStart)
		mt.add("cache_end", m.CacheEnd)
		mt.add("levels", m.Levels)
		mt.add("render_levels", m.RenderLevels)
		return mt
	}))
	t.add("materials", od.Materials)
	t.add("color", od.Color)
	t.add("hidden", od.Hidden)
	t.add("deleted", od.Deleted)
	t.add("children", each(od.Children, objectTable))
	return t
}

func collectionTable(cd CollectionDoc) table {
	var t table
	t.add("name", cd.Name)
	t.add("members", cd.Members)
	t.add("hide_viewport", cd.HideViewport)
	t.add("hide_render", cd.HideRender)
	t.add("children", each(cd.Children, collectionTable))
	return t
}

func weightsTable(weights map[int]float64) table {
	vertices := make([]int, 0, len(weights))
	for v := range weights {
		vertices = append(vertices, v)
	}
	sort.Ints(vertices)
	t := make(table, 0, len(vertices))
	for _, v := range vertices {
		t = append(t, field{strconv.Itoa(v), weights[v]})
	}
	return t
}

func propsTable(props Props) table {
	t := make(table, 0, len(props))
	for _, p := range props {
		t = append(t, field{p.Name, propRaw(p.Value)})
	}
	return t
}

// propRaw is the inverse of propValue
func propRaw(v types.Value) interface{} {
	if v.IsBoolRange() {
		return v.IntValue() != 0
	}
	switch v.Kind() {
	case types.KindInt:
		if lo, hi, ok := v.Range(); ok {
			return table{{"value", v.IntValue()}, {"min", int(lo)}, {"max", int(hi)}}
		}
		return v.IntValue()
	case types.KindFloat:
		if lo, hi, ok := v.Range(); ok {
			return table{{"value", v.Number()}, {"min", lo}, {"max", hi}}
		}
		return v.Number()
	case types.KindText:
		return v.TextValue()
	case types.KindVector:
		vec := v.VectorValue()
		if len(vec) == 0 {
			return table{{"vector", []float64{}}}
		}
		return vec
	case types.KindIntSet:
		members := v.Members()
		if members == nil {
			members = []int{}
		}
		return members
	}
	return nil
}

func toYAML(v interface{}) *yaml.Node {
	switch x := v.(type) {
	case table:
		n := &yaml.Node{Kind: yaml.MappingNode}
		for _, f := range x {
			n.Content = append(n.Content, scalar("", f.key), toYAML(f.value))
		}
		return n
	case []table:
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range x {
			n.Content = append(n.Content, toYAML(item))
		}
		return n
	case []float64:
		n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, f := range x {
			n.Content = append(n.Content, toYAML(f))
		}
		return n
	case []int:
		n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, i := range x {
			n.Content = append(n.Content, toYAML(i))
		}
		return n
	case []string:
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, s := range x {
			n.Content = append(n.Content, toYAML(s))
		}
		return n
	case string:
		return scalar("!!str", x)
	case int:
		return scalar("!!int", strconv.Itoa(x))
	case float64:
		return scalar("!!float", floatText(x))
	case bool:
		return scalar("!!bool", strconv.FormatBool(x))
	}
	return scalar("!!null", "null")
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// floatText keeps a decimal point so whole floats read back as floats
func floatText(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

func toTOML(v interface{}) interface{} {
	switch x := v.(type) {
	case table:
		m := make(map[string]interface{}, len(x))
		for _, f := range x {
			m[f.key] = toTOML(f.value)
		}
		return m
	case []table:
		out := make([]map[string]interface{}, 0, len(x))
		for _, item := range x {
			out = append(out, toTOML(item).(map[string]interface{}))
		}
		return out
	}
	return v
}
