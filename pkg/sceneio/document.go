package sceneio

import "github.com/arthur-debert/rigkit/pkg/types"

// Document is the on-disk form of a scene
type Document struct {
	Scene       string          `mapstructure:"scene"`
	Frame       int             `mapstructure:"frame"`
	Libraries   []string        `mapstructure:"libraries"`
	NodeGroups  []TreeDoc       `mapstructure:"node_groups"`
	Materials   []MaterialDoc   `mapstructure:"materials"`
	Rigs        []RigDoc        `mapstructure:"rigs"`
	Collections []CollectionDoc `mapstructure:"collections"`
	Keyframes   []KeyframeDoc   `mapstructure:"keyframes"`
}

// Prop is one declared property
type Prop struct {
	Name  string
	Value types.Value
}

// Props is a property scope in declaration order. YAML documents keep the
// order they were written in; TOML tables are unordered and load sorted by
// name.
type Props []Prop

// Scope copies the properties into a new scope
func (p Props) Scope(name string) *types.Scope {
	s := types.NewScope(name)
	for _, prop := range p {
		s.Set(prop.Name, prop.Value)
	}
	return s
}

// PropsOf lists the properties of a scope in order
func PropsOf(s *types.Scope) Props {
	var out Props
	s.Each(func(name string, v types.Value) {
		out = append(out, Prop{Name: name, Value: v})
	})
	return out
}

// SelectionDoc is the selection stored with a rig
type SelectionDoc struct {
	Character string `mapstructure:"character"`
	OutfitSet string `mapstructure:"outfit_set"`
	Outfit    string `mapstructure:"outfit"`
	Hair      string `mapstructure:"hair"`
}

// RigDoc declares one rig
type RigDoc struct {
	Name       string         `mapstructure:"name"`
	MirrorX    bool           `mapstructure:"mirror_x"`
	Selection  SelectionDoc   `mapstructure:"selection"`
	Data       Props          `mapstructure:"data"`
	Extras     Props          `mapstructure:"extras"`
	Characters []CharacterDoc `mapstructure:"characters"`
	Bones      []BoneDoc      `mapstructure:"bones"`
	Objects    []ObjectDoc    `mapstructure:"objects"`
}

// CharacterDoc declares a character scope and the outfits it owns
type CharacterDoc struct {
	Name       string      `mapstructure:"name"`
	Properties Props       `mapstructure:"properties"`
	Outfits    []OutfitDoc `mapstructure:"outfits"`
}

// OutfitDoc declares an outfit scope
type OutfitDoc struct {
	Name       string `mapstructure:"name"`
	Properties Props  `mapstructure:"properties"`
}

// BoneDoc declares a bone. Layers lists the enabled layer indices.
type BoneDoc struct {
	Name        string          `mapstructure:"name"`
	Group       string          `mapstructure:"group"`
	Layers      []int           `mapstructure:"layers"`
	Head        []float64       `mapstructure:"head"`
	Tail        []float64       `mapstructure:"tail"`
	Properties  Props           `mapstructure:"properties"`
	Constraints []ConstraintDoc `mapstructure:"constraints"`
}

// ConstraintDoc declares a bone constraint
type ConstraintDoc struct {
	Name      string  `mapstructure:"name"`
	Type      string  `mapstructure:"type"`
	Influence float64 `mapstructure:"influence"`
	Mute      bool    `mapstructure:"mute"`
	Target    string  `mapstructure:"target"`
}

// ObjectDoc declares an object and its children
type ObjectDoc struct {
	Name         string           `mapstructure:"name"`
	Type         string           `mapstructure:"type"`
	Properties   Props            `mapstructure:"properties"`
	Vertices     int              `mapstructure:"vertices"`
	VertexGroups []VertexGroupDoc `mapstructure:"vertex_groups"`
	ShapeKeys    []ShapeKeyDoc    `mapstructure:"shape_keys"`
	Modifiers    []ModifierDoc    `mapstructure:"modifiers"`
	Materials    []string         `mapstructure:"materials"`
	Color        []float64        `mapstructure:"color"`
	Hidden       bool             `mapstructure:"hidden"`
	Deleted      bool             `mapstructure:"deleted"`
	Children     []ObjectDoc      `mapstructure:"children"`
}

// VertexGroupDoc declares a vertex group with per-vertex weights
type VertexGroupDoc struct {
	Name    string          `mapstructure:"name"`
	Weights map[int]float64 `mapstructure:"weights"`
}

// ShapeKeyDoc declares a shape key
type ShapeKeyDoc struct {
	Name  string  `mapstructure:"name"`
	Value float64 `mapstructure:"value"`
}

// ModifierDoc declares an object modifier
type ModifierDoc struct {
	Name         string  `mapstructure:"name"`
	Type         string  `mapstructure:"type"`
	ShowViewport bool    `mapstructure:"show_viewport"`
	ShowRender   bool    `mapstructure:"show_render"`
	TimeScale    float64 `mapstructure:"time_scale"`
	CacheStart   int     `mapstructure:"cache_start"`
	CacheEnd     int     `mapstructure:"cache_end"`
	Levels       int     `mapstructure:"levels"`
	RenderLevels int     `mapstructure:"render_levels"`
}

// MaterialDoc declares a material, either inline or as a reference to a tree
// in one of the document's node libraries
type MaterialDoc struct {
	Name    string  `mapstructure:"name"`
	Library string  `mapstructure:"library"`
	Tree    TreeDoc `mapstructure:"tree"`
}

// TreeDoc declares a node tree or a node group
type TreeDoc struct {
	Name    string      `mapstructure:"name"`
	Active  string      `mapstructure:"active"`
	Inputs  []SocketDoc `mapstructure:"inputs"`
	Outputs []SocketDoc `mapstructure:"outputs"`
	Nodes   []NodeDoc   `mapstructure:"nodes"`
	Links   []LinkDoc   `mapstructure:"links"`
}

// SocketDoc declares an interface socket
type SocketDoc struct {
	Name  string    `mapstructure:"name"`
	Value []float64 `mapstructure:"value"`
}

// NodeDoc declares a node. Group names the node group of a group node and
// Inputs sets its input count.
type NodeDoc struct {
	Name   string  `mapstructure:"name"`
	Label  string  `mapstructure:"label"`
	Type   string  `mapstructure:"type"`
	Value  float64 `mapstructure:"value"`
	Group  string  `mapstructure:"group"`
	Inputs int     `mapstructure:"inputs"`
	Mute   bool    `mapstructure:"mute"`
}

// LinkDoc connects two nodes by name and socket index
type LinkDoc struct {
	From       string `mapstructure:"from"`
	FromSocket int    `mapstructure:"from_socket"`
	To         string `mapstructure:"to"`
	ToSocket   int    `mapstructure:"to_socket"`
}

// CollectionDoc declares a collection
type CollectionDoc struct {
	Name         string          `mapstructure:"name"`
	Members      []string        `mapstructure:"members"`
	HideViewport bool            `mapstructure:"hide_viewport"`
	HideRender   bool            `mapstructure:"hide_render"`
	Children     []CollectionDoc `mapstructure:"children"`
}

// KeyframeDoc declares a stepped animation key
type KeyframeDoc struct {
	Rig      string  `mapstructure:"rig"`
	Scope    string  `mapstructure:"scope"`
	Property string  `mapstructure:"property"`
	Frame    int     `mapstructure:"frame"`
	Value    float64 `mapstructure:"value"`
}
