package config

import "strings"

// Naming holds the authoring conventions the engine reads from scene metadata
type Naming struct {
	CharacterPrefix  string `koanf:"character_prefix"`
	OutfitPrefix     string `koanf:"outfit_prefix"`
	GenericCharacter string `koanf:"generic_character"`
	NoHair           string `koanf:"no_hair"`

	// Vertex groups and shape keys named "<MaskPrefix><MaskDelimiter>..." are rules
	MaskPrefix    string `koanf:"mask_prefix"`
	MaskDelimiter string `koanf:"mask_delimiter"`
	MaskGroup     string `koanf:"mask_group"`

	// HiddenMarker prefixes properties that are routed to materials but not shown as sliders
	HiddenMarker     string `koanf:"hidden_marker"`
	ExpressionMarker string `koanf:"expression_marker"`

	SelectorMarker   string `koanf:"selector_marker"`
	ActiveColorGroup string `koanf:"active_color_group"`
	UnconnectedLabel string `koanf:"unconnected_label"`
	ControllerKey    string `koanf:"controller_key"`

	HierarchyKey  string   `koanf:"hierarchy_key"`
	ExpressionKey string   `koanf:"expression_key"`
	ReservedKeys  []string `koanf:"reserved_keys"`

	BodyKey         string `koanf:"body_key"`
	BodyOverrideKey string `koanf:"body_override_key"`
	BodyShapePrefix string `koanf:"body_shape_prefix"`
}

// MaskRulePrefix returns the full prefix that marks a name-encoded rule, eg. "M:"
func (n Naming) MaskRulePrefix() string {
	return n.MaskPrefix + n.MaskDelimiter
}

// IsReserved reports whether key is bookkeeping data rather than a rig property
func (n Naming) IsReserved(key string) bool {
	if key == n.HierarchyKey {
		return true
	}
	for _, r := range n.ReservedKeys {
		if key == r {
			return true
		}
	}
	return false
}

// StripHidden removes a single leading hidden marker from name
func (n Naming) StripHidden(name string) string {
	if n.HiddenMarker == "" {
		return name
	}
	return strings.TrimPrefix(name, n.HiddenMarker)
}

// Layers holds the bone layer indices used for partitioning
type Layers struct {
	Character int `koanf:"character"`
	Outfit    int `koanf:"outfit"`
	Hair      int `koanf:"hair"`
}

// FKIK holds the influence slider vocabulary
type FKIK struct {
	Sliders      []string `koanf:"sliders"`
	Fingers      []string `koanf:"fingers"`
	LeftSuffix   string   `koanf:"left_suffix"`
	RightSuffix  string   `koanf:"right_suffix"`
	LeftFingers  string   `koanf:"left_fingers"`
	RightFingers string   `koanf:"right_fingers"`
}

// Physics holds the physics toggle heuristics and cache bounds
type Physics struct {
	NameMarker     string    `koanf:"name_marker"`
	ClothColor     []float64 `koanf:"cloth_color"`
	CollisionColor []float64 `koanf:"collision_color"`
	CacheStartMin  int       `koanf:"cache_start_min"`
	CacheStartMax  int       `koanf:"cache_start_max"`
	CacheEndMin    int       `koanf:"cache_end_min"`
	CacheEndMax    int       `koanf:"cache_end_max"`
}

// Shrinkwrap lists the constraint names that can be retargeted from the UI
type Shrinkwrap struct {
	Targets []string `koanf:"targets"`
}

// Engine holds scheduler behaviour
type Engine struct {
	// FollowFrames makes frame changes run change detection like a user edit
	FollowFrames bool `koanf:"follow_frames"`
	// MaxPasses bounds host re-evaluation before a cycle is reported as re-entrant
	MaxPasses int `koanf:"max_passes"`
}

// Output holds CLI rendering preferences
type Output struct {
	Format string `koanf:"format"`
}

// Config is the main configuration structure
type Config struct {
	Naming     Naming     `koanf:"naming"`
	Layers     Layers     `koanf:"layers"`
	FKIK       FKIK       `koanf:"fkik"`
	Physics    Physics    `koanf:"physics"`
	Shrinkwrap Shrinkwrap `koanf:"shrinkwrap"`
	Engine     Engine     `koanf:"engine"`
	Output     Output     `koanf:"output"`
}
