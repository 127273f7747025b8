// Package sceneio loads and saves scene documents.
//
// A scene document is a YAML or TOML file declaring rigs (data and extras
// scopes, characters and their outfits, bones, the object hierarchy),
// shared node groups, materials, collections and stepped keyframes.
// Materials are either written inline or refer by name to a tree in one of
// the XML node libraries the document lists.
//
// Property tables accept a few value forms:
//
//	Hair: Ciri_Bun, Ciri_Loose        # text
//	Corset: true                      # integer over [0,1], a toggle
//	Gloves: {value: 1, min: 0, max: 2} # ranged integer or float
//	Tint: [0.9, 0.8, 0.7]             # vector when any member is a float
//	Layers: [1, 2]                    # integer set when every member is an integer
//	Seed: {set: []}                   # explicit forms: {set: [...]}, {vector: [...]}
//
// Loading validates every reference and fails with SCENE_PARSE or
// SCENE_INVALID coded errors.
package sceneio
