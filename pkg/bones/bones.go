// Package bones keeps the armature in step with the selection: bone layers
// follow hair, outfit and character groups, and bones move to per-character
// positions.
package bones

import (
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/arthur-debert/rigkit/pkg/config"
	"github.com/arthur-debert/rigkit/pkg/logging"
	"github.com/arthur-debert/rigkit/pkg/scene"
	"github.com/arthur-debert/rigkit/pkg/types"
)

// Group prefixes that tie a bone group to a selection
const (
	HairPrefix      = "Hair_"
	OutfitPrefix    = "Outfit_"
	CharacterPrefix = "Character_"
)

// PartitionLayers enables the hair, outfit or character layer on every bone
// whose group lists the active selection, and disables it otherwise. It
// returns the number of bones touched. Nothing happens when the active
// character scope is missing.
func PartitionLayers(rig *scene.Rig, sel types.Selection, layers config.Layers) int {
	logger := logging.WithRig("bones", rig.Name)
	if rig.Character(sel.Character) == nil {
		logger.Warn().Str("scope", sel.Character).Msg("character scope not found, bone layers left alone")
		return 0
	}

	rules := []struct {
		prefix string
		active string
		layer  int
	}{
		{HairPrefix, sel.Hair, layers.Hair},
		{OutfitPrefix, sel.Outfit, layers.Outfit},
		{CharacterPrefix, sel.Character, layers.Character},
	}

	touched := 0
	for _, b := range rig.Bones {
		for _, r := range rules {
			if !strings.HasPrefix(b.Group, r.prefix) {
				continue
			}
			if r.layer < 0 || r.layer >= len(b.Layers) {
				logger.Warn().Int("layer", r.layer).Msg("bone layer out of range")
				break
			}
			b.Layers[r.layer] = types.InList(strings.TrimPrefix(b.Group, r.prefix), r.active)
			touched++
			break
		}
	}
	return touched
}

// PositionKey returns the property holding a bone's position for a character
func PositionKey(bone, character string) string {
	return bone + "_" + character
}

// ApplyPositions moves every bone carrying a "<bone>_<character>" vector for
// the active character, keeping its head to tail offset. The rig is switched
// to edit mode for the move and restored afterwards; mirror editing is
// turned off first. It returns the number of bones moved.
func ApplyPositions(rig *scene.Rig, sel types.Selection) int {
	logger := logging.WithRig("bones", rig.Name)

	rig.MirrorX = false
	orig := rig.Mode()
	rig.SetMode(scene.ModeEdit)
	defer rig.SetMode(orig)

	moved := 0
	for _, b := range rig.Bones {
		v, ok := b.Props.Get(PositionKey(b.Name, sel.Character))
		if !ok {
			continue
		}
		comps := v.VectorValue()
		if v.Kind() != types.KindVector || len(comps) != 3 {
			logger.Warn().Str("item", b.Name).Str("kind", v.Kind().String()).
				Msg("bone position must be a 3-vector")
			continue
		}
		offset := r3.Sub(b.Tail, b.Head)
		b.Head = r3.Vec{X: comps[0], Y: comps[1], Z: comps[2]}
		b.Tail = r3.Add(b.Head, offset)
		moved++
	}
	return moved
}
