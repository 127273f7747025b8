// Package selection enumerates the choices a rig offers and derives the
// follow-on values of a selection change.
package selection

import (
	"github.com/arthur-debert/rigkit/pkg/config"
	"github.com/arthur-debert/rigkit/pkg/logging"
	"github.com/arthur-debert/rigkit/pkg/scene"
	"github.com/arthur-debert/rigkit/pkg/types"
	"github.com/arthur-debert/rigkit/pkg/visibility"
)

// Characters lists selectable characters in declaration order. The generic
// character only owns shared outfits and is not offered.
func Characters(rig *scene.Rig, naming config.Naming) []string {
	var names []string
	for _, c := range rig.Characters {
		if c.Name() == naming.GenericCharacter {
			continue
		}
		names = append(names, c.Name())
	}
	return names
}

// OutfitSets lists the outfit set identifiers
func OutfitSets() []types.OutfitSet {
	return []types.OutfitSet{types.OutfitSetCharacter, types.OutfitSetGeneric, types.OutfitSetAll}
}

// Outfits lists the outfits offered by the selection's outfit set
func Outfits(rig *scene.Rig, sel types.Selection, naming config.Naming) []string {
	var owners []*scene.Character
	switch sel.OutfitSet {
	case types.OutfitSetGeneric:
		owners = append(owners, rig.CharacterRecord(naming.GenericCharacter))
	case types.OutfitSetAll:
		owners = rig.Characters
	default:
		owners = append(owners, rig.CharacterRecord(sel.Character))
	}

	var names []string
	for _, c := range owners {
		if c == nil {
			continue
		}
		for _, o := range c.Outfits {
			names = append(names, o.Name)
		}
	}
	return names
}

// Hairs lists the no-hair choice followed by every hairstyle named in a Hair
// list on any character or outfit scope, in the order they are found
func Hairs(rig *scene.Rig, naming config.Naming) []string {
	hairs := []string{naming.NoHair}
	seen := map[string]bool{naming.NoHair: true}
	collect := func(s *types.Scope) {
		v, ok := s.Get(visibility.KeyHair)
		if !ok || v.Kind() != types.KindText {
			return
		}
		for _, h := range types.SplitList(v.TextValue()) {
			if seen[h] {
				continue
			}
			seen[h] = true
			hairs = append(hairs, h)
		}
	}
	for _, c := range rig.Characters {
		collect(c.Scope)
		for _, o := range c.Outfits {
			collect(o)
		}
	}
	return hairs
}

func contains(list []string, name string) bool {
	for _, s := range list {
		if s == name {
			return true
		}
	}
	return false
}

// ValidOutfit returns sel.Outfit when the outfit set offers it, otherwise the
// first offered outfit, or "" when there is none
func ValidOutfit(rig *scene.Rig, sel types.Selection, naming config.Naming) string {
	offered := Outfits(rig, sel, naming)
	if sel.Outfit != "" && contains(offered, sel.Outfit) {
		return sel.Outfit
	}
	if len(offered) == 0 {
		return ""
	}
	return offered[0]
}

// HairFor returns the hairstyle implied by the selected outfit: the first
// entry of the outfit's Hair list, else of the character's. The current hair
// is kept when neither declares one.
func HairFor(rig *scene.Rig, sel types.Selection) string {
	for _, s := range []*types.Scope{rig.Outfit(sel.Outfit), rig.Character(sel.Character)} {
		v, ok := s.Get(visibility.KeyHair)
		if !ok || v.Kind() != types.KindText {
			continue
		}
		if hairs := types.SplitList(v.TextValue()); len(hairs) > 0 {
			return hairs[0]
		}
	}
	return sel.Hair
}

// ApplyBody copies the body override of the selected outfit, or else of the
// character, into the rig data body property. It reports whether the rig
// data changed.
func ApplyBody(rig *scene.Rig, sel types.Selection, naming config.Naming) bool {
	logger := logging.WithRig("selection", rig.Name)
	for _, s := range []*types.Scope{rig.Outfit(sel.Outfit), rig.Character(sel.Character)} {
		v, ok := s.Get(naming.BodyOverrideKey)
		if !ok || !v.IsNumeric() {
			continue
		}
		cur, ok := rig.Data.Get(naming.BodyKey)
		if !ok {
			rig.Data.Set(naming.BodyKey, v)
			return true
		}
		if cur.IsNumeric() && cur.Number() == v.Number() {
			return false
		}
		if !rig.Data.SetNumber(naming.BodyKey, v.Number()) {
			logger.Warn().Str("item", naming.BodyKey).Msg("body property is not numeric")
			return false
		}
		logger.Debug().Str("scope", s.Name).Float64("body", v.Number()).Msg("body override applied")
		return true
	}
	return false
}

// Normalize fills in a selection for a freshly registered rig: the first
// character when none or an unknown one is chosen, a valid outfit for the
// outfit set and, when no hair is chosen, the hair that outfit implies
func Normalize(rig *scene.Rig, sel types.Selection, naming config.Naming) types.Selection {
	chars := Characters(rig, naming)
	if !contains(chars, sel.Character) && len(chars) > 0 {
		sel.Character = chars[0]
	}
	if sel.OutfitSet == "" {
		sel.OutfitSet = types.OutfitSetCharacter
	}
	sel.Outfit = ValidOutfit(rig, sel, naming)
	if sel.Hair == "" {
		sel.Hair = naming.NoHair
		sel.Hair = HairFor(rig, sel)
	}
	return sel
}
