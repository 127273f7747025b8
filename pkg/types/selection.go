package types

import "strings"

// OutfitSet chooses which outfits the outfit enumeration offers
type OutfitSet string

const (
	// OutfitSetCharacter offers the outfits of the active character
	OutfitSetCharacter OutfitSet = "Character"
	// OutfitSetGeneric offers outfits that belong to no character
	OutfitSetGeneric OutfitSet = "Generic"
	// OutfitSetAll offers every outfit of every character
	OutfitSetAll OutfitSet = "All"
)

// ParseOutfitSet accepts the enum identifiers case-insensitively
func ParseOutfitSet(s string) (OutfitSet, bool) {
	for _, set := range []OutfitSet{OutfitSetCharacter, OutfitSetGeneric, OutfitSetAll} {
		if strings.EqualFold(string(set), s) {
			return set, true
		}
	}
	return "", false
}

// Selection is the user's current choice for one rig
type Selection struct {
	Character string
	OutfitSet OutfitSet
	Outfit    string
	Hair      string
}

// SplitList splits an authored allow-list such as "Ciri_Default, Ciri_Winter".
// Empty entries are dropped.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// InList reports whether name appears in an authored allow-list
func InList(list, name string) bool {
	for _, item := range SplitList(list) {
		if item == name {
			return true
		}
	}
	return false
}
