package engine

import (
	"github.com/jinzhu/copier"

	"github.com/arthur-debert/rigkit/pkg/bones"
	"github.com/arthur-debert/rigkit/pkg/constraints"
	"github.com/arthur-debert/rigkit/pkg/errors"
	"github.com/arthur-debert/rigkit/pkg/logging"
	"github.com/arthur-debert/rigkit/pkg/modifiers"
	"github.com/arthur-debert/rigkit/pkg/selection"
	"github.com/arthur-debert/rigkit/pkg/snapshot"
	"github.com/arthur-debert/rigkit/pkg/toggles"
	"github.com/arthur-debert/rigkit/pkg/types"
)

// with runs fn on a rig's state under its lock
func (e *Engine) with(rig string, fn func(st *RigState) error) error {
	st, err := e.State(rig)
	if err != nil {
		return err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	err = fn(st)
	st.Rig.Selection = st.Selection
	return err
}

// Selection returns a copy of the rig's current selection
func (e *Engine) Selection(rig string) (types.Selection, error) {
	var sel types.Selection
	err := e.with(rig, func(st *RigState) error {
		sel = st.Selection
		return nil
	})
	return sel, err
}

// Settings returns a deep copy of the rig's settings
func (e *Engine) Settings(rig string) (Settings, error) {
	var out Settings
	err := e.with(rig, func(st *RigState) error {
		if err := copier.CopyWithOption(&out, &st.Settings, copier.Option{DeepCopy: true}); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to copy rig settings")
		}
		return nil
	})
	return out, err
}

// Toggles returns the rig's toggles with their current values
func (e *Engine) Toggles(rig string) ([]ToggleState, error) {
	var out []ToggleState
	err := e.with(rig, func(st *RigState) error {
		for _, t := range st.Toggles.All() {
			out = append(out, ToggleState{Name: t.Name, On: t.Value()})
		}
		return nil
	})
	return out, err
}

// SetSelection replaces the whole selection and runs the character cascade
func (e *Engine) SetSelection(rig string, sel types.Selection) error {
	return e.with(rig, func(st *RigState) error {
		if st.Rig.Character(sel.Character) == nil {
			return scopeMissing(rig, sel.Character)
		}
		st.Selection = sel
		e.characterChanged(st)
		return nil
	})
}

// SetCharacter switches character: bones move to the character's positions
// and the outfit cascade follows
func (e *Engine) SetCharacter(rig, character string) error {
	return e.with(rig, func(st *RigState) error {
		if st.Rig.Character(character) == nil {
			return scopeMissing(rig, character)
		}
		st.Selection.Character = character
		e.characterChanged(st)
		return nil
	})
}

// SetOutfitSet changes which outfits are offered and runs the outfit cascade
func (e *Engine) SetOutfitSet(rig string, set types.OutfitSet) error {
	if _, ok := types.ParseOutfitSet(string(set)); !ok {
		return errors.Newf(errors.ErrInvalidInput, "unknown outfit set %q", set)
	}
	return e.with(rig, func(st *RigState) error {
		st.Selection.OutfitSet = set
		e.outfitChanged(st)
		return nil
	})
}

// SetOutfit switches outfit. An outfit the current outfit set does not offer
// falls back to the first one offered.
func (e *Engine) SetOutfit(rig, outfit string) error {
	return e.with(rig, func(st *RigState) error {
		st.Selection.Outfit = outfit
		e.outfitChanged(st)
		return nil
	})
}

// SetHair switches hairstyle, refreshing meshes and bone layers
func (e *Engine) SetHair(rig, hair string) error {
	return e.with(rig, func(st *RigState) error {
		st.Selection.Hair = hair
		e.hairChanged(st)
		return nil
	})
}

// SetShowAll forces every object visible, or returns to rule-driven visibility
func (e *Engine) SetShowAll(rig string, on bool) error {
	return e.with(rig, func(st *RigState) error {
		st.Settings.ShowAll = on
		e.updateMeshes(st)
		return nil
	})
}

// SetProperty writes a numeric property like a slider would. Scope is
// "character", "outfit", "data" or "extras". Change detection picks the
// write up on the next pre-update hook.
func (e *Engine) SetProperty(rig, scope, name string, value float64) error {
	return e.with(rig, func(st *RigState) error {
		target := e.scopeOf(st, scope)
		if target == nil {
			return scopeMissing(rig, scope)
		}
		if !target.SetNumber(name, value) {
			return errors.Newf(errors.ErrNotFound, "no numeric property %q in %s scope %q", name, scope, target.Name).
				WithDetail("rig", rig).WithDetail("item", name)
		}
		return nil
	})
}

func (e *Engine) scopeOf(st *RigState, scope string) *types.Scope {
	switch scope {
	case string(snapshot.SectionCharacter):
		return st.Rig.Character(st.Selection.Character)
	case string(snapshot.SectionOutfit):
		return st.Rig.Outfit(st.Selection.Outfit)
	case "data", string(snapshot.SectionRig):
		return st.Rig.Data
	case "extras":
		return st.Rig.Extras
	}
	return nil
}

// SetToggle flips a toggle in every scope that declares it
func (e *Engine) SetToggle(rig, name string, on bool) error {
	return e.with(rig, func(st *RigState) error {
		t, ok := st.Toggles.Get(name)
		if !ok {
			return errors.Newf(errors.ErrNotFound, "no toggle %q for the current selection", name).
				WithDetail("rig", rig)
		}
		t.Set(on)
		return nil
	})
}

// SetIK moves one FK/IK slider and reroutes constraint influences
func (e *Engine) SetIK(rig, slider string, value float64) error {
	return e.with(rig, func(st *RigState) error {
		known := false
		for _, s := range e.cfg.FKIK.Sliders {
			known = known || s == slider
		}
		if !known {
			return errors.Newf(errors.ErrInvalidInput, "unknown FK/IK slider %q", slider)
		}
		st.Settings.IK.Sliders[slider] = constraints.Clamp(value)
		constraints.RouteIK(st.Rig, st.Settings.IK, e.cfg.FKIK)
		return nil
	})
}

// SetPerFinger switches between per-finger and grouped finger IK
func (e *Engine) SetPerFinger(rig string, on bool) error {
	return e.with(rig, func(st *RigState) error {
		st.Settings.IK.PerFinger = on
		constraints.RouteIK(st.Rig, st.Settings.IK, e.cfg.FKIK)
		return nil
	})
}

// SetPhysics switches physics simulation on or off
func (e *Engine) SetPhysics(rig string, on bool) error {
	return e.physics(rig, func(p *modifiers.Physics) { p.Enabled = on })
}

// SetSpeedMultiplier applies a one-shot cloth speed multiplier expression
func (e *Engine) SetSpeedMultiplier(rig, multiplier string) error {
	return e.physics(rig, func(p *modifiers.Physics) { p.SpeedMultiplier = multiplier })
}

// SetCacheRange moves the cloth cache bounds. The start is applied first.
func (e *Engine) SetCacheRange(rig string, start, end int) error {
	return e.physics(rig, func(p *modifiers.Physics) {
		p.SetCacheStart(start, e.cfg.Physics)
		p.SetCacheEnd(end, e.cfg.Physics)
	})
}

func (e *Engine) physics(rig string, fn func(p *modifiers.Physics)) error {
	return e.with(rig, func(st *RigState) error {
		fn(&st.Settings.Physics)
		modifiers.ApplyPhysics(st.Rig.Scene(), st.Rig, &st.Settings.Physics, e.cfg.Physics)
		return nil
	})
}

// SetRenderModifiers switches the viewport cost of solidify, bevel and
// subsurf modifiers
func (e *Engine) SetRenderModifiers(rig string, on bool) error {
	return e.with(rig, func(st *RigState) error {
		st.Settings.RenderModifiers = on
		modifiers.ApplyRenderModifiers(st.Rig, on)
		return nil
	})
}

// SetShrinkwrapTarget points a shrinkwrap constraint key at an object.
// An empty target clears it.
func (e *Engine) SetShrinkwrapTarget(rig, key, target string) error {
	return e.with(rig, func(st *RigState) error {
		if target != "" {
			if s := st.Rig.Scene(); s != nil && s.FindObject(target) == nil {
				return errors.Newf(errors.ErrNotFound, "no object %q in the scene", target).
					WithDetail("rig", rig)
			}
		}
		st.Settings.Shrinkwrap[key] = target
		constraints.RouteShrinkwrap(st.Rig, st.Settings.Shrinkwrap, e.cfg.Shrinkwrap)
		return nil
	})
}

func (e *Engine) characterChanged(st *RigState) {
	bones.ApplyPositions(st.Rig, st.Selection)
	e.outfitChanged(st)
}

func (e *Engine) outfitChanged(st *RigState) {
	naming := e.cfg.Naming
	logger := logging.WithRig("engine", st.Rig.Name)

	if outfit := selection.ValidOutfit(st.Rig, st.Selection, naming); outfit != st.Selection.Outfit {
		logger.Debug().Str("requested", st.Selection.Outfit).Str("outfit", outfit).Msg("outfit defaulted")
		st.Selection.Outfit = outfit
	}
	selection.ApplyBody(st.Rig, st.Selection, naming)
	st.Selection.Hair = selection.HairFor(st.Rig, st.Selection)

	st.Toggles = toggles.Build(st.Rig, st.Selection, naming)
	e.hairChanged(st)
	logger.Info().Str("character", st.Selection.Character).Str("outfit", st.Selection.Outfit).
		Str("hair", st.Selection.Hair).Msg("selection changed")
}

func (e *Engine) hairChanged(st *RigState) {
	e.updateMeshes(st)
	bones.PartitionLayers(st.Rig, st.Selection, e.cfg.Layers)
}

func scopeMissing(rig, scope string) error {
	return errors.Newf(errors.ErrScopeMissing, "scope %q not found", scope).
		WithDetail("rig", rig).WithDetail("scope", scope)
}
