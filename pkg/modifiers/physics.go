package modifiers

import (
	"strings"

	"github.com/arthur-debert/rigkit/pkg/config"
	"github.com/arthur-debert/rigkit/pkg/expr"
	"github.com/arthur-debert/rigkit/pkg/logging"
	"github.com/arthur-debert/rigkit/pkg/scene"
)

// Physics is the per-rig physics panel state
type Physics struct {
	Enabled bool
	// SpeedMultiplier is applied once to cloth time scales and then cleared.
	// It is an expression, so "1/2" works as well as "0.5".
	SpeedMultiplier string
	CacheStart      int
	CacheEnd        int
}

// DefaultPhysics returns physics switched off with a one frame cache
func DefaultPhysics() Physics {
	return Physics{CacheStart: 1, CacheEnd: 1}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SetCacheStart moves the cache start, pushing the end along to stay after it
func (p *Physics) SetCacheStart(v int, cfg config.Physics) {
	p.CacheStart = clampInt(v, cfg.CacheStartMin, cfg.CacheStartMax)
	if p.CacheStart > p.CacheEnd {
		p.CacheEnd = clampInt(p.CacheStart+1, cfg.CacheEndMin, cfg.CacheEndMax)
	}
}

// SetCacheEnd moves the cache end, pulling the start along to stay before it
func (p *Physics) SetCacheEnd(v int, cfg config.Physics) {
	p.CacheEnd = clampInt(v, cfg.CacheEndMin, cfg.CacheEndMax)
	if p.CacheEnd < p.CacheStart {
		p.CacheStart = clampInt(p.CacheEnd-1, cfg.CacheStartMin, cfg.CacheStartMax)
	}
}

// PhysicsReport summarizes one ApplyPhysics
type PhysicsReport struct {
	Modifiers   int
	Constraints int
	Collection  string
	Speed       float64
}

// IsPhysics reports whether m is a simulation modifier: cloth, collision, or
// a mesh/surface deform whose name carries the physics marker
func IsPhysics(m *scene.Modifier, marker string) bool {
	switch m.Type {
	case scene.ModCloth, scene.ModCollision:
		return true
	case scene.ModMeshDeform, scene.ModSurfaceDeform:
		return strings.Contains(strings.ToLower(m.Name), marker)
	}
	return false
}

// ApplyPhysics shows or hides the physics modifiers of the rig's direct
// children, applies and clears the speed multiplier, writes the cache range
// to cloth modifiers, mutes physics bone constraints and hides the rig's
// physics collection. Objects carrying cloth or collision are tinted while
// physics is on.
func ApplyPhysics(s *scene.Scene, rig *scene.Rig, p *Physics, cfg config.Physics) PhysicsReport {
	logger := logging.WithRig("physics", rig.Name)
	var report PhysicsReport

	speed := 0.0
	if p.SpeedMultiplier != "" {
		v, err := expr.Evaluate(p.SpeedMultiplier, expr.Vars{})
		if n, ok := v.Float(); err == nil && ok {
			speed = n
		} else {
			logger.Warn().Err(err).Str("item", p.SpeedMultiplier).Msg("speed multiplier is not a number")
		}
		p.SpeedMultiplier = ""
	}
	report.Speed = speed

	colors := map[scene.ModifierType][]float64{
		scene.ModCloth:     cfg.ClothColor,
		scene.ModCollision: cfg.CollisionColor,
	}

	for _, o := range rig.Children {
		if !o.Alive() {
			continue
		}
		for _, m := range o.Modifiers {
			if !IsPhysics(m, cfg.NameMarker) {
				continue
			}
			if color, ok := colors[m.Type]; ok {
				tint(o, color, p.Enabled)
			}
			m.ShowViewport = p.Enabled
			m.ShowRender = p.Enabled
			report.Modifiers++

			if m.Type != scene.ModCloth {
				continue
			}
			if speed != 0 {
				m.TimeScale *= speed
			}
			m.CacheStart = p.CacheStart
			m.CacheEnd = p.CacheEnd
		}
	}

	for _, b := range rig.Bones {
		for _, c := range b.Constraints {
			if strings.Contains(strings.ToLower(c.Name), cfg.NameMarker) {
				c.Mute = !p.Enabled
				report.Constraints++
			}
		}
	}

	if s != nil {
		if parent := s.CollectionOf(rig.Name); parent != nil {
			for _, c := range parent.Children {
				if strings.Contains(strings.ToLower(c.Name), cfg.NameMarker) {
					c.HideViewport = !p.Enabled
					c.HideRender = !p.Enabled
					report.Collection = c.Name
					break
				}
			}
		}
	}

	logger.Debug().Bool("enabled", p.Enabled).Int("modifiers", report.Modifiers).
		Int("constraints", report.Constraints).Msg("applied physics")
	return report
}

// tint swaps in the physics color, remembering the original, or restores it
func tint(o *scene.Object, color []float64, on bool) {
	if on {
		if o.SavedColor == nil {
			o.SavedColor = append([]float64(nil), o.Color...)
		}
		o.Color = append([]float64(nil), color...)
		return
	}
	if o.SavedColor != nil {
		o.Color = o.SavedColor
		o.SavedColor = nil
	}
}
