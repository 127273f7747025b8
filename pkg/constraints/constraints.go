// Package constraints routes UI settings onto bone constraints: FK/IK
// influence sliders and shrinkwrap targets.
package constraints

import (
	"strings"

	"github.com/arthur-debert/rigkit/pkg/config"
	"github.com/arthur-debert/rigkit/pkg/logging"
	"github.com/arthur-debert/rigkit/pkg/scene"
)

// IK holds the FK/IK slider values keyed by slider name
type IK struct {
	Sliders   map[string]float64
	PerFinger bool
}

// Clamp limits v to the slider range [0, 1]
func Clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// SliderFor returns the slider driving a constraint, or "" when none does.
// Unless per-finger control is on, finger constraints collapse onto the
// left or right fingers slider.
func SliderFor(constraint string, perFinger bool, vocab config.FKIK) string {
	name := strings.ToLower(constraint)
	if !perFinger {
		for _, finger := range vocab.Fingers {
			if !strings.Contains(name, finger) {
				continue
			}
			switch {
			case strings.Contains(name, vocab.LeftSuffix):
				name = vocab.LeftFingers
			case strings.Contains(name, vocab.RightSuffix):
				name = vocab.RightFingers
			}
			break
		}
	}
	for _, s := range vocab.Sliders {
		if s == name {
			return s
		}
	}
	return ""
}

// RouteIK sets the influence of every constraint driven by a slider and
// returns how many were set
func RouteIK(rig *scene.Rig, ik IK, vocab config.FKIK) int {
	logger := logging.WithRig("constraints", rig.Name)
	routed := 0
	for _, b := range rig.Bones {
		for _, c := range b.Constraints {
			slider := SliderFor(c.Name, ik.PerFinger, vocab)
			if slider == "" {
				continue
			}
			c.Influence = Clamp(ik.Sliders[slider])
			routed++
		}
	}
	logger.Debug().Int("constraints", routed).Bool("per_finger", ik.PerFinger).Msg("routed FK/IK sliders")
	return routed
}

// RouteShrinkwrap points every shrinkwrap constraint whose lower-cased name
// is a configured key at the chosen target object. An empty target clears it.
func RouteShrinkwrap(rig *scene.Rig, targets map[string]string, cfg config.Shrinkwrap) int {
	known := map[string]bool{}
	for _, t := range cfg.Targets {
		known[t] = true
	}
	routed := 0
	for _, b := range rig.Bones {
		for _, c := range b.Constraints {
			if c.Type != scene.ConstraintShrinkwrap {
				continue
			}
			key := strings.ToLower(c.Name)
			if !known[key] {
				continue
			}
			c.Target = targets[key]
			routed++
		}
	}
	return routed
}
