// Package host drives update hooks the way the animation host does: a
// pre-update hook, the host's own evaluation, then a post-update hook,
// repeated while the scene keeps changing.
package host

import (
	"github.com/rs/zerolog"

	"github.com/arthur-debert/rigkit/pkg/errors"
	"github.com/arthur-debert/rigkit/pkg/logging"
	"github.com/arthur-debert/rigkit/pkg/scene"
)

// Hooks are the callbacks the host fires around its evaluation
type Hooks interface {
	PreUpdate(s *scene.Scene)
	PostUpdate(s *scene.Scene)
	FrameChanged(s *scene.Scene)
}

// DefaultMaxPasses bounds re-evaluation when no limit is configured
const DefaultMaxPasses = 4

// Depsgraph re-evaluates a scene. Writes made by the post hook trigger one
// more pass, as in the host; a scene that is still changing after MaxPasses
// is reported as a re-entrant update.
type Depsgraph struct {
	Scene     *scene.Scene
	Hooks     Hooks
	MaxPasses int
	// Evaluate stands in for the host's own evaluation between the hooks
	Evaluate func(s *scene.Scene)

	logger zerolog.Logger
}

// New returns a depsgraph for s calling hooks
func New(s *scene.Scene, hooks Hooks, maxPasses int) *Depsgraph {
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}
	return &Depsgraph{
		Scene:     s,
		Hooks:     hooks,
		MaxPasses: maxPasses,
		logger:    logging.GetLogger("host"),
	}
}

// Update runs evaluation passes until one leaves the scene unchanged and
// returns the number of passes
func (d *Depsgraph) Update() (int, error) {
	for pass := 1; pass <= d.MaxPasses; pass++ {
		start := d.Scene.Epoch()

		d.Hooks.PreUpdate(d.Scene)
		if d.Scene.Epoch() != start {
			d.logger.Warn().Int("pass", pass).Msg("scene changed during pre-update hook")
		}
		if d.Evaluate != nil {
			d.Evaluate(d.Scene)
		}
		d.Hooks.PostUpdate(d.Scene)

		if d.Scene.Epoch() == start {
			d.logger.Trace().Int("passes", pass).Msg("scene settled")
			return pass, nil
		}
	}
	return d.MaxPasses, errors.Newf(errors.ErrReentrant, "scene still changing after %d passes", d.MaxPasses).
		WithDetail("scene", d.Scene.Name)
}

// SetFrame moves the playhead and fires the frame hook. Like playback in the
// host it does not fire the update hooks; the next Update does. It returns
// the number of animated properties written.
func (d *Depsgraph) SetFrame(frame int) int {
	written := d.Scene.SetFrame(frame)
	d.logger.Debug().Int("frame", frame).Int("keys", written).Msg("frame set")
	d.Hooks.FrameChanged(d.Scene)
	return written
}
