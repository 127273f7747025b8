package engine

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/rigkit/pkg/config"
	"github.com/arthur-debert/rigkit/pkg/errors"
	"github.com/arthur-debert/rigkit/pkg/logging"
	"github.com/arthur-debert/rigkit/pkg/materials"
	"github.com/arthur-debert/rigkit/pkg/pipeline"
	"github.com/arthur-debert/rigkit/pkg/registry"
	"github.com/arthur-debert/rigkit/pkg/scene"
	"github.com/arthur-debert/rigkit/pkg/selection"
	"github.com/arthur-debert/rigkit/pkg/snapshot"
	"github.com/arthur-debert/rigkit/pkg/toggles"
)

// Engine owns the per-rig state records and runs the update hooks
type Engine struct {
	cfg    *config.Config
	rigs   registry.Registry[*RigState]
	logger zerolog.Logger

	qmu    sync.Mutex
	queued map[string]bool
	queue  []string
}

// New returns an engine using cfg, or the global configuration when cfg is nil
func New(cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.Get()
	}
	return &Engine{
		cfg:    cfg,
		rigs:   registry.New[*RigState](),
		logger: logging.GetLogger("engine"),
		queued: map[string]bool{},
	}
}

// Attach subscribes the engine to the scene's rig events. Rigs already in
// the scene are registered immediately.
func (e *Engine) Attach(s *scene.Scene) {
	s.Subscribe(e)
}

// RigAdded implements scene.Listener
func (e *Engine) RigAdded(_ *scene.Scene, rig *scene.Rig) {
	naming := e.cfg.Naming
	sel := selection.Normalize(rig, rig.Selection, naming)
	st := &RigState{
		Rig:       rig,
		Selection: sel,
		Settings:  DefaultSettings(),
		Toggles:   toggles.Build(rig, sel, naming),
	}
	if err := e.rigs.Register(rig.Name, st); err != nil {
		e.logger.Warn().Err(err).Str("rig", rig.Name).Msg("rig already registered")
		return
	}
	rig.Selection = sel
	e.logger.Info().Str("rig", rig.Name).Str("character", sel.Character).
		Str("outfit", sel.Outfit).Msg("rig registered")
}

// RigRemoved implements scene.Listener
func (e *Engine) RigRemoved(_ *scene.Scene, rig *scene.Rig) {
	if err := e.rigs.Remove(rig.Name); err != nil {
		e.logger.Debug().Err(err).Str("rig", rig.Name).Msg("rig was not registered")
		return
	}
	e.qmu.Lock()
	delete(e.queued, rig.Name)
	e.qmu.Unlock()
	e.logger.Info().Str("rig", rig.Name).Msg("rig unregistered")
}

// Rigs returns the registered rig names, sorted
func (e *Engine) Rigs() []string {
	return e.rigs.List()
}

// State returns the state record of a registered rig
func (e *Engine) State(rig string) (*RigState, error) {
	st, ok := e.rigs.Lookup(rig)
	if !ok {
		return nil, errors.Newf(errors.ErrRigNotFound, "rig %q is not registered", rig).
			WithDetail("rig", rig)
	}
	return st, nil
}

// Pending returns the rigs scheduled for the next post-update hook, in
// scheduling order
func (e *Engine) Pending() []string {
	e.qmu.Lock()
	defer e.qmu.Unlock()
	return append([]string(nil), e.queue...)
}

func (e *Engine) enqueue(rig string) {
	e.qmu.Lock()
	defer e.qmu.Unlock()
	if e.queued[rig] {
		return
	}
	e.queued[rig] = true
	e.queue = append(e.queue, rig)
}

func (e *Engine) drain() []string {
	e.qmu.Lock()
	defer e.qmu.Unlock()
	out := e.queue
	e.queue = nil
	e.queued = map[string]bool{}
	return out
}

// guard contains a failure to one rig so the hook carries on with the rest
func (e *Engine) guard(rig, phase string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Str("rig", rig).Str("phase", phase).
				Str("panic", fmt.Sprint(r)).Msg("hook failed for rig")
		}
	}()
	fn()
}

// PreUpdate runs change detection for every registered rig. A rig whose
// snapshot changed gets its materials synced right away and is scheduled for
// a mesh update in the next PostUpdate. Nothing here touches hide flags,
// vertex weights or shape keys.
func (e *Engine) PreUpdate(_ *scene.Scene) {
	e.rigs.Each(func(name string, st *RigState) {
		e.guard(name, "pre", func() { e.detect(st) })
	})
}

// PostUpdate runs the mesh pipeline on every scheduled rig that is still
// dirty and clears its flag
func (e *Engine) PostUpdate(_ *scene.Scene) {
	for _, name := range e.drain() {
		st, ok := e.rigs.Lookup(name)
		if !ok {
			continue
		}
		e.guard(name, "post", func() {
			st.mu.Lock()
			defer st.mu.Unlock()
			if !st.dirty {
				return
			}
			e.updateMeshes(st)
			st.dirty = false
		})
	}
}

// FrameChanged treats a frame change like a user edit when follow_frames is
// on: detection and material sync run now and meshes follow in the next
// PostUpdate. With follow_frames off animated properties are only picked up
// by the next regular update.
func (e *Engine) FrameChanged(s *scene.Scene) {
	if !e.cfg.Engine.FollowFrames {
		return
	}
	e.logger.Debug().Int("frame", s.Frame()).Msg("frame changed")
	e.PreUpdate(s)
}

func (e *Engine) detect(st *RigState) {
	st.mu.Lock()
	defer st.mu.Unlock()

	naming := e.cfg.Naming
	next := snapshot.Capture(st.Rig, st.Selection, naming)
	if !snapshot.Diff(st.snapshot, next) {
		return
	}
	logger := logging.WithRig("engine", st.Rig.Name)
	for _, c := range snapshot.Changes(st.snapshot, next) {
		logger.Debug().Str("change", c.String()).Msg("property changed")
	}
	st.snapshot = next
	materials.Sync(st.Rig, st.Selection, naming)
	st.dirty = true
	e.enqueue(st.Rig.Name)
}

func (e *Engine) updateMeshes(st *RigState) pipeline.Report {
	return pipeline.Update(st.Rig, st.Selection, pipeline.Options{ShowAll: st.Settings.ShowAll}, e.cfg.Naming)
}
