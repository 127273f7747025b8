package rigkit

import (
	"strings"

	"github.com/arthur-debert/rigkit/pkg/engine"
	"github.com/arthur-debert/rigkit/pkg/errors"
	"github.com/arthur-debert/rigkit/pkg/host"
	"github.com/arthur-debert/rigkit/pkg/logging"
	"github.com/arthur-debert/rigkit/pkg/scene"
	"github.com/arthur-debert/rigkit/pkg/sceneio"
)

// session is a loaded scene with an engine attached and settled
type session struct {
	path   string
	scene  *scene.Scene
	engine *engine.Engine
	graph  *host.Depsgraph
}

// open loads the scene document at path, registers its rigs and runs the
// first update so objects reflect the stored selection
func (a *app) open(path string) (*session, error) {
	logger := logging.GetLogger("cmd.session")

	s, err := sceneio.Load(path)
	if err != nil {
		return nil, err
	}
	eng := engine.New(a.cfg)
	eng.Attach(s)
	graph := host.New(s, eng, a.cfg.Engine.MaxPasses)
	passes, err := graph.Update()
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("path", path).Strs("rigs", eng.Rigs()).Int("passes", passes).Msg("scene opened")
	return &session{path: path, scene: s, engine: eng, graph: graph}, nil
}

// pick returns the state of the named rig, or of the only rig when name is
// empty
func (s *session) pick(name string) (*engine.RigState, error) {
	if name != "" {
		return s.engine.State(name)
	}
	rigs := s.engine.Rigs()
	switch len(rigs) {
	case 0:
		return nil, errors.Newf(errors.ErrRigNotFound, MsgErrNoRig, s.path)
	case 1:
		return s.engine.State(rigs[0])
	}
	return nil, errors.Newf(errors.ErrInvalidInput, MsgErrPickRig, s.path, strings.Join(rigs, ", "))
}

// hidden records the viewport hide flag of every object below rig
func hidden(rig *scene.Rig) map[string]bool {
	out := map[string]bool{}
	rig.Walk(func(o *scene.Object) bool {
		out[o.Name] = o.HideViewport()
		return true
	})
	return out
}
