package materials

import (
	"strings"

	"cogentcore.org/core/ordmap"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/rigkit/pkg/config"
	"github.com/arthur-debert/rigkit/pkg/expr"
	"github.com/arthur-debert/rigkit/pkg/logging"
	"github.com/arthur-debert/rigkit/pkg/scene"
	"github.com/arthur-debert/rigkit/pkg/types"
)

// Report summarizes one Sync
type Report struct {
	Trees       int
	Controller  string
	Sockets     int
	Nodes       int
	Selectors   int
	Unconnected int
}

type syncer struct {
	rig        *scene.Rig
	naming     config.Naming
	character  *types.Scope
	outfit     *types.Scope
	controller *scene.NodeTree
	report     Report
	logger     zerolog.Logger
}

// Sync pushes the rig's current property values into every material used by
// a visible descendant and into the rig's material controller node group,
// then updates texture selectors.
func Sync(rig *scene.Rig, sel types.Selection, naming config.Naming) Report {
	s := newSyncer(rig, sel, naming)
	done := logging.LogOperationStart(s.logger, "sync materials")
	defer done()

	trees := Trees(rig)
	s.report.Trees = len(trees)
	table := s.table()

	s.controller = s.findController()
	if s.controller != nil {
		s.report.Controller = s.controller.Name
		s.pushController()
	}

	for _, tree := range trees {
		s.assignNodes(tree, table)
		if n := tree.Node(naming.ActiveColorGroup); n != nil {
			s.handleSelector(tree, n, true)
		}
		for _, n := range tree.Nodes {
			if strings.Contains(n.Name, naming.SelectorMarker) {
				s.handleSelector(tree, n, false)
			}
		}
	}
	return s.report
}

// Trees returns the distinct node trees used by live, visible descendants of
// rig, in walk order
func Trees(rig *scene.Rig) []*scene.NodeTree {
	var trees []*scene.NodeTree
	seen := map[*scene.NodeTree]bool{}
	rig.Walk(func(o *scene.Object) bool {
		if !o.Alive() {
			return false
		}
		if o.HideViewport() {
			return true
		}
		for _, m := range o.Materials {
			if m == nil || m.Tree == nil || seen[m.Tree] {
				continue
			}
			seen[m.Tree] = true
			trees = append(trees, m.Tree)
		}
		return true
	})
	return trees
}

// Table returns the combined property table for the selection: character,
// outfit, rig data then extras, later sources winning. Text values starting
// with the expression marker are replaced by their evaluated result.
func Table(rig *scene.Rig, sel types.Selection, naming config.Naming) *ordmap.Map[string, types.Value] {
	return newSyncer(rig, sel, naming).table()
}

func newSyncer(rig *scene.Rig, sel types.Selection, naming config.Naming) *syncer {
	return &syncer{
		rig:       rig,
		naming:    naming,
		character: rig.Character(sel.Character),
		outfit:    rig.Outfit(sel.Outfit),
		logger:    logging.WithRig("materials", rig.Name),
	}
}

func (s *syncer) table() *ordmap.Map[string, types.Value] {
	table := ordmap.New[string, types.Value]()
	for _, scope := range []*types.Scope{s.character, s.outfit, s.rig.Data, s.rig.Extras} {
		scope.Each(func(name string, v types.Value) {
			if s.naming.IsReserved(name) || v.Kind() == types.KindIntSet {
				return
			}
			table.Add(name, v)
		})
	}

	env := tableEnv{table: table, marker: s.naming.ExpressionMarker}
	for i := range table.Order {
		kv := &table.Order[i]
		if kv.Value.Kind() != types.KindText || !strings.HasPrefix(kv.Value.TextValue(), s.naming.ExpressionMarker) {
			continue
		}
		src := strings.TrimPrefix(kv.Value.TextValue(), s.naming.ExpressionMarker)
		v, err := expr.Evaluate(src, env)
		if err != nil {
			s.logger.Warn().Err(err).Str("item", kv.Key).Msg("cannot derive material value")
			continue
		}
		if n, ok := v.Float(); ok {
			kv.Value = types.Float(n)
		} else if text, ok := v.Text(); ok {
			kv.Value = types.Text(text)
		}
	}
	return table
}

// tableEnv exposes the combined table to derived expressions. Underived
// expressions are not visible to each other.
type tableEnv struct {
	table  *ordmap.Map[string, types.Value]
	marker string
}

func (e tableEnv) Lookup(name string) (expr.Value, bool) {
	v, ok := e.table.ValueByKeyTry(name)
	if !ok {
		return expr.Unknown, false
	}
	if v.Kind() == types.KindText && strings.HasPrefix(v.TextValue(), e.marker) {
		return expr.Unknown, false
	}
	return expr.FromProperty(v)
}

func (s *syncer) findController() *scene.NodeTree {
	name, ok := s.rig.Data.Get(s.naming.ControllerKey)
	if !ok || name.Kind() != types.KindText || s.rig.Scene() == nil {
		return nil
	}
	tree := s.rig.Scene().NodeGroup(name.TextValue())
	if tree == nil {
		s.logger.Warn().Str("item", name.TextValue()).Msg("material controller node group not found")
	}
	return tree
}

// pushController copies character then outfit values into the controller's
// interface socket defaults. A hidden "_name" property wins over "name".
func (s *syncer) pushController() {
	sockets := append(append([]*scene.Socket(nil), s.controller.Inputs...), s.controller.Outputs...)
	for _, scope := range []*types.Scope{s.character, s.outfit} {
		if scope == nil {
			continue
		}
		for _, sock := range sockets {
			v, ok := scope.Get(s.naming.HiddenMarker + sock.Name)
			if !ok {
				v, ok = scope.Get(sock.Name)
			}
			if !ok {
				continue
			}
			switch {
			case v.IsNumeric():
				sock.Value = []float64{v.Number()}
			case v.Kind() == types.KindVector:
				sock.Value = append(v.VectorValue(), 1)
			default:
				continue
			}
			s.report.Sockets++
		}
	}
}

// assignNodes writes table values into nodes named after the properties:
// scalars into output 0, vectors into inputs 0-2
func (s *syncer) assignNodes(tree *scene.NodeTree, table *ordmap.Map[string, types.Value]) {
	for _, kv := range table.Order {
		n := tree.Node(s.naming.StripHidden(kv.Key))
		if n == nil {
			continue
		}
		v := kv.Value
		switch {
		case v.IsNumeric():
			if len(n.Outputs) == 0 {
				continue
			}
			n.Outputs[0].Value = []float64{v.Number()}
		case v.Kind() == types.KindVector:
			comps := v.VectorValue()
			for i := 0; i < 3 && i < len(comps) && i < len(n.Inputs); i++ {
				n.Inputs[i].Value = []float64{comps[i]}
			}
		default:
			continue
		}
		s.report.Nodes++
	}
}
