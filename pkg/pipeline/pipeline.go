// Package pipeline applies visibility decisions to a rig's object hierarchy:
// hide flags, the combined mask vertex group and rule-driven shape keys.
package pipeline

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/rigkit/pkg/config"
	"github.com/arthur-debert/rigkit/pkg/logging"
	"github.com/arthur-debert/rigkit/pkg/scene"
	"github.com/arthur-debert/rigkit/pkg/types"
	"github.com/arthur-debert/rigkit/pkg/visibility"
)

// Options changes how the walk treats visibility
type Options struct {
	// ShowAll forces every object visible. Masks and shape keys are still
	// recomputed.
	ShowAll bool
}

// ObjectResult records what happened to one object
type ObjectResult struct {
	Name     string
	Depth    int
	Decision visibility.Result
	Forced   bool
	Hidden   bool
}

// Report summarizes one Update
type Report struct {
	Objects   []ObjectResult
	Shown     int
	Hidden    int
	Stale     int
	Masks     int
	ShapeKeys int
}

type walker struct {
	rig      *scene.Rig
	resolver *visibility.Resolver
	naming   config.Naming
	opts     Options
	report   *Report
	logger   zerolog.Logger
}

// Update walks the rig's hierarchy from its direct children. A hidden
// object hides its whole subtree; an Unknown decision leaves the hide flags
// as they are. Deleted objects are skipped together with their children.
func Update(rig *scene.Rig, sel types.Selection, opts Options, naming config.Naming) Report {
	w := &walker{
		rig:      rig,
		resolver: visibility.New(rig, sel, naming),
		naming:   naming,
		opts:     opts,
		report:   &Report{},
		logger:   logging.WithRig("pipeline", rig.Name),
	}
	done := logging.LogOperationStart(w.logger, "update meshes")
	defer done()

	for _, child := range rig.Children {
		w.visit(child, 0, false)
	}
	return *w.report
}

func (w *walker) visit(o *scene.Object, depth int, forceHidden bool) {
	if !o.Alive() {
		w.report.Stale++
		return
	}

	res := ObjectResult{Name: o.Name, Depth: depth}
	switch {
	case forceHidden:
		res.Forced = true
		res.Decision = visibility.False
	case w.opts.ShowAll:
		res.Forced = true
		res.Decision = visibility.True
	default:
		res.Decision = w.resolver.ResolveObject(o)
	}

	if res.Decision.Known() {
		o.SetHide(res.Decision == visibility.False)
	}

	res.Hidden = o.HideViewport()
	if res.Hidden {
		w.report.Hidden++
	} else {
		w.report.Shown++
		w.applyMask(o)
		w.applyShapeKeys(o)
	}
	w.report.Objects = append(w.report.Objects, res)

	for _, child := range o.Children {
		w.visit(child, depth+1, res.Hidden && !w.opts.ShowAll)
	}
}

// applyMask sets the mask group to 1 on every vertex with positive weight in
// any rule group that currently applies, and 0 elsewhere
func (w *walker) applyMask(o *scene.Object) {
	if !o.IsMesh() {
		return
	}
	mask := o.VertexGroup(w.naming.MaskGroup)
	if mask == nil {
		return
	}

	var active []*scene.VertexGroup
	for _, g := range o.VertexGroups {
		if g == mask {
			continue
		}
		if weight, known := w.resolver.ResolveName(o.Name, g.Name); known && weight != 0 {
			active = append(active, g)
		}
	}

	for v := 0; v < o.Vertices; v++ {
		weight := 0.0
		for _, g := range active {
			if gw, ok := g.Weight(v); ok && gw > 0 {
				weight = 1
				break
			}
		}
		o.SetWeight(mask, v, weight)
	}
	w.report.Masks++
}

func (w *walker) applyShapeKeys(o *scene.Object) {
	if !o.IsMesh() {
		return
	}
	for _, k := range o.ShapeKeys {
		if weight, known := w.resolver.ResolveName(o.Name, k.Name); known {
			o.SetShapeValue(k, weight)
			w.report.ShapeKeys++
		}
	}
	w.applyBodyShape(o)
}

// applyBodyShape enables the body_<n> shape key matching the rig's body
// value and disables the other body keys
func (w *walker) applyBodyShape(o *scene.Object) {
	prefix := w.naming.BodyShapePrefix
	if prefix == "" {
		return
	}
	body, ok := w.rig.Data.Get(w.naming.BodyKey)
	if !ok {
		return
	}
	var suffix string
	switch body.Kind() {
	case types.KindInt, types.KindFloat:
		suffix = strconv.Itoa(body.IntValue())
	case types.KindText:
		suffix = body.TextValue()
	default:
		return
	}

	for _, k := range o.ShapeKeys {
		if !strings.HasPrefix(k.Name, prefix) {
			continue
		}
		v := 0.0
		if k.Name == prefix+suffix {
			v = 1
		}
		o.SetShapeValue(k, v)
		w.report.ShapeKeys++
	}
}
