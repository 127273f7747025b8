package pipeline_test

import (
	"testing"

	"github.com/arthur-debert/rigkit/pkg/pipeline"
	"github.com/arthur-debert/rigkit/pkg/scene"
	"github.com/arthur-debert/rigkit/pkg/testutil"
	"github.com/arthur-debert/rigkit/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type objectState struct {
	hidden bool
	mask   map[int]float64
	shapes map[string]float64
}

func captureState(rig *scene.Rig) map[string]objectState {
	out := map[string]objectState{}
	for _, o := range rig.Descendants() {
		st := objectState{hidden: o.HideViewport(), shapes: map[string]float64{}}
		if g := o.VertexGroup("Mask"); g != nil {
			st.mask = map[int]float64{}
			for k, v := range g.Weights {
				st.mask[k] = v
			}
		}
		for _, k := range o.ShapeKeys {
			st.shapes[k.Name] = k.Value
		}
		out[o.Name] = st
	}
	return out
}

// maskedBody adds a body mesh with four vertices, a Mask group, two rule
// groups and rule driven shape keys
func maskedBody(rig *scene.Rig) *scene.Object {
	body := testutil.Object(rig, "Ciri_Body")
	body.Vertices = 4
	body.AddVertexGroup("Mask", map[int]float64{0: 1, 1: 1, 2: 1, 3: 1})
	body.AddVertexGroup("M:Ciri_Default:Corset==1", map[int]float64{0: 0.5, 1: 0})
	body.AddVertexGroup("M:Ciri_Default:Hood==1", map[int]float64{2: 1})
	body.AddVertexGroup("Spine", map[int]float64{3: 1})
	body.ShapeKeys = []*scene.ShapeKey{
		{Name: "Basis"},
		{Name: "M:Ciri_Default:Corset==1"},
		{Name: "M:Ciri_Winter:True", Value: 1},
		{Name: "M:Cape==1", Value: 0.3},
		{Name: "body_1"},
		{Name: "body_2", Value: 1},
	}
	return body
}

func TestUpdateAppliesVisibility(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	_, rig := testutil.CiriScene()

	report := pipeline.Update(rig, testutil.CiriSelection(), pipeline.Options{}, env.Config.Naming)

	hidden := map[string]bool{}
	for _, o := range rig.Descendants() {
		hidden[o.Name] = o.HideViewport()
		assert.Equal(t, o.HideViewport(), o.HideRender(), o.Name)
	}
	assert.Equal(t, map[string]bool{
		"Ciri_Body":      false,
		"Corset":         false,
		"Corset_Buckles": false,
		"Hood":           true,
		"Winter_Cape":    true,
		"Hair_Bun":       false,
		"Rig_Widgets":    false,
	}, hidden)
	assert.Equal(t, 5, report.Shown)
	assert.Equal(t, 2, report.Hidden)
}

func TestUnknownLeavesFlagsAlone(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	_, rig := testutil.CiriScene()
	widgets := testutil.Object(rig, "Rig_Widgets")
	widgets.SetHide(true)

	pipeline.Update(rig, testutil.CiriSelection(), pipeline.Options{}, env.Config.Naming)
	assert.True(t, widgets.HideViewport())
}

func TestHiddenParentHidesDescendants(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	_, rig := testutil.CiriScene()
	cape := testutil.Object(rig, "Winter_Cape")
	// Would resolve visible on its own
	clasp := cape.AddChild(testutil.Mesh("Cape_Clasp", "Outfit", "Ciri_Default"))
	clasp.AddChild(testutil.Mesh("Clasp_Pin", "Character", "Ciri"))

	report := pipeline.Update(rig, testutil.CiriSelection(), pipeline.Options{}, env.Config.Naming)

	assert.True(t, clasp.HideViewport())
	assert.True(t, testutil.Object(rig, "Clasp_Pin").HideViewport())
	for _, r := range report.Objects {
		if r.Name == "Clasp_Pin" {
			assert.True(t, r.Forced)
			assert.Equal(t, 2, r.Depth)
		}
	}
}

func TestMaskAndShapeKeys(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	_, rig := testutil.CiriScene()
	body := maskedBody(rig)

	report := pipeline.Update(rig, testutil.CiriSelection(), pipeline.Options{}, env.Config.Naming)

	// Corset==1 applies, Hood==1 does not
	assert.Equal(t, map[int]float64{0: 1, 1: 0, 2: 0, 3: 0}, body.VertexGroup("Mask").Weights)

	assert.Equal(t, 0.0, body.ShapeKey("Basis").Value)
	assert.Equal(t, 1.0, body.ShapeKey("M:Ciri_Default:Corset==1").Value)
	assert.Equal(t, 0.0, body.ShapeKey("M:Ciri_Winter:True").Value)
	assert.Equal(t, 0.3, body.ShapeKey("M:Cape==1").Value, "undecided rules leave the value")
	assert.Equal(t, 1.0, body.ShapeKey("body_1").Value)
	assert.Equal(t, 0.0, body.ShapeKey("body_2").Value)
	assert.Equal(t, 1, report.Masks)
}

func TestHiddenMeshKeepsMask(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	_, rig := testutil.CiriScene()
	cape := testutil.Object(rig, "Winter_Cape")
	cape.Vertices = 2
	cape.AddVertexGroup("Mask", map[int]float64{0: 1, 1: 1})
	cape.AddVertexGroup("M:Hood==1", map[int]float64{0: 1})

	pipeline.Update(rig, testutil.CiriSelection(), pipeline.Options{}, env.Config.Naming)
	assert.Equal(t, map[int]float64{0: 1, 1: 1}, cape.VertexGroup("Mask").Weights)
}

func TestUpdateIsIdempotent(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	s, rig := testutil.CiriScene()
	maskedBody(rig)
	sel := testutil.CiriSelection()

	pipeline.Update(rig, sel, pipeline.Options{}, env.Config.Naming)
	first := captureState(rig)
	epoch := s.Epoch()

	pipeline.Update(rig, sel, pipeline.Options{}, env.Config.Naming)
	assert.Equal(t, first, captureState(rig))
	assert.Equal(t, epoch, s.Epoch(), "a second pass writes nothing")
}

func TestShowAll(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	_, rig := testutil.CiriScene()
	body := maskedBody(rig)
	testutil.Object(rig, "Rig_Widgets").SetHide(true)

	pipeline.Update(rig, testutil.CiriSelection(), pipeline.Options{ShowAll: true}, env.Config.Naming)

	for _, o := range rig.Descendants() {
		assert.False(t, o.HideViewport(), o.Name)
	}
	assert.Equal(t, 1.0, body.VertexGroup("Mask").Weights[0], "masks still follow the rules")
	assert.Equal(t, 0.0, body.VertexGroup("Mask").Weights[2])
}

func TestStaleObjectsAreSkipped(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	_, rig := testutil.CiriScene()
	hood := testutil.Object(rig, "Hood")
	lining := hood.AddChild(testutil.Mesh("Hood_Lining", "Outfit", "Ciri_Winter"))
	hood.Delete()

	report := pipeline.Update(rig, testutil.CiriSelection(), pipeline.Options{}, env.Config.Naming)

	assert.Equal(t, 1, report.Stale)
	assert.False(t, lining.HideViewport(), "children of a deleted object are not visited")
	for _, r := range report.Objects {
		assert.NotEqual(t, "Hood", r.Name)
	}
}

func TestCiriScenarioHidesSubtree(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	_, rig := testutil.CiriScene()
	sel := testutil.CiriSelection()

	pipeline.Update(rig, sel, pipeline.Options{}, env.Config.Naming)
	corset := testutil.Object(rig, "Corset")
	require.False(t, corset.HideViewport())

	rig.Outfit("Ciri_Default").SetNumber("Corset", 0)
	pipeline.Update(rig, sel, pipeline.Options{}, env.Config.Naming)

	assert.True(t, corset.HideViewport())
	assert.True(t, testutil.Object(rig, "Corset_Buckles").HideViewport())
}

func TestBodyShapeFollowsTextValue(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	_, rig := testutil.CiriScene()
	rig.Data.Set("body", types.Text("athletic"))
	body := testutil.Object(rig, "Ciri_Body")
	body.ShapeKeys = []*scene.ShapeKey{{Name: "body_athletic"}, {Name: "body_1", Value: 1}}

	pipeline.Update(rig, testutil.CiriSelection(), pipeline.Options{}, env.Config.Naming)
	assert.Equal(t, 1.0, body.ShapeKey("body_athletic").Value)
	assert.Equal(t, 0.0, body.ShapeKey("body_1").Value)
}
