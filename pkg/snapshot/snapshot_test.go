package snapshot_test

import (
	"testing"

	"github.com/arthur-debert/rigkit/pkg/snapshot"
	"github.com/arthur-debert/rigkit/pkg/testutil"
	"github.com/arthur-debert/rigkit/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestCaptureReadsNumericProperties(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	rig := testutil.CiriRig().Data("prop_hierarchy", `{"Outfit": ["Corset"]}`, "prev_props", 3).Build()

	snap := snapshot.Capture(rig, testutil.CiriSelection(), env.Config.Naming)

	assert.Equal(t, map[string]float64{"Face": 1, "_body": 2}, snap.Values(snapshot.SectionCharacter))
	assert.Equal(t, []string{"Corset", "Hood", "Gloves", "_Sleeve"}, snap.Keys(snapshot.SectionOutfit))
	assert.Equal(t, map[string]float64{"body": 1}, snap.Values(snapshot.SectionRig),
		"text and reserved keys are not captured")
}

func TestCaptureIsReflexive(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	rig := testutil.CiriRig().Build()
	sel := testutil.CiriSelection()

	a := snapshot.Capture(rig, sel, env.Config.Naming)
	b := snapshot.Capture(rig, sel, env.Config.Naming)
	assert.False(t, snapshot.Diff(a, b))
	assert.Empty(t, snapshot.Changes(a, b))
}

func TestDiffIgnoresInsertionOrder(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	sel := testutil.CiriSelection()

	forward := testutil.CiriRig().Build()
	reversed := testutil.CiriRig().Build()
	outfit := reversed.Outfit("Ciri_Default")
	keys := outfit.Keys()
	values := map[string]types.Value{}
	for _, k := range keys {
		values[k], _ = outfit.Get(k)
		outfit.Delete(k)
	}
	for i := len(keys) - 1; i >= 0; i-- {
		outfit.Set(keys[i], values[keys[i]])
	}

	a := snapshot.Capture(forward, sel, env.Config.Naming)
	b := snapshot.Capture(reversed, sel, env.Config.Naming)
	assert.NotEqual(t, a.Keys(snapshot.SectionOutfit), b.Keys(snapshot.SectionOutfit))
	assert.False(t, snapshot.Diff(a, b))
}

func TestDiffDetectsChanges(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	rig := testutil.CiriRig().Build()
	sel := testutil.CiriSelection()

	before := snapshot.Capture(rig, sel, env.Config.Naming)
	assert.True(t, snapshot.Diff(nil, before), "no previous snapshot always differs")

	rig.Outfit("Ciri_Default").SetNumber("Corset", 0)
	rig.Data.Set("wetness", types.Float(0.5))
	after := snapshot.Capture(rig, sel, env.Config.Naming)

	assert.True(t, snapshot.Diff(before, after))
	changes := snapshot.Changes(before, after)
	assert.Len(t, changes, 2)
	assert.Equal(t, "outfit.Corset: 1 -> 0", changes[0].String())
	assert.Equal(t, "rig.wetness: +0.5", changes[1].String())
}

func TestSelectionChangeIsAChange(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	rig := testutil.CiriRig().Build()
	sel := testutil.CiriSelection()

	before := snapshot.Capture(rig, sel, env.Config.Naming)
	sel.Outfit = "Ciri_Winter"
	after := snapshot.Capture(rig, sel, env.Config.Naming)
	assert.True(t, snapshot.Diff(before, after))
}

func TestMissingScopeIsLogged(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	rig := testutil.CiriRig().Build()
	sel := testutil.CiriSelection()
	sel.Outfit = "Gone"

	snap := snapshot.Capture(rig, sel, env.Config.Naming)
	assert.Empty(t, snap.Values(snapshot.SectionOutfit))
	assert.True(t, env.LogsContain("scope not found", "Gone"))
}
