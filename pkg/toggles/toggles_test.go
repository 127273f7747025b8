package toggles_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/rigkit/pkg/testutil"
	"github.com/arthur-debert/rigkit/pkg/toggles"
	"github.com/arthur-debert/rigkit/pkg/types"
)

func TestBuild(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	rig := testutil.CiriRig().Build()

	list := toggles.Build(rig, testutil.CiriSelection(), env.Config.Naming)
	assert.Equal(t, []string{"Corset", "Hood"}, list.Names())

	corset, ok := list.Get("Corset")
	require.True(t, ok)
	assert.True(t, corset.Value())
	hood, _ := list.Get("Hood")
	assert.False(t, hood.Value())
}

func TestSetWritesBackToScopes(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	rig := testutil.CiriRig().Build()
	list := toggles.Build(rig, testutil.CiriSelection(), env.Config.Naming)

	hood, _ := list.Get("Hood")
	assert.Equal(t, 1, hood.Set(true))
	v, _ := rig.Outfit("Ciri_Default").Get("Hood")
	assert.Equal(t, 1, v.IntValue())
	assert.True(t, v.IsBoolRange(), "kind and range survive the write")

	assert.Equal(t, 0, hood.Set(true), "writing the same value changes nothing")
}

func TestSharedNameDrivesBothScopes(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	rig := testutil.NewRig("Rig").
		Character("Anna", "Wet", types.IntRange(0, 0, 1)).
		Outfit("Anna", "Swimsuit", "Wet", types.IntRange(1, 0, 1), "Straps", types.IntRange(0, 0, 1)).
		Build()
	sel := types.Selection{Character: "Anna", Outfit: "Swimsuit"}

	list := toggles.Build(rig, sel, env.Config.Naming)
	assert.Equal(t, []string{"Wet", "Straps"}, list.Names())

	wet, _ := list.Get("Wet")
	assert.Len(t, wet.Scopes, 2)
	assert.True(t, wet.Value(), "outfit scope is read first")

	assert.Equal(t, 1, wet.Set(false), "character scope was already off")
	assert.Equal(t, 2, wet.Set(true))
	assert.Equal(t, 2, wet.Set(false))
	for _, s := range wet.Scopes {
		v, _ := s.Get("Wet")
		assert.Zero(t, v.IntValue(), s.Name)
	}
}

func TestRebuildDropsStaleToggles(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	rig := testutil.CiriRig().Build()
	sel := testutil.CiriSelection()

	list := toggles.Build(rig, sel, env.Config.Naming)
	assert.Contains(t, list.Names(), "Hood")

	sel.Outfit = "Ciri_Winter"
	list = toggles.Build(rig, sel, env.Config.Naming)
	assert.Equal(t, []string{"Cape"}, list.Names())
	_, ok := list.Get("Hood")
	assert.False(t, ok)
}

func TestMissingScopes(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	rig := testutil.CiriRig().Build()

	list := toggles.Build(rig, types.Selection{Character: "Nobody", Outfit: "Nothing"}, env.Config.Naming)
	assert.Zero(t, list.Len())
	assert.Empty(t, list.All())
}

func TestIsToggle(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	naming := env.Config.Naming

	assert.True(t, toggles.IsToggle("Hood", types.IntRange(0, 0, 1), naming))
	assert.False(t, toggles.IsToggle("_Hood", types.IntRange(0, 0, 1), naming))
	assert.False(t, toggles.IsToggle("Gloves", types.IntRange(0, 0, 2), naming))
	assert.False(t, toggles.IsToggle("Hood", types.Int(1), naming))
	assert.False(t, toggles.IsToggle("Wetness", types.FloatRange(0, 0, 1), naming))
	assert.False(t, toggles.IsToggle("prop_hierarchy", types.IntRange(0, 0, 1), naming))
}
