package modifiers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/rigkit/pkg/modifiers"
	"github.com/arthur-debert/rigkit/pkg/scene"
	"github.com/arthur-debert/rigkit/pkg/testutil"
)

func physicsScene(t *testing.T) (*testutil.TestEnvironment, *scene.Scene, *scene.Rig) {
	env := testutil.NewTestEnvironment(t)
	s, rig := testutil.CiriScene()

	cape := testutil.Object(rig, "Winter_Cape")
	cape.Color = []float64{0.5, 0.5, 0.5, 1}
	cape.Modifiers = []*scene.Modifier{
		{Name: "Cloth", Type: scene.ModCloth, TimeScale: 1, CacheStart: 1, CacheEnd: 250},
		{Name: "Subdivision", Type: scene.ModSubsurf, RenderLevels: 2},
	}
	body := testutil.Object(rig, "Ciri_Body")
	body.Modifiers = []*scene.Modifier{
		{Name: "Collision", Type: scene.ModCollision},
		{Name: "Phys_SurfaceDeform", Type: scene.ModSurfaceDeform},
		{Name: "SurfaceDeform", Type: scene.ModSurfaceDeform, ShowViewport: true},
	}
	// Grandchildren are not touched
	buckles := testutil.Object(rig, "Corset_Buckles")
	buckles.Modifiers = []*scene.Modifier{{Name: "Cloth", Type: scene.ModCloth, ShowViewport: true}}

	spine := scene.NewBone("Spine")
	spine.Constraints = []*scene.Constraint{{Name: "Phys_Copy"}, {Name: "IK"}}
	rig.Bones = append(rig.Bones, spine)

	rigs := &scene.Collection{Name: "Rigs", Members: []string{rig.Name}}
	rigs.Children = []*scene.Collection{{Name: "Widgets"}, {Name: "MetsRig_Physics", HideViewport: true, HideRender: true}}
	s.Root.Children = append(s.Root.Children, rigs)
	return env, s, rig
}

func TestApplyPhysicsOn(t *testing.T) {
	env, s, rig := physicsScene(t)
	p := modifiers.DefaultPhysics()
	p.Enabled = true
	p.SpeedMultiplier = "1/2"
	p.SetCacheEnd(100, env.Config.Physics)

	report := modifiers.ApplyPhysics(s, rig, &p, env.Config.Physics)

	cape := testutil.Object(rig, "Winter_Cape")
	cloth := cape.Modifiers[0]
	assert.True(t, cloth.ShowViewport)
	assert.True(t, cloth.ShowRender)
	assert.Equal(t, 0.5, cloth.TimeScale)
	assert.Equal(t, 1, cloth.CacheStart)
	assert.Equal(t, 100, cloth.CacheEnd)
	assert.Equal(t, []float64{0, 1, 0, 1}, cape.Color)
	assert.False(t, cape.Modifiers[1].ShowViewport, "subsurf is not a physics modifier")

	body := testutil.Object(rig, "Ciri_Body")
	assert.True(t, body.Modifiers[0].ShowViewport)
	assert.True(t, body.Modifiers[1].ShowViewport)
	assert.True(t, body.Modifiers[2].ShowViewport)
	assert.Equal(t, []float64{1, 0, 0, 1}, body.Color)

	assert.False(t, testutil.Object(rig, "Corset_Buckles").Modifiers[0].ShowRender)

	assert.False(t, rig.Bone("Spine").Constraints[0].Mute)
	assert.Equal(t, "MetsRig_Physics", report.Collection)
	assert.False(t, s.Root.Children[0].Children[1].HideViewport)

	assert.Equal(t, "", p.SpeedMultiplier, "multiplier is one-shot")
	assert.Equal(t, 3, report.Modifiers)
	assert.Equal(t, 1, report.Constraints)
}

func TestApplyPhysicsOffRestoresColors(t *testing.T) {
	env, s, rig := physicsScene(t)
	p := modifiers.DefaultPhysics()
	p.Enabled = true
	modifiers.ApplyPhysics(s, rig, &p, env.Config.Physics)
	// Applying twice must not save the tint as the original color
	modifiers.ApplyPhysics(s, rig, &p, env.Config.Physics)

	p.Enabled = false
	modifiers.ApplyPhysics(s, rig, &p, env.Config.Physics)

	cape := testutil.Object(rig, "Winter_Cape")
	assert.Equal(t, []float64{0.5, 0.5, 0.5, 1}, cape.Color)
	assert.Nil(t, cape.SavedColor)
	assert.False(t, cape.Modifiers[0].ShowViewport)
	assert.True(t, rig.Bone("Spine").Constraints[0].Mute)
	assert.False(t, rig.Bone("Spine").Constraints[1].Mute)
	assert.True(t, s.Root.Children[0].Children[1].HideRender)
	assert.Equal(t, 1.0, cape.Modifiers[0].TimeScale, "no multiplier, no rescale")
}

func TestBadSpeedMultiplier(t *testing.T) {
	env, s, rig := physicsScene(t)
	p := modifiers.DefaultPhysics()
	p.SpeedMultiplier = "fast"

	report := modifiers.ApplyPhysics(s, rig, &p, env.Config.Physics)
	assert.Zero(t, report.Speed)
	assert.Empty(t, p.SpeedMultiplier)
	assert.True(t, env.LogsContain("speed multiplier is not a number"))
}

func TestCacheNudging(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	cfg := env.Config.Physics
	p := modifiers.Physics{CacheStart: 10, CacheEnd: 20}

	p.SetCacheStart(30, cfg)
	assert.Equal(t, 30, p.CacheStart)
	assert.Equal(t, 31, p.CacheEnd)

	p.SetCacheEnd(5, cfg)
	assert.Equal(t, 4, p.CacheStart)
	assert.Equal(t, 5, p.CacheEnd)

	p.SetCacheEnd(0, cfg)
	assert.Equal(t, 1, p.CacheEnd, "end is clamped to its minimum")
	assert.Equal(t, 0, p.CacheStart)

	p.SetCacheStart(-4, cfg)
	assert.Equal(t, 0, p.CacheStart)
}

func TestApplyRenderModifiers(t *testing.T) {
	testutil.NewTestEnvironment(t)
	_, rig := testutil.CiriScene()
	body := testutil.Object(rig, "Ciri_Body")
	body.Modifiers = []*scene.Modifier{
		{Name: "Solidify", Type: scene.ModSolidify},
		{Name: "Bevel", Type: scene.ModBevel, ShowViewport: true},
		{Name: "Subdivision", Type: scene.ModSubsurf, Levels: 1, RenderLevels: 2},
		{Name: "Armature", Type: scene.ModArmature, ShowViewport: true},
	}

	assert.Equal(t, 3, modifiers.ApplyRenderModifiers(rig, true))
	assert.True(t, body.Modifiers[0].ShowViewport)
	assert.Equal(t, 2, body.Modifiers[2].Levels)

	modifiers.ApplyRenderModifiers(rig, false)
	assert.False(t, body.Modifiers[0].ShowViewport)
	assert.False(t, body.Modifiers[1].ShowViewport)
	assert.True(t, body.Modifiers[2].ShowViewport)
	assert.Equal(t, 0, body.Modifiers[2].Levels)
	assert.True(t, body.Modifiers[3].ShowViewport)
}
