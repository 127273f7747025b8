package bones_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/arthur-debert/rigkit/pkg/bones"
	"github.com/arthur-debert/rigkit/pkg/scene"
	"github.com/arthur-debert/rigkit/pkg/testutil"
	"github.com/arthur-debert/rigkit/pkg/types"
)

func bone(name, group string) *scene.Bone {
	b := scene.NewBone(name)
	b.Group = group
	return b
}

func TestPartitionLayers(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	rig := testutil.CiriRig().Bone(
		bone("Bun_1", "Hair_Ciri_Bun,Ciri_Loose"),
		bone("Curl_1", "Hair_Yen_Curls"),
		bone("Corset_Lace", "Outfit_Ciri_Default"),
		bone("Cape_1", "Outfit_Ciri_Winter"),
		bone("Jaw_Ciri", "Character_Ciri"),
		bone("Spine", "Body"),
	).Build()

	touched := bones.PartitionLayers(rig, testutil.CiriSelection(), env.Config.Layers)
	assert.Equal(t, 5, touched)

	layers := env.Config.Layers
	assert.True(t, rig.Bone("Bun_1").Layers[layers.Hair])
	assert.False(t, rig.Bone("Curl_1").Layers[layers.Hair])
	assert.True(t, rig.Bone("Corset_Lace").Layers[layers.Outfit])
	assert.False(t, rig.Bone("Cape_1").Layers[layers.Outfit])
	assert.True(t, rig.Bone("Jaw_Ciri").Layers[layers.Character])
	assert.Equal(t, [32]bool{0: true}, rig.Bone("Spine").Layers)
}

func TestPartitionLayersNeedsCharacter(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	rig := testutil.CiriRig().Bone(bone("Bun_1", "Hair_Ciri_Bun")).Build()
	sel := testutil.CiriSelection()
	sel.Character = "Nobody"

	assert.Zero(t, bones.PartitionLayers(rig, sel, env.Config.Layers))
	assert.False(t, rig.Bone("Bun_1").Layers[env.Config.Layers.Hair])
	assert.True(t, env.LogsContain("character scope not found"))
}

func TestApplyPositions(t *testing.T) {
	testutil.NewTestEnvironment(t)
	eye := scene.NewBone("Eye.L")
	eye.Head = r3.Vec{X: 1, Y: 0, Z: 1}
	eye.Tail = r3.Vec{X: 1, Y: 0.5, Z: 1}
	eye.Props.Set(bones.PositionKey("Eye.L", "Ciri"), types.Vector(2, 0, 3))
	eye.Props.Set(bones.PositionKey("Eye.L", "Yennefer"), types.Vector(9, 9, 9))

	jaw := scene.NewBone("Jaw")
	jaw.Head = r3.Vec{Z: 1}
	jaw.Props.Set(bones.PositionKey("Jaw", "Ciri"), types.Int(1))

	rig := testutil.CiriRig().Bone(eye, jaw).Build()
	rig.MirrorX = true
	rig.SetMode(scene.ModePose)

	moved := bones.ApplyPositions(rig, testutil.CiriSelection())

	assert.Equal(t, 1, moved)
	assert.Equal(t, r3.Vec{X: 2, Y: 0, Z: 3}, eye.Head)
	assert.Equal(t, r3.Vec{X: 2, Y: 0.5, Z: 3}, eye.Tail)
	assert.Equal(t, r3.Vec{Z: 1}, jaw.Head)
	assert.False(t, rig.MirrorX)
	assert.Equal(t, scene.ModePose, rig.Mode())
}
