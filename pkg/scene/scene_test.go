package scene_test

import (
	"testing"

	"github.com/arthur-debert/rigkit/pkg/scene"
	"github.com/arthur-debert/rigkit/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	added, removed []string
}

func (r *recorder) RigAdded(_ *scene.Scene, rig *scene.Rig)   { r.added = append(r.added, rig.Name) }
func (r *recorder) RigRemoved(_ *scene.Scene, rig *scene.Rig) { r.removed = append(r.removed, rig.Name) }

func TestListenerEvents(t *testing.T) {
	s := scene.New("test")
	s.AddRig(scene.NewRig("Existing"))

	rec := &recorder{}
	s.Subscribe(rec)
	s.AddRig(scene.NewRig("MetsRig"))

	assert.Equal(t, []string{"Existing", "MetsRig"}, rec.added)
	assert.True(t, s.RemoveRig("Existing"))
	assert.False(t, s.RemoveRig("Existing"))
	assert.Equal(t, []string{"Existing"}, rec.removed)
	assert.Nil(t, s.Rig("Existing"))
}

func TestEpochTracksHostVisibleWrites(t *testing.T) {
	s := scene.New("test")
	rig := scene.NewRig("MetsRig")
	body := rig.AddChild(scene.NewObject("Body", scene.TypeMesh))
	s.AddRig(rig)

	start := s.Epoch()
	assert.True(t, body.SetHide(true))
	assert.False(t, body.SetHide(true), "unchanged flags are not a mutation")
	assert.Equal(t, start+1, s.Epoch())

	key := &scene.ShapeKey{Name: "M:Corset==1"}
	body.ShapeKeys = append(body.ShapeKeys, key)
	assert.True(t, body.SetShapeValue(key, 1))
	assert.False(t, body.SetShapeValue(key, 1))

	mask := body.AddVertexGroup("Mask", nil)
	assert.True(t, body.SetWeight(mask, 0, 1))
	assert.False(t, body.SetWeight(mask, 0, 1))
	assert.Equal(t, start+3, s.Epoch())
}

func TestWalkSkipsSubtree(t *testing.T) {
	rig := scene.NewRig("MetsRig")
	coat := rig.AddChild(scene.NewObject("Coat", scene.TypeMesh))
	coat.AddChild(scene.NewObject("Buttons", scene.TypeMesh))
	rig.AddChild(scene.NewObject("Boots", scene.TypeMesh))

	var seen []string
	rig.Walk(func(o *scene.Object) bool {
		seen = append(seen, o.Name)
		return o.Name != "Coat"
	})
	assert.Equal(t, []string{"Coat", "Boots"}, seen)
	assert.Len(t, rig.Descendants(), 3)
}

func TestSetFrameAppliesSteppedKeys(t *testing.T) {
	s := scene.New("test")
	rig := scene.NewRig("MetsRig")
	outfit := types.NewScope("Ciri_Default")
	outfit.Set("Corset", types.IntRange(1, 0, 1))
	rig.AddCharacter(types.NewScope("Ciri"), outfit)
	s.AddRig(rig)

	s.AddKeyframe(scene.Keyframe{Rig: "MetsRig", Scope: "Ciri_Default", Property: "Corset", Frame: 1, Value: 1})
	s.AddKeyframe(scene.Keyframe{Rig: "MetsRig", Scope: "Ciri_Default", Property: "Corset", Frame: 10, Value: 0})

	epoch := s.Epoch()
	assert.Equal(t, 1, s.SetFrame(5))
	v, _ := outfit.Get("Corset")
	assert.Equal(t, 1, v.IntValue())

	s.SetFrame(12)
	v, _ = outfit.Get("Corset")
	assert.Equal(t, 0, v.IntValue())
	assert.Equal(t, 12, s.Frame())
	assert.Equal(t, epoch, s.Epoch(), "playback does not look like an edit")
}

func TestNodeTreeLinks(t *testing.T) {
	tree := scene.NewNodeTree("Ciri_Body")
	value := tree.AddNode(scene.ValueNode("Face", 2))
	reroute := tree.AddNode(scene.RerouteNode("Reroute"))
	selector := tree.AddNode(scene.GroupNode("SELECTOR_GROUP.001", nil, 3))

	tree.Connect(value, 0, reroute, 0)
	tree.Connect(reroute, 0, selector, 0)

	link := selector.InputLink(0)
	require.NotNil(t, link)
	assert.Same(t, reroute, link.From)
	assert.Equal(t, "Output", link.FromName())
	assert.Nil(t, selector.InputLink(1))

	// Reconnecting replaces the previous link
	tree.Connect(value, 0, selector, 0)
	assert.Same(t, value, selector.InputLink(0).From)
	assert.Len(t, tree.Links, 2)
}

func TestCollections(t *testing.T) {
	s := scene.New("test")
	rigs := &scene.Collection{Name: "Rigs", Members: []string{"MetsRig"}}
	rigs.Children = append(rigs.Children, &scene.Collection{Name: "MetsRig_Phys"})
	s.Root.Children = append(s.Root.Children, rigs)

	assert.Same(t, rigs, s.CollectionOf("MetsRig"))
	assert.Nil(t, s.CollectionOf("Other"))
}
