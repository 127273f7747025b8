package host_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/rigkit/pkg/errors"
	"github.com/arthur-debert/rigkit/pkg/host"
	"github.com/arthur-debert/rigkit/pkg/scene"
	"github.com/arthur-debert/rigkit/pkg/testutil"
)

// recorder logs hook calls and optionally flips an object's hide flag
type recorder struct {
	calls      []string
	flipInPre  *scene.Object
	flipInPost *scene.Object
	postFlips  int
}

func (r *recorder) PreUpdate(*scene.Scene) {
	r.calls = append(r.calls, "pre")
	if r.flipInPre != nil {
		r.flipInPre.SetHide(!r.flipInPre.HideViewport())
	}
}

func (r *recorder) PostUpdate(*scene.Scene) {
	r.calls = append(r.calls, "post")
	if r.flipInPost != nil && r.postFlips > 0 {
		r.flipInPost.SetHide(!r.flipInPost.HideViewport())
		r.postFlips--
	}
}

func (r *recorder) FrameChanged(*scene.Scene) {
	r.calls = append(r.calls, "frame")
}

func TestUpdateSettles(t *testing.T) {
	testutil.NewTestEnvironment(t)
	s, _ := testutil.CiriScene()
	rec := &recorder{}
	evaluated := 0
	d := host.New(s, rec, 0)
	d.Evaluate = func(*scene.Scene) { evaluated++ }

	passes, err := d.Update()
	require.NoError(t, err)
	assert.Equal(t, 1, passes)
	assert.Equal(t, []string{"pre", "post"}, rec.calls)
	assert.Equal(t, 1, evaluated)
	assert.Equal(t, host.DefaultMaxPasses, d.MaxPasses)
}

func TestPostWritesTriggerOneMorePass(t *testing.T) {
	testutil.NewTestEnvironment(t)
	s, rig := testutil.CiriScene()
	rec := &recorder{flipInPost: testutil.Object(rig, "Hood"), postFlips: 1}

	passes, err := host.New(s, rec, 4).Update()
	require.NoError(t, err)
	assert.Equal(t, 2, passes)
	assert.Equal(t, []string{"pre", "post", "pre", "post"}, rec.calls)
}

func TestPreWritesAreReentrant(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	s, rig := testutil.CiriScene()
	rec := &recorder{flipInPre: testutil.Object(rig, "Hood")}

	passes, err := host.New(s, rec, 3).Update()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrReentrant))
	assert.Equal(t, 3, passes)
	assert.True(t, env.LogsContain("scene changed during pre-update hook"))
}

func TestSetFrameFiresFrameHook(t *testing.T) {
	testutil.NewTestEnvironment(t)
	s, _ := testutil.CiriScene()
	s.AddKeyframe(scene.Keyframe{Rig: "MetsRig", Scope: "Ciri_Default", Property: "Hood", Frame: 10, Value: 1})
	rec := &recorder{}

	assert.Equal(t, 1, host.New(s, rec, 0).SetFrame(12))
	assert.Equal(t, []string{"frame"}, rec.calls)

	v, _ := s.Rig("MetsRig").Outfit("Ciri_Default").Get("Hood")
	assert.Equal(t, 1, v.IntValue())
	assert.Equal(t, 12, s.Frame())
}
