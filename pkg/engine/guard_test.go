package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/rigkit/pkg/testutil"
)

func TestGuardContainsPanics(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	e := New(env.Config)

	ran := false
	assert.NotPanics(t, func() {
		e.guard("MetsRig", "post", func() { panic("boom") })
		e.guard("Other", "post", func() { ran = true })
	})
	assert.True(t, ran, "later rigs still run")
	assert.True(t, env.LogsContain("hook failed for rig", "MetsRig", "boom"))
}

func TestQueueDeduplicates(t *testing.T) {
	testutil.NewTestEnvironment(t)
	e := New(nil)
	e.enqueue("b")
	e.enqueue("a")
	e.enqueue("b")
	assert.Equal(t, []string{"b", "a"}, e.Pending())
	assert.Equal(t, []string{"b", "a"}, e.drain())
	assert.Empty(t, e.Pending())
}
