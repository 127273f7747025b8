package visibility_test

import (
	"testing"

	"github.com/arthur-debert/rigkit/pkg/testutil"
	"github.com/arthur-debert/rigkit/pkg/types"
	"github.com/arthur-debert/rigkit/pkg/visibility"
	"github.com/stretchr/testify/assert"
)

func newResolver(t *testing.T, sel types.Selection) (*visibility.Resolver, *testutil.TestEnvironment) {
	env := testutil.NewTestEnvironment(t)
	rig := testutil.CiriRig().Build()
	return visibility.New(rig, sel, env.Config.Naming), env
}

func TestResolvePropertyMatch(t *testing.T) {
	r, _ := newResolver(t, testutil.CiriSelection())

	tests := []struct {
		name  string
		props *types.Scope
		want  visibility.Result
	}{
		{"no metadata", testutil.Scope("x"), visibility.Unknown},
		{"outfit allow-list", testutil.Scope("x", "Outfit", "Ciri_Winter, Ciri_Default"), visibility.True},
		{"outfit not listed", testutil.Scope("x", "Outfit", "Ciri_Winter"), visibility.False},
		{"character allow-list", testutil.Scope("x", "Character", "Ciri"), visibility.True},
		{"hair allow-list", testutil.Scope("x", "Hair", "Ciri_Loose"), visibility.False},
		{"int requirement", testutil.Scope("x", "Outfit", "Ciri_Default", "Corset", 1), visibility.True},
		{"int requirement mismatch", testutil.Scope("x", "Outfit", "Ciri_Default", "Hood", 1), visibility.False},
		{"set requirement", testutil.Scope("x", "Outfit", "Ciri_Default", "Gloves", []int{1, 2}), visibility.True},
		{"set requirement mismatch", testutil.Scope("x", "Outfit", "Ciri_Default", "Gloves", []int{0, 2}), visibility.False},
		{"templated requirement", testutil.Scope("x", "Outfit", "Ciri_Default", "Gloves", "#>=1"), visibility.True},
		{"templated requirement fails", testutil.Scope("x", "Outfit", "Ciri_Default", "Gloves", "#==2"), visibility.False},
		{"plain text is no requirement", testutil.Scope("x", "Outfit", "Ciri_Default", "Gloves", "leather"), visibility.True},
		{"character scope requirement", testutil.Scope("x", "Character", "Ciri", "Face", 1), visibility.True},
		{"property outside scopes ignored", testutil.Scope("x", "Outfit", "Ciri_Default", "Belt", 1), visibility.True},
		{"unsupported float requirement", testutil.Scope("x", "Outfit", "Ciri_Default", "Corset", 1.0), visibility.False},
		{"malformed template", testutil.Scope("x", "Outfit", "Ciri_Default", "Gloves", "#=1"), visibility.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve("item", tt.props))
		})
	}
}

func TestResolveExpression(t *testing.T) {
	r, _ := newResolver(t, testutil.CiriSelection())

	tests := []struct {
		name string
		src  string
		want visibility.Result
	}{
		{"sentinels", "Outfit=='Ciri_Default' and Hair=='Ciri_Bun'", visibility.True},
		{"outfit property", "Outfit=='Ciri_Default' and Corset==1", visibility.True},
		{"character property", "Character=='Ciri' and Face==2", visibility.False},
		{"short circuit keeps unknown names out", "Outfit=='Ciri_Winter' and Cape==1", visibility.False},
		{"unresolved name", "Cape==1", visibility.Unknown},
		{"division", "Corset/0", visibility.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props := testutil.Scope("x", "Expression", tt.src)
			assert.Equal(t, tt.want, r.Resolve("item", props))
		})
	}
}

func TestMatchGateShortCircuitsExpression(t *testing.T) {
	r, env := newResolver(t, testutil.CiriSelection())

	// The expression would fail if it were evaluated
	props := testutil.Scope("x", "Outfit", "Ciri_Winter", "Expression", "1/0")
	assert.Equal(t, visibility.False, r.Resolve("Winter_Cape", props))
	assert.NotContains(t, env.Logs(), "division")

	// A passing gate hands over to the expression
	props = testutil.Scope("x", "Outfit", "Ciri_Default", "Expression", "Hood==1")
	assert.Equal(t, visibility.False, r.Resolve("Hood", props))
	props = testutil.Scope("x", "Outfit", "Ciri_Default", "Expression", "Hood==0")
	assert.Equal(t, visibility.True, r.Resolve("Hood", props))
}

func TestUndecidedGateHidesExpressionItem(t *testing.T) {
	r, env := newResolver(t, testutil.CiriSelection())

	gate := testutil.Scope("x", "Outfit", "Ciri_Default", "Gloves", "#=1")
	assert.Equal(t, visibility.Unknown, r.Resolve("Gloves", gate))

	gated := testutil.Scope("x", "Outfit", "Ciri_Default", "Gloves", "#=1", "Expression", "True")
	assert.Equal(t, visibility.False, r.Resolve("Gloves", gated))
	assert.True(t, env.LogsContain("invalid templated requirement", "Gloves"))
}

func TestUnsupportedRequirementIsLogged(t *testing.T) {
	r, env := newResolver(t, testutil.CiriSelection())
	props := testutil.Scope("x", "Outfit", "Ciri_Default", "Corset", []float64{1, 0, 0})
	assert.Equal(t, visibility.False, r.Resolve("Corset", props))
	assert.True(t, env.LogsContain(`"level":"error"`, "unsupported requirement type", "Corset"))
}

func TestResolveName(t *testing.T) {
	sel := testutil.CiriSelection()

	tests := []struct {
		name   string
		rule   string
		weight float64
		known  bool
	}{
		{"not a rule", "Mask", 0, false},
		{"outfit scope", "M:Ciri_Default:Corset==1", 1, true},
		{"listed among others", "M:Ciri_Winter,Ciri_Default:Corset==1", 1, true},
		{"scope not active", "M:OutfitA,OutfitB:Corset==1", 0, true},
		{"character scope", "M:Ciri:Face==1", 1, true},
		{"literal true", "M:Ciri_Default:True", 1, true},
		{"literal false", "M:Ciri:False", 0, true},
		{"no scope list", "M:Hood==1", 0, true},
		{"chained comparison", "M:Ciri_Default:Corset==1*Gloves==1", 1, true},
		{"graded numeric", "M:Gloves/2", 0.5, true},
		{"empty scope list", "M::Corset==1", 1, true},
		{"unresolved name", "M:Cape==1", 0, false},
		{"too many fields", "M:a:b:c", 0, false},
		{"malformed expression", "M:Corset=1", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newResolver(t, sel)
			weight, known := r.ResolveName("Body", tt.rule)
			assert.Equal(t, tt.known, known)
			assert.InDelta(t, tt.weight, weight, 1e-9)
		})
	}
}

func TestResolveNameScopingSkipsExpression(t *testing.T) {
	sel := testutil.CiriSelection()
	sel.Outfit = "Ciri_Winter"
	r, env := newResolver(t, sel)

	// Neither listed outfit is active, so the broken expression is never evaluated
	weight, known := r.ResolveName("Body", "M:OutfitA,OutfitB:1/0")
	assert.True(t, known)
	assert.Zero(t, weight)
	assert.NotContains(t, env.Logs(), "division")
}

func TestResolveNameWithoutOutfit(t *testing.T) {
	sel := testutil.CiriSelection()
	sel.Outfit = "Missing"
	r, _ := newResolver(t, sel)

	_, known := r.ResolveName("Body", "M:Ciri:True")
	assert.False(t, known)
}

func TestCiriScenario(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	rig := testutil.CiriRig().Build()
	sel := testutil.CiriSelection()
	naming := env.Config.Naming
	corset := testutil.Object(rig, "Corset")

	assert.Equal(t, visibility.True, visibility.New(rig, sel, naming).ResolveObject(corset))

	rig.Outfit("Ciri_Default").SetNumber("Corset", 0)
	assert.Equal(t, visibility.False, visibility.New(rig, sel, naming).ResolveObject(corset))
}
