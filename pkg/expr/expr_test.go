package expr_test

import (
	"testing"

	"github.com/arthur-debert/rigkit/pkg/errors"
	"github.com/arthur-debert/rigkit/pkg/expr"
	"github.com/arthur-debert/rigkit/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	env := expr.Vars{
		"Top":       expr.Number(1),
		"Top_Layer": expr.Number(0),
		"Corset":    expr.Number(1),
		"Hood":      expr.Number(2),
		"Outfit":    expr.String("Ciri_Default"),
		"#":         expr.Number(3),
	}

	tests := []struct {
		name string
		src  string
		want expr.Value
	}{
		{"integer literal", "42", expr.Number(42)},
		{"float literal", ".5 + 1.5e1", expr.Number(15.5)},
		{"equality", "Corset==1", expr.Bool(true)},
		{"partial names do not collide", "Top==1 and Top_Layer==0", expr.Bool(true)},
		{"product binds before chained comparison", "Corset==1*Top==1", expr.Bool(true)},
		{"chained comparison mismatch", "Corset==1*Hood==2", expr.Bool(false)},
		{"chained comparison first link fails", "Corset==1*Hood==1", expr.Bool(false)},
		{"text comparison", "Outfit=='Ciri_Default'", expr.Bool(true)},
		{"double quoted", `Outfit != "Ciri_Winter"`, expr.Bool(true)},
		{"or returns operand", "0 or Hood", expr.Number(2)},
		{"and returns operand", "Hood and 0", expr.Number(0)},
		{"not", "not Corset", expr.Bool(false)},
		{"precedence", "1 + 2 * 3", expr.Number(7)},
		{"parentheses", "(1 + 2) * 3", expr.Number(9)},
		{"unary minus", "-Hood + 3", expr.Number(1)},
		{"chained comparison", "1 < Hood <= 2", expr.Bool(true)},
		{"chained comparison fails", "1 < Hood < 2", expr.Bool(false)},
		{"placeholder", "#>2", expr.Bool(true)},
		{"boolean literal", "True", expr.Bool(true)},
		{"mixed equality", "Outfit == 1", expr.Bool(false)},
		{"string concatenation", "'a' + 'b'", expr.String("ab")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expr.Evaluate(tt.src, env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateFailures(t *testing.T) {
	env := expr.Vars{"Hood": expr.Number(1), "Outfit": expr.String("A")}

	tests := []struct {
		name string
		src  string
		code errors.ErrorCode
	}{
		{"unresolved name", "Missing == 1", errors.ErrUnresolvedName},
		{"division by zero", "Hood / 0", errors.ErrDivision},
		{"single equals", "Hood = 1", errors.ErrExpression},
		{"unbalanced", "(Hood == 1", errors.ErrExpression},
		{"trailing tokens", "Hood 1", errors.ErrExpression},
		{"empty", "   ", errors.ErrExpression},
		{"unterminated string", "'abc", errors.ErrExpression},
		{"ordering text and number", "Outfit < 1", errors.ErrExpression},
		{"arithmetic on text", "Outfit * 2", errors.ErrExpression},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expr.Evaluate(tt.src, env)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", errors.GetErrorCode(err))
			assert.False(t, got.Known())

			// The lenient entry point never fails
			assert.Equal(t, expr.Unknown, expr.Eval(tt.src, env))
		})
	}
}

func TestShortCircuitSkipsBrokenOperand(t *testing.T) {
	got, err := expr.Evaluate("0 and Missing == 1", expr.Vars{})
	require.NoError(t, err)
	assert.False(t, got.Truthy())

	got, err = expr.Evaluate("1 or 1/0", expr.Vars{})
	require.NoError(t, err)
	assert.True(t, got.Truthy())
}

func TestCompileCachesPrograms(t *testing.T) {
	a, err := expr.Compile("Corset == 1 and Hood == Corset")
	require.NoError(t, err)
	b, err := expr.Compile("Corset == 1 and Hood == Corset")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, []string{"Corset", "Hood"}, a.Identifiers())
}

func TestScopeEnv(t *testing.T) {
	outfit := types.NewScope("Ciri_Default")
	outfit.Set("Corset", types.IntRange(1, 0, 1))
	character := types.NewScope("Ciri")
	character.Set("Corset", types.IntRange(0, 0, 1))
	character.Set("Face", types.Int(2))
	character.Set("Eye", types.Vector(1, 1, 1))

	env := expr.ScopeEnv{outfit, character}

	v := expr.Eval("Corset == 1 and Face == 2", env)
	assert.Equal(t, expr.Bool(true), v)

	// Vectors have no scalar form
	_, err := expr.Evaluate("Eye == 1", env)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnresolvedName))
}

func TestChain(t *testing.T) {
	env := expr.Chain(expr.Vars{"Outfit": expr.String("A")}, nil, expr.Vars{"Outfit": expr.String("B"), "X": expr.Number(1)})
	assert.Equal(t, expr.Bool(true), expr.Eval("Outfit == 'A' and X == 1", env))
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "True", expr.Bool(true).String())
	assert.Equal(t, "2", expr.Number(2).String())
	assert.Equal(t, "0.25", expr.Number(0.25).String())
	assert.Equal(t, `"Ciri"`, expr.String("Ciri").String())
	assert.Equal(t, "<unknown>", expr.Unknown.String())
}
