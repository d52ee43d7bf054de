package formula

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelworks/sift/internal/prompt"
)

func resolve(t *testing.T, seed string, amount float64, responses ...string) (string, decimal.Decimal, bool, *prompt.ScriptLiner) {
	t.Helper()

	liner := prompt.NewScriptLiner(responses...)
	r := NewResolver(ExprEvaluator{}, liner, &bytes.Buffer{})

	formula, value, accepted, err := r.Resolve(context.Background(), seed, decimal.NewFromFloat(amount))
	require.NoError(t, err)
	return formula, value, accepted, liner
}

func TestResolveAcceptsSavedFormula(t *testing.T) {
	// Saved formula, user confirms the computed value.
	formula, value, accepted, liner := resolve(t, "amount * 0.5", -42.10, "y")

	assert.True(t, accepted)
	assert.Equal(t, "amount * 0.5", formula)
	assert.Equal(t, "21.05", value.StringFixed(2))
	require.Len(t, liner.Requests, 1)
	assert.Equal(t, prompt.KindConfirm, liner.Requests[0].Kind)
}

func TestResolveRejectionRepromptsForFormula(t *testing.T) {
	formula, value, accepted, liner := resolve(t, "amount * 0.5", -100,
		"n",          // reject 50.00
		"amount - 5", // new formula
		"",           // accept 95.00 (default yes)
	)

	assert.True(t, accepted)
	assert.Equal(t, "amount - 5", formula)
	assert.Equal(t, "95.00", value.StringFixed(2))
	assert.Equal(t, prompt.KindFormula, liner.Requests[1].Kind)
}

func TestResolveBlankAborts(t *testing.T) {
	formula, _, accepted, _ := resolve(t, "", -100, "")

	assert.False(t, accepted)
	assert.Empty(t, formula)
}

func TestResolveMalformedFormulaReprompts(t *testing.T) {
	var out bytes.Buffer
	liner := prompt.NewScriptLiner("amount *", "amount * 2", "y")
	r := NewResolver(ExprEvaluator{}, liner, &out)

	formula, value, accepted, err := r.Resolve(context.Background(), "", decimal.NewFromFloat(-10))
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, "amount * 2", formula)
	assert.Equal(t, "20.00", value.StringFixed(2))
	assert.NotEmpty(t, out.String())
}

func TestResolveUsesAbsoluteAmount(t *testing.T) {
	_, value, accepted, _ := resolve(t, "amount", -42.10, "y")

	assert.True(t, accepted)
	assert.Equal(t, "42.10", value.StringFixed(2))
}

func TestResolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewResolver(ExprEvaluator{}, prompt.NewScriptLiner(), &bytes.Buffer{})
	_, _, _, err := r.Resolve(ctx, "amount", decimal.NewFromFloat(-10))
	assert.ErrorIs(t, err, prompt.ErrCancelled)
}
