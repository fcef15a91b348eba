package scripting_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/charsheet/internal/scripting"
)

func attrs(values map[string]float64) scripting.Lookup {
	return func(id string) float64 {
		if v, ok := values[id]; ok {
			return v
		}
		return math.Inf(-1)
	}
}

func TestEval_Literal(t *testing.T) {
	e := scripting.NewEvaluator(0)
	defer e.Close()
	v, err := e.Eval("10", nil)
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)
}

func TestEval_EmptyIsZero(t *testing.T) {
	e := scripting.NewEvaluator(0)
	defer e.Close()
	v, err := e.Eval("  ", nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestEval_AttributeReferences(t *testing.T) {
	e := scripting.NewEvaluator(0)
	defer e.Close()
	lookup := attrs(map[string]float64{"dx": 12, "ht": 11})
	v, err := e.Eval("(dx + ht) / 4", lookup)
	require.NoError(t, err)
	assert.Equal(t, 5.75, v)

	v, err = e.Eval("math.floor(($dx + $ht) / 4)", lookup)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)
}

func TestEval_UnknownIdentifierUsesLookup(t *testing.T) {
	e := scripting.NewEvaluator(0)
	defer e.Close()
	v, err := e.Eval("luck + 1", attrs(nil))
	require.NoError(t, err)
	assert.True(t, math.IsInf(v, -1))
}

func TestEval_NestedEvaluationFromLookup(t *testing.T) {
	e := scripting.NewEvaluator(0)
	defer e.Close()
	var lookup scripting.Lookup
	lookup = func(id string) float64 {
		if id == "hp" {
			v, err := e.Eval("st * 2", lookup)
			require.NoError(t, err)
			return v
		}
		return 10
	}
	v, err := e.Eval("hp + 1", lookup)
	require.NoError(t, err)
	assert.Equal(t, 21.0, v)
}

func TestEval_SyntaxError(t *testing.T) {
	e := scripting.NewEvaluator(0)
	defer e.Close()
	_, err := e.Eval("st +", attrs(nil))
	assert.Error(t, err)
}

func TestEval_NonNumericResult(t *testing.T) {
	e := scripting.NewEvaluator(0)
	defer e.Close()
	_, err := e.Eval(`"ten"`, attrs(nil))
	assert.ErrorContains(t, err, "not a number")
}

func TestEval_RunawayFormulaIsStopped(t *testing.T) {
	e := scripting.NewEvaluator(50)
	defer e.Close()
	_, err := e.Eval("(function() while true do end end)()", attrs(nil))
	assert.Error(t, err)

	// The evaluator stays usable after a limit error.
	v, err := e.Eval("1 + 1", attrs(nil))
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
}

// Property: a linear formula agrees with Go arithmetic.
func TestPropertyEval_LinearFormula(t *testing.T) {
	e := scripting.NewEvaluator(0)
	defer e.Close()
	rapid.Check(t, func(rt *rapid.T) {
		st := float64(rapid.IntRange(1, 30).Draw(rt, "st"))
		k := float64(rapid.IntRange(1, 5).Draw(rt, "k"))
		v, err := e.Eval("st * k + 3", attrs(map[string]float64{"st": st, "k": k}))
		if err != nil {
			rt.Fatal(err)
		}
		if v != st*k+3 {
			rt.Fatalf("got %v want %v", v, st*k+3)
		}
	})
}
