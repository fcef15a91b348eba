package condition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/charsheet/internal/game/condition"
)

func stunned() *condition.ConditionDef {
	return &condition.ConditionDef{ID: "stunned", Name: "Stunned", MaxStacks: 0}
}

func shaken() *condition.ConditionDef {
	return &condition.ConditionDef{ID: "shaken", Name: "Shaken", MaxStacks: 4}
}

func TestActiveSet_Apply_Unstackable(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(stunned(), 3))
	assert.True(t, s.Has("stunned"))
	assert.Equal(t, 1, s.Stacks("stunned"))

	require.NoError(t, s.Apply(stunned(), 1))
	assert.Equal(t, 1, s.Stacks("stunned"))
}

func TestActiveSet_Apply_StacksAccumulateAndCap(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(shaken(), 2))
	require.NoError(t, s.Apply(shaken(), 1))
	assert.Equal(t, 3, s.Stacks("shaken"))
	require.NoError(t, s.Apply(shaken(), 5))
	assert.Equal(t, 4, s.Stacks("shaken"))
}

func TestActiveSet_Apply_NilDef(t *testing.T) {
	s := condition.NewActiveSet()
	assert.Error(t, s.Apply(nil, 1))
}

func TestActiveSet_Remove(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(stunned(), 1))
	s.Remove("stunned")
	assert.False(t, s.Has("stunned"))
	assert.Equal(t, 0, s.Stacks("stunned"))
	s.Remove("stunned")
	assert.Equal(t, 0, s.Len())
}

func TestActiveSet_AllIsSortedCopy(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(stunned(), 1))
	require.NoError(t, s.Apply(shaken(), 1))
	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, "shaken", all[0].Def.ID)
	assert.Equal(t, "stunned", all[1].Def.ID)
	all[0] = nil
	assert.Len(t, s.All(), 2)
}

func TestPropertyActiveSet_ApplyRemove_HasFalse(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := condition.NewActiveSet()
		stacks := rapid.IntRange(-2, 10).Draw(rt, "stacks")
		require.NoError(rt, s.Apply(shaken(), stacks))
		s.Remove("shaken")
		assert.False(rt, s.Has("shaken"))
	})
}

func TestPropertyActiveSet_StacksNeverExceedMaxStacks(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		maxStacks := rapid.IntRange(0, 6).Draw(rt, "maxStacks")
		def := &condition.ConditionDef{ID: "x", Name: "X", MaxStacks: maxStacks}
		s := condition.NewActiveSet()
		n := rapid.IntRange(1, 10).Draw(rt, "applies")
		for i := 0; i < n; i++ {
			require.NoError(rt, s.Apply(def, rapid.IntRange(1, 5).Draw(rt, "stacks")))
		}
		limit := max(1, maxStacks)
		if s.Stacks("x") > limit || s.Stacks("x") < 1 {
			rt.Fatalf("stacks %d outside [1, %d]", s.Stacks("x"), limit)
		}
	})
}
