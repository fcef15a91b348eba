package criteria_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/charsheet/internal/game/criteria"
)

func TestString_ZeroValueMatchesEverything(t *testing.T) {
	var s criteria.String
	assert.True(t, s.Matches("Broadsword"))
	assert.True(t, s.Matches(""))
}

func TestString_IsIgnoresCase(t *testing.T) {
	s := criteria.IsString("Karate")
	assert.True(t, s.Matches("karate"))
	assert.False(t, s.Matches("Judo"))
}

func TestString_Compares(t *testing.T) {
	cases := []struct {
		compare criteria.StringCompare
		value   string
		want    bool
	}{
		{criteria.Contains, "Broadsword", true},
		{criteria.DoesNotContain, "Broadsword", false},
		{criteria.StartsWith, "Broadsword", true},
		{criteria.DoesNotStartWith, "Shortsword", true},
		{criteria.EndsWith, "Broadsword", false},
		{criteria.DoesNotEndWith, "Broadsword", true},
		{criteria.IsNot, "Axe", true},
	}
	for _, tc := range cases {
		s := criteria.String{Compare: tc.compare, Qualifier: "broad"}
		assert.Equal(t, tc.want, s.Matches(tc.value), "%s %q", tc.compare, tc.value)
	}
}

func TestString_MatchesList_PositiveNeedsOne(t *testing.T) {
	s := criteria.IsString("melee")
	assert.True(t, s.MatchesList("ranged", "melee"))
	assert.False(t, s.MatchesList("ranged"))
	assert.False(t, s.MatchesList())
}

func TestString_MatchesList_NegatedNeedsAll(t *testing.T) {
	s := criteria.String{Compare: criteria.IsNot, Qualifier: "melee"}
	assert.False(t, s.MatchesList("ranged", "melee"))
	assert.True(t, s.MatchesList("ranged"))
	assert.True(t, s.MatchesList())
}

func TestString_ValidateRejectsUnknown(t *testing.T) {
	assert.Error(t, criteria.String{Compare: "like"}.Validate())
	assert.NoError(t, criteria.String{}.Validate())
}

func TestNumeric_Compares(t *testing.T) {
	assert.True(t, criteria.Numeric{Compare: criteria.AtLeast, Qualifier: 12}.Matches(12))
	assert.False(t, criteria.Numeric{Compare: criteria.AtLeast, Qualifier: 12}.Matches(11))
	assert.True(t, criteria.Numeric{Compare: criteria.AtMost, Qualifier: 12}.Matches(3))
	assert.True(t, criteria.Numeric{Compare: criteria.Equals, Qualifier: 2}.Matches(2))
	assert.True(t, criteria.Numeric{Compare: criteria.NotEquals, Qualifier: 2}.Matches(3))
	assert.True(t, criteria.Numeric{}.Matches(-100))
}

func TestNumeric_Describe(t *testing.T) {
	assert.Equal(t, "at least 12", criteria.Numeric{Compare: criteria.AtLeast, Qualifier: 12}.Describe())
	assert.Equal(t, "any value", criteria.Numeric{}.Describe())
}

// Property: a negated compare always disagrees with its positive form on a single value.
func TestPropertyString_NegationIsComplement(t *testing.T) {
	pairs := [][2]criteria.StringCompare{
		{criteria.Is, criteria.IsNot},
		{criteria.Contains, criteria.DoesNotContain},
		{criteria.StartsWith, criteria.DoesNotStartWith},
		{criteria.EndsWith, criteria.DoesNotEndWith},
	}
	rapid.Check(t, func(rt *rapid.T) {
		pair := pairs[rapid.IntRange(0, len(pairs)-1).Draw(rt, "pair")]
		q := rapid.StringMatching(`[a-c]{0,3}`).Draw(rt, "qualifier")
		v := rapid.StringMatching(`[a-c]{0,5}`).Draw(rt, "value")
		pos := criteria.String{Compare: pair[0], Qualifier: q}.Matches(v)
		neg := criteria.String{Compare: pair[1], Qualifier: q}.Matches(v)
		if pos == neg {
			rt.Fatalf("%s and %s agree on %q/%q", pair[0], pair[1], q, v)
		}
	})
}
