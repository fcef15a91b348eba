package reaction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/charsheet/internal/game/feature"
	"github.com/cory-johannsen/charsheet/internal/game/reaction"
)

func TestCollector_MergesBySituationKeepingFirstSource(t *testing.T) {
	var c reaction.Collector
	c.Add("from cats", -2, "Odious Habit")
	c.Add("from dogs", 1, "Animal Empathy")
	c.Add("from cats", 3, "Catnip Cologne")

	assert.Equal(t, []reaction.Entry{
		{Situation: "from cats", Amount: 1, Source: "Odious Habit"},
		{Situation: "from dogs", Amount: 1, Source: "Animal Empathy"},
	}, c.Entries())
}

func TestCollector_AddFeaturesFiltersByKindAndStampsLevels(t *testing.T) {
	l := feature.List{
		feature.ReactionBonus{Leveled: feature.Leveled{Amount: 1, PerLevel: true}, Situation: "from everyone"},
		feature.ConditionalModifier{Leveled: feature.Leveled{Amount: 2}, Situation: "at night"},
		feature.AttributeBonus{Leveled: feature.Leveled{Amount: 5}, Attribute: "st"},
	}
	var reactions, mods reaction.Collector
	reactions.AddFeatures(feature.KindReactionBonus, l, 3, "Appearance")
	mods.AddFeatures(feature.KindConditionalModifier, l, 3, "Night Vision")

	assert.Equal(t, []reaction.Entry{{Situation: "from everyone", Amount: 3, Source: "Appearance"}}, reactions.Entries())
	assert.Equal(t, []reaction.Entry{{Situation: "at night", Amount: 2, Source: "Night Vision"}}, mods.Entries())
}

func TestCollector_EmptyHasNoEntries(t *testing.T) {
	var c reaction.Collector
	assert.Empty(t, c.Entries())
}

// Property: each situation's total is the sum of its contributions
// regardless of order.
func TestPropertyCollector_SumsAreOrderIndependent(t *testing.T) {
	type contrib struct {
		situation string
		amount    float64
	}
	gen := rapid.Custom(func(rt *rapid.T) contrib {
		return contrib{
			situation: rapid.SampledFrom([]string{"a", "b", "c"}).Draw(rt, "situation"),
			amount:    float64(rapid.IntRange(-5, 5).Draw(rt, "amount")),
		}
	})
	rapid.Check(t, func(rt *rapid.T) {
		cs := rapid.SliceOf(gen).Draw(rt, "contribs")
		perm := rapid.Permutation(cs).Draw(rt, "perm")
		var x, y reaction.Collector
		for _, c := range cs {
			x.Add(c.situation, c.amount, "src")
		}
		for _, c := range perm {
			y.Add(c.situation, c.amount, "src")
		}
		totals := func(c *reaction.Collector) map[string]float64 {
			m := make(map[string]float64)
			for _, e := range c.Entries() {
				m[e.Situation] = e.Amount
			}
			return m
		}
		assert.Equal(rt, totals(&x), totals(&y))
	})
}
