package character

import (
	"github.com/cory-johannsen/charsheet/internal/game/feature"
	"github.com/cory-johannsen/charsheet/internal/game/reaction"
)

// aggregate builds fresh buckets from every contributing carrier: enabled
// traits and their enabled modifiers, all skills, equipped carried items and
// their enabled modifiers, and active conditions stamped with their stacks.
//
// Postcondition: The result does not depend on carrier order.
func (c *Character) aggregate() *feature.Buckets {
	b := feature.NewBuckets()
	walkTraits(c.traits, true, func(t *Trait) {
		b.AddList(t.Features, t.Levels, t.Name)
		b.AddList(t.CRAdj.Features(t.CR), 0, t.Name)
		addModifiers(b, t.Modifiers, t.Name)
	})
	for _, s := range c.skills {
		b.AddList(s.Features, 0, s.Name)
	}
	walkEquipment(c.carried, func(e *Equipment) {
		if !e.Equipped {
			return
		}
		b.AddList(e.Features, e.Levels, e.Name)
		addModifiers(b, e.Modifiers, e.Name)
	})
	for _, ac := range c.conditions.All() {
		b.AddList(ac.Def.Features, ac.Stacks, ac.Def.Name)
	}
	return b
}

func addModifiers(b *feature.Buckets, ms []*Modifier, owner string) {
	for _, m := range ms {
		if m.Disabled {
			continue
		}
		b.AddList(m.Features, m.Levels, owner)
	}
}

// collect walks the same carriers as aggregate and merges the features of
// kind by situation. Trait self-control reaction penalties are included when
// kind is feature.KindReactionBonus.
func (c *Character) collect(kind feature.Kind) []reaction.Entry {
	var col reaction.Collector
	walkTraits(c.traits, true, func(t *Trait) {
		col.AddFeatures(kind, t.Features, t.Levels, t.Name)
		for _, m := range t.Modifiers {
			if !m.Disabled {
				col.AddFeatures(kind, m.Features, m.Levels, t.Name)
			}
		}
		if kind != feature.KindReactionBonus {
			return
		}
		if situation, amount, ok := t.CRAdj.Reaction(t.CR); ok {
			col.Add(situation, amount, t.Name)
		}
	})
	walkEquipment(c.carried, func(e *Equipment) {
		if !e.Equipped {
			return
		}
		col.AddFeatures(kind, e.Features, e.Levels, e.Name)
		for _, m := range e.Modifiers {
			if !m.Disabled {
				col.AddFeatures(kind, m.Features, m.Levels, e.Name)
			}
		}
	})
	for _, s := range c.skills {
		col.AddFeatures(kind, s.Features, 0, s.Name)
	}
	for _, ac := range c.conditions.All() {
		col.AddFeatures(kind, ac.Def.Features, ac.Stacks, ac.Def.Name)
	}
	return col.Entries()
}

// Reactions returns the reaction modifiers merged by situation. The source
// of each entry is its first contributor.
func (c *Character) Reactions() []reaction.Entry {
	return c.collect(feature.KindReactionBonus)
}

// ConditionalModifiers returns the conditional modifiers merged by
// situation.
func (c *Character) ConditionalModifiers() []reaction.Entry {
	return c.collect(feature.KindConditionalModifier)
}
