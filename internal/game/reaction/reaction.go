// Package reaction merges reaction bonuses and conditional modifiers by their
// free-text situation.
package reaction

import (
	"github.com/cory-johannsen/charsheet/internal/game/feature"
)

// Entry is the merged total for one situation.
type Entry struct {
	Situation string  `json:"situation"`
	Amount    float64 `json:"amount"`
	// Source is the first contributor seen for the situation. Later
	// contributors add to Amount without changing it.
	Source string `json:"source"`
}

// Collector merges entries keyed by situation in first-seen order.
// The zero value is ready to use.
type Collector struct {
	entries []Entry
	index   map[string]int
}

// Add merges amount into situation.
func (c *Collector) Add(situation string, amount float64, source string) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[situation]; ok {
		c.entries[i].Amount += amount
		return
	}
	c.index[situation] = len(c.entries)
	c.entries = append(c.entries, Entry{Situation: situation, Amount: amount, Source: source})
}

// AddFeatures merges every feature of kind in l, stamped with the carrier's
// levels. kind must be feature.KindReactionBonus or
// feature.KindConditionalModifier; other features are ignored.
func (c *Collector) AddFeatures(kind feature.Kind, l feature.List, levels int, source string) {
	for _, f := range l {
		if f.Kind() != kind {
			continue
		}
		switch v := feature.Stamp(f, levels, source).(type) {
		case feature.ReactionBonus:
			c.Add(v.Situation, v.AdjustedAmount(), source)
		case feature.ConditionalModifier:
			c.Add(v.Situation, v.AdjustedAmount(), source)
		}
	}
}

// Entries returns a copy of the merged entries in first-seen order.
func (c *Collector) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}
