// Package character owns a character's entity forest and computes every
// derived value from it: attributes, skill and spell levels, encumbrance,
// hit locations, reactions, and the conditions driven by pool thresholds.
package character

import (
	"github.com/cory-johannsen/charsheet/internal/game/feature"
	"github.com/cory-johannsen/charsheet/internal/game/prereq"
)

// Modifier is a feature carrier nested under a trait or an item.
type Modifier struct {
	ID       string       `yaml:"id"`
	Name     string       `yaml:"name"`
	Disabled bool         `yaml:"disabled,omitempty"`
	Levels   int          `yaml:"levels,omitempty"`
	Features feature.List `yaml:"features,omitempty"`
}

// Trait is an advantage, disadvantage, perk, or quirk. A trait with Children
// is a container; its children contribute only while it is enabled.
type Trait struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Tags        []string       `yaml:"tags,omitempty"`
	Disabled    bool           `yaml:"disabled,omitempty"`
	Levels      int            `yaml:"levels,omitempty"`
	CR          SelfControl    `yaml:"cr,omitempty"`
	CRAdj       SelfControlAdj `yaml:"cr_adj,omitempty"`
	Modifiers   []*Modifier    `yaml:"modifiers,omitempty"`
	Features    feature.List   `yaml:"features,omitempty"`
	Prereqs     *prereq.List   `yaml:"prereqs,omitempty"`
	Children    []*Trait       `yaml:"children,omitempty"`
	Unsatisfied string         `yaml:"-"`
}

// Enabled reports whether the trait contributes.
func (t *Trait) Enabled() bool { return !t.Disabled }

// Equipment is an item. Items with Children are containers; extended weight
// includes every child.
type Equipment struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Tags        []string     `yaml:"tags,omitempty"`
	TechLevel   *string      `yaml:"tech_level,omitempty"`
	Quantity    float64      `yaml:"quantity"`
	Weight      float64      `yaml:"weight"`
	Equipped    bool         `yaml:"equipped,omitempty"`
	Levels      int          `yaml:"levels,omitempty"`
	Modifiers   []*Modifier  `yaml:"modifiers,omitempty"`
	Features    feature.List `yaml:"features,omitempty"`
	Prereqs     *prereq.List `yaml:"prereqs,omitempty"`
	Children    []*Equipment `yaml:"children,omitempty"`
	Unsatisfied string       `yaml:"-"`
}

// ExtendedWeight returns quantity × weight plus the extended weight of every
// child.
func (e *Equipment) ExtendedWeight() float64 {
	w := e.Quantity * e.Weight
	for _, c := range e.Children {
		w += c.ExtendedWeight()
	}
	return w
}

// HasTechLevel reports whether the item carries a non-empty tech level.
func (e *Equipment) HasTechLevel() bool {
	return e.TechLevel != nil && *e.TechLevel != ""
}

func walkTraits(ts []*Trait, enabledOnly bool, fn func(*Trait)) {
	for _, t := range ts {
		if enabledOnly && !t.Enabled() {
			continue
		}
		fn(t)
		walkTraits(t.Children, enabledOnly, fn)
	}
}

func walkEquipment(es []*Equipment, fn func(*Equipment)) {
	for _, e := range es {
		fn(e)
		walkEquipment(e.Children, fn)
	}
}

func findEquipment(es []*Equipment, id string) *Equipment {
	for _, e := range es {
		if e.ID == id {
			return e
		}
		if found := findEquipment(e.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// detachEquipment removes the item with id from es or any subtree and returns
// the updated slice and the removed item.
func detachEquipment(es []*Equipment, id string) ([]*Equipment, *Equipment) {
	for i, e := range es {
		if e.ID == id {
			return append(es[:i:i], es[i+1:]...), e
		}
		var removed *Equipment
		if e.Children, removed = detachEquipment(e.Children, id); removed != nil {
			return es, removed
		}
	}
	return es, nil
}

func detachTrait(ts []*Trait, id string) ([]*Trait, *Trait) {
	for i, t := range ts {
		if t.ID == id {
			return append(ts[:i:i], ts[i+1:]...), t
		}
		var removed *Trait
		if t.Children, removed = detachTrait(t.Children, id); removed != nil {
			return ts, removed
		}
	}
	return ts, nil
}

func findTrait(ts []*Trait, id string) *Trait {
	for _, t := range ts {
		if t.ID == id {
			return t
		}
		if found := findTrait(t.Children, id); found != nil {
			return found
		}
	}
	return nil
}
