package character

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/criteria"
	"github.com/cory-johannsen/charsheet/internal/game/feature"
	"github.com/cory-johannsen/charsheet/internal/game/prereq"
)

// Missing-gear penalties injected when a prerequisite fails for lack of
// equipment.
const (
	gearPenalty          = -5
	gearPenaltyTechLevel = -10
)

// snapshot is the state prerequisites see during one pass. Skill levels are
// the ones computed by the previous pass.
type snapshot struct {
	c         *Character
	traits    []prereq.TraitView
	skills    []prereq.SkillView
	spells    []prereq.SpellView
	equipment []prereq.EquipmentView
}

func (c *Character) snapshot() *snapshot {
	st := &snapshot{c: c}
	walkTraits(c.traits, true, func(t *Trait) {
		st.traits = append(st.traits, prereq.TraitView{ID: t.ID, Name: t.Name, Levels: float64(t.Levels), Tags: t.Tags})
	})
	for _, s := range c.skills {
		st.skills = append(st.skills, prereq.SkillView{ID: s.ID, Name: s.Name, Specialization: s.Specialization, Level: s.Level.Level})
	}
	for _, s := range c.spells {
		st.spells = append(st.spells, prereq.SpellView{ID: s.ID, Name: s.Name, Colleges: s.Colleges, PowerSource: s.PowerSource, Tags: s.Tags})
	}
	walkEquipment(c.carried, func(e *Equipment) {
		if e.Equipped {
			st.equipment = append(st.equipment, prereq.EquipmentView{ID: e.ID, Name: e.Name, Tags: e.Tags})
		}
	})
	return st
}

func (s *snapshot) AttributeValue(id string) float64          { return s.c.AttributeValue(id) }
func (s *snapshot) Traits() []prereq.TraitView                { return s.traits }
func (s *snapshot) Skills() []prereq.SkillView                { return s.skills }
func (s *snapshot) Spells() []prereq.SpellView                { return s.spells }
func (s *snapshot) EquippedEquipment() []prereq.EquipmentView { return s.equipment }

// satisfy evaluates every carrier's prerequisites and records the failure
// text. A skill or spell failing for lack of gear gets a penalty injected
// into the current buckets; it lasts until the next aggregation.
func (c *Character) satisfy() {
	st := c.snapshot()
	walkTraits(c.traits, false, func(t *Trait) {
		t.Unsatisfied = c.evaluate(t.Prereqs, st, t.ID, t.Name).Explanation
	})
	for _, s := range c.skills {
		r := c.evaluate(s.Prereqs, st, s.ID, s.Name)
		s.Unsatisfied = r.Explanation
		if r.EquipmentPenalty {
			c.buckets.Add(feature.SkillBonus{
				Leveled:        feature.Leveled{Amount: gearPenaltyFor(s.HasTechLevel())},
				Name:           criteria.IsString(s.Name),
				Specialization: criteria.IsString(s.Specialization),
			}, 0, s.Name)
		}
	}
	for _, s := range c.spells {
		r := c.evaluate(s.Prereqs, st, s.ID, s.Name)
		s.Unsatisfied = r.Explanation
		if r.EquipmentPenalty {
			c.buckets.Add(feature.SpellBonus{
				Leveled: feature.Leveled{Amount: gearPenaltyFor(s.HasTechLevel())},
				Match:   feature.SpellName,
				Name:    criteria.IsString(s.Name),
			}, 0, s.Name)
		}
	}
	for _, list := range [][]*Equipment{c.carried, c.other} {
		walkEquipment(list, func(e *Equipment) {
			e.Unsatisfied = c.evaluate(e.Prereqs, st, e.ID, e.Name).Explanation
		})
	}
}

func (c *Character) evaluate(list *prereq.List, st prereq.State, id, name string) prereq.Result {
	r := prereq.Evaluate(list, st, id)
	if !r.Satisfied {
		c.logger.Debug("prerequisites not met",
			zap.String("entity", name),
			zap.Bool("equipment_penalty", r.EquipmentPenalty),
		)
	}
	return r
}

func gearPenaltyFor(techLevel bool) float64 {
	if techLevel {
		return gearPenaltyTechLevel
	}
	return gearPenalty
}
