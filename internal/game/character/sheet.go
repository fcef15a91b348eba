package character

import (
	"math"

	"github.com/cory-johannsen/charsheet/internal/game/attribute"
	"github.com/cory-johannsen/charsheet/internal/game/encumbrance"
	"github.com/cory-johannsen/charsheet/internal/game/hitlocation"
	"github.com/cory-johannsen/charsheet/internal/game/reaction"
)

// Sheet is a JSON-safe snapshot of every derived value. Unresolved values
// are encoded as null. Weights are in the rules' weight units.
type Sheet struct {
	ID                   string               `json:"id"`
	Name                 string               `json:"name"`
	WeightUnits          string               `json:"weight_units"`
	Attributes           []SheetAttribute     `json:"attributes"`
	Trackers             []SheetTracker       `json:"trackers,omitempty"`
	Skills               []SheetLevel         `json:"skills,omitempty"`
	Spells               []SheetLevel         `json:"spells,omitempty"`
	Traits               []SheetEntity        `json:"traits,omitempty"`
	Equipment            []SheetEntity        `json:"equipment,omitempty"`
	Conditions           []SheetCondition     `json:"conditions,omitempty"`
	BasicLift            float64              `json:"basic_lift"`
	CarriedWeight        float64              `json:"carried_weight"`
	Encumbrance          string               `json:"encumbrance"`
	EncumbranceTable     []SheetEncumbrance   `json:"encumbrance_table"`
	Move                 int                  `json:"move"`
	Dodge                int                  `json:"dodge"`
	Parry                float64              `json:"parry_bonus"`
	Block                float64              `json:"block_bonus"`
	SizeModifier         float64              `json:"size_modifier"`
	LiftingST            *float64             `json:"lifting_st"`
	StrikingST           *float64             `json:"striking_st"`
	ThrowingST           *float64             `json:"throwing_st"`
	Thrust               string               `json:"thrust"`
	Swing                string               `json:"swing"`
	HitLocations         hitlocation.Resolved `json:"hit_locations"`
	Weapons              []SheetWeapon        `json:"weapons,omitempty"`
	Reactions            []reaction.Entry     `json:"reactions,omitempty"`
	ConditionalModifiers []reaction.Entry     `json:"conditional_modifiers,omitempty"`
	Passes               int                  `json:"passes"`
}

// SheetAttribute is one resolved attribute.
type SheetAttribute struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Current   *float64 `json:"current"`
	Max       *float64 `json:"max"`
	Effective *float64 `json:"effective"`
	Points    float64  `json:"points"`
	State     string   `json:"state,omitempty"`
}

// SheetTracker is one resolved resource tracker.
type SheetTracker struct {
	ID      string   `json:"id"`
	Current *float64 `json:"current"`
	Max     *float64 `json:"max"`
	State   string   `json:"state"`
}

// SheetLevel is a skill or spell level.
type SheetLevel struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Level         *float64 `json:"level"`
	RelativeLevel *float64 `json:"relative_level"`
	Unsatisfied   string   `json:"unsatisfied,omitempty"`
}

// SheetEntity is a trait or item with its prerequisite status.
type SheetEntity struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Weight      *float64 `json:"weight,omitempty"`
	Unsatisfied string   `json:"unsatisfied,omitempty"`
}

// SheetWeapon is an equipped weapon with the bonuses selecting it.
type SheetWeapon struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	DamageBonus    float64 `json:"damage_bonus"`
	DRDivisorBonus float64 `json:"dr_divisor_bonus"`
}

// SheetCondition is an active condition.
type SheetCondition struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Stacks int    `json:"stacks"`
}

// SheetEncumbrance is one encumbrance level.
type SheetEncumbrance struct {
	Level        string  `json:"level"`
	MaximumCarry float64 `json:"maximum_carry"`
	Move         int     `json:"move"`
	Dodge        int     `json:"dodge"`
}

// resolved returns nil for values JSON cannot carry.
func resolved(v float64) *float64 {
	if attribute.IsUnresolved(v) || math.IsInf(v, 1) {
		return nil
	}
	return &v
}

// Sheet returns a snapshot of the derived values as of the last recompute.
func (c *Character) Sheet() Sheet {
	units := c.rules.WeightUnits
	s := Sheet{
		ID:                   c.id,
		Name:                 c.name,
		WeightUnits:          string(units),
		BasicLift:            units.FromPounds(c.BasicLift()),
		CarriedWeight:        units.FromPounds(c.CarriedWeight()),
		Encumbrance:          c.encumbrance.String(),
		Move:                 c.Move(),
		Dodge:                c.Dodge(),
		Parry:                c.DerivedBonus(attribute.Parry),
		Block:                c.DerivedBonus(attribute.Block),
		SizeModifier:         c.DerivedBonus(attribute.SizeModifier),
		LiftingST:            resolved(c.LiftingST()),
		StrikingST:           resolved(c.StrikingST()),
		ThrowingST:           resolved(c.ThrowingST()),
		Thrust:               c.Thrust().String(),
		Swing:                c.Swing().String(),
		HitLocations:         c.HitLocations(),
		Reactions:            c.Reactions(),
		ConditionalModifiers: c.ConditionalModifiers(),
		Passes:               c.passes,
	}
	states := c.poolStates
	for _, a := range c.attrs.All() {
		def, _ := c.resolver.Definition(a.DefID)
		s.Attributes = append(s.Attributes, SheetAttribute{
			ID:        a.DefID,
			Name:      def.Name,
			Current:   resolved(a.Current),
			Max:       resolved(a.Max),
			Effective: resolved(a.Effective),
			Points:    a.Points,
			State:     states[a.DefID],
		})
	}
	for _, t := range c.trackers {
		s.Trackers = append(s.Trackers, SheetTracker{ID: t.DefID, Current: resolved(t.Current), Max: resolved(t.Max), State: t.State})
	}
	for _, sk := range c.skills {
		s.Skills = append(s.Skills, SheetLevel{ID: sk.ID, Name: skillName(sk.Name, sk.Specialization), Level: resolved(sk.Level.Level),
			RelativeLevel: resolved(sk.Level.RelativeLevel), Unsatisfied: sk.Unsatisfied})
	}
	for _, sp := range c.spells {
		s.Spells = append(s.Spells, SheetLevel{ID: sp.ID, Name: sp.Name, Level: resolved(sp.Level.Level),
			RelativeLevel: resolved(sp.Level.RelativeLevel), Unsatisfied: sp.Unsatisfied})
	}
	walkTraits(c.traits, false, func(t *Trait) {
		s.Traits = append(s.Traits, SheetEntity{ID: t.ID, Name: t.Name, Unsatisfied: t.Unsatisfied})
	})
	walkEquipment(c.carried, func(e *Equipment) {
		w := units.FromPounds(encumbrance.RoundWeight(e.ExtendedWeight()))
		s.Equipment = append(s.Equipment, SheetEntity{ID: e.ID, Name: e.Name, Weight: &w, Unsatisfied: e.Unsatisfied})
	})
	for _, e := range c.Weapons() {
		dmg, div := c.WeaponBonus(e.Name, "", e.Tags)
		s.Weapons = append(s.Weapons, SheetWeapon{ID: e.ID, Name: e.Name, DamageBonus: dmg, DRDivisorBonus: div})
	}
	for _, ac := range c.conditions.All() {
		s.Conditions = append(s.Conditions, SheetCondition{ID: ac.Def.ID, Name: ac.Def.Name, Stacks: ac.Stacks})
	}
	for _, row := range c.EncumbranceTable() {
		s.EncumbranceTable = append(s.EncumbranceTable, SheetEncumbrance{
			Level:        row.Level.String(),
			MaximumCarry: units.FromPounds(row.MaximumCarry),
			Move:         row.Move,
			Dodge:        row.Dodge,
		})
	}
	return s
}

func skillName(name, specialization string) string {
	if specialization == "" {
		return name
	}
	return name + " (" + specialization + ")"
}
