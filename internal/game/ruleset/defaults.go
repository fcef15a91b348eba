package ruleset

import (
	"github.com/cory-johannsen/charsheet/internal/game/attribute"
	"github.com/cory-johannsen/charsheet/internal/game/condition"
	"github.com/cory-johannsen/charsheet/internal/game/encumbrance"
	"github.com/cory-johannsen/charsheet/internal/game/feature"
	"github.com/cory-johannsen/charsheet/internal/game/hitlocation"
)

// Built-in condition ids added and removed by the default pool thresholds.
const (
	CondReeling     = "reeling"
	CondCollapsing  = "collapsing"
	CondVeryTired   = "very_tired"
	CondUnconscious = "unconscious"
)

// Default returns the built-in rules: the standard attributes with HP and FP
// thresholds, the humanoid body plan, and the conditions the thresholds use.
//
// Postcondition: Default().Validate() == nil.
func Default() *Rules {
	return &Rules{
		Attributes:        DefaultAttributes(),
		BodyPlans:         map[string]*hitlocation.Table{hitlocation.HumanoidID: hitlocation.DefaultHumanoid()},
		DefaultBodyPlan:   hitlocation.HumanoidID,
		Conditions:        DefaultConditions(),
		DamageProgression: attribute.BasicSet,
		WeightUnits:       encumbrance.Pounds,
	}
}

func add(id string) attribute.ConditionAction {
	return attribute.ConditionAction{Action: attribute.ActionAdd, Condition: id}
}

func remove(id string) attribute.ConditionAction {
	return attribute.ConditionAction{Action: attribute.ActionRemove, Condition: id}
}

func actions(f func(string) attribute.ConditionAction, ids ...string) []attribute.ConditionAction {
	out := make([]attribute.ConditionAction, 0, len(ids))
	for _, id := range ids {
		out = append(out, f(id))
	}
	return out
}

// DefaultAttributes returns the standard attribute definitions.
func DefaultAttributes() []attribute.Definition {
	halveMD := []attribute.Op{attribute.OpHalveMove, attribute.OpHalveDodge}
	halveAll := []attribute.Op{attribute.OpHalveMove, attribute.OpHalveDodge, attribute.OpHalveST}
	return []attribute.Definition{
		{ID: attribute.ST, Name: "Strength", Kind: attribute.KindPrimary, Base: "10", CostPerPoint: 10},
		{ID: attribute.DX, Name: "Dexterity", Kind: attribute.KindPrimary, Base: "10", CostPerPoint: 20},
		{ID: attribute.IQ, Name: "Intelligence", Kind: attribute.KindPrimary, Base: "10", CostPerPoint: 20},
		{ID: attribute.HT, Name: "Health", Kind: attribute.KindPrimary, Base: "10", CostPerPoint: 10},
		{ID: "secondary", Kind: attribute.KindSeparator},
		{ID: attribute.Will, Name: "Will", Kind: attribute.KindSecondary, Base: "$iq", CostPerPoint: 5},
		{ID: attribute.Per, Name: "Perception", Kind: attribute.KindSecondary, Base: "$iq", CostPerPoint: 5},
		{ID: attribute.BasicSpeed, Name: "Basic Speed", Kind: attribute.KindSecondary, Base: "($dx + $ht) / 4", CostPerPoint: 20},
		{ID: attribute.BasicMove, Name: "Basic Move", Kind: attribute.KindSecondary, Base: "math.floor($basic_speed)", CostPerPoint: 5},
		{ID: "pools", Kind: attribute.KindSeparator},
		{ID: attribute.HP, Name: "Hit Points", Kind: attribute.KindPool, Base: "$st", CostPerPoint: 2, Thresholds: []attribute.Threshold{
			{State: "dead", Explanation: "Dead", Multiplier: -5, Ops: halveMD,
				Enter: actions(add, CondCollapsing, CondReeling), Leave: actions(remove, CondCollapsing, CondReeling)},
			{State: "dying", Explanation: "Roll vs HT to avoid death", Multiplier: -1, Ops: halveMD,
				Enter: actions(add, CondCollapsing, CondReeling), Leave: actions(remove, CondCollapsing, CondReeling)},
			{State: "collapse", Explanation: "Roll vs HT each turn to stay conscious", Multiplier: 0, Ops: halveMD,
				Enter: actions(add, CondCollapsing, CondReeling), Leave: actions(remove, CondCollapsing, CondReeling)},
			{State: "reeling", Explanation: "Move and Dodge are halved", Multiplier: 1, Divisor: 3, Ops: halveMD,
				Enter: actions(add, CondReeling), Leave: actions(remove, CondReeling)},
			{State: "wounded", Explanation: "Wounded", Multiplier: 1, Addition: -1},
		}},
		{ID: attribute.FP, Name: "Fatigue Points", Kind: attribute.KindPool, Base: "$ht", CostPerPoint: 3, Thresholds: []attribute.Threshold{
			{State: "unconscious", Explanation: "Unconscious", Multiplier: -1, Ops: halveAll,
				Enter: actions(add, CondUnconscious, CondVeryTired), Leave: actions(remove, CondUnconscious, CondVeryTired)},
			{State: "collapse", Explanation: "Roll vs Will to keep acting", Multiplier: 0, Ops: halveAll,
				Enter: actions(add, CondVeryTired), Leave: actions(remove, CondVeryTired)},
			{State: "tired", Explanation: "Move, Dodge, and ST are halved", Multiplier: 1, Divisor: 3, Ops: halveAll,
				Enter: actions(add, CondVeryTired), Leave: actions(remove, CondVeryTired)},
		}},
	}
}

// DefaultConditions returns a registry holding the conditions the default
// thresholds add and remove.
func DefaultConditions() *condition.Registry {
	reg := condition.NewRegistry()
	reg.Register(&condition.ConditionDef{ID: CondReeling, Name: "Reeling", Description: "At or below one third of HP."})
	reg.Register(&condition.ConditionDef{ID: CondCollapsing, Name: "Collapsing", Description: "At or below zero HP.",
		Features: feature.List{feature.ConditionalModifier{Leveled: feature.Leveled{Amount: -1}, Situation: "on HT rolls to stay conscious"}}})
	reg.Register(&condition.ConditionDef{ID: CondVeryTired, Name: "Very Tired", Description: "At or below one third of FP."})
	reg.Register(&condition.ConditionDef{ID: CondUnconscious, Name: "Unconscious", Description: "At or below zero FP.",
		Features: feature.List{feature.AttributeBonus{Leveled: feature.Leveled{Amount: -3}, Attribute: attribute.Dodge}}})
	return reg
}
