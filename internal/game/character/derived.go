package character

import (
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/attribute"
	"github.com/cory-johannsen/charsheet/internal/game/dice"
	"github.com/cory-johannsen/charsheet/internal/game/encumbrance"
	"github.com/cory-johannsen/charsheet/internal/game/hitlocation"
)

// StrengthEffective returns ST after threshold halving.
func (c *Character) StrengthEffective() float64 {
	return c.AttributeValue(attribute.ST)
}

// LiftingST returns effective ST plus lifting-only bonuses.
func (c *Character) LiftingST() float64 {
	return c.StrengthEffective() + c.strength.LiftingBonus
}

// StrikingST returns effective ST plus striking-only bonuses.
func (c *Character) StrikingST() float64 {
	return c.StrengthEffective() + c.strength.StrikingBonus
}

// ThrowingST returns effective ST plus throwing-only bonuses.
func (c *Character) ThrowingST() float64 {
	return c.StrengthEffective() + c.strength.ThrowingBonus
}

// BasicLift returns the basic lift for lifting ST.
func (c *Character) BasicLift() float64 {
	st := c.LiftingST()
	if attribute.IsUnresolved(st) {
		return 0
	}
	return encumbrance.BasicLift(st)
}

// CarriedWeight returns the extended weight of the carried items, in pounds,
// rounded to four decimals.
func (c *Character) CarriedWeight() float64 {
	var w float64
	for _, e := range c.carried {
		w += e.ExtendedWeight()
	}
	return encumbrance.RoundWeight(w)
}

// Encumbrance returns the encumbrance level as of the last recompute.
func (c *Character) Encumbrance() encumbrance.Level {
	return c.encumbrance
}

func (c *Character) opCount(op attribute.Op) int {
	n := c.resolver.OpCount(c.attrs, op)
	for _, def := range c.rules.Trackers {
		t := c.tracker(def.ID)
		if t == nil {
			continue
		}
		if th, ok := attribute.Thresholds(def.Thresholds).ByState(t.State); ok && th.HasOp(op) {
			n++
		}
	}
	return n
}

func (c *Character) encumbranceInputs() encumbrance.Inputs {
	return encumbrance.Inputs{
		BasicLift:     c.BasicLift(),
		BasicMove:     c.AttributeValue(attribute.BasicMove),
		BasicSpeed:    c.AttributeValue(attribute.BasicSpeed),
		DodgeBonus:    c.DerivedBonus(attribute.Dodge),
		MoveHalvings:  c.opCount(attribute.OpHalveMove),
		DodgeHalvings: c.opCount(attribute.OpHalveDodge),
	}
}

// Move returns the move allowed at the current encumbrance level.
func (c *Character) Move() int {
	in := c.encumbranceInputs()
	return encumbrance.Move(in.BasicMove, c.encumbrance, in.MoveHalvings)
}

// Dodge returns the dodge allowed at the current encumbrance level.
func (c *Character) Dodge() int {
	in := c.encumbranceInputs()
	return encumbrance.Dodge(in.BasicSpeed, in.DodgeBonus, c.encumbrance, in.DodgeHalvings)
}

// EncumbranceTable returns maximum carry, move, and dodge for every level.
func (c *Character) EncumbranceTable() []encumbrance.Row {
	return encumbrance.Table(c.encumbranceInputs())
}

// DerivedBonus returns the bonus to a synthetic id such as attribute.Parry,
// attribute.Block, or attribute.SizeModifier.
func (c *Character) DerivedBonus(id string) float64 {
	return c.resolver.Derived(id, c.buckets)
}

// Thrust returns thrust damage for striking ST.
func (c *Character) Thrust() dice.Expression {
	return c.rules.DamageProgression.Thrust(c.strikingInt())
}

// Swing returns swing damage for striking ST.
func (c *Character) Swing() dice.Expression {
	return c.rules.DamageProgression.Swing(c.strikingInt())
}

func (c *Character) strikingInt() int {
	st := c.StrikingST()
	if attribute.IsUnresolved(st) {
		return 0
	}
	return int(st)
}

// WeaponTag marks an equipment item as a weapon.
const WeaponTag = "weapon"

// WeaponBonus sums the damage and DR divisor bonuses for a weapon. An empty
// usage is matched only by bonuses that do not restrict usage.
func (c *Character) WeaponBonus(name, usage string, tags []string) (damage, drDivisor float64) {
	return c.buckets.WeaponBonusFor(name, usage, tags)
}

// Weapons returns the equipped carried items tagged as weapons, in tree
// order.
func (c *Character) Weapons() []*Equipment {
	var out []*Equipment
	walkEquipment(c.carried, func(e *Equipment) {
		if !e.Equipped {
			return
		}
		for _, tag := range e.Tags {
			if strings.EqualFold(tag, WeaponTag) {
				out = append(out, e)
				return
			}
		}
	})
	return out
}

// HitLocations resolves the character's body plan with DR bonuses applied.
// An unknown body plan falls back to the rules' default.
func (c *Character) HitLocations() hitlocation.Resolved {
	t, fellBack := c.rules.BodyPlanOrDefault(c.bodyPlan)
	if fellBack {
		c.logger.Warn("unknown body plan, using default",
			zap.String("body_plan", c.bodyPlan),
			zap.String("default", t.ID),
		)
	}
	return hitlocation.Resolve(t, c.buckets)
}
