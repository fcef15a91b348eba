package feature

import "strings"

// Buckets holds the active features of a character, one slice per bucketed
// variant. Reaction bonuses and conditional modifiers are not bucketed.
//
// A Buckets value is rebuilt wholesale by every aggregation pass. A nil
// *Buckets answers every query with zero.
type Buckets struct {
	AttributeBonuses  []AttributeBonus
	CostReductions    []CostReduction
	DRBonuses         []DRBonus
	SkillBonuses      []SkillBonus
	SkillPointBonuses []SkillPointBonus
	SpellBonuses      []SpellBonus
	SpellPointBonuses []SpellPointBonus
	WeaponBonuses     []WeaponBonus
}

// NewBuckets returns empty buckets.
func NewBuckets() *Buckets {
	return &Buckets{}
}

// Add stamps f with the carrier's levels and display name and files it into
// the bucket for its variant. It reports false for the variants that are not
// bucketed.
func (b *Buckets) Add(f Feature, levels int, source string) bool {
	switch v := f.stamp(levels, source).(type) {
	case AttributeBonus:
		b.AttributeBonuses = append(b.AttributeBonuses, v)
	case CostReduction:
		b.CostReductions = append(b.CostReductions, v)
	case DRBonus:
		b.DRBonuses = append(b.DRBonuses, v)
	case SkillBonus:
		b.SkillBonuses = append(b.SkillBonuses, v)
	case SkillPointBonus:
		b.SkillPointBonuses = append(b.SkillPointBonuses, v)
	case SpellBonus:
		b.SpellBonuses = append(b.SpellBonuses, v)
	case SpellPointBonus:
		b.SpellPointBonuses = append(b.SpellPointBonuses, v)
	case WeaponBonus:
		b.WeaponBonuses = append(b.WeaponBonuses, v)
	case ReactionBonus, ConditionalModifier:
		return false
	default:
		return false
	}
	return true
}

// AddList adds every feature in l.
func (b *Buckets) AddList(l List, levels int, source string) {
	for _, f := range l {
		b.Add(f, levels, source)
	}
}

// AttributeBonusFor sums the attribute bonuses for attrID with the given
// limitation.
func (b *Buckets) AttributeBonusFor(attrID string, limitation Limitation) float64 {
	if b == nil {
		return 0
	}
	limitation = limitation.normalized()
	var total float64
	for _, f := range b.AttributeBonuses {
		if strings.EqualFold(f.Attribute, attrID) && f.Limitation.normalized() == limitation {
			total += f.AdjustedAmount()
		}
	}
	return total
}

// CostReductionFor sums the cost reduction percentages for attrID. The
// result is not clamped.
func (b *Buckets) CostReductionFor(attrID string) float64 {
	if b == nil {
		return 0
	}
	var total float64
	for _, f := range b.CostReductions {
		if strings.EqualFold(f.Attribute, attrID) {
			total += f.Percentage
		}
	}
	return total
}

// DRBonusesFor sums the DR bonuses at locationID keyed by damage-type
// specialization.
func (b *Buckets) DRBonusesFor(locationID string) map[string]float64 {
	out := make(map[string]float64)
	if b == nil {
		return out
	}
	for _, f := range b.DRBonuses {
		if strings.EqualFold(f.Location, locationID) {
			out[strings.ToLower(f.Specialization)] += f.AdjustedAmount()
		}
	}
	return out
}

// SkillBonusFor sums the skill bonuses selecting the skill.
func (b *Buckets) SkillBonusFor(name, specialization string, tags []string) float64 {
	if b == nil {
		return 0
	}
	var total float64
	for _, f := range b.SkillBonuses {
		if f.Matches(name, specialization, tags) {
			total += f.AdjustedAmount()
		}
	}
	return total
}

// SkillPointBonusFor sums the skill point bonuses selecting the skill.
func (b *Buckets) SkillPointBonusFor(name, specialization string, tags []string) float64 {
	if b == nil {
		return 0
	}
	var total float64
	for _, f := range b.SkillPointBonuses {
		if f.Matches(name, specialization, tags) {
			total += f.AdjustedAmount()
		}
	}
	return total
}

// SpellBonusFor sums the spell bonuses selecting the spell.
func (b *Buckets) SpellBonusFor(name, powerSource string, colleges, tags []string) float64 {
	if b == nil {
		return 0
	}
	var total float64
	for _, f := range b.SpellBonuses {
		if f.Matches(name, powerSource, colleges, tags) {
			total += f.AdjustedAmount()
		}
	}
	return total
}

// SpellPointBonusFor sums the spell point bonuses selecting the spell.
func (b *Buckets) SpellPointBonusFor(name, powerSource string, colleges, tags []string) float64 {
	if b == nil {
		return 0
	}
	var total float64
	for _, f := range b.SpellPointBonuses {
		if f.Matches(name, powerSource, colleges, tags) {
			total += f.AdjustedAmount()
		}
	}
	return total
}

// WeaponBonusFor sums the damage and DR divisor bonuses selecting the weapon.
func (b *Buckets) WeaponBonusFor(name, usage string, tags []string) (damage, drDivisor float64) {
	if b == nil {
		return 0, 0
	}
	for _, f := range b.WeaponBonuses {
		if !f.Matches(name, usage, tags) {
			continue
		}
		if f.DRDivisor {
			drDivisor += f.AdjustedAmount()
		} else {
			damage += f.AdjustedAmount()
		}
	}
	return damage, drDivisor
}
