// Package feature defines the bonus and penalty declarations carried by
// traits, skills, equipment, modifiers, and conditions, and the typed buckets
// the aggregator files them into.
package feature

import (
	"github.com/cory-johannsen/charsheet/internal/game/criteria"
)

// Kind identifies a feature variant. It is the `type` key in YAML.
type Kind string

// Feature variant kinds.
const (
	KindAttributeBonus       Kind = "attribute_bonus"
	KindCostReduction        Kind = "cost_reduction"
	KindDRBonus              Kind = "dr_bonus"
	KindSkillBonus           Kind = "skill_bonus"
	KindSkillPointBonus      Kind = "skill_point_bonus"
	KindSpellBonus           Kind = "spell_bonus"
	KindSpellPointBonus      Kind = "spell_point_bonus"
	KindWeaponBonus          Kind = "weapon_bonus"
	KindWeaponDRDivisorBonus Kind = "weapon_dr_divisor_bonus"
	KindReactionBonus        Kind = "reaction_bonus"
	KindConditionalModifier  Kind = "conditional_modifier"
)

// Feature is the closed set of feature variants. The unexported stamp method
// keeps implementations inside this package.
type Feature interface {
	Kind() Kind
	stamp(levels int, source string) Feature
}

// Leveled holds the amount shared by most variants. Levels and Source are
// stamped by the aggregator from the owning carrier and are never persisted.
type Leveled struct {
	Amount   float64 `yaml:"amount"`
	PerLevel bool    `yaml:"per_level,omitempty"`
	Levels   int     `yaml:"-"`
	Source   string  `yaml:"-"`
}

// AdjustedAmount returns Amount multiplied by the stamped level count when the
// amount is per level.
func (l Leveled) AdjustedAmount() float64 {
	if l.PerLevel {
		return l.Amount * float64(l.Levels)
	}
	return l.Amount
}

func (l *Leveled) set(levels int, source string) {
	l.Levels = levels
	l.Source = source
}

// Limitation restricts an attribute bonus to one use of the attribute.
type Limitation string

// Limitation constants. The empty string is treated as LimitNone.
const (
	LimitNone     Limitation = "none"
	LimitStriking Limitation = "striking_only"
	LimitLifting  Limitation = "lifting_only"
	LimitThrowing Limitation = "throwing_only"
)

func (l Limitation) normalized() Limitation {
	if l == "" {
		return LimitNone
	}
	return l
}

// AttributeBonus adds to an attribute, or to a synthetic derived id such as
// "dodge".
type AttributeBonus struct {
	Leveled    `yaml:",inline"`
	Attribute  string     `yaml:"attribute"`
	Limitation Limitation `yaml:"limitation,omitempty"`
}

// Kind implements Feature.
func (f AttributeBonus) Kind() Kind { return KindAttributeBonus }

func (f AttributeBonus) stamp(levels int, source string) Feature {
	f.set(levels, source)
	return f
}

// CostReduction lowers the point cost of an attribute by a percentage.
type CostReduction struct {
	Attribute  string  `yaml:"attribute"`
	Percentage float64 `yaml:"percentage"`
	Source     string  `yaml:"-"`
}

// Kind implements Feature.
func (f CostReduction) Kind() Kind { return KindCostReduction }

func (f CostReduction) stamp(_ int, source string) Feature {
	f.Source = source
	return f
}

// AllDamage is the DR specialization that applies to every damage type.
const AllDamage = "all"

// DRBonus adds damage resistance at a hit location.
type DRBonus struct {
	Leveled        `yaml:",inline"`
	Location       string `yaml:"location"`
	Specialization string `yaml:"specialization,omitempty"`
}

// Kind implements Feature.
func (f DRBonus) Kind() Kind { return KindDRBonus }

func (f DRBonus) stamp(levels int, source string) Feature {
	f.set(levels, source)
	if f.Specialization == "" {
		f.Specialization = AllDamage
	}
	return f
}

// SkillBonus adds to the level of matching skills and techniques.
type SkillBonus struct {
	Leveled        `yaml:",inline"`
	Name           criteria.String `yaml:"name,omitempty"`
	Specialization criteria.String `yaml:"specialization,omitempty"`
	Tags           criteria.String `yaml:"tags,omitempty"`
}

// Kind implements Feature.
func (f SkillBonus) Kind() Kind { return KindSkillBonus }

func (f SkillBonus) stamp(levels int, source string) Feature {
	f.set(levels, source)
	return f
}

// Matches reports whether the bonus selects the skill.
func (f SkillBonus) Matches(name, specialization string, tags []string) bool {
	return f.Name.Matches(name) && f.Specialization.Matches(specialization) && f.Tags.MatchesList(tags...)
}

// SkillPointBonus adds invested points to matching skills.
type SkillPointBonus struct {
	Leveled        `yaml:",inline"`
	Name           criteria.String `yaml:"name,omitempty"`
	Specialization criteria.String `yaml:"specialization,omitempty"`
	Tags           criteria.String `yaml:"tags,omitempty"`
}

// Kind implements Feature.
func (f SkillPointBonus) Kind() Kind { return KindSkillPointBonus }

func (f SkillPointBonus) stamp(levels int, source string) Feature {
	f.set(levels, source)
	return f
}

// Matches reports whether the bonus selects the skill.
func (f SkillPointBonus) Matches(name, specialization string, tags []string) bool {
	return f.Name.Matches(name) && f.Specialization.Matches(specialization) && f.Tags.MatchesList(tags...)
}

// SpellMatch selects which spell property a spell bonus compares.
type SpellMatch string

// Spell match constants. The empty string is treated as SpellName.
const (
	AllColleges     SpellMatch = "all_colleges"
	CollegeName     SpellMatch = "college_name"
	PowerSourceName SpellMatch = "power_source_name"
	SpellName       SpellMatch = "spell_name"
)

// SpellBonus adds to the level of matching spells.
type SpellBonus struct {
	Leveled `yaml:",inline"`
	Match   SpellMatch      `yaml:"match,omitempty"`
	Name    criteria.String `yaml:"name,omitempty"`
	Tags    criteria.String `yaml:"tags,omitempty"`
}

// Kind implements Feature.
func (f SpellBonus) Kind() Kind { return KindSpellBonus }

func (f SpellBonus) stamp(levels int, source string) Feature {
	f.set(levels, source)
	return f
}

// Matches reports whether the bonus selects the spell.
func (f SpellBonus) Matches(name, powerSource string, colleges, tags []string) bool {
	return spellMatches(f.Match, f.Name, f.Tags, name, powerSource, colleges, tags)
}

// SpellPointBonus adds invested points to matching spells.
type SpellPointBonus struct {
	Leveled `yaml:",inline"`
	Match   SpellMatch      `yaml:"match,omitempty"`
	Name    criteria.String `yaml:"name,omitempty"`
	Tags    criteria.String `yaml:"tags,omitempty"`
}

// Kind implements Feature.
func (f SpellPointBonus) Kind() Kind { return KindSpellPointBonus }

func (f SpellPointBonus) stamp(levels int, source string) Feature {
	f.set(levels, source)
	return f
}

// Matches reports whether the bonus selects the spell.
func (f SpellPointBonus) Matches(name, powerSource string, colleges, tags []string) bool {
	return spellMatches(f.Match, f.Name, f.Tags, name, powerSource, colleges, tags)
}

func spellMatches(m SpellMatch, name, tags criteria.String, spell, powerSource string, colleges, spellTags []string) bool {
	if !tags.MatchesList(spellTags...) {
		return false
	}
	switch m {
	case AllColleges:
		return true
	case CollegeName:
		return name.MatchesList(colleges...)
	case PowerSourceName:
		return name.Matches(powerSource)
	default:
		return name.Matches(spell)
	}
}

// WeaponBonus adds damage, or with DRDivisor set, a DR divisor, to matching
// weapons. The two flavors share one bucket.
type WeaponBonus struct {
	Leveled   `yaml:",inline"`
	Name      criteria.String `yaml:"name,omitempty"`
	Usage     criteria.String `yaml:"usage,omitempty"`
	Tags      criteria.String `yaml:"tags,omitempty"`
	DRDivisor bool            `yaml:"-"`
}

// Kind implements Feature.
func (f WeaponBonus) Kind() Kind {
	if f.DRDivisor {
		return KindWeaponDRDivisorBonus
	}
	return KindWeaponBonus
}

func (f WeaponBonus) stamp(levels int, source string) Feature {
	f.set(levels, source)
	return f
}

// Matches reports whether the bonus selects the weapon.
func (f WeaponBonus) Matches(name, usage string, tags []string) bool {
	return f.Name.Matches(name) && f.Usage.Matches(usage) && f.Tags.MatchesList(tags...)
}

// ReactionBonus modifies reactions in a free-text situation.
type ReactionBonus struct {
	Leveled   `yaml:",inline"`
	Situation string `yaml:"situation"`
}

// Kind implements Feature.
func (f ReactionBonus) Kind() Kind { return KindReactionBonus }

func (f ReactionBonus) stamp(levels int, source string) Feature {
	f.set(levels, source)
	return f
}

// ConditionalModifier modifies rolls in a free-text situation.
type ConditionalModifier struct {
	Leveled   `yaml:",inline"`
	Situation string `yaml:"situation"`
}

// Kind implements Feature.
func (f ConditionalModifier) Kind() Kind { return KindConditionalModifier }

func (f ConditionalModifier) stamp(levels int, source string) Feature {
	f.set(levels, source)
	return f
}

// Stamp returns a copy of f with the carrier's level count and display name
// applied.
func Stamp(f Feature, levels int, source string) Feature {
	return f.stamp(levels, source)
}
