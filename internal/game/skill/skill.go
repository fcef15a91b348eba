// Package skill computes skill, technique, spell, and ritual spell levels,
// including default chains between skills.
package skill

import (
	"github.com/cory-johannsen/charsheet/internal/game/feature"
	"github.com/cory-johannsen/charsheet/internal/game/prereq"
)

// DefaultSkill is the Default type naming another skill rather than an
// attribute.
const DefaultSkill = "skill"

// Default is a fallback level derived from an attribute or a named skill.
type Default struct {
	Type           string  `yaml:"type"`
	Name           string  `yaml:"name,omitempty"`
	Specialization string  `yaml:"specialization,omitempty"`
	Modifier       float64 `yaml:"modifier"`
}

// Level is a computed level and its value relative to the controlling
// attribute or default.
type Level struct {
	Level         float64
	RelativeLevel float64
}

// Kind distinguishes skills from techniques.
type Kind string

// Skill kinds.
const (
	KindSkill     Kind = "skill"
	KindTechnique Kind = "technique"
)

// Skill is a skill or technique.
type Skill struct {
	ID             string     `yaml:"id"`
	Kind           Kind       `yaml:"kind"`
	Name           string     `yaml:"name"`
	Specialization string     `yaml:"specialization,omitempty"`
	Tags           []string   `yaml:"tags,omitempty"`
	TechLevel      *string    `yaml:"tech_level,omitempty"`
	Difficulty     Difficulty `yaml:"difficulty"`
	Points         float64    `yaml:"points"`
	// EncumbrancePenaltyMultiplier scales the encumbrance tier penalty.
	EncumbrancePenaltyMultiplier float64      `yaml:"encumbrance_penalty_multiplier,omitempty"`
	Defaults                     []Default    `yaml:"defaults,omitempty"`
	TechniqueDefault             *Default     `yaml:"technique_default,omitempty"`
	TechniqueLimit               *float64     `yaml:"technique_limit,omitempty"`
	Prereqs                      *prereq.List `yaml:"prereqs,omitempty"`
	Features                     feature.List `yaml:"features,omitempty"`

	Level       Level  `yaml:"-"`
	Unsatisfied string `yaml:"-"`
}

// HasTechLevel reports whether the skill carries a non-empty tech level.
func (s *Skill) HasTechLevel() bool {
	return s.TechLevel != nil && *s.TechLevel != ""
}

// SpellKind distinguishes spells from ritual magic spells.
type SpellKind string

// Spell kinds.
const (
	KindSpell       SpellKind = "spell"
	KindRitualSpell SpellKind = "ritual_spell"
)

// Spell is a spell or ritual magic spell. Ritual spells derive their level
// from BaseSkill specialized by college.
type Spell struct {
	ID          string       `yaml:"id"`
	Kind        SpellKind    `yaml:"kind"`
	Name        string       `yaml:"name"`
	Tags        []string     `yaml:"tags,omitempty"`
	TechLevel   *string      `yaml:"tech_level,omitempty"`
	Difficulty  Difficulty   `yaml:"difficulty"`
	Points      float64      `yaml:"points"`
	Colleges    []string     `yaml:"colleges,omitempty"`
	PowerSource string       `yaml:"power_source,omitempty"`
	BaseSkill   string       `yaml:"base_skill,omitempty"`
	PrereqCount int          `yaml:"prereq_count,omitempty"`
	Prereqs     *prereq.List `yaml:"prereqs,omitempty"`

	Level       Level  `yaml:"-"`
	Unsatisfied string `yaml:"-"`
}

// HasTechLevel reports whether the spell carries a non-empty tech level.
func (s *Spell) HasTechLevel() bool {
	return s.TechLevel != nil && *s.TechLevel != ""
}
