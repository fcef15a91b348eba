package importer

import (
	"github.com/cory-johannsen/charsheet/internal/game/character"
	"github.com/cory-johannsen/charsheet/internal/game/skill"
)

// DocumentVersion is the character document format version written by
// Export.
const DocumentVersion = 1

// Document is the YAML form of a character: its entity forest and the
// adjustments made to its attributes. Derived values are never stored; they
// are recomputed on import.
type Document struct {
	Version        int                    `yaml:"version"`
	ID             string                 `yaml:"id,omitempty"`
	Name           string                 `yaml:"name"`
	BodyPlan       string                 `yaml:"body_plan,omitempty"`
	Attributes     []AttributeEntry       `yaml:"attributes,omitempty"`
	Trackers       []TrackerEntry         `yaml:"trackers,omitempty"`
	Traits         []*character.Trait     `yaml:"traits,omitempty"`
	Skills         []*skill.Skill         `yaml:"skills,omitempty"`
	Spells         []*skill.Spell         `yaml:"spells,omitempty"`
	Equipment      []*character.Equipment `yaml:"equipment,omitempty"`
	OtherEquipment []*character.Equipment `yaml:"other_equipment,omitempty"`
	Conditions     []ConditionEntry       `yaml:"conditions,omitempty"`
}

// AttributeEntry records points spent on an attribute and damage taken by a
// pool.
type AttributeEntry struct {
	ID     string  `yaml:"id"`
	Adj    float64 `yaml:"adj,omitempty"`
	Damage float64 `yaml:"damage,omitempty"`
}

// TrackerEntry records a resource tracker and the amount spent from it.
type TrackerEntry struct {
	ID     string  `yaml:"id"`
	Damage float64 `yaml:"damage,omitempty"`
}

// ConditionEntry records an active condition.
type ConditionEntry struct {
	ID     string `yaml:"id"`
	Stacks int    `yaml:"stacks,omitempty"`
}
