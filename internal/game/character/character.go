package character

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/attribute"
	"github.com/cory-johannsen/charsheet/internal/game/condition"
	"github.com/cory-johannsen/charsheet/internal/game/encumbrance"
	"github.com/cory-johannsen/charsheet/internal/game/feature"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
	"github.com/cory-johannsen/charsheet/internal/game/skill"
	"github.com/cory-johannsen/charsheet/internal/game/threshold"
	"github.com/cory-johannsen/charsheet/internal/observability"
)

// Character owns a forest of carrier entities and the values derived from
// it. Every mutation triggers a full synchronous recompute; use Edit to
// batch several mutations into one.
//
// A Character is not safe for concurrent use. Close releases its formula
// evaluator.
type Character struct {
	id       string
	name     string
	bodyPlan string
	rules    *ruleset.Rules
	logger   *zap.Logger
	resolver *attribute.Resolver

	attrs      *attribute.Set
	trackers   []*attribute.Tracker
	traits     []*Trait
	skills     []*skill.Skill
	spells     []*skill.Spell
	carried    []*Equipment
	other      []*Equipment
	conditions *condition.ActiveSet

	buckets     *feature.Buckets
	strength    attribute.StrengthCalc
	encumbrance encumbrance.Level
	poolStates  map[string]string
	lastPlan    threshold.Plan
	passes      int

	latch   latch
	pending bool
}

// New creates an empty character computed with rules. An empty id is
// replaced by a new UUID.
//
// Precondition: rules must be valid.
// Postcondition: Returns a fully computed Character.
func New(id, name string, rules *ruleset.Rules, logger *zap.Logger) *Character {
	if id == "" {
		id = uuid.NewString()
	}
	c := &Character{
		id:         id,
		name:       name,
		bodyPlan:   rules.DefaultBodyPlan,
		rules:      rules,
		logger:     observability.ForCharacter(logger, id, name),
		attrs:      attribute.NewSet(rules.Attributes),
		conditions: condition.NewActiveSet(),
		buckets:    feature.NewBuckets(),
		poolStates: make(map[string]string),
	}
	c.resolver = attribute.NewResolver(rules.Attributes, rules.Trackers, c.logger)
	c.changed()
	return c
}

// Close releases the character's formula evaluator.
func (c *Character) Close() {
	c.resolver.Close()
}

// ID returns the character id.
func (c *Character) ID() string { return c.id }

// Name returns the character name.
func (c *Character) Name() string { return c.name }

// Rules returns the rules the character is computed with.
func (c *Character) Rules() *ruleset.Rules { return c.rules }

// BodyPlan returns the id of the character's body plan.
func (c *Character) BodyPlan() string { return c.bodyPlan }

// SetBodyPlan selects the character's body plan. Unknown ids fall back to
// the default plan when hit locations are resolved.
func (c *Character) SetBodyPlan(id string) {
	c.bodyPlan = id
	c.changed()
}

// Attribute returns the attribute with id.
func (c *Character) Attribute(id string) (*attribute.Attribute, bool) {
	return c.attrs.Get(id)
}

// Attributes returns the attributes in definition order.
func (c *Character) Attributes() []*attribute.Attribute {
	return c.attrs.All()
}

// AttributeValue returns the effective value of id, or attribute.Unresolved.
func (c *Character) AttributeValue(id string) float64 {
	if a, ok := c.attrs.Get(id); ok {
		return a.Effective
	}
	return attribute.Unresolved
}

// SetAttributeAdj sets the points-bought adjustment of an attribute.
func (c *Character) SetAttributeAdj(id string, adj float64) error {
	a, ok := c.attrs.Get(id)
	if !ok {
		return fmt.Errorf("character: unknown attribute %q", id)
	}
	a.Adj = adj
	c.changed()
	return nil
}

// SetDamage sets the damage taken by a pool attribute.
//
// Precondition: id names a pool attribute.
func (c *Character) SetDamage(id string, damage float64) error {
	def, ok := c.resolver.Definition(id)
	if !ok || def.Kind != attribute.KindPool {
		return fmt.Errorf("character: %q is not a pool attribute", id)
	}
	a, _ := c.attrs.Get(id)
	a.Damage = damage
	c.changed()
	return nil
}

// Trackers returns the character's resource trackers.
func (c *Character) Trackers() []*attribute.Tracker {
	return append([]*attribute.Tracker(nil), c.trackers...)
}

// AddTracker adds a tracker for the tracker definition defID.
func (c *Character) AddTracker(defID string) error {
	if c.tracker(defID) != nil {
		return fmt.Errorf("character: tracker %q already present", defID)
	}
	found := false
	for _, d := range c.rules.Trackers {
		found = found || d.ID == defID
	}
	if !found {
		return fmt.Errorf("character: unknown tracker %q", defID)
	}
	c.trackers = append(c.trackers, &attribute.Tracker{DefID: defID})
	c.changed()
	return nil
}

// SetTrackerDamage sets the amount spent from a tracker.
func (c *Character) SetTrackerDamage(defID string, damage float64) error {
	t := c.tracker(defID)
	if t == nil {
		return fmt.Errorf("character: no tracker %q", defID)
	}
	t.Damage = damage
	c.changed()
	return nil
}

func (c *Character) tracker(defID string) *attribute.Tracker {
	for _, t := range c.trackers {
		if t.DefID == defID {
			return t
		}
	}
	return nil
}

// Traits returns the top-level traits.
func (c *Character) Traits() []*Trait {
	return append([]*Trait(nil), c.traits...)
}

// AddTrait adds t under the container trait parentID, or at the top level
// when parentID is empty. Missing ids in t's subtree are assigned.
func (c *Character) AddTrait(t *Trait, parentID string) error {
	assignTraitIDs(t)
	var dup error
	walkTraits([]*Trait{t}, false, func(n *Trait) {
		if dup == nil && findTrait(c.traits, n.ID) != nil {
			dup = fmt.Errorf("character: trait %q already present", n.ID)
		}
	})
	if dup != nil {
		return dup
	}
	if parentID == "" {
		c.traits = append(c.traits, t)
	} else {
		parent := findTrait(c.traits, parentID)
		if parent == nil {
			return fmt.Errorf("character: no parent trait %q", parentID)
		}
		parent.Children = append(parent.Children, t)
	}
	c.changed()
	return nil
}

// RemoveTrait removes the trait with id and its children.
func (c *Character) RemoveTrait(id string) error {
	var removed *Trait
	if c.traits, removed = detachTrait(c.traits, id); removed == nil {
		return fmt.Errorf("character: no trait %q", id)
	}
	c.changed()
	return nil
}

// SetTraitEnabled enables or disables the trait with id.
func (c *Character) SetTraitEnabled(id string, enabled bool) error {
	t := findTrait(c.traits, id)
	if t == nil {
		return fmt.Errorf("character: no trait %q", id)
	}
	t.Disabled = !enabled
	c.changed()
	return nil
}

// Skills returns the skills and techniques.
func (c *Character) Skills() []*skill.Skill {
	return append([]*skill.Skill(nil), c.skills...)
}

// AddSkill adds a skill or technique.
func (c *Character) AddSkill(s *skill.Skill) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	for _, e := range c.skills {
		if e.ID == s.ID {
			return fmt.Errorf("character: skill %q already present", s.ID)
		}
	}
	c.skills = append(c.skills, s)
	c.changed()
	return nil
}

// RemoveSkill removes the skill with id.
func (c *Character) RemoveSkill(id string) error {
	for i, s := range c.skills {
		if s.ID == id {
			c.skills = append(c.skills[:i:i], c.skills[i+1:]...)
			c.changed()
			return nil
		}
	}
	return fmt.Errorf("character: no skill %q", id)
}

// SetSkillPoints sets the points invested in the skill with id.
func (c *Character) SetSkillPoints(id string, points float64) error {
	for _, s := range c.skills {
		if s.ID == id {
			s.Points = points
			c.changed()
			return nil
		}
	}
	return fmt.Errorf("character: no skill %q", id)
}

// Spells returns the spells and ritual spells.
func (c *Character) Spells() []*skill.Spell {
	return append([]*skill.Spell(nil), c.spells...)
}

// AddSpell adds a spell or ritual spell.
func (c *Character) AddSpell(s *skill.Spell) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	for _, e := range c.spells {
		if e.ID == s.ID {
			return fmt.Errorf("character: spell %q already present", s.ID)
		}
	}
	c.spells = append(c.spells, s)
	c.changed()
	return nil
}

// RemoveSpell removes the spell with id.
func (c *Character) RemoveSpell(id string) error {
	for i, s := range c.spells {
		if s.ID == id {
			c.spells = append(c.spells[:i:i], c.spells[i+1:]...)
			c.changed()
			return nil
		}
	}
	return fmt.Errorf("character: no spell %q", id)
}

// CarriedEquipment returns the top-level carried items.
func (c *Character) CarriedEquipment() []*Equipment {
	return append([]*Equipment(nil), c.carried...)
}

// OtherEquipment returns the top-level items that are owned but not carried.
func (c *Character) OtherEquipment() []*Equipment {
	return append([]*Equipment(nil), c.other...)
}

// AddEquipment adds e under the container parentID, or at the top level of
// the carried or other list when parentID is empty. Missing ids in e's
// subtree are assigned.
//
// Postcondition: The equipment forest has no duplicate ids and no cycles.
func (c *Character) AddEquipment(e *Equipment, parentID string, carried bool) error {
	assignEquipmentIDs(e)
	var err error
	walkEquipment([]*Equipment{e}, func(n *Equipment) {
		if err == nil && c.equipment(n.ID) != nil {
			err = fmt.Errorf("character: equipment %q already present", n.ID)
		}
	})
	if err != nil {
		return err
	}
	if parentID == "" {
		if carried {
			c.carried = append(c.carried, e)
		} else {
			c.other = append(c.other, e)
		}
		c.changed()
		return nil
	}
	parent := c.equipment(parentID)
	if parent == nil {
		return fmt.Errorf("character: no container %q", parentID)
	}
	parent.Children = append(parent.Children, e)
	c.changed()
	return nil
}

// MoveEquipment moves the item with id, with its contents, into the container
// newParentID.
//
// Precondition: newParentID is not id or any item inside it.
func (c *Character) MoveEquipment(id, newParentID string) error {
	item := c.equipment(id)
	if item == nil {
		return fmt.Errorf("character: no equipment %q", id)
	}
	if findEquipment([]*Equipment{item}, newParentID) != nil {
		return fmt.Errorf("character: moving %q into %q would create a cycle", id, newParentID)
	}
	parent := c.equipment(newParentID)
	if parent == nil {
		return fmt.Errorf("character: no container %q", newParentID)
	}
	c.detachEquipment(id)
	parent.Children = append(parent.Children, item)
	c.changed()
	return nil
}

// RemoveEquipment removes the item with id and its contents.
func (c *Character) RemoveEquipment(id string) error {
	if c.detachEquipment(id) == nil {
		return fmt.Errorf("character: no equipment %q", id)
	}
	c.changed()
	return nil
}

// SetEquipped equips or unequips the item with id.
func (c *Character) SetEquipped(id string, equipped bool) error {
	e := c.equipment(id)
	if e == nil {
		return fmt.Errorf("character: no equipment %q", id)
	}
	e.Equipped = equipped
	c.changed()
	return nil
}

func (c *Character) equipment(id string) *Equipment {
	if e := findEquipment(c.carried, id); e != nil {
		return e
	}
	return findEquipment(c.other, id)
}

func (c *Character) detachEquipment(id string) *Equipment {
	var removed *Equipment
	if c.carried, removed = detachEquipment(c.carried, id); removed != nil {
		return removed
	}
	c.other, removed = detachEquipment(c.other, id)
	return removed
}

// Conditions returns the active conditions sorted by id.
func (c *Character) Conditions() []*condition.ActiveCondition {
	return c.conditions.All()
}

// HasCondition reports whether the condition id is active.
func (c *Character) HasCondition(id string) bool {
	return c.conditions.Has(id)
}

// AddCondition applies a registered condition with the given stacks.
func (c *Character) AddCondition(id string, stacks int) error {
	def, ok := c.rules.Conditions.Get(id)
	if !ok {
		return fmt.Errorf("character: unknown condition %q", id)
	}
	if err := c.conditions.Apply(def, stacks); err != nil {
		return err
	}
	c.changed()
	return nil
}

// RemoveCondition removes the condition id. Removing an absent condition is
// a no-op.
func (c *Character) RemoveCondition(id string) {
	if !c.conditions.Has(id) {
		return
	}
	c.conditions.Remove(id)
	c.changed()
}

// PoolStates returns the threshold state of every pool attribute and tracker
// as of the last recompute.
func (c *Character) PoolStates() map[string]string {
	out := make(map[string]string, len(c.poolStates))
	for k, v := range c.poolStates {
		out[k] = v
	}
	return out
}

// LastPlan returns the threshold transitions and condition changes planned
// by the last recompute, including its deferred passes.
func (c *Character) LastPlan() threshold.Plan { return c.lastPlan }

// Passes returns the number of fixpoint passes the last recompute ran.
func (c *Character) Passes() int { return c.passes }

// Buckets returns the active features as of the last recompute.
func (c *Character) Buckets() *feature.Buckets { return c.buckets }

func assignTraitIDs(t *Trait) {
	walkTraits([]*Trait{t}, false, func(n *Trait) {
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		assignModifierIDs(n.Modifiers)
	})
}

func assignEquipmentIDs(e *Equipment) {
	walkEquipment([]*Equipment{e}, func(n *Equipment) {
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		assignModifierIDs(n.Modifiers)
	})
}

func assignModifierIDs(ms []*Modifier) {
	for _, m := range ms {
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
	}
}
