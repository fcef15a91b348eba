package skill

import (
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/attribute"
	"github.com/cory-johannsen/charsheet/internal/game/feature"
)

// Context is the resolved character state levels are computed against.
type Context interface {
	AttributeValue(id string) float64
	Skills() []*Skill
	Bonuses() *feature.Buckets
	// EncumbrancePenalty is the current encumbrance tier penalty, zero or
	// negative.
	EncumbrancePenalty() float64
}

type key struct {
	name, specialization string
}

func keyOf(name, specialization string) key {
	return key{strings.ToLower(name), strings.ToLower(specialization)}
}

// Calculator computes levels. Skill defaults are taken only from skills
// bought with points; techniques and ritual spells may build on a skill known
// at default. Resolution runs behind an exclusion stack so a skill that
// defaults to itself resolves to attribute.Unresolved instead of recursing.
//
// A Calculator is not safe for concurrent use.
type Calculator struct {
	ctx    Context
	logger *zap.Logger
	stack  []key
}

// NewCalculator creates a Calculator over ctx.
//
// Postcondition: Returns a non-nil Calculator; nil logger is replaced by a no-op logger.
func NewCalculator(ctx Context, logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{ctx: ctx, logger: logger}
}

// UpdateSkill recomputes s.Level and reports whether it changed.
func (c *Calculator) UpdateSkill(s *Skill) bool {
	lvl := normalized(c.SkillLevel(s))
	changed := lvl != s.Level
	s.Level = lvl
	return changed
}

// UpdateSpell recomputes s.Level and reports whether it changed.
func (c *Calculator) UpdateSpell(s *Spell) bool {
	lvl := normalized(c.SpellLevel(s))
	changed := lvl != s.Level
	s.Level = lvl
	return changed
}

// normalized collapses an unresolved level, NaN included, to the sentinel
// so that comparing it with the cached level is stable.
func normalized(l Level) Level {
	if attribute.IsUnresolved(l.Level) {
		return Level{Level: attribute.Unresolved}
	}
	l.RelativeLevel = attribute.Normalize(l.RelativeLevel)
	return l
}

// SkillLevel computes the level of a skill or technique without storing it.
func (c *Calculator) SkillLevel(s *Skill) Level {
	k := keyOf(s.Name, s.Specialization)
	if c.onStack(k) {
		c.logger.Debug("skill default cycle",
			zap.String("skill", s.Name),
			zap.String("specialization", s.Specialization),
		)
		return Level{Level: attribute.Unresolved}
	}
	c.stack = append(c.stack, k)
	defer func() { c.stack = c.stack[:len(c.stack)-1] }()

	if s.Kind == KindTechnique {
		return c.techniqueLevel(s)
	}
	return c.skillLevel(s)
}

func (c *Calculator) onStack(k key) bool {
	for _, e := range c.stack {
		if e == k {
			return true
		}
	}
	return false
}

func (c *Calculator) skillLevel(s *Skill) Level {
	b := c.ctx.Bonuses()
	attr := c.ctx.AttributeValue(s.Difficulty.Attribute)
	if attribute.IsUnresolved(attr) {
		return Level{Level: attribute.Unresolved}
	}
	pts := s.Points + b.SkillPointBonusFor(s.Name, s.Specialization, s.Tags)
	rel, bought := s.Difficulty.Tier.RelativeForPoints(pts)
	level := attr + rel
	if !bought {
		level = c.bestDefault(s)
		if attribute.IsUnresolved(level) {
			return Level{Level: attribute.Unresolved}
		}
		rel = level - attr
	}
	bonus := b.SkillBonusFor(s.Name, s.Specialization, s.Tags) + c.encumbrance(s.EncumbrancePenaltyMultiplier)
	return Level{Level: level + bonus, RelativeLevel: rel + bonus}
}

func (c *Calculator) techniqueLevel(s *Skill) Level {
	if s.TechniqueDefault == nil {
		return Level{Level: attribute.Unresolved}
	}
	base := c.defaultBase(*s.TechniqueDefault)
	if attribute.IsUnresolved(base) {
		return Level{Level: attribute.Unresolved}
	}
	b := c.ctx.Bonuses()
	rel := s.TechniqueDefault.Modifier
	pts := s.Points + b.SkillPointBonusFor(s.Name, s.Specialization, s.Tags)
	if s.Difficulty.Tier == Hard && pts > 0 {
		pts--
	}
	if pts > 0 {
		rel += pts
	}
	rel += b.SkillBonusFor(s.Name, s.Specialization, s.Tags) + c.encumbrance(s.EncumbrancePenaltyMultiplier)
	level := base + rel
	if s.TechniqueLimit != nil {
		if max := base + *s.TechniqueLimit; level > max {
			rel -= level - max
			level = max
		}
	}
	return Level{Level: level, RelativeLevel: rel}
}

// SpellLevel computes the level of a spell or ritual spell without storing
// it.
func (c *Calculator) SpellLevel(s *Spell) Level {
	if s.Kind == KindRitualSpell {
		return c.ritualLevel(s)
	}
	b := c.ctx.Bonuses()
	attrID := s.Difficulty.Attribute
	if attrID == "" {
		attrID = attribute.IQ
	}
	attr := c.ctx.AttributeValue(attrID)
	if attribute.IsUnresolved(attr) {
		return Level{Level: attribute.Unresolved}
	}
	pts := s.Points + b.SpellPointBonusFor(s.Name, s.PowerSource, s.Colleges, s.Tags)
	rel, bought := s.Difficulty.Tier.RelativeForPoints(pts)
	if !bought {
		return Level{Level: attribute.Unresolved}
	}
	rel += b.SpellBonusFor(s.Name, s.PowerSource, s.Colleges, s.Tags)
	return Level{Level: attr + rel, RelativeLevel: rel}
}

func (c *Calculator) ritualLevel(s *Spell) Level {
	base := attribute.Unresolved
	if len(s.Colleges) == 0 {
		base = c.bestSkill(s.BaseSkill, "", false)
	}
	for _, college := range s.Colleges {
		base = math.Max(base, c.bestSkill(s.BaseSkill, college, false))
	}
	if attribute.IsUnresolved(base) {
		return Level{Level: attribute.Unresolved}
	}
	b := c.ctx.Bonuses()
	rel := -float64(s.PrereqCount)
	pts := s.Points + b.SpellPointBonusFor(s.Name, s.PowerSource, s.Colleges, s.Tags)
	if s.Difficulty.Tier == Hard && pts > 0 {
		pts--
	}
	if pts > 0 {
		rel += pts
	}
	rel += b.SpellBonusFor(s.Name, s.PowerSource, s.Colleges, s.Tags)
	return Level{Level: base + rel, RelativeLevel: rel}
}

func (c *Calculator) bestDefault(s *Skill) float64 {
	best := attribute.Unresolved
	for _, d := range s.Defaults {
		var base float64
		if strings.EqualFold(d.Type, DefaultSkill) {
			base = c.bestSkill(d.Name, d.Specialization, true)
		} else {
			base = c.ctx.AttributeValue(d.Type)
		}
		best = math.Max(best, base+d.Modifier)
	}
	return best
}

// defaultBase resolves the value a technique default is taken from, before
// its modifier. The base skill may itself be known only at default.
func (c *Calculator) defaultBase(d Default) float64 {
	if strings.EqualFold(d.Type, DefaultSkill) {
		return c.bestSkill(d.Name, d.Specialization, false)
	}
	return c.ctx.AttributeValue(d.Type)
}

// bestSkill returns the highest level among skills named name. An empty
// specialization matches any. With requirePoints only skills bought with
// points are candidates, so a skill default never chains through another
// default and resolution stays one level deep.
func (c *Calculator) bestSkill(name, specialization string, requirePoints bool) float64 {
	best := attribute.Unresolved
	for _, sk := range c.ctx.Skills() {
		if sk.Kind == KindTechnique || !strings.EqualFold(sk.Name, name) {
			continue
		}
		if specialization != "" && !strings.EqualFold(sk.Specialization, specialization) {
			continue
		}
		if requirePoints && !c.onStack(keyOf(sk.Name, sk.Specialization)) && !c.bought(sk) {
			continue
		}
		best = math.Max(best, c.SkillLevel(sk).Level)
	}
	return best
}

// bought reports whether sk's points, including point bonuses, buy a level.
func (c *Calculator) bought(sk *Skill) bool {
	pts := sk.Points + c.ctx.Bonuses().SkillPointBonusFor(sk.Name, sk.Specialization, sk.Tags)
	_, ok := sk.Difficulty.Tier.RelativeForPoints(pts)
	return ok
}

func (c *Calculator) encumbrance(multiplier float64) float64 {
	if multiplier == 0 {
		return 0
	}
	return c.ctx.EncumbrancePenalty() * multiplier
}
