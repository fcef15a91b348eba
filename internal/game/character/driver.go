package character

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/attribute"
	"github.com/cory-johannsen/charsheet/internal/game/encumbrance"
	"github.com/cory-johannsen/charsheet/internal/game/feature"
	"github.com/cory-johannsen/charsheet/internal/game/skill"
	"github.com/cory-johannsen/charsheet/internal/game/threshold"
)

// MaxPasses caps the fixpoint loop of one recompute.
const MaxPasses = 5

// maxDeferred caps the recomputes run for requests made while a recompute
// was in progress.
const maxDeferred = 5

// latch is the recompute state of a character.
type latch int

const (
	latchIdle latch = iota
	latchEditing
	latchComputing
)

// changed requests a recompute. While editing or computing the request is
// recorded and served once the current operation finishes.
func (c *Character) changed() {
	if c.latch != latchIdle {
		c.pending = true
		return
	}
	c.recompute()
}

// Recompute recomputes every derived value.
func (c *Character) Recompute() {
	c.changed()
}

// Edit applies fn with a single recompute afterwards. The recompute runs
// even when fn fails part way, since earlier mutations have taken effect.
// A nested Edit runs fn inside the outer batch.
func (c *Character) Edit(fn func(*Character) error) error {
	if c.latch != latchIdle {
		err := fn(c)
		c.pending = true
		return err
	}
	c.latch = latchEditing
	err := fn(c)
	c.latch = latchIdle
	c.pending = false
	c.recompute()
	return err
}

func (c *Character) recompute() {
	c.latch = latchComputing
	c.lastPlan = threshold.Plan{}
	defer func() {
		c.latch = latchIdle
		c.pending = false
	}()
	c.pass()
	for i := 1; c.pending && i <= maxDeferred; i++ {
		c.pending = false
		c.logger.Debug("running deferred recompute", zap.Int("deferred", i))
		c.pass()
	}
	if c.pending {
		c.logger.Debug("deferred recompute limit reached", zap.Int("limit", maxDeferred))
	}
}

// pass resolves attributes and levels once, loops aggregation, prerequisite
// satisfaction, and level updates until no level changes or MaxPasses is
// reached, then applies pool threshold transitions.
func (c *Character) pass() {
	calc := skill.NewCalculator(calcContext{c}, c.logger)

	c.buckets = c.aggregate()
	c.strength = c.resolver.Resolve(c.attrs, c.buckets)
	c.encumbrance = encumbrance.Current(c.CarriedWeight(), c.BasicLift())
	c.updateLevels(calc)

	converged := false
	c.passes = 0
	for !converged && c.passes < MaxPasses {
		c.passes++
		c.buckets = c.aggregate()
		c.satisfy()
		converged = !c.updateLevels(calc)
	}
	if !converged {
		c.logger.Debug("fixpoint pass limit reached", zap.Int("passes", c.passes))
	}

	c.resolver.ResolveTrackers(c.trackers, c.attrs)
	c.applyThresholds()
}

// updateLevels recomputes every skill then every spell and reports whether
// any level changed.
func (c *Character) updateLevels(calc *skill.Calculator) bool {
	changed := false
	for _, s := range c.skills {
		if calc.UpdateSkill(s) {
			changed = true
		}
	}
	for _, s := range c.spells {
		if calc.UpdateSpell(s) {
			changed = true
		}
	}
	return changed
}

// applyThresholds compares every pool's state with the state cached by the
// previous recompute and applies the net condition changes. Condition
// changes request a deferred recompute. The cache is replaced afterwards.
func (c *Character) applyThresholds() {
	current := c.resolver.PoolStates(c.attrs)
	var pools []threshold.Pool
	for _, def := range c.rules.Attributes {
		if def.Kind != attribute.KindPool {
			continue
		}
		pools = append(pools, threshold.Pool{
			ID:         def.ID,
			Thresholds: def.Thresholds,
			Previous:   c.previousState(def.ID),
			Current:    current[def.ID],
		})
	}
	for _, def := range c.rules.Trackers {
		t := c.tracker(def.ID)
		if t == nil {
			continue
		}
		current[def.ID] = t.State
		pools = append(pools, threshold.Pool{
			ID:         def.ID,
			Thresholds: def.Thresholds,
			Previous:   c.previousState(def.ID),
			Current:    t.State,
		})
	}

	plan := threshold.Build(pools)
	for _, tr := range plan.Transitions {
		c.logger.Info("pool threshold transition",
			zap.String("pool", tr.Pool),
			zap.String("from", tr.From),
			zap.String("to", tr.To),
		)
	}
	for _, id := range plan.Add {
		if c.conditions.Has(id) {
			continue
		}
		def, ok := c.rules.Conditions.Get(id)
		if !ok {
			c.logger.Warn("threshold names unknown condition", zap.String("condition", id))
			continue
		}
		if err := c.conditions.Apply(def, 1); err != nil {
			c.logger.Warn("applying condition", zap.String("condition", id), zap.Error(err))
			continue
		}
		c.logger.Info("condition added", zap.String("condition", id))
		c.changed()
	}
	for _, id := range plan.Remove {
		if !c.conditions.Has(id) {
			continue
		}
		c.conditions.Remove(id)
		c.logger.Info("condition removed", zap.String("condition", id))
		c.changed()
	}
	c.lastPlan.Transitions = append(c.lastPlan.Transitions, plan.Transitions...)
	c.lastPlan.Add = append(c.lastPlan.Add, plan.Add...)
	c.lastPlan.Remove = append(c.lastPlan.Remove, plan.Remove...)
	c.poolStates = current
}

func (c *Character) previousState(id string) string {
	if s, ok := c.poolStates[id]; ok {
		return s
	}
	return attribute.StateNormal
}

// calcContext exposes the character to the skill calculator.
type calcContext struct {
	c *Character
}

func (x calcContext) AttributeValue(id string) float64 { return x.c.AttributeValue(id) }
func (x calcContext) Skills() []*skill.Skill           { return x.c.skills }
func (x calcContext) Bonuses() *feature.Buckets        { return x.c.buckets }
func (x calcContext) EncumbrancePenalty() float64 {
	return float64(x.c.encumbrance.Penalty())
}
