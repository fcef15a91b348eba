package attribute

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/feature"
	"github.com/cory-johannsen/charsheet/internal/scripting"
)

// MaxCostReduction caps the summed cost reduction percentage.
const MaxCostReduction = 80

// StrengthCalc holds the limited Strength bonuses, which apply to one use of
// Strength and are kept off the attribute itself.
type StrengthCalc struct {
	LiftingBonus  float64
	StrikingBonus float64
	ThrowingBonus float64
}

// Resolver computes attribute values from definitions and feature buckets.
// It owns a formula evaluator and must be closed.
//
// A Resolver is not safe for concurrent use.
type Resolver struct {
	defs     map[string]Definition
	trackers map[string]TrackerDefinition
	eval     *scripting.Evaluator
	logger   *zap.Logger
}

// NewResolver creates a Resolver for defs and trackers.
//
// Postcondition: Returns a non-nil Resolver; nil logger is replaced by a no-op logger.
func NewResolver(defs []Definition, trackers []TrackerDefinition, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Resolver{
		defs:     make(map[string]Definition, len(defs)),
		trackers: make(map[string]TrackerDefinition, len(trackers)),
		eval:     scripting.NewEvaluator(0),
		logger:   logger,
	}
	for _, d := range defs {
		r.defs[d.ID] = d
	}
	for _, t := range trackers {
		r.trackers[t.ID] = t
	}
	return r
}

// Close releases the formula evaluator.
func (r *Resolver) Close() {
	r.eval.Close()
}

// Definition returns the definition for id.
func (r *Resolver) Definition(id string) (Definition, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// Resolve writes base, bonus, cost reduction, max, current, effective, and
// points onto every attribute in set, then applies Strength halving from the
// active pool thresholds. Formula references to unknown or cyclic attributes
// resolve to Unresolved.
//
// Postcondition: Every attribute in set has its derived fields written.
func (r *Resolver) Resolve(set *Set, b *feature.Buckets) StrengthCalc {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(set.byID))

	var resolve func(id string) float64
	lookup := func(id string) float64 { return resolve(id) }
	resolve = func(id string) float64 {
		a, ok := set.byID[id]
		if !ok {
			return Unresolved
		}
		def, ok := r.defs[id]
		if !ok {
			return Unresolved
		}
		switch state[id] {
		case done:
			return a.Max
		case visiting:
			r.logger.Debug("attribute formula cycle", zap.String("attribute", id))
			return Unresolved
		}
		state[id] = visiting
		base, err := r.eval.Eval(def.Base, lookup)
		if err != nil {
			r.logger.Warn("evaluating attribute formula",
				zap.String("attribute", id),
				zap.String("formula", def.Base),
				zap.Error(err),
			)
			base = Unresolved
		}
		r.apply(a, def, Normalize(base), b)
		state[id] = done
		return a.Max
	}

	for _, id := range set.order {
		resolve(id)
	}

	if st, ok := set.byID[ST]; ok {
		st.Effective = Normalize(Halve(st.Current, r.OpCount(set, OpHalveST)))
	}
	return StrengthCalc{
		LiftingBonus:  b.AttributeBonusFor(ST, feature.LimitLifting),
		StrikingBonus: b.AttributeBonusFor(ST, feature.LimitStriking),
		ThrowingBonus: b.AttributeBonusFor(ST, feature.LimitThrowing),
	}
}

func (r *Resolver) apply(a *Attribute, def Definition, base float64, b *feature.Buckets) {
	a.Base = base
	a.Bonus = b.AttributeBonusFor(def.ID, feature.LimitNone)
	a.CostReduction = clamp(b.CostReductionFor(def.ID), 0, MaxCostReduction)
	a.Max = Normalize(clampOpt(base+a.Adj+a.Bonus, def.Min, def.Max))
	a.Current = a.Max
	if def.Kind == KindPool {
		a.Current = Normalize(clampOpt(a.Max-a.Damage, def.Min, nil))
	}
	a.Effective = a.Current
	a.Points = PointCost(a.Adj, def.CostPerPoint, a.CostReduction)
}

// Derived resolves a synthetic id such as Dodge from attribute bonuses alone.
func (r *Resolver) Derived(id string, b *feature.Buckets) float64 {
	return b.AttributeBonusFor(id, feature.LimitNone)
}

// OpCount counts the pool attributes in set whose active threshold carries
// op.
func (r *Resolver) OpCount(set *Set, op Op) int {
	n := 0
	for _, id := range set.order {
		def, ok := r.defs[id]
		if !ok || def.Kind != KindPool {
			continue
		}
		a := set.byID[id]
		if t, ok := Thresholds(def.Thresholds).Find(a.Current, a.Max); ok && t.HasOp(op) {
			n++
		}
	}
	return n
}

// PoolStates returns the threshold state of every pool attribute in set,
// keyed by attribute id.
func (r *Resolver) PoolStates(set *Set) map[string]string {
	out := make(map[string]string)
	for _, id := range set.order {
		def, ok := r.defs[id]
		if !ok || def.Kind != KindPool {
			continue
		}
		a := set.byID[id]
		out[id] = def.StateFor(a.Current, a.Max)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampOpt(v float64, lo, hi *float64) float64 {
	if lo != nil && v < *lo {
		v = *lo
	}
	if hi != nil && v > *hi {
		v = *hi
	}
	return v
}
