package attribute

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// TrackerDefinition describes a resource tracker such as ammunition or
// sanity. Trackers resemble pools but take no feature bonuses.
type TrackerDefinition struct {
	ID         string      `yaml:"id"`
	Name       string      `yaml:"name"`
	Base       string      `yaml:"base"`
	Min        *float64    `yaml:"min,omitempty"`
	Thresholds []Threshold `yaml:"thresholds,omitempty"`
}

// Validate checks the tracker definition's invariants.
func (d TrackerDefinition) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	for i, t := range d.Thresholds {
		if err := t.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("threshold %d: %w", i, err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("tracker %q: %w", d.ID, errors.Join(errs...))
}

// Tracker is a character's instance of a TrackerDefinition.
type Tracker struct {
	DefID  string
	Damage float64

	// Derived by ResolveTrackers.
	Max     float64
	Current float64
	State   string
}

// ResolveTrackers writes max, current, and state onto every tracker. Tracker
// base formulas may reference attribute values, which must already be
// resolved in set.
func (r *Resolver) ResolveTrackers(trackers []*Tracker, set *Set) {
	lookup := func(id string) float64 {
		if a, ok := set.byID[id]; ok {
			return a.Max
		}
		return Unresolved
	}
	for _, t := range trackers {
		def, ok := r.trackers[t.DefID]
		if !ok {
			t.Max, t.Current, t.State = Unresolved, Unresolved, StateNormal
			continue
		}
		max, err := r.eval.Eval(def.Base, lookup)
		if err != nil {
			r.logger.Warn("evaluating tracker formula",
				zap.String("tracker", def.ID),
				zap.String("formula", def.Base),
				zap.Error(err),
			)
			max = Unresolved
		}
		t.Max = Normalize(max)
		t.Current = Normalize(clampOpt(t.Max-t.Damage, def.Min, nil))
		t.State = Thresholds(def.Thresholds).StateFor(t.Current, t.Max)
	}
}
