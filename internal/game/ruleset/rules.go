// Package ruleset provides the rule tables every character is computed with:
// attribute and tracker definitions, body plans, conditions, and rule
// toggles. Rules are built once and injected; nothing reads them globally.
package ruleset

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/charsheet/internal/game/attribute"
	"github.com/cory-johannsen/charsheet/internal/game/condition"
	"github.com/cory-johannsen/charsheet/internal/game/encumbrance"
	"github.com/cory-johannsen/charsheet/internal/game/hitlocation"
)

// Rules is the read-only settings a character is computed with.
type Rules struct {
	Attributes        []attribute.Definition
	Trackers          []attribute.TrackerDefinition
	BodyPlans         map[string]*hitlocation.Table
	DefaultBodyPlan   string
	Conditions        *condition.Registry
	DamageProgression attribute.Progression
	WeightUnits       encumbrance.Units
}

// BodyPlan returns the body plan with id.
func (r *Rules) BodyPlan(id string) (*hitlocation.Table, bool) {
	t, ok := r.BodyPlans[id]
	return t, ok
}

// BodyPlanOrDefault returns the body plan with id, falling back to the
// default plan and then to the built-in humanoid. fellBack reports whether id
// was not found.
//
// Postcondition: Returns a non-nil table.
func (r *Rules) BodyPlanOrDefault(id string) (t *hitlocation.Table, fellBack bool) {
	if t, ok := r.BodyPlans[id]; ok {
		return t, false
	}
	if t, ok := r.BodyPlans[r.DefaultBodyPlan]; ok {
		return t, true
	}
	return hitlocation.DefaultHumanoid(), true
}

// Validate checks every table and that threshold actions name registered
// conditions.
//
// Postcondition: Returns nil or an error describing every violation.
func (r *Rules) Validate() error {
	var errs []error
	seen := make(map[string]bool)
	for _, d := range r.Attributes {
		if err := d.Validate(); err != nil {
			errs = append(errs, err)
		}
		if d.ID != "" && seen[d.ID] {
			errs = append(errs, fmt.Errorf("duplicate attribute %q", d.ID))
		}
		seen[d.ID] = true
		errs = append(errs, r.checkActions("attribute", d.ID, d.Thresholds)...)
	}
	for _, d := range r.Trackers {
		if err := d.Validate(); err != nil {
			errs = append(errs, err)
		}
		if d.ID != "" && seen[d.ID] {
			errs = append(errs, fmt.Errorf("tracker %q collides with another id", d.ID))
		}
		seen[d.ID] = true
		errs = append(errs, r.checkActions("tracker", d.ID, d.Thresholds)...)
	}
	for id, t := range r.BodyPlans {
		if err := t.Validate(); err != nil {
			errs = append(errs, err)
		}
		if t.ID != id {
			errs = append(errs, fmt.Errorf("body plan registered as %q has id %q", id, t.ID))
		}
	}
	if _, ok := r.BodyPlans[r.DefaultBodyPlan]; !ok {
		errs = append(errs, fmt.Errorf("default body plan %q is not defined", r.DefaultBodyPlan))
	}
	if err := r.DamageProgression.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := r.WeightUnits.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid rules: %w", errors.Join(errs...))
}

func (r *Rules) checkActions(what, id string, ts []attribute.Threshold) []error {
	var errs []error
	for _, t := range ts {
		for _, a := range append(append([]attribute.ConditionAction(nil), t.Enter...), t.Leave...) {
			if r.Conditions == nil {
				errs = append(errs, fmt.Errorf("%s %q: no condition registry", what, id))
				return errs
			}
			if _, ok := r.Conditions.Get(a.Condition); !ok {
				errs = append(errs, fmt.Errorf("%s %q threshold %q: unknown condition %q", what, id, t.State, a.Condition))
			}
		}
	}
	return errs
}
