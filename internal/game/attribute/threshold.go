package attribute

import (
	"errors"
	"fmt"
	"math"
)

// StateNormal is the implicit state of a pool above every threshold.
const StateNormal = "normal"

// Op is a threshold operator that halves a derived quantity while the
// threshold is active.
type Op string

// Threshold operators.
const (
	OpHalveMove  Op = "halve_move"
	OpHalveDodge Op = "halve_dodge"
	OpHalveST    Op = "halve_st"
)

// Action is the direction of a ConditionAction.
type Action string

// Condition actions.
const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
)

// ConditionAction adds or removes a named condition.
type ConditionAction struct {
	Action    Action `yaml:"action"`
	Condition string `yaml:"condition"`
}

// Threshold is one named state of a pool attribute.
type Threshold struct {
	State       string            `yaml:"state"`
	Explanation string            `yaml:"explanation,omitempty"`
	Multiplier  float64           `yaml:"multiplier"`
	Divisor     float64           `yaml:"divisor"`
	Addition    float64           `yaml:"addition"`
	Ops         []Op              `yaml:"ops,omitempty"`
	Enter       []ConditionAction `yaml:"enter,omitempty"`
	Leave       []ConditionAction `yaml:"leave,omitempty"`
}

// Boundary returns the highest current value at which the threshold applies.
// A zero divisor is treated as one.
func (t Threshold) Boundary(max float64) float64 {
	div := t.Divisor
	if div == 0 {
		div = 1
	}
	return max*t.Multiplier/div + t.Addition
}

// HasOp reports whether the threshold carries op.
func (t Threshold) HasOp(op Op) bool {
	for _, o := range t.Ops {
		if o == op {
			return true
		}
	}
	return false
}

// Validate checks the threshold's invariants.
func (t Threshold) Validate() error {
	var errs []error
	if t.State == "" {
		errs = append(errs, errors.New("state must not be empty"))
	}
	if t.State == StateNormal {
		errs = append(errs, fmt.Errorf("state %q is reserved", StateNormal))
	}
	if t.Divisor < 0 {
		errs = append(errs, fmt.Errorf("divisor %v must not be negative", t.Divisor))
	}
	for _, op := range t.Ops {
		switch op {
		case OpHalveMove, OpHalveDodge, OpHalveST:
		default:
			errs = append(errs, fmt.Errorf("unknown op %q", op))
		}
	}
	for _, a := range append(append([]ConditionAction(nil), t.Enter...), t.Leave...) {
		if a.Action != ActionAdd && a.Action != ActionRemove {
			errs = append(errs, fmt.Errorf("unknown action %q for condition %q", a.Action, a.Condition))
		}
		if a.Condition == "" {
			errs = append(errs, errors.New("condition action must name a condition"))
		}
	}
	return errors.Join(errs...)
}

// Thresholds is an ordered threshold list. Order matters: the first match
// wins.
type Thresholds []Threshold

// Find returns the first threshold whose boundary is at or above current.
func (ts Thresholds) Find(current, max float64) (Threshold, bool) {
	for _, t := range ts {
		if current <= t.Boundary(max) {
			return t, true
		}
	}
	return Threshold{}, false
}

// ByState returns the threshold named state.
func (ts Thresholds) ByState(state string) (Threshold, bool) {
	for _, t := range ts {
		if t.State == state {
			return t, true
		}
	}
	return Threshold{}, false
}

// StateFor returns the state name for current, or StateNormal.
func (ts Thresholds) StateFor(current, max float64) string {
	if t, ok := ts.Find(current, max); ok {
		return t.State
	}
	return StateNormal
}

// Halve divides value by 2 × min(2, count) and rounds up. A count of zero or
// less leaves value unchanged.
//
// Postcondition: Halve(v, 0) == v; Halve(v, n) <= v for v >= 0.
func Halve(value float64, count int) float64 {
	if count <= 0 {
		return value
	}
	if count > 2 {
		count = 2
	}
	return math.Ceil(value / float64(2*count))
}
