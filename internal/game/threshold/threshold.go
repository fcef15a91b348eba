// Package threshold plans the condition changes caused by pool attributes
// moving between threshold states.
package threshold

import (
	"github.com/cory-johannsen/charsheet/internal/game/attribute"
)

// Transition is a pool moving from one state to another.
type Transition struct {
	Pool string
	From string
	To   string
}

// Plan is the net set of condition changes for a recompute.
type Plan struct {
	Transitions []Transition
	Add         []string
	Remove      []string
}

// Empty reports whether the plan changes nothing.
func (p Plan) Empty() bool {
	return len(p.Add) == 0 && len(p.Remove) == 0
}

// Pool is one pool attribute's definition and its previous and current
// states.
type Pool struct {
	ID         string
	Thresholds attribute.Thresholds
	Previous   string
	Current    string
}

// Build merges the leave actions of each pool's previous state with the enter
// actions of its new state. Pools whose state is unchanged contribute
// nothing. When a condition is both added and removed, the add wins.
// Duplicates are dropped and first-seen order is kept.
//
// Postcondition: Add and Remove are disjoint.
func Build(pools []Pool) Plan {
	var plan Plan
	var actions []attribute.ConditionAction
	for _, p := range pools {
		if p.Previous == p.Current {
			continue
		}
		plan.Transitions = append(plan.Transitions, Transition{Pool: p.ID, From: p.Previous, To: p.Current})
		if old, ok := p.Thresholds.ByState(p.Previous); ok {
			actions = append(actions, old.Leave...)
		}
		if cur, ok := p.Thresholds.ByState(p.Current); ok {
			actions = append(actions, cur.Enter...)
		}
	}

	added := make(map[string]bool)
	for _, a := range actions {
		if a.Action == attribute.ActionAdd && !added[a.Condition] {
			added[a.Condition] = true
			plan.Add = append(plan.Add, a.Condition)
		}
	}
	removed := make(map[string]bool)
	for _, a := range actions {
		if a.Action == attribute.ActionRemove && !added[a.Condition] && !removed[a.Condition] {
			removed[a.Condition] = true
			plan.Remove = append(plan.Remove, a.Condition)
		}
	}
	return plan
}
