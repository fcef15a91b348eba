package condition

import (
	"fmt"
	"sort"
)

// ActiveCondition tracks one applied condition on a character. Stacks is the
// level count used to stamp the condition's per-level features.
type ActiveCondition struct {
	Def    *ConditionDef
	Stacks int
}

// ActiveSet tracks all conditions currently applied to one character.
// It is not safe for concurrent use; the caller must serialise access.
type ActiveSet struct {
	conditions map[string]*ActiveCondition
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{conditions: make(map[string]*ActiveCondition)}
}

// Apply adds or updates a condition.
// If the condition is already present, stacks are incremented (capped at MaxStacks).
// If MaxStacks == 0 (unstackable), stacks is always stored as 1.
//
// Precondition: def must not be nil.
// Postcondition: Has(def.ID) is true; stacks never exceed max(1, MaxStacks).
func (s *ActiveSet) Apply(def *ConditionDef, stacks int) error {
	if def == nil {
		return fmt.Errorf("Apply: def must not be nil")
	}
	if stacks < 1 {
		stacks = 1
	}

	if existing, ok := s.conditions[def.ID]; ok {
		if def.MaxStacks == 0 {
			return nil
		}
		existing.Stacks = min(existing.Stacks+stacks, def.MaxStacks)
		return nil
	}

	effective := stacks
	if def.MaxStacks == 0 {
		effective = 1
	} else if effective > def.MaxStacks {
		effective = def.MaxStacks
	}
	s.conditions[def.ID] = &ActiveCondition{Def: def, Stacks: effective}
	return nil
}

// Remove deletes the condition with the given ID from the set.
// If the condition is not present, Remove is a no-op.
//
// Postcondition: Has(id) is false.
func (s *ActiveSet) Remove(id string) {
	delete(s.conditions, id)
}

// Has reports whether the condition with id is currently active.
func (s *ActiveSet) Has(id string) bool {
	_, ok := s.conditions[id]
	return ok
}

// Stacks returns the current stack count for condition id, or 0 if not present.
func (s *ActiveSet) Stacks(id string) int {
	if ac, ok := s.conditions[id]; ok {
		return ac.Stacks
	}
	return 0
}

// Len returns the number of active conditions.
func (s *ActiveSet) Len() int {
	return len(s.conditions)
}

// All returns the active conditions sorted by ID.
// The slice itself is a new allocation, but the pointed-to ActiveCondition
// values are shared; callers must not modify them.
func (s *ActiveSet) All() []*ActiveCondition {
	out := make([]*ActiveCondition, 0, len(s.conditions))
	for _, ac := range s.conditions {
		out = append(out, ac)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Def.ID < out[j].Def.ID })
	return out
}
