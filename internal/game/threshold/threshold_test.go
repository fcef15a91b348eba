package threshold_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/charsheet/internal/game/attribute"
	"github.com/cory-johannsen/charsheet/internal/game/threshold"
)

func add(id string) attribute.ConditionAction {
	return attribute.ConditionAction{Action: attribute.ActionAdd, Condition: id}
}

func remove(id string) attribute.ConditionAction {
	return attribute.ConditionAction{Action: attribute.ActionRemove, Condition: id}
}

func hpThresholds() attribute.Thresholds {
	return attribute.Thresholds{
		{State: "collapse", Multiplier: 0, Enter: []attribute.ConditionAction{add("collapsing")}, Leave: []attribute.ConditionAction{remove("collapsing")}},
		{State: "reeling", Multiplier: 1, Divisor: 3, Enter: []attribute.ConditionAction{add("reeling")}, Leave: []attribute.ConditionAction{remove("reeling")}},
	}
}

func TestBuild_UnchangedStateDoesNothing(t *testing.T) {
	plan := threshold.Build([]threshold.Pool{{ID: "hp", Thresholds: hpThresholds(), Previous: "reeling", Current: "reeling"}})
	assert.True(t, plan.Empty())
	assert.Empty(t, plan.Transitions)
}

func TestBuild_EnterFromNormal(t *testing.T) {
	plan := threshold.Build([]threshold.Pool{{ID: "hp", Thresholds: hpThresholds(), Previous: attribute.StateNormal, Current: "reeling"}})
	assert.Equal(t, []string{"reeling"}, plan.Add)
	assert.Empty(t, plan.Remove)
	assert.Equal(t, []threshold.Transition{{Pool: "hp", From: attribute.StateNormal, To: "reeling"}}, plan.Transitions)
}

func TestBuild_MovingBetweenStates(t *testing.T) {
	plan := threshold.Build([]threshold.Pool{{ID: "hp", Thresholds: hpThresholds(), Previous: "reeling", Current: "collapse"}})
	assert.Equal(t, []string{"collapsing"}, plan.Add)
	assert.Equal(t, []string{"reeling"}, plan.Remove)
}

func TestBuild_AddWinsOverRemove(t *testing.T) {
	ts := attribute.Thresholds{
		{State: "a", Leave: []attribute.ConditionAction{remove("dazed"), remove("dazed")}},
		{State: "b", Enter: []attribute.ConditionAction{add("dazed"), add("dazed")}},
	}
	plan := threshold.Build([]threshold.Pool{{ID: "fp", Thresholds: ts, Previous: "a", Current: "b"}})
	assert.Equal(t, []string{"dazed"}, plan.Add)
	assert.Empty(t, plan.Remove)
}

func TestBuild_AcrossPools(t *testing.T) {
	fp := attribute.Thresholds{{State: "tired", Enter: []attribute.ConditionAction{add("very_tired")}, Leave: []attribute.ConditionAction{remove("very_tired"), remove("reeling")}}}
	plan := threshold.Build([]threshold.Pool{
		{ID: "hp", Thresholds: hpThresholds(), Previous: attribute.StateNormal, Current: "reeling"},
		{ID: "fp", Thresholds: fp, Previous: "tired", Current: attribute.StateNormal},
	})
	assert.Equal(t, []string{"reeling"}, plan.Add, "entering reeling beats fp leaving it")
	assert.Equal(t, []string{"very_tired"}, plan.Remove)
}

// Property: the planned adds and removes never overlap.
func TestPropertyBuild_AddAndRemoveDisjoint(t *testing.T) {
	ids := []string{"a", "b", "c"}
	action := rapid.Custom(func(rt *rapid.T) attribute.ConditionAction {
		return attribute.ConditionAction{
			Action:    rapid.SampledFrom([]attribute.Action{attribute.ActionAdd, attribute.ActionRemove}).Draw(rt, "action"),
			Condition: rapid.SampledFrom(ids).Draw(rt, "condition"),
		}
	})
	rapid.Check(t, func(rt *rapid.T) {
		ts := attribute.Thresholds{
			{State: "x", Enter: rapid.SliceOf(action).Draw(rt, "xe"), Leave: rapid.SliceOf(action).Draw(rt, "xl")},
			{State: "y", Enter: rapid.SliceOf(action).Draw(rt, "ye"), Leave: rapid.SliceOf(action).Draw(rt, "yl")},
		}
		plan := threshold.Build([]threshold.Pool{{ID: "p", Thresholds: ts, Previous: "x", Current: "y"}})
		seen := make(map[string]bool)
		for _, id := range plan.Add {
			if seen[id] {
				rt.Fatalf("duplicate add %q", id)
			}
			seen[id] = true
		}
		for _, id := range plan.Remove {
			if seen[id] {
				rt.Fatalf("%q both added and removed", id)
			}
			seen[id] = true
		}
	})
}
