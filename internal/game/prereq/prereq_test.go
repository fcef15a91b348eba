package prereq_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/charsheet/internal/game/criteria"
	"github.com/cory-johannsen/charsheet/internal/game/prereq"
)

type fakeState struct {
	attrs     map[string]float64
	traits    []prereq.TraitView
	skills    []prereq.SkillView
	spells    []prereq.SpellView
	equipment []prereq.EquipmentView
}

func (f *fakeState) AttributeValue(id string) float64 {
	if v, ok := f.attrs[id]; ok {
		return v
	}
	return math.Inf(-1)
}
func (f *fakeState) Traits() []prereq.TraitView                { return f.traits }
func (f *fakeState) Skills() []prereq.SkillView                { return f.skills }
func (f *fakeState) Spells() []prereq.SpellView                { return f.spells }
func (f *fakeState) EquippedEquipment() []prereq.EquipmentView { return f.equipment }

func newState() *fakeState {
	return &fakeState{
		attrs:  map[string]float64{"st": 12, "dx": 11, "iq": 10},
		traits: []prereq.TraitView{{ID: "t1", Name: "Magery", Levels: 2}},
		skills: []prereq.SkillView{{ID: "s1", Name: "Karate", Level: 13}},
		spells: []prereq.SpellView{
			{ID: "sp1", Name: "Ignite Fire", Colleges: []string{"Fire"}},
			{ID: "sp2", Name: "Light", Colleges: []string{"Light and Darkness"}},
		},
	}
}

func TestEvaluate_NilListIsSatisfied(t *testing.T) {
	r := prereq.Evaluate(nil, newState(), "")
	assert.True(t, r.Satisfied)
	assert.Empty(t, r.Explanation)
}

func TestEvaluate_AttributeThreshold(t *testing.T) {
	list := &prereq.List{All: true, Prereqs: prereq.Prereqs{
		&prereq.AttributePrereq{Which: "st", Qualifier: criteria.Numeric{Compare: criteria.AtLeast, Qualifier: 13}},
	}}
	r := prereq.Evaluate(list, newState(), "")
	assert.False(t, r.Satisfied)
	assert.Contains(t, r.Explanation, "ST")
	assert.False(t, r.EquipmentPenalty)
}

func TestEvaluate_CombinedAttribute(t *testing.T) {
	list := &prereq.List{All: true, Prereqs: prereq.Prereqs{
		&prereq.AttributePrereq{Which: "st", CombinedWith: "dx", Qualifier: criteria.Numeric{Compare: criteria.AtLeast, Qualifier: 23}},
	}}
	assert.True(t, prereq.Evaluate(list, newState(), "").Satisfied)
}

func TestEvaluate_UnknownAttributeFailsSafely(t *testing.T) {
	list := &prereq.List{All: true, Prereqs: prereq.Prereqs{
		&prereq.AttributePrereq{Which: "luck", Qualifier: criteria.Numeric{Compare: criteria.AtLeast, Qualifier: 1}},
	}}
	assert.False(t, prereq.Evaluate(list, newState(), "").Satisfied)
}

func TestEvaluate_TraitExcludesOwner(t *testing.T) {
	list := &prereq.List{All: true, Prereqs: prereq.Prereqs{
		&prereq.TraitPrereq{Name: criteria.IsString("Magery")},
	}}
	assert.True(t, prereq.Evaluate(list, newState(), "other").Satisfied)
	assert.False(t, prereq.Evaluate(list, newState(), "t1").Satisfied)
}

func TestEvaluate_OrListNeedsOne(t *testing.T) {
	list := &prereq.List{All: false, Prereqs: prereq.Prereqs{
		&prereq.SkillPrereq{Name: criteria.IsString("Judo")},
		&prereq.SkillPrereq{Name: criteria.IsString("Karate"), Level: criteria.Numeric{Compare: criteria.AtLeast, Qualifier: 12}},
	}}
	assert.True(t, prereq.Evaluate(list, newState(), "").Satisfied)
}

func TestEvaluate_NegatedNode(t *testing.T) {
	list := &prereq.List{All: true, Prereqs: prereq.Prereqs{
		&prereq.TraitPrereq{Negated: true, Name: criteria.IsString("Magery")},
	}}
	r := prereq.Evaluate(list, newState(), "")
	assert.False(t, r.Satisfied)
	assert.Contains(t, r.Explanation, "Must not have")
}

func TestEvaluate_NegatedList(t *testing.T) {
	list := &prereq.List{All: true, Negated: true, Prereqs: prereq.Prereqs{
		&prereq.SkillPrereq{Name: criteria.IsString("Judo")},
	}}
	assert.True(t, prereq.Evaluate(list, newState(), "").Satisfied)
}

func TestEvaluate_PassingNegatedListAddsNothingToFailure(t *testing.T) {
	list := &prereq.List{All: true, Prereqs: prereq.Prereqs{
		&prereq.List{All: true, Negated: true, Prereqs: prereq.Prereqs{
			&prereq.EquippedEquipmentPrereq{Name: criteria.IsString("Shield")},
		}},
		&prereq.AttributePrereq{Which: "st", Qualifier: criteria.Numeric{Compare: criteria.AtLeast, Qualifier: 13}},
	}}
	r := prereq.Evaluate(list, newState(), "")
	assert.False(t, r.Satisfied)
	assert.False(t, r.EquipmentPenalty)
	assert.NotContains(t, r.Explanation, "Shield")
	assert.Contains(t, r.Explanation, "ST")
}

func TestEvaluate_FailingNegatedListNeverFlagsGear(t *testing.T) {
	st := newState()
	st.equipment = []prereq.EquipmentView{{ID: "e1", Name: "Shield"}}
	list := &prereq.List{All: true, Prereqs: prereq.Prereqs{
		&prereq.List{All: true, Negated: true, Prereqs: prereq.Prereqs{
			&prereq.EquippedEquipmentPrereq{Name: criteria.IsString("Shield")},
		}},
	}}
	r := prereq.Evaluate(list, st, "")
	assert.False(t, r.Satisfied)
	assert.False(t, r.EquipmentPenalty)
	assert.Contains(t, r.Explanation, "Must not satisfy")
}

func TestEvaluate_SpellCollegeCount(t *testing.T) {
	list := &prereq.List{All: true, Prereqs: prereq.Prereqs{
		&prereq.SpellPrereq{SubType: prereq.SpellSubCollegeCount, Quantity: criteria.Numeric{Compare: criteria.AtLeast, Qualifier: 2}},
	}}
	assert.True(t, prereq.Evaluate(list, newState(), "").Satisfied)

	list.Prereqs[0].(*prereq.SpellPrereq).Quantity.Qualifier = 3
	assert.False(t, prereq.Evaluate(list, newState(), "").Satisfied)
}

func TestEvaluate_MissingGearSetsEquipmentPenalty(t *testing.T) {
	list := &prereq.List{All: true, Prereqs: prereq.Prereqs{
		&prereq.EquippedEquipmentPrereq{Name: criteria.IsString("Lockpicks")},
	}}
	r := prereq.Evaluate(list, newState(), "")
	assert.False(t, r.Satisfied)
	assert.True(t, r.EquipmentPenalty)

	st := newState()
	st.equipment = []prereq.EquipmentView{{ID: "e1", Name: "Lockpicks"}}
	r = prereq.Evaluate(list, st, "")
	assert.True(t, r.Satisfied)
	assert.False(t, r.EquipmentPenalty)
}

func TestEvaluate_SatisfiedAlternativeClearsEquipmentPenalty(t *testing.T) {
	list := &prereq.List{All: false, Prereqs: prereq.Prereqs{
		&prereq.EquippedEquipmentPrereq{Name: criteria.IsString("Lockpicks")},
		&prereq.TraitPrereq{Name: criteria.IsString("Magery")},
	}}
	r := prereq.Evaluate(list, newState(), "")
	assert.True(t, r.Satisfied)
	assert.False(t, r.EquipmentPenalty)
}

const nestedYAML = `
all: true
prereqs:
  - type: attribute
    which: st
    qualifier: {compare: at_least, qualifier: 10}
  - type: list
    all: false
    prereqs:
      - type: trait
        name: {compare: is, qualifier: Magery}
      - type: equipped_equipment
        name: {compare: contains, qualifier: staff}
`

func TestList_DecodesNestedTree(t *testing.T) {
	var list prereq.List
	require.NoError(t, yaml.Unmarshal([]byte(nestedYAML), &list))
	require.Len(t, list.Prereqs, 2)
	inner, ok := list.Prereqs[1].(*prereq.List)
	require.True(t, ok)
	assert.Len(t, inner.Prereqs, 2)
	assert.True(t, prereq.Evaluate(&list, newState(), "").Satisfied)

	out, err := yaml.Marshal(&list)
	require.NoError(t, err)
	var again prereq.List
	require.NoError(t, yaml.Unmarshal(out, &again))
	assert.Equal(t, list, again)
}

func TestList_UnknownTypeIsAnError(t *testing.T) {
	var list prereq.List
	err := yaml.Unmarshal([]byte("prereqs:\n  - type: karma\n"), &list)
	assert.ErrorContains(t, err, "karma")
}
