package attribute_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/charsheet/internal/game/attribute"
	"github.com/cory-johannsen/charsheet/internal/game/feature"
)

func testDefs() []attribute.Definition {
	return []attribute.Definition{
		{ID: "st", Name: "Strength", Kind: attribute.KindPrimary, Base: "10", CostPerPoint: 10},
		{ID: "dx", Name: "Dexterity", Kind: attribute.KindPrimary, Base: "10", CostPerPoint: 20},
		{ID: "ht", Name: "Health", Kind: attribute.KindPrimary, Base: "10", CostPerPoint: 10},
		{ID: "sep", Kind: attribute.KindSeparator},
		{ID: "basic_speed", Name: "Basic Speed", Kind: attribute.KindSecondary, Base: "(dx + ht) / 4", CostPerPoint: 20},
		{ID: "hp", Name: "Hit Points", Kind: attribute.KindPool, Base: "$st", CostPerPoint: 2, Thresholds: []attribute.Threshold{
			{State: "collapse", Multiplier: 0, Ops: []attribute.Op{attribute.OpHalveMove, attribute.OpHalveDodge}},
			{State: "reeling", Multiplier: 1, Divisor: 3, Ops: []attribute.Op{attribute.OpHalveMove, attribute.OpHalveDodge}},
		}},
		{ID: "fp", Name: "Fatigue Points", Kind: attribute.KindPool, Base: "ht", CostPerPoint: 3, Thresholds: []attribute.Threshold{
			{State: "tired", Multiplier: 1, Divisor: 3, Ops: []attribute.Op{attribute.OpHalveST}},
		}},
	}
}

func newResolver(t *testing.T) *attribute.Resolver {
	r := attribute.NewResolver(testDefs(), nil, zaptest.NewLogger(t))
	t.Cleanup(r.Close)
	return r
}

func TestNewSet_SkipsSeparators(t *testing.T) {
	set := attribute.NewSet(testDefs())
	assert.Len(t, set.All(), 6)
	_, ok := set.Get("sep")
	assert.False(t, ok)
	assert.True(t, attribute.IsUnresolved(set.Current("luck")))
}

func TestResolve_BaseAdjBonus(t *testing.T) {
	r := newResolver(t)
	set := attribute.NewSet(testDefs())
	st, _ := set.Get("st")
	st.Adj = 2
	b := feature.NewBuckets()
	b.Add(feature.AttributeBonus{Leveled: feature.Leveled{Amount: 1}, Attribute: "st"}, 0, "Bonus")

	r.Resolve(set, b)
	assert.Equal(t, 10.0, st.Base)
	assert.Equal(t, 1.0, st.Bonus)
	assert.Equal(t, 13.0, st.Max)
	assert.Equal(t, 13.0, st.Current)
	assert.Equal(t, 13.0, st.Effective)
	assert.Equal(t, 20.0, st.Points)

	hp, _ := set.Get("hp")
	assert.Equal(t, 13.0, hp.Max, "hp follows st")
	bs, _ := set.Get("basic_speed")
	assert.Equal(t, 5.0, bs.Max)
}

func TestResolve_PoolSubtractsDamage(t *testing.T) {
	r := newResolver(t)
	set := attribute.NewSet(testDefs())
	hp, _ := set.Get("hp")
	hp.Damage = 4
	r.Resolve(set, nil)
	assert.Equal(t, 10.0, hp.Max)
	assert.Equal(t, 6.0, hp.Current)
}

func TestResolve_ClampsToDefinitionBounds(t *testing.T) {
	lo, hi := 1.0, 20.0
	defs := []attribute.Definition{{ID: "st", Kind: attribute.KindPrimary, Base: "10", Min: &lo, Max: &hi}}
	r := attribute.NewResolver(defs, nil, nil)
	defer r.Close()
	set := attribute.NewSet(defs)
	st, _ := set.Get("st")

	st.Adj = 30
	r.Resolve(set, nil)
	assert.Equal(t, 20.0, st.Max)

	st.Adj = -30
	r.Resolve(set, nil)
	assert.Equal(t, 1.0, st.Max)
}

func TestResolve_CostReductionIsClamped(t *testing.T) {
	r := newResolver(t)
	set := attribute.NewSet(testDefs())
	b := feature.NewBuckets()
	b.Add(feature.CostReduction{Attribute: "st", Percentage: 60}, 0, "a")
	b.Add(feature.CostReduction{Attribute: "st", Percentage: 50}, 0, "b")
	b.Add(feature.CostReduction{Attribute: "dx", Percentage: -10}, 0, "c")
	r.Resolve(set, b)

	st, _ := set.Get("st")
	dx, _ := set.Get("dx")
	assert.Equal(t, 80.0, st.CostReduction)
	assert.Equal(t, 0.0, dx.CostReduction)
}

func TestPointCost(t *testing.T) {
	assert.Equal(t, 16.0, attribute.PointCost(2, 10, 20))
	assert.Equal(t, 3.0, attribute.PointCost(1, 5, 50), "rounds up")
	assert.Equal(t, -10.0, attribute.PointCost(-1, 10, 50), "negative adjustments are not reduced")
	assert.Equal(t, 0.0, attribute.PointCost(0, 10, 0))
}

func TestResolve_FormulaCycleIsUnresolvedAndLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	defs := []attribute.Definition{
		{ID: "a", Kind: attribute.KindSecondary, Base: "b + 1"},
		{ID: "b", Kind: attribute.KindSecondary, Base: "a + 1"},
	}
	r := attribute.NewResolver(defs, nil, zap.New(core))
	defer r.Close()
	set := attribute.NewSet(defs)
	r.Resolve(set, nil)

	a, _ := set.Get("a")
	assert.True(t, attribute.IsUnresolved(a.Max))
	assert.Equal(t, 1, logs.FilterMessage("attribute formula cycle").Len())
}

func TestResolve_BadFormulaIsUnresolvedAndWarned(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	defs := []attribute.Definition{{ID: "a", Kind: attribute.KindPrimary, Base: "1 +"}}
	r := attribute.NewResolver(defs, nil, zap.New(core))
	defer r.Close()
	set := attribute.NewSet(defs)
	r.Resolve(set, nil)

	a, _ := set.Get("a")
	assert.True(t, attribute.IsUnresolved(a.Current))
	assert.Equal(t, 1, logs.FilterMessage("evaluating attribute formula").Len())
}

func TestResolve_IndeterminateFormulaIsUnresolved(t *testing.T) {
	defs := []attribute.Definition{
		{ID: "a", Kind: attribute.KindSecondary, Base: "$luck - $luck"},
		{ID: "p", Kind: attribute.KindPool, Base: "$luck - $luck"},
	}
	trackers := []attribute.TrackerDefinition{{ID: "fate", Base: "$luck - $luck"}}
	r := attribute.NewResolver(defs, trackers, zaptest.NewLogger(t))
	defer r.Close()
	set := attribute.NewSet(defs)
	r.Resolve(set, nil)

	for _, id := range []string{"a", "p"} {
		a, _ := set.Get(id)
		assert.True(t, math.IsInf(a.Max, -1), id)
		assert.True(t, math.IsInf(a.Current, -1), id)
	}
	fate := &attribute.Tracker{DefID: "fate"}
	r.ResolveTrackers([]*attribute.Tracker{fate}, set)
	assert.True(t, math.IsInf(fate.Max, -1))
	assert.True(t, math.IsInf(fate.Current, -1))

	assert.True(t, attribute.IsUnresolved(math.NaN()))
	assert.True(t, math.IsInf(attribute.Normalize(math.NaN()), -1))
	assert.Equal(t, 3.0, attribute.Normalize(3))
}

func TestResolve_StrengthFlavors(t *testing.T) {
	r := newResolver(t)
	set := attribute.NewSet(testDefs())
	b := feature.NewBuckets()
	b.Add(feature.AttributeBonus{Leveled: feature.Leveled{Amount: 2}, Attribute: "st", Limitation: feature.LimitLifting}, 0, "a")
	b.Add(feature.AttributeBonus{Leveled: feature.Leveled{Amount: 3}, Attribute: "st", Limitation: feature.LimitStriking}, 0, "b")
	calc := r.Resolve(set, b)

	st, _ := set.Get("st")
	assert.Equal(t, 10.0, st.Max, "limited bonuses stay off the attribute")
	assert.Equal(t, attribute.StrengthCalc{LiftingBonus: 2, StrikingBonus: 3}, calc)
}

func TestResolve_HalvedStrengthFromFatigue(t *testing.T) {
	r := newResolver(t)
	set := attribute.NewSet(testDefs())
	fp, _ := set.Get("fp")
	fp.Damage = 7
	r.Resolve(set, nil)

	st, _ := set.Get("st")
	assert.Equal(t, 10.0, st.Current)
	assert.Equal(t, 5.0, st.Effective)
	assert.Equal(t, 1, r.OpCount(set, attribute.OpHalveST))
	assert.Equal(t, map[string]string{"hp": attribute.StateNormal, "fp": "tired"}, r.PoolStates(set))
}

func TestThresholds_FirstMatchInListOrder(t *testing.T) {
	ts := attribute.Thresholds(testDefs()[5].Thresholds)
	assert.Equal(t, "collapse", ts.StateFor(0, 12))
	assert.Equal(t, "reeling", ts.StateFor(4, 12))
	assert.Equal(t, attribute.StateNormal, ts.StateFor(5, 12))
}

func TestThreshold_ZeroDivisorIsOne(t *testing.T) {
	th := attribute.Threshold{Multiplier: 1, Divisor: 0, Addition: -1}
	assert.Equal(t, 9.0, th.Boundary(10))
}

func TestDefinition_Validate(t *testing.T) {
	for _, d := range testDefs() {
		assert.NoError(t, d.Validate(), d.ID)
	}
	bad := attribute.Definition{Kind: "weird", Thresholds: []attribute.Threshold{{State: "normal", Divisor: -1}}}
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id must not be empty")
	assert.Contains(t, err.Error(), "only pool attributes")
	assert.Contains(t, err.Error(), "reserved")
}

func TestResolveTrackers(t *testing.T) {
	defs := testDefs()
	trackers := []attribute.TrackerDefinition{{
		ID: "ammo", Name: "Ammo", Base: "ht * 3",
		Thresholds: []attribute.Threshold{{State: "empty", Multiplier: 0}},
	}}
	r := attribute.NewResolver(defs, trackers, nil)
	defer r.Close()
	set := attribute.NewSet(defs)
	r.Resolve(set, nil)

	ammo := &attribute.Tracker{DefID: "ammo", Damage: 12}
	missing := &attribute.Tracker{DefID: "nope"}
	r.ResolveTrackers([]*attribute.Tracker{ammo, missing}, set)
	assert.Equal(t, 30.0, ammo.Max)
	assert.Equal(t, 18.0, ammo.Current)
	assert.Equal(t, attribute.StateNormal, ammo.State)
	assert.True(t, attribute.IsUnresolved(missing.Max))

	ammo.Damage = 30
	r.ResolveTrackers([]*attribute.Tracker{ammo}, set)
	assert.Equal(t, "empty", ammo.State)
}

func TestDamageProgression(t *testing.T) {
	cases := []struct {
		st            int
		thrust, swing string
	}{
		{1, "1d-6", "1d-5"},
		{10, "1d-2", "1d"},
		{12, "1d-1", "1d+2"},
		{13, "1d", "2d-1"},
		{18, "1d+2", "3d"},
		{20, "2d-1", "3d+2"},
		{27, "3d-1", "5d+1"},
		{30, "3d", "5d+2"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.thrust, attribute.BasicSet.Thrust(tc.st).String(), "thrust %d", tc.st)
		assert.Equal(t, tc.swing, attribute.BasicSet.Swing(tc.st).String(), "swing %d", tc.st)
	}
	assert.Equal(t, "1d-2", attribute.ThrustSwingMinus2.Thrust(10).String())
	assert.Equal(t, "3d", attribute.ThrustSwingMinus2.Thrust(20).String())
	assert.Error(t, attribute.Progression("x").Validate())
}

// Property: halving never increases a non-negative value and is capped at
// two halvings.
func TestPropertyHalve(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := float64(rapid.IntRange(0, 100).Draw(rt, "v"))
		n := rapid.IntRange(0, 6).Draw(rt, "n")
		h := attribute.Halve(v, n)
		if h > v {
			rt.Fatalf("Halve(%v, %d) = %v", v, n, h)
		}
		if n >= 2 && h != attribute.Halve(v, 2) {
			rt.Fatalf("count above two must cap")
		}
	})
}
