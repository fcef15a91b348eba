package hitlocation_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/charsheet/internal/game/dice"
	"github.com/cory-johannsen/charsheet/internal/game/feature"
	"github.com/cory-johannsen/charsheet/internal/game/hitlocation"
)

func TestDefaultHumanoid_IsValidAndCoversTheRoll(t *testing.T) {
	h := hitlocation.DefaultHumanoid()
	require.NoError(t, h.Validate())

	r := hitlocation.Resolve(h, nil)
	assert.Equal(t, "3d", r.Roll)
	ranges := make(map[string]string)
	for _, l := range r.Locations {
		ranges[l.ID] = l.RollRange
	}
	assert.Equal(t, map[string]string{
		"eye": "-", "skull": "3-4", "face": "5", "leg": "6-7", "arm": "8",
		"torso": "9-10", "groin": "11", "left_arm": "12", "left_leg": "13-14",
		"hand": "15", "foot": "16", "neck": "17-18", "vitals": "-",
	}, ranges)
}

func TestResolve_DRAddsBonusesBySpecialization(t *testing.T) {
	b := feature.NewBuckets()
	b.Add(feature.DRBonus{Leveled: feature.Leveled{Amount: 3}, Location: "torso"}, 0, "Armor")
	b.Add(feature.DRBonus{Leveled: feature.Leveled{Amount: 2}, Location: "torso", Specialization: "burning"}, 0, "Fireproof")
	b.Add(feature.DRBonus{Leveled: feature.Leveled{Amount: 1}, Location: "skull"}, 0, "Helmet")

	r := hitlocation.Resolve(hitlocation.DefaultHumanoid(), b)
	byID := make(map[string]hitlocation.ResolvedLocation)
	for _, l := range r.Locations {
		byID[l.ID] = l
	}
	assert.Equal(t, map[string]float64{"all": 3, "burning": 5}, byID["torso"].DR)
	assert.Equal(t, map[string]float64{"all": 3}, byID["skull"].DR, "skull base 2 + 1")
	assert.Equal(t, map[string]float64{"all": 0}, byID["face"].DR)
	assert.Equal(t, []string{"burning"}, hitlocation.Specializations(byID["torso"].DR))
}

func TestResolve_SubTableStartsAtItsOwnMinimum(t *testing.T) {
	tbl := &hitlocation.Table{
		ID: "tentacled", Roll: dice.Expression{Count: 1, Sides: 6},
		Locations: []hitlocation.Location{
			{ID: "body", Slots: 4},
			{ID: "tentacle", Slots: 2, SubTable: &hitlocation.Table{
				Roll:      dice.Expression{Count: 1, Sides: 6},
				Locations: []hitlocation.Location{{ID: "tip", Slots: 3}, {ID: "base", Slots: 3}},
			}},
		},
	}
	require.NoError(t, tbl.Validate())
	r := hitlocation.Resolve(tbl, nil)
	assert.Equal(t, "1-4", r.Locations[0].RollRange)
	assert.Equal(t, "5-6", r.Locations[1].RollRange)
	require.NotNil(t, r.Locations[1].SubTable)
	assert.Equal(t, "1-3", r.Locations[1].SubTable.Locations[0].RollRange)
	assert.Equal(t, "4-6", r.Locations[1].SubTable.Locations[1].RollRange)
}

func TestValidate_RejectsDeepNestingAndOverflow(t *testing.T) {
	inner := &hitlocation.Table{Roll: dice.Expression{Count: 1, Sides: 6}, Locations: []hitlocation.Location{{ID: "x", Slots: 1}}}
	mid := &hitlocation.Table{Roll: dice.Expression{Count: 1, Sides: 6}, Locations: []hitlocation.Location{{ID: "y", Slots: 1, SubTable: inner}}}
	tbl := &hitlocation.Table{
		ID: "bad", Roll: dice.Expression{Count: 1, Sides: 6},
		Locations: []hitlocation.Location{{ID: "z", Slots: 8, SubTable: mid}, {ID: "z", Slots: -1}},
	}
	err := tbl.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "may not nest")
	assert.Contains(t, err.Error(), "duplicate location")
	assert.Contains(t, err.Error(), "must not be negative")
	assert.Contains(t, err.Error(), "spans 6")
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	plan := `
id: winged
name: Winged Humanoid
roll: 3d
locations:
  - {id: skull, name: Skull, slots: 2, hit_penalty: -7, dr: 2}
  - {id: torso, name: Torso, slots: 10, hit_penalty: 0}
  - {id: wing, name: Wing, slots: 4, hit_penalty: -2}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "winged.yaml"), []byte(plan), 0644))
	tables, err := hitlocation.LoadDirectory(dir)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "winged", tables[0].ID)
	assert.Equal(t, dice.Expression{Count: 3, Sides: 6}, tables[0].Roll)
	assert.Equal(t, 2.0, tables[0].Locations[0].BaseDR)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("id: b\nroll: 3d\nlocations: [{id: a, slots: 20}]\n"), 0644))
	_, err = hitlocation.LoadDirectory(dir)
	assert.Error(t, err)
}
