package condition_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/charsheet/internal/game/condition"
	"github.com/cory-johannsen/charsheet/internal/game/feature"
)

func TestRegistry_Get_Found(t *testing.T) {
	reg := condition.NewRegistry()
	def := &condition.ConditionDef{ID: "stunned", Name: "Stunned"}
	reg.Register(def)
	got, ok := reg.Get("stunned")
	require.True(t, ok)
	assert.Equal(t, def, got)
}

func TestRegistry_Get_NotFound(t *testing.T) {
	reg := condition.NewRegistry()
	_, ok := reg.Get("nonexistent")
	assert.False(t, ok)
}

func TestRegistry_All_SortedCopy(t *testing.T) {
	reg := condition.NewRegistry()
	reg.Register(&condition.ConditionDef{ID: "b", Name: "B"})
	reg.Register(&condition.ConditionDef{ID: "a", Name: "A"})
	all := reg.All()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	all[0] = nil
	for _, d := range reg.All() {
		assert.NotNil(t, d, "registry must not be corrupted by mutating the returned slice")
	}
}

func TestLoadDirectory_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	yaml := `
id: reeling
name: Reeling
description: "Below one third of HP."
max_stacks: 0
features:
  - type: attribute_bonus
    attribute: dodge
    amount: -1
  - type: conditional_modifier
    situation: to resist knockdown
    amount: -2
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reeling.yaml"), []byte(yaml), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	reg, err := condition.LoadDirectory(dir)
	require.NoError(t, err)
	got, ok := reg.Get("reeling")
	require.True(t, ok)
	assert.Equal(t, "Reeling", got.Name)
	require.Len(t, got.Features, 2)
	assert.Equal(t, feature.KindAttributeBonus, got.Features[0].Kind())
	assert.Equal(t, feature.KindConditionalModifier, got.Features[1].Kind())
}

func TestLoadDirectory_EmptyDir(t *testing.T) {
	reg, err := condition.LoadDirectory(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, reg.All())
}

func TestLoadDirectory_InvalidYAML_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(":::bad:::"), 0644))
	_, err := condition.LoadDirectory(dir)
	assert.Error(t, err)
}

func TestLoadDirectory_UnknownFieldIsAnError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.yaml"), []byte("id: x\nname: X\nduration_type: rounds\n"), 0644))
	_, err := condition.LoadDirectory(dir)
	assert.Error(t, err)
}

func TestLoadDirectory_InvalidDefinitionIsAnError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.yaml"), []byte("id: x\nmax_stacks: -1\n"), 0644))
	_, err := condition.LoadDirectory(dir)
	assert.ErrorContains(t, err, "name must not be empty")
}

func TestLoadDirectory_NonexistentDir_ReturnsError(t *testing.T) {
	_, err := condition.LoadDirectory("/nonexistent/path/that/does/not/exist")
	assert.Error(t, err)
}

func TestLoadDirectory_BundledConditions(t *testing.T) {
	reg, err := condition.LoadDirectory("../../../content/conditions")
	require.NoError(t, err)
	for _, id := range []string{"reeling", "collapsing", "very_tired", "unconscious"} {
		_, ok := reg.Get(id)
		assert.True(t, ok, "condition %q must be present", id)
	}
}

func TestPropertyRegistry_RegisterThenGet(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := rapid.StringMatching(`[a-z_]{3,12}`).Draw(t, "id")
		reg := condition.NewRegistry()
		def := &condition.ConditionDef{ID: id, Name: id}
		reg.Register(def)
		got, ok := reg.Get(id)
		assert.True(t, ok, "registered condition must be retrievable")
		assert.Equal(t, def, got)
	})
}
