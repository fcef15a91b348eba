// Package hitlocation defines body plans and resolves their hit locations to
// roll ranges and damage resistance.
package hitlocation

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/charsheet/internal/game/dice"
)

// HumanoidID is the id of the built-in humanoid body plan.
const HumanoidID = "humanoid"

// Location is one targetable body part.
type Location struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description,omitempty"`
	Slots       int     `yaml:"slots"`
	HitPenalty  int     `yaml:"hit_penalty"`
	BaseDR      float64 `yaml:"dr"`
	SubTable    *Table  `yaml:"sub_table,omitempty"`
}

// Table is a body plan: an ordered list of locations rolled with Roll.
type Table struct {
	ID        string          `yaml:"id"`
	Name      string          `yaml:"name"`
	Roll      dice.Expression `yaml:"roll"`
	Locations []Location      `yaml:"locations"`
}

// Validate checks the table's invariants. Sub-tables may not nest further.
//
// Postcondition: Returns nil or an error describing every violation.
func (t *Table) Validate() error {
	errs := t.validate(0)
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("body plan %q: %w", t.ID, errors.Join(errs...))
}

func (t *Table) validate(depth int) []error {
	var errs []error
	if depth == 0 && t.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if t.Roll.Count < 1 || t.Roll.Sides < 2 {
		errs = append(errs, fmt.Errorf("roll %q is not a valid dice expression", t.Roll.String()))
	}
	slots := 0
	seen := make(map[string]bool)
	for _, l := range t.Locations {
		if l.ID == "" {
			errs = append(errs, errors.New("location id must not be empty"))
		}
		if seen[l.ID] {
			errs = append(errs, fmt.Errorf("duplicate location %q", l.ID))
		}
		seen[l.ID] = true
		if l.Slots < 0 {
			errs = append(errs, fmt.Errorf("location %q: slots %d must not be negative", l.ID, l.Slots))
		}
		slots += l.Slots
		if l.SubTable != nil {
			if depth > 0 {
				errs = append(errs, fmt.Errorf("location %q: sub-tables may not nest", l.ID))
				continue
			}
			for _, err := range l.SubTable.validate(depth + 1) {
				errs = append(errs, fmt.Errorf("location %q sub-table: %w", l.ID, err))
			}
		}
	}
	if span := t.Roll.Max() - t.Roll.Min() + 1; t.Roll.Count >= 1 && slots > span {
		errs = append(errs, fmt.Errorf("locations use %d slots but %s spans %d", slots, t.Roll.String(), span))
	}
	return errs
}

// DefaultHumanoid returns the built-in humanoid body plan rolled on 3d6.
func DefaultHumanoid() *Table {
	return &Table{
		ID:   HumanoidID,
		Name: "Humanoid",
		Roll: dice.Expression{Count: 3, Sides: 6},
		Locations: []Location{
			{ID: "eye", Name: "Eyes", Slots: 0, HitPenalty: -9},
			{ID: "skull", Name: "Skull", Slots: 2, HitPenalty: -7, BaseDR: 2},
			{ID: "face", Name: "Face", Slots: 1, HitPenalty: -5},
			{ID: "leg", Name: "Right Leg", Slots: 2, HitPenalty: -2},
			{ID: "arm", Name: "Right Arm", Slots: 1, HitPenalty: -2},
			{ID: "torso", Name: "Torso", Slots: 2, HitPenalty: 0},
			{ID: "groin", Name: "Groin", Slots: 1, HitPenalty: -3},
			{ID: "left_arm", Name: "Left Arm", Slots: 1, HitPenalty: -2},
			{ID: "left_leg", Name: "Left Leg", Slots: 2, HitPenalty: -2},
			{ID: "hand", Name: "Hand", Slots: 1, HitPenalty: -4},
			{ID: "foot", Name: "Foot", Slots: 1, HitPenalty: -4},
			{ID: "neck", Name: "Neck", Slots: 2, HitPenalty: -5},
			{ID: "vitals", Name: "Vitals", Slots: 0, HitPenalty: -3},
		},
	}
}

// LoadDirectory reads every *.yaml file in dir as a body plan.
// Precondition: dir must be a readable directory.
// Postcondition: Returns the valid tables in file order, or an error if any file fails to parse or validate.
func LoadDirectory(dir string) ([]*Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading body plan dir %q: %w", dir, err)
	}
	var out []*Table
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var t Table
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&t); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		out = append(out, &t)
	}
	return out, nil
}
