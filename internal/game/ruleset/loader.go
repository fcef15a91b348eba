package ruleset

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/charsheet/internal/config"
	"github.com/cory-johannsen/charsheet/internal/game/attribute"
	"github.com/cory-johannsen/charsheet/internal/game/encumbrance"
	"github.com/cory-johannsen/charsheet/internal/game/hitlocation"
)

// Rule table file and directory names inside a rules directory. Each is
// optional.
const (
	AttributesFile = "attributes.yaml"
	TrackersFile   = "trackers.yaml"
	BodyPlansDir   = "body_plans"
	ConditionsDir  = "conditions"
)

// Load layers the rule tables in dir over Default. attributes.yaml replaces
// the attribute list, trackers.yaml replaces the tracker list, and the
// body_plans and conditions directories add to or override the built-in
// entries by id.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns valid Rules or a non-nil error.
func Load(dir string) (*Rules, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("reading rules dir %q: %w", dir, err)
	}
	r := Default()

	var attrs []attribute.Definition
	found, err := decodeFile(filepath.Join(dir, AttributesFile), &attrs)
	if err != nil {
		return nil, err
	}
	if found {
		r.Attributes = attrs
	}

	var trackers []attribute.TrackerDefinition
	found, err = decodeFile(filepath.Join(dir, TrackersFile), &trackers)
	if err != nil {
		return nil, err
	}
	if found {
		r.Trackers = trackers
	}

	if sub := filepath.Join(dir, BodyPlansDir); isDir(sub) {
		plans, err := hitlocation.LoadDirectory(sub)
		if err != nil {
			return nil, err
		}
		for _, p := range plans {
			r.BodyPlans[p.ID] = p
		}
	}

	if sub := filepath.Join(dir, ConditionsDir); isDir(sub) {
		if err := r.Conditions.LoadDirectory(sub); err != nil {
			return nil, err
		}
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// FromConfig builds Rules from cfg: Default, or Load(cfg.Dir) when a
// directory is set, with the configured toggles applied.
//
// Postcondition: Returns valid Rules or a non-nil error.
func FromConfig(cfg config.RulesConfig) (*Rules, error) {
	r := Default()
	if cfg.Dir != "" {
		var err error
		if r, err = Load(cfg.Dir); err != nil {
			return nil, err
		}
	}
	if cfg.BodyPlan != "" {
		r.DefaultBodyPlan = cfg.BodyPlan
	}
	if cfg.DamageProgression != "" {
		r.DamageProgression = attribute.Progression(cfg.DamageProgression)
	}
	if cfg.WeightUnits != "" {
		r.WeightUnits = encumbrance.Units(cfg.WeightUnits)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func decodeFile(path string, out any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return false, fmt.Errorf("parsing %s: %w", path, err)
	}
	return true, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
