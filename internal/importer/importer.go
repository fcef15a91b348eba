// Package importer reads and writes YAML character documents and builds
// characters from them.
package importer

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/charsheet/internal/game/character"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
)

// Importer builds characters from documents using one set of rules.
type Importer struct {
	rules  *ruleset.Rules
	logger *zap.Logger
}

// New constructs an Importer.
//
// Precondition: rules must be valid.
// Postcondition: returns a non-nil Importer; nil logger is replaced by a no-op logger.
func New(rules *ruleset.Rules, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{rules: rules, logger: logger}
}

// Decode parses a document from r. Unknown fields are errors.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing character document: %w", err)
	}
	if doc.Version != 0 && doc.Version != DocumentVersion {
		return nil, fmt.Errorf("unsupported character document version %d", doc.Version)
	}
	return &doc, nil
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Build creates a character from doc with a single recompute. Entities
// without ids are assigned new ones.
//
// Postcondition: returns a computed Character the caller must Close, or a non-nil error.
func (imp *Importer) Build(doc *Document) (*character.Character, error) {
	c := character.New(doc.ID, doc.Name, imp.rules, imp.logger)
	err := c.Edit(func(c *character.Character) error {
		if doc.BodyPlan != "" {
			c.SetBodyPlan(doc.BodyPlan)
		}
		for _, a := range doc.Attributes {
			if err := c.SetAttributeAdj(a.ID, a.Adj); err != nil {
				return err
			}
			if a.Damage != 0 {
				if err := c.SetDamage(a.ID, a.Damage); err != nil {
					return err
				}
			}
		}
		for _, t := range doc.Trackers {
			if err := c.AddTracker(t.ID); err != nil {
				return err
			}
			if err := c.SetTrackerDamage(t.ID, t.Damage); err != nil {
				return err
			}
		}
		for _, t := range doc.Traits {
			if err := c.AddTrait(t, ""); err != nil {
				return err
			}
		}
		for _, s := range doc.Skills {
			if err := c.AddSkill(s); err != nil {
				return err
			}
		}
		for _, s := range doc.Spells {
			if err := c.AddSpell(s); err != nil {
				return err
			}
		}
		for _, e := range doc.Equipment {
			if err := c.AddEquipment(e, "", true); err != nil {
				return err
			}
		}
		for _, e := range doc.OtherEquipment {
			if err := c.AddEquipment(e, "", false); err != nil {
				return err
			}
		}
		for _, cond := range doc.Conditions {
			if err := c.AddCondition(cond.ID, cond.Stacks); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("building character %q: %w", doc.Name, err)
	}
	imp.logger.Debug("character imported",
		zap.String("character_id", c.ID()),
		zap.Int("passes", c.Passes()),
	)
	return c, nil
}

// Import loads the document at path and builds its character.
func (imp *Importer) Import(path string) (*character.Character, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	return imp.Build(doc)
}

// Export captures c as a document. Entities are shared with c, not copied.
func Export(c *character.Character) *Document {
	doc := &Document{
		Version:        DocumentVersion,
		ID:             c.ID(),
		Name:           c.Name(),
		BodyPlan:       c.BodyPlan(),
		Traits:         c.Traits(),
		Skills:         c.Skills(),
		Spells:         c.Spells(),
		Equipment:      c.CarriedEquipment(),
		OtherEquipment: c.OtherEquipment(),
	}
	for _, a := range c.Attributes() {
		if a.Adj != 0 || a.Damage != 0 {
			doc.Attributes = append(doc.Attributes, AttributeEntry{ID: a.DefID, Adj: a.Adj, Damage: a.Damage})
		}
	}
	for _, t := range c.Trackers() {
		doc.Trackers = append(doc.Trackers, TrackerEntry{ID: t.DefID, Damage: t.Damage})
	}
	for _, ac := range c.Conditions() {
		doc.Conditions = append(doc.Conditions, ConditionEntry{ID: ac.Def.ID, Stacks: ac.Stacks})
	}
	return doc
}

// Encode writes doc to w as YAML.
func Encode(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding character document: %w", err)
	}
	return enc.Close()
}

// WriteFile writes doc into dir under FileName(doc.Name) and returns the
// path written.
//
// Postcondition: the file is loadable with Load, or a non-nil error is returned.
func WriteFile(dir string, doc *Document) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return "", err
	}
	if _, err := Decode(bytes.NewReader(buf.Bytes())); err != nil {
		return "", fmt.Errorf("document %q failed validation: %w", doc.Name, err)
	}
	path := filepath.Join(dir, FileName(doc.Name))
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
