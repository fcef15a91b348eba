package prereq

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/charsheet/internal/game/feature"
)

// Prereqs is the child list of a List node. It decodes from a YAML sequence of
// mappings carrying a `type` key.
type Prereqs []Prereq

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Prereqs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("prereqs: line %d: expected a sequence", node.Line)
	}
	out := make(Prereqs, 0, len(node.Content))
	for _, item := range node.Content {
		var probe struct {
			Type Kind `yaml:"type"`
		}
		if err := item.Decode(&probe); err != nil {
			return fmt.Errorf("prereqs: line %d: %w", item.Line, err)
		}
		var target Prereq
		switch probe.Type {
		case KindList:
			target = &List{}
		case KindAttribute:
			target = &AttributePrereq{}
		case KindTrait:
			target = &TraitPrereq{}
		case KindSkill:
			target = &SkillPrereq{}
		case KindSpell:
			target = &SpellPrereq{}
		case KindEquippedEquipment:
			target = &EquippedEquipmentPrereq{}
		default:
			return fmt.Errorf("prereqs: line %d: unknown prerequisite type %q", item.Line, probe.Type)
		}
		if err := item.Decode(target); err != nil {
			return fmt.Errorf("prereqs: line %d: %w", item.Line, err)
		}
		out = append(out, target)
	}
	*p = out
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (p Prereqs) MarshalYAML() (any, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, one := range p {
		n, err := feature.EncodeTagged(string(one.Kind()), one)
		if err != nil {
			return nil, fmt.Errorf("prereqs: encoding %s: %w", one.Kind(), err)
		}
		seq.Content = append(seq.Content, n)
	}
	return seq, nil
}
