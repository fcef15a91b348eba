package feature

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// List is an ordered list of features as declared on a carrier. It decodes
// from a YAML sequence of mappings, each carrying a `type` key naming its Kind.
type List []Feature

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *List) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("features: line %d: expected a sequence", node.Line)
	}
	out := make(List, 0, len(node.Content))
	for _, item := range node.Content {
		f, err := decode(item)
		if err != nil {
			return err
		}
		out = append(out, f)
	}
	*l = out
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (l List) MarshalYAML() (any, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, f := range l {
		n, err := EncodeTagged(string(f.Kind()), f)
		if err != nil {
			return nil, fmt.Errorf("features: encoding %s: %w", f.Kind(), err)
		}
		seq.Content = append(seq.Content, n)
	}
	return seq, nil
}

func decode(node *yaml.Node) (Feature, error) {
	var probe struct {
		Type Kind `yaml:"type"`
	}
	if err := node.Decode(&probe); err != nil {
		return nil, fmt.Errorf("features: line %d: %w", node.Line, err)
	}
	switch probe.Type {
	case KindAttributeBonus:
		return decodeAs[AttributeBonus](node)
	case KindCostReduction:
		return decodeAs[CostReduction](node)
	case KindDRBonus:
		return decodeAs[DRBonus](node)
	case KindSkillBonus:
		return decodeAs[SkillBonus](node)
	case KindSkillPointBonus:
		return decodeAs[SkillPointBonus](node)
	case KindSpellBonus:
		return decodeAs[SpellBonus](node)
	case KindSpellPointBonus:
		return decodeAs[SpellPointBonus](node)
	case KindWeaponBonus:
		return decodeAs[WeaponBonus](node)
	case KindWeaponDRDivisorBonus:
		var f WeaponBonus
		if err := node.Decode(&f); err != nil {
			return nil, fmt.Errorf("features: line %d: %w", node.Line, err)
		}
		f.DRDivisor = true
		return f, nil
	case KindReactionBonus:
		return decodeAs[ReactionBonus](node)
	case KindConditionalModifier:
		return decodeAs[ConditionalModifier](node)
	default:
		return nil, fmt.Errorf("features: line %d: unknown feature type %q", node.Line, probe.Type)
	}
}

func decodeAs[T Feature](node *yaml.Node) (Feature, error) {
	var f T
	if err := node.Decode(&f); err != nil {
		return nil, fmt.Errorf("features: line %d: %w", node.Line, err)
	}
	return f, nil
}

// EncodeTagged encodes v as a YAML mapping and prepends a `type: kind` pair.
// It is shared with other polymorphic lists such as prerequisites.
//
// Precondition: v must encode to a YAML mapping.
func EncodeTagged(kind string, v any) (*yaml.Node, error) {
	var n yaml.Node
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s does not encode to a mapping", kind)
	}
	n.Style &^= yaml.FlowStyle
	n.Content = append([]*yaml.Node{
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: "type"},
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: kind},
	}, n.Content...)
	return &n, nil
}
