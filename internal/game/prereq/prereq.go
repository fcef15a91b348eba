// Package prereq evaluates the prerequisite expression trees attached to
// traits, skills, spells, and equipment.
package prereq

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/charsheet/internal/game/criteria"
)

// Kind identifies a prerequisite node. It is the `type` key in YAML.
type Kind string

// Prerequisite node kinds.
const (
	KindList              Kind = "list"
	KindAttribute         Kind = "attribute"
	KindTrait             Kind = "trait"
	KindSkill             Kind = "skill"
	KindSpell             Kind = "spell"
	KindEquippedEquipment Kind = "equipped_equipment"
)

// TraitView is the slice of a trait a prerequisite can observe.
type TraitView struct {
	ID     string
	Name   string
	Levels float64
	Tags   []string
}

// SkillView is the slice of a skill a prerequisite can observe. Level is the
// level from the previous calculation pass.
type SkillView struct {
	ID             string
	Name           string
	Specialization string
	Level          float64
}

// SpellView is the slice of a spell a prerequisite can observe.
type SpellView struct {
	ID          string
	Name        string
	Colleges    []string
	PowerSource string
	Tags        []string
}

// EquipmentView is the slice of an equipped item a prerequisite can observe.
type EquipmentView struct {
	ID   string
	Name string
	Tags []string
}

// State is the resolved character state prerequisites are evaluated against.
type State interface {
	AttributeValue(id string) float64
	Traits() []TraitView
	Skills() []SkillView
	Spells() []SpellView
	EquippedEquipment() []EquipmentView
}

// Prereq is a node of a prerequisite tree.
type Prereq interface {
	Kind() Kind
	// satisfied reports whether the node holds, ignoring the node's own
	// negation, and appends failure text to out.
	satisfied(st State, exclude string, out *explainer) bool
}

// Result is the outcome of evaluating a tree.
type Result struct {
	Satisfied bool
	// EquipmentPenalty is set when the tree failed because required gear is
	// not equipped.
	EquipmentPenalty bool
	Explanation      string
}

// Evaluate evaluates list against st. exclude is the id of the carrier that
// owns the list, so a trait cannot satisfy its own trait prerequisite.
// A nil list is satisfied. Evaluate never panics on unknown references.
func Evaluate(list *List, st State, exclude string) Result {
	if list == nil {
		return Result{Satisfied: true}
	}
	ex := &explainer{}
	ok := list.evaluate(st, exclude, ex)
	if ok {
		return Result{Satisfied: true}
	}
	return Result{
		Satisfied:        false,
		EquipmentPenalty: ex.equipmentMissing,
		Explanation:      "Prerequisites have not been met:\n" + strings.Join(ex.lines, "\n"),
	}
}

type explainer struct {
	lines            []string
	equipmentMissing bool
}

func (e *explainer) fail(format string, args ...any) {
	e.lines = append(e.lines, "• "+fmt.Sprintf(format, args...))
}

func has(negated bool) string {
	if negated {
		return "Must not have"
	}
	return "Has"
}

// List combines child prerequisites with AND (All) or OR.
type List struct {
	All     bool    `yaml:"all"`
	Negated bool    `yaml:"not,omitempty"`
	Prereqs Prereqs `yaml:"prereqs,omitempty"`
}

// Kind implements Prereq.
func (l *List) Kind() Kind { return KindList }

// evaluate collects the children's failures on a scratch explainer and
// reports them only when the list fails after negation. A negated list never
// reports missing gear.
func (l *List) evaluate(st State, exclude string, out *explainer) bool {
	local := &explainer{}
	ok := l.satisfied(st, exclude, local)
	if l.Negated {
		if ok {
			out.fail("Must not satisfy %d listed prerequisite(s)", len(l.Prereqs))
		}
		return !ok
	}
	if !ok {
		out.lines = append(out.lines, local.lines...)
		out.equipmentMissing = out.equipmentMissing || local.equipmentMissing
	}
	return ok
}

func (l *List) satisfied(st State, exclude string, out *explainer) bool {
	if len(l.Prereqs) == 0 {
		return true
	}
	local := &explainer{}
	count := 0
	for _, p := range l.Prereqs {
		if evaluateNode(p, st, exclude, local) {
			count++
		}
	}
	ok := count == len(l.Prereqs)
	if !l.All {
		ok = count > 0
	}
	if !ok {
		if !l.All && len(local.lines) > 1 {
			out.lines = append(out.lines, "• One of:")
		}
		out.lines = append(out.lines, local.lines...)
		out.equipmentMissing = out.equipmentMissing || local.equipmentMissing
	}
	return ok
}

func evaluateNode(p Prereq, st State, exclude string, out *explainer) bool {
	if l, ok := p.(*List); ok {
		return l.evaluate(st, exclude, out)
	}
	return p.satisfied(st, exclude, out)
}

// AttributePrereq requires an attribute, optionally combined with a second
// one, to satisfy a numeric compare.
type AttributePrereq struct {
	Negated      bool             `yaml:"not,omitempty"`
	Which        string           `yaml:"which"`
	CombinedWith string           `yaml:"combined_with,omitempty"`
	Qualifier    criteria.Numeric `yaml:"qualifier"`
}

// Kind implements Prereq.
func (p *AttributePrereq) Kind() Kind { return KindAttribute }

func (p *AttributePrereq) satisfied(st State, _ string, out *explainer) bool {
	value := st.AttributeValue(p.Which)
	name := strings.ToUpper(p.Which)
	if p.CombinedWith != "" {
		value += st.AttributeValue(p.CombinedWith)
		name += "+" + strings.ToUpper(p.CombinedWith)
	}
	ok := p.Qualifier.Matches(value) != p.Negated
	if !ok {
		out.fail("%s %s which is %s", has(p.Negated), name, p.Qualifier.Describe())
	}
	return ok
}

// TraitPrereq requires a trait with a matching name and level.
type TraitPrereq struct {
	Negated bool             `yaml:"not,omitempty"`
	Name    criteria.String  `yaml:"name"`
	Level   criteria.Numeric `yaml:"level,omitempty"`
	Tags    criteria.String  `yaml:"tags,omitempty"`
}

// Kind implements Prereq.
func (p *TraitPrereq) Kind() Kind { return KindTrait }

func (p *TraitPrereq) satisfied(st State, exclude string, out *explainer) bool {
	found := false
	for _, t := range st.Traits() {
		if t.ID == exclude {
			continue
		}
		if p.Name.Matches(t.Name) && p.Level.Matches(t.Levels) && p.Tags.MatchesList(t.Tags...) {
			found = true
			break
		}
	}
	ok := found != p.Negated
	if !ok {
		out.fail("%s a trait whose name %s", has(p.Negated), p.Name.Describe())
	}
	return ok
}

// SkillPrereq requires a skill with a matching name, specialization, and
// level.
type SkillPrereq struct {
	Negated        bool             `yaml:"not,omitempty"`
	Name           criteria.String  `yaml:"name"`
	Specialization criteria.String  `yaml:"specialization,omitempty"`
	Level          criteria.Numeric `yaml:"level,omitempty"`
}

// Kind implements Prereq.
func (p *SkillPrereq) Kind() Kind { return KindSkill }

func (p *SkillPrereq) satisfied(st State, exclude string, out *explainer) bool {
	found := false
	for _, s := range st.Skills() {
		if s.ID == exclude {
			continue
		}
		if p.Name.Matches(s.Name) && p.Specialization.Matches(s.Specialization) && p.Level.Matches(s.Level) {
			found = true
			break
		}
	}
	ok := found != p.Negated
	if !ok {
		out.fail("%s a skill whose name %s and level is %s", has(p.Negated), p.Name.Describe(), p.Level.Describe())
	}
	return ok
}

// SpellSubType selects what a spell prerequisite counts.
type SpellSubType string

// Spell prerequisite sub-types.
const (
	SpellSubName         SpellSubType = "name"
	SpellSubCollege      SpellSubType = "college"
	SpellSubCollegeCount SpellSubType = "college_count"
	SpellSubAny          SpellSubType = "any"
)

// SpellPrereq requires a number of matching spells, or of distinct colleges.
type SpellPrereq struct {
	Negated   bool             `yaml:"not,omitempty"`
	SubType   SpellSubType     `yaml:"sub_type"`
	Qualifier criteria.String  `yaml:"qualifier,omitempty"`
	Quantity  criteria.Numeric `yaml:"quantity"`
}

// Kind implements Prereq.
func (p *SpellPrereq) Kind() Kind { return KindSpell }

func (p *SpellPrereq) satisfied(st State, exclude string, out *explainer) bool {
	count := 0
	colleges := make(map[string]bool)
	for _, s := range st.Spells() {
		if s.ID == exclude {
			continue
		}
		switch p.SubType {
		case SpellSubName:
			if p.Qualifier.Matches(s.Name) {
				count++
			}
		case SpellSubCollege:
			if p.Qualifier.MatchesList(s.Colleges...) {
				count++
			}
		case SpellSubCollegeCount:
			for _, c := range s.Colleges {
				colleges[strings.ToLower(c)] = true
			}
		default:
			count++
		}
	}
	if p.SubType == SpellSubCollegeCount {
		count = len(colleges)
	}
	ok := p.Quantity.Matches(float64(count)) != p.Negated
	if !ok {
		out.fail("%s spells (%s %s) numbering %s", has(p.Negated), p.SubType, p.Qualifier.Describe(), p.Quantity.Describe())
	}
	return ok
}

// EquippedEquipmentPrereq requires a matching item to be equipped. Its failure
// marks the evaluation with an equipment penalty.
type EquippedEquipmentPrereq struct {
	Negated bool            `yaml:"not,omitempty"`
	Name    criteria.String `yaml:"name"`
	Tags    criteria.String `yaml:"tags,omitempty"`
}

// Kind implements Prereq.
func (p *EquippedEquipmentPrereq) Kind() Kind { return KindEquippedEquipment }

func (p *EquippedEquipmentPrereq) satisfied(st State, exclude string, out *explainer) bool {
	found := false
	for _, e := range st.EquippedEquipment() {
		if e.ID == exclude {
			continue
		}
		if p.Name.Matches(e.Name) && p.Tags.MatchesList(e.Tags...) {
			found = true
			break
		}
	}
	ok := found != p.Negated
	if !ok {
		out.fail("%s equipped equipment whose name %s", has(p.Negated), p.Name.Describe())
		if !p.Negated {
			out.equipmentMissing = true
		}
	}
	return ok
}
