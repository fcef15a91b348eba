// Package attribute defines attribute and resource tracker definitions and
// resolves their current, effective, and maximum values from the active
// feature buckets.
package attribute

import (
	"errors"
	"fmt"
	"math"
)

// Unresolved is the sentinel returned for references that cannot be resolved.
// It compares below every real value, so best-of selection needs no special
// case.
var Unresolved = math.Inf(-1)

// IsUnresolved reports whether v is the Unresolved sentinel. NaN, which
// arithmetic between two unresolved values produces, counts as unresolved.
func IsUnresolved(v float64) bool {
	return math.IsInf(v, -1) || math.IsNaN(v)
}

// Normalize maps every non-finite value below +Inf to Unresolved. Values
// written back onto characters pass through it so NaN never escapes.
func Normalize(v float64) float64 {
	if IsUnresolved(v) {
		return Unresolved
	}
	return v
}

// Well-known attribute ids.
const (
	ST         = "st"
	DX         = "dx"
	IQ         = "iq"
	HT         = "ht"
	Will       = "will"
	Per        = "per"
	BasicSpeed = "basic_speed"
	BasicMove  = "basic_move"
	HP         = "hp"
	FP         = "fp"
)

// Synthetic ids for derived quantities that have no definition of their own.
// They are resolved from attribute bonuses alone.
const (
	Dodge        = "dodge"
	Parry        = "parry"
	Block        = "block"
	SizeModifier = "sm"
	FrightCheck  = "fright_check"
)

// Kind classifies an attribute definition.
type Kind string

// Attribute kinds.
const (
	KindPrimary   Kind = "primary"
	KindSecondary Kind = "secondary"
	KindPool      Kind = "pool"
	KindSeparator Kind = "separator"
)

// Definition describes one attribute.
type Definition struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Kind Kind   `yaml:"kind"`
	// Base is a formula over other attribute ids, such as "(dx + ht) / 4".
	Base         string      `yaml:"base"`
	CostPerPoint float64     `yaml:"cost_per_point"`
	Min          *float64    `yaml:"min,omitempty"`
	Max          *float64    `yaml:"max,omitempty"`
	Thresholds   []Threshold `yaml:"thresholds,omitempty"`
}

// Validate checks the definition's invariants.
//
// Postcondition: Returns nil or an error describing every violation.
func (d Definition) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	switch d.Kind {
	case KindPrimary, KindSecondary, KindPool, KindSeparator:
	default:
		errs = append(errs, fmt.Errorf("kind %q is not one of primary, secondary, pool, separator", d.Kind))
	}
	if d.Min != nil && d.Max != nil && *d.Min > *d.Max {
		errs = append(errs, fmt.Errorf("min %v exceeds max %v", *d.Min, *d.Max))
	}
	if len(d.Thresholds) > 0 && d.Kind != KindPool {
		errs = append(errs, errors.New("only pool attributes may have thresholds"))
	}
	for i, t := range d.Thresholds {
		if err := t.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("threshold %d: %w", i, err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("attribute %q: %w", d.ID, errors.Join(errs...))
}

// StateFor returns the threshold state name for a pool value.
func (d Definition) StateFor(current, max float64) string {
	return Thresholds(d.Thresholds).StateFor(current, max)
}

// Attribute is a character's instance of a Definition.
type Attribute struct {
	DefID  string
	Adj    float64
	Damage float64

	// Derived by the Resolver.
	Base          float64
	Bonus         float64
	CostReduction float64
	Max           float64
	Current       float64
	Effective     float64
	Points        float64
}

// PointCost returns the character points spent on adj levels. Positive
// adjustments are reduced by costReduction percent and rounded up.
func PointCost(adj, costPerPoint, costReduction float64) float64 {
	if adj <= 0 {
		return adj * costPerPoint
	}
	return math.Ceil(adj * costPerPoint * (100 - costReduction) / 100)
}

// Set is the ordered collection of a character's attributes.
type Set struct {
	order []string
	byID  map[string]*Attribute
}

// NewSet creates an attribute for every non-separator definition.
func NewSet(defs []Definition) *Set {
	s := &Set{byID: make(map[string]*Attribute, len(defs))}
	for _, d := range defs {
		if d.Kind == KindSeparator {
			continue
		}
		s.order = append(s.order, d.ID)
		s.byID[d.ID] = &Attribute{DefID: d.ID}
	}
	return s
}

// Get returns the attribute with id.
func (s *Set) Get(id string) (*Attribute, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// All returns the attributes in definition order.
func (s *Set) All() []*Attribute {
	out := make([]*Attribute, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Current returns the current value of id, or Unresolved when absent.
func (s *Set) Current(id string) float64 {
	if a, ok := s.byID[id]; ok {
		return a.Current
	}
	return Unresolved
}
