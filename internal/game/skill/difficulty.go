package skill

import (
	"fmt"
	"strings"
)

// Tier is a skill difficulty tier.
type Tier string

// Difficulty tiers.
const (
	Easy     Tier = "e"
	Average  Tier = "a"
	Hard     Tier = "h"
	VeryHard Tier = "vh"
	Wildcard Tier = "w"
)

// BaseRelativeLevel is the relative level bought by the first point.
func (t Tier) BaseRelativeLevel() float64 {
	switch t {
	case Average:
		return -1
	case Hard:
		return -2
	case VeryHard, Wildcard:
		return -3
	default:
		return 0
	}
}

// Validate reports an error for an unknown tier.
func (t Tier) Validate() error {
	switch t {
	case Easy, Average, Hard, VeryHard, Wildcard:
		return nil
	}
	return fmt.Errorf("unknown difficulty tier %q", t)
}

// Difficulty pairs the controlling attribute with a tier. Its text form is
// "attribute/tier", for example "dx/a". Techniques omit the attribute.
type Difficulty struct {
	Attribute string
	Tier      Tier
}

// String implements fmt.Stringer.
func (d Difficulty) String() string {
	if d.Attribute == "" {
		return string(d.Tier)
	}
	return d.Attribute + "/" + string(d.Tier)
}

// MarshalText implements encoding.TextMarshaler.
func (d Difficulty) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Difficulty) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	attr, tier, found := strings.Cut(s, "/")
	if !found {
		attr, tier = "", s
	}
	t := Tier(tier)
	if err := t.Validate(); err != nil {
		return fmt.Errorf("difficulty %q: %w", string(text), err)
	}
	*d = Difficulty{Attribute: attr, Tier: t}
	return nil
}

// RelativeForPoints returns the relative level bought with pts points on top
// of the tier's base, or false when pts buys nothing and a default applies.
// Wildcard skills cost three times as much.
//
// Postcondition: The result is non-decreasing in pts.
func (t Tier) RelativeForPoints(pts float64) (float64, bool) {
	if t == Wildcard {
		pts /= 3
	}
	rel := t.BaseRelativeLevel()
	switch {
	case pts < 1:
		return 0, false
	case pts < 2:
	case pts < 4:
		rel++
	default:
		rel += 1 + float64(int(pts/4))
	}
	return rel, true
}
