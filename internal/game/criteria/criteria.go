// Package criteria provides the string and numeric selection rules used by
// features and prerequisites to pick the entities they apply to.
package criteria

import (
	"fmt"
	"strings"
)

// StringCompare names a string comparison.
type StringCompare string

// String comparison constants.
const (
	AnyString        StringCompare = "any"
	Is               StringCompare = "is"
	IsNot            StringCompare = "is_not"
	Contains         StringCompare = "contains"
	DoesNotContain   StringCompare = "does_not_contain"
	StartsWith       StringCompare = "starts_with"
	DoesNotStartWith StringCompare = "does_not_start_with"
	EndsWith         StringCompare = "ends_with"
	DoesNotEndWith   StringCompare = "does_not_end_with"
)

var validStringCompares = map[StringCompare]bool{
	"": true, AnyString: true, Is: true, IsNot: true, Contains: true, DoesNotContain: true,
	StartsWith: true, DoesNotStartWith: true, EndsWith: true, DoesNotEndWith: true,
}

// negated reports whether the compare is one of the "not" forms.
func (c StringCompare) negated() bool {
	switch c {
	case IsNot, DoesNotContain, DoesNotStartWith, DoesNotEndWith:
		return true
	}
	return false
}

// String holds a comparison and the qualifier it compares against.
// The zero value matches everything.
type String struct {
	Compare   StringCompare `yaml:"compare,omitempty" json:"compare,omitempty"`
	Qualifier string        `yaml:"qualifier,omitempty" json:"qualifier,omitempty"`
}

// IsString returns criteria matching exactly s (case-insensitive).
func IsString(s string) String {
	return String{Compare: Is, Qualifier: s}
}

// Validate reports an unknown compare.
func (s String) Validate() error {
	if !validStringCompares[s.Compare] {
		return fmt.Errorf("unknown string compare %q", s.Compare)
	}
	return nil
}

// Matches reports whether value satisfies the criteria. Comparisons ignore case.
func (s String) Matches(value string) bool {
	v := strings.ToLower(value)
	q := strings.ToLower(s.Qualifier)
	switch s.Compare {
	case "", AnyString:
		return true
	case Is:
		return v == q
	case IsNot:
		return v != q
	case Contains:
		return strings.Contains(v, q)
	case DoesNotContain:
		return !strings.Contains(v, q)
	case StartsWith:
		return strings.HasPrefix(v, q)
	case DoesNotStartWith:
		return !strings.HasPrefix(v, q)
	case EndsWith:
		return strings.HasSuffix(v, q)
	case DoesNotEndWith:
		return !strings.HasSuffix(v, q)
	default:
		return false
	}
}

// MatchesList applies the criteria to a list such as tags. Positive compares
// need one matching element; negated compares need every element to match.
// An empty list is compared as a single empty string.
func (s String) MatchesList(values ...string) bool {
	if len(values) == 0 {
		return s.Matches("")
	}
	if s.Compare.negated() {
		for _, v := range values {
			if !s.Matches(v) {
				return false
			}
		}
		return true
	}
	for _, v := range values {
		if s.Matches(v) {
			return true
		}
	}
	return false
}

// Describe renders the criteria for explanation text, e.g. `is "Karate"`.
func (s String) Describe() string {
	switch s.Compare {
	case "", AnyString:
		return "is anything"
	default:
		return fmt.Sprintf("%s %q", strings.ReplaceAll(string(s.Compare), "_", " "), s.Qualifier)
	}
}

// NumericCompare names a numeric comparison.
type NumericCompare string

// Numeric comparison constants.
const (
	AnyNumber NumericCompare = "any"
	Equals    NumericCompare = "is"
	NotEquals NumericCompare = "is_not"
	AtLeast   NumericCompare = "at_least"
	AtMost    NumericCompare = "at_most"
)

var validNumericCompares = map[NumericCompare]bool{
	"": true, AnyNumber: true, Equals: true, NotEquals: true, AtLeast: true, AtMost: true,
}

// Numeric holds a numeric comparison. The zero value matches everything.
type Numeric struct {
	Compare   NumericCompare `yaml:"compare,omitempty" json:"compare,omitempty"`
	Qualifier float64        `yaml:"qualifier,omitempty" json:"qualifier,omitempty"`
}

// Validate reports an unknown compare.
func (n Numeric) Validate() error {
	if !validNumericCompares[n.Compare] {
		return fmt.Errorf("unknown numeric compare %q", n.Compare)
	}
	return nil
}

// Matches reports whether value satisfies the criteria.
func (n Numeric) Matches(value float64) bool {
	switch n.Compare {
	case "", AnyNumber:
		return true
	case Equals:
		return value == n.Qualifier
	case NotEquals:
		return value != n.Qualifier
	case AtLeast:
		return value >= n.Qualifier
	case AtMost:
		return value <= n.Qualifier
	default:
		return false
	}
}

// Describe renders the criteria for explanation text, e.g. "at least 12".
func (n Numeric) Describe() string {
	switch n.Compare {
	case "", AnyNumber:
		return "any value"
	default:
		return fmt.Sprintf("%s %g", strings.ReplaceAll(string(n.Compare), "_", " "), n.Qualifier)
	}
}
