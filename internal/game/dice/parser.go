// Package dice parses dice expressions such as "3d6", "2d+1", and "1d-3".
// Expressions are used to describe roll ranges and damage, never rolled.
package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultSides is used when an expression omits the die size, as in "2d+1".
const DefaultSides = 6

// Expression represents a parsed dice expression.
// Precondition: Count >= 1, Sides >= 2 after successful Parse.
type Expression struct {
	Count    int // number of dice
	Sides    int // faces per die
	Modifier int // flat modifier (may be negative)
}

// New returns an expression of count six-sided dice plus modifier.
func New(count, modifier int) Expression {
	return Expression{Count: count, Sides: DefaultSides, Modifier: modifier}
}

// Parse parses a dice expression string into an Expression.
// Supported forms: "d20", "3d6", "2d6+3", "2d+1", "1d-2".
// Precondition: expr must be a non-empty string.
// Postcondition: Returns an Expression or a descriptive error.
func Parse(expr string) (Expression, error) {
	s := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(expr), " ", ""))
	if s == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}

	dIdx := strings.Index(s, "d")
	if dIdx < 0 {
		return Expression{}, fmt.Errorf("dice: missing 'd' in expression %q", expr)
	}

	// Count defaults to 1 when omitted.
	count := 1
	if countStr := s[:dIdx]; countStr != "" {
		var err error
		count, err = strconv.Atoi(countStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: %w", expr, err)
		}
		if count <= 0 {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: must be >= 1", expr)
		}
	}

	rest := s[dIdx+1:]
	sidesStr, modStr := rest, ""
	if i := strings.IndexAny(rest, "+-"); i >= 0 {
		sidesStr, modStr = rest[:i], rest[i:]
	}

	sides := DefaultSides
	if sidesStr != "" {
		var err error
		sides, err = strconv.Atoi(sidesStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die sides in %q: %w", expr, err)
		}
		if sides < 2 {
			return Expression{}, fmt.Errorf("dice: invalid die sides in %q: must be >= 2", expr)
		}
	}

	modifier := 0
	if modStr != "" {
		var err error
		modifier, err = strconv.Atoi(modStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", expr, err)
		}
	}

	return Expression{Count: count, Sides: sides, Modifier: modifier}, nil
}

// Min returns the lowest possible total.
func (e Expression) Min() int {
	return e.Count + e.Modifier
}

// Max returns the highest possible total.
func (e Expression) Max() int {
	return e.Count*e.Sides + e.Modifier
}

// String renders the expression in short form: the die size is omitted when
// it is six, and a zero modifier is omitted.
//
// Postcondition: Parse(e.String()) yields e for any valid e.
func (e Expression) String() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(e.Count))
	b.WriteByte('d')
	if e.Sides != DefaultSides {
		b.WriteString(strconv.Itoa(e.Sides))
	}
	if e.Modifier != 0 {
		fmt.Fprintf(&b, "%+d", e.Modifier)
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (e Expression) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Expression) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
