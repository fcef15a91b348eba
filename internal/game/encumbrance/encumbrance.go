// Package encumbrance computes basic lift, encumbrance tiers, and the move and
// dodge values they allow.
package encumbrance

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/charsheet/internal/game/attribute"
)

// Level is an encumbrance tier.
type Level int

// Encumbrance tiers, ascending.
const (
	None Level = iota
	Light
	Medium
	Heavy
	ExtraHeavy
)

// Levels lists every tier in ascending order.
var Levels = []Level{None, Light, Medium, Heavy, ExtraHeavy}

var (
	names       = [...]string{"None", "Light", "Medium", "Heavy", "X-Heavy"}
	multipliers = [...]float64{1, 2, 3, 6, 10}
)

// String implements fmt.Stringer.
func (l Level) String() string {
	if l < None || l > ExtraHeavy {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return names[l]
}

// Multiplier is the basic lift multiple the tier allows.
func (l Level) Multiplier() float64 {
	return multipliers[l]
}

// Penalty is the tier's move, dodge, and skill penalty: 0 through -4.
func (l Level) Penalty() int {
	return -int(l)
}

// MaximumCarry returns the heaviest load the tier allows.
func (l Level) MaximumCarry(basicLift float64) float64 {
	return RoundWeight(basicLift * l.Multiplier())
}

// BasicLift returns ST²/5. The value is rounded only once it reaches 10.
//
// Postcondition: BasicLift is non-decreasing in st for st >= 0.
func BasicLift(st float64) float64 {
	if st <= 0 {
		return 0
	}
	v := st * st / 5
	if v >= 10 {
		v = math.Round(v)
	}
	return v
}

// RoundWeight rounds a weight to four decimal places.
func RoundWeight(w float64) float64 {
	return math.Round(w*10000) / 10000
}

// Current returns the first tier whose maximum carry holds carried, or
// ExtraHeavy.
//
// Postcondition: Current is non-decreasing in carried.
func Current(carried, basicLift float64) Level {
	for _, l := range Levels {
		if l.MaximumCarry(basicLift) >= carried {
			return l
		}
	}
	return ExtraHeavy
}

// Move returns the move allowed at level. halvings counts active halve-move
// threshold operators.
//
// Postcondition: Move >= 1 whenever basicMove > 0.
func Move(basicMove float64, level Level, halvings int) int {
	m := attribute.Halve(basicMove, halvings)
	move := int(math.Floor(m * float64(10+2*level.Penalty()) / 10))
	if basicMove > 0 && move < 1 {
		return 1
	}
	return max(move, 0)
}

// Dodge returns the dodge allowed at level. halvings counts active
// halve-dodge threshold operators.
//
// Postcondition: Dodge >= 1.
func Dodge(basicSpeed, dodgeBonus float64, level Level, halvings int) int {
	d := attribute.Halve(3+dodgeBonus+basicSpeed, halvings)
	return max(1, int(math.Floor(d+float64(level.Penalty()))))
}

// Row is one tier of an encumbrance table.
type Row struct {
	Level        Level
	MaximumCarry float64
	Move         int
	Dodge        int
}

// Inputs are the resolved values an encumbrance table is built from.
type Inputs struct {
	BasicLift     float64
	BasicMove     float64
	BasicSpeed    float64
	DodgeBonus    float64
	MoveHalvings  int
	DodgeHalvings int
}

// Table returns a row for every tier.
func Table(in Inputs) []Row {
	rows := make([]Row, 0, len(Levels))
	for _, l := range Levels {
		rows = append(rows, Row{
			Level:        l,
			MaximumCarry: l.MaximumCarry(in.BasicLift),
			Move:         Move(in.BasicMove, l, in.MoveHalvings),
			Dodge:        Dodge(in.BasicSpeed, in.DodgeBonus, l, in.DodgeHalvings),
		})
	}
	return rows
}

// Units is the weight unit used for display and rule tables.
type Units string

// Weight units.
const (
	Pounds    Units = "lb"
	Kilograms Units = "kg"
)

// Validate reports an error for unknown units.
func (u Units) Validate() error {
	switch u {
	case Pounds, Kilograms:
		return nil
	}
	return fmt.Errorf("unknown weight units %q", u)
}

// FromPounds converts a weight in pounds to u using the 2 lb = 1 kg table
// convention.
func (u Units) FromPounds(lb float64) float64 {
	if u == Kilograms {
		return RoundWeight(lb / 2)
	}
	return lb
}
