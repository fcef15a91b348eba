package attribute

import (
	"fmt"

	"github.com/cory-johannsen/charsheet/internal/game/dice"
)

// Progression selects how Strength maps to thrust and swing damage.
type Progression string

// Damage progressions.
const (
	BasicSet          Progression = "basic_set"
	ThrustSwingMinus2 Progression = "thrust_equals_swing_minus_2"
)

// Validate reports an error for an unknown progression.
func (p Progression) Validate() error {
	switch p {
	case BasicSet, ThrustSwingMinus2:
		return nil
	}
	return fmt.Errorf("unknown damage progression %q", p)
}

// Thrust returns thrust damage for striking strength st.
func (p Progression) Thrust(st int) dice.Expression {
	if p == ThrustSwingMinus2 {
		sw := p.Swing(st)
		sw.Modifier -= 2
		return sw
	}
	if st < 1 {
		st = 1
	}
	if st < 19 {
		return dice.New(1, -(6 - (st-1)/2))
	}
	v := st - 11
	if st > 50 {
		v--
		if st > 79 {
			v -= 1 + (st-80)/5
		}
	}
	return dice.New(v/8+1, v%8/2-1)
}

// Swing returns swing damage for striking strength st.
func (p Progression) Swing(st int) dice.Expression {
	if st < 1 {
		st = 1
	}
	if st < 10 {
		return dice.New(1, -(5 - (st-1)/2))
	}
	if st < 28 {
		v := st - 9
		return dice.New(v/4+1, v%4-1)
	}
	v := st
	if st > 40 {
		v -= (st - 40) / 5
	}
	if st > 59 {
		v++
	}
	v += 9
	return dice.New(v/8+1, v%8/2-1)
}
