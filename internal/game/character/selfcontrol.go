package character

import (
	"github.com/cory-johannsen/charsheet/internal/game/attribute"
	"github.com/cory-johannsen/charsheet/internal/game/feature"
)

// SelfControl is a self-control roll number. Zero means the trait has none.
type SelfControl int

// Self-control roll values.
const (
	CRNone SelfControl = 0
	CR6    SelfControl = 6
	CR9    SelfControl = 9
	CR12   SelfControl = 12
	CR15   SelfControl = 15
)

const crSituation = "from others"

// Penalty returns the adjustment for the roll: -4, -3, -2, or -1 for
// 6, 9, 12, or 15 and zero otherwise.
func (cr SelfControl) Penalty() float64 {
	switch cr {
	case CR6:
		return -4
	case CR9:
		return -3
	case CR12:
		return -2
	case CR15:
		return -1
	}
	return 0
}

// SelfControlAdj selects what a self-control roll does to the sheet.
type SelfControlAdj string

// Self-control adjustment modes.
const (
	CRAdjNone                  SelfControlAdj = "none"
	CRAdjActionPenalty         SelfControlAdj = "action_penalty"
	CRAdjReactionPenalty       SelfControlAdj = "reaction_penalty"
	CRAdjFrightCheckPenalty    SelfControlAdj = "fright_check_penalty"
	CRAdjFrightCheckBonus      SelfControlAdj = "fright_check_bonus"
	CRAdjMinorCostOfLivingIncr SelfControlAdj = "minor_cost_of_living_increase"
	CRAdjMajorCostOfLivingIncr SelfControlAdj = "major_cost_of_living_increase"
)

// Features returns the synthetic features the adjustment mode produces for
// cr. The reaction penalty is not a bucketed feature; see Reaction.
func (a SelfControlAdj) Features(cr SelfControl) feature.List {
	p := cr.Penalty()
	if p == 0 {
		return nil
	}
	switch a {
	case CRAdjActionPenalty:
		return feature.List{feature.SkillBonus{Leveled: feature.Leveled{Amount: p}}}
	case CRAdjFrightCheckPenalty:
		return feature.List{feature.AttributeBonus{Leveled: feature.Leveled{Amount: p}, Attribute: attribute.FrightCheck}}
	case CRAdjFrightCheckBonus:
		return feature.List{feature.AttributeBonus{Leveled: feature.Leveled{Amount: -p}, Attribute: attribute.FrightCheck}}
	}
	return nil
}

// Reaction returns the reaction penalty for cr when the mode is
// CRAdjReactionPenalty.
func (a SelfControlAdj) Reaction(cr SelfControl) (situation string, amount float64, ok bool) {
	if a != CRAdjReactionPenalty || cr.Penalty() == 0 {
		return "", 0, false
	}
	return crSituation, cr.Penalty(), true
}
