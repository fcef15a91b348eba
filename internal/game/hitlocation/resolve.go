package hitlocation

import (
	"sort"
	"strconv"

	"github.com/cory-johannsen/charsheet/internal/game/feature"
)

// DRSource supplies the DR bonuses at a location keyed by damage-type
// specialization. *feature.Buckets implements it.
type DRSource interface {
	DRBonusesFor(locationID string) map[string]float64
}

// ResolvedLocation is a location with its roll range and total DR.
type ResolvedLocation struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Slots      int                `json:"slots"`
	HitPenalty int                `json:"hit_penalty"`
	RollRange  string             `json:"roll_range"`
	DR         map[string]float64 `json:"dr"`
	SubTable   *Resolved          `json:"sub_table,omitempty"`
}

// Resolved is a body plan ready for display.
type Resolved struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Roll      string             `json:"roll"`
	Locations []ResolvedLocation `json:"locations"`
}

// Resolve assigns consecutive roll ranges sized by slot count, starting at the
// roll's minimum, and totals each location's DR. The "all" entry is base DR
// plus "all" bonuses; every other damage type adds its own bonus to it.
// A nil src contributes no bonuses.
func Resolve(t *Table, src DRSource) Resolved {
	out := Resolved{ID: t.ID, Name: t.Name, Roll: t.Roll.String()}
	next := t.Roll.Min()
	for _, l := range t.Locations {
		rl := ResolvedLocation{
			ID:         l.ID,
			Name:       l.Name,
			Slots:      l.Slots,
			HitPenalty: l.HitPenalty,
			RollRange:  rollRange(next, l.Slots),
			DR:         totalDR(l, src),
		}
		next += l.Slots
		if l.SubTable != nil {
			sub := Resolve(l.SubTable, src)
			rl.SubTable = &sub
		}
		out.Locations = append(out.Locations, rl)
	}
	return out
}

func rollRange(start, slots int) string {
	switch slots {
	case 0:
		return "-"
	case 1:
		return strconv.Itoa(start)
	default:
		return strconv.Itoa(start) + "-" + strconv.Itoa(start+slots-1)
	}
}

func totalDR(l Location, src DRSource) map[string]float64 {
	var bonuses map[string]float64
	if src != nil {
		bonuses = src.DRBonusesFor(l.ID)
	}
	all := l.BaseDR + bonuses[feature.AllDamage]
	dr := map[string]float64{feature.AllDamage: all}
	for spec, v := range bonuses {
		if spec != feature.AllDamage {
			dr[spec] = all + v
		}
	}
	return dr
}

// Specializations returns the damage types of dr other than "all", sorted.
func Specializations(dr map[string]float64) []string {
	out := make([]string, 0, len(dr))
	for k := range dr {
		if k != feature.AllDamage {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
