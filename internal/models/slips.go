package models

import "github.com/shopspring/decimal"

// SlipCategory groups slip types by long-term value.
type SlipCategory string

const (
	CategoryPreferred   SlipCategory = "preferred"
	CategoryNormal      SlipCategory = "normal"
	CategoryDiscouraged SlipCategory = "discouraged"
)

// SlipType describes one slip variant: its break-even win probability per
// leg, value category, payout multiplier, and static unit-size policy.
type SlipType struct {
	Name      string          `json:"name"`
	BreakEven float64         `json:"break_even"`
	Category  SlipCategory    `json:"category"`
	Payout    decimal.Decimal `json:"payout"`
	MinUnits  decimal.Decimal `json:"min_units"`
	MaxUnits  decimal.Decimal `json:"max_units"`
}

// SlipTable is a versioned set of slip types. Threshold updates are data
// changes, not code changes.
type SlipTable struct {
	Version string     `json:"version"`
	Types   []SlipType `json:"types"`
}

// SlipQualification is one slip type a favored probability clears.
type SlipQualification struct {
	Name        string          `json:"name"`
	BreakEven   float64         `json:"break_even"`
	Category    SlipCategory    `json:"category"`
	Payout      decimal.Decimal `json:"payout"`
	MinUnits    decimal.Decimal `json:"min_units"`
	MaxUnits    decimal.Decimal `json:"max_units"`
	Discouraged bool            `json:"discouraged"`
}

// SlipRecommendation is the ordered list of qualifying slip types for one
// play. Empty means the prop is a skip.
type SlipRecommendation []SlipQualification

// Empty reports whether no slip type qualifies.
func (r SlipRecommendation) Empty() bool { return len(r) == 0 }

// Names returns the qualifying slip type names in display order.
func (r SlipRecommendation) Names() []string {
	names := make([]string, len(r))
	for i, q := range r {
		names[i] = q.Name
	}
	return names
}

// Contains reports whether a slip type qualifies by name.
func (r SlipRecommendation) Contains(name string) bool {
	for _, q := range r {
		if q.Name == name {
			return true
		}
	}
	return false
}

// HasPreferred reports whether any preferred-tier slip type qualifies.
func (r SlipRecommendation) HasPreferred() bool {
	for _, q := range r {
		if q.Category == CategoryPreferred {
			return true
		}
	}
	return false
}

// DefaultSlipTable returns the standard PrizePicks break-even table. Payout
// multipliers and unit guidance are static product data; 5/6 Flex carry the
// lowest break-even and are the bankroll-preferred plays, while 3-man slips
// are poor value even when they qualify.
func DefaultSlipTable() SlipTable {
	units := func(min, max float64) (decimal.Decimal, decimal.Decimal) {
		return decimal.NewFromFloat(min), decimal.NewFromFloat(max)
	}
	minStd, maxStd := units(0.25, 0.5)
	return SlipTable{
		Version: "2025.1",
		Types: []SlipType{
			{Name: "2 Power", BreakEven: 0.5774, Category: CategoryNormal, Payout: decimal.NewFromFloat(2.0), MinUnits: minStd, MaxUnits: maxStd},
			{Name: "3 Power", BreakEven: 0.5848, Category: CategoryDiscouraged, Payout: decimal.NewFromFloat(3.0), MinUnits: decimal.Zero, MaxUnits: decimal.Zero},
			{Name: "3 Flex", BreakEven: 0.5980, Category: CategoryDiscouraged, Payout: decimal.NewFromFloat(2.25), MinUnits: decimal.Zero, MaxUnits: decimal.NewFromFloat(0.25)},
			{Name: "4 Power", BreakEven: 0.5623, Category: CategoryNormal, Payout: decimal.NewFromFloat(5.0), MinUnits: minStd, MaxUnits: maxStd},
			{Name: "4 Flex", BreakEven: 0.5689, Category: CategoryNormal, Payout: decimal.NewFromFloat(3.0), MinUnits: minStd, MaxUnits: maxStd},
			{Name: "5 Flex", BreakEven: 0.5434, Category: CategoryPreferred, Payout: decimal.NewFromFloat(5.0), MinUnits: minStd, MaxUnits: maxStd},
			{Name: "6 Flex", BreakEven: 0.5434, Category: CategoryPreferred, Payout: decimal.NewFromFloat(10.0), MinUnits: minStd, MaxUnits: maxStd},
		},
	}
}
