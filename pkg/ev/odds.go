// Package ev implements the line-comparison expected-value engine: American
// odds conversion, no-vig normalization, even-money EV, slip-type
// recommendation, prop matching, and alert filtering with repeat
// suppression.
package ev

import (
	"fmt"
	"math"
)

// Epsilon bounds floating error on probability invariants.
const Epsilon = 1e-6

// ToProbability converts signed American odds into an implied probability.
// Odds must be nonzero with magnitude at least 100; anything else wraps
// ErrInvalidOdds. Pure function.
func ToProbability(odds int) (float64, error) {
	if odds == 0 {
		return 0, fmt.Errorf("%w: odds cannot be zero", ErrInvalidOdds)
	}
	if odds > -100 && odds < 100 {
		return 0, fmt.Errorf("%w: magnitude below 100 (%+d)", ErrInvalidOdds, odds)
	}
	if odds > 0 {
		return 100.0 / float64(odds+100), nil
	}
	risk := math.Abs(float64(odds))
	return risk / (risk + 100.0), nil
}
