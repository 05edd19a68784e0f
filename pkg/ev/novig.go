package ev

import (
	"fmt"

	"github.com/chiptrainer/prizepicks-ev-finder/internal/models"
)

// RemoveVig strips the bookmaker margin from a two-sided quotation and
// returns fair probabilities that sum to 1 within Epsilon. Vig is the raw
// overround, reported informationally. A negative-vig pair is normalized
// like any other; there is no arbitrage special-casing.
func RemoveVig(overOdds, underOdds int) (models.FairProbability, error) {
	overRaw, err := ToProbability(overOdds)
	if err != nil {
		return models.FairProbability{}, fmt.Errorf("over side: %w", err)
	}
	underRaw, err := ToProbability(underOdds)
	if err != nil {
		return models.FairProbability{}, fmt.Errorf("under side: %w", err)
	}

	rawSum := overRaw + underRaw
	if rawSum <= 0 {
		return models.FairProbability{}, fmt.Errorf("%w: implied probabilities sum to %.6f", ErrInvalidOdds, rawSum)
	}

	return models.FairProbability{
		Over:  overRaw / rawSum,
		Under: underRaw / rawSum,
		Vig:   rawSum - 1,
	}, nil
}
