package ev

import (
	"fmt"

	"github.com/chiptrainer/prizepicks-ev-finder/internal/models"
)

// Evaluation is the favored-side outcome for one fair two-way market.
type Evaluation struct {
	FavoredSide models.Side `json:"favored_side"`
	FavoredProb float64     `json:"favored_prob"`
	EVPercent   float64     `json:"ev_percent"`
}

// Evaluate determines the favored side of a fair market and its expected
// value under the even-money payout the slip product uses per leg:
// ev = 2p - 1, reported in percent. A tie favors the over. Probabilities
// outside [0,1] wrap ErrInvalidProbability.
func Evaluate(fair models.FairProbability) (Evaluation, error) {
	if fair.Over < 0 || fair.Over > 1 {
		return Evaluation{}, fmt.Errorf("%w: over side %.6f", ErrInvalidProbability, fair.Over)
	}
	if fair.Under < 0 || fair.Under > 1 {
		return Evaluation{}, fmt.Errorf("%w: under side %.6f", ErrInvalidProbability, fair.Under)
	}

	side := models.SideOver
	favored := fair.Over
	if fair.Under > fair.Over {
		side = models.SideUnder
		favored = fair.Under
	}

	return Evaluation{
		FavoredSide: side,
		FavoredProb: favored,
		EVPercent:   (2*favored - 1) * 100,
	}, nil
}
