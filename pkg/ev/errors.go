package ev

import "errors"

var (
	// ErrInvalidOdds marks an American odds value that is zero or has
	// magnitude below 100. It fails the single calculation, never the scan.
	ErrInvalidOdds = errors.New("invalid american odds")

	// ErrInvalidProbability marks a probability outside [0,1] reaching the
	// evaluator. It indicates a normalization bug upstream, not bad market
	// data, and aborts the scan.
	ErrInvalidProbability = errors.New("probability out of range")
)
