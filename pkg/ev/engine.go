package ev

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/chiptrainer/prizepicks-ev-finder/internal/models"
)

// EngineConfig bundles the pipeline knobs the engine needs per scan.
type EngineConfig struct {
	Matcher MatcherConfig
	Table   models.SlipTable
}

// Engine runs match, no-vig, EV, and slip recommendation for a scan's prop
// board. Filtering and dedup happen afterwards in Filter.
type Engine struct {
	matcher     *Matcher
	recommender *Recommender
	logger      zerolog.Logger
}

// NewEngine creates the evaluation engine.
func NewEngine(cfg EngineConfig, logger zerolog.Logger) *Engine {
	return &Engine{
		matcher:     NewMatcher(cfg.Matcher, logger),
		recommender: NewRecommender(cfg.Table),
		logger:      logger.With().Str("component", "engine").Logger(),
	}
}

// BatchStats counts the per-prop outcomes of one batch evaluation.
type BatchStats struct {
	Scanned        int
	Matched        int
	Unmatched      int
	SkippedInvalid int
}

// EvaluateMatched runs no-vig, EV, and slip recommendation for one matched
// prop.
func (e *Engine) EvaluateMatched(matched models.MatchedProp) (models.EVResult, error) {
	fair, err := RemoveVig(matched.Over.AmericanOdds, matched.Under.AmericanOdds)
	if err != nil {
		return models.EVResult{}, err
	}
	evaluation, err := Evaluate(fair)
	if err != nil {
		return models.EVResult{}, err
	}
	return models.EVResult{
		Matched:     matched,
		Fair:        fair,
		FavoredSide: evaluation.FavoredSide,
		FavoredProb: evaluation.FavoredProb,
		EVPercent:   evaluation.EVPercent,
		Slips:       e.recommender.Recommend(evaluation.FavoredProb),
	}, nil
}

// EvaluateBatch evaluates every prop on the board against the quote
// snapshot. Unmatched props and invalid-odds skips are counted rather than
// treated as errors; a probability assertion failure aborts the batch
// because it signals a bug, not bad data. Empty inputs are a valid
// zero-result batch.
func (e *Engine) EvaluateBatch(props []models.Prop, quotes []models.OddsQuote) ([]models.EVResult, BatchStats, error) {
	stats := BatchStats{Scanned: len(props)}
	results := make([]models.EVResult, 0, len(props))

	for _, prop := range props {
		matched, ok := e.matcher.Match(prop, quotes)
		if !ok {
			stats.Unmatched++
			continue
		}
		stats.Matched++

		res, err := e.EvaluateMatched(*matched)
		if err != nil {
			if errors.Is(err, ErrInvalidProbability) {
				return nil, stats, fmt.Errorf("evaluating %s %s: %w", prop.Player, prop.StatCategory, err)
			}
			stats.SkippedInvalid++
			e.logger.Warn().
				Err(err).
				Str("player", prop.Player).
				Str("stat", prop.StatCategory).
				Msg("skipping prop with invalid odds")
			continue
		}
		results = append(results, res)
	}

	e.logger.Info().
		Int("props", stats.Scanned).
		Int("matched", stats.Matched).
		Int("unmatched", stats.Unmatched).
		Int("skipped_invalid", stats.SkippedInvalid).
		Int("evaluated", len(results)).
		Msg("batch evaluation complete")
	return results, stats, nil
}
