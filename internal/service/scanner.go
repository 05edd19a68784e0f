package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/chiptrainer/prizepicks-ev-finder/internal/metrics"
	"github.com/chiptrainer/prizepicks-ev-finder/internal/models"
	"github.com/chiptrainer/prizepicks-ev-finder/internal/propsource"
	"github.com/chiptrainer/prizepicks-ev-finder/pkg/ev"
)

// DefaultEventWindow bounds how far ahead games are scanned.
const DefaultEventWindow = 48 * time.Hour

// ErrScanInProgress is returned when another replica holds the scan lock.
var ErrScanInProgress = errors.New("scan already in progress")

// ScannerConfig holds scan scope settings.
type ScannerConfig struct {
	Sports      []string      // e.g., ["basketball_nba"]
	Markets     []string      // e.g., ["player_points", "player_rebounds"]
	EventWindow time.Duration // how far ahead games are included
}

// ScannerDeps bundles the scanner's collaborators. Props, Notifier,
// Publisher, and Locker are optional; a nil Props derives the board from
// the fetched quotes.
type ScannerDeps struct {
	Engine    *ev.Engine
	Filter    *ev.Filter
	Quotes    QuoteFetcher
	Props     PropSource
	Notifier  Notifier
	Publisher Publisher
	Locker    ScanLocker
}

// quotaReporter is implemented by fetchers that track remaining API quota.
type quotaReporter interface {
	RequestsRemaining() int
}

// Scanner orchestrates one full scan: board and quotes in, evaluated and
// filtered recommendations out, delivered to the notifier and publisher.
type Scanner struct {
	cfg    ScannerConfig
	deps   ScannerDeps
	logger zerolog.Logger

	mu   sync.RWMutex
	last *models.ScanResult
}

// NewScanner creates a new scanner service
func NewScanner(cfg ScannerConfig, deps ScannerDeps, logger zerolog.Logger) *Scanner {
	if cfg.EventWindow <= 0 {
		cfg.EventWindow = DefaultEventWindow
	}
	return &Scanner{
		cfg:    cfg,
		deps:   deps,
		logger: logger.With().Str("component", "scanner").Logger(),
	}
}

// Scan runs one complete scan cycle and returns its result. When another
// replica holds the scan lock it returns ErrScanInProgress without doing
// any work. A lost lock store degrades to an unlocked scan rather than
// blocking alerts.
func (s *Scanner) Scan(ctx context.Context) (models.ScanResult, error) {
	locked, err := s.acquireLock(ctx)
	if err != nil {
		metrics.ScansTotal.WithLabelValues("skipped").Inc()
		return models.ScanResult{}, err
	}
	if locked {
		defer s.releaseLock(ctx)
	}

	started := time.Now()
	result, err := s.runScan(ctx, started)
	if err != nil {
		metrics.ScansTotal.WithLabelValues("error").Inc()
		return models.ScanResult{}, err
	}

	metrics.ObserveScan(result, time.Since(started))
	s.deliver(ctx, result)

	s.mu.Lock()
	s.last = &result
	s.mu.Unlock()

	s.logger.Info().
		Str("scan_id", result.ScanID.String()).
		Int("props_scanned", result.PropsScanned).
		Int("matched", result.Matched).
		Int("unmatched", result.Unmatched).
		Int("suppressed", result.Suppressed).
		Int("recommendations", len(result.Recommendations)).
		Bool("degraded", result.Degraded).
		Dur("duration", time.Since(started)).
		Msg("scan completed")

	return result, nil
}

// LastResult returns the most recent completed scan, if any.
func (s *Scanner) LastResult() (models.ScanResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return models.ScanResult{}, false
	}
	return *s.last, true
}

func (s *Scanner) runScan(ctx context.Context, started time.Time) (models.ScanResult, error) {
	quotes, err := s.deps.Quotes.FetchQuotes(ctx, s.cfg.Sports, s.cfg.Markets, s.cfg.EventWindow)
	if err != nil {
		return models.ScanResult{}, fmt.Errorf("failed to fetch sportsbook quotes: %w", err)
	}
	if reporter, ok := s.deps.Quotes.(quotaReporter); ok {
		if remaining := reporter.RequestsRemaining(); remaining >= 0 {
			metrics.APIRequestsRemaining.Set(float64(remaining))
		}
	}

	board, err := s.loadBoard(ctx, quotes)
	if err != nil {
		return models.ScanResult{}, fmt.Errorf("failed to load prop board: %w", err)
	}
	board = s.inWindow(board, started)

	results, batchStats, err := s.deps.Engine.EvaluateBatch(board, quotes)
	if err != nil {
		return models.ScanResult{}, fmt.Errorf("batch evaluation failed: %w", err)
	}

	recommendations, filterStats, err := s.deps.Filter.FilterAndRank(ctx, results)
	if err != nil {
		return models.ScanResult{}, fmt.Errorf("failed to filter results: %w", err)
	}

	return models.ScanResult{
		ScanID:          uuid.New(),
		StartedAt:       started,
		CompletedAt:     time.Now(),
		PropsScanned:    batchStats.Scanned,
		Matched:         batchStats.Matched,
		Unmatched:       batchStats.Unmatched,
		SkippedInvalid:  batchStats.SkippedInvalid,
		Suppressed:      filterStats.Suppressed,
		Degraded:        filterStats.Degraded,
		Recommendations: recommendations,
	}, nil
}

// loadBoard fetches the fantasy board, deriving one from the sportsbook
// quotes when no board source is configured.
func (s *Scanner) loadBoard(ctx context.Context, quotes []models.OddsQuote) ([]models.Prop, error) {
	if s.deps.Props == nil {
		board := propsource.BoardFromQuotes(quotes)
		s.logger.Debug().Int("props", len(board)).Msg("derived board from sportsbook quotes")
		return board, nil
	}
	return s.deps.Props.Props(ctx)
}

// inWindow drops props whose games start outside the scan window.
func (s *Scanner) inWindow(board []models.Prop, now time.Time) []models.Prop {
	cutoff := now.Add(s.cfg.EventWindow)
	kept := make([]models.Prop, 0, len(board))
	for _, prop := range board {
		if prop.GameTime.After(now) && prop.GameTime.Before(cutoff) {
			kept = append(kept, prop)
		}
	}
	if dropped := len(board) - len(kept); dropped > 0 {
		s.logger.Debug().Int("dropped", dropped).Msg("props outside scan window")
	}
	return kept
}

// deliver pushes the result to the notifier and publisher. Delivery errors
// are logged but never fail a completed scan.
func (s *Scanner) deliver(ctx context.Context, result models.ScanResult) {
	if s.deps.Notifier != nil {
		if err := s.deps.Notifier.Notify(ctx, result.Recommendations); err != nil {
			s.logger.Warn().
				Err(err).
				Str("scan_id", result.ScanID.String()).
				Msg("failed to deliver notification")
		}
	}
	if s.deps.Publisher != nil {
		if err := s.deps.Publisher.Publish(ctx, result); err != nil {
			s.logger.Warn().
				Err(err).
				Str("scan_id", result.ScanID.String()).
				Msg("failed to publish scan result")
		}
	}
}

// acquireLock reports whether this replica holds the scan lock. A lock
// store error is downgraded to an unlocked scan; contention returns
// ErrScanInProgress.
func (s *Scanner) acquireLock(ctx context.Context) (bool, error) {
	if s.deps.Locker == nil {
		return false, nil
	}
	ok, err := s.deps.Locker.TryLock(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		s.logger.Warn().Err(err).Msg("scan lock unavailable, proceeding unlocked")
		return false, nil
	}
	if !ok {
		s.logger.Info().Msg("scan lock held elsewhere, skipping")
		return false, ErrScanInProgress
	}
	return true, nil
}

func (s *Scanner) releaseLock(ctx context.Context) {
	if err := s.deps.Locker.Unlock(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to release scan lock")
	}
}
