package ev

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/chiptrainer/prizepicks-ev-finder/internal/models"
)

const (
	// DefaultMinEVPercent drops thin edges below a 2% expected value.
	DefaultMinEVPercent = 2.0

	// DefaultDedupWindow suppresses repeat alerts for a day.
	DefaultDedupWindow = 24 * time.Hour
)

// AlertStore persists alert records across scans for repeat suppression.
// Implementations must expire records past the dedup window and tolerate
// concurrent scans through the scan lock held by the caller.
type AlertStore interface {
	PurgeExpired(ctx context.Context, olderThan time.Time) (int, error)
	Seen(ctx context.Context, key string) (bool, error)
	MarkBatch(ctx context.Context, records []models.AlertRecord) error
}

// DedupKey builds the suppression key for a play: normalized player, stat
// category, line, favored side, and the game's UTC calendar date.
func DedupKey(prop models.Prop, side models.Side) string {
	player := strings.ReplaceAll(NormalizeName(prop.Player), " ", "-")
	return fmt.Sprintf("%s:%s:%.1f:%s:%s",
		player, prop.StatCategory, prop.Line, side, prop.GameTime.UTC().Format("2006-01-02"))
}

// FilterConfig tunes the cutoff and suppression window.
type FilterConfig struct {
	MinEVPercent float64
	DedupWindow  time.Duration
}

// FilterStats counts what a scan's filter pass dropped and why.
type FilterStats struct {
	BelowCutoff int
	NoSlips     int
	Suppressed  int
	Purged      int
	Degraded    bool
}

// Filter applies the EV cutoff, suppresses repeat alerts through the store,
// and ranks survivors for delivery. It is the only component that touches
// the alert store.
type Filter struct {
	store  AlertStore
	cfg    FilterConfig
	logger zerolog.Logger
}

// NewFilter creates a filter. Zero-valued config fields take the defaults.
func NewFilter(store AlertStore, cfg FilterConfig, logger zerolog.Logger) *Filter {
	if cfg.MinEVPercent <= 0 {
		cfg.MinEVPercent = DefaultMinEVPercent
	}
	if cfg.DedupWindow <= 0 {
		cfg.DedupWindow = DefaultDedupWindow
	}
	return &Filter{
		store:  store,
		cfg:    cfg,
		logger: logger.With().Str("component", "filter").Logger(),
	}
}

// FilterAndRank turns raw EV results into the ordered alert list. Expired
// records are purged first, survivors are deduped read-only, and the
// records for included plays are committed in one batched write at the end
// so an abandoned scan commits nothing. A store failure downgrades the scan
// to no-dedup with a single warning instead of aborting it; only context
// cancellation returns an error.
func (f *Filter) FilterAndRank(ctx context.Context, results []models.EVResult) ([]models.Recommendation, FilterStats, error) {
	var stats FilterStats
	now := time.Now()

	purged, err := f.store.PurgeExpired(ctx, now.Add(-f.cfg.DedupWindow))
	if err != nil {
		if ctx.Err() != nil {
			return nil, stats, ctx.Err()
		}
		f.degrade(&stats, err)
	} else {
		stats.Purged = purged
	}

	var (
		recs    []models.Recommendation
		pending []models.AlertRecord
	)
	for _, res := range results {
		if res.EVPercent <= 0 || res.EVPercent < f.cfg.MinEVPercent {
			stats.BelowCutoff++
			continue
		}
		if res.Slips.Empty() {
			stats.NoSlips++
			continue
		}

		key := DedupKey(res.Matched.Prop, res.FavoredSide)
		if !stats.Degraded {
			seen, err := f.store.Seen(ctx, key)
			if err != nil {
				if ctx.Err() != nil {
					return nil, stats, ctx.Err()
				}
				f.degrade(&stats, err)
			} else if seen {
				stats.Suppressed++
				continue
			}
		}

		recs = append(recs, buildRecommendation(res, now))
		pending = append(pending, models.AlertRecord{Key: key, AlertedAt: now})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].EVPercent != recs[j].EVPercent {
			return recs[i].EVPercent > recs[j].EVPercent
		}
		return recs[i].HoursUntilGame < recs[j].HoursUntilGame
	})

	if !stats.Degraded && len(pending) > 0 {
		if err := f.store.MarkBatch(ctx, pending); err != nil {
			if ctx.Err() != nil {
				return nil, stats, ctx.Err()
			}
			f.degrade(&stats, err)
		}
	}

	f.logger.Debug().
		Int("included", len(recs)).
		Int("suppressed", stats.Suppressed).
		Int("below_cutoff", stats.BelowCutoff).
		Int("no_slips", stats.NoSlips).
		Int("purged", stats.Purged).
		Msg("filter pass complete")
	return recs, stats, nil
}

func (f *Filter) degrade(stats *FilterStats, err error) {
	if stats.Degraded {
		return
	}
	stats.Degraded = true
	f.logger.Warn().Err(err).Msg("alert store unavailable, continuing without dedup")
}

func buildRecommendation(res models.EVResult, now time.Time) models.Recommendation {
	return models.Recommendation{
		ID:             uuid.New(),
		Prop:           res.Matched.Prop,
		Bookmaker:      res.Matched.Bookmaker,
		BookLine:       res.Matched.Over.Line,
		FavoredSide:    res.FavoredSide,
		FavoredProb:    res.FavoredProb,
		EVPercent:      res.EVPercent,
		Vig:            res.Fair.Vig,
		Slips:          res.Slips,
		HoursUntilGame: res.Matched.Prop.GameTime.Sub(now).Hours(),
		GeneratedAt:    now.UTC(),
	}
}
