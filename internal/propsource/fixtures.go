// Package propsource supplies the slip-product board the scanner evaluates.
// Boards come from a JSON file, from a built-in demo fixture, or are derived
// from the sportsbook snapshot itself when no board feed is wired up.
package propsource

import (
	"context"
	"time"

	"github.com/chiptrainer/prizepicks-ev-finder/internal/models"
)

// FixtureSource serves a small built-in board with matching sportsbook
// quotes. It exists for demos and smoke tests: the numbers cover a strong
// play, a borderline one, thin edges below the cutoff, and an unmatched
// prop, without spending API quota.
type FixtureSource struct {
	now time.Time
}

// NewFixtureSource creates a fixture source anchored at the current time so
// game times always sit inside the scan window.
func NewFixtureSource() *FixtureSource {
	return &FixtureSource{now: time.Now()}
}

// Props returns the demo board
func (s *FixtureSource) Props(ctx context.Context) ([]models.Prop, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []models.Prop{
		{Player: "Nikola Jokić", Matchup: "DEN @ MIN", Sport: "basketball_nba", StatCategory: "rebounds", Line: 12.0, GameTime: s.now.Add(90 * time.Minute)},
		{Player: "Herb Jones", Matchup: "NOP @ DAL", Sport: "basketball_nba", StatCategory: "points", Line: 11.5, GameTime: s.now.Add(4 * time.Hour)},
		{Player: "LeBron James", Matchup: "LAL @ BOS", Sport: "basketball_nba", StatCategory: "points", Line: 25.5, GameTime: s.now.Add(3 * time.Hour)},
		{Player: "Stephen Curry", Matchup: "GSW @ PHX", Sport: "basketball_nba", StatCategory: "threes", Line: 4.5, GameTime: s.now.Add(5 * time.Hour)},
		{Player: "Patrick Mahomes", Matchup: "KC @ LV", Sport: "americanfootball_nfl", StatCategory: "passing_yards", Line: 285.5, GameTime: s.now.Add(26 * time.Hour)},
		{Player: "Tyreek Hill", Matchup: "MIA @ BUF", Sport: "americanfootball_nfl", StatCategory: "receiving_yards", Line: 79.5, GameTime: s.now.Add(26 * time.Hour)},
		{Player: "Victor Wembanyama", Matchup: "SAS @ OKC", Sport: "basketball_nba", StatCategory: "blocks", Line: 3.5, GameTime: s.now.Add(6 * time.Hour)},
	}, nil
}

// FetchQuotes returns the demo sportsbook snapshot. The Jokić quotes sit at
// 12.5 against the board's 12.0 to exercise line tolerance, and Herb Jones
// is listed under his full name to exercise alias resolution. Wembanyama has
// no quotes at all.
func (s *FixtureSource) FetchQuotes(ctx context.Context, sports, markets []string, window time.Duration) ([]models.OddsQuote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(sports))
	for _, sport := range sports {
		wanted[sport] = true
	}

	all := []models.OddsQuote{}
	add := func(sport, matchup, stat, player string, line float64, gameTime time.Time, overOdds, underOdds int) {
		base := models.OddsQuote{
			Bookmaker:    "fanduel",
			Sport:        sport,
			StatCategory: stat,
			Player:       player,
			Line:         line,
			Matchup:      matchup,
			GameTime:     gameTime,
			UpdatedAt:    s.now.Add(-10 * time.Minute),
		}
		over, under := base, base
		over.Side, over.AmericanOdds = models.SideOver, overOdds
		under.Side, under.AmericanOdds = models.SideUnder, underOdds
		all = append(all, over, under)
	}

	add("basketball_nba", "DEN @ MIN", "rebounds", "Nikola Jokic", 12.5, s.now.Add(90*time.Minute), 110, -140)
	add("basketball_nba", "NOP @ DAL", "points", "Herbert Jones", 11.5, s.now.Add(4*time.Hour), -150, 120)
	add("basketball_nba", "LAL @ BOS", "points", "LeBron James", 25.5, s.now.Add(3*time.Hour), -130, 100)
	add("basketball_nba", "GSW @ PHX", "threes", "Stephen Curry", 4.5, s.now.Add(5*time.Hour), -105, -125)
	add("americanfootball_nfl", "KC @ LV", "passing_yards", "Patrick Mahomes", 285.5, s.now.Add(26*time.Hour), -105, -125)
	add("americanfootball_nfl", "MIA @ BUF", "receiving_yards", "Tyreek Hill", 79.5, s.now.Add(26*time.Hour), -118, -110)

	quotes := make([]models.OddsQuote, 0, len(all))
	for _, q := range all {
		if len(wanted) > 0 && !wanted[q.Sport] {
			continue
		}
		if window > 0 && q.GameTime.After(s.now.Add(window)) {
			continue
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}
