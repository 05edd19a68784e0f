package propsource

import (
	"github.com/chiptrainer/prizepicks-ev-finder/internal/models"
)

// BoardFromQuotes derives a board from the sportsbook snapshot itself, one
// prop per distinct player market. Used when no board feed is configured:
// the scan then surfaces book-internal value, with every line delta zero.
func BoardFromQuotes(quotes []models.OddsQuote) []models.Prop {
	type propKey struct {
		player string
		stat   string
		line   float64
		game   string
	}

	seen := make(map[propKey]bool)
	var props []models.Prop
	for _, q := range quotes {
		if q.Side != models.SideOver {
			continue
		}
		key := propKey{
			player: q.Player,
			stat:   q.StatCategory,
			line:   q.Line,
			game:   q.Matchup,
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		props = append(props, models.Prop{
			Player:       q.Player,
			Matchup:      q.Matchup,
			Sport:        q.Sport,
			StatCategory: q.StatCategory,
			Line:         q.Line,
			GameTime:     q.GameTime,
		})
	}
	return props
}
