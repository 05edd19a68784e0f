package models

import (
	"time"

	"github.com/google/uuid"
)

// Side identifies one half of a two-sided player-prop market.
type Side string

const (
	SideOver  Side = "over"
	SideUnder Side = "under"
)

// OddsQuote is a single-sided sportsbook quotation for a player prop.
// Quotes are value types and are never mutated after fetch.
type OddsQuote struct {
	Bookmaker    string    `json:"bookmaker"`
	Sport        string    `json:"sport"`
	StatCategory string    `json:"stat_category"`
	Player       string    `json:"player"`
	Line         float64   `json:"line"`
	Side         Side      `json:"side"`
	AmericanOdds int       `json:"american_odds"`
	Matchup      string    `json:"matchup"`
	GameTime     time.Time `json:"game_time"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Prop is one entry on the fantasy-slip board, evaluated against the
// sportsbook snapshot each scan.
type Prop struct {
	Player       string    `json:"player"`
	Matchup      string    `json:"matchup"`
	Sport        string    `json:"sport"`
	StatCategory string    `json:"stat_category"`
	Line         float64   `json:"line"`
	GameTime     time.Time `json:"game_time"`
}

// MatchedProp pairs a board prop with its best over/under quote pair from a
// single bookmaker. Both quotes share player, stat category, line, and book,
// with the quote line within matching tolerance of the prop line.
type MatchedProp struct {
	Prop      Prop      `json:"prop"`
	Over      OddsQuote `json:"over"`
	Under     OddsQuote `json:"under"`
	Bookmaker string    `json:"bookmaker"`
	LineDelta float64   `json:"line_delta"`
}

// FairProbability holds de-vigged probabilities for a two-sided market.
// Over and Under sum to 1 within floating epsilon; Vig is the raw overround
// and is reported informationally.
type FairProbability struct {
	Over  float64 `json:"over"`
	Under float64 `json:"under"`
	Vig   float64 `json:"vig"`
}

// EVResult is the evaluated outcome for one matched prop, including the
// slip types its favored probability qualifies for.
type EVResult struct {
	Matched     MatchedProp        `json:"matched"`
	Fair        FairProbability    `json:"fair"`
	FavoredSide Side               `json:"favored_side"`
	FavoredProb float64            `json:"favored_prob"`
	EVPercent   float64            `json:"ev_percent"`
	Slips       SlipRecommendation `json:"slips"`
}

// Recommendation is a filtered, ranked, alert-ready play.
type Recommendation struct {
	ID             uuid.UUID          `json:"id"`
	Prop           Prop               `json:"prop"`
	Bookmaker      string             `json:"bookmaker"`
	BookLine       float64            `json:"book_line"`
	FavoredSide    Side               `json:"favored_side"`
	FavoredProb    float64            `json:"favored_prob"`
	EVPercent      float64            `json:"ev_percent"`
	Vig            float64            `json:"vig"`
	Slips          SlipRecommendation `json:"slips"`
	HoursUntilGame float64            `json:"hours_until_game"`
	GeneratedAt    time.Time          `json:"generated_at"`
}

// ScanResult summarizes one scan invocation.
type ScanResult struct {
	ScanID          uuid.UUID        `json:"scan_id"`
	StartedAt       time.Time        `json:"started_at"`
	CompletedAt     time.Time        `json:"completed_at"`
	PropsScanned    int              `json:"props_scanned"`
	Matched         int              `json:"matched"`
	Unmatched       int              `json:"unmatched"`
	SkippedInvalid  int              `json:"skipped_invalid"`
	Suppressed      int              `json:"suppressed"`
	Degraded        bool             `json:"degraded"`
	Recommendations []Recommendation `json:"recommendations"`
}

// AlertRecord marks a play as already alerted so repeat scans inside the
// dedup window stay quiet. The only entity persisted across scans.
type AlertRecord struct {
	Key       string    `json:"key"`
	AlertedAt time.Time `json:"alerted_at"`
}
