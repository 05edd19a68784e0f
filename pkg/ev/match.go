package ev

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/chiptrainer/prizepicks-ev-finder/internal/models"
)

const (
	// DefaultTolerance is the accepted gap between a board line and a book
	// line, in the stat's own unit.
	DefaultTolerance = 0.5

	// DefaultMaxEditDistance bounds the fuzzy name fallback.
	DefaultMaxEditDistance = 2
)

// Name resolution quality, best first. Exact beats alias beats fuzzy.
const (
	nameMatchExact = iota
	nameMatchAlias
	nameMatchFuzzy
	nameMatchNone
)

// MatcherConfig tunes prop-to-quote alignment.
type MatcherConfig struct {
	Tolerance          float64
	ToleranceOverrides map[string]float64
	PriorityBookmaker  string
	MaxEditDistance    int
	Aliases            map[string]string
}

// DefaultAliases maps common short player names to the form sportsbooks
// list them under. Keys and values are compared after normalization.
func DefaultAliases() map[string]string {
	return map[string]string{
		"nic claxton": "nicolas claxton",
		"herb jones":  "herbert jones",
		"cam thomas":  "cameron thomas",
		"moe wagner":  "moritz wagner",
		"lu dort":     "luguentz dort",
		"alex sarr":   "alexandre sarr",
	}
}

// Matcher aligns slip-product props against the sportsbook quote snapshot.
type Matcher struct {
	cfg     MatcherConfig
	aliases map[string]string
	logger  zerolog.Logger
}

// NewMatcher creates a matcher. Config aliases are merged over the built-in
// table; zero-valued tolerance and edit distance take the defaults.
func NewMatcher(cfg MatcherConfig, logger zerolog.Logger) *Matcher {
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = DefaultTolerance
	}
	if cfg.MaxEditDistance <= 0 {
		cfg.MaxEditDistance = DefaultMaxEditDistance
	}

	aliases := make(map[string]string)
	for short, full := range DefaultAliases() {
		aliases[NormalizeName(short)] = NormalizeName(full)
	}
	for short, full := range cfg.Aliases {
		aliases[NormalizeName(short)] = NormalizeName(full)
	}

	return &Matcher{
		cfg:     cfg,
		aliases: aliases,
		logger:  logger.With().Str("component", "matcher").Logger(),
	}
}

// NormalizeName lowercases a player name, folds diacritics, turns hyphens
// into spaces, drops other punctuation, and collapses whitespace. The
// pipeline is deterministic so matching stays reproducible.
func NormalizeName(name string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Match selects the best over/under quote pair for a prop. The boolean is
// false when no bookmaker carries the player's market within tolerance, an
// expected outcome the caller counts rather than logs per prop.
//
// Selection order across candidate pairs: the configured priority bookmaker
// first, then name-resolution quality, then smaller line delta, then the
// most recent quote, then bookmaker and line for determinism.
func (m *Matcher) Match(prop models.Prop, quotes []models.OddsQuote) (*models.MatchedProp, bool) {
	propName := NormalizeName(prop.Player)
	tolerance := m.tolerance(prop.StatCategory)

	type pairKey struct {
		book string
		line float64
	}
	type candidate struct {
		over  *models.OddsQuote
		under *models.OddsQuote
		rank  int
	}
	pairs := make(map[pairKey]*candidate)

	for i := range quotes {
		q := &quotes[i]
		if q.StatCategory != prop.StatCategory {
			continue
		}
		rank := m.nameRank(propName, NormalizeName(q.Player))
		if rank == nameMatchNone {
			continue
		}
		if math.Abs(q.Line-prop.Line) > tolerance {
			continue
		}

		key := pairKey{book: q.Bookmaker, line: q.Line}
		cand, ok := pairs[key]
		if !ok {
			cand = &candidate{rank: rank}
			pairs[key] = cand
		}
		if rank > cand.rank {
			cand.rank = rank
		}
		switch q.Side {
		case models.SideOver:
			if cand.over == nil || q.UpdatedAt.After(cand.over.UpdatedAt) {
				cand.over = q
			}
		case models.SideUnder:
			if cand.under == nil || q.UpdatedAt.After(cand.under.UpdatedAt) {
				cand.under = q
			}
		}
	}

	var (
		best     *models.MatchedProp
		bestRank int
	)
	for key, cand := range pairs {
		if cand.over == nil || cand.under == nil {
			continue
		}
		matched := &models.MatchedProp{
			Prop:      prop,
			Over:      *cand.over,
			Under:     *cand.under,
			Bookmaker: key.book,
			LineDelta: math.Abs(key.line - prop.Line),
		}
		if best == nil || m.better(matched, cand.rank, best, bestRank) {
			best = matched
			bestRank = cand.rank
		}
	}

	if best == nil {
		return nil, false
	}
	m.logger.Debug().
		Str("player", prop.Player).
		Str("stat", prop.StatCategory).
		Str("bookmaker", best.Bookmaker).
		Float64("line_delta", best.LineDelta).
		Msg("prop matched")
	return best, true
}

func (m *Matcher) tolerance(stat string) float64 {
	if t, ok := m.cfg.ToleranceOverrides[stat]; ok && t > 0 {
		return t
	}
	return m.cfg.Tolerance
}

// nameRank resolves a quote's player against the prop's player. Alias
// lookups run both directions since either source may carry the short form.
func (m *Matcher) nameRank(propName, quoteName string) int {
	if propName == quoteName {
		return nameMatchExact
	}
	if full, ok := m.aliases[propName]; ok && full == quoteName {
		return nameMatchAlias
	}
	if full, ok := m.aliases[quoteName]; ok && full == propName {
		return nameMatchAlias
	}
	if editDistance(propName, quoteName, m.cfg.MaxEditDistance) <= m.cfg.MaxEditDistance {
		return nameMatchFuzzy
	}
	return nameMatchNone
}

func (m *Matcher) better(a *models.MatchedProp, aRank int, b *models.MatchedProp, bRank int) bool {
	aPriority := a.Bookmaker == m.cfg.PriorityBookmaker
	bPriority := b.Bookmaker == m.cfg.PriorityBookmaker
	if aPriority != bPriority {
		return aPriority
	}
	if aRank != bRank {
		return aRank < bRank
	}
	if a.LineDelta != b.LineDelta {
		return a.LineDelta < b.LineDelta
	}
	aTime, bTime := newestQuote(a), newestQuote(b)
	if !aTime.Equal(bTime) {
		return aTime.After(bTime)
	}
	if a.Bookmaker != b.Bookmaker {
		return a.Bookmaker < b.Bookmaker
	}
	return a.Over.Line < b.Over.Line
}

func newestQuote(matched *models.MatchedProp) time.Time {
	if matched.Under.UpdatedAt.After(matched.Over.UpdatedAt) {
		return matched.Under.UpdatedAt
	}
	return matched.Over.UpdatedAt
}

// editDistance computes the Levenshtein distance between two strings,
// capped at max+1 so long names bail out early.
func editDistance(a, b string, max int) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(rb)-len(ra) > max {
		return max + 1
	}

	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		curr[0] = j
		rowMin := curr[0]
		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
			if curr[i] < rowMin {
				rowMin = curr[i]
			}
		}
		if rowMin > max {
			return max + 1
		}
		prev, curr = curr, prev
	}
	return prev[len(ra)]
}
