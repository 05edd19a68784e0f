package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/chiptrainer/prizepicks-ev-finder/internal/models"
)

const (
	colorPlaysFound = 0x00FF00
	colorNoPlays    = 0x808080

	separator = "━━━━━━━━━━━━━━━━━━━━━━"
)

// DiscordConfig holds Discord webhook configuration
type DiscordConfig struct {
	WebhookURL string
	Timeout    time.Duration
	MaxPlays   int // embed row cap, Discord truncates long descriptions
}

// DiscordNotifier posts scan results to a Discord webhook as a single embed
type DiscordNotifier struct {
	cfg        DiscordConfig
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewDiscordNotifier creates a new Discord notifier
func NewDiscordNotifier(cfg DiscordConfig, logger zerolog.Logger) *DiscordNotifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxPlays <= 0 {
		cfg.MaxPlays = 15
	}
	return &DiscordNotifier{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With().Str("component", "discord").Logger(),
	}
}

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Color       int          `json:"color"`
	Timestamp   string       `json:"timestamp"`
	Footer      *embedFooter `json:"footer,omitempty"`
}

type embedFooter struct {
	Text string `json:"text"`
}

// Notify posts the ranked plays. An empty list posts the quiet-board embed
// so subscribers can tell a clean scan from a dead scanner.
func (n *DiscordNotifier) Notify(ctx context.Context, recs []models.Recommendation) error {
	if n.cfg.WebhookURL == "" {
		return fmt.Errorf("no webhook URL configured")
	}

	payload := n.buildPayload(recs, time.Now())

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send discord alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("discord webhook returned status %d", resp.StatusCode)
	}

	n.logger.Info().
		Int("plays", len(recs)).
		Msg("posted to discord")
	return nil
}

func (n *DiscordNotifier) buildPayload(recs []models.Recommendation, now time.Time) webhookPayload {
	if len(recs) == 0 {
		return webhookPayload{Embeds: []embed{{
			Title: "🎯 PrizePicks +EV Scanner",
			Description: "**No +EV plays found at this time.**\n\n" +
				"Check back closer to game time (1-2 hours before is optimal).\n\n" +
				"📌 **Pro Tips:**\n" +
				"• Best time to bet: 1-2 hours before game\n" +
				"• Use 5/6 Flex for maximum long-term profit\n" +
				"• Bet 0.25-0.5 units per slip",
			Color:     colorNoPlays,
			Timestamp: now.UTC().Format(time.RFC3339),
		}}}
	}

	lines := []string{
		fmt.Sprintf("Found **%d** +EV plays!\n", len(recs)),
		"🔥 = Optimal window (< 2h until game)",
		separator + "\n",
	}

	shown := recs
	if len(shown) > n.cfg.MaxPlays {
		shown = shown[:n.cfg.MaxPlays]
	}
	for _, rec := range shown {
		lines = append(lines, formatPlay(rec))
	}

	lines = append(lines,
		separator,
		"💰 **Bankroll Management:**",
		"• 5-man flex: 0.25-0.5 units",
		"• 3-man: 0.25-0.5 units",
		"• AVOID 3-man power plays",
	)

	return webhookPayload{Embeds: []embed{{
		Title:       "🎯 PrizePicks +EV Scanner",
		Description: strings.Join(lines, "\n"),
		Color:       colorPlaysFound,
		Timestamp:   now.UTC().Format(time.RFC3339),
		Footer:      &embedFooter{Text: "Line Comparison Strategy | Sharp Book: FanDuel"},
	}}}
}

func formatPlay(rec models.Recommendation) string {
	return fmt.Sprintf("%s **%s** %s %.1f %s\n   %s\n   📊 **%.1f%%** fair odds | **+%.1f%%** EV\n   %s | %s %.1fh\n",
		sportEmoji(rec.Prop.Sport),
		rec.Prop.Player,
		strings.ToUpper(string(rec.FavoredSide)),
		rec.Prop.Line,
		rec.Prop.StatCategory,
		rec.Prop.Matchup,
		rec.FavoredProb*100,
		rec.EVPercent,
		slipText(rec.Slips),
		timeEmoji(rec.HoursUntilGame),
		rec.HoursUntilGame,
	)
}

func sportEmoji(sport string) string {
	switch sport {
	case "basketball_nba":
		return "🏀"
	case "americanfootball_nfl":
		return "🏈"
	case "baseball_mlb":
		return "⚾"
	case "icehockey_nhl":
		return "🏒"
	default:
		return "🎯"
	}
}

func timeEmoji(hoursUntil float64) string {
	switch {
	case hoursUntil <= 2:
		return "🔥"
	case hoursUntil <= 6:
		return "⏰"
	default:
		return "📅"
	}
}

func slipText(slips models.SlipRecommendation) string {
	switch {
	case slips.Contains("5 Flex") || slips.Contains("6 Flex"):
		return "✅ 5/6 Flex"
	case slips.Contains("4 Flex"):
		return "✅ 4+ Flex"
	default:
		return "⚠️ 2-man only"
	}
}
