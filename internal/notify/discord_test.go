package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiptrainer/prizepicks-ev-finder/internal/models"
)

// testDiscordSetup is a helper struct to hold test dependencies
type testDiscordSetup struct {
	notifier *DiscordNotifier
	server   *httptest.Server
	received []webhookPayload
	status   int
}

// setupTestDiscord creates a notifier against a stub webhook endpoint
func setupTestDiscord(t *testing.T) *testDiscordSetup {
	s := &testDiscordSetup{status: http.StatusNoContent}

	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload webhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
			s.received = append(s.received, payload)
		}
		w.WriteHeader(s.status)
	}))
	t.Cleanup(s.server.Close)

	s.notifier = NewDiscordNotifier(DiscordConfig{WebhookURL: s.server.URL}, zerolog.Nop())
	return s
}

// testRecommendation builds a ranked play for embed formatting
func testRecommendation(player string, evPercent, hoursUntil float64) models.Recommendation {
	return models.Recommendation{
		Prop: models.Prop{
			Player:       player,
			Matchup:      "DEN @ MIN",
			Sport:        "basketball_nba",
			StatCategory: "rebounds",
			Line:         12.0,
			GameTime:     time.Now().Add(time.Duration(hoursUntil * float64(time.Hour))),
		},
		Bookmaker:      "fanduel",
		BookLine:       12.5,
		FavoredSide:    models.SideUnder,
		FavoredProb:    0.5506,
		EVPercent:      evPercent,
		Slips: models.SlipRecommendation{
			{Name: "5 Flex", Category: models.CategoryPreferred},
			{Name: "6 Flex", Category: models.CategoryPreferred},
		},
		HoursUntilGame: hoursUntil,
		GeneratedAt:    time.Now().UTC(),
	}
}

// TestNotify_PostsEmbed tests the play embed layout
func TestNotify_PostsEmbed(t *testing.T) {
	setup := setupTestDiscord(t)

	err := setup.notifier.Notify(context.Background(), []models.Recommendation{
		testRecommendation("Nikola Jokić", 10.1, 1.5),
	})
	require.NoError(t, err)

	require.Len(t, setup.received, 1)
	require.Len(t, setup.received[0].Embeds, 1)

	e := setup.received[0].Embeds[0]
	assert.Equal(t, "🎯 PrizePicks +EV Scanner", e.Title)
	assert.Equal(t, colorPlaysFound, e.Color)
	require.NotNil(t, e.Footer)
	assert.Equal(t, "Line Comparison Strategy | Sharp Book: FanDuel", e.Footer.Text)

	assert.Contains(t, e.Description, "Found **1** +EV plays!")
	assert.Contains(t, e.Description, "🏀 **Nikola Jokić** UNDER 12.0 rebounds")
	assert.Contains(t, e.Description, "DEN @ MIN")
	assert.Contains(t, e.Description, "📊 **55.1%** fair odds | **+10.1%** EV")
	assert.Contains(t, e.Description, "✅ 5/6 Flex")
	assert.Contains(t, e.Description, "🔥 1.5h")
	assert.Contains(t, e.Description, "Bankroll Management")
}

// TestNotify_EmptyScan tests the quiet-board embed
func TestNotify_EmptyScan(t *testing.T) {
	setup := setupTestDiscord(t)

	err := setup.notifier.Notify(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, setup.received, 1)
	e := setup.received[0].Embeds[0]
	assert.Equal(t, colorNoPlays, e.Color)
	assert.Contains(t, e.Description, "No +EV plays found")
	assert.Contains(t, e.Description, "Pro Tips")
	assert.Nil(t, e.Footer)
}

// TestNotify_PlayCap tests that long slates are truncated
func TestNotify_PlayCap(t *testing.T) {
	setup := setupTestDiscord(t)

	var recs []models.Recommendation
	for i := 0; i < 20; i++ {
		recs = append(recs, testRecommendation(fmt.Sprintf("Player %02d", i), 5.0, 3))
	}

	err := setup.notifier.Notify(context.Background(), recs)
	require.NoError(t, err)

	desc := setup.received[0].Embeds[0].Description
	assert.Contains(t, desc, "Found **20** +EV plays!")
	assert.Contains(t, desc, "Player 14")
	assert.NotContains(t, desc, "Player 15")
}

// TestNotify_TimeEmojis tests the urgency indicator thresholds
func TestNotify_TimeEmojis(t *testing.T) {
	setup := setupTestDiscord(t)

	err := setup.notifier.Notify(context.Background(), []models.Recommendation{
		testRecommendation("Soon Player", 5.0, 1.0),
		testRecommendation("Later Player", 5.0, 4.0),
		testRecommendation("Tomorrow Player", 5.0, 26.0),
	})
	require.NoError(t, err)

	desc := setup.received[0].Embeds[0].Description
	assert.Contains(t, desc, "🔥 1.0h")
	assert.Contains(t, desc, "⏰ 4.0h")
	assert.Contains(t, desc, "📅 26.0h")
}

// TestNotify_WebhookError tests non-success status handling
func TestNotify_WebhookError(t *testing.T) {
	setup := setupTestDiscord(t)
	setup.status = http.StatusBadRequest

	err := setup.notifier.Notify(context.Background(), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

// TestNotify_NoWebhookURL tests the unconfigured guard
func TestNotify_NoWebhookURL(t *testing.T) {
	n := NewDiscordNotifier(DiscordConfig{}, zerolog.Nop())

	err := n.Notify(context.Background(), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no webhook URL")
}

// TestNotify_ContextCanceled tests cancellation propagation
func TestNotify_ContextCanceled(t *testing.T) {
	setup := setupTestDiscord(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := setup.notifier.Notify(ctx, nil)

	assert.Error(t, err)
}

// TestSlipText tests the recommendation shorthand tiers
func TestSlipText(t *testing.T) {
	flex := models.SlipRecommendation{{Name: "5 Flex"}}
	assert.Equal(t, "✅ 5/6 Flex", slipText(flex))

	fourFlex := models.SlipRecommendation{{Name: "4 Flex"}, {Name: "4 Power"}}
	assert.Equal(t, "✅ 4+ Flex", slipText(fourFlex))

	twoMan := models.SlipRecommendation{{Name: "2 Power"}}
	assert.Equal(t, "⚠️ 2-man only", slipText(twoMan))
}

// TestSportEmoji tests league icon selection
func TestSportEmoji(t *testing.T) {
	assert.Equal(t, "🏀", sportEmoji("basketball_nba"))
	assert.Equal(t, "🏈", sportEmoji("americanfootball_nfl"))
	assert.Equal(t, "⚾", sportEmoji("baseball_mlb"))
	assert.Equal(t, "🏒", sportEmoji("icehockey_nhl"))
	assert.Equal(t, "🎯", sportEmoji("soccer_epl"))
}
