package oddsapi

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/chiptrainer/prizepicks-ev-finder/internal/models"
)

const (
	// DefaultBaseURL is the production Odds API host.
	DefaultBaseURL = "https://api.the-odds-api.com"

	// lowQuotaThreshold triggers a warning once the monthly request
	// allowance runs thin.
	lowQuotaThreshold = 50
)

// Config holds odds API client configuration
type Config struct {
	APIKey            string
	BaseURL           string   // e.g., "https://api.the-odds-api.com"
	Regions           string   // e.g., "us"
	Bookmakers        []string // e.g., ["fanduel"]
	Timeout           time.Duration
	RequestsPerSecond float64 // client-side throttle, not the monthly quota
	Burst             int
}

// Client fetches player-prop quotes from The Odds API v4. Every call counts
// against the plan's monthly quota, so the client throttles itself and
// tracks the x-requests-remaining header.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	cfg     Config
	logger  zerolog.Logger

	mu        sync.Mutex
	remaining int
}

// NewClient creates an odds API client
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Regions == "" {
		cfg.Regions = "us"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second)

	return &Client{
		http:      httpClient,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		cfg:       cfg,
		logger:    logger.With().Str("component", "oddsapi").Logger(),
		remaining: -1,
	}
}

// ListEvents returns the sport's scheduled games
func (c *Client) ListEvents(ctx context.Context, sport string) ([]Event, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var events []Event
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(c.baseParams()).
		SetQueryParam("markets", "h2h").
		SetResult(&events).
		Get(fmt.Sprintf("/v4/sports/%s/odds", sport))
	if err != nil {
		return nil, fmt.Errorf("failed to list events for %s: %w", sport, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("odds api returned %d for %s: %s", resp.StatusCode(), sport, resp.String())
	}
	c.trackQuota(resp)

	return events, nil
}

// EventQuotes returns flattened player-prop quotes for one event
func (c *Client) EventQuotes(ctx context.Context, sport string, event Event, markets []string) ([]models.OddsQuote, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var odds EventOdds
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(c.baseParams()).
		SetQueryParam("markets", strings.Join(markets, ",")).
		SetResult(&odds).
		Get(fmt.Sprintf("/v4/sports/%s/events/%s/odds", sport, event.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event %s: %w", event.ID, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("odds api returned %d for event %s: %s", resp.StatusCode(), event.ID, resp.String())
	}
	c.trackQuota(resp)

	return flattenQuotes(sport, odds), nil
}

// FetchQuotes lists upcoming events for each sport and collects their prop
// quotes. One sport failing is logged and skipped; the call errors only when
// every sport fails, so a single suspended feed cannot blank the whole scan.
func (c *Client) FetchQuotes(ctx context.Context, sports, markets []string, window time.Duration) ([]models.OddsQuote, error) {
	now := time.Now()
	var (
		quotes  []models.OddsQuote
		failed  int
		lastErr error
	)

	for _, sport := range sports {
		events, err := c.ListEvents(ctx, sport)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			failed++
			lastErr = err
			c.logger.Warn().Err(err).Str("sport", sport).Msg("skipping sport")
			continue
		}

		for _, event := range events {
			if !inWindow(event.CommenceTime, now, window) {
				continue
			}
			eventQuotes, err := c.EventQuotes(ctx, sport, event, markets)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				c.logger.Warn().
					Err(err).
					Str("event_id", event.ID).
					Msg("skipping event")
				continue
			}
			quotes = append(quotes, eventQuotes...)
		}
	}

	if len(sports) > 0 && failed == len(sports) {
		return nil, fmt.Errorf("all sports failed: %w", lastErr)
	}

	c.logger.Info().
		Int("quotes", len(quotes)).
		Int("sports", len(sports)).
		Int("requests_remaining", c.RequestsRemaining()).
		Msg("quote fetch complete")
	return quotes, nil
}

// RequestsRemaining reports the monthly quota left, or -1 before the first
// response.
func (c *Client) RequestsRemaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

func (c *Client) baseParams() map[string]string {
	params := map[string]string{
		"apiKey":     c.cfg.APIKey,
		"regions":    c.cfg.Regions,
		"oddsFormat": "american",
	}
	if len(c.cfg.Bookmakers) > 0 {
		params["bookmakers"] = strings.Join(c.cfg.Bookmakers, ",")
	}
	return params
}

func (c *Client) trackQuota(resp *resty.Response) {
	header := resp.Header().Get("x-requests-remaining")
	if header == "" {
		return
	}
	remaining, err := strconv.ParseFloat(header, 64)
	if err != nil {
		return
	}

	c.mu.Lock()
	c.remaining = int(remaining)
	c.mu.Unlock()

	if remaining < lowQuotaThreshold {
		c.logger.Warn().
			Int("requests_remaining", int(remaining)).
			Msg("odds api quota running low")
	}
}

// inWindow reports whether a game starts between now and now+window.
func inWindow(commence, now time.Time, window time.Duration) bool {
	if window <= 0 {
		return commence.After(now)
	}
	return commence.After(now) && commence.Before(now.Add(window))
}

// flattenQuotes turns the nested bookmaker/market/outcome response into flat
// single-sided quotes. Market keys lose their player_ prefix so board and
// book use the same stat names; outcomes that are not Over or Under, such as
// anytime-scorer Yes entries, are dropped.
func flattenQuotes(sport string, odds EventOdds) []models.OddsQuote {
	matchup := fmt.Sprintf("%s @ %s", odds.AwayTeam, odds.HomeTeam)

	var quotes []models.OddsQuote
	for _, bookmaker := range odds.Bookmakers {
		for _, market := range bookmaker.Markets {
			stat := strings.TrimPrefix(market.Key, "player_")
			updated := market.LastUpdate
			if updated.IsZero() {
				updated = time.Now()
			}
			for _, outcome := range market.Outcomes {
				var side models.Side
				switch strings.ToLower(outcome.Name) {
				case "over":
					side = models.SideOver
				case "under":
					side = models.SideUnder
				default:
					continue
				}
				quotes = append(quotes, models.OddsQuote{
					Bookmaker:    bookmaker.Key,
					Sport:        sport,
					StatCategory: stat,
					Player:       outcome.Description,
					Line:         outcome.Point,
					Side:         side,
					AmericanOdds: outcome.Price,
					Matchup:      matchup,
					GameTime:     odds.CommenceTime,
					UpdatedAt:    updated,
				})
			}
		}
	}
	return quotes
}
