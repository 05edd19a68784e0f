package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/chiptrainer/prizepicks-ev-finder/internal/models"
)

// ScanReader provides the latest completed scan to the read surface.
type ScanReader interface {
	LastResult() (models.ScanResult, bool)
}

// RecommendationsHandler handles HTTP requests for scan results
type RecommendationsHandler struct {
	scans  ScanReader
	logger zerolog.Logger
}

// NewRecommendationsHandler creates a new recommendations HTTP handler
func NewRecommendationsHandler(scans ScanReader, logger zerolog.Logger) *RecommendationsHandler {
	return &RecommendationsHandler{
		scans:  scans,
		logger: logger.With().Str("component", "recommendations_handler").Logger(),
	}
}

// RegisterRoutes registers HTTP routes with the provided mux
func (h *RecommendationsHandler) RegisterRoutes(mux *http.ServeMux) {
	// GET /api/v1/scans/latest - most recent scan summary
	mux.HandleFunc("/api/v1/scans/latest", h.handleLatestScan)

	// GET /api/v1/recommendations - alert-ready plays from the latest scan
	mux.HandleFunc("/api/v1/recommendations", h.handleRecommendations)
}

// handleLatestScan handles GET /api/v1/scans/latest
func (h *RecommendationsHandler) handleLatestScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.errorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	result, ok := h.scans.LastResult()
	if !ok {
		h.errorResponse(w, http.StatusNotFound, "no scan completed yet")
		return
	}

	h.jsonResponse(w, http.StatusOK, result)
}

// handleRecommendations handles GET /api/v1/recommendations with optional
// min_ev and preferred_only query filters
func (h *RecommendationsHandler) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.errorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	result, ok := h.scans.LastResult()
	if !ok {
		h.errorResponse(w, http.StatusNotFound, "no scan completed yet")
		return
	}

	minEV := 0.0
	if raw := r.URL.Query().Get("min_ev"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.errorResponse(w, http.StatusBadRequest, "min_ev must be a number")
			return
		}
		minEV = parsed
	}
	preferredOnly := r.URL.Query().Get("preferred_only") == "true"

	recommendations := make([]*RecommendationResponse, 0, len(result.Recommendations))
	for _, rec := range result.Recommendations {
		if rec.EVPercent < minEV {
			continue
		}
		if preferredOnly && !rec.Slips.HasPreferred() {
			continue
		}
		recommendations = append(recommendations, ToRecommendationResponse(rec))
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"scan_id":         result.ScanID,
		"completed_at":    result.CompletedAt,
		"count":           len(recommendations),
		"recommendations": recommendations,
	})
}

// jsonResponse writes a JSON response
func (h *RecommendationsHandler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// errorResponse writes a JSON error response
func (h *RecommendationsHandler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{
		"error": message,
	})
}

// RecommendationResponse represents the API response for one play
type RecommendationResponse struct {
	ID             string   `json:"id"`
	Player         string   `json:"player"`
	Matchup        string   `json:"matchup"`
	Sport          string   `json:"sport"`
	StatCategory   string   `json:"stat_category"`
	Line           float64  `json:"line"`
	Side           string   `json:"side"`
	Bookmaker      string   `json:"bookmaker"`
	FairProb       float64  `json:"fair_prob"`
	EVPercent      float64  `json:"ev_percent"`
	Vig            float64  `json:"vig"`
	Slips          []string `json:"slips"`
	HoursUntilGame float64  `json:"hours_until_game"`
	GeneratedAt    string   `json:"generated_at"`
}

// ToRecommendationResponse converts a Recommendation to API response format
func ToRecommendationResponse(rec models.Recommendation) *RecommendationResponse {
	return &RecommendationResponse{
		ID:             rec.ID.String(),
		Player:         rec.Prop.Player,
		Matchup:        rec.Prop.Matchup,
		Sport:          rec.Prop.Sport,
		StatCategory:   rec.Prop.StatCategory,
		Line:           rec.BookLine,
		Side:           string(rec.FavoredSide),
		Bookmaker:      rec.Bookmaker,
		FairProb:       rec.FavoredProb,
		EVPercent:      rec.EVPercent,
		Vig:            rec.Vig,
		Slips:          rec.Slips.Names(),
		HoursUntilGame: rec.HoursUntilGame,
		GeneratedAt:    rec.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
