// Package metrics exposes Prometheus instrumentation for the scanner. All
// metrics live on the default registry and are served by the /metrics
// endpoint in serve mode.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/chiptrainer/prizepicks-ev-finder/internal/models"
)

var (
	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ppev_scans_total",
			Help: "Completed scan attempts by outcome",
		},
		[]string{"status"},
	)

	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ppev_scan_duration_seconds",
			Help:    "Wall-clock duration of full scans",
			Buckets: prometheus.DefBuckets,
		},
	)

	PropsScanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ppev_props_scanned_total",
			Help: "Board props evaluated across all scans",
		},
	)

	PropsUnmatched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ppev_props_unmatched_total",
			Help: "Board props with no sportsbook market within tolerance",
		},
	)

	Recommendations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ppev_recommendations_total",
			Help: "Alert-ready plays produced across all scans",
		},
	)

	AlertsSuppressed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ppev_alerts_suppressed_total",
			Help: "Plays dropped because they alerted inside the dedup window",
		},
	)

	ScanDegraded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ppev_scan_degraded",
			Help: "Whether the last scan ran without dedup (1=degraded)",
		},
	)

	APIRequestsRemaining = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ppev_odds_api_requests_remaining",
			Help: "Monthly odds API quota left after the last fetch, -1 before the first",
		},
	)
)

// ObserveScan records one completed scan.
func ObserveScan(result models.ScanResult, duration time.Duration) {
	ScansTotal.WithLabelValues("ok").Inc()
	ScanDuration.Observe(duration.Seconds())
	PropsScanned.Add(float64(result.PropsScanned))
	PropsUnmatched.Add(float64(result.Unmatched))
	Recommendations.Add(float64(len(result.Recommendations)))
	AlertsSuppressed.Add(float64(result.Suppressed))
	if result.Degraded {
		ScanDegraded.Set(1)
	} else {
		ScanDegraded.Set(0)
	}
}
