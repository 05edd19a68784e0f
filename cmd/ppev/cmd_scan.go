package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/chiptrainer/prizepicks-ev-finder/internal/config"
	"github.com/chiptrainer/prizepicks-ev-finder/internal/messaging"
	"github.com/chiptrainer/prizepicks-ev-finder/internal/models"
	"github.com/chiptrainer/prizepicks-ev-finder/internal/notify"
	"github.com/chiptrainer/prizepicks-ev-finder/internal/oddsapi"
	"github.com/chiptrainer/prizepicks-ev-finder/internal/propsource"
	"github.com/chiptrainer/prizepicks-ev-finder/internal/service"
	"github.com/chiptrainer/prizepicks-ev-finder/internal/store"
	"github.com/chiptrainer/prizepicks-ev-finder/pkg/ev"
)

func scanCmd(configPath *string) *cobra.Command {
	var (
		demo      bool
		propsFile string
		sports    []string
	)
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one scan of the prop board and deliver alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if len(sports) > 0 {
				cfg.Scan.Sports = sports
			}
			if propsFile != "" {
				cfg.Scan.PropsFile = propsFile
			}

			collab, err := buildCollaborators(cfg, demo, logger)
			if err != nil {
				return err
			}
			defer collab.cleanup()

			scanner := service.NewScanner(scannerConfig(cfg), collab.deps, logger)

			result, err := scanner.Scan(cmd.Context())
			if errors.Is(err, service.ErrScanInProgress) {
				fmt.Println("Another scan is already running, skipping.")
				return nil
			}
			if err != nil {
				return err
			}

			printScanResult(result)
			return nil
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "run offline against the built-in fixture board")
	cmd.Flags().StringVar(&propsFile, "props", "", "path to a JSON prop board file")
	cmd.Flags().StringSliceVar(&sports, "sport", nil, "sport keys to scan (overrides config)")
	return cmd
}

// collaborators bundles the scanner dependencies a command wires up.
// alerts is nil in demo mode.
type collaborators struct {
	deps    service.ScannerDeps
	alerts  *store.RedisStore
	cleanup func()
}

// buildCollaborators assembles the scan pipeline from config. Demo mode is
// fully offline: fixture board and quotes, in-memory dedup, no delivery.
func buildCollaborators(cfg *config.Config, demo bool, logger zerolog.Logger) (*collaborators, error) {
	engine := ev.NewEngine(cfg.ToEngineConfig(), logger)

	if demo {
		fixtures := propsource.NewFixtureSource()
		return &collaborators{
			deps: service.ScannerDeps{
				Engine: engine,
				Filter: ev.NewFilter(store.NewMemoryStore(), cfg.Scan.ToFilterConfig(), logger),
				Quotes: fixtures,
				Props:  fixtures,
			},
			cleanup: func() {},
		}, nil
	}

	if cfg.OddsAPI.APIKey == "" {
		return nil, errors.New("odds API key not configured (set ODDS_API_KEY)")
	}

	client := oddsapi.NewClient(oddsapi.Config{
		APIKey:            cfg.OddsAPI.APIKey,
		BaseURL:           cfg.OddsAPI.BaseURL,
		Regions:           cfg.OddsAPI.Regions,
		Bookmakers:        cfg.OddsAPI.Bookmakers,
		Timeout:           cfg.OddsAPI.Timeout,
		RequestsPerSecond: cfg.OddsAPI.RequestsPerSecond,
		Burst:             cfg.OddsAPI.Burst,
	}, logger)

	alerts := store.NewRedisStore(store.RedisStoreConfig{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DedupWindow: cfg.Scan.DedupWindow,
		LockTTL:     cfg.Redis.LockTTL,
	}, logger)

	deps := service.ScannerDeps{
		Engine: engine,
		Filter: ev.NewFilter(alerts, cfg.Scan.ToFilterConfig(), logger),
		Quotes: client,
		Locker: alerts,
	}

	if cfg.Scan.PropsFile != "" {
		deps.Props = propsource.NewFileSource(cfg.Scan.PropsFile)
	}
	if cfg.Discord.WebhookURL != "" {
		deps.Notifier = notify.NewDiscordNotifier(notify.DiscordConfig{
			WebhookURL: cfg.Discord.WebhookURL,
			Timeout:    cfg.Discord.Timeout,
			MaxPlays:   cfg.Discord.MaxPlays,
		}, logger)
	}

	var publisher *messaging.KafkaPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = messaging.NewKafkaPublisher(messaging.KafkaPublisherConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		}, logger)
		deps.Publisher = publisher
	}

	cleanup := func() {
		if publisher != nil {
			if err := publisher.Close(); err != nil {
				logger.Warn().Err(err).Msg("failed to close Kafka publisher")
			}
		}
		if err := alerts.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close Redis store")
		}
	}

	return &collaborators{deps: deps, alerts: alerts, cleanup: cleanup}, nil
}

func scannerConfig(cfg *config.Config) service.ScannerConfig {
	return service.ScannerConfig{
		Sports:      cfg.Scan.Sports,
		Markets:     cfg.Scan.Markets,
		EventWindow: cfg.Scan.EventWindow,
	}
}

func printScanResult(result models.ScanResult) {
	fmt.Printf("\nScan %s\n", result.ScanID)
	fmt.Printf("Props: %d scanned, %d matched, %d unmatched, %d invalid, %d suppressed\n",
		result.PropsScanned, result.Matched, result.Unmatched, result.SkippedInvalid, result.Suppressed)
	if result.Degraded {
		fmt.Println("Alert store was unavailable, dedup disabled for this scan.")
	}

	if len(result.Recommendations) == 0 {
		fmt.Println("\nNo qualifying plays this scan.")
		return
	}

	fmt.Printf("\n%-24s %-16s %6s  %-5s %6s %8s  %s\n",
		"PLAYER", "STAT", "LINE", "SIDE", "FAIR", "EV", "SLIPS")
	for _, rec := range result.Recommendations {
		fmt.Printf("%-24s %-16s %6.1f  %-5s %5.1f%% %+7.1f%%  %s\n",
			rec.Prop.Player,
			rec.Prop.StatCategory,
			rec.BookLine,
			strings.ToUpper(string(rec.FavoredSide)),
			rec.FavoredProb*100,
			rec.EVPercent,
			strings.Join(rec.Slips.Names(), ", "))
	}
}
