package service

import (
	"context"
	"time"

	"github.com/chiptrainer/prizepicks-ev-finder/internal/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/mocks.go -package=mocks

// QuoteFetcher is an interface that abstracts sportsbook quote retrieval
// This allows for easier testing and mocking
type QuoteFetcher interface {
	FetchQuotes(ctx context.Context, sports, markets []string, window time.Duration) ([]models.OddsQuote, error)
}

// PropSource is an interface that abstracts the fantasy prop board listing
type PropSource interface {
	Props(ctx context.Context) ([]models.Prop, error)
}

// Notifier is an interface that abstracts alert delivery
type Notifier interface {
	Notify(ctx context.Context, recommendations []models.Recommendation) error
}

// Publisher is an interface that abstracts downstream scan result publishing
type Publisher interface {
	Publish(ctx context.Context, result models.ScanResult) error
}

// ScanLocker is an interface that abstracts the cross-replica scan lock
type ScanLocker interface {
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
}
