package repository

import (
	"context"
	"time"

	"SentiPull/internal/domain/models"
)

// NewsSource fetches raw news records for a query window, page by page.
// Implementations must observe ctx between pages.
type NewsSource interface {
	Fetch(ctx context.Context, query string, from, to time.Time) ([]models.RawNewsRecord, error)
}

// MarketSource fetches raw OHLCV records for one symbol and window at the
// requested granularity.
type MarketSource interface {
	Fetch(ctx context.Context, symbol string, from, to time.Time, granularity time.Duration) ([]models.RawPriceRecord, error)
}

// Publisher emits analysis outputs as events for downstream consumers.
type Publisher interface {
	PublishSentiment(ctx context.Context, rows []models.AggregatedSentiment) error
	PublishCorrelations(ctx context.Context, rows []models.CorrelationResult) error
	Close() error
}

// ResultStore owns the durable copies of all pipeline entities. Writes are
// idempotent per key: re-writing overwrites, never duplicates.
type ResultStore interface {
	Init(ctx context.Context) error // ensure tables, health checks

	PutNewsItems(ctx context.Context, items []models.NewsItem) error
	PutScores(ctx context.Context, scores []models.SentimentScore) error
	PutBars(ctx context.Context, bars []models.PriceBar) error
	PutSentiment(ctx context.Context, rows []models.AggregatedSentiment) error
	PutIndicators(ctx context.Context, rows []models.IndicatorSet) error
	PutCorrelations(ctx context.Context, rows []models.CorrelationResult) error
	PutReport(ctx context.Context, report models.RunReport) error

	GetSentiment(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.AggregatedSentiment, error)
	GetIndicators(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.IndicatorSet, error)
	GetCorrelation(ctx context.Context, symbol string, lag int, indicator string) (*models.CorrelationResult, error)
	GetCorrelations(ctx context.Context, symbol string) ([]models.CorrelationResult, error)
	GetReport(ctx context.Context, symbol string) (*models.RunReport, error)

	Health(ctx context.Context) error
	Close() error
}

// Metrics records pipeline counters and latencies.
type Metrics interface {
	RecordRejected(kind string, n int)
	RecordDuplicates(n int)
	RecordScored(label string, n int)
	RecordSkipped(n int)
	RecordStored(entity string, n int)
	RecordExternalError(target string)
	RecordLatency(op string, seconds float64)
}
