package usecase

import (
	"strings"
	"time"

	"SentiPull/internal/domain/models"
	drepo "SentiPull/internal/domain/repository"
	applogger "SentiPull/pkg/logger"
	"SentiPull/pkg/util"
)

// layouts without an explicit offset; matches are assumed UTC and flagged.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizeStats reports what the normalizer accepted and dropped. Dropped
// records are counted, never fatal.
type NormalizeStats struct {
	NewsAccepted   int
	NewsRejected   int
	NewsDuplicates int
	BarsAccepted   int
	BarsRejected   int
	BarsDuplicates int
}

// Normalizer deduplicates, UTC-normalizes, and validates raw news and price
// records into canonical NewsItem/PriceBar collections.
type Normalizer struct {
	granularity time.Duration
	metrics     drepo.Metrics
	logger      *applogger.Logger
}

func NewNormalizer(granularity time.Duration, metrics drepo.Metrics, logger *applogger.Logger) *Normalizer {
	return &Normalizer{granularity: granularity, metrics: metrics, logger: logger}
}

// Normalize is idempotent: the same raw input always yields the same record
// set. Dedup keeps the first-seen record per key and drops later duplicates
// silently.
func (n *Normalizer) Normalize(rawNews []models.RawNewsRecord, rawBars []models.RawPriceRecord) ([]models.NewsItem, []models.PriceBar, NormalizeStats) {
	var stats NormalizeStats

	items := make([]models.NewsItem, 0, len(rawNews))
	seenNews := make(map[string]struct{}, len(rawNews))
	for _, r := range rawNews {
		key := r.Source + "\x00" + r.ID
		if _, dup := seenNews[key]; dup {
			stats.NewsDuplicates++
			continue
		}
		seenNews[key] = struct{}{}

		item, ok := n.newsItem(r)
		if !ok {
			stats.NewsRejected++
			continue
		}
		items = append(items, item)
		stats.NewsAccepted++
	}

	bars := make([]models.PriceBar, 0, len(rawBars))
	seenBars := make(map[string]struct{}, len(rawBars))
	for _, r := range rawBars {
		bar := models.PriceBar{
			Symbol:    r.Symbol,
			Timestamp: util.BucketStart(time.Unix(r.Timestamp, 0), n.granularity),
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    r.Volume,
		}
		if r.Symbol == "" || r.Timestamp <= 0 || !bar.Valid() {
			stats.BarsRejected++
			continue
		}
		key := bar.Symbol + "\x00" + bar.Timestamp.Format(time.RFC3339)
		if _, dup := seenBars[key]; dup {
			stats.BarsDuplicates++
			continue
		}
		seenBars[key] = struct{}{}
		bars = append(bars, bar)
		stats.BarsAccepted++
	}

	if n.metrics != nil {
		n.metrics.RecordRejected("news", stats.NewsRejected)
		n.metrics.RecordRejected("bars", stats.BarsRejected)
		n.metrics.RecordDuplicates(stats.NewsDuplicates + stats.BarsDuplicates)
	}
	if n.logger != nil && (stats.NewsRejected > 0 || stats.BarsRejected > 0) {
		n.logger.Warn("normalizer dropped records",
			applogger.Int("news_rejected", stats.NewsRejected),
			applogger.Int("bars_rejected", stats.BarsRejected),
		)
	}

	return items, bars, stats
}

func (n *Normalizer) newsItem(r models.RawNewsRecord) (models.NewsItem, bool) {
	if r.ID == "" || strings.TrimSpace(r.Body) == "" {
		return models.NewsItem{}, false
	}
	ts, assumed, ok := parsePublishedAt(r.PublishedAt)
	if !ok {
		return models.NewsItem{}, false
	}
	return models.NewsItem{
		ID:            r.ID,
		Source:        r.Source,
		Title:         r.Title,
		Body:          r.Body,
		Language:      r.Language,
		PublishedAt:   ts,
		OffsetAssumed: assumed,
		NonFinancial:  !containsFinancialSignal(r.Title + " " + r.Body),
	}, true
}

// parsePublishedAt converts a provider timestamp to UTC. Timestamps without
// an explicit offset are taken as UTC and flagged, never guessed from locale.
func parsePublishedAt(s string) (time.Time, bool, bool) {
	if s == "" {
		return time.Time{}, false, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), false, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), false, true
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true, true
		}
	}
	return time.Time{}, false, false
}

// containsFinancialSignal reports whether text mentions numbers, currency,
// or financial scale words.
func containsFinancialSignal(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range []string{"billion", "million", "trillion", "usd", "eur", "gbp", "%", "$"} {
		if strings.Contains(lower, w) {
			return true
		}
	}
	for _, r := range text {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
