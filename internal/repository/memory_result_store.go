package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"SentiPull/internal/domain/models"
	domrepo "SentiPull/internal/domain/repository"
)

// MemoryResultStore implements ResultStore in process memory. It backs tests
// and dev runs where no ClickHouse is available, with the same idempotent
// keyed-write semantics.
type MemoryResultStore struct {
	mu           sync.RWMutex
	newsItems    map[string]models.NewsItem            // source \x00 id
	scores       map[string]models.SentimentScore      // item id
	bars         map[string]models.PriceBar            // symbol \x00 unix
	sentiment    map[string]models.AggregatedSentiment // symbol \x00 unix
	indicators   map[string]models.IndicatorSet        // symbol \x00 unix
	correlations map[string]models.CorrelationResult   // symbol \x00 lag \x00 indicator
	reports      map[string]models.RunReport           // symbol
}

// NewMemoryResultStore creates an empty in-memory store.
func NewMemoryResultStore() domrepo.ResultStore {
	return &MemoryResultStore{
		newsItems:    make(map[string]models.NewsItem),
		scores:       make(map[string]models.SentimentScore),
		bars:         make(map[string]models.PriceBar),
		sentiment:    make(map[string]models.AggregatedSentiment),
		indicators:   make(map[string]models.IndicatorSet),
		correlations: make(map[string]models.CorrelationResult),
		reports:      make(map[string]models.RunReport),
	}
}

func (s *MemoryResultStore) Init(context.Context) error { return nil }

func (s *MemoryResultStore) PutNewsItems(_ context.Context, items []models.NewsItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		s.newsItems[it.Source+"\x00"+it.ID] = it
	}
	return nil
}

func (s *MemoryResultStore) PutScores(_ context.Context, scores []models.SentimentScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sc := range scores {
		s.scores[sc.ItemID] = sc
	}
	return nil
}

func (s *MemoryResultStore) PutBars(_ context.Context, bars []models.PriceBar) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range bars {
		s.bars[timeKey(b.Symbol, b.Timestamp)] = b
	}
	return nil
}

func (s *MemoryResultStore) PutSentiment(_ context.Context, rows []models.AggregatedSentiment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.sentiment[timeKey(r.Symbol, r.BucketStart)] = r
	}
	return nil
}

func (s *MemoryResultStore) PutIndicators(_ context.Context, rows []models.IndicatorSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.indicators[timeKey(r.Symbol, r.Timestamp)] = r
	}
	return nil
}

func (s *MemoryResultStore) PutCorrelations(_ context.Context, rows []models.CorrelationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.correlations[corrKey(r.Symbol, r.Lag, r.IndicatorName)] = r
	}
	return nil
}

func (s *MemoryResultStore) PutReport(_ context.Context, report models.RunReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.Symbol] = report
	return nil
}

func (s *MemoryResultStore) GetSentiment(_ context.Context, symbol string, from, to time.Time, limit int) ([]models.AggregatedSentiment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.AggregatedSentiment
	for _, r := range s.sentiment {
		if r.Symbol == symbol && !r.BucketStart.Before(from) && r.BucketStart.Before(to) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BucketStart.Before(out[j].BucketStart) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryResultStore) GetIndicators(_ context.Context, symbol string, from, to time.Time, limit int) ([]models.IndicatorSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.IndicatorSet
	for _, r := range s.indicators {
		if r.Symbol == symbol && !r.Timestamp.Before(from) && r.Timestamp.Before(to) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryResultStore) GetCorrelation(_ context.Context, symbol string, lag int, indicator string) (*models.CorrelationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.correlations[corrKey(symbol, lag, indicator)]; ok {
		return &r, nil
	}
	return nil, nil
}

func (s *MemoryResultStore) GetCorrelations(_ context.Context, symbol string) ([]models.CorrelationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.CorrelationResult
	for _, r := range s.correlations {
		if r.Symbol == symbol {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Lag != out[j].Lag {
			return out[i].Lag < out[j].Lag
		}
		return out[i].IndicatorName < out[j].IndicatorName
	})
	return out, nil
}

func (s *MemoryResultStore) GetReport(_ context.Context, symbol string) (*models.RunReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.reports[symbol]; ok {
		return &r, nil
	}
	return nil, nil
}

func (s *MemoryResultStore) Health(context.Context) error { return nil }
func (s *MemoryResultStore) Close() error                 { return nil }

func timeKey(symbol string, t time.Time) string {
	return fmt.Sprintf("%s\x00%d", symbol, t.Unix())
}

func corrKey(symbol string, lag int, indicator string) string {
	return fmt.Sprintf("%s\x00%d\x00%s", symbol, lag, indicator)
}
