package usecase

import (
	"math"
	"testing"
	"time"

	"SentiPull/internal/domain/models"
)

// stubMatcher maps every item to a fixed symbol set.
type stubMatcher struct {
	symbols []string
}

func (m stubMatcher) Match(_, _ string) []string { return m.symbols }

func day(d int, hour int) time.Time {
	return time.Date(2024, 3, d, hour, 0, 0, 0, time.UTC)
}

func TestAlignWeightedMean(t *testing.T) {
	a := NewAligner(24*time.Hour, stubMatcher{symbols: []string{"AAPL"}})

	news := []models.NewsItem{
		{ID: "a", PublishedAt: day(1, 9)},
		{ID: "b", PublishedAt: day(1, 15)},
	}
	scores := []models.SentimentScore{
		{ItemID: "a", Label: "positive", Score: 1.0, Confidence: 0.5},
		{ItemID: "b", Label: "neutral", Score: 0, Confidence: 1.0},
	}
	bars := []models.PriceBar{
		{Symbol: "AAPL", Timestamp: day(1, 0)},
	}

	rows := a.Align(news, scores, bars)
	if len(rows) != 1 {
		t.Fatalf("expected one row per bar, got %d", len(rows))
	}
	row := rows[0]
	if row.ItemCount != 2 {
		t.Fatalf("item count = %d, want 2", row.ItemCount)
	}
	if row.MeanScore == nil {
		t.Fatal("mean score should be set")
	}
	// (1.0*0.5 + 0*1.0) / (0.5 + 1.0)
	if want := 0.5 / 1.5; math.Abs(*row.MeanScore-want) > 1e-12 {
		t.Fatalf("mean score = %v, want %v", *row.MeanScore, want)
	}
}

func TestAlignEmptyBucketKeepsRow(t *testing.T) {
	a := NewAligner(24*time.Hour, stubMatcher{symbols: []string{"AAPL"}})

	bars := []models.PriceBar{
		{Symbol: "AAPL", Timestamp: day(1, 0)},
		{Symbol: "AAPL", Timestamp: day(2, 0)},
	}
	rows := a.Align(nil, nil, bars)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.ItemCount != 0 || row.MeanScore != nil {
			t.Fatalf("bucket without news should be empty: %+v", row)
		}
	}
}

func TestAlignZeroWeightIsNil(t *testing.T) {
	a := NewAligner(24*time.Hour, stubMatcher{symbols: []string{"AAPL"}})

	news := []models.NewsItem{{ID: "a", PublishedAt: day(1, 9)}}
	scores := []models.SentimentScore{
		{ItemID: "a", Label: "neutral", Score: 0, Confidence: 0},
	}
	bars := []models.PriceBar{{Symbol: "AAPL", Timestamp: day(1, 0)}}

	rows := a.Align(news, scores, bars)
	if rows[0].ItemCount != 1 {
		t.Fatalf("item count = %d, want 1", rows[0].ItemCount)
	}
	if rows[0].MeanScore != nil {
		t.Fatal("zero total weight must leave the mean undefined, not zero")
	}
}

func TestAlignHalfOpenBoundary(t *testing.T) {
	a := NewAligner(24*time.Hour, stubMatcher{symbols: []string{"AAPL"}})

	// published exactly at the next bucket start: belongs to day 2
	news := []models.NewsItem{{ID: "a", PublishedAt: day(2, 0)}}
	scores := []models.SentimentScore{
		{ItemID: "a", Label: "positive", Score: 0.9, Confidence: 0.9},
	}
	bars := []models.PriceBar{
		{Symbol: "AAPL", Timestamp: day(1, 0)},
		{Symbol: "AAPL", Timestamp: day(2, 0)},
	}

	rows := a.Align(news, scores, bars)
	if rows[0].ItemCount != 0 {
		t.Fatal("boundary item leaked into the earlier bucket")
	}
	if rows[1].ItemCount != 1 {
		t.Fatal("boundary item missing from its own bucket")
	}
}

func TestAlignSkipsUnscoredAndUnmatched(t *testing.T) {
	a := NewAligner(24*time.Hour, stubMatcher{symbols: nil})

	news := []models.NewsItem{
		{ID: "scored-but-unmatched", PublishedAt: day(1, 9)},
		{ID: "unscored", PublishedAt: day(1, 10)},
	}
	scores := []models.SentimentScore{
		{ItemID: "scored-but-unmatched", Label: "positive", Score: 0.5, Confidence: 0.5},
	}
	bars := []models.PriceBar{{Symbol: "AAPL", Timestamp: day(1, 0)}}

	rows := a.Align(news, scores, bars)
	if rows[0].ItemCount != 0 {
		t.Fatalf("neither item should reach the bucket, got count %d", rows[0].ItemCount)
	}
}

func TestAlignSortOrder(t *testing.T) {
	a := NewAligner(24*time.Hour, stubMatcher{symbols: []string{"AAPL"}})

	bars := []models.PriceBar{
		{Symbol: "MSFT", Timestamp: day(1, 0)},
		{Symbol: "AAPL", Timestamp: day(2, 0)},
		{Symbol: "AAPL", Timestamp: day(1, 0)},
	}
	rows := a.Align(nil, nil, bars)

	want := []struct {
		symbol string
		ts     time.Time
	}{
		{"AAPL", day(1, 0)},
		{"AAPL", day(2, 0)},
		{"MSFT", day(1, 0)},
	}
	for i, w := range want {
		if rows[i].Symbol != w.symbol || !rows[i].BucketStart.Equal(w.ts) {
			t.Fatalf("row %d = (%s, %v), want (%s, %v)", i, rows[i].Symbol, rows[i].BucketStart, w.symbol, w.ts)
		}
	}
}
