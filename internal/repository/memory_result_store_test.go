package repository

import (
	"context"
	"testing"
	"time"

	"SentiPull/internal/domain/models"
)

func TestMemoryStoreIdempotentWrites(t *testing.T) {
	store := NewMemoryResultStore()
	ctx := context.Background()

	bucket := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	score := 0.4
	row := models.AggregatedSentiment{Symbol: "AAPL", BucketStart: bucket, MeanScore: &score, ItemCount: 3}

	if err := store.PutSentiment(ctx, []models.AggregatedSentiment{row}); err != nil {
		t.Fatal(err)
	}
	// re-write same key with a new value: overwrite, never duplicate
	score2 := 0.6
	row.MeanScore = &score2
	row.ItemCount = 5
	if err := store.PutSentiment(ctx, []models.AggregatedSentiment{row}); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetSentiment(ctx, "AAPL", bucket.Add(-time.Hour), bucket.Add(time.Hour), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 row after re-write, got %d", len(got))
	}
	if got[0].ItemCount != 5 || *got[0].MeanScore != 0.6 {
		t.Fatalf("expected overwritten row, got %+v", got[0])
	}
}

func TestMemoryStoreSentimentWindowAndOrder(t *testing.T) {
	store := NewMemoryResultStore()
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var rows []models.AggregatedSentiment
	for i := 0; i < 5; i++ {
		rows = append(rows, models.AggregatedSentiment{
			Symbol:      "TSLA",
			BucketStart: base.AddDate(0, 0, i),
			ItemCount:   i,
		})
	}
	if err := store.PutSentiment(ctx, rows); err != nil {
		t.Fatal(err)
	}

	// half-open window [base+1d, base+4d) selects days 1..3
	got, err := store.GetSentiment(ctx, "TSLA", base.AddDate(0, 0, 1), base.AddDate(0, 0, 4), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if !got[i-1].BucketStart.Before(got[i].BucketStart) {
			t.Fatalf("rows not sorted by bucket: %v then %v", got[i-1].BucketStart, got[i].BucketStart)
		}
	}
}

func TestMemoryStoreCorrelationRoundTrip(t *testing.T) {
	store := NewMemoryResultStore()
	ctx := context.Background()

	coef := 0.42
	row := models.CorrelationResult{
		Symbol: "AAPL", Lag: 1, IndicatorName: "return_1d",
		Coefficient: &coef, SampleSize: 20,
	}
	if err := store.PutCorrelations(ctx, []models.CorrelationResult{row}); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetCorrelation(ctx, "AAPL", 1, "return_1d")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Coefficient == nil || *got.Coefficient != 0.42 || got.SampleSize != 20 {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	missing, err := store.GetCorrelation(ctx, "AAPL", 2, "return_1d")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Fatalf("expected nil for absent key, got %+v", missing)
	}
}

func TestMemoryStoreReport(t *testing.T) {
	store := NewMemoryResultStore()
	ctx := context.Background()

	report := models.RunReport{Symbol: "MSFT", ItemsScored: 12, LabelCounts: map[string]int{"positive": 7}}
	if err := store.PutReport(ctx, report); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetReport(ctx, "MSFT")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.ItemsScored != 12 || got.LabelCounts["positive"] != 7 {
		t.Fatalf("report mismatch: %+v", got)
	}
}
