package usecase

import (
	"context"
	"math"
	"testing"
	"time"

	"SentiPull/internal/domain/models"
)

func sentimentSeries(symbol string, start time.Time, values []*float64) []models.AggregatedSentiment {
	out := make([]models.AggregatedSentiment, len(values))
	for i, v := range values {
		out[i] = models.AggregatedSentiment{
			Symbol:      symbol,
			BucketStart: start.Add(time.Duration(i) * 24 * time.Hour),
			MeanScore:   v,
		}
		if v != nil {
			out[i].ItemCount = 1
		}
	}
	return out
}

func indicatorSeries(symbol, name string, start time.Time, values []float64) []models.IndicatorSet {
	out := make([]models.IndicatorSet, len(values))
	for i, v := range values {
		out[i] = models.IndicatorSet{
			Symbol:     symbol,
			Timestamp:  start.Add(time.Duration(i) * 24 * time.Hour),
			Indicators: map[string]float64{name: v},
		}
	}
	return out
}

func ptr(v float64) *float64 { return &v }

func TestCorrelatePerfectLagged(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	// indicator[t+1] == sentiment[t]: sentiment leads by one bucket
	sent := sentimentSeries("AAPL", start, []*float64{ptr(0.1), ptr(0.3), ptr(-0.2), ptr(0.5), ptr(0.0)})
	ind := indicatorSeries("AAPL", "return_1d", start.Add(24*time.Hour), []float64{0.1, 0.3, -0.2, 0.5, 0.0})

	c := NewCorrelator(24*time.Hour, 3, 2)
	results, err := c.Correlate(context.Background(), sent, ind, []int{0, 1}, []string{"return_1d"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected one row per (lag, indicator), got %d", len(results))
	}

	byLag := map[int]models.CorrelationResult{}
	for _, r := range results {
		byLag[r.Lag] = r
	}

	lag1 := byLag[1]
	if lag1.SampleSize != 5 {
		t.Fatalf("lag-1 sample size = %d, want 5", lag1.SampleSize)
	}
	if lag1.Coefficient == nil || math.Abs(*lag1.Coefficient-1) > 1e-9 {
		t.Fatalf("lag-1 coefficient = %v, want 1", lag1.Coefficient)
	}
	if lag1.PValue == nil || *lag1.PValue != 0 {
		t.Fatalf("lag-1 p-value = %v, want 0", lag1.PValue)
	}

	// lag 0 pairs sentiment[t] with indicator[t]; only 4 buckets overlap
	if byLag[0].SampleSize != 4 {
		t.Fatalf("lag-0 sample size = %d, want 4", byLag[0].SampleSize)
	}
}

func TestCorrelateBelowMinSample(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	sent := sentimentSeries("AAPL", start, []*float64{ptr(0.1), ptr(0.2), ptr(0.3)})
	ind := indicatorSeries("AAPL", "return_1d", start, []float64{1, 2, 3})

	c := NewCorrelator(24*time.Hour, 10, 1)
	results, err := c.Correlate(context.Background(), sent, ind, []int{0}, []string{"return_1d"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("thin sample must still produce a row, got %d", len(results))
	}
	r := results[0]
	if r.Coefficient != nil || r.PValue != nil {
		t.Fatalf("below-minimum sample must leave coefficient nil, got %+v", r)
	}
	if r.SampleSize != 3 {
		t.Fatalf("sample size must report the real pair count, got %d", r.SampleSize)
	}
}

func TestCorrelateSkipsNullBuckets(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	sent := sentimentSeries("AAPL", start, []*float64{ptr(0.1), nil, ptr(0.3), ptr(0.4)})
	ind := indicatorSeries("AAPL", "return_1d", start, []float64{1, 2, 3, 4})

	c := NewCorrelator(24*time.Hour, 2, 1)
	results, err := c.Correlate(context.Background(), sent, ind, []int{0}, []string{"return_1d"})
	if err != nil {
		t.Fatal(err)
	}
	if results[0].SampleSize != 3 {
		t.Fatalf("null sentiment bucket should not enter the sample, got size %d", results[0].SampleSize)
	}
}

func TestCorrelateZeroVariance(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	sent := sentimentSeries("AAPL", start, []*float64{ptr(0.5), ptr(0.5), ptr(0.5)})
	ind := indicatorSeries("AAPL", "return_1d", start, []float64{1, 2, 3})

	c := NewCorrelator(24*time.Hour, 2, 1)
	results, err := c.Correlate(context.Background(), sent, ind, []int{0}, []string{"return_1d"})
	if err != nil {
		t.Fatal(err)
	}
	r := results[0]
	if r.Coefficient != nil {
		t.Fatalf("constant series has no defined correlation, got %v", *r.Coefficient)
	}
	if r.SampleSize != 3 {
		t.Fatalf("sample size = %d, want 3", r.SampleSize)
	}
}

func TestCorrelateNegative(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	sent := sentimentSeries("AAPL", start, []*float64{ptr(0.1), ptr(0.2), ptr(0.3), ptr(0.4)})
	ind := indicatorSeries("AAPL", "return_1d", start, []float64{4, 3, 2, 1})

	c := NewCorrelator(24*time.Hour, 2, 1)
	results, err := c.Correlate(context.Background(), sent, ind, []int{0}, []string{"return_1d"})
	if err != nil {
		t.Fatal(err)
	}
	r := results[0]
	if r.Coefficient == nil || math.Abs(*r.Coefficient+1) > 1e-9 {
		t.Fatalf("coefficient = %v, want -1", r.Coefficient)
	}
}

func TestCorrelateMissingIndicatorName(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	sent := sentimentSeries("AAPL", start, []*float64{ptr(0.1), ptr(0.2)})
	ind := indicatorSeries("AAPL", "return_1d", start, []float64{1, 2})

	c := NewCorrelator(24*time.Hour, 2, 1)
	results, err := c.Correlate(context.Background(), sent, ind, []int{0}, []string{"sma_5"})
	if err != nil {
		t.Fatal(err)
	}
	r := results[0]
	if r.SampleSize != 0 || r.Coefficient != nil {
		t.Fatalf("absent indicator key means no pairs, got %+v", r)
	}
}
