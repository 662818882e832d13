package models

import "time"

// Indicator names emitted by the indicator engine. Windowed names are
// produced with IndicatorName.
const (
	IndicatorReturn1D = "return_1d"
)

// AggregatedSentiment is one symbol's confidence-weighted sentiment for one
// bucket. MeanScore is nil when no matching item carried weight; ItemCount
// is the number of matching in-bucket items either way.
type AggregatedSentiment struct {
	Symbol      string    `json:"symbol"`
	BucketStart time.Time `json:"bucket_start"`
	MeanScore   *float64  `json:"mean_score"`
	ItemCount   int       `json:"item_count"`
}

// IndicatorSet holds the derived series values for one bar. A missing map
// key means the indicator is undefined at that bar (warm-up window).
type IndicatorSet struct {
	Symbol     string             `json:"symbol"`
	Timestamp  time.Time          `json:"timestamp"`
	Indicators map[string]float64 `json:"indicators"`
}

// Value returns the named indicator and whether it is defined at this bar.
func (s *IndicatorSet) Value(name string) (float64, bool) {
	v, ok := s.Indicators[name]
	return v, ok
}

// CorrelationResult is the Pearson correlation between sentiment leading by
// Lag buckets and one indicator series. Coefficient is nil when the paired
// sample is below the configured minimum; SampleSize is the real pair count
// either way so insufficient data is distinguishable from no relationship.
type CorrelationResult struct {
	Symbol        string   `json:"symbol"`
	Lag           int      `json:"lag"`
	IndicatorName string   `json:"indicator_name"`
	Coefficient   *float64 `json:"coefficient"`
	SampleSize    int      `json:"sample_size"`
	PValue        *float64 `json:"p_value,omitempty"`
}

// RunReport summarizes one symbol's pipeline run: record counters and the
// headline statistics the run produced.
type RunReport struct {
	Symbol             string         `json:"symbol"`
	StartedAt          time.Time      `json:"started_at"`
	FinishedAt         time.Time      `json:"finished_at"`
	NewsAccepted       int            `json:"news_accepted"`
	NewsRejected       int            `json:"news_rejected"`
	NewsDuplicates     int            `json:"news_duplicates"`
	BarsAccepted       int            `json:"bars_accepted"`
	BarsRejected       int            `json:"bars_rejected"`
	ItemsScored        int            `json:"items_scored"`
	ItemsSkipped       int            `json:"items_skipped"`
	LabelCounts        map[string]int `json:"label_counts"`
	AvgConfidence      float64        `json:"avg_confidence"`
	AnnualizedVol      *float64       `json:"annualized_vol,omitempty"`
	CorrelationsStored int            `json:"correlations_stored"`
}
