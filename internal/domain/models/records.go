package models

import "time"

// Sentiment labels produced by the classifier boundary.
const (
	LabelPositive = "positive"
	LabelNeutral  = "neutral"
	LabelNegative = "negative"
)

// RawNewsRecord is the provider-shaped news record before normalization.
// PublishedAt is kept as the provider string so the normalizer owns all
// timestamp interpretation.
type RawNewsRecord struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	Language    string `json:"language"`
	PublishedAt string `json:"published_at"`
}

// RawPriceRecord is the provider-shaped OHLCV record before normalization.
type RawPriceRecord struct {
	Symbol    string  `json:"symbol"`
	Timestamp int64   `json:"timestamp"` // unix seconds
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
}

// NewsItem is a validated, UTC-normalized news record. ID is unique per
// (Source, ID) after dedup.
type NewsItem struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Language    string    `json:"language"`
	PublishedAt time.Time `json:"published_at"`
	// OffsetAssumed is set when the provider timestamp carried no offset
	// and UTC was assumed rather than guessed from locale.
	OffsetAssumed bool `json:"offset_assumed,omitempty"`
	// NonFinancial is set when the text carries no numeric or financial
	// signal; flagged, never rejected.
	NonFinancial bool `json:"non_financial,omitempty"`
}

// SentimentScore is the classifier output for one NewsItem. Immutable once
// produced. Score is signed polarity: probability * sign(label), neutral = 0.
type SentimentScore struct {
	ItemID     string  `json:"item_id"`
	Label      string  `json:"label"`
	Score      float64 `json:"score"`      // [-1, 1]
	Confidence float64 `json:"confidence"` // [0, 1]
}

// PriceBar is one OHLCV bar aligned to a fixed granularity. Exactly one bar
// exists per (Symbol, Timestamp) after normalization.
type PriceBar struct {
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// Valid checks the OHLC ordering invariant and volume sign.
func (b *PriceBar) Valid() bool {
	if b.Volume < 0 {
		return false
	}
	if b.Low > b.Open || b.Low > b.Close || b.Low > b.High {
		return false
	}
	if b.High < b.Open || b.High < b.Close {
		return false
	}
	return true
}
