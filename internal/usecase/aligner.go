package usecase

import (
	"sort"
	"time"

	"SentiPull/internal/domain/models"
	domsvc "SentiPull/internal/domain/service"
	"SentiPull/pkg/util"
)

// Aligner buckets irregular news timestamps into the price-bar granularity
// and aggregates per-bucket sentiment.
type Aligner struct {
	granularity time.Duration
	matcher     domsvc.SymbolMatcher
}

func NewAligner(granularity time.Duration, matcher domsvc.SymbolMatcher) *Aligner {
	return &Aligner{granularity: granularity, matcher: matcher}
}

type bucketAccum struct {
	weighted  float64
	weightSum float64
	count     int
}

// Align produces one AggregatedSentiment row per (symbol, bar timestamp):
// alignment is keyed to the existence of a price bar, since correlation
// needs a price denominator. Buckets are half-open [start, start+g) in UTC.
// MeanScore is the confidence-weighted mean over matching in-bucket items,
// nil when the weight sum is zero.
func (a *Aligner) Align(news []models.NewsItem, scores []models.SentimentScore, bars []models.PriceBar) []models.AggregatedSentiment {
	scoreByItem := make(map[string]models.SentimentScore, len(scores))
	for _, s := range scores {
		scoreByItem[s.ItemID] = s
	}

	type key struct {
		symbol string
		bucket time.Time
	}
	accum := make(map[key]*bucketAccum)

	for _, item := range news {
		score, ok := scoreByItem[item.ID]
		if !ok {
			continue // skipped by the scorer
		}
		symbols := a.matcher.Match(item.Title, item.Body)
		if len(symbols) == 0 {
			continue
		}
		bucket := util.BucketStart(item.PublishedAt, a.granularity)
		for _, sym := range symbols {
			k := key{symbol: sym, bucket: bucket}
			acc := accum[k]
			if acc == nil {
				acc = &bucketAccum{}
				accum[k] = acc
			}
			acc.weighted += score.Score * score.Confidence
			acc.weightSum += score.Confidence
			acc.count++
		}
	}

	out := make([]models.AggregatedSentiment, 0, len(bars))
	for _, bar := range bars {
		row := models.AggregatedSentiment{
			Symbol:      bar.Symbol,
			BucketStart: util.BucketStart(bar.Timestamp, a.granularity),
		}
		if acc, ok := accum[key{symbol: bar.Symbol, bucket: row.BucketStart}]; ok {
			row.ItemCount = acc.count
			if acc.weightSum > 0 {
				mean := acc.weighted / acc.weightSum
				row.MeanScore = &mean
			}
		}
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Symbol != out[j].Symbol {
			return out[i].Symbol < out[j].Symbol
		}
		return out[i].BucketStart.Before(out[j].BucketStart)
	})
	return out
}
