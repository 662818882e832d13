package usecase

import (
	"context"
	"sort"
	"time"

	"SentiPull/internal/domain/models"
	"SentiPull/internal/services/stats"
	"SentiPull/pkg/worker"
)

// Correlator measures the lagged relationship between aggregated sentiment
// and indicator series. Triples (symbol, lag, indicator) are independent
// and run on a worker pool.
type Correlator struct {
	granularity time.Duration
	minSample   int
	pool        *worker.Pool
}

func NewCorrelator(granularity time.Duration, minSample, workers int) *Correlator {
	if minSample < 2 {
		minSample = 2
	}
	return &Correlator{
		granularity: granularity,
		minSample:   minSample,
		pool:        worker.NewPool(workers),
	}
}

type seriesKey struct {
	symbol string
	bucket time.Time
}

// Correlate builds, for each (lag, indicator) pair, the paired sample
// (meanScore[t], indicator[t+lag]) over buckets where both are non-null and
// computes Pearson correlation over it. Lag is sentiment leading: lag 0 is
// same-bucket, lag > 0 tests whether sentiment leads price. Samples below
// the minimum yield a nil coefficient with the real sample size, never an
// omitted row.
func (c *Correlator) Correlate(ctx context.Context, sentiment []models.AggregatedSentiment, indicatorSets []models.IndicatorSet, lags []int, indicatorNames []string) ([]models.CorrelationResult, error) {
	symbolSet := make(map[string]struct{})
	for _, s := range sentiment {
		symbolSet[s.Symbol] = struct{}{}
	}

	indicatorAt := make(map[seriesKey]map[string]float64, len(indicatorSets))
	for _, is := range indicatorSets {
		indicatorAt[seriesKey{is.Symbol, is.Timestamp.UTC()}] = is.Indicators
	}

	symbols := make([]string, 0, len(symbolSet))
	for sym := range symbolSet {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	type triple struct {
		symbol    string
		lag       int
		indicator string
	}
	triples := make([]triple, 0, len(symbols)*len(lags)*len(indicatorNames))
	for _, sym := range symbols {
		for _, lag := range lags {
			for _, name := range indicatorNames {
				triples = append(triples, triple{sym, lag, name})
			}
		}
	}

	results := make([]models.CorrelationResult, len(triples))
	err := c.pool.ForEach(ctx, len(triples), func(_ context.Context, i int) {
		tr := triples[i]
		xs, ys := c.pairedSample(sentiment, indicatorAt, tr.symbol, tr.lag, tr.indicator)
		results[i] = c.result(tr.symbol, tr.lag, tr.indicator, xs, ys)
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// pairedSample walks the symbol's buckets once, pairing each non-null
// sentiment value with the indicator value lag buckets later.
func (c *Correlator) pairedSample(sentiment []models.AggregatedSentiment, indicatorAt map[seriesKey]map[string]float64, symbol string, lag int, indicator string) ([]float64, []float64) {
	var xs, ys []float64
	offset := time.Duration(lag) * c.granularity
	for _, s := range sentiment {
		if s.Symbol != symbol || s.MeanScore == nil {
			continue
		}
		set, ok := indicatorAt[seriesKey{symbol, s.BucketStart.UTC().Add(offset)}]
		if !ok {
			continue
		}
		v, ok := set[indicator]
		if !ok {
			continue
		}
		xs = append(xs, *s.MeanScore)
		ys = append(ys, v)
	}
	return xs, ys
}

func (c *Correlator) result(symbol string, lag int, indicator string, xs, ys []float64) models.CorrelationResult {
	res := models.CorrelationResult{
		Symbol:        symbol,
		Lag:           lag,
		IndicatorName: indicator,
		SampleSize:    len(xs),
	}
	if len(xs) < c.minSample {
		return res
	}
	r, ok := stats.Pearson(xs, ys)
	if !ok {
		return res
	}
	res.Coefficient = &r
	if p, ok := stats.PearsonPValue(r, len(xs)); ok {
		res.PValue = &p
	}
	return res
}
