package indicators

import (
    "fmt"
    "math"

    "SentiPull/internal/domain/models"
)

// Name builds a windowed indicator name, e.g. Name("sma", 20) == "sma_20".
func Name(base string, window int) string {
    return fmt.Sprintf("%s_%d", base, window)
}

// Config holds the window policy for one Compute call.
type Config struct {
    SMAWindows       []int
    VolatilityWindow int
}

// Compute derives indicator series from one symbol's bar history, sorted by
// timestamp ascending. Output has exactly one IndicatorSet per input bar; an
// indicator absent from the map is undefined at that bar. Pure function of
// the input window, no state across calls.
func Compute(bars []models.PriceBar, cfg Config) []models.IndicatorSet {
    out := make([]models.IndicatorSet, 0, len(bars))
    rets := simpleReturns(bars)

    for i, b := range bars {
        set := models.IndicatorSet{
            Symbol:     b.Symbol,
            Timestamp:  b.Timestamp,
            Indicators: make(map[string]float64),
        }

        if r, ok := rets[i]; ok {
            set.Indicators[models.IndicatorReturn1D] = r
        }

        for _, w := range cfg.SMAWindows {
            if v, ok := sma(bars, i, w); ok {
                set.Indicators[Name("sma", w)] = v
            }
        }

        if v, ok := trailingReturnStd(rets, i, cfg.VolatilityWindow); ok {
            set.Indicators[Name("volatility", cfg.VolatilityWindow)] = v
        }

        out = append(out, set)
    }
    return out
}

// simpleReturns computes r_t = (C_t - C_{t-1}) / C_{t-1} keyed by bar index.
// The first bar has no return; a zero previous close leaves the return
// undefined rather than dividing by zero.
func simpleReturns(bars []models.PriceBar) map[int]float64 {
    rets := make(map[int]float64, len(bars))
    for i := 1; i < len(bars); i++ {
        prev := bars[i-1].Close
        if prev == 0 {
            continue
        }
        rets[i] = (bars[i].Close - prev) / prev
    }
    return rets
}

// sma is the simple mean of close over the trailing w bars inclusive of i.
func sma(bars []models.PriceBar, i, w int) (float64, bool) {
    if w <= 0 || i+1 < w {
        return 0, false
    }
    sum := 0.0
    for j := i - w + 1; j <= i; j++ {
        sum += bars[j].Close
    }
    return sum / float64(w), true
}

// trailingReturnStd is the sample standard deviation of return_1d over the
// trailing w returns ending at bar i. Undefined until w returns exist.
func trailingReturnStd(rets map[int]float64, i, w int) (float64, bool) {
    if w <= 1 {
        return 0, false
    }
    window := make([]float64, 0, w)
    for j := i - w + 1; j <= i; j++ {
        r, ok := rets[j]
        if !ok {
            return 0, false
        }
        window = append(window, r)
    }
    return sampleStd(window), true
}

// AnnualizedVolatility is the sample stddev of all simple returns scaled by
// sqrt(252), the daily-bar convention for trading days per year.
func AnnualizedVolatility(bars []models.PriceBar) (float64, bool) {
    rets := simpleReturns(bars)
    if len(rets) < 2 {
        return 0, false
    }
    xs := make([]float64, 0, len(rets))
    for i := 1; i < len(bars); i++ {
        if r, ok := rets[i]; ok {
            xs = append(xs, r)
        }
    }
    if len(xs) < 2 {
        return 0, false
    }
    return sampleStd(xs) * math.Sqrt(252), true
}

func sampleStd(xs []float64) float64 {
    n := float64(len(xs))
    sum := 0.0
    for _, x := range xs {
        sum += x
    }
    mean := sum / n
    ss := 0.0
    for _, x := range xs {
        d := x - mean
        ss += d * d
    }
    variance := ss / (n - 1)
    if variance < 0 {
        variance = 0
    }
    return math.Sqrt(variance)
}
