package indicators

import (
    "math"
    "testing"
    "time"

    "SentiPull/internal/domain/models"
)

func mkBars(symbol string, closes []float64) []models.PriceBar {
    start := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
    bars := make([]models.PriceBar, 0, len(closes))
    for i, c := range closes {
        bars = append(bars, models.PriceBar{
            Symbol:    symbol,
            Timestamp: start.AddDate(0, 0, i),
            Open:      c,
            High:      c,
            Low:       c,
            Close:     c,
            Volume:    1000,
        })
    }
    return bars
}

func TestComputeReturns(t *testing.T) {
    bars := mkBars("XYZ", []float64{100, 102, 101})
    sets := Compute(bars, Config{VolatilityWindow: 14})

    if len(sets) != len(bars) {
        t.Fatalf("expected one set per bar, got %d", len(sets))
    }
    if _, ok := sets[0].Value(models.IndicatorReturn1D); ok {
        t.Fatalf("first bar must have no return")
    }
    r1, ok := sets[1].Value(models.IndicatorReturn1D)
    if !ok || math.Abs(r1-0.02) > 1e-12 {
        t.Fatalf("return[1] = %v, want 0.02", r1)
    }
    r2, ok := sets[2].Value(models.IndicatorReturn1D)
    if !ok || math.Abs(r2-(-1.0/102.0)) > 1e-12 {
        t.Fatalf("return[2] = %v, want %v", r2, -1.0/102.0)
    }
}

func TestComputeSMAWarmup(t *testing.T) {
    bars := mkBars("XYZ", []float64{1, 2, 3, 4, 5})
    sets := Compute(bars, Config{SMAWindows: []int{3}, VolatilityWindow: 14})

    for i := 0; i < 2; i++ {
        if _, ok := sets[i].Value("sma_3"); ok {
            t.Fatalf("sma_3 must be undefined at bar %d", i)
        }
    }
    v, ok := sets[2].Value("sma_3")
    if !ok || v != 2 {
        t.Fatalf("sma_3[2] = %v, want 2", v)
    }
    v, ok = sets[4].Value("sma_3")
    if !ok || v != 4 {
        t.Fatalf("sma_3[4] = %v, want 4", v)
    }
}

func TestComputeVolatilityWindow(t *testing.T) {
    bars := mkBars("XYZ", []float64{100, 101, 103, 102, 105, 104})
    sets := Compute(bars, Config{VolatilityWindow: 3})

    // Returns exist from bar 1; three returns are first available at bar 3.
    for i := 0; i < 3; i++ {
        if _, ok := sets[i].Value("volatility_3"); ok {
            t.Fatalf("volatility_3 must be undefined at bar %d", i)
        }
    }
    if _, ok := sets[3].Value("volatility_3"); !ok {
        t.Fatalf("volatility_3 must be defined at bar 3")
    }

    // Check against a direct sample stddev of the last three returns.
    rets := []float64{
        (102.0 - 103.0) / 103.0,
        (105.0 - 102.0) / 102.0,
        (104.0 - 105.0) / 105.0,
    }
    want := sampleStd(rets)
    got, _ := sets[5].Value("volatility_3")
    if math.Abs(got-want) > 1e-12 {
        t.Fatalf("volatility_3[5] = %v, want %v", got, want)
    }
}

func TestComputeZeroPrevClose(t *testing.T) {
    bars := mkBars("XYZ", []float64{0, 10})
    sets := Compute(bars, Config{VolatilityWindow: 14})
    if _, ok := sets[1].Value(models.IndicatorReturn1D); ok {
        t.Fatalf("return must be undefined after a zero close")
    }
}

func TestAnnualizedVolatility(t *testing.T) {
    bars := mkBars("XYZ", []float64{100, 102, 101, 103})
    v, ok := AnnualizedVolatility(bars)
    if !ok || v <= 0 {
        t.Fatalf("expected positive annualized vol, got %v ok=%v", v, ok)
    }
}
