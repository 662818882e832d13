package finnhub

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"SentiPull/internal/domain/models"
	drepo "SentiPull/internal/domain/repository"
	xhttp "SentiPull/pkg/http"
	applogger "SentiPull/pkg/logger"
)

const defaultBaseURL = "https://finnhub.io/api/v1"

// Client implements a MarketSource backed by the Finnhub candle API.
type Client struct {
	apiKey  string
	baseURL string
	http    *xhttp.Client
	logger  *applogger.Logger
}

// New creates a new Finnhub market source.
func New(apiKey, baseURL string, httpClient *xhttp.Client, l *applogger.Logger) drepo.MarketSource {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    httpClient,
		logger:  l,
	}
}

type candleResponse struct {
	Status string    `json:"s"`
	Open   []float64 `json:"o"`
	High   []float64 `json:"h"`
	Low    []float64 `json:"l"`
	Close  []float64 `json:"c"`
	Volume []float64 `json:"v"`
	Time   []int64   `json:"t"`
}

// Fetch retrieves OHLCV candles for one symbol and window.
func (c *Client) Fetch(ctx context.Context, symbol string, from, to time.Time, granularity time.Duration) ([]models.RawPriceRecord, error) {
	var resp candleResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/stock/candle",
		QueryParams: map[string][]string{
			"symbol":     {symbol},
			"resolution": {resolution(granularity)},
			"from":       {strconv.FormatInt(from.Unix(), 10)},
			"to":         {strconv.FormatInt(to.Unix(), 10)},
			"token":      {c.apiKey},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("finnhub candles %s: %w", symbol, err)
	}

	if resp.Status == "no_data" {
		c.logger.Warn("finnhub: no candles", applogger.String("symbol", symbol))
		return nil, nil
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("finnhub candles %s: status %q", symbol, resp.Status)
	}
	if len(resp.Time) != len(resp.Open) || len(resp.Time) != len(resp.Close) ||
		len(resp.Time) != len(resp.High) || len(resp.Time) != len(resp.Low) {
		return nil, fmt.Errorf("finnhub candles %s: ragged arrays", symbol)
	}

	records := make([]models.RawPriceRecord, 0, len(resp.Time))
	for i, ts := range resp.Time {
		var vol int64
		if i < len(resp.Volume) {
			vol = int64(resp.Volume[i])
		}
		records = append(records, models.RawPriceRecord{
			Symbol:    symbol,
			Timestamp: ts,
			Open:      resp.Open[i],
			High:      resp.High[i],
			Low:       resp.Low[i],
			Close:     resp.Close[i],
			Volume:    vol,
		})
	}

	c.logger.Debug("finnhub: fetched candles",
		applogger.String("symbol", symbol),
		applogger.Int("count", len(records)))
	return records, nil
}

// resolution maps a bucket granularity onto Finnhub's resolution codes.
func resolution(granularity time.Duration) string {
	switch {
	case granularity >= 28*24*time.Hour:
		return "M"
	case granularity >= 7*24*time.Hour:
		return "W"
	case granularity >= 24*time.Hour:
		return "D"
	case granularity >= time.Hour:
		return "60"
	default:
		m := int(granularity / time.Minute)
		if m < 1 {
			m = 1
		}
		return strconv.Itoa(m)
	}
}
