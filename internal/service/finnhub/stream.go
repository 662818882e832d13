package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"SentiPull/internal/domain/models"
	applogger "SentiPull/pkg/logger"
	"SentiPull/pkg/util"

	"github.com/gorilla/websocket"
)

const defaultWebsocketURL = "wss://ws.finnhub.io"

// Collector samples live trades over a bounded window and folds them into
// OHLCV records at the configured granularity. It complements the candle
// API for the current, not-yet-closed bucket.
type Collector struct {
	apiKey       string
	websocketURL string
	symbols      []string
	granularity  time.Duration
	pingInterval time.Duration
	logger       *applogger.Logger

	conn *websocket.Conn
}

// NewCollector creates a bounded trade collector.
func NewCollector(apiKey, websocketURL string, symbols []string, granularity, pingInterval time.Duration, l *applogger.Logger) *Collector {
	if websocketURL == "" {
		websocketURL = defaultWebsocketURL
	}
	return &Collector{
		apiKey:       apiKey,
		websocketURL: websocketURL,
		symbols:      symbols,
		granularity:  granularity,
		pingInterval: pingInterval,
		logger:       l,
	}
}

type fhTrade struct {
	S string  `json:"s"`
	P float64 `json:"p"`
	V float64 `json:"v"`
	T int64   `json:"t"` // ms
}

type fhMessage struct {
	Type string    `json:"type"`
	Data []fhTrade `json:"data"`
}

type barAccum struct {
	open, high, low, close float64
	volume                 float64
	seen                   bool
}

// Collect connects, subscribes, and reads trades until window elapses or ctx
// is done, then returns the folded OHLCV records sorted by symbol and time.
func (c *Collector) Collect(ctx context.Context, window time.Duration) ([]models.RawPriceRecord, error) {
	if err := c.connect(ctx); err != nil {
		return nil, err
	}
	defer c.close()

	if err := c.subscribe(); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(window)
	_ = c.conn.SetReadDeadline(deadline)

	// ping loop keeps the connection alive for long windows
	pingCtx, cancelPing := context.WithCancel(ctx)
	defer cancelPing()
	go c.pingLoop(pingCtx)

	accum := make(map[string]map[int64]*barAccum) // symbol -> bucket unix -> accum
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return c.fold(accum), ctx.Err()
		default:
		}

		_, b, err := c.conn.ReadMessage()
		if err != nil {
			// deadline expiry ends the window, anything else is a real error
			if time.Now().After(deadline) {
				break
			}
			return c.fold(accum), fmt.Errorf("finnhub stream read: %w", err)
		}

		var m fhMessage
		if err := json.Unmarshal(b, &m); err != nil || m.Type != "trade" {
			continue
		}
		for _, t := range m.Data {
			c.foldTrade(accum, t)
		}
	}

	return c.fold(accum), nil
}

func (c *Collector) foldTrade(accum map[string]map[int64]*barAccum, t fhTrade) {
	ts := time.Unix(t.T/1000, 0).UTC()
	bucket := util.BucketStart(ts, c.granularity).Unix()

	buckets, ok := accum[t.S]
	if !ok {
		buckets = make(map[int64]*barAccum)
		accum[t.S] = buckets
	}
	a, ok := buckets[bucket]
	if !ok {
		a = &barAccum{}
		buckets[bucket] = a
	}
	if !a.seen {
		a.open = t.P
		a.high = t.P
		a.low = t.P
		a.seen = true
	}
	if t.P > a.high {
		a.high = t.P
	}
	if t.P < a.low {
		a.low = t.P
	}
	a.close = t.P
	a.volume += t.V
}

func (c *Collector) fold(accum map[string]map[int64]*barAccum) []models.RawPriceRecord {
	var records []models.RawPriceRecord
	for symbol, buckets := range accum {
		for bucket, a := range buckets {
			if !a.seen {
				continue
			}
			records = append(records, models.RawPriceRecord{
				Symbol:    symbol,
				Timestamp: bucket,
				Open:      a.open,
				High:      a.high,
				Low:       a.low,
				Close:     a.close,
				Volume:    int64(a.volume),
			})
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Symbol != records[j].Symbol {
			return records[i].Symbol < records[j].Symbol
		}
		return records[i].Timestamp < records[j].Timestamp
	})
	return records
}

func (c *Collector) connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("finnhub stream connect: %w", err)
	}
	c.conn = conn
	c.logger.Info("finnhub stream: connected")
	return nil
}

func (c *Collector) subscribe() error {
	for _, s := range c.symbols {
		msg := map[string]string{"type": "subscribe", "symbol": s}
		if err := c.conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("finnhub subscribe %s: %w", s, err)
		}
		c.logger.Debug("finnhub stream: subscribed", applogger.String("symbol", s))
	}
	return nil
}

func (c *Collector) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.conn != nil {
				_ = c.conn.WriteMessage(websocket.PingMessage, nil)
			}
		}
	}
}

func (c *Collector) close() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}
