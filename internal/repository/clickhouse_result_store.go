package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"SentiPull/internal/domain/models"
	domrepo "SentiPull/internal/domain/repository"
	pkgch "SentiPull/pkg/clickhouse"
	applogger "SentiPull/pkg/logger"
)

// insert chunk size per round-trip
const chunkSize = 2000

// schemaStatements create the database and all result tables. Every table is
// a ReplacingMergeTree keyed on the entity's natural key, so re-running a
// window overwrites instead of duplicating.
var schemaStatements = []string{
	`CREATE DATABASE IF NOT EXISTS sentipull`,
	`CREATE TABLE IF NOT EXISTS sentipull.news_items (
        id String,
        source String,
        title String,
        body String,
        language String,
        published_at DateTime('UTC'),
        offset_assumed UInt8,
        non_financial UInt8
    ) ENGINE = ReplacingMergeTree ORDER BY (source, id)`,
	`CREATE TABLE IF NOT EXISTS sentipull.scores (
        item_id String,
        label String,
        score Float64,
        confidence Float64
    ) ENGINE = ReplacingMergeTree ORDER BY item_id`,
	`CREATE TABLE IF NOT EXISTS sentipull.price_bars (
        symbol String,
        ts DateTime('UTC'),
        open Float64,
        high Float64,
        low Float64,
        close Float64,
        volume Int64
    ) ENGINE = ReplacingMergeTree ORDER BY (symbol, ts)`,
	`CREATE TABLE IF NOT EXISTS sentipull.sentiment (
        symbol String,
        bucket_start DateTime('UTC'),
        mean_score Nullable(Float64),
        item_count Int32
    ) ENGINE = ReplacingMergeTree ORDER BY (symbol, bucket_start)`,
	`CREATE TABLE IF NOT EXISTS sentipull.indicators (
        symbol String,
        ts DateTime('UTC'),
        name String,
        value Float64
    ) ENGINE = ReplacingMergeTree ORDER BY (symbol, ts, name)`,
	`CREATE TABLE IF NOT EXISTS sentipull.correlations (
        symbol String,
        lag Int32,
        indicator String,
        coefficient Nullable(Float64),
        sample_size Int32,
        p_value Nullable(Float64)
    ) ENGINE = ReplacingMergeTree ORDER BY (symbol, lag, indicator)`,
	`CREATE TABLE IF NOT EXISTS sentipull.reports (
        symbol String,
        finished_at DateTime('UTC'),
        payload String
    ) ENGINE = ReplacingMergeTree(finished_at) ORDER BY symbol`,
}

// CHResultStore implements ResultStore backed by ClickHouse.
type CHResultStore struct {
	client *pkgch.Client
	db     *sql.DB
	l      *applogger.Logger
}

// NewCHResultStore creates a ClickHouse result store.
func NewCHResultStore(ch *pkgch.Client, l *applogger.Logger) domrepo.ResultStore {
	return &CHResultStore{client: ch, db: ch.DB(), l: l}
}

// Init ensures the database and tables exist.
func (s *CHResultStore) Init(ctx context.Context) error {
	if err := s.client.InitSchema(ctx, schemaStatements); err != nil {
		return fmt.Errorf("result store init: %w", err)
	}
	s.l.Info("clickhouse result store: schema ready")
	return nil
}

func (s *CHResultStore) PutNewsItems(ctx context.Context, items []models.NewsItem) error {
	return insertChunked(ctx, s.db, len(items),
		"INSERT INTO sentipull.news_items (id, source, title, body, language, published_at, offset_assumed, non_financial)",
		8,
		func(i int, args []interface{}) []interface{} {
			it := items[i]
			return append(args, it.ID, it.Source, it.Title, it.Body, it.Language,
				it.PublishedAt, boolToUInt8(it.OffsetAssumed), boolToUInt8(it.NonFinancial))
		})
}

func (s *CHResultStore) PutScores(ctx context.Context, scores []models.SentimentScore) error {
	return insertChunked(ctx, s.db, len(scores),
		"INSERT INTO sentipull.scores (item_id, label, score, confidence)",
		4,
		func(i int, args []interface{}) []interface{} {
			sc := scores[i]
			return append(args, sc.ItemID, sc.Label, sc.Score, sc.Confidence)
		})
}

func (s *CHResultStore) PutBars(ctx context.Context, bars []models.PriceBar) error {
	return insertChunked(ctx, s.db, len(bars),
		"INSERT INTO sentipull.price_bars (symbol, ts, open, high, low, close, volume)",
		7,
		func(i int, args []interface{}) []interface{} {
			b := bars[i]
			return append(args, b.Symbol, b.Timestamp, b.Open, b.High, b.Low, b.Close, b.Volume)
		})
}

func (s *CHResultStore) PutSentiment(ctx context.Context, rows []models.AggregatedSentiment) error {
	return insertChunked(ctx, s.db, len(rows),
		"INSERT INTO sentipull.sentiment (symbol, bucket_start, mean_score, item_count)",
		4,
		func(i int, args []interface{}) []interface{} {
			r := rows[i]
			return append(args, r.Symbol, r.BucketStart, r.MeanScore, int32(r.ItemCount))
		})
}

func (s *CHResultStore) PutIndicators(ctx context.Context, rows []models.IndicatorSet) error {
	// flatten maps to one row per (bar, indicator); undefined indicators
	// simply produce no row
	type flatRow struct {
		symbol string
		ts     time.Time
		name   string
		value  float64
	}
	var flat []flatRow
	for _, r := range rows {
		for name, value := range r.Indicators {
			flat = append(flat, flatRow{r.Symbol, r.Timestamp, name, value})
		}
	}
	return insertChunked(ctx, s.db, len(flat),
		"INSERT INTO sentipull.indicators (symbol, ts, name, value)",
		4,
		func(i int, args []interface{}) []interface{} {
			f := flat[i]
			return append(args, f.symbol, f.ts, f.name, f.value)
		})
}

func (s *CHResultStore) PutCorrelations(ctx context.Context, rows []models.CorrelationResult) error {
	return insertChunked(ctx, s.db, len(rows),
		"INSERT INTO sentipull.correlations (symbol, lag, indicator, coefficient, sample_size, p_value)",
		6,
		func(i int, args []interface{}) []interface{} {
			r := rows[i]
			return append(args, r.Symbol, int32(r.Lag), r.IndicatorName, r.Coefficient, int32(r.SampleSize), r.PValue)
		})
}

func (s *CHResultStore) PutReport(ctx context.Context, report models.RunReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO sentipull.reports (symbol, finished_at, payload) VALUES (?, ?, ?)",
		report.Symbol, report.FinishedAt, string(payload))
	if err != nil {
		return fmt.Errorf("put report: %w", err)
	}
	return nil
}

func (s *CHResultStore) GetSentiment(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.AggregatedSentiment, error) {
	start := time.Now()
	const q = `
        SELECT symbol, bucket_start, mean_score, item_count
        FROM sentipull.sentiment FINAL
        WHERE symbol = ? AND bucket_start >= ? AND bucket_start < ?
        ORDER BY bucket_start ASC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("get sentiment: %w", err)
	}
	defer rows.Close()

	var out []models.AggregatedSentiment
	for rows.Next() {
		var r models.AggregatedSentiment
		var count int32
		if err := rows.Scan(&r.Symbol, &r.BucketStart, &r.MeanScore, &count); err != nil {
			return nil, fmt.Errorf("scan sentiment: %w", err)
		}
		r.ItemCount = int(count)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	s.l.Debug("clickhouse get_sentiment ok",
		applogger.String("symbol", symbol),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration", time.Since(start)))
	return out, nil
}

func (s *CHResultStore) GetIndicators(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.IndicatorSet, error) {
	const q = `
        SELECT ts, name, value
        FROM sentipull.indicators FINAL
        WHERE symbol = ? AND ts >= ? AND ts < ?
        ORDER BY ts ASC, name ASC
    `
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("get indicators: %w", err)
	}
	defer rows.Close()

	var out []models.IndicatorSet
	for rows.Next() {
		var ts time.Time
		var name string
		var value float64
		if err := rows.Scan(&ts, &name, &value); err != nil {
			return nil, fmt.Errorf("scan indicator: %w", err)
		}
		if len(out) == 0 || !out[len(out)-1].Timestamp.Equal(ts) {
			if limit > 0 && len(out) >= limit {
				break
			}
			out = append(out, models.IndicatorSet{
				Symbol:     symbol,
				Timestamp:  ts,
				Indicators: make(map[string]float64),
			})
		}
		out[len(out)-1].Indicators[name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *CHResultStore) GetCorrelation(ctx context.Context, symbol string, lag int, indicator string) (*models.CorrelationResult, error) {
	const q = `
        SELECT symbol, lag, indicator, coefficient, sample_size, p_value
        FROM sentipull.correlations FINAL
        WHERE symbol = ? AND lag = ? AND indicator = ?
        LIMIT 1
    `
	row := s.db.QueryRowContext(ctx, q, symbol, int32(lag), indicator)
	var r models.CorrelationResult
	var lag32, sample32 int32
	if err := row.Scan(&r.Symbol, &lag32, &r.IndicatorName, &r.Coefficient, &sample32, &r.PValue); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get correlation: %w", err)
	}
	r.Lag = int(lag32)
	r.SampleSize = int(sample32)
	return &r, nil
}

func (s *CHResultStore) GetCorrelations(ctx context.Context, symbol string) ([]models.CorrelationResult, error) {
	const q = `
        SELECT symbol, lag, indicator, coefficient, sample_size, p_value
        FROM sentipull.correlations FINAL
        WHERE symbol = ?
        ORDER BY lag ASC, indicator ASC
    `
	rows, err := s.db.QueryContext(ctx, q, symbol)
	if err != nil {
		return nil, fmt.Errorf("get correlations: %w", err)
	}
	defer rows.Close()

	var out []models.CorrelationResult
	for rows.Next() {
		var r models.CorrelationResult
		var lag32, sample32 int32
		if err := rows.Scan(&r.Symbol, &lag32, &r.IndicatorName, &r.Coefficient, &sample32, &r.PValue); err != nil {
			return nil, fmt.Errorf("scan correlation: %w", err)
		}
		r.Lag = int(lag32)
		r.SampleSize = int(sample32)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *CHResultStore) GetReport(ctx context.Context, symbol string) (*models.RunReport, error) {
	const q = `
        SELECT payload
        FROM sentipull.reports FINAL
        WHERE symbol = ?
        ORDER BY finished_at DESC
        LIMIT 1
    `
	row := s.db.QueryRowContext(ctx, q, symbol)
	var payload string
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	var report models.RunReport
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &report, nil
}

func (s *CHResultStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHResultStore) Close() error {
	return s.client.Close()
}

// insertChunked issues multi-row VALUES inserts in chunks to reduce
// round-trips.
func insertChunked(ctx context.Context, db *sql.DB, n int, insertPrefix string, cols int, fill func(i int, args []interface{}) []interface{}) error {
	if n == 0 {
		return nil
	}
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", cols), ", ") + ")"
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*cols)
		for i := start; i < end; i++ {
			values = append(values, placeholder)
			args = fill(i, args)
		}
		q := insertPrefix + " VALUES " + strings.Join(values, ",")
		if _, err := db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert chunk: %w", err)
		}
	}
	return nil
}

func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
