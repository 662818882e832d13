package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SentiPull/internal/domain/models"
	drepo "SentiPull/internal/domain/repository"
	"SentiPull/internal/services/indicators"
	applogger "SentiPull/pkg/logger"
)

// PipelineConfig carries the analysis parameters for one run.
type PipelineConfig struct {
	Symbols        []string
	Granularity    time.Duration
	Lookback       time.Duration
	Lags           []int
	SMAWindows     []int
	VolWindow      int
	MinSampleSize  int
	CollectWindow  time.Duration // live trade sampling; zero disables
	PublishResults bool
	// QueryFor builds the news search query for a symbol; nil uses the
	// bare symbol.
	QueryFor func(symbol string) string
}

// LiveCollector samples live trades over a bounded window into raw OHLCV
// records for the current, not-yet-closed bucket.
type LiveCollector interface {
	Collect(ctx context.Context, window time.Duration) ([]models.RawPriceRecord, error)
}

// Pipeline runs the full analysis for each configured symbol: fetch,
// normalize, score, align, derive indicators, correlate, store, publish.
type Pipeline struct {
	news      drepo.NewsSource
	market    drepo.MarketSource
	collector LiveCollector

	normalizer *Normalizer
	scorer     *Scorer
	aligner    *Aligner
	correlator *Correlator

	store     drepo.ResultStore
	publisher drepo.Publisher
	metrics   drepo.Metrics
	logger    *applogger.Logger
	cfg       PipelineConfig
}

// NewPipeline wires the pipeline stages.
func NewPipeline(
	news drepo.NewsSource,
	market drepo.MarketSource,
	collector LiveCollector,
	normalizer *Normalizer,
	scorer *Scorer,
	aligner *Aligner,
	correlator *Correlator,
	store drepo.ResultStore,
	publisher drepo.Publisher,
	metrics drepo.Metrics,
	logger *applogger.Logger,
	cfg PipelineConfig,
) *Pipeline {
	return &Pipeline{
		news:       news,
		market:     market,
		collector:  collector,
		normalizer: normalizer,
		scorer:     scorer,
		aligner:    aligner,
		correlator: correlator,
		store:      store,
		publisher:  publisher,
		metrics:    metrics,
		logger:     logger,
		cfg:        cfg,
	}
}

// Run executes the analysis for every configured symbol. A symbol's failure
// never stops the others; the run fails only when every symbol failed or ctx
// was cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	to := time.Now().UTC()
	from := to.Add(-p.cfg.Lookback)

	// one bounded live sampling pass serves all symbols
	var liveBars []models.RawPriceRecord
	if p.collector != nil && p.cfg.CollectWindow > 0 {
		var err error
		liveBars, err = p.collector.Collect(ctx, p.cfg.CollectWindow)
		if err != nil {
			p.logger.Warn("live trade sampling failed", applogger.Error(err))
			p.metrics.RecordExternalError("finnhub_stream")
		}
	}

	var failures []error
	for _, symbol := range p.cfg.Symbols {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.runSymbol(ctx, symbol, from, to, liveBars); err != nil {
			p.logger.Error("symbol run failed",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
			failures = append(failures, fmt.Errorf("%s: %w", symbol, err))
		}
	}

	if len(failures) == len(p.cfg.Symbols) && len(failures) > 0 {
		return fmt.Errorf("all symbols failed: %w", errors.Join(failures...))
	}
	return nil
}

func (p *Pipeline) runSymbol(ctx context.Context, symbol string, from, to time.Time, liveBars []models.RawPriceRecord) error {
	started := time.Now().UTC()
	log := p.logger.With(applogger.String("symbol", symbol))

	// fetch
	fetchStart := time.Now()
	query := symbol
	if p.cfg.QueryFor != nil {
		query = p.cfg.QueryFor(symbol)
	}
	rawNews, err := p.news.Fetch(ctx, query, from, to)
	if err != nil {
		p.metrics.RecordExternalError("newsapi")
		return fmt.Errorf("fetch news: %w", err)
	}
	rawBars, err := p.market.Fetch(ctx, symbol, from, to, p.cfg.Granularity)
	if err != nil {
		p.metrics.RecordExternalError("finnhub")
		return fmt.Errorf("fetch bars: %w", err)
	}
	for _, b := range liveBars {
		if b.Symbol == symbol {
			rawBars = append(rawBars, b)
		}
	}
	p.metrics.RecordLatency("fetch", time.Since(fetchStart).Seconds())

	// normalize
	items, bars, normStats := p.normalizer.Normalize(rawNews, rawBars)
	if len(bars) == 0 {
		return ErrNoData
	}

	// score
	scoreStart := time.Now()
	scores, scoreStats, err := p.scorer.Score(ctx, items)
	if err != nil {
		return err
	}
	p.metrics.RecordLatency("score", time.Since(scoreStart).Seconds())

	// align and derive
	sentiment := p.aligner.Align(items, scores, bars)
	indicatorSets := indicators.Compute(bars, indicators.Config{
		SMAWindows:       p.cfg.SMAWindows,
		VolatilityWindow: p.cfg.VolWindow,
	})

	// correlate
	corrStart := time.Now()
	correlations, err := p.correlator.Correlate(ctx, sentiment, indicatorSets, p.cfg.Lags, p.indicatorNames())
	if err != nil {
		return fmt.Errorf("correlate: %w", err)
	}
	p.metrics.RecordLatency("correlate", time.Since(corrStart).Seconds())

	// persist
	if err := p.persist(ctx, items, scores, bars, sentiment, indicatorSets, correlations); err != nil {
		return err
	}

	// publish
	if p.publisher != nil && p.cfg.PublishResults {
		if err := p.publisher.PublishSentiment(ctx, sentiment); err != nil {
			p.metrics.RecordExternalError("publisher")
			log.Warn("publish sentiment failed", applogger.Error(err))
		}
		if err := p.publisher.PublishCorrelations(ctx, correlations); err != nil {
			p.metrics.RecordExternalError("publisher")
			log.Warn("publish correlations failed", applogger.Error(err))
		}
	}

	// report
	report := buildReport(symbol, started, normStats, scoreStats, bars, correlations)
	if err := p.store.PutReport(ctx, report); err != nil {
		return fmt.Errorf("store report: %w", err)
	}

	log.Info("symbol run complete",
		applogger.Int("news_accepted", normStats.NewsAccepted),
		applogger.Int("bars_accepted", normStats.BarsAccepted),
		applogger.Int("items_scored", scoreStats.Scored),
		applogger.Int("correlations", len(correlations)),
		applogger.Duration("duration", time.Since(started)),
	)
	return nil
}

func (p *Pipeline) persist(
	ctx context.Context,
	items []models.NewsItem,
	scores []models.SentimentScore,
	bars []models.PriceBar,
	sentiment []models.AggregatedSentiment,
	indicatorSets []models.IndicatorSet,
	correlations []models.CorrelationResult,
) error {
	storeStart := time.Now()
	if err := p.store.PutNewsItems(ctx, items); err != nil {
		return fmt.Errorf("store news: %w", err)
	}
	p.metrics.RecordStored("news_items", len(items))

	if err := p.store.PutScores(ctx, scores); err != nil {
		return fmt.Errorf("store scores: %w", err)
	}
	p.metrics.RecordStored("scores", len(scores))

	if err := p.store.PutBars(ctx, bars); err != nil {
		return fmt.Errorf("store bars: %w", err)
	}
	p.metrics.RecordStored("price_bars", len(bars))

	if err := p.store.PutSentiment(ctx, sentiment); err != nil {
		return fmt.Errorf("store sentiment: %w", err)
	}
	p.metrics.RecordStored("sentiment", len(sentiment))

	if err := p.store.PutIndicators(ctx, indicatorSets); err != nil {
		return fmt.Errorf("store indicators: %w", err)
	}
	p.metrics.RecordStored("indicators", len(indicatorSets))

	if err := p.store.PutCorrelations(ctx, correlations); err != nil {
		return fmt.Errorf("store correlations: %w", err)
	}
	p.metrics.RecordStored("correlations", len(correlations))
	p.metrics.RecordLatency("store", time.Since(storeStart).Seconds())
	return nil
}

// indicatorNames lists every series the correlator should test.
func (p *Pipeline) indicatorNames() []string {
	names := []string{models.IndicatorReturn1D}
	for _, w := range p.cfg.SMAWindows {
		names = append(names, indicators.Name("sma", w))
	}
	if p.cfg.VolWindow > 1 {
		names = append(names, indicators.Name("volatility", p.cfg.VolWindow))
	}
	return names
}

func buildReport(symbol string, started time.Time, norm NormalizeStats, score ScoreStats, bars []models.PriceBar, correlations []models.CorrelationResult) models.RunReport {
	report := models.RunReport{
		Symbol:             symbol,
		StartedAt:          started,
		FinishedAt:         time.Now().UTC(),
		NewsAccepted:       norm.NewsAccepted,
		NewsRejected:       norm.NewsRejected,
		NewsDuplicates:     norm.NewsDuplicates,
		BarsAccepted:       norm.BarsAccepted,
		BarsRejected:       norm.BarsRejected,
		ItemsScored:        score.Scored,
		ItemsSkipped:       score.Skipped,
		LabelCounts:        score.LabelCounts,
		AvgConfidence:      score.AvgConfidence,
		CorrelationsStored: len(correlations),
	}
	if vol, ok := indicators.AnnualizedVolatility(bars); ok {
		report.AnnualizedVol = &vol
	}
	return report
}
