package di

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"SentiPull/internal/domain/repository"
	dservice "SentiPull/internal/domain/service"
	internalrepo "SentiPull/internal/repository"
	"SentiPull/internal/service/classifier"
	"SentiPull/internal/service/finnhub"
	"SentiPull/internal/service/matcher"
	"SentiPull/internal/service/newsapi"
	"SentiPull/internal/service/ratelimit"
	"SentiPull/internal/usecase"
	"SentiPull/pkg/cache"
	pkgch "SentiPull/pkg/clickhouse"
	"SentiPull/pkg/config"
	xhttp "SentiPull/pkg/http"
	pkgkafka "SentiPull/pkg/kafka"
	applogger "SentiPull/pkg/logger"
	"SentiPull/pkg/metrics"
	"SentiPull/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideNewsSource creates the NewsAPI source.
func ProvideNewsSource(cfg *config.Config, l *applogger.Logger) repository.NewsSource {
	client := xhttp.NewClient(
		xhttp.WithTimeout(cfg.NewsAPI.Timeout),
		xhttp.WithRetry(3, 500*time.Millisecond),
	)
	return newsapi.New(
		cfg.NewsAPI.APIKey,
		cfg.NewsAPI.BaseURL,
		cfg.NewsAPI.Language,
		cfg.NewsAPI.PageSize,
		cfg.NewsAPI.MaxPages,
		client,
		l,
	)
}

// ProvideMarketSource creates the Finnhub candle source.
func ProvideMarketSource(cfg *config.Config, l *applogger.Logger) repository.MarketSource {
	client := xhttp.NewClient(
		xhttp.WithTimeout(cfg.Finnhub.Timeout),
		xhttp.WithRetry(3, 500*time.Millisecond),
	)
	return finnhub.New(cfg.Finnhub.APIKey, cfg.Finnhub.BaseURL, client, l)
}

// ProvideCollector creates the bounded live trade collector. Disabled (nil)
// when no collect window is configured.
func ProvideCollector(cfg *config.Config, l *applogger.Logger) usecase.LiveCollector {
	if cfg.Finnhub.CollectWindow <= 0 {
		return nil
	}
	return finnhub.NewCollector(
		cfg.Finnhub.APIKey,
		cfg.Finnhub.WebSocketURL,
		cfg.Finnhub.Symbols,
		cfg.Analysis.Granularity,
		cfg.Finnhub.PingInterval,
		l,
	)
}

// ProvideClassifier creates the configured classifier backend, optionally
// wrapped with a score cache.
func ProvideClassifier(cfg *config.Config, l *applogger.Logger) (dservice.Classifier, error) {
	var inner dservice.Classifier
	switch cfg.Classifier.Backend {
	case "openai":
		inner = classifier.NewOpenAI(cfg.Classifier.APIKey, cfg.Classifier.Model, l)
	default:
		client := xhttp.NewClient(xhttp.WithTimeout(cfg.Classifier.Timeout))
		inner = classifier.NewHTTP(cfg.Classifier.ServiceURL, client, ratelimit.New(), cfg.Classifier.MaxRPS, l)
	}

	if !cfg.Cache.Enabled {
		return inner, nil
	}
	c, err := provideCache(cfg)
	if err != nil {
		return nil, err
	}
	return classifier.NewCached(inner, c, cfg.Cache.TTL, l), nil
}

func provideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Backend {
	case "memory":
		return cache.NewMemoryCache(), nil
	case "redis", "layered":
		host, port, err := splitRedisAddr(cfg.Cache.Redis.Addr)
		if err != nil {
			return nil, err
		}
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(host),
			cache.WithRedisPort(port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		if cfg.Cache.Backend == "layered" {
			return cache.NewLayeredCache(rc), nil
		}
		return rc, nil
	default:
		return nil, fmt.Errorf("cache.backend must be 'memory', 'redis' or 'layered', got '%s'", cfg.Cache.Backend)
	}
}

func splitRedisAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("cache.redis.addr: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("cache.redis.addr port: %w", err)
	}
	return host, port, nil
}

// ProvideMatcher creates the symbol matcher over the configured universe.
func ProvideMatcher(cfg *config.Config) dservice.SymbolMatcher {
	return matcher.New(cfg.Finnhub.Symbols)
}

// ProvideResultStore creates the durable result store for the configured
// sink: ClickHouse by default, in-memory when no ClickHouse host is set.
func ProvideResultStore(cfg *config.Config, l *applogger.Logger) (repository.ResultStore, error) {
	if cfg.ClickHouse.Host == "" {
		l.Warn("no clickhouse host configured, using in-memory result store")
		return internalrepo.NewMemoryResultStore(), nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return internalrepo.NewCHResultStore(client, l), nil
}

// ProvidePublisher creates the analysis event publisher. Events go to Kafka
// only when the sink selects it; otherwise results live in the store alone.
func ProvidePublisher(cfg *config.Config) (repository.Publisher, error) {
	if cfg.Sink.Type != "kafka" {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvidePipeline wires the analysis pipeline.
func ProvidePipeline(
	cfg *config.Config,
	news repository.NewsSource,
	market repository.MarketSource,
	collector usecase.LiveCollector,
	clf dservice.Classifier,
	sym dservice.SymbolMatcher,
	store repository.ResultStore,
	publisher repository.Publisher,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.Pipeline {
	g := cfg.Analysis.Granularity

	normalizer := usecase.NewNormalizer(g, m, l)
	scorer := usecase.NewScorer(clf, cfg.Classifier.BatchSize, cfg.Classifier.RetryMax, cfg.Classifier.BackoffMin, m, l)
	aligner := usecase.NewAligner(g, sym)
	correlator := usecase.NewCorrelator(g, cfg.Analysis.MinSampleSize, cfg.Analysis.Workers)

	return usecase.NewPipeline(
		news, market, collector,
		normalizer, scorer, aligner, correlator,
		store, publisher, m, l,
		usecase.PipelineConfig{
			Symbols:        cfg.Finnhub.Symbols,
			Granularity:    g,
			Lookback:       time.Duration(cfg.Analysis.LookbackDays) * 24 * time.Hour,
			Lags:           cfg.Analysis.Lags,
			SMAWindows:     cfg.Analysis.SMAWindows,
			VolWindow:      cfg.Analysis.VolatilityWindow,
			MinSampleSize:  cfg.Analysis.MinSampleSize,
			CollectWindow:  cfg.Finnhub.CollectWindow,
			PublishResults: cfg.Sink.Type == "kafka",
			QueryFor:       matcher.QueryFor,
		},
	)
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	pipeline *usecase.Pipeline,
	store repository.ResultStore,
	publisher repository.Publisher,
	l *applogger.Logger,
) *server.App {
	return server.New(cfg, pipeline, store, publisher, l)
}
