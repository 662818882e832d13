package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		ServeResults    bool          `yaml:"serve_results"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`
	Sink struct {
		Type string `yaml:"type" default:"clickhouse"` // clickhouse or kafka
	} `yaml:"sink"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"sentipull.analysis"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"1s"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port" default:"9000"`
		Database     string        `yaml:"database" default:"sentipull"`
		User         string        `yaml:"user" default:"default"`
		Password     string        `yaml:"password"`
		DialTimeout  time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"clickhouse"`
	NewsAPI struct {
		APIKey   string        `yaml:"api_key"`
		BaseURL  string        `yaml:"base_url" default:"https://newsapi.org/v2"`
		Query    string        `yaml:"query" default:"stocks"`
		Language string        `yaml:"language" default:"en"`
		PageSize int           `yaml:"page_size" default:"100"`
		MaxPages int           `yaml:"max_pages" default:"5"`
		Timeout  time.Duration `yaml:"timeout" default:"15s"`
	} `yaml:"newsapi"`
	Finnhub struct {
		APIKey        string        `yaml:"api_key"`
		BaseURL       string        `yaml:"base_url" default:"https://finnhub.io/api/v1"`
		WebSocketURL  string        `yaml:"websocket_url" default:"wss://ws.finnhub.io"`
		Symbols       []string      `yaml:"symbols"`
		Timeout       time.Duration `yaml:"timeout" default:"15s"`
		CollectWindow time.Duration `yaml:"collect_window" default:"5m"`
		PingInterval  time.Duration `yaml:"ping_interval" default:"20s"`
	} `yaml:"finnhub"`
	Classifier struct {
		Backend    string        `yaml:"backend" default:"http"` // http or openai
		ServiceURL string        `yaml:"service_url"`
		Model      string        `yaml:"model" default:"gpt-4o-mini"`
		APIKey     string        `yaml:"api_key"`
		Timeout    time.Duration `yaml:"timeout" default:"30s"`
		BatchSize  int           `yaml:"batch_size" default:"16"`
		RetryMax   int           `yaml:"retry_max" default:"3"`
		BackoffMin time.Duration `yaml:"backoff_min" default:"200ms"`
		MaxRPS     float64       `yaml:"max_rps" default:"5"`
	} `yaml:"classifier"`
	Cache struct {
		Enabled bool          `yaml:"enabled"`
		Backend string        `yaml:"backend" default:"memory"` // memory, redis, layered
		TTL     time.Duration `yaml:"ttl" default:"168h"`
		Redis   struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Analysis struct {
		Granularity      time.Duration `yaml:"granularity" default:"24h"`
		LookbackDays     int           `yaml:"lookback_days" default:"30"`
		Lags             []int         `yaml:"lags"`
		SMAWindows       []int         `yaml:"sma_windows"`
		VolatilityWindow int           `yaml:"volatility_window" default:"14"`
		MinSampleSize    int           `yaml:"min_sample_size" default:"10"`
		Workers          int           `yaml:"workers" default:"4"`
	} `yaml:"analysis"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if len(c.Analysis.Lags) == 0 {
		c.Analysis.Lags = []int{0, 1, 2, 3}
	}
	if len(c.Analysis.SMAWindows) == 0 {
		c.Analysis.SMAWindows = []int{5, 20}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		c.NewsAPI.APIKey = v
	}
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		c.Finnhub.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.Classifier.Backend == "openai" {
		c.Classifier.APIKey = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Finnhub.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("SINK"); v != "" {
		c.Sink.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Sink.Type != "kafka" && c.Sink.Type != "clickhouse" {
		return fmt.Errorf("sink.type must be 'kafka' or 'clickhouse', got '%s'", c.Sink.Type)
	}
	if len(c.Finnhub.Symbols) == 0 {
		return fmt.Errorf("finnhub.symbols cannot be empty")
	}
	switch c.Classifier.Backend {
	case "http":
		if c.Classifier.ServiceURL == "" {
			return fmt.Errorf("classifier.service_url is required for the http backend")
		}
	case "openai":
		if c.Classifier.APIKey == "" {
			return fmt.Errorf("classifier.api_key is required for the openai backend")
		}
	default:
		return fmt.Errorf("classifier.backend must be 'http' or 'openai', got '%s'", c.Classifier.Backend)
	}
	if c.Classifier.BatchSize <= 0 {
		return fmt.Errorf("classifier.batch_size must be positive")
	}
	if c.Analysis.Granularity <= 0 {
		return fmt.Errorf("analysis.granularity must be positive")
	}
	if c.Analysis.MinSampleSize < 2 {
		return fmt.Errorf("analysis.min_sample_size must be at least 2")
	}
	for _, lag := range c.Analysis.Lags {
		if lag < 0 {
			return fmt.Errorf("analysis.lags must be non-negative, got %d", lag)
		}
	}
	return nil
}
