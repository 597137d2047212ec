package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/miradorstack/enginewatch/internal/engine"
	"github.com/miradorstack/enginewatch/internal/models"
)

// Config captures everything needed to run the engine monitor.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Monitor   MonitorConfig   `yaml:"monitor"`
	Notify    NotifyConfig    `yaml:"notify"`
	Source    SourceConfig    `yaml:"source"`
	Sink      SinkConfig      `yaml:"sink"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
	Scenarios ScenariosConfig `yaml:"scenarios"`
}

// ServerConfig controls the gRPC health and Prometheus listeners. An empty
// address disables the listener.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
}

// MonitorConfig controls the sampling loop and detection thresholds.
type MonitorConfig struct {
	Cadence     time.Duration         `yaml:"cadence"`
	HistorySize int                   `yaml:"historySize"`
	Thresholds  models.Thresholds     `yaml:"thresholds"`
	Analyzer    engine.AnalyzerConfig `yaml:"analyzer"`
}

// NotifyConfig configures the Telegram alert channel.
type NotifyConfig struct {
	Enabled  bool          `yaml:"enabled"`
	BaseURL  string        `yaml:"baseURL"`
	Token    string        `yaml:"token"`
	ChatID   string        `yaml:"chatID"`
	Timeout  time.Duration `yaml:"timeout"`
	Timezone string        `yaml:"timezone"`
}

// SourceConfig selects where samples come from: synthetic, replay or kafka.
type SourceConfig struct {
	Kind   string            `yaml:"kind"`
	Seed   int64             `yaml:"seed"`
	Points int               `yaml:"points"`
	File   string            `yaml:"file"`
	Kafka  KafkaSourceConfig `yaml:"kafka"`
}

// KafkaSourceConfig configures the live telemetry consumer.
type KafkaSourceConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"groupID"`
}

// SinkConfig groups display sinks besides the log sink.
type SinkConfig struct {
	Kafka KafkaSinkConfig `yaml:"kafka"`
}

// KafkaSinkConfig configures publishing tick results to a topic.
type KafkaSinkConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Brokers      []string      `yaml:"brokers"`
	Topic        string        `yaml:"topic"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	Compression  string        `yaml:"compression"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// ScenariosConfig points at an optional fault scenario pack.
type ScenariosConfig struct {
	Path string `yaml:"path"`
}

// CacheConfig controls the Redis-backed alert journal. When disabled the
// journal lives in process memory.
type CacheConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Addr         string        `yaml:"addr"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	DialTimeout  time.Duration `yaml:"dialTimeout"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	MaxRetries   int           `yaml:"maxRetries"`
	TLS          bool          `yaml:"tls"`
	AlertTTL     time.Duration `yaml:"alertTTL"`
	PatternsTTL  time.Duration `yaml:"patternsTTL"`
}

// Source kinds.
const (
	SourceSynthetic = "synthetic"
	SourceReplay    = "replay"
	SourceKafka     = "kafka"
)

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("ENGINEWATCH_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":50061",
			MetricsAddress:  ":2112",
			GracefulTimeout: 10 * time.Second,
		},
		Monitor: MonitorConfig{
			Cadence:     500 * time.Millisecond,
			HistorySize: engine.DefaultHistorySize,
			Thresholds: models.Thresholds{
				TempMin: 70,
				TempMax: 85,
				RPMMin:  1800,
				RPMMax:  3200,
			},
			Analyzer: engine.DefaultAnalyzerConfig(),
		},
		Notify: NotifyConfig{
			Enabled:  true,
			BaseURL:  "https://api.telegram.org",
			Timeout:  5 * time.Second,
			Timezone: "America/Monterrey",
		},
		Source: SourceConfig{
			Kind:   SourceSynthetic,
			Seed:   42,
			Points: 24,
			Kafka:  KafkaSourceConfig{GroupID: "enginewatch"},
		},
		Sink: SinkConfig{
			Kafka: KafkaSinkConfig{
				Topic:        "enginewatch.status",
				WriteTimeout: 5 * time.Second,
			},
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
		Cache: CacheConfig{
			Enabled:      false,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
			MaxRetries:   2,
			AlertTTL:     24 * time.Hour,
			PatternsTTL:  7 * 24 * time.Hour,
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Monitor.Thresholds.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("monitor.thresholds: %w", err))
	}
	if c.Monitor.Cadence < 0 {
		errs = append(errs, errors.New("monitor.cadence must not be negative"))
	}
	if c.Monitor.HistorySize < 0 {
		errs = append(errs, errors.New("monitor.historySize must not be negative"))
	}
	switch c.Source.Kind {
	case SourceSynthetic:
	case SourceReplay:
		if c.Source.File == "" {
			errs = append(errs, errors.New("source.file is required for replay"))
		}
	case SourceKafka:
		if len(c.Source.Kafka.Brokers) == 0 || c.Source.Kafka.Topic == "" {
			errs = append(errs, errors.New("source.kafka.brokers and source.kafka.topic are required for kafka"))
		}
	default:
		errs = append(errs, fmt.Errorf("source.kind %q is not one of synthetic, replay, kafka", c.Source.Kind))
	}
	if c.Sink.Kafka.Enabled && (len(c.Sink.Kafka.Brokers) == 0 || c.Sink.Kafka.Topic == "") {
		errs = append(errs, errors.New("sink.kafka.brokers and sink.kafka.topic are required when enabled"))
	}
	if c.Cache.Enabled && c.Cache.Addr == "" {
		errs = append(errs, errors.New("cache.addr is required when cache is enabled"))
	}
	return errors.Join(errs...)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ENGINEWATCH_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("ENGINEWATCH_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("ENGINEWATCH_CADENCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Monitor.Cadence = d
		}
	}
	if v := os.Getenv("ENGINEWATCH_TEMP_MIN"); v != "" {
		setFloat(&cfg.Monitor.Thresholds.TempMin, v)
	}
	if v := os.Getenv("ENGINEWATCH_TEMP_MAX"); v != "" {
		setFloat(&cfg.Monitor.Thresholds.TempMax, v)
	}
	if v := os.Getenv("ENGINEWATCH_RPM_MIN"); v != "" {
		setFloat(&cfg.Monitor.Thresholds.RPMMin, v)
	}
	if v := os.Getenv("ENGINEWATCH_RPM_MAX"); v != "" {
		setFloat(&cfg.Monitor.Thresholds.RPMMax, v)
	}
	if v := os.Getenv("ENGINEWATCH_NOTIFY_ENABLED"); v != "" {
		cfg.Notify.Enabled = parseBool(v)
	}
	if v := os.Getenv("ENGINEWATCH_TELEGRAM_URL"); v != "" {
		cfg.Notify.BaseURL = v
	}
	if v := os.Getenv("ENGINEWATCH_TELEGRAM_TOKEN"); v != "" {
		cfg.Notify.Token = v
	}
	if v := os.Getenv("ENGINEWATCH_TELEGRAM_CHAT_ID"); v != "" {
		cfg.Notify.ChatID = v
	}
	if v := os.Getenv("ENGINEWATCH_TIMEZONE"); v != "" {
		cfg.Notify.Timezone = v
	}
	if v := os.Getenv("ENGINEWATCH_SOURCE"); v != "" {
		cfg.Source.Kind = strings.ToLower(v)
	}
	if v := os.Getenv("ENGINEWATCH_SOURCE_FILE"); v != "" {
		cfg.Source.File = v
	}
	if v := os.Getenv("ENGINEWATCH_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Source.Seed = seed
		}
	}
	if v := os.Getenv("ENGINEWATCH_KAFKA_BROKERS"); v != "" {
		brokers := splitList(v)
		cfg.Source.Kafka.Brokers = brokers
		cfg.Sink.Kafka.Brokers = brokers
	}
	if v := os.Getenv("ENGINEWATCH_TELEMETRY_TOPIC"); v != "" {
		cfg.Source.Kafka.Topic = v
	}
	if v := os.Getenv("ENGINEWATCH_STATUS_TOPIC"); v != "" {
		cfg.Sink.Kafka.Topic = v
	}
	if v := os.Getenv("ENGINEWATCH_STATUS_SINK_ENABLED"); v != "" {
		cfg.Sink.Kafka.Enabled = parseBool(v)
	}
	if v := os.Getenv("ENGINEWATCH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ENGINEWATCH_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
	if v := os.Getenv("ENGINEWATCH_SCENARIOS_PATH"); v != "" {
		cfg.Scenarios.Path = v
	}
	if v := os.Getenv("ENGINEWATCH_CACHE_ADDR"); v != "" {
		cfg.Cache.Addr = v
	}
	if v := os.Getenv("ENGINEWATCH_CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = parseBool(v)
	}
	if v := os.Getenv("ENGINEWATCH_CACHE_USERNAME"); v != "" {
		cfg.Cache.Username = v
	}
	if v := os.Getenv("ENGINEWATCH_CACHE_PASSWORD"); v != "" {
		cfg.Cache.Password = v
	}
	if v := os.Getenv("ENGINEWATCH_CACHE_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Cache.DB = db
		}
	}
	if v := os.Getenv("ENGINEWATCH_CACHE_TLS"); parseBool(v) {
		cfg.Cache.TLS = true
	}
	if v := os.Getenv("ENGINEWATCH_CACHE_ALERT_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.AlertTTL = d
		}
	}
}

func setFloat(dst *float64, v string) {
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		*dst = f
	}
}

func parseBool(v string) bool {
	return strings.EqualFold(v, "true") || v == "1"
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
