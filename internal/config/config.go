// Package config assembles the service configuration from built-in defaults,
// an optional YAML file and environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"goalhk/internal/application/port/output"
)

const (
	LLMNone       = "none"
	LLMOpenRouter = "openrouter"
	LLMGemini     = "gemini"
	LLMLangChain  = "langchain"

	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	LLM     LLMConfig     `yaml:"llm"`
	Store   StoreConfig   `yaml:"store"`
	Sim     SimConfig     `yaml:"simulation"`
	Logging LoggingConfig `yaml:"logging"`
}

type HTTPConfig struct {
	Addr           string        `yaml:"addr"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type LLMConfig struct {
	Provider    string        `yaml:"provider"`
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	LogRequests bool          `yaml:"log_requests"`
}

type StoreConfig struct {
	Jobs        string `yaml:"jobs"`
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
	SeedJobs    bool   `yaml:"seed_jobs"`
}

type SimConfig struct {
	BidLatency   time.Duration `yaml:"bid_latency"`
	BidTimeout   time.Duration `yaml:"bid_timeout"`
	PaymentDelay time.Duration `yaml:"payment_delay"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:           ":8080",
			RequestTimeout: 30 * time.Second,
		},
		LLM: LLMConfig{
			Provider: LLMNone,
			Timeout:  15 * time.Second,
		},
		Store: StoreConfig{
			Jobs:       StoreMemory,
			SQLitePath: "data/goalhk.db",
			SeedJobs:   true,
		},
		Sim: SimConfig{
			BidLatency:   4 * time.Second,
			BidTimeout:   10 * time.Second,
			PaymentDelay: 2 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds a Config. path may be empty; a named file that does not exist
// is an error.
func Load(path string, env output.ConfigPort) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if env != nil {
		applyEnv(&cfg, env)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config, env output.ConfigPort) {
	cfg.HTTP.Addr = env.GetWithDefault("HTTP_ADDR", cfg.HTTP.Addr)
	cfg.HTTP.RequestTimeout = env.GetDuration("HTTP_REQUEST_TIMEOUT", cfg.HTTP.RequestTimeout)

	cfg.LLM.Provider = strings.ToLower(env.GetWithDefault("LLM_PROVIDER", cfg.LLM.Provider))
	cfg.LLM.Timeout = env.GetDuration("LLM_TIMEOUT", cfg.LLM.Timeout)
	cfg.LLM.BaseURL = env.GetWithDefault("LLM_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.LogRequests = env.GetBool("LLM_LOG_REQUESTS", cfg.LLM.LogRequests)
	switch cfg.LLM.Provider {
	case LLMOpenRouter, LLMLangChain:
		cfg.LLM.APIKey = env.GetWithDefault("OPENROUTER_API_KEY", cfg.LLM.APIKey)
		cfg.LLM.Model = env.GetWithDefault("OPENROUTER_MODEL_NAME", cfg.LLM.Model)
	case LLMGemini:
		cfg.LLM.APIKey = env.GetWithDefault("API_KEY", cfg.LLM.APIKey)
		cfg.LLM.APIKey = env.GetWithDefault("GEMINI_API_KEY", cfg.LLM.APIKey)
		cfg.LLM.Model = env.GetWithDefault("GEMINI_MODEL", cfg.LLM.Model)
	}

	cfg.Store.Jobs = strings.ToLower(env.GetWithDefault("JOB_STORE", cfg.Store.Jobs))
	cfg.Store.SQLitePath = env.GetWithDefault("SQLITE_PATH", cfg.Store.SQLitePath)
	cfg.Store.PostgresDSN = env.GetWithDefault("POSTGRES_DSN", cfg.Store.PostgresDSN)
	cfg.Store.SeedJobs = env.GetBool("SEED_JOBS", cfg.Store.SeedJobs)

	cfg.Sim.BidLatency = env.GetDuration("BID_LATENCY", cfg.Sim.BidLatency)
	cfg.Sim.BidTimeout = env.GetDuration("BID_TIMEOUT", cfg.Sim.BidTimeout)
	cfg.Sim.PaymentDelay = env.GetDuration("PAYMENT_DELAY", cfg.Sim.PaymentDelay)

	cfg.Logging.Level = env.GetWithDefault("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = env.GetWithDefault("LOG_FORMAT", cfg.Logging.Format)
	cfg.Logging.File = env.GetWithDefault("LOG_FILE", cfg.Logging.File)
}

func (c *Config) Validate() error {
	var errs []error

	switch c.LLM.Provider {
	case LLMNone:
	case LLMOpenRouter, LLMGemini, LLMLangChain:
		if c.LLM.APIKey == "" {
			errs = append(errs, fmt.Errorf("llm provider %q requires an api key", c.LLM.Provider))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown llm provider %q", c.LLM.Provider))
	}

	switch c.Store.Jobs {
	case StoreMemory:
	case StoreSQLite:
		if c.Store.SQLitePath == "" {
			errs = append(errs, errors.New("sqlite job store requires sqlite_path"))
		}
	case StorePostgres:
		if c.Store.PostgresDSN == "" {
			errs = append(errs, errors.New("postgres job store requires postgres_dsn"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown job store %q", c.Store.Jobs))
	}

	if c.Sim.BidTimeout <= 0 {
		errs = append(errs, errors.New("bid timeout must be positive"))
	}
	if c.LLM.Timeout <= 0 {
		errs = append(errs, errors.New("llm timeout must be positive"))
	}

	return errors.Join(errs...)
}
