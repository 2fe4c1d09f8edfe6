package di

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"goalhk/internal/adapter/httpapi"
	"goalhk/internal/application/port/output"
	"goalhk/internal/config"
	"goalhk/internal/infrastructure/llm/gemini"
	"goalhk/internal/infrastructure/llm/langchain"
	"goalhk/internal/infrastructure/llm/openrouter"
	"goalhk/internal/infrastructure/logger"
	"goalhk/internal/infrastructure/simulation"
	"goalhk/internal/infrastructure/storage/memory"
	"goalhk/internal/infrastructure/storage/sqlstore"
	"goalhk/internal/usecase/assistant"
	"goalhk/internal/usecase/bidding"
	"goalhk/internal/usecase/catalog"
	"goalhk/internal/usecase/crm"
	"goalhk/internal/usecase/jobboard"
	"goalhk/internal/usecase/marketplace"
	"goalhk/internal/usecase/matching"
	"goalhk/internal/usecase/quoting"
)

type Container struct {
	Config *config.Config
	Logger output.LoggerPort
	// LLM is nil when no provider is configured.
	LLM  output.LLMPort
	Jobs output.JobRepository

	Analyzer    *assistant.Analyzer
	Marketplace *marketplace.Service
	JobBoard    *jobboard.Board
	CRM         *crm.Service
	Catalog     *catalog.Catalog
	HTTP        *httpapi.Handler
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Format = cfg.Logging.Format
	logCfg.FileName = cfg.Logging.File
	log, err := logger.NewLoggerAdapter(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	c := &Container{Config: cfg, Logger: log}

	c.LLM, err = newLLM(ctx, cfg.LLM, log)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create llm: %w", err)
	}

	c.Jobs, err = newJobStore(ctx, cfg.Store)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to open job store: %w", err)
	}

	tasks := memory.NewTaskStore()

	analyzerCfg := assistant.DefaultConfig()
	analyzerCfg.Timeout = cfg.LLM.Timeout
	c.Analyzer = assistant.New(c.LLM, log.WithField("component", "assistant"), analyzerCfg)

	c.Marketplace = marketplace.New(marketplace.Deps{
		Analyzer: c.Analyzer,
		Matcher:  matching.New(rand.New(rand.NewSource(time.Now().UnixNano()))),
		Quotes:   quoting.New(),
		Bids: bidding.NewCollector(
			simulation.DefaultBidSources(cfg.Sim.BidLatency),
			cfg.Sim.BidTimeout,
			log.WithField("component", "bidding"),
		),
		Payments: simulation.NewPaymentGateway(cfg.Sim.PaymentDelay),
		Tasks:    tasks,
		Reviews:  memory.NewReviewStore(),
		Logger:   log.WithField("component", "marketplace"),
	})

	c.JobBoard = jobboard.New(c.Jobs, log.WithField("component", "jobboard"))
	if cfg.Store.SeedJobs {
		if err := c.JobBoard.Seed(ctx); err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to seed jobs: %w", err)
		}
	}

	c.CRM = crm.New(tasks, log.WithField("component", "crm"))
	c.Catalog = catalog.New()
	c.HTTP = httpapi.NewHandler(c.Marketplace, c.JobBoard, c.CRM, c.Catalog, log.WithField("component", "http"))

	llmName := "none"
	if c.LLM != nil {
		llmName = c.LLM.Name()
	}
	log.Info("Container ready", "llm", llmName, "job_store", cfg.Store.Jobs)

	return c, nil
}

func newLLM(ctx context.Context, cfg config.LLMConfig, log output.LoggerPort) (output.LLMPort, error) {
	switch cfg.Provider {
	case config.LLMOpenRouter:
		orCfg := openrouter.DefaultConfig(cfg.APIKey, cfg.Model)
		if cfg.BaseURL != "" {
			orCfg.BaseURL = cfg.BaseURL
		}
		if cfg.LogRequests {
			orCfg.Logger = log.WithField("component", "openrouter")
		}
		return openrouter.NewOpenRouterAdapter(orCfg), nil
	case config.LLMGemini:
		gCfg := gemini.DefaultConfig(cfg.APIKey)
		if cfg.Model != "" {
			gCfg.Model = cfg.Model
		}
		llm, err := gemini.NewGeminiAdapter(ctx, gCfg)
		if err != nil {
			return nil, err
		}
		return llm, nil
	case config.LLMLangChain:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = openrouter.DefaultConfig("", "").BaseURL
		}
		llm, err := langchain.NewLangChainAdapter(langchain.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: baseURL,
		})
		if err != nil {
			return nil, err
		}
		return llm, nil
	case config.LLMNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func newJobStore(ctx context.Context, cfg config.StoreConfig) (output.JobRepository, error) {
	var (
		store *sqlstore.JobStore
		err   error
	)
	switch cfg.Jobs {
	case config.StoreSQLite:
		store, err = sqlstore.OpenSQLite(ctx, cfg.SQLitePath)
	case config.StorePostgres:
		store, err = sqlstore.OpenPostgres(ctx, cfg.PostgresDSN)
	default:
		return memory.NewJobStore(), nil
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

func (c *Container) Close() {
	if c.Marketplace != nil {
		c.Marketplace.Close()
	}
	if c.Jobs != nil {
		if err := c.Jobs.Close(); err != nil && c.Logger != nil {
			c.Logger.Warn("Failed to close job store", "error", err)
		}
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}
