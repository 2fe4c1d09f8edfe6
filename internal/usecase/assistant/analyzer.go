package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"goalhk/internal/application/port/input"
	"goalhk/internal/application/port/output"
	"goalhk/internal/domain/entity"
	"goalhk/internal/domain/scenario"
	"goalhk/internal/domain/textnorm"
	"goalhk/internal/infrastructure/prompts"
)

var ErrEmptyInput = errors.New("empty request")

const (
	NoLLMMessage    = "收到。正在為您分析需求..."
	DefaultTimeout  = 15 * time.Second
	fallbackPattern = "明白，這是關於%s的請求。請選擇服務模式。"
)

var _ input.Analyzer = (*Analyzer)(nil)

type Config struct {
	Timeout     time.Duration
	Temperature float32
	MaxTokens   int
}

func DefaultConfig() Config {
	return Config{
		Timeout:     DefaultTimeout,
		Temperature: 0.7,
		MaxTokens:   256,
	}
}

// Analyzer classifies a free-text request and asks the LLM, if any, for a
// short acknowledgement. The reply is cosmetic: modes and steps always come
// from the scenario tables.
type Analyzer struct {
	llm    output.LLMPort
	logger output.LoggerPort
	cfg    Config
}

// New accepts a nil llm; analysis then uses the canned acknowledgement.
func New(llm output.LLMPort, logger output.LoggerPort, cfg Config) *Analyzer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Analyzer{llm: llm, logger: logger, cfg: cfg}
}

func (a *Analyzer) Analyze(ctx context.Context, text string) (*input.Analysis, error) {
	text = textnorm.Clean(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	key := scenario.Classify(text)
	data := scenario.Generate(key)

	a.logger.Debug("Request classified", "scenario", key, "category", data.Category)

	return &input.Analysis{
		Description: text,
		Scenario:    key.String(),
		Category:    data.Category,
		Message:     a.acknowledge(ctx, text, key, data),
		Modes:       data.Modes,
		Steps:       data.Steps,
	}, nil
}

func (a *Analyzer) acknowledge(ctx context.Context, text string, key scenario.Key, data scenario.Data) string {
	if a.llm == nil {
		return NoLLMMessage
	}
	fallback := fmt.Sprintf(fallbackPattern, data.Category)

	prompt, err := prompts.GenerateAnalysisPrompt(prompts.AnalysisPrompt, prompts.AnalysisPromptData{
		Input:    text,
		Scenario: key.String(),
		Category: data.Category,
		Modes:    data.Modes,
	})
	if err != nil {
		a.logger.Error("Failed to render analysis prompt", "error", err)
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := a.llm.Chat(ctx, output.ChatRequest{
		Messages: []entity.Message{
			{Role: entity.RoleSystem, Content: prompts.AssistantSystemPrompt},
			{Role: entity.RoleUser, Content: prompt},
		},
		Temperature: a.cfg.Temperature,
		MaxTokens:   a.cfg.MaxTokens,
	})
	if err != nil {
		a.logger.Warn("LLM acknowledgement failed, using fallback",
			"llm", a.llm.Name(),
			"error", err,
			"elapsed", time.Since(start).String(),
		)
		return fallback
	}

	reply := textnorm.PlainText(resp.Message.Content)
	if reply == "" {
		a.logger.Warn("LLM returned empty acknowledgement", "llm", a.llm.Name())
		return fallback
	}

	a.logger.Debug("LLM acknowledgement received", "llm", a.llm.Name(), "elapsed", time.Since(start).String())
	return reply
}
