package langchain

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"goalhk/internal/application/port/output"
	"goalhk/internal/domain/entity"
)

var _ output.LLMPort = (*LangChainAdapter)(nil)

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// LangChainAdapter runs prompts through a langchaingo model, which lets the
// assistant target any OpenAI-compatible endpoint langchaingo supports.
type LangChainAdapter struct {
	model llms.Model
	name  string
}

func NewLangChainAdapter(cfg Config) (*LangChainAdapter, error) {
	opts := []openai.Option{openai.WithToken(cfg.APIKey)}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create langchain model: %w", err)
	}

	return NewWithModel(llm, cfg.Model), nil
}

func NewWithModel(model llms.Model, name string) *LangChainAdapter {
	return &LangChainAdapter{model: model, name: name}
}

func (a *LangChainAdapter) Name() string {
	return "langchain:" + a.name
}

func (a *LangChainAdapter) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	opts := []llms.CallOption{llms.WithTemperature(float64(req.Temperature))}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}

	resp, err := a.model.GenerateContent(ctx, convertMessages(req.Messages), opts...)
	if err != nil {
		return nil, fmt.Errorf("langchain generate failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	return &output.ChatResponse{
		Message: entity.Message{
			Role:    entity.RoleAssistant,
			Content: strings.TrimSpace(resp.Choices[0].Content),
		},
	}, nil
}

func convertMessages(messages []entity.Message) []llms.MessageContent {
	result := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		if strings.TrimSpace(msg.Content) == "" {
			continue
		}
		var role llms.ChatMessageType
		switch msg.Role {
		case entity.RoleSystem:
			role = llms.ChatMessageTypeSystem
		case entity.RoleAssistant:
			role = llms.ChatMessageTypeAI
		default:
			role = llms.ChatMessageTypeHuman
		}
		result = append(result, llms.TextParts(role, msg.Content))
	}
	return result
}
