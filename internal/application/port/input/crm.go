package input

import (
	"context"

	"goalhk/internal/domain/entity"
)

type QuoteBuilderState struct {
	History []entity.ChatMessage `json:"history"`
	Draft   []entity.QuoteItem   `json:"draft"`
	Total   int                  `json:"total"`
}

type BuilderReply struct {
	Item  entity.QuoteItem   `json:"item"`
	Reply entity.ChatMessage `json:"reply"`
	State QuoteBuilderState  `json:"state"`
}

type CRM interface {
	Dashboard(ctx context.Context) (*entity.DashboardStats, error)
	BuilderState(ctx context.Context) QuoteBuilderState
	SendBuilderMessage(ctx context.Context, text string) (*BuilderReply, error)
	SubmitBuilderQuote(ctx context.Context, taskID string) (*entity.Quote, error)
}
