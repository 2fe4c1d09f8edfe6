package output

import (
	"context"

	"goalhk/internal/domain/entity"
)

type UserInteractionPort interface {
	AskQuestion(ctx context.Context, question string) (string, error)
	Choose(ctx context.Context, question string, options []string) (int, error)

	ShowTask(ctx context.Context, task *entity.Task)
	ShowProviders(ctx context.Context, providers []entity.Provider)
	ShowQuote(ctx context.Context, quote *entity.Quote)
	ShowToast(ctx context.Context, message string)
	ShowError(ctx context.Context, err error)
}
