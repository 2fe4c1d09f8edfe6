package input

import (
	"context"
	"time"

	"goalhk/internal/domain/entity"
)

// SubmitRequest starts a new task. A session holds at most one task, so
// submitting again under the same SessionID discards the previous one.
type SubmitRequest struct {
	SessionID   string
	Description string
	DueDate     *time.Time
}

type TaskView struct {
	Task      *entity.Task      `json:"task"`
	Providers []entity.Provider `json:"providers"`
}

type PaymentResult struct {
	Task    *entity.Task           `json:"task"`
	Receipt *entity.PaymentReceipt `json:"receipt"`
}

type ReviewRequest struct {
	Rating  int
	Comment string
}

// Marketplace drives one task from the first query to the submitted review.
type Marketplace interface {
	Submit(ctx context.Context, req SubmitRequest) (*TaskView, error)
	Get(ctx context.Context, taskID string) (*TaskView, error)
	Providers(ctx context.Context, taskID string) ([]entity.Provider, error)
	SelectMode(ctx context.Context, taskID, modeID string) (*TaskView, error)
	SelectProvider(ctx context.Context, taskID, providerID string) (*TaskView, error)
	SelectBid(ctx context.Context, taskID, bidID string) (*TaskView, error)
	Pay(ctx context.Context, taskID string, method entity.PaymentMethod) (*PaymentResult, error)
	Complete(ctx context.Context, taskID string) (*TaskView, error)
	Review(ctx context.Context, taskID string, req ReviewRequest) (*entity.Review, error)
	Clear(ctx context.Context, taskID string) error
}
