package output

import (
	"context"

	"goalhk/internal/domain/entity"
)

// BidSource is one provider channel a bidding request is broadcast to.
type BidSource interface {
	Name() string
	Quote(ctx context.Context, task *entity.Task) (*entity.Quote, error)
}
