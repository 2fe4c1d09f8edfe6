package output

import (
	"context"
	"errors"

	"goalhk/internal/domain/entity"
)

var ErrNotFound = errors.New("not found")

// TaskRepository keeps session tasks. Implementations hand out copies, so a
// caller mutating a returned task must Save it back.
type TaskRepository interface {
	Save(ctx context.Context, task *entity.Task) error
	Get(ctx context.Context, id string) (*entity.Task, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Task, error)
}

type JobRepository interface {
	List(ctx context.Context) ([]entity.JobItem, error)
	Get(ctx context.Context, id string) (*entity.JobItem, error)
	Save(ctx context.Context, job entity.JobItem) error
	Delete(ctx context.Context, id string) error
	Close() error
}

type ReviewRepository interface {
	Add(ctx context.Context, review entity.Review) error
	ByProvider(ctx context.Context, providerID string) ([]entity.Review, error)
}
