package input

import (
	"context"

	"goalhk/internal/domain/entity"
)

type JobActionResult struct {
	JobID   string `json:"jobId"`
	Message string `json:"message"`
}

type JobBoard interface {
	List(ctx context.Context) ([]entity.JobItem, error)
	Post(ctx context.Context, job entity.JobItem) (*entity.JobItem, error)
	Accept(ctx context.Context, jobID string) (*JobActionResult, error)
	Bid(ctx context.Context, jobID string, amount int) (*JobActionResult, error)
}
