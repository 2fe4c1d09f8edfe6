package input

import (
	"context"

	"goalhk/internal/domain/entity"
)

type Analysis struct {
	Description string               `json:"description"`
	Scenario    string               `json:"scenario"`
	Category    string               `json:"category"`
	Message     string               `json:"message"`
	Modes       []entity.ServiceMode `json:"modes"`
	Steps       []entity.TaskStep    `json:"steps"`
}

type Analyzer interface {
	Analyze(ctx context.Context, input string) (*Analysis, error)
}
