package memory

import (
	"context"
	"sync"

	"goalhk/internal/application/port/output"
	"goalhk/internal/domain/entity"
)

var _ output.ReviewRepository = (*ReviewStore)(nil)

type ReviewStore struct {
	mu      sync.Mutex
	reviews []entity.Review
}

func NewReviewStore() *ReviewStore {
	return &ReviewStore{}
}

func (s *ReviewStore) Add(ctx context.Context, review entity.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews = append(s.reviews, review)
	return nil
}

func (s *ReviewStore) ByProvider(ctx context.Context, providerID string) ([]entity.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []entity.Review
	for _, r := range s.reviews {
		if r.ProviderID == providerID {
			result = append(result, r)
		}
	}
	return result, nil
}
