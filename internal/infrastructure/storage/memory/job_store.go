package memory

import (
	"context"
	"fmt"
	"sync"

	"goalhk/internal/application/port/output"
	"goalhk/internal/domain/entity"
)

var _ output.JobRepository = (*JobStore)(nil)

type JobStore struct {
	mu    sync.RWMutex
	jobs  map[string]entity.JobItem
	order []string
}

func NewJobStore(seed ...entity.JobItem) *JobStore {
	s := &JobStore{jobs: make(map[string]entity.JobItem)}
	for _, j := range seed {
		s.put(j)
	}
	return s
}

func (s *JobStore) put(job entity.JobItem) {
	if _, ok := s.jobs[job.ID]; !ok {
		s.order = append(s.order, job.ID)
	}
	s.jobs[job.ID] = job
}

func (s *JobStore) List(ctx context.Context) ([]entity.JobItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]entity.JobItem, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.jobs[id])
	}
	return result, nil
}

func (s *JobStore) Get(ctx context.Context, id string) (*entity.JobItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", id, output.ErrNotFound)
	}
	return &j, nil
}

func (s *JobStore) Save(ctx context.Context, job entity.JobItem) error {
	if job.ID == "" {
		return fmt.Errorf("job id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(job)
	return nil
}

func (s *JobStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return fmt.Errorf("job %s: %w", id, output.ErrNotFound)
	}
	delete(s.jobs, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *JobStore) Close() error {
	return nil
}
