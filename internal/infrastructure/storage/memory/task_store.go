// Package memory holds session state in process memory. Tasks are stored in
// a map for lookup and a slice that preserves insertion order for listing.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"goalhk/internal/application/port/output"
	"goalhk/internal/domain/entity"
)

var _ output.TaskRepository = (*TaskStore)(nil)

type TaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*entity.Task
	order []string
}

func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[string]*entity.Task),
	}
}

// Save stores a copy of task, so later mutations by the caller are not visible
// until the next Save.
func (s *TaskStore) Save(ctx context.Context, task *entity.Task) error {
	if task == nil || task.ID == "" {
		return fmt.Errorf("task id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := task.Clone()
	c.UpdatedAt = time.Now()
	if _, ok := s.tasks[task.ID]; !ok {
		s.order = append(s.order, task.ID)
	}
	s.tasks[task.ID] = c
	return nil
}

func (s *TaskStore) Get(ctx context.Context, id string) (*entity.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, output.ErrNotFound)
	}
	return t.Clone(), nil
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return fmt.Errorf("task %s: %w", id, output.ErrNotFound)
	}
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *TaskStore) List(ctx context.Context) ([]*entity.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*entity.Task, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.tasks[id].Clone())
	}
	return result, nil
}
