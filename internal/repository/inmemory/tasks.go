package inmemory

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"volunteerHub/internal/models/task"
	repo "volunteerHub/internal/repository"
)

func copyTask(t *task.Task) *task.Task {
	out := *t
	out.AssignedTo = slices.Clone(t.AssignedTo)
	return &out
}

func (s *Storage) CreateTask(ctx context.Context, toCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, exists := s.tasks[toCreate.UUID]; exists {
		return repo.ErrDuplicate
	}

	toCreate.CreatedAt = s.now()
	s.tasks[toCreate.UUID] = copyTask(toCreate)
	s.taskIDs = append(s.taskIDs, toCreate.UUID)
	return nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return copyTask(t), nil
}

func (s *Storage) ListTasks(ctx context.Context) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*task.Task, 0, len(s.taskIDs))
	for i := len(s.taskIDs) - 1; i >= 0; i-- {
		res = append(res, copyTask(s.tasks[s.taskIDs[i]]))
	}
	return res, nil
}

func (s *Storage) ListTasksVisibleTo(ctx context.Context, volunteerID uuid.UUID, domains []string) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}
	for i := len(s.taskIDs) - 1; i >= 0; i-- {
		t := s.tasks[s.taskIDs[i]]
		if t.IsVisibleTo(volunteerID, domains) {
			res = append(res, copyTask(t))
		}
	}
	return res, nil
}
