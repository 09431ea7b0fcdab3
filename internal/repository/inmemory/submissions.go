package inmemory

import (
	"context"

	"github.com/google/uuid"

	"volunteerHub/internal/models/task"
	repo "volunteerHub/internal/repository"
)

// UpsertSubmission inserts the submission or overwrites the text and status of the
// existing one for the same task and volunteer. The argument is filled with the
// stored id and timestamps.
func (s *Storage) UpsertSubmission(ctx context.Context, sub *task.Submission) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.tasks[sub.TaskID]; !ok {
		return repo.ErrNotFound
	}
	if _, ok := s.volunteers[sub.VolunteerID]; !ok {
		return repo.ErrNotFound
	}

	now := s.now()
	key := submissionKey{taskID: sub.TaskID, volunteerID: sub.VolunteerID}

	existing, ok := s.submissions[key]
	if !ok {
		stored := *sub
		stored.CreatedAt = now
		stored.UpdatedAt = now
		s.submissions[key] = &stored
		*sub = stored
		return nil
	}

	existing.Text = sub.Text
	existing.Status = sub.Status
	existing.UpdatedAt = now
	*sub = *existing
	return nil
}

func (s *Storage) ListSubmissionsByVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]*task.Submission, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Submission{}
	for key, sub := range s.submissions {
		if key.volunteerID != volunteerID {
			continue
		}
		stored := *sub
		res = append(res, &stored)
	}
	return res, nil
}
