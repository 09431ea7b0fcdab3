package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"volunteerHub/internal/logger"
	"volunteerHub/internal/models/task"
)

// UpsertSubmission relies on the (task_id, volunteer_id) unique constraint, so two
// concurrent submissions for the same pair end up as one row.
func (s *Storage) UpsertSubmission(ctx context.Context, sub *task.Submission) error {
	start := time.Now()
	defer warnIfSlow("upsert_submission", start)

	query := `INSERT INTO submissions
				(uuid, task_id, volunteer_id, text, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			ON CONFLICT (task_id, volunteer_id) DO UPDATE
				SET text = EXCLUDED.text,
					status = EXCLUDED.status,
					updated_at = NOW()
			RETURNING uuid, created_at, updated_at`

	err := s.pool.QueryRow(ctx, query,
		sub.UUID,
		sub.TaskID,
		sub.VolunteerID,
		sub.Text,
		sub.Status,
	).Scan(&sub.UUID, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		err = mapError(err)
		logger.Error("Repository: failed to upsert submission", err)
		return fmt.Errorf("upsert submission: %w", err)
	}
	return nil
}

func (s *Storage) ListSubmissionsByVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]*task.Submission, error) {
	query := `SELECT uuid, task_id, volunteer_id, text, status, created_at, updated_at
			FROM submissions
			WHERE volunteer_id = $1`

	rows, err := s.pool.Query(ctx, query, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	subs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*task.Submission, error) {
		sub := &task.Submission{}
		err := row.Scan(&sub.UUID, &sub.TaskID, &sub.VolunteerID, &sub.Text, &sub.Status, &sub.CreatedAt, &sub.UpdatedAt)
		return sub, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect submissions: %w", err)
	}
	return subs, nil
}
