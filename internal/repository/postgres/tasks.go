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

const taskColumns = `uuid, title, description, domain, assigned_to, due_date, status,
	created_by, created_at, updated_at`

func scanTask(row pgx.Row) (*task.Task, error) {
	t := &task.Task{}
	err := row.Scan(
		&t.UUID,
		&t.Title,
		&t.Description,
		&t.Domain,
		&t.AssignedTo,
		&t.DueDate,
		&t.Status,
		&t.CreatedBy,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Storage) CreateTask(ctx context.Context, t *task.Task) error {
	start := time.Now()
	defer warnIfSlow("create_task", start)

	assignedTo := t.AssignedTo
	if assignedTo == nil {
		assignedTo = []uuid.UUID{}
	}

	query := `INSERT INTO tasks
				(uuid, title, description, domain, assigned_to, due_date, status, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING created_at`

	err := s.pool.QueryRow(ctx, query,
		t.UUID,
		t.Title,
		t.Description,
		t.Domain,
		assignedTo,
		t.DueDate,
		t.Status,
		t.CreatedBy,
	).Scan(&t.CreatedAt)
	if err != nil {
		err = mapError(err)
		logger.Error("Repository: failed to insert task", err)
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE uuid = $1`

	t, err := scanTask(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, mapError(err))
	}
	return t, nil
}

func (s *Storage) ListTasks(ctx context.Context) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at DESC`
	return s.queryTasks(ctx, "list_tasks", query)
}

func (s *Storage) ListTasksVisibleTo(ctx context.Context, volunteerID uuid.UUID, domains []string) ([]*task.Task, error) {
	if domains == nil {
		domains = []string{}
	}
	query := `SELECT ` + taskColumns + `
			FROM tasks
			WHERE $1 = ANY(assigned_to) OR domain = ANY($2)
			ORDER BY created_at DESC`
	return s.queryTasks(ctx, "list_tasks_visible_to", query, volunteerID, domains)
}

func (s *Storage) queryTasks(ctx context.Context, operation, query string, args ...any) ([]*task.Task, error) {
	start := time.Now()
	defer warnIfSlow(operation, start)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: failed to query tasks", err)
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}
