package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"volunteerHub/internal/logger"
	"volunteerHub/internal/models/task"
	"volunteerHub/internal/models/volunteer"
	repo "volunteerHub/internal/repository"
)

const AssignAll = "all"
const AssignSpecific = "specific"

var dueDateLayouts = []string{"2006-01-02", time.RFC3339}

type CreateTaskInput struct {
	Title        string
	Description  string
	Domain       string
	AssignTo     string
	VolunteerIDs []string
	DueDate      string
}

type TaskRepositories interface {
	VolunteerRepository
	TaskRepository
	SubmissionRepository
}

type TaskService struct {
	repo    TaskRepositories
	catalog *volunteer.Catalog
}

func NewTaskService(repo TaskRepositories, catalog *volunteer.Catalog) *TaskService {
	return &TaskService{
		repo:    repo,
		catalog: catalog,
	}
}

func parseDueDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dueDateLayouts {
		if due, err := time.Parse(layout, raw); err == nil {
			return due, nil
		}
	}
	return time.Time{}, NewValidationError("dueDate", "expected YYYY-MM-DD or RFC 3339 date")
}

// CreateTask validates the input, resolves the assignee set and stores a pending task.
func (s *TaskService) CreateTask(ctx context.Context, caller volunteer.Caller, in CreateTaskInput) (uuid.UUID, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	domain := strings.TrimSpace(in.Domain)

	switch {
	case title == "":
		return uuid.Nil, NewValidationError("title", "must not be empty")
	case description == "":
		return uuid.Nil, NewValidationError("description", "must not be empty")
	case domain == "":
		return uuid.Nil, NewValidationError("domain", "must not be empty")
	case strings.TrimSpace(in.DueDate) == "":
		return uuid.Nil, NewValidationError("dueDate", "must not be empty")
	}

	if !s.catalog.Contains(domain) {
		return uuid.Nil, NewValidationError("domain", fmt.Sprintf("unknown domain %q", domain))
	}

	due, err := parseDueDate(in.DueDate)
	if err != nil {
		return uuid.Nil, err
	}

	assignees, err := s.resolveAssignees(ctx, domain, in.AssignTo, in.VolunteerIDs)
	if err != nil {
		return uuid.Nil, err
	}

	t := &task.Task{
		UUID:        uuid.New(),
		Title:       title,
		Description: description,
		Domain:      domain,
		AssignedTo:  assignees,
		DueDate:     due,
		Status:      task.StatusPending,
		CreatedBy:   caller.UUID,
	}
	if err := s.repo.CreateTask(ctx, t); err != nil {
		return uuid.Nil, fmt.Errorf("create task: %w", err)
	}

	logger.Info("Service: task created",
		zap.String("task_id", t.UUID.String()),
		zap.String("domain", domain),
		zap.Int("assignees", len(assignees)))
	return t.UUID, nil
}

func (s *TaskService) resolveAssignees(ctx context.Context, domain, mode string, rawIDs []string) ([]uuid.UUID, error) {
	switch strings.TrimSpace(mode) {
	case "", AssignAll:
		members, err := s.repo.ListVolunteersInDomain(ctx, domain, volunteer.RoleVolunteer)
		if err != nil {
			return nil, fmt.Errorf("list domain volunteers: %w", err)
		}
		ids := make([]uuid.UUID, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.UUID)
		}
		return ids, nil

	case AssignSpecific:
		return s.explicitAssignees(ctx, rawIDs)

	default:
		return nil, NewValidationError("assignTo", fmt.Sprintf("expected %q or %q", AssignAll, AssignSpecific))
	}
}

func (s *TaskService) explicitAssignees(ctx context.Context, rawIDs []string) ([]uuid.UUID, error) {
	if len(rawIDs) == 0 {
		return nil, NewValidationError("volunteerIds", "at least one volunteer is required")
	}

	ids := make([]uuid.UUID, 0, len(rawIDs))
	seen := make(map[uuid.UUID]struct{}, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, NewValidationError("volunteerIds", fmt.Sprintf("malformed id %q", raw))
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	found, err := s.repo.FindVolunteerIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find volunteers: %w", err)
	}
	existing := make(map[uuid.UUID]struct{}, len(found))
	for _, id := range found {
		existing[id] = struct{}{}
	}

	var unknown []string
	for _, id := range ids {
		if _, ok := existing[id]; !ok {
			unknown = append(unknown, id.String())
		}
	}
	if len(unknown) > 0 {
		return nil, NewBusinessError(CodeValidation,
			"unknown volunteer ids",
			ToDetail("field", "volunteerIds"),
			ToDetail("unknown", unknown),
		)
	}
	return ids, nil
}

func (s *TaskService) ListTasks(ctx context.Context) ([]*task.Task, error) {
	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// MyTasks returns every task visible to the caller with the status derived from
// the caller's own submission, newest first.
func (s *TaskService) MyTasks(ctx context.Context, caller volunteer.Caller) ([]task.View, error) {
	tasks, err := s.repo.ListTasksVisibleTo(ctx, caller.UUID, caller.Domains)
	if err != nil {
		return nil, fmt.Errorf("list visible tasks: %w", err)
	}

	submissions, err := s.repo.ListSubmissionsByVolunteer(ctx, caller.UUID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	return task.Reconcile(tasks, submissions), nil
}

// Submit stores or overwrites the caller's report for a task.
func (s *TaskService) Submit(ctx context.Context, caller volunteer.Caller, rawTaskID, text string) error {
	if strings.TrimSpace(rawTaskID) == "" {
		return NewValidationError("taskId", "must not be empty")
	}
	if strings.TrimSpace(text) == "" {
		return NewValidationError("submission", "must not be empty")
	}

	taskID, err := uuid.Parse(strings.TrimSpace(rawTaskID))
	if err != nil {
		return NewValidationError("taskId", "malformed id")
	}

	if _, err := s.repo.GetTaskByID(ctx, taskID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewValidationError("taskId", "unknown task")
		}
		return fmt.Errorf("load task: %w", err)
	}

	sub := &task.Submission{
		UUID:        uuid.New(),
		TaskID:      taskID,
		VolunteerID: caller.UUID,
		Text:        text,
		Status:      task.StatusSubmitted,
	}
	if err := s.repo.UpsertSubmission(ctx, sub); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewValidationError("taskId", "unknown task")
		}
		return fmt.Errorf("upsert submission: %w", err)
	}

	logger.Info("Service: task submitted",
		zap.String("task_id", taskID.String()),
		zap.String("volunteer_id", caller.UUID.String()),
		zap.String("submission_id", sub.UUID.String()))
	return nil
}
