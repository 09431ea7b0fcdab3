package task

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type Task struct {
	UUID        uuid.UUID   `json:"id" db:"uuid"`
	Title       string      `json:"title" db:"title"`
	Description string      `json:"description" db:"description"`
	Domain      string      `json:"domain" db:"domain"`
	AssignedTo  []uuid.UUID `json:"assignedTo" db:"assigned_to"`
	DueDate     time.Time   `json:"dueDate" db:"due_date"`
	Status      Status      `json:"status" db:"status"`
	CreatedBy   uuid.UUID   `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt   *time.Time  `json:"updatedAt,omitempty" db:"updated_at,omitempty"`
}

type Status string

const StatusPending Status = "pending"
const StatusSubmitted Status = "submitted"

// StatusCompleted is reserved for a review step; nothing sets it yet.
const StatusCompleted Status = "completed"

func (t *Task) IsAssignedTo(volunteerID uuid.UUID) bool {
	return slices.Contains(t.AssignedTo, volunteerID)
}

// IsVisibleTo reports whether the volunteer is explicitly assigned or shares the task's domain.
func (t *Task) IsVisibleTo(volunteerID uuid.UUID, domains []string) bool {
	return t.IsAssignedTo(volunteerID) || slices.Contains(domains, t.Domain)
}
