package task

import (
	"time"

	"github.com/google/uuid"
)

// Submission is a volunteer's report for one task. There is at most one per (TaskID, VolunteerID).
type Submission struct {
	UUID        uuid.UUID `json:"id" db:"uuid"`
	TaskID      uuid.UUID `json:"taskId" db:"task_id"`
	VolunteerID uuid.UUID `json:"volunteerId" db:"volunteer_id"`
	Text        string    `json:"text" db:"text"`
	Status      Status    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
