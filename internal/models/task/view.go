package task

import "github.com/google/uuid"

// View is a task as one volunteer sees it: the stored task plus a status derived
// from that volunteer's submission.
type View struct {
	Task          *Task
	DerivedStatus Status
	Submission    *string
}

// Reconcile joins tasks with one volunteer's submissions. Task order is preserved
// and the tasks themselves are left untouched.
func Reconcile(tasks []*Task, submissions []*Submission) []View {
	byTask := make(map[uuid.UUID]*Submission, len(submissions))
	for _, s := range submissions {
		byTask[s.TaskID] = s
	}

	views := make([]View, 0, len(tasks))
	for _, t := range tasks {
		view := View{Task: t, DerivedStatus: StatusPending}
		if s, ok := byTask[t.UUID]; ok {
			text := s.Text
			view.DerivedStatus = s.Status
			view.Submission = &text
		}
		views = append(views, view)
	}
	return views
}
