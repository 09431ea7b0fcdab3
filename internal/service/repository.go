package service

import (
	"context"

	"github.com/google/uuid"

	"volunteerHub/internal/models/feed"
	"volunteerHub/internal/models/task"
	"volunteerHub/internal/models/volunteer"
)

type VolunteerRepository interface {
	CreateVolunteer(context.Context, *volunteer.Volunteer) error
	GetVolunteerByID(context.Context, uuid.UUID) (*volunteer.Volunteer, error)
	GetVolunteerByEmail(context.Context, string) (*volunteer.Volunteer, error)
	ListVolunteers(context.Context) ([]*volunteer.Volunteer, error)
	ListVolunteersInDomain(context.Context, string, volunteer.Role) ([]*volunteer.Volunteer, error)
	FindVolunteerIDs(context.Context, []uuid.UUID) ([]uuid.UUID, error)
}

type TaskRepository interface {
	CreateTask(context.Context, *task.Task) error
	GetTaskByID(context.Context, uuid.UUID) (*task.Task, error)
	ListTasks(context.Context) ([]*task.Task, error)
	ListTasksVisibleTo(context.Context, uuid.UUID, []string) ([]*task.Task, error)
}

type SubmissionRepository interface {
	UpsertSubmission(context.Context, *task.Submission) error
	ListSubmissionsByVolunteer(context.Context, uuid.UUID) ([]*task.Submission, error)
}

type FeedRepository interface {
	CreatePost(context.Context, *feed.Post) error
	GetPostByID(context.Context, uuid.UUID) (*feed.Post, error)
	ListPosts(context.Context) ([]*feed.Post, error)
	CreateComment(context.Context, *feed.Comment) error
	ListComments(context.Context, uuid.UUID) ([]*feed.Comment, error)
	ToggleLike(ctx context.Context, postID, volunteerID uuid.UUID) (feed.LikeResult, error)
	RecountLikes(context.Context) (int, error)
}

// Repository is everything a storage backend provides.
type Repository interface {
	VolunteerRepository
	TaskRepository
	SubmissionRepository
	FeedRepository
	HealthCheck(context.Context) error
	Close()
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

type TokenIssuer interface {
	Issue(subject uuid.UUID) (string, error)
	Verify(token string) (uuid.UUID, error)
}
