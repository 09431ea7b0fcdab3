package dto

import (
	"github.com/google/uuid"

	"volunteerHub/internal/models/feed"
	"volunteerHub/internal/models/task"
	"volunteerHub/internal/models/volunteer"
)

type RegisterRequest struct {
	Name       string   `json:"name" validate:"required"`
	Email      string   `json:"email" validate:"required,email"`
	Phone      string   `json:"phone" validate:"required"`
	CNIC       string   `json:"cnic" validate:"required"`
	City       string   `json:"city" validate:"required"`
	Area       string   `json:"area" validate:"required"`
	University string   `json:"university"`
	Skills     string   `json:"skills"`
	Domains    []string `json:"domains" validate:"required,min=1,dive,required"`
	Password   string   `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateTaskRequest struct {
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	Domain       string   `json:"domain" validate:"required"`
	AssignTo     string   `json:"assignTo"`
	VolunteerIDs []string `json:"volunteerIds"`
	DueDate      string   `json:"dueDate" validate:"required"`
}

type SubmitTaskRequest struct {
	TaskID     string `json:"taskId" validate:"required"`
	Submission string `json:"submission" validate:"required"`
}

type CreatePostRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Area        string `json:"area"`
	City        string `json:"city"`
}

type LikeRequest struct {
	PostID string `json:"postId" validate:"required"`
}

type CommentRequest struct {
	PostID string `json:"postId" validate:"required"`
	Text   string `json:"text" validate:"required"`
}

type RegisterResponse struct {
	Message     string    `json:"message"`
	VolunteerID uuid.UUID `json:"volunteerId"`
}

type LoginResponse struct {
	Message string               `json:"message"`
	User    *volunteer.Volunteer `json:"user"`
	Token   string               `json:"token"`
}

type CreateTaskResponse struct {
	Message string    `json:"message"`
	TaskID  uuid.UUID `json:"taskId"`
}

type CreatePostResponse struct {
	Message string    `json:"message"`
	PostID  uuid.UUID `json:"postId"`
}

type LikeResponse struct {
	Message string `json:"message"`
	Liked   bool   `json:"liked"`
	Likes   int    `json:"likes"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// MyTaskResponse is a task plus the caller's own progress on it.
type MyTaskResponse struct {
	*task.Task
	DerivedStatus task.Status `json:"derivedStatus"`
	Submission    *string     `json:"submission"`
}

func FromViews(views []task.View) []MyTaskResponse {
	result := make([]MyTaskResponse, len(views))
	for i, v := range views {
		result[i] = MyTaskResponse{
			Task:          v.Task,
			DerivedStatus: v.DerivedStatus,
			Submission:    v.Submission,
		}
	}
	return result
}

type FeedPostResponse struct {
	*feed.Post
	Comments []*feed.Comment `json:"comments"`
}

func FromFeed(posts []feed.PostWithComments) []FeedPostResponse {
	result := make([]FeedPostResponse, len(posts))
	for i, p := range posts {
		comments := p.Comments
		if comments == nil {
			comments = []*feed.Comment{}
		}
		result[i] = FeedPostResponse{Post: p.Post, Comments: comments}
	}
	return result
}
