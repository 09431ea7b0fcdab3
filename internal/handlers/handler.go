package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"volunteerHub/internal/logger"
	"volunteerHub/internal/middleware"
	"volunteerHub/internal/models/feed"
	"volunteerHub/internal/models/task"
	"volunteerHub/internal/models/volunteer"
	"volunteerHub/internal/service"
)

type VolunteerService interface {
	Register(ctx context.Context, in service.RegisterInput) (uuid.UUID, error)
	Login(ctx context.Context, email, password string) (*volunteer.Volunteer, string, error)
	ListVolunteers(ctx context.Context) ([]*volunteer.Volunteer, error)
}

type TaskService interface {
	CreateTask(ctx context.Context, caller volunteer.Caller, in service.CreateTaskInput) (uuid.UUID, error)
	ListTasks(ctx context.Context) ([]*task.Task, error)
	MyTasks(ctx context.Context, caller volunteer.Caller) ([]task.View, error)
	Submit(ctx context.Context, caller volunteer.Caller, taskID, text string) error
}

type FeedService interface {
	Feed(ctx context.Context) ([]feed.PostWithComments, error)
	CreatePost(ctx context.Context, caller volunteer.Caller, in service.CreatePostInput) (uuid.UUID, error)
	ToggleLike(ctx context.Context, caller volunteer.Caller, postID string) (feed.LikeResult, error)
	AddComment(ctx context.Context, caller volunteer.Caller, postID, text string) error
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Handler struct {
	VolunteerService VolunteerService
	TaskService      TaskService
	FeedService      FeedService
	Health           HealthChecker
}

func NewHandler(volunteers VolunteerService, tasks TaskService, feed FeedService, health HealthChecker) *Handler {
	return &Handler{
		VolunteerService: volunteers,
		TaskService:      tasks,
		FeedService:      feed,
		Health:           health,
	}
}

// caller returns the identity attached by the authorization middleware. A route
// mounted without it answers 401.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (volunteer.Caller, bool) {
	c, ok := middleware.CallerFrom(r.Context())
	if !ok {
		logger.Warn("HTTP: no caller on authenticated route", zap.String("path", r.URL.Path))
		RespondError(w, r, service.NewUnauthenticated("authentication required", nil))
		return volunteer.Caller{}, false
	}
	return c, true
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.Health.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: health check failed", err)
		responseWithError(w, http.StatusServiceUnavailable, codeUnavailable, "storage unavailable")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("status", "ok"))
}
