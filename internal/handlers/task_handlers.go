package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"volunteerHub/internal/handlers/dto"
	"volunteerHub/internal/logger"
	"volunteerHub/internal/models/task"
	"volunteerHub/internal/service"
)

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var request dto.CreateTaskRequest
	if !decodeBody(w, r, &request) {
		return
	}

	id, err := h.TaskService.CreateTask(r.Context(), caller, service.CreateTaskInput{
		Title:        request.Title,
		Description:  request.Description,
		Domain:       request.Domain,
		AssignTo:     request.AssignTo,
		VolunteerIDs: request.VolunteerIDs,
		DueDate:      request.DueDate,
	})
	if err != nil {
		RespondError(w, r, err)
		return
	}

	logger.Info("HTTP_OUT: task created",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, dto.CreateTaskResponse{
		Message: "Task created successfully",
		TaskID:  id,
	})
}

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.TaskService.ListTasks(r.Context())
	if err != nil {
		RespondError(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []*task.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *Handler) MyTasks(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	views, err := h.TaskService.MyTasks(r.Context(), caller)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromViews(views))
}

func (h *Handler) SubmitTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var request dto.SubmitTaskRequest
	if !decodeBody(w, r, &request) {
		return
	}

	if err := h.TaskService.Submit(r.Context(), caller, request.TaskID, request.Submission); err != nil {
		RespondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Task submitted successfully"})
}
