package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"volunteerHub/internal/handlers/dto"
	"volunteerHub/internal/logger"
	"volunteerHub/internal/models/volunteer"
	"volunteerHub/internal/service"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var request dto.RegisterRequest
	if !decodeBody(w, r, &request) {
		return
	}

	id, err := h.VolunteerService.Register(r.Context(), service.RegisterInput{
		Name:       request.Name,
		Email:      request.Email,
		Phone:      request.Phone,
		CNIC:       request.CNIC,
		City:       request.City,
		Area:       request.Area,
		University: request.University,
		Skills:     request.Skills,
		Domains:    request.Domains,
		Password:   request.Password,
	})
	if err != nil {
		RespondError(w, r, err)
		return
	}

	logger.Info("HTTP_OUT: volunteer registered",
		zap.String("volunteer_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	writeJSON(w, http.StatusCreated, dto.RegisterResponse{
		Message:     "Volunteer registered successfully",
		VolunteerID: id,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var request dto.LoginRequest
	if !decodeBody(w, r, &request) {
		return
	}

	v, token, err := h.VolunteerService.Login(r.Context(), request.Email, request.Password)
	if err != nil {
		RespondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Message: "Login successful",
		User:    v,
		Token:   token,
	})
}

func (h *Handler) ListVolunteers(w http.ResponseWriter, r *http.Request) {
	volunteers, err := h.VolunteerService.ListVolunteers(r.Context())
	if err != nil {
		RespondError(w, r, err)
		return
	}
	if volunteers == nil {
		volunteers = []*volunteer.Volunteer{}
	}
	writeJSON(w, http.StatusOK, volunteers)
}
