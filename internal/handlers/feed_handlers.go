package handlers

import (
	"net/http"

	"volunteerHub/internal/handlers/dto"
	"volunteerHub/internal/service"
)

func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	posts, err := h.FeedService.Feed(r.Context())
	if err != nil {
		RespondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromFeed(posts))
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var request dto.CreatePostRequest
	if !decodeBody(w, r, &request) {
		return
	}

	id, err := h.FeedService.CreatePost(r.Context(), caller, service.CreatePostInput{
		Title:       request.Title,
		Description: request.Description,
		Area:        request.Area,
		City:        request.City,
	})
	if err != nil {
		RespondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CreatePostResponse{
		Message: "Progress report published",
		PostID:  id,
	})
}

func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var request dto.LikeRequest
	if !decodeBody(w, r, &request) {
		return
	}

	result, err := h.FeedService.ToggleLike(r.Context(), caller, request.PostID)
	if err != nil {
		RespondError(w, r, err)
		return
	}

	message := "Post unliked"
	if result.Liked {
		message = "Post liked"
	}
	writeJSON(w, http.StatusOK, dto.LikeResponse{
		Message: message,
		Liked:   result.Liked,
		Likes:   result.Likes,
	})
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var request dto.CommentRequest
	if !decodeBody(w, r, &request) {
		return
	}

	if err := h.FeedService.AddComment(r.Context(), caller, request.PostID, request.Text); err != nil {
		RespondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Comment added"})
}
