package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/postboard/internal/model"
	"github.com/sakif/postboard/internal/service"
)

// PostHandler serves the /posts endpoints.
type PostHandler struct {
	service *service.PostService
	logger  *slog.Logger
}

func NewPostHandler(svc *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{service: svc, logger: logger}
}

// user_id stays raw so both 10 and "10" decode; see parseUserID.
type createPostRequest struct {
	Title   string          `json:"title"`
	Content string          `json:"content"`
	UserID  json.RawMessage `json:"user_id"`
}

type updatePostRequest struct {
	Title   *string         `json:"title"`
	Content *string         `json:"content"`
	UserID  json.RawMessage `json:"user_id"`
}

// HandleList returns every post ordered by id.
//
// HTTP: GET /posts
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// HandleCreate creates a post owned by an existing user.
//
// HTTP: POST /posts
// REQUEST BODY: {"title": "T", "content": "C", "user_id": 10}
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.logger.Warn("invalid post JSON", slog.String("error", err.Error()))
		writeBadRequest(w, invalidJSONMessage)
		return
	}

	var userID *int64
	if id, ok := parseUserID(req.UserID); ok {
		userID = &id
	}

	post, err := h.service.Create(r.Context(), req.Title, req.Content, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// HandleGetByID returns a single post.
//
// HTTP: GET /posts/{id}
func (h *PostHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "Post")
	if err != nil {
		writeError(w, err)
		return
	}

	post, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleUpdate applies a partial update.
//
// HTTP: PUT /posts/{id}
// REQUEST BODY: any of {"title": "...", "content": "...", "user_id": 11}
//
// A user_id key that is present but unusable (null, "abc", 1.5) still counts
// as a requested change and fails the owner check with "Invalid user_id".
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "Post")
	if err != nil {
		writeError(w, err)
		return
	}

	var req updatePostRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.logger.Warn("invalid post JSON", slog.String("error", err.Error()))
		writeBadRequest(w, invalidJSONMessage)
		return
	}

	patch := model.PostPatch{Title: req.Title, Content: req.Content}
	if req.UserID != nil {
		uid, _ := parseUserID(req.UserID)
		patch.UserID = &uid
	}

	post, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleDelete removes a single post.
//
// HTTP: DELETE /posts/{id} → 204 No Content
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "Post")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
