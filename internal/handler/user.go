package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/postboard/internal/model"
	"github.com/sakif/postboard/internal/service"
)

// UserHandler serves the /users endpoints.
type UserHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: svc, logger: logger}
}

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// updateUserRequest uses pointers so an absent key stays nil and is left
// untouched by the update.
type updateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// HandleList returns every user, optionally filtered.
//
// HTTP: GET /users?name=jo&email=example.com
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.UserFilter{
		Name:  q.Get("name"),
		Email: q.Get("email"),
	}

	users, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// HandleCreate creates a user.
//
// HTTP: POST /users
// REQUEST BODY: {"name": "A", "email": "a@x.com"}
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.logger.Warn("invalid user JSON", slog.String("error", err.Error()))
		writeBadRequest(w, invalidJSONMessage)
		return
	}

	user, err := h.service.Create(r.Context(), req.Name, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// HandleGetByID returns a single user.
//
// HTTP: GET /users/{id}
func (h *UserHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "User")
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleUpdate applies a partial update.
//
// HTTP: PUT /users/{id}
// REQUEST BODY: any of {"name": "...", "email": "..."}
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "User")
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateUserRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.logger.Warn("invalid user JSON", slog.String("error", err.Error()))
		writeBadRequest(w, invalidJSONMessage)
		return
	}

	user, err := h.service.Update(r.Context(), id, model.UserPatch{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleDelete removes a user and every post it owns.
//
// HTTP: DELETE /users/{id} → 204 No Content
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "User")
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
