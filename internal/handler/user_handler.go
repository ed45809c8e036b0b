package handler

import (
	"net/http"

	"go-conference-manager/internal/middleware"
	"go-conference-manager/internal/model"
	"go-conference-manager/internal/service"
)

type UserHandler struct {
	users *service.UserService
	auth  *service.AuthService
	audit *service.AuditService
}

func NewUserHandler(users *service.UserService, auth *service.AuthService, audit *service.AuditService) *UserHandler {
	return &UserHandler{users: users, auth: auth, audit: audit}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, err)
		return
	}

	users, err := h.users.List(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.UserList{Users: users}, pageMeta(page))
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateUserRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Create(r.Context(), payload)
	record(r.Context(), h.audit, "user.create", actorFromRequest(r), "users/"+payload.Email, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, user, nil)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthenticated)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}

// Register is the public sign-up endpoint.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !h.auth.OpenRegistration() {
		writeError(w, model.ErrRegistrationDisabled)
		return
	}

	var payload model.RegisterRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.Register(r.Context(), payload)
	actor := actorFromRequest(r)
	actor.Email = payload.Email
	record(r.Context(), h.audit, "user.register", actor, "users/open", err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, user, nil)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.UpdateUserRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthenticated)
		return
	}

	user, err := h.users.Update(r.Context(), actor, id, payload)
	record(r.Context(), h.audit, "user.update", actorFromRequest(r), userResource(id), err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthenticated)
		return
	}

	_, err = h.users.Delete(r.Context(), actor, id)
	record(r.Context(), h.audit, "user.delete", actorFromRequest(r), userResource(id), err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.MessageData{Message: "User deleted successfully"}, nil)
}
