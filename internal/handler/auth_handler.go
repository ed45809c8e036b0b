package handler

import (
	"mime"
	"net/http"
	"strings"

	"go-conference-manager/internal/model"
	"go-conference-manager/internal/service"
	"go-conference-manager/pkg/apierror"
)

type AuthHandler struct {
	service *service.AuthService
	audit   *service.AuditService
}

func NewAuthHandler(service *service.AuthService, audit *service.AuditService) *AuthHandler {
	return &AuthHandler{service: service, audit: audit}
}

// Token exchanges credentials for a bearer session. It accepts a JSON body
// {email, password} or an OAuth2 password form (username, password).
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	payload, err := readCredentials(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	session, err := h.service.Login(r.Context(), payload.Email, payload.Password)

	actor := actorFromRequest(r)
	if err == nil {
		actor.UserID = session.User.ID
		actor.Email = session.User.Email
		actor.Role = session.User.Role.String()
	}
	record(r.Context(), h.audit, "auth.login", actor, "auth/token", err)

	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, session, nil)
}

func readCredentials(w http.ResponseWriter, r *http.Request) (model.LoginRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "application/x-www-form-urlencoded" {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return model.LoginRequest{}, apierror.BadRequest("invalid form body", err.Error())
		}

		payload := model.LoginRequest{
			Email:    strings.TrimSpace(r.PostForm.Get("username")),
			Password: r.PostForm.Get("password"),
		}
		if payload.Email == "" || payload.Password == "" {
			return model.LoginRequest{}, apierror.BadRequest("username and password are required", "")
		}
		return payload, nil
	}

	var payload model.LoginRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		return model.LoginRequest{}, err
	}
	return payload, nil
}
