package handler

import (
	"net/http"

	"go-conference-manager/internal/middleware"
	"go-conference-manager/internal/model"
	"go-conference-manager/internal/service"
)

type InstitutionHandler struct {
	service *service.InstitutionService
	audit   *service.AuditService
}

func NewInstitutionHandler(service *service.InstitutionService, audit *service.AuditService) *InstitutionHandler {
	return &InstitutionHandler{service: service, audit: audit}
}

func (h *InstitutionHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		writeError(w, err)
		return
	}

	items, err := h.service.List(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.InstitutionList{Institutions: items}, pageMeta(page))
}

func (h *InstitutionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateInstitutionRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	inst, err := h.service.Create(r.Context(), payload)
	record(r.Context(), h.audit, "institution.create", actorFromRequest(r), "institutions/"+payload.Name, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, inst, nil)
}

// Me returns the caller's own institution.
func (h *InstitutionHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthenticated)
		return
	}

	inst, err := h.service.ForUser(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, inst, nil)
}

func (h *InstitutionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	inst, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, inst, nil)
}

func (h *InstitutionHandler) Users(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := parsePage(r)
	if err != nil {
		writeError(w, err)
		return
	}

	users, err := h.service.Users(r.Context(), id, page)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.UserList{Users: users}, pageMeta(page))
}

func (h *InstitutionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.UpdateInstitutionRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	inst, err := h.service.Update(r.Context(), id, payload)
	record(r.Context(), h.audit, "institution.update", actorFromRequest(r), institutionResource(id), err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, inst, nil)
}

func (h *InstitutionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	_, err = h.service.Delete(r.Context(), id)
	record(r.Context(), h.audit, "institution.delete", actorFromRequest(r), institutionResource(id), err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.MessageData{Message: "Institution deleted successfully"}, nil)
}
