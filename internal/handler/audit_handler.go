package handler

import (
	"net/http"
	"strings"

	"go-conference-manager/internal/model"
	"go-conference-manager/internal/service"
	"go-conference-manager/pkg/apierror"
)

type AuditHandler struct {
	service *service.AuditService
}

func NewAuditHandler(service *service.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var actorID int64
	if raw := strings.TrimSpace(query.Get("actor_id")); raw != "" {
		parsed, err := parseIntParam(raw, 0)
		if err != nil || parsed <= 0 {
			writeError(w, apierror.BadRequest("actor_id must be a positive integer", raw))
			return
		}
		actorID = int64(parsed)
	}

	page, err := parseIntParam(query.Get("page"), 1)
	if err != nil || page < 1 {
		writeError(w, apierror.BadRequest("page must be a positive integer", query.Get("page")))
		return
	}

	limit, err := parseIntParam(query.Get("limit"), 50)
	if err != nil || limit <= 0 {
		writeError(w, apierror.BadRequest("limit must be a positive integer", query.Get("limit")))
		return
	}

	items, meta, err := h.service.Query(r.Context(), model.AuditQuery{
		Action:  strings.TrimSpace(query.Get("action")),
		ActorID: actorID,
		Status:  strings.TrimSpace(query.Get("status")),
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.AuditListData{Items: items}, &meta)
}
