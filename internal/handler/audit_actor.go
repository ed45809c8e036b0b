package handler

import (
	"context"
	"fmt"
	"net/http"

	"go-conference-manager/internal/middleware"
	"go-conference-manager/internal/model"
	"go-conference-manager/internal/service"
)

func actorFromRequest(r *http.Request) model.AuditActor {
	actor := model.AuditActor{IP: middleware.ClientIP(r)}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return actor
	}

	actor.UserID = user.ID
	actor.Email = user.Email
	actor.Role = user.Role.String()

	return actor
}

// record writes an audit entry for the outcome of an operation.
func record(ctx context.Context, audit *service.AuditService, action string, actor model.AuditActor, resource string, err error) {
	status := model.AuditStatusSuccess
	errText := ""
	if err != nil {
		status = model.AuditStatusFailure
		errText = err.Error()
	}

	audit.Log(ctx, action, actor, status, resource, errText)
}

func userResource(id int64) string {
	return fmt.Sprintf("users/%d", id)
}

func institutionResource(id int64) string {
	return fmt.Sprintf("institutions/%d", id)
}
