package service

import (
	"context"
	"log/slog"
	"time"

	"go-conference-manager/internal/model"
)

// AuditService records security relevant actions. Logging is best effort:
// a failing store is reported through slog and never surfaces to callers.
type AuditService struct {
	store        AuditStore
	queryTimeout time.Duration
}

func NewAuditService(store AuditStore, queryTimeout time.Duration) *AuditService {
	return &AuditService{store: store, queryTimeout: queryTimeout}
}

func (s *AuditService) Log(ctx context.Context, action string, actor model.AuditActor, status string, resource string, errText string) {
	if s == nil || s.store == nil {
		return
	}

	entry := model.AuditEntry{
		Action:     action,
		OccurredAt: now().Format(time.RFC3339Nano),
		Actor:      actor,
		Status:     status,
		Resource:   resource,
		Error:      errText,
	}

	// The request may already be finished; keep the write independent of it.
	qctx, cancel := bounded(context.WithoutCancel(ctx), s.queryTimeout)
	defer cancel()

	if err := s.store.Log(qctx, entry); err != nil {
		slog.Warn("audit write failed", "action", action, "status", status, "error", err)
	}
}

func (s *AuditService) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	qctx, cancel := bounded(ctx, s.queryTimeout)
	defer cancel()

	return s.store.Query(qctx, query)
}
