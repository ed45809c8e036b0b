package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-conference-manager/internal/model"
)

type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) Log(ctx context.Context, entry model.AuditEntry) error {
	occurredAt, err := time.Parse(time.RFC3339Nano, entry.OccurredAt)
	if err != nil {
		occurredAt = time.Now().UTC()
	}

	var actorID *int64
	if entry.Actor.UserID != 0 {
		actorID = &entry.Actor.UserID
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO audit_entries
		 (action, occurred_at, actor_user_id, actor_email, actor_role, actor_ip,
		  status, resource, error_text)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.Action, occurredAt,
		actorID, entry.Actor.Email, entry.Actor.Role, entry.Actor.IP,
		entry.Status, entry.Resource, entry.Error)
	if err != nil {
		return fmt.Errorf("log audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepository) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	query = normalizeAuditQuery(query)

	where := make([]string, 0)
	args := make([]any, 0)
	argIdx := 1

	if action := strings.TrimSpace(query.Action); action != "" {
		where = append(where, fmt.Sprintf("lower(action) = lower($%d)", argIdx))
		args = append(args, action)
		argIdx++
	}
	if query.ActorID != 0 {
		where = append(where, fmt.Sprintf("actor_user_id = $%d", argIdx))
		args = append(args, query.ActorID)
		argIdx++
	}
	if status := strings.TrimSpace(query.Status); status != "" {
		where = append(where, fmt.Sprintf("lower(status) = lower($%d)", argIdx))
		args = append(args, status)
		argIdx++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM audit_entries %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, model.Meta{}, fmt.Errorf("count audit entries: %w", err)
	}
	meta := auditMeta(query, total)

	offset := (query.Page - 1) * query.Limit
	dataQuery := fmt.Sprintf(
		`SELECT action, occurred_at, COALESCE(actor_user_id, 0), actor_email, actor_role, actor_ip,
		        status, resource, error_text
		 FROM audit_entries %s
		 ORDER BY occurred_at DESC, id DESC
		 LIMIT $%d OFFSET $%d`, whereClause, argIdx, argIdx+1)
	args = append(args, query.Limit, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]model.AuditEntry, 0)
	for rows.Next() {
		var e model.AuditEntry
		var occurredAt time.Time

		if err := rows.Scan(
			&e.Action, &occurredAt,
			&e.Actor.UserID, &e.Actor.Email, &e.Actor.Role, &e.Actor.IP,
			&e.Status, &e.Resource, &e.Error,
		); err != nil {
			return nil, model.Meta{}, fmt.Errorf("scan audit entry: %w", err)
		}

		e.OccurredAt = occurredAt.UTC().Format(time.RFC3339Nano)
		entries = append(entries, e)
	}

	return entries, meta, rows.Err()
}

func normalizeAuditQuery(query model.AuditQuery) model.AuditQuery {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 50
	}
	if query.Limit > 200 {
		query.Limit = 200
	}
	return query
}

func auditMeta(query model.AuditQuery, total int) model.Meta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + query.Limit - 1) / query.Limit
	}
	return model.Meta{
		Page:       query.Page,
		Limit:      query.Limit,
		Skip:       (query.Page - 1) * query.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
