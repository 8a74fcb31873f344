package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"library-catalog/internal/model"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

type AuditRepository struct {
	db DBTX
}

func NewAuditRepository(db DBTX) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Log(ctx context.Context, entry model.AuditEntry) error {
	beforeJSON, err := marshalNullable(entry.Before)
	if err != nil {
		return fmt.Errorf("marshal before data: %w", err)
	}
	afterJSON, err := marshalNullable(entry.After)
	if err != nil {
		return fmt.Errorf("marshal after data: %w", err)
	}

	occurredAt := time.Now().UTC()
	if entry.OccurredAt != "" {
		if parsed, parseErr := time.Parse(time.RFC3339Nano, entry.OccurredAt); parseErr == nil {
			occurredAt = parsed
		}
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO audit_entries
		 (action, occurred_at, actor_id, actor_ip, status, resource, before, after, error)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.Action, occurredAt,
		nullIfEmpty(entry.Actor.UserID), nullIfEmpty(entry.Actor.IP),
		entry.Status, nullIfEmpty(entry.Resource), beforeJSON, afterJSON, nullIfEmpty(entry.Error))
	if err != nil {
		return fmt.Errorf("log audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepository) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = defaultAuditLimit
	}
	if query.Limit > maxAuditLimit {
		query.Limit = maxAuditLimit
	}

	where := make([]string, 0)
	args := make([]any, 0)
	add := func(clause string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if action := strings.TrimSpace(query.Action); action != "" {
		add("lower(action) = lower($%d)", action)
	}
	if actorID := strings.TrimSpace(query.ActorID); actorID != "" {
		add("actor_id::text = $%d", actorID)
	}
	if status := strings.TrimSpace(query.Status); status != "" {
		add("lower(status) = lower($%d)", status)
	}
	if resource := strings.TrimSpace(query.Resource); resource != "" {
		add("lower(resource) LIKE lower($%d)", "%"+resource+"%")
	}
	if from := strings.TrimSpace(query.From); from != "" {
		add("occurred_at >= $%d::timestamptz", from)
	}
	if to := strings.TrimSpace(query.To); to != "" {
		add("occurred_at <= $%d::timestamptz", to)
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM audit_entries "+whereClause, args...).Scan(&total); err != nil {
		return nil, model.Meta{}, fmt.Errorf("count audit entries: %w", err)
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + query.Limit - 1) / query.Limit
	}
	meta := model.Meta{Page: query.Page, Limit: query.Limit, Total: total, TotalPages: totalPages}

	offset := (query.Page - 1) * query.Limit
	dataQuery := fmt.Sprintf(
		`SELECT id, action, occurred_at, actor_id::text, actor_ip, status, resource, before, after, error
		 FROM audit_entries %s
		 ORDER BY occurred_at DESC, id DESC
		 LIMIT $%d OFFSET $%d`, whereClause, len(args)+1, len(args)+2)
	args = append(args, query.Limit, offset)

	rows, err := r.db.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]model.AuditEntry, 0)
	for rows.Next() {
		var e model.AuditEntry
		var occurredAt time.Time
		var actorID, actorIP, resource, errText *string
		var beforeJSON, afterJSON []byte

		if err := rows.Scan(&e.ID, &e.Action, &occurredAt, &actorID, &actorIP,
			&e.Status, &resource, &beforeJSON, &afterJSON, &errText); err != nil {
			return nil, model.Meta{}, fmt.Errorf("scan audit entry: %w", err)
		}

		e.OccurredAt = occurredAt.UTC().Format(time.RFC3339Nano)
		e.Actor.UserID = deref(actorID)
		e.Actor.IP = deref(actorIP)
		e.Resource = deref(resource)
		e.Error = deref(errText)
		e.Before = unmarshalLoose(beforeJSON)
		e.After = unmarshalLoose(afterJSON)

		entries = append(entries, e)
	}

	return entries, meta, rows.Err()
}

func marshalNullable(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func unmarshalLoose(data []byte) any {
	if len(data) == 0 {
		return nil
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
