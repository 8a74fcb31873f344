package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"library-catalog/internal/model"
	"library-catalog/pkg/apierror"
)

const (
	AuditSuccess = "success"
	AuditFailure = "failure"
)

type AuditService struct {
	store  AuditStore
	logger *slog.Logger
}

func NewAuditService(store AuditStore, logger *slog.Logger) *AuditService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditService{store: store, logger: logger}
}

// Log records an entry. A failing write is logged and otherwise ignored so
// it never changes the outcome of the audited request.
func (s *AuditService) Log(ctx context.Context, action string, actor model.AuditActor, status string, resource string, before any, after any, errText string) {
	if s == nil || s.store == nil {
		return
	}

	entry := model.AuditEntry{
		Action:     action,
		OccurredAt: time.Now().UTC().Format(time.RFC3339Nano),
		Actor:      actor,
		Status:     status,
		Resource:   resource,
		Before:     before,
		After:      after,
		Error:      errText,
	}

	// detached from request cancellation so late writes still land
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.store.Log(writeCtx, entry); err != nil {
		s.logger.Warn("audit write failed", "action", action, "error", err)
	}
}

func (s *AuditService) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	from, err := parseOptionalAuditTime(query.From)
	if err != nil {
		return nil, model.Meta{}, apierror.BadRequest("invalid 'from' datetime format", query.From)
	}

	to, err := parseOptionalAuditTime(query.To)
	if err != nil {
		return nil, model.Meta{}, apierror.BadRequest("invalid 'to' datetime format", query.To)
	}

	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, model.Meta{}, apierror.BadRequest("'to' must not be before 'from'", "")
	}

	query.From = formatOptionalAuditTime(from)
	query.To = formatOptionalAuditTime(to)

	return s.store.Query(ctx, query)
}

func parseOptionalAuditTime(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, nil
	}

	if value, err := time.Parse(time.RFC3339Nano, trimmed); err == nil {
		return value.UTC(), nil
	}

	value, err := time.Parse(time.DateOnly, trimmed)
	if err != nil {
		return time.Time{}, err
	}

	return value.UTC(), nil
}

func formatOptionalAuditTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}
