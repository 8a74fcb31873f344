package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"library-catalog/internal/model"
)

func TestAuditLogSwallowsStoreErrors(t *testing.T) {
	store := &mockAuditStore{}
	svc := NewAuditService(store, nil)

	store.On("Log", mock.Anything, mock.MatchedBy(func(e model.AuditEntry) bool {
		return e.Action == "book.create" && e.Status == AuditSuccess && e.OccurredAt != ""
	})).Return(errors.New("db down")).Once()

	assert.NotPanics(t, func() {
		svc.Log(context.Background(), "book.create", model.AuditActor{UserID: aliceID}, AuditSuccess, "/books", nil, map[string]any{"id": 1}, "")
	})
	store.AssertExpectations(t)

	var nilSvc *AuditService
	assert.NotPanics(t, func() {
		nilSvc.Log(context.Background(), "x", model.AuditActor{}, AuditFailure, "", nil, nil, "")
	})
}

func TestAuditQueryValidatesRange(t *testing.T) {
	store := &mockAuditStore{}
	svc := NewAuditService(store, nil)
	ctx := context.Background()

	_, _, err := svc.Query(ctx, model.AuditQuery{From: "yesterday"})
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))

	_, _, err = svc.Query(ctx, model.AuditQuery{From: "2024-02-01", To: "2024-01-01"})
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))

	store.On("Query", ctx, model.AuditQuery{From: "2024-01-01T00:00:00Z", Action: "auth.login"}).
		Return([]model.AuditEntry{{ID: 1}}, model.Meta{Total: 1}, nil).Once()

	items, meta, err := svc.Query(ctx, model.AuditQuery{From: "2024-01-01", Action: "auth.login"})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, meta.Total)
}
