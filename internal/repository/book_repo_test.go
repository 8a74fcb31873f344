package repository

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-catalog/internal/model"
	"library-catalog/pkg/apierror"
)

// scriptedTx answers the statements a book write issues and records how the
// transaction ended.
type scriptedTx struct {
	pgx.Tx
	linkErr    error
	statements []string
	committed  bool
	rolledBack bool
	closed     bool
}

func (tx *scriptedTx) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	tx.statements = append(tx.statements, strings.TrimSpace(sql))
	if strings.Contains(sql, "INSERT INTO books_authors") {
		return pgconn.CommandTag{}, tx.linkErr
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (tx *scriptedTx) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	tx.statements = append(tx.statements, strings.TrimSpace(sql))
	return bookIDRow(41)
}

func (tx *scriptedTx) Commit(context.Context) error {
	if tx.closed {
		return pgx.ErrTxClosed
	}
	tx.committed, tx.closed = true, true
	return nil
}

func (tx *scriptedTx) Rollback(context.Context) error {
	if tx.closed {
		return pgx.ErrTxClosed
	}
	tx.rolledBack, tx.closed = true, true
	return nil
}

type bookIDRow int

func (r bookIDRow) Scan(dest ...any) error {
	*dest[0].(*int) = int(r)
	return nil
}

type txOnlyDB struct {
	DBTX
	tx *scriptedTx
}

func (db *txOnlyDB) Begin(context.Context) (pgx.Tx, error) {
	return db.tx, nil
}

func apiStatus(t *testing.T, err error) int {
	t.Helper()
	var apiErr *apierror.APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %v", err)
	return apiErr.HTTPStatus
}

func missingAuthorErr() error {
	return &pgconn.PgError{Code: sqlStateForeignKeyViolation, ConstraintName: "books_authors_author_id_fkey"}
}

func TestBookCreateRollsBackWhenAuthorLinkFails(t *testing.T) {
	tx := &scriptedTx{linkErr: missingAuthorErr()}
	repo := NewBookRepository(&txOnlyDB{tx: tx})

	_, err := repo.Create(context.Background(), model.Book{Title: "Broken"}, []int{1, 9999})

	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))
	assert.ErrorIs(t, err, model.ErrMissingRelation)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
	require.Len(t, tx.statements, 2)
	assert.True(t, strings.HasPrefix(tx.statements[0], "INSERT INTO books "))
}

func TestBookUpdateRollsBackWhenAuthorLinkFails(t *testing.T) {
	tx := &scriptedTx{linkErr: missingAuthorErr()}
	repo := NewBookRepository(&txOnlyDB{tx: tx})

	_, err := repo.Update(context.Background(), model.Book{ID: 41, Title: "Dune"}, []int{9999}, true)

	assert.ErrorIs(t, err, model.ErrMissingRelation)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
	require.Len(t, tx.statements, 3)
	assert.True(t, strings.HasPrefix(tx.statements[1], "DELETE FROM books_authors"))
}
