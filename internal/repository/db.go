package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"library-catalog/internal/model"
	"library-catalog/pkg/apierror"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
	sqlStateCheckViolation      = "23514"
	sqlStateNotNullViolation    = "23502"
)

// classify turns integrity violations into API errors. Anything else is
// wrapped with op and surfaces as an internal error.
func classify(op string, entity string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateUniqueViolation:
			return apierror.Conflict(entity+" already exists", "").Wrap(model.ErrConflict)
		case sqlStateForeignKeyViolation:
			return apierror.BadRequest("referenced entity does not exist", entity).Wrap(model.ErrMissingRelation)
		case sqlStateCheckViolation, sqlStateNotNullViolation:
			return apierror.Validation(entity+" violates a value constraint", columnFields(pgErr)).Wrap(model.ErrConstraint)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

func columnFields(pgErr *pgconn.PgError) []string {
	if pgErr.ColumnName == "" {
		return nil
	}
	return []string{pgErr.ColumnName}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == sqlStateUniqueViolation
}

// validUUID guards UUID columns so malformed ids read as missing rows
// instead of a cast error.
func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func notFound(sentinel error, id any) error {
	return apierror.NotFound(sentinel.Error(), fmt.Sprint(id)).Wrap(sentinel)
}
