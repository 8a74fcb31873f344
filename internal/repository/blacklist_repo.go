package repository

import (
	"context"
	"fmt"

	"library-catalog/internal/model"
)

type BlacklistRepository struct {
	db DBTX
}

func NewBlacklistRepository(db DBTX) *BlacklistRepository {
	return &BlacklistRepository{db: db}
}

// Insert relies on the unique constraint on jti: a second insert of the same
// identifier returns model.ErrAlreadyRevoked.
func (r *BlacklistRepository) Insert(ctx context.Context, jti string) error {
	_, err := r.db.Exec(ctx, `INSERT INTO token_blacklist (jti) VALUES ($1)`, jti)
	if isUniqueViolation(err) {
		return model.ErrAlreadyRevoked
	}
	if err != nil {
		return fmt.Errorf("insert blacklist entry: %w", err)
	}
	return nil
}

func (r *BlacklistRepository) Exists(ctx context.Context, jti string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM token_blacklist WHERE jti = $1)`, jti).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return exists, nil
}

func (r *BlacklistRepository) Count(ctx context.Context, jti string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM token_blacklist WHERE jti = $1`, jti).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count blacklist entries: %w", err)
	}
	return count, nil
}
