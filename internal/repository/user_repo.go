package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"library-catalog/internal/model"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userSelect = `
	SELECT u.id::text, u.username, u.email, u.password_hash, u.created_at,
	       COALESCE(array_agg(r.name ORDER BY r.id) FILTER (WHERE r.name IS NOT NULL), '{}')
	FROM users u
	LEFT JOIN user_roles ur ON ur.user_id = u.id
	LEFT JOIN roles r ON r.id = ur.role_id`

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.Roles)
	return u, err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	if !validUUID(id) {
		return model.User{}, notFound(model.ErrUserNotFound, id)
	}

	u, err := scanUser(r.db.QueryRow(ctx, userSelect+` WHERE u.id = $1 GROUP BY u.id`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, notFound(model.ErrUserNotFound, id)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// FindByLogin matches either the username or the email, case-insensitively.
// A username match wins over another account's email.
func (r *UserRepository) FindByLogin(ctx context.Context, login string) (model.User, error) {
	login = strings.TrimSpace(login)
	u, err := scanUser(r.db.QueryRow(ctx,
		userSelect+` WHERE lower(u.username) = lower($1) OR lower(u.email) = lower($1)
		GROUP BY u.id
		ORDER BY (lower(u.username) = lower($1)) DESC
		LIMIT 1`, login))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, notFound(model.ErrUserNotFound, login)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by login: %w", err)
	}
	return u, nil
}

// ExistsByUsername ignores the row with excludeID, so updates can keep their own name.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE lower(username) = lower($1) AND id::text <> $2)`,
		strings.TrimSpace(username), excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1) AND id::text <> $2)`,
		strings.TrimSpace(email), excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

// Create inserts the user and grants roleNames in one transaction. Unknown
// role names are ignored.
func (r *UserRepository) Create(ctx context.Context, u model.User, roleNames []string) (model.User, error) {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO users (id, username, email, password_hash, created_at)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING created_at`,
			u.ID, u.Username, u.Email, u.PasswordHash, u.CreatedAt).Scan(&u.CreatedAt); err != nil {
			return err
		}

		if len(roleNames) == 0 {
			return nil
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO user_roles (user_id, role_id)
			 SELECT $1, id FROM roles WHERE name = ANY($2)
			 ON CONFLICT DO NOTHING`,
			u.ID, roleNames)
		return err
	})
	if err != nil {
		return model.User{}, classify("create user", "user", err)
	}

	return r.FindByID(ctx, u.ID)
}

func (r *UserRepository) Update(ctx context.Context, u model.User) error {
	if !validUUID(u.ID) {
		return notFound(model.ErrUserNotFound, u.ID)
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE users SET username = $2, email = $3 WHERE id = $1`,
		u.ID, u.Username, u.Email)
	if err != nil {
		return classify("update user", "user", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(model.ErrUserNotFound, u.ID)
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	if !validUUID(userID) {
		return notFound(model.ErrUserNotFound, userID)
	}

	tag, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(model.ErrUserNotFound, userID)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if !validUUID(id) {
		return notFound(model.ErrUserNotFound, id)
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return classify("delete user", "user", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(model.ErrUserNotFound, id)
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.Query(ctx, userSelect+` GROUP BY u.id ORDER BY u.username`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
