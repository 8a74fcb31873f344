package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"library-catalog/internal/model"
)

type RoleRepository struct {
	db DBTX
}

func NewRoleRepository(db DBTX) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) List(ctx context.Context) ([]model.Role, error) {
	return r.queryRoles(ctx, `SELECT id, name, description FROM roles ORDER BY id`)
}

func (r *RoleRepository) FindByID(ctx context.Context, id int) (model.Role, error) {
	var role model.Role
	err := r.db.QueryRow(ctx, `SELECT id, name, description FROM roles WHERE id = $1`, id).
		Scan(&role.ID, &role.Name, &role.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Role{}, notFound(model.ErrRoleNotFound, id)
	}
	if err != nil {
		return model.Role{}, fmt.Errorf("find role: %w", err)
	}
	return role, nil
}

func (r *RoleRepository) ListForUser(ctx context.Context, userID string) ([]model.Role, error) {
	if !validUUID(userID) {
		return []model.Role{}, nil
	}

	return r.queryRoles(ctx,
		`SELECT r.id, r.name, r.description
		 FROM roles r
		 JOIN user_roles ur ON ur.role_id = r.id
		 WHERE ur.user_id = $1
		 ORDER BY r.id`, userID)
}

func (r *RoleRepository) NamesForUser(ctx context.Context, userID string) ([]string, error) {
	roles, err := r.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}
	return names, nil
}

func (r *RoleRepository) UserHasRole(ctx context.Context, userID string, roleID int) (bool, error) {
	if !validUUID(userID) {
		return false, nil
	}

	var has bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_roles WHERE user_id = $1 AND role_id = $2)`,
		userID, roleID).Scan(&has)
	if err != nil {
		return false, fmt.Errorf("check user role: %w", err)
	}
	return has, nil
}

// Assign is idempotent; added reports whether a new row was written.
func (r *RoleRepository) Assign(ctx context.Context, userID string, roleID int) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, roleID)
	if err != nil {
		return false, classify("assign role", "role assignment", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *RoleRepository) Unassign(ctx context.Context, userID string, roleID int) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`, userID, roleID)
	if err != nil {
		return fmt.Errorf("unassign role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(model.ErrRoleNotAssigned, roleID)
	}
	return nil
}

func (r *RoleRepository) queryRoles(ctx context.Context, sql string, args ...any) ([]model.Role, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	roles := make([]model.Role, 0)
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
