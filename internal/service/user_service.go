package service

import (
	"context"
	"strings"

	"library-catalog/internal/model"
	"library-catalog/pkg/apierror"
)

type UserService struct {
	users  UserStore
	roles  RoleStore
	hasher PasswordHasher
}

func NewUserService(users UserStore, roles RoleStore, hasher PasswordHasher) *UserService {
	return &UserService{users: users, roles: roles, hasher: hasher}
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (model.User, error) {
	return s.users.FindByID(ctx, id)
}

// Create is the admin path; the new user starts without roles.
func (s *UserService) Create(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	return createUser(ctx, s.users, s.hasher, req, nil)
}

func (s *UserService) Update(ctx context.Context, id string, patch model.UserPatch) (model.User, model.User, error) {
	current, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.User{}, model.User{}, err
	}

	if patch.Username.Set && patch.Username.Null || patch.Email.Set && patch.Email.Null {
		return model.User{}, model.User{}, apierror.Validation("username and email cannot be null", nullFields(patch))
	}

	updated := current
	patch.Apply(&updated)
	updated.Username = strings.TrimSpace(updated.Username)
	updated.Email = strings.TrimSpace(updated.Email)

	username, email := "", ""
	if updated.Username != current.Username {
		username = updated.Username
	}
	if updated.Email != current.Email {
		email = updated.Email
	}
	if err := ensureUniqueIdentity(ctx, s.users, username, email, id); err != nil {
		return model.User{}, model.User{}, err
	}

	if err := s.users.Update(ctx, updated); err != nil {
		return model.User{}, model.User{}, err
	}

	return current, updated, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

func (s *UserService) AllRoles(ctx context.Context) ([]model.Role, error) {
	return s.roles.List(ctx)
}

func (s *UserService) Roles(ctx context.Context, userID string) ([]model.Role, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.roles.ListForUser(ctx, userID)
}

// AssignRole is idempotent. added is false when the user already held the role.
func (s *UserService) AssignRole(ctx context.Context, userID string, roleID int) ([]model.Role, bool, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, false, err
	}
	if _, err := s.roles.FindByID(ctx, roleID); err != nil {
		return nil, false, err
	}

	held, err := s.roles.UserHasRole(ctx, userID, roleID)
	if err != nil {
		return nil, false, err
	}

	added := false
	if !held {
		added, err = s.roles.Assign(ctx, userID, roleID)
		if err != nil {
			return nil, false, err
		}
	}

	roles, err := s.roles.ListForUser(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	return roles, added, nil
}

func (s *UserService) RemoveRole(ctx context.Context, userID string, roleID int) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	if _, err := s.roles.FindByID(ctx, roleID); err != nil {
		return err
	}

	held, err := s.roles.UserHasRole(ctx, userID, roleID)
	if err != nil {
		return err
	}
	if !held {
		return apierror.NotFound("user does not have this role", "").Wrap(model.ErrRoleNotAssigned)
	}

	return s.roles.Unassign(ctx, userID, roleID)
}

func nullFields(patch model.UserPatch) []string {
	fields := make([]string, 0, 2)
	if patch.Username.Null {
		fields = append(fields, "username")
	}
	if patch.Email.Null {
		fields = append(fields, "email")
	}
	return fields
}
