package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"library-catalog/internal/model"
	"library-catalog/pkg/apierror"
)

type loginMetrics interface {
	ObserveLogin(result string)
}

type AuthService struct {
	users      UserStore
	hasher     PasswordHasher
	tokens     TokenIssuer
	revocation *RevocationService
	metrics    loginMetrics
}

func NewAuthService(users UserStore, hasher PasswordHasher, tokens TokenIssuer, revocation *RevocationService, metrics loginMetrics) *AuthService {
	return &AuthService{
		users:      users,
		hasher:     hasher,
		tokens:     tokens,
		revocation: revocation,
		metrics:    metrics,
	}
}

func invalidCredentials() error {
	return apierror.Unauthenticated("invalid username/email or password").Wrap(model.ErrInvalidCredentials)
}

// Login accepts either the username or the email as identifier.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.TokenPair, model.User, error) {
	user, err := s.users.FindByLogin(ctx, req.UsernameOrEmail)
	if errors.Is(err, model.ErrUserNotFound) {
		s.observe("failure")
		return model.TokenPair{}, model.User{}, invalidCredentials()
	}
	if err != nil {
		return model.TokenPair{}, model.User{}, err
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		s.observe("failure")
		return model.TokenPair{}, user, invalidCredentials()
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return model.TokenPair{}, user, fmt.Errorf("issue tokens: %w", err)
	}

	s.observe("success")
	return pair, user, nil
}

// Register creates an account without roles.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	return createUser(ctx, s.users, s.hasher, req, nil)
}

// Refresh mints a new access token for an already verified refresh token.
// The new token stays linked to the same refresh token.
func (s *AuthService) Refresh(_ context.Context, claims *model.AuthClaims) (model.AccessToken, error) {
	if claims == nil || claims.Type != model.TokenTypeRefresh {
		return model.AccessToken{}, apierror.Unauthenticated("refresh token required").Wrap(model.ErrInvalidToken)
	}

	token, _, _, err := s.tokens.IssueAccessToken(claims.UserID, claims.TokenID, nil)
	if err != nil {
		return model.AccessToken{}, fmt.Errorf("issue access token: %w", err)
	}

	return model.AccessToken{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}

// Logout revokes the access token and its linked refresh token.
func (s *AuthService) Logout(ctx context.Context, claims *model.AuthClaims) error {
	if err := s.revocation.RevokeSession(ctx, claims); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (model.User, error) {
	return s.users.FindByID(ctx, userID)
}

// ChangePassword checks the current password, stores the new hash and
// ends the session that made the request.
func (s *AuthService) ChangePassword(ctx context.Context, claims *model.AuthClaims, req model.ChangePasswordRequest) error {
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(req.CurrentPassword, user.PasswordHash) {
		return apierror.BadRequest("current password is incorrect", "").Wrap(model.ErrInvalidCredentials)
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	return s.revocation.RevokeSession(ctx, claims)
}

// EnsureAdmin creates an admin account when no user with that username or
// email exists yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, username string, email string, password string) error {
	_, err := s.users.FindByLogin(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return err
	}

	user, err := createUser(ctx, s.users, s.hasher, model.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, []string{model.RoleAdmin})
	if err != nil {
		return fmt.Errorf("create bootstrap admin: %w", err)
	}

	slog.Info("bootstrap admin created", "user_id", user.ID, "username", user.Username)
	return nil
}

func (s *AuthService) observe(result string) {
	if s.metrics != nil {
		s.metrics.ObserveLogin(result)
	}
}

// createUser is shared by self-registration and admin creation.
func createUser(ctx context.Context, users UserStore, hasher PasswordHasher, req model.RegisterRequest, roleNames []string) (model.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	if err := ensureUniqueIdentity(ctx, users, username, email, ""); err != nil {
		return model.User{}, err
	}

	hash, err := hasher.Hash(req.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	return users.Create(ctx, model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}, roleNames)
}

func ensureUniqueIdentity(ctx context.Context, users UserStore, username string, email string, excludeID string) error {
	if username != "" {
		taken, err := users.ExistsByUsername(ctx, username, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return apierror.Conflict("username already exists", username).Wrap(model.ErrConflict)
		}
	}

	if email != "" {
		taken, err := users.ExistsByEmail(ctx, email, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return apierror.Conflict("email already exists", email).Wrap(model.ErrConflict)
		}
	}

	return nil
}
