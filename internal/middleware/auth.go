package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"library-catalog/internal/model"
)

type tokenVerifier interface {
	Verify(tokenString string, expectedType string) (*model.AuthClaims, error)
}

type revocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type userLookup interface {
	FindByID(ctx context.Context, id string) (model.User, error)
}

type roleLister interface {
	NamesForUser(ctx context.Context, userID string) ([]string, error)
}

type decisionObserver interface {
	ObserveAccessDecision(outcome string)
}

type contextKey string

const (
	authClaimsContextKey contextKey = "auth_claims"
	identityContextKey   contextKey = "identity"
)

// AccessControl authenticates bearer tokens and enforces a Policy per route.
type AccessControl struct {
	tokens     tokenVerifier
	revocation revocationChecker
	users      userLookup
	roles      roleLister
	metrics    decisionObserver
}

func NewAccessControl(tokens tokenVerifier, revocation revocationChecker, users userLookup, roles roleLister, metrics decisionObserver) *AccessControl {
	return &AccessControl{
		tokens:     tokens,
		revocation: revocation,
		users:      users,
		roles:      roles,
		metrics:    metrics,
	}
}

// Authenticated only requires a valid, unrevoked access token of an existing user.
func (a *AccessControl) Authenticated(next http.Handler) http.Handler {
	return a.Guard(Policy{})(next)
}

func (a *AccessControl) Guard(policy Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, user, ok := a.authenticate(w, r, model.TokenTypeAccess)
			if !ok {
				return
			}

			ownerValue := ""
			if policy.AllowOwner {
				ownerValue = chi.URLParam(r, policy.OwnerParam)
			}

			decision, err := policy.Evaluate(claims.UserID, ownerValue, func() ([]string, error) {
				return a.roles.NamesForUser(r.Context(), claims.UserID)
			})
			if err != nil {
				slog.Error("access control: role lookup failed", "user_id", claims.UserID, "error", err)
				writeInternal(w)
				return
			}

			a.observe(decision.Outcome)
			if !decision.Granted {
				writeForbidden(w, decision.Message)
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), claims, user)))
		})
	}
}

// RequireRefresh authenticates the request with a refresh token instead of an access token.
func (a *AccessControl) RequireRefresh(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, user, ok := a.authenticate(w, r, model.TokenTypeRefresh)
		if !ok {
			return
		}

		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), claims, user)))
	})
}

func (a *AccessControl) authenticate(w http.ResponseWriter, r *http.Request, tokenType string) (*model.AuthClaims, model.User, bool) {
	token, ok := bearerToken(r)
	if !ok {
		a.observe("unauthenticated")
		writeUnauthenticated(w, "missing or invalid authorization header")
		return nil, model.User{}, false
	}

	claims, err := a.tokens.Verify(token, tokenType)
	if err != nil {
		a.observe("unauthenticated")
		writeUnauthenticated(w, "invalid or expired token")
		return nil, model.User{}, false
	}

	revoked, err := a.revocation.IsRevoked(r.Context(), claims.TokenID)
	if err != nil {
		slog.Error("access control: revocation lookup failed", "jti", claims.TokenID, "error", err)
		writeInternal(w)
		return nil, model.User{}, false
	}
	if revoked {
		a.observe("revoked")
		writeUnauthenticated(w, "token has been revoked")
		return nil, model.User{}, false
	}

	user, err := a.users.FindByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			a.observe("unknown_user")
			writeUnauthenticated(w, "user associated with token not found")
			return nil, model.User{}, false
		}
		slog.Error("access control: user lookup failed", "user_id", claims.UserID, "error", err)
		writeInternal(w)
		return nil, model.User{}, false
	}

	return claims, user, true
}

func (a *AccessControl) observe(outcome string) {
	if a.metrics != nil {
		a.metrics.ObserveAccessDecision(outcome)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return "", false
	}

	token := strings.TrimSpace(header[7:])
	return token, token != ""
}

func withIdentity(ctx context.Context, claims *model.AuthClaims, user model.User) context.Context {
	ctx = context.WithValue(ctx, authClaimsContextKey, claims)
	return context.WithValue(ctx, identityContextKey, user)
}

func ClaimsFromContext(ctx context.Context) (*model.AuthClaims, bool) {
	claims, ok := ctx.Value(authClaimsContextKey).(*model.AuthClaims)
	return claims, ok
}

// IdentityFromContext returns the user loaded by the gate for this request.
func IdentityFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(identityContextKey).(model.User)
	return user, ok
}

// ContextWithIdentity is used by handler tests to simulate an authenticated request.
func ContextWithIdentity(ctx context.Context, claims *model.AuthClaims, user model.User) context.Context {
	return withIdentity(ctx, claims, user)
}
