package handler

import (
	"context"
	"net/http"

	"library-catalog/internal/middleware"
	"library-catalog/internal/model"
	"library-catalog/internal/validation"
	"library-catalog/pkg/apierror"
)

type authService interface {
	Login(ctx context.Context, req model.LoginRequest) (model.TokenPair, model.User, error)
	Register(ctx context.Context, req model.RegisterRequest) (model.User, error)
	Refresh(ctx context.Context, claims *model.AuthClaims) (model.AccessToken, error)
	Logout(ctx context.Context, claims *model.AuthClaims) error
	Me(ctx context.Context, userID string) (model.User, error)
}

type AuthHandler struct {
	service   authService
	validator bodyValidator
	audit     auditLogger
}

func NewAuthHandler(service authService, validator bodyValidator, audit auditLogger) *AuthHandler {
	return &AuthHandler{service: service, validator: validator, audit: audit}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := decodeBody(w, r, h.validator, validation.Login, &payload); err != nil {
		writeError(w, err)
		return
	}

	tokens, user, err := h.service.Login(r.Context(), payload)
	if err != nil {
		recordAudit(h.audit, r, actionLogin, "users/"+payload.UsernameOrEmail, nil, nil, err)
		writeError(w, err)
		return
	}

	ctx := middleware.ContextWithIdentity(r.Context(), &model.AuthClaims{UserID: user.ID}, user)
	recordAudit(h.audit, r.WithContext(ctx), actionLogin, "users/"+user.ID, nil, nil, nil)

	writeSuccess(w, http.StatusOK, tokens, nil)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	if err := decodeBody(w, r, h.validator, validation.Register, &payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.Register(r.Context(), payload)
	recordAudit(h.audit, r, actionRegister, "users/"+user.ID, nil, user, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, user, nil)
}

// Refresh runs behind the refresh-token guard.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthenticated("authentication required"))
		return
	}

	token, err := h.service.Refresh(r.Context(), claims)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, token, nil)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthenticated("authentication required"))
		return
	}

	err := h.service.Logout(r.Context(), claims)
	recordAudit(h.audit, r, actionLogout, "users/"+claims.UserID, nil, nil, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.MessageData{Message: "successfully logged out"}, nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthenticated("authentication required"))
		return
	}

	user, err := h.service.Me(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}
