package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"library-catalog/internal/middleware"
	"library-catalog/internal/model"
	"library-catalog/internal/validation"
	"library-catalog/pkg/apierror"
)

type userService interface {
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id string) (model.User, error)
	Create(ctx context.Context, req model.RegisterRequest) (model.User, error)
	Update(ctx context.Context, id string, patch model.UserPatch) (model.User, model.User, error)
	Delete(ctx context.Context, id string) error
	AllRoles(ctx context.Context) ([]model.Role, error)
	Roles(ctx context.Context, userID string) ([]model.Role, error)
	AssignRole(ctx context.Context, userID string, roleID int) ([]model.Role, bool, error)
	RemoveRole(ctx context.Context, userID string, roleID int) error
}

type passwordChanger interface {
	ChangePassword(ctx context.Context, claims *model.AuthClaims, req model.ChangePasswordRequest) error
}

type UserHandler struct {
	service   userService
	passwords passwordChanger
	validator bodyValidator
	audit     auditLogger
}

func NewUserHandler(service userService, passwords passwordChanger, validator bodyValidator, audit auditLogger) *UserHandler {
	return &UserHandler{service: service, passwords: passwords, validator: validator, audit: audit}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, listData(users), nil)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Get(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	if err := decodeBody(w, r, h.validator, validation.Register, &payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.Create(r.Context(), payload)
	recordAudit(h.audit, r, actionUserCreate, "users/"+user.ID, nil, user, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, user, nil)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	var patch model.UserPatch
	if err := decodeBody(w, r, h.validator, validation.UserUpdate, &patch); err != nil {
		writeError(w, err)
		return
	}

	before, after, err := h.service.Update(r.Context(), userID, patch)
	recordAudit(h.audit, r, actionUserUpdate, "users/"+userID, before, after, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, after, nil)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	err := h.service.Delete(r.Context(), userID)
	recordAudit(h.audit, r, actionUserDelete, "users/"+userID, nil, nil, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeNoContent(w)
}

// ChangePassword is owner only, so the path user is the token subject.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthenticated("authentication required"))
		return
	}

	var payload model.ChangePasswordRequest
	if err := decodeBody(w, r, h.validator, validation.ChangePassword, &payload); err != nil {
		writeError(w, err)
		return
	}

	err := h.passwords.ChangePassword(r.Context(), claims, payload)
	recordAudit(h.audit, r, actionPasswordChange, "users/"+claims.UserID, nil, nil, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.MessageData{Message: "password changed, please log in again"}, nil)
}

func (h *UserHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.Roles(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, listData(roles), nil)
}

func (h *UserHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	var payload model.RoleAssignRequest
	if err := decodeBody(w, r, h.validator, validation.RoleAssign, &payload); err != nil {
		writeError(w, err)
		return
	}

	roles, added, err := h.service.AssignRole(r.Context(), userID, payload.RoleID)
	resource := "users/" + userID + "/roles/" + strconv.Itoa(payload.RoleID)
	if err != nil || added {
		recordAudit(h.audit, r, actionRoleAssign, resource, nil, roles, err)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, listData(roles), nil)
}

func (h *UserHandler) RemoveRole(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	roleID, err := pathInt(r, "role_id", "role")
	if err != nil {
		writeError(w, err)
		return
	}

	err = h.service.RemoveRole(r.Context(), userID, roleID)
	recordAudit(h.audit, r, actionRoleRemove, "users/"+userID+"/roles/"+strconv.Itoa(roleID), nil, nil, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeNoContent(w)
}

type RoleHandler struct {
	service userService
}

func NewRoleHandler(service userService) *RoleHandler {
	return &RoleHandler{service: service}
}

func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.AllRoles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, listData(roles), nil)
}
