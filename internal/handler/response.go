package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"library-catalog/internal/model"
	"library-catalog/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// listData keeps empty collections encoding as [] rather than null.
func listData[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error) {
	status, body := errorBody(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}

// errorBody maps err onto a status and the public error body. Anything that
// is not classified becomes a generic 500 and is logged.
func errorBody(err error) (int, *model.APIError) {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatus >= http.StatusInternalServerError {
			slog.Error("internal error", "error", err)
			return apiErr.HTTPStatus, &model.APIError{Code: apierror.CodeInternal, Message: "Unexpected server error"}
		}
		return apiErr.HTTPStatus, &model.APIError{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
			Fields:  apiErr.Fields,
		}
	}

	switch {
	case errors.Is(err, model.ErrInvalidCredentials):
		return http.StatusUnauthorized, &model.APIError{Code: apierror.CodeUnauthenticated, Message: "Invalid credentials"}
	case errors.Is(err, model.ErrInvalidToken), errors.Is(err, model.ErrTokenRevoked), errors.Is(err, model.ErrUnauthenticated):
		return http.StatusUnauthorized, &model.APIError{Code: apierror.CodeUnauthenticated, Message: "Authentication required"}
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden, &model.APIError{Code: apierror.CodeForbidden, Message: "Access denied"}
	case errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, model.ErrRoleNotFound),
		errors.Is(err, model.ErrAuthorNotFound),
		errors.Is(err, model.ErrPublisherNotFound),
		errors.Is(err, model.ErrBookNotFound),
		errors.Is(err, model.ErrRoleNotAssigned):
		return http.StatusNotFound, &model.APIError{Code: apierror.CodeNotFound, Message: capitalize(err.Error())}
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict, &model.APIError{Code: apierror.CodeConflict, Message: "Resource already exists"}
	case errors.Is(err, model.ErrMissingRelation):
		return http.StatusBadRequest, &model.APIError{Code: apierror.CodeBadRequest, Message: "Referenced entity does not exist"}
	case errors.Is(err, model.ErrConstraint):
		return http.StatusUnprocessableEntity, &model.APIError{Code: apierror.CodeValidationFailed, Message: "Value violates a constraint"}
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest, &model.APIError{Code: apierror.CodeBadRequest, Message: "Invalid input"}
	}

	slog.Error("unhandled error in writeError", "error", err)
	return http.StatusInternalServerError, &model.APIError{Code: apierror.CodeInternal, Message: "Unexpected server error"}
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
