package middleware

import (
	"encoding/json"
	"net/http"

	"library-catalog/internal/model"
	"library-catalog/pkg/apierror"
)

func jsonEncode(w http.ResponseWriter, value any) error {
	return json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsonEncode(w, model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    code,
			Message: message,
		},
	})
}

func writeUnauthenticated(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="library-catalog"`)
	writeError(w, http.StatusUnauthorized, apierror.CodeUnauthenticated, message)
}

func writeForbidden(w http.ResponseWriter, message string) {
	writeError(w, http.StatusForbidden, apierror.CodeForbidden, message)
}

func writeInternal(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, apierror.CodeInternal, "Unexpected server error")
}
