package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"library-catalog/pkg/apierror"
)

const maxBodyBytes = 1 << 20

type bodyValidator interface {
	Validate(schemaID string, body []byte) error
}

// decodeBody validates the raw body against schemaID and then decodes it into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, v bodyValidator, schemaID string, dst any) error {
	defer r.Body.Close()

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apierror.New("PAYLOAD_TOO_LARGE", "request body too large", "", http.StatusRequestEntityTooLarge)
		}
		return apierror.BadRequest("could not read request body", "")
	}

	if err := v.Validate(schemaID, raw); err != nil {
		return err
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return apierror.BadRequest("invalid JSON body", err.Error())
	}

	return nil
}

// pathInt parses an integer id from the route. Non-numeric ids cannot name
// an entity, so they are reported as not found.
func pathInt(r *http.Request, name string, entity string) (int, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, apierror.NotFound(entity+" not found", raw)
	}
	return id, nil
}

func parseIntOrDefault(raw string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return parsed
}
