package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"

	"library-catalog/internal/model"
)

const (
	codeTimeout           = "REQUEST_TIMEOUT"
	defaultRequestTimeout = 30 * time.Second
)

// catalogMethods are the methods the /api/v1 routes answer to.
var catalogMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}

func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// CORS lets browser clients send bearer tokens and read the headers the
// gate and the rate limiter answer with.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	handler := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   catalogMethods,
		AllowedHeaders:   []string{"Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader, "Retry-After", "WWW-Authenticate"},
		MaxAge:           600,
		AllowCredentials: false,
	})

	return handler.Handler
}

// Timeout answers 503 with the error envelope once a request runs past
// timeout. The handler's own Content-Type wins when it finishes in time.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	body, err := json.Marshal(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    codeTimeout,
			Message: fmt.Sprintf("request did not complete within %s", timeout),
		},
	})
	if err != nil {
		panic(fmt.Sprintf("encode timeout body: %v", err))
	}

	return func(next http.Handler) http.Handler {
		timed := http.TimeoutHandler(next, timeout, string(body))
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			timed.ServeHTTP(w, r)
		})
	}
}
