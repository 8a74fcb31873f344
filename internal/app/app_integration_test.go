//go:build integration

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-catalog/internal/config"
	"library-catalog/internal/database/dbtest"
	"library-catalog/internal/metrics"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type client struct {
	t       *testing.T
	handler http.Handler
}

func (c client) do(method string, path string, token string, body any) (int, envelope) {
	c.t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&payload).Encode(body))
	}

	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Code != http.StatusNoContent && rec.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:      config.EnvTesting,
		RequestTimeout:   10 * time.Second,
		JWTSecret:        "integration-secret",
		JWTAccessTTL:     15 * time.Minute,
		JWTRefreshTTL:    time.Hour,
		PasswordHashAlgo: config.HashPBKDF2,
		PBKDF2Iterations: 1000,
		BcryptCost:       4,
		AuthRateLimitRPM: 1000,
		BootstrapAdmin: config.BootstrapAdmin{
			Username: "root",
			Email:    "root@example.com",
			Password: "root-password",
		},
	}
}

func newClient(t *testing.T) client {
	t.Helper()

	db := dbtest.Start(t)
	handler, err := buildRouter(context.Background(), testConfig(), db, metrics.New(prometheus.NewRegistry()))
	require.NoError(t, err)

	return client{t: t, handler: handler}
}

func login(c client, login string, password string) (access string, refresh string) {
	c.t.Helper()

	status, env := c.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username_or_email": login,
		"password":          password,
	})
	require.Equal(c.t, http.StatusOK, status)

	var pair struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(c.t, json.Unmarshal(env.Data, &pair))
	require.NotEmpty(c.t, pair.AccessToken)
	require.NotEmpty(c.t, pair.RefreshToken)
	return pair.AccessToken, pair.RefreshToken
}

func TestRegisterLoginLogoutReplay(t *testing.T) {
	c := newClient(t)

	status, env := c.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "a@x.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.NotContains(t, string(env.Data), "password")

	var user struct {
		ID    string   `json:"id"`
		Roles []string `json:"roles"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.NotEmpty(t, user.ID)
	assert.Empty(t, user.Roles)

	access, refresh := login(c, "alice", "secret123")

	status, _ = c.do(http.MethodGet, "/api/v1/auth/me", access, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = c.do(http.MethodPost, "/api/v1/auth/logout", access, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = c.do(http.MethodGet, "/api/v1/books", access, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "token has been revoked", env.Error.Message)

	// The linked refresh token dies with the session.
	status, _ = c.do(http.MethodPost, "/api/v1/auth/refresh", refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRefreshIssuesLinkedAccessToken(t *testing.T) {
	c := newClient(t)
	_, refresh := login(c, "root", "root-password")

	status, env := c.do(http.MethodPost, "/api/v1/auth/refresh", refresh, nil)
	require.Equal(t, http.StatusOK, status)

	var token struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &token))

	status, _ = c.do(http.MethodGet, "/api/v1/auth/me", token.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)

	// Logging out with the refreshed token also revokes the refresh token.
	status, _ = c.do(http.MethodPost, "/api/v1/auth/logout", token.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = c.do(http.MethodPost, "/api/v1/auth/refresh", refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCatalogAccessControlAndIntegrity(t *testing.T) {
	c := newClient(t)
	admin, _ := login(c, "root", "root-password")

	status, _ := c.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "bob", "email": "bob@x.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, status)
	bob, _ := login(c, "bob", "secret123")

	status, env := c.do(http.MethodPost, "/api/v1/publishers", bob, map[string]string{"name": "Acme"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, env.Error.Message, "no roles assigned")

	status, _ = c.do(http.MethodPost, "/api/v1/publishers", admin, map[string]string{"name": "Acme"})
	require.Equal(t, http.StatusCreated, status)
	status, env = c.do(http.MethodPost, "/api/v1/publishers", admin, map[string]string{"name": "Acme"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	status, env = c.do(http.MethodPost, "/api/v1/authors", admin, map[string]any{"first_name": "Frank", "last_name": "Herbert"})
	require.Equal(t, http.StatusCreated, status)
	var author struct {
		ID int `json:"author_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &author))

	status, _ = c.do(http.MethodPost, "/api/v1/books", admin, map[string]any{
		"title": "Dune", "author_ids": []int{author.ID, 999999},
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = c.do(http.MethodGet, "/api/v1/books", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))

	status, env = c.do(http.MethodPost, "/api/v1/books", admin, map[string]any{
		"title": "Dune", "price": "9.99", "isbn": "9780441013593", "author_ids": []int{author.ID},
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Contains(t, string(env.Data), `"price":"9.99"`)
	assert.Contains(t, string(env.Data), "Herbert")

	status, env = c.do(http.MethodPost, "/api/v1/books", admin, map[string]any{
		"title": "Children of Dune", "price": 12.5, "author_ids": []int{author.ID},
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Contains(t, string(env.Data), `"price":"12.50"`)

	status, _ = c.do(http.MethodGet, "/api/v1/audit?action=book.create&status=success", admin, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = c.do(http.MethodGet, "/api/v1/audit", bob, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestOwnershipAndRoleAssignment(t *testing.T) {
	c := newClient(t)
	admin, _ := login(c, "root", "root-password")

	status, env := c.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "carol", "email": "carol@x.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, status)
	var carol struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &carol))
	token, _ := login(c, "carol", "secret123")

	// Owner without roles may update their own record.
	status, _ = c.do(http.MethodPut, "/api/v1/users/"+carol.ID, token, map[string]string{"email": "carol@y.com"})
	assert.Equal(t, http.StatusOK, status)

	var roles []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	status, env = c.do(http.MethodGet, "/api/v1/roles", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &roles))
	editorID := 0
	for _, role := range roles {
		if role.Name == "editor" {
			editorID = role.ID
		}
	}
	require.NotZero(t, editorID)

	for i := 0; i < 2; i++ {
		status, env = c.do(http.MethodPost, "/api/v1/users/"+carol.ID+"/roles", admin, map[string]int{"role_id": editorID})
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, string(env.Data), `"editor"`)
	}

	status, _ = c.do(http.MethodPost, "/api/v1/authors", token, map[string]any{"first_name": "Ursula", "last_name": "Le Guin"})
	assert.Equal(t, http.StatusCreated, status)

	status, _ = c.do(http.MethodDelete, "/api/v1/users/"+carol.ID+"/roles/"+itoa(editorID), admin, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = c.do(http.MethodDelete, "/api/v1/users/"+carol.ID+"/roles/"+itoa(editorID), admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestProbesArePublic(t *testing.T) {
	c := newClient(t)

	status, _ := c.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
