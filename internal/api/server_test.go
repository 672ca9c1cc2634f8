package api

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json/v2"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/millukiapp/milluki-server/internal/auth"
	"github.com/millukiapp/milluki-server/internal/http/response"
	"github.com/millukiapp/milluki-server/internal/ratelimit"
	"github.com/millukiapp/milluki-server/internal/service"
	"github.com/millukiapp/milluki-server/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer builds a full server over temporary storage.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	tmpDir := t.TempDir()

	s, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)
	tokenService, err := auth.NewTokenService(hex.EncodeToString(authKey), 0)
	require.NoError(t, err)

	return NewServer(
		service.NewAuthService(s, tokenService, nil),
		service.NewCollectionService(s, nil),
		service.NewBookService(s, nil),
		service.NewGenreService(s, nil),
		nil, // no login throttle in tests unless a test installs one
		nil,
	)
}

// doJSON performs a request with an optional JSON body and token.
func doJSON(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.MarshalWrite(&buf, body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

// decodeEnvelope parses the standard response envelope.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

// registerUser registers a user and returns the token from the header.
func registerUser(t *testing.T, srv *Server, name, email string) string {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/api/users", "", map[string]string{
		"name": name, "email": email, "password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	token := rec.Header().Get(TokenHeader)
	require.NotEmpty(t, token)
	return token
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
}

func TestRegisterEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/users", "", map[string]string{
		"name": "Ada Lovelace", "email": "ada@example.com", "password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(TokenHeader))

	body := rec.Body.String()
	assert.Contains(t, body, "ada@example.com")
	assert.NotContains(t, body, "password_hash", "hash must never reach the wire")
}

func TestRegisterEndpoint_DuplicateEmail(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "Ada", "ada@example.com")

	rec := doJSON(t, srv, http.MethodPost, "/api/users", "", map[string]string{
		"name": "Imposter", "email": "ada@example.com", "password": "other-horse",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterEndpoint_InvalidBody(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginEndpoint(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "Ada", "ada@example.com")

	rec := doJSON(t, srv, http.MethodPost, "/api/auth", "", map[string]string{
		"email": "ada@example.com", "password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(TokenHeader))
	assert.Contains(t, rec.Body.String(), `"token"`)
}

func TestLoginEndpoint_BadCredentials(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "Ada", "ada@example.com")

	rec := doJSON(t, srv, http.MethodPost, "/api/auth", "", map[string]string{
		"email": "ada@example.com", "password": "wrong-horse",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/auth", "", map[string]string{
		"email": "nobody@example.com", "password": "correct-horse",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginEndpoint_RateLimited(t *testing.T) {
	srv := newTestServer(t)
	srv.loginLimiter = ratelimit.New(0.001, 2)
	t.Cleanup(srv.loginLimiter.Stop)

	registerUser(t, srv, "Ada", "ada@example.com")

	body := map[string]string{"email": "ada@example.com", "password": "wrong-horse"}
	doJSON(t, srv, http.MethodPost, "/api/auth", "", body)
	doJSON(t, srv, http.MethodPost, "/api/auth", "", body)

	rec := doJSON(t, srv, http.MethodPost, "/api/auth", "", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestCurrentUserEndpoint(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "Ada", "ada@example.com")

	rec := doJSON(t, srv, http.MethodGet, "/api/auth", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ada@example.com")
}

func TestAuthGate(t *testing.T) {
	srv := newTestServer(t)

	// Missing token is 401.
	rec := doJSON(t, srv, http.MethodGet, "/api/collections", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Malformed token is 400.
	rec = doJSON(t, srv, http.MethodGet, "/api/collections", "not-a-token", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCollectionLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "Ada", "ada@example.com")

	// Create.
	rec := doJSON(t, srv, http.MethodPost, "/api/collections", token, map[string]any{
		"name": "To Read",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data struct {
			ID       string `json:"id"`
			IsPublic bool   `json:"is_public"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	collID := created.Data.ID
	assert.True(t, created.Data.IsPublic)

	// List own collections.
	rec = doJSON(t, srv, http.MethodGet, "/api/collections", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), collID)

	// Rename via merge patch.
	rec = doJSON(t, srv, http.MethodPut, "/api/collections/"+collID, token, map[string]any{
		"name": "Reading Now",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Reading Now")

	// Delete echoes the last state.
	rec = doJSON(t, srv, http.MethodDelete, "/api/collections/"+collID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Reading Now")

	rec = doJSON(t, srv, http.MethodGet, "/api/collections/"+collID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCollectionVisibility(t *testing.T) {
	srv := newTestServer(t)
	owner := registerUser(t, srv, "Ada", "ada@example.com")
	stranger := registerUser(t, srv, "Grace", "grace@example.com")

	rec := doJSON(t, srv, http.MethodPost, "/api/collections", owner, map[string]any{
		"name": "Secret Shelf", "is_public": false,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	collID := created.Data.ID

	// The owner reads it; a stranger gets 403.
	rec = doJSON(t, srv, http.MethodGet, "/api/collections/"+collID, owner, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, srv, http.MethodGet, "/api/collections/"+collID, stranger, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// A stranger's write is a 400, not a 403.
	rec = doJSON(t, srv, http.MethodPut, "/api/collections/"+collID, stranger, map[string]any{
		"name": "Hijacked",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCollectionBooks(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "Ada", "ada@example.com")

	// Seed a book and a collection.
	rec := doJSON(t, srv, http.MethodPost, "/api/books", "", map[string]any{
		"title": "Oliver Twist", "author": "Charles Dickens",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var book struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &book))

	rec = doJSON(t, srv, http.MethodPost, "/api/collections", token, map[string]any{"name": "To Read"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var coll struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &coll))

	// Attach.
	rec = doJSON(t, srv, http.MethodPost, "/api/collections/"+coll.Data.ID, token, map[string]string{
		"book_id": book.Data.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Oliver Twist")

	// Attaching again is a conflict surfaced as 400.
	rec = doJSON(t, srv, http.MethodPost, "/api/collections/"+coll.Data.ID, token, map[string]string{
		"book_id": book.Data.ID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Attaching a missing book is 404.
	rec = doJSON(t, srv, http.MethodPost, "/api/collections/"+coll.Data.ID, token, map[string]string{
		"book_id": "book-missing",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Detach.
	rec = doJSON(t, srv, http.MethodDelete, "/api/collections/"+coll.Data.ID+"/books/"+book.Data.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Oliver Twist")
}

func TestBookEndpoints(t *testing.T) {
	srv := newTestServer(t)

	// The catalog is open: no token needed.
	rec := doJSON(t, srv, http.MethodPost, "/api/books", "", map[string]any{
		"title": "Hard Times", "year": 1854,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var book struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &book))

	rec = doJSON(t, srv, http.MethodGet, "/api/books", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hard Times")

	rec = doJSON(t, srv, http.MethodPut, "/api/books/"+book.Data.ID, "", map[string]any{
		"author": "Charles Dickens",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Charles Dickens")
	assert.Contains(t, rec.Body.String(), "Hard Times")

	rec = doJSON(t, srv, http.MethodDelete, "/api/books/"+book.Data.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/books/"+book.Data.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenreEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/genres", "", map[string]string{"name": "Mystery"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var genre struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &genre))

	// Duplicate name is 400.
	rec = doJSON(t, srv, http.MethodPost, "/api/genres", "", map[string]string{"name": "mystery"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodPut, "/api/genres/"+genre.Data.ID, "", map[string]string{"name": "Thriller"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/api/genres/"+genre.Data.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Thriller")
}

func TestTokenBoundToIdentity(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "Ada", "ada@example.com")

	claims, err := srv.authService.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Email)

	user, err := srv.authService.GetUser(context.Background(), claims.IdentityID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
}
