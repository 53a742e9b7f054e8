package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zonetrack/apiserver/internal/validation"
	"github.com/zonetrack/apiserver/types"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func authRoutes(users *fakeUsers, limiter LoginThrottle) func(chi.Router) {
	return func(r chi.Router) {
		r.Route("/api/auth", func(r chi.Router) {
			AuthRouter(r, NewAuthHandler(users, limiter, testSecret, time.Hour, validation.New(), zap.NewNop()))
		})
	}
}

func TestLoginAndMe(t *testing.T) {
	users := newFakeUsers()
	users.password = "secret1"
	users.users[7] = types.User{ID: 7, Name: "Dee", Email: "dee@example.com"}

	rec := serve(t, authRoutes(users, newLimiter(3)), http.MethodPost, "/api/auth/login", `{"email":"DEE@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, 7, resp.User.ID)

	rec = serve(t, authRoutes(users, newLimiter(3)), http.MethodGet, "/api/auth/me", "", "Authorization", "Bearer "+resp.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Dee"`)
}

func TestMeRequiresToken(t *testing.T) {
	users := newFakeUsers()

	rec := serve(t, authRoutes(users, newLimiter(3)), http.MethodGet, "/api/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(t, authRoutes(users, newLimiter(3)), http.MethodGet, "/api/auth/me", "", "Authorization", "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := issueToken(55, []byte(testSecret), time.Hour)
	require.NoError(t, err)
	rec = serve(t, authRoutes(users, newLimiter(3)), http.MethodGet, "/api/auth/me", "", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	other, err := issueToken(55, []byte("other"), time.Hour)
	require.NoError(t, err)
	_, err = parseTokenSubject(other, []byte(testSecret))
	assert.Error(t, err)
}

func TestLoginLockout(t *testing.T) {
	users := newFakeUsers()
	users.password = "secret1"
	users.users[1] = types.User{ID: 1, Email: "eve@example.com"}
	limiter := newLimiter(2)
	routes := authRoutes(users, limiter)

	for i := 0; i < 2; i++ {
		rec := serve(t, routes, http.MethodPost, "/api/auth/login", `{"email":"eve@example.com","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := serve(t, routes, http.MethodPost, "/api/auth/login", `{"email":"eve@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestLoginValidation(t *testing.T) {
	rec := serve(t, authRoutes(newFakeUsers(), newLimiter(3)), http.MethodPost, "/api/auth/login", `{"email":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBearerToken(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	_, err := bearerToken(req)
	assert.Error(t, err)

	req.Header.Set("Authorization", "Basic abc")
	_, err = bearerToken(req)
	assert.Error(t, err)

	req.Header.Set("Authorization", "bearer  tok ")
	token, err := bearerToken(req)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}

func TestLoginRejectsOversizedPassword(t *testing.T) {
	users := newFakeUsers()
	users.users[1] = types.User{ID: 1, Email: "eve@example.com"}

	body := `{"email":"eve@example.com","password":"` + strings.Repeat("x", 80) + `"}`
	rec := serve(t, authRoutes(users, newLimiter(3)), http.MethodPost, "/api/auth/login", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
