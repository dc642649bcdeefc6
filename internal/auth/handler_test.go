package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jualabs/juajobs/internal/auth"
	mware "github.com/jualabs/juajobs/internal/middleware"
	"github.com/jualabs/juajobs/internal/store/memory"
	"github.com/jualabs/juajobs/internal/validation"
)

var secret = []byte("test-secret")

func newHandler() (*auth.Handler, *memory.Memory) {
	st := memory.New()
	return auth.NewHandler(st, nil, validation.New(), secret, zerolog.Nop()), st
}

func doJSON(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func router(h *auth.Handler) *echo.Echo {
	e := echo.New()
	e.POST("/auth/signup", h.Signup)
	e.POST("/auth/login", h.Login)
	e.GET("/auth/me", h.Me, mware.JWT(secret))
	return e
}

const signupBody = `{"email":"jane@example.com","username":"jane","password":"password123","role":"worker","phone_number":"+254712345678","country":"KE"}`

func TestSignupLoginMe(t *testing.T) {
	h, _ := newHandler()
	e := router(h)

	rec := doJSON(e, http.MethodPost, "/auth/signup", signupBody, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var signup struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signup))
	require.NotEmpty(t, signup.Token)

	rec = doJSON(e, http.MethodPost, "/auth/login", `{"email":"jane@example.com","password":"password123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	rec = doJSON(e, http.MethodGet, "/auth/me", "", login.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"jane@example.com"`)
	assert.NotContains(t, rec.Body.String(), "password", "hashes never leave the server")
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	h, _ := newHandler()
	e := router(h)

	require.Equal(t, http.StatusCreated, doJSON(e, http.MethodPost, "/auth/signup", signupBody, "").Code)

	rec := doJSON(e, http.MethodPost, "/auth/signup", signupBody, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "duplicate_email")
}

func TestSignupValidation(t *testing.T) {
	h, _ := newHandler()
	e := router(h)

	cases := map[string]string{
		"bad role":      `{"email":"a@example.com","username":"a","password":"password123","role":"admin"}`,
		"short pass":    `{"email":"a@example.com","username":"a","password":"x","role":"worker"}`,
		"missing email": `{"username":"a","password":"password123","role":"worker"}`,
		"bad phone":     `{"email":"a@example.com","username":"a","password":"password123","role":"worker","phone_number":"12345","country":"KE"}`,
	}
	for name, body := range cases {
		rec := doJSON(e, http.MethodPost, "/auth/signup", body, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h, _ := newHandler()
	e := router(h)
	require.Equal(t, http.StatusCreated, doJSON(e, http.MethodPost, "/auth/signup", signupBody, "").Code)

	rec := doJSON(e, http.MethodPost, "/auth/login", `{"email":"jane@example.com","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodPost, "/auth/login", `{"email":"ghost@example.com","password":"password123"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeRequiresToken(t *testing.T) {
	h, _ := newHandler()
	e := router(h)

	rec := doJSON(e, http.MethodGet, "/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodGet, "/auth/me", "", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
