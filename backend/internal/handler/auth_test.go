package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	mw "github.com/itchan-dev/modcore/backend/internal/middleware"
	"github.com/itchan-dev/modcore/shared/domain"
	internal_errors "github.com/itchan-dev/modcore/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginHandler(t *testing.T) {
	route := "/manage/login"
	requestBody := []byte(`{"username": "mod", "password": "hunter2", "h-captcha-response": "token"}`)

	setup := func(auth *MockAuthService) *chi.Mux {
		h := &Handler{auth: auth, cfg: testConfig()}
		router := chi.NewRouter()
		router.Post(route, h.Login)
		return router
	}

	t.Run("successful login sets session cookie", func(t *testing.T) {
		var got domain.Credentials
		var gotRC domain.RequestContext
		router := setup(&MockAuthService{MockLogin: func(ctx context.Context, rc domain.RequestContext, creds domain.Credentials) (string, bool, error) {
			got, gotRC = creds, rc
			return "session-id", true, nil
		}})

		req := withStaff(createRequest(t, http.MethodPost, route, requestBody), domain.RequestContext{IP: "10.0.0.1"}, "")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, domain.Credentials{Username: "mod", Password: "hunter2", Captcha: "token"}, got)
		assert.Equal(t, "10.0.0.1", gotRC.IP)

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, mw.SessionCookie, cookies[0].Name)
		assert.Equal(t, "session-id", cookies[0].Value)
		assert.Equal(t, 3600, cookies[0].MaxAge)
		assert.True(t, cookies[0].HttpOnly)
		assert.True(t, cookies[0].Secure)
	})

	t.Run("wrong credentials", func(t *testing.T) {
		router := setup(&MockAuthService{})

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, createRequest(t, http.MethodPost, route, requestBody))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Empty(t, rr.Result().Cookies())
	})

	t.Run("invalid request body", func(t *testing.T) {
		router := setup(&MockAuthService{})

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, createRequest(t, http.MethodPost, route, []byte(`{ivalid json::}`)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing password", func(t *testing.T) {
		called := false
		router := setup(&MockAuthService{MockLogin: func(ctx context.Context, rc domain.RequestContext, creds domain.Credentials) (string, bool, error) {
			called = true
			return "", false, nil
		}})

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, createRequest(t, http.MethodPost, route, []byte(`{"username": "mod"}`)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.False(t, called)
	})

	t.Run("captcha rejected", func(t *testing.T) {
		router := setup(&MockAuthService{MockLogin: func(ctx context.Context, rc domain.RequestContext, creds domain.Credentials) (string, bool, error) {
			return "", false, &internal_errors.ErrorWithStatusCode{Message: "h-captcha validation failed", StatusCode: http.StatusBadRequest}
		}})

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, createRequest(t, http.MethodPost, route, requestBody))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "h-captcha validation failed")
	})

	t.Run("service error", func(t *testing.T) {
		router := setup(&MockAuthService{MockLogin: func(ctx context.Context, rc domain.RequestContext, creds domain.Credentials) (string, bool, error) {
			return "", false, errors.New("redis down")
		}})

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, createRequest(t, http.MethodPost, route, requestBody))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "redis down")
	})
}

func TestLogoutHandler(t *testing.T) {
	route := "/manage/logout"

	t.Run("destroys session and clears cookie", func(t *testing.T) {
		var gotID string
		var gotRC domain.RequestContext
		h := &Handler{cfg: testConfig(), auth: &MockAuthService{MockLogout: func(ctx context.Context, rc domain.RequestContext, sessionID string) error {
			gotID, gotRC = sessionID, rc
			return nil
		}}}
		router := chi.NewRouter()
		router.Post(route, h.Logout)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, withStaff(createRequest(t, http.MethodPost, route, nil), testStaff, "sid"))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "sid", gotID)
		assert.Equal(t, "mod", gotRC.Username)
		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, mw.SessionCookie, cookies[0].Name)
		assert.Empty(t, cookies[0].Value)
		assert.Equal(t, -1, cookies[0].MaxAge)
	})

	t.Run("store failure", func(t *testing.T) {
		h := &Handler{cfg: testConfig(), auth: &MockAuthService{MockLogout: func(ctx context.Context, rc domain.RequestContext, sessionID string) error {
			return errors.New("redis down")
		}}}

		rr := httptest.NewRecorder()
		h.Logout(rr, withStaff(createRequest(t, http.MethodPost, route, nil), testStaff, "sid"))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestMeHandler(t *testing.T) {
	h := &Handler{cfg: testConfig()}

	rr := httptest.NewRecorder()
	h.Me(rr, withStaff(createRequest(t, http.MethodGet, "/manage/me", nil), testStaff, "sid"))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var body meResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, meResponse{Username: "mod", Role: domain.RoleModerator, RoleName: "Mod"}, body)
}
