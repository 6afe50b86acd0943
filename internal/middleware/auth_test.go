package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/hoosfit/internal/auth"
	"github.com/2beens/hoosfit/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuthMiddlewareHandler_Authenticate(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockChecker := NewMocksessionChecker(ctrl)
	authMiddleware := middleware.NewAuthMiddlewareHandler(mockChecker)

	testCases := []struct {
		name         string
		token        string
		mockUser     string
		mockErr      error
		expectedUser string
	}{
		{
			name: "NoCookie",
		},
		{
			name:         "ValidSession",
			token:        "valid-token",
			mockUser:     "serj",
			expectedUser: "serj",
		},
		{
			name:    "ExpiredSession",
			token:   "old-token",
			mockErr: auth.ErrSessionExpired,
		},
		{
			name:    "RedisDown",
			token:   "some-token",
			mockErr: errors.New("connection refused"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/leaderboard", nil)
			if tc.token != "" {
				req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: tc.token})
				mockChecker.EXPECT().
					LoggedUser(gomock.Any(), tc.token).
					Return(tc.mockUser, tc.mockErr)
			}

			var gotUser string
			var called bool
			handler := authMiddleware.Authenticate()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				gotUser, _ = auth.UsernameFromContext(r.Context())
			}))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.True(t, called)
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tc.expectedUser, gotUser)
		})
	}
}

func TestAuthMiddlewareHandler_RequireOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockChecker := NewMocksessionChecker(ctrl)
	authMiddleware := middleware.NewAuthMiddlewareHandler(mockChecker)

	r := mux.NewRouter()
	r.Use(authMiddleware.Authenticate())
	profileRouter := r.PathPrefix("/profiles/{user}").Subrouter()
	profileRouter.Use(authMiddleware.RequireOwner())
	profileRouter.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("anonymous is redirected to login", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/profiles/serj/", nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/accounts/login/?next=%2Fprofiles%2Fserj%2F", rr.Header().Get("Location"))
	})

	t.Run("owner passes", func(t *testing.T) {
		mockChecker.EXPECT().LoggedUser(gomock.Any(), "tok-serj").Return("serj", nil)
		req := httptest.NewRequest(http.MethodGet, "/profiles/serj/", nil)
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "tok-serj"})
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		mockChecker.EXPECT().LoggedUser(gomock.Any(), "tok-mike").Return("mike", nil)
		req := httptest.NewRequest(http.MethodGet, "/profiles/serj/", nil)
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "tok-mike"})
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		require.Equal(t, http.StatusForbidden, rr.Code)
	})
}
