package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/2beens/hoosfit/internal/auth"
	"github.com/2beens/hoosfit/internal/telemetry/tracing"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const LoginPath = "/accounts/login/"

type sessionChecker interface {
	LoggedUser(ctx context.Context, token string) (string, error)
}

type AuthMiddlewareHandler struct {
	checker sessionChecker
}

func NewAuthMiddlewareHandler(checker sessionChecker) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		checker: checker,
	}
}

// Authenticate resolves the session cookie, if any, and puts the logged
// user into the request context. It never rejects a request.
func (h *AuthMiddlewareHandler) Authenticate() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			username, err := h.checker.LoggedUser(ctx, cookie.Value)
			switch {
			case err == nil:
				span.SetAttributes(attribute.String("username", username))
				span.SetStatus(codes.Ok, "ok")
				r = r.WithContext(auth.WithUsername(r.Context(), username))
			case errors.Is(err, auth.ErrSessionNotFound), errors.Is(err, auth.ErrSessionExpired):
				log.Tracef("[auth middleware] stale session => %s: %s", r.URL.Path, err)
				span.SetStatus(codes.Ok, "stale-session")
			default:
				log.Errorf("[failed login check] => %s: %s", r.URL.Path, err)
				span.SetStatus(codes.Error, "check-logged-err")
				span.RecordError(err)
			}
			span.End()

			next.ServeHTTP(w, r)
		})
	}
}

// RequireOwner guards the /profiles/{user}/ pages: anonymous visitors are
// sent to the login page, other users get 403.
func (h *AuthMiddlewareHandler) RequireOwner() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, ok := auth.UsernameFromContext(r.Context())
			if !ok {
				log.Tracef("[auth middleware] not logged => %s", r.URL.Path)
				http.Redirect(w, r, LoginPath+"?next="+url.QueryEscape(r.URL.Path), http.StatusFound)
				return
			}

			if owner := mux.Vars(r)["user"]; owner != username {
				log.Warnf("[auth middleware] user %s tried to access %s", username, r.URL.Path)
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
