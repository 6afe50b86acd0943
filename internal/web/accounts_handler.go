package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/2beens/hoosfit/internal/accounts"
	"github.com/2beens/hoosfit/internal/auth"
	"github.com/2beens/hoosfit/pkg"

	log "github.com/sirupsen/logrus"
)

type accountForm struct {
	Username string
	Next     string
	Error    string
}

// safeNext only allows redirects within the site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}

func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if username, ok := auth.UsernameFromContext(r.Context()); ok {
		http.Redirect(w, r, profilePath(username), http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, "login", "Log in", accountForm{
		Next: safeNext(r.URL.Query().Get("next")),
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "parse form error", http.StatusBadRequest)
		return
	}

	form := accountForm{
		Username: strings.TrimSpace(r.PostForm.Get("username")),
		Next:     safeNext(r.PostForm.Get("next")),
	}

	account, err := h.accounts.Authenticate(r.Context(), form.Username, r.PostForm.Get("password"))
	if err != nil {
		if errors.Is(err, accounts.ErrWrongCredentials) {
			log.Warnf("failed login for [%s]", form.Username)
			form.Error = "Wrong username or password."
			h.render(w, r, http.StatusOK, "login", "Log in", form)
			return
		}
		internalError(w, "login", err)
		return
	}

	if !h.startSession(w, r, account.Username) {
		return
	}

	target := form.Next
	if target == "" {
		target = profilePath(account.Username)
	}
	pkg.SeeOther(w, r, target)
}

func (h *Handler) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	if username, ok := auth.UsernameFromContext(r.Context()); ok {
		http.Redirect(w, r, profilePath(username), http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, "signup", "Sign up", accountForm{})
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "parse form error", http.StatusBadRequest)
		return
	}

	form := accountForm{
		Username: strings.TrimSpace(r.PostForm.Get("username")),
	}
	password := r.PostForm.Get("password1")
	if password != r.PostForm.Get("password2") {
		form.Error = "The two password fields didn't match."
		h.render(w, r, http.StatusOK, "signup", "Sign up", form)
		return
	}

	account, err := h.accounts.Register(r.Context(), form.Username, password)
	switch {
	case err == nil:
	case errors.Is(err, accounts.ErrUsernameTaken):
		form.Error = "A user with that username already exists."
	case errors.Is(err, accounts.ErrInvalidUsername):
		form.Error = "Enter a valid username of up to 150 letters, digits and @/./+/-/_ characters."
	case errors.Is(err, accounts.ErrPasswordTooShort):
		form.Error = "This password is too short. It must contain at least 8 characters."
	default:
		internalError(w, "signup", err)
		return
	}
	if form.Error != "" {
		h.render(w, r, http.StatusOK, "signup", "Sign up", form)
		return
	}

	h.metrics.CounterSignups.Inc()

	if !h.startSession(w, r, account.Username) {
		return
	}
	pkg.SeeOther(w, r, profilePath(account.Username))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Logout(r.Context(), cookie.Value); err != nil && !errors.Is(err, auth.ErrSessionNotFound) {
			internalError(w, "logout", err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	pkg.SeeOther(w, r, "/")
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, username string) bool {
	token, err := h.sessions.Login(r.Context(), username, h.now())
	if err != nil {
		internalError(w, "create session", err)
		return false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	log.Debugf("session started for %s", username)
	return true
}
