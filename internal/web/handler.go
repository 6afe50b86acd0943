package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/hoosfit/internal/accounts"
	"github.com/2beens/hoosfit/internal/auth"
	"github.com/2beens/hoosfit/internal/fitness/awards"
	"github.com/2beens/hoosfit/internal/fitness/exercises"
	"github.com/2beens/hoosfit/internal/fitness/profiles"
	"github.com/2beens/hoosfit/internal/fitness/workouts"
	"github.com/2beens/hoosfit/internal/middleware"
	"github.com/2beens/hoosfit/internal/telemetry/metrics"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type accountsService interface {
	Register(ctx context.Context, username, password string) (*accounts.Account, error)
	Authenticate(ctx context.Context, username, password string) (*accounts.Account, error)
	GetByUsername(ctx context.Context, username string) (*accounts.Account, error)
}

type sessionService interface {
	Login(ctx context.Context, username string, createdAt time.Time) (string, error)
	Logout(ctx context.Context, token string) error
}

type profilesService interface {
	View(ctx context.Context, username string) (*profiles.Profile, error)
	Leaderboard(ctx context.Context, limit int) ([]profiles.Profile, error)
}

type exercisesService interface {
	RegisterDefinition(ctx context.Context, accountID int, name string) (*exercises.Definition, bool, error)
	ListDefinitions(ctx context.Context, accountID int) ([]exercises.Definition, error)
	RecentLog(ctx context.Context, accountID int) ([]exercises.LogEntry, error)
	WorkoutLogToday(ctx context.Context, accountID, workoutID int) ([]exercises.LogEntry, error)
}

type workoutsService interface {
	Create(ctx context.Context, accountID int, name string, definitionIDs []int) (*workouts.Workout, error)
	Get(ctx context.Context, accountID, id int) (*workouts.Workout, error)
	List(ctx context.Context, accountID int) ([]workouts.Workout, error)
	LogReps(ctx context.Context, accountID, workoutID int, entries []workouts.RepsEntry) (*workouts.LogResult, error)
}

type awardsLister interface {
	List(ctx context.Context, accountID int) ([]awards.Award, error)
}

type quoteSource interface {
	RandomQuote() string
}

type HandlerParams struct {
	Accounts      accountsService
	Sessions      sessionService
	Profiles      profilesService
	Exercises     exercisesService
	Workouts      workoutsService
	Awards        awardsLister
	Quotes        quoteSource
	Views         *Views
	Metrics       *metrics.Manager
	SessionTTL    time.Duration
	SecureCookies bool
}

type Handler struct {
	accounts      accountsService
	sessions      sessionService
	profiles      profilesService
	exercises     exercisesService
	workouts      workoutsService
	awards        awardsLister
	quotes        quoteSource
	views         *Views
	metrics       *metrics.Manager
	sessionTTL    time.Duration
	secureCookies bool
	now           func() time.Time
}

func NewHandler(params HandlerParams) *Handler {
	return &Handler{
		accounts:      params.Accounts,
		sessions:      params.Sessions,
		profiles:      params.Profiles,
		exercises:     params.Exercises,
		workouts:      params.Workouts,
		awards:        params.Awards,
		quotes:        params.Quotes,
		views:         params.Views,
		metrics:       params.Metrics,
		sessionTTL:    params.SessionTTL,
		secureCookies: params.SecureCookies,
		now:           time.Now,
	}
}

// SetupRoutes expects authMiddleware.Authenticate to already be in use on
// mainRouter.
func (h *Handler) SetupRoutes(
	mainRouter *mux.Router,
	authMiddleware *middleware.AuthMiddlewareHandler,
	rateLimiter middleware.RequestRateLimiter,
	allowedPerMin int,
) {
	mainRouter.HandleFunc("/", h.handleHome).Methods("GET").Name("home")
	mainRouter.HandleFunc("/leaderboard", h.handleLeaderboard).Methods("GET").Name("leaderboard")
	// before the profile subrouter, which would take "home" as a user
	mainRouter.HandleFunc("/profiles/home/", h.handleHome).Methods("GET").Name("profiles-home")

	accountsRouter := mainRouter.PathPrefix("/accounts").Subrouter()
	accountsRouter.HandleFunc("/login/", h.handleLoginPage).Methods("GET").Name("login-page")
	accountsRouter.HandleFunc("/login/", h.handleLogin).Methods("POST").Name("login")
	accountsRouter.HandleFunc("/signup/", h.handleSignupPage).Methods("GET").Name("signup-page")
	accountsRouter.HandleFunc("/signup/", h.handleSignup).Methods("POST").Name("signup")
	accountsRouter.HandleFunc("/logout/", h.handleLogout).Methods("GET", "POST").Name("logout")
	if rateLimiter != nil {
		// rate limit login and signup attempts to prevent abuse
		accountsRouter.Use(middleware.RateLimit(rateLimiter, "accounts", allowedPerMin, h.metrics))
	}

	profileRouter := mainRouter.PathPrefix("/profiles/{user}").Subrouter()
	profileRouter.HandleFunc("/", h.handleProfile).Methods("GET").Name("profile")
	profileRouter.HandleFunc("/exercise/", h.handleExercisePage).Methods("GET").Name("exercise-create")
	profileRouter.HandleFunc("/exercise/submit/", h.handleExerciseSubmit).Methods("POST").Name("exercise-submit")
	profileRouter.HandleFunc("/exercise/view/", h.handleExerciseList).Methods("GET").Name("exercise-view")
	profileRouter.HandleFunc("/workout/", h.handleWorkoutPage).Methods("GET").Name("workout-create")
	profileRouter.HandleFunc("/workout/submit/", h.handleWorkoutSubmit).Methods("POST").Name("workout-submit")
	profileRouter.HandleFunc("/workout/view/", h.handleWorkoutList).Methods("GET").Name("workout-view")
	profileRouter.HandleFunc("/workout/{id:[0-9]+}/", h.handleWorkoutStart).Methods("GET").Name("workout-start")
	profileRouter.HandleFunc("/workout/{id:[0-9]+}/submit/", h.handleWorkoutLog).Methods("POST").Name("workout-end")
	profileRouter.HandleFunc("/workout/{id:[0-9]+}/summary/", h.handleWorkoutSummary).Methods("GET").Name("workout-summary")
	profileRouter.HandleFunc("/awards/", h.handleAwards).Methods("GET").Name("award-view")
	profileRouter.Use(authMiddleware.RequireOwner())
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	username, _ := auth.UsernameFromContext(r.Context())
	h.views.Render(w, status, name, page{
		Title: title,
		User:  username,
		Data:  data,
	})
}

// owner returns the account of the {user} path segment. The auth middleware
// already made sure it is the logged user.
func (h *Handler) owner(w http.ResponseWriter, r *http.Request) (*accounts.Account, bool) {
	username := mux.Vars(r)["user"]
	account, err := h.accounts.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, accounts.ErrAccountNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return nil, false
		}
		internalError(w, fmt.Sprintf("get account %s", username), err)
		return nil, false
	}
	return account, true
}

func internalError(w http.ResponseWriter, what string, err error) {
	log.Errorf("%s: %s", what, err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func profilePath(username string, parts ...string) string {
	p := "/profiles/" + username + "/"
	for _, part := range parts {
		p += part + "/"
	}
	return p
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	if username, ok := auth.UsernameFromContext(r.Context()); ok {
		http.Redirect(w, r, profilePath(username), http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, "index", "", nil)
}

func (h *Handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	list, err := h.profiles.Leaderboard(r.Context(), 0)
	if err != nil {
		internalError(w, "leaderboard", err)
		return
	}
	h.render(w, r, http.StatusOK, "leaderboard", "Leaderboard", list)
}
