package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/hoosfit/internal/fitness/exercises"
	"github.com/2beens/hoosfit/internal/fitness/profiles"
	"github.com/2beens/hoosfit/internal/fitness/workouts"
	"github.com/2beens/hoosfit/internal/telemetry/tracing"
	"github.com/2beens/hoosfit/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type dashboard struct {
	Profile     *profiles.Profile
	Quote       string
	WeekEntries []exercises.LogEntry
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "webHandler.profile")
	defer span.End()

	username := mux.Vars(r)["user"]
	profile, err := h.profiles.View(ctx, username)
	if err != nil {
		if errors.Is(err, profiles.ErrProfileNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		internalError(w, "view profile "+username, err)
		return
	}

	week, err := h.exercises.RecentLog(ctx, profile.AccountID)
	if err != nil {
		internalError(w, "recent log of "+username, err)
		return
	}

	span.SetAttributes(attribute.Int("week.entries", len(week)))
	h.render(w, r, http.StatusOK, "profile", username, dashboard{
		Profile:     profile,
		Quote:       h.quotes.RandomQuote(),
		WeekEntries: week,
	})
}

func (h *Handler) handleExercisePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "exercise", "New exercise", nil)
}

// handleExerciseSubmit always lands on the listing: invalid names and
// duplicates are silently dropped.
func (h *Handler) handleExerciseSubmit(w http.ResponseWriter, r *http.Request) {
	account, ok := h.owner(w, r)
	if !ok {
		return
	}
	// PostForm keeps the pairs that did parse
	if err := r.ParseForm(); err != nil {
		log.Debugf("exercise submit by %s: parse form: %s", account.Username, err)
	}

	def, created, err := h.exercises.RegisterDefinition(r.Context(), account.ID, r.PostForm.Get("exercise_name"))
	switch {
	case errors.Is(err, exercises.ErrInvalidName):
		log.Debugf("exercise submit by %s ignored: %s", account.Username, err)
	case err != nil:
		internalError(w, "register exercise", err)
		return
	case created:
		h.metrics.CounterExercisesCreated.Inc()
		log.Debugf("exercise [%s] created by %s", def.Name, account.Username)
	default:
		log.Debugf("exercise [%s] of %s already exists", def.Name, account.Username)
	}

	pkg.SeeOther(w, r, profilePath(account.Username, "exercise", "view"))
}

func (h *Handler) handleExerciseList(w http.ResponseWriter, r *http.Request) {
	account, ok := h.owner(w, r)
	if !ok {
		return
	}
	defs, err := h.exercises.ListDefinitions(r.Context(), account.ID)
	if err != nil {
		internalError(w, "list exercises", err)
		return
	}
	h.render(w, r, http.StatusOK, "view_exercise", "Exercises", defs)
}

func (h *Handler) handleWorkoutPage(w http.ResponseWriter, r *http.Request) {
	account, ok := h.owner(w, r)
	if !ok {
		return
	}
	defs, err := h.exercises.ListDefinitions(r.Context(), account.ID)
	if err != nil {
		internalError(w, "list exercises", err)
		return
	}
	h.render(w, r, http.StatusOK, "workout", "New workout", defs)
}

func (h *Handler) handleWorkoutSubmit(w http.ResponseWriter, r *http.Request) {
	account, ok := h.owner(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		log.Debugf("workout submit by %s: parse form: %s", account.Username, err)
	}

	var ids []int
	for _, raw := range r.PostForm["exercises"] {
		id, err := strconv.Atoi(raw)
		if err != nil {
			log.Debugf("workout submit by %s: ignoring exercise id %q", account.Username, raw)
			continue
		}
		ids = append(ids, id)
	}

	workout, err := h.workouts.Create(r.Context(), account.ID, r.PostForm.Get("workout_name"), ids)
	switch {
	case errors.Is(err, exercises.ErrInvalidName), errors.Is(err, workouts.ErrNoExercises):
		log.Debugf("workout submit by %s ignored: %s", account.Username, err)
		pkg.SeeOther(w, r, profilePath(account.Username, "workout"))
		return
	case err != nil:
		internalError(w, "create workout", err)
		return
	}

	h.metrics.CounterWorkoutsCreated.Inc()
	pkg.SeeOther(w, r, profilePath(account.Username, "workout", strconv.Itoa(workout.ID)))
}

func (h *Handler) handleWorkoutList(w http.ResponseWriter, r *http.Request) {
	account, ok := h.owner(w, r)
	if !ok {
		return
	}
	list, err := h.workouts.List(r.Context(), account.ID)
	if err != nil {
		internalError(w, "list workouts", err)
		return
	}
	h.render(w, r, http.StatusOK, "view_workouts", "Workouts", list)
}

// workout loads the {id} workout of the owner, answering 404 for unknown
// ids and for workouts of other users.
func (h *Handler) workout(w http.ResponseWriter, r *http.Request, accountID int) (*workouts.Workout, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return nil, false
	}

	workout, err := h.workouts.Get(r.Context(), accountID, id)
	if err != nil {
		if errors.Is(err, workouts.ErrWorkoutNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return nil, false
		}
		internalError(w, "get workout", err)
		return nil, false
	}
	return workout, true
}

func (h *Handler) handleWorkoutStart(w http.ResponseWriter, r *http.Request) {
	account, ok := h.owner(w, r)
	if !ok {
		return
	}
	workout, ok := h.workout(w, r, account.ID)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, "workout_form", workout.Name, workout)
}

func (h *Handler) handleWorkoutLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "webHandler.workoutLog")
	defer span.End()

	account, ok := h.owner(w, r)
	if !ok {
		return
	}
	workoutID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	summaryPath := profilePath(account.Username, "workout", strconv.Itoa(workoutID), "summary")

	entries, undecodable, err := parseRepsForm(w, r)
	if err != nil {
		log.Warnf("log workout %d of %s, nothing logged: %s", workoutID, account.Username, err)
		pkg.SeeOther(w, r, summaryPath)
		return
	}

	result, err := h.workouts.LogReps(ctx, account.ID, workoutID, entries)
	if err != nil {
		if errors.Is(err, workouts.ErrWorkoutNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		internalError(w, "log workout", err)
		return
	}

	h.metrics.CounterRepsLogged.Add(float64(result.Points))
	h.metrics.CounterLogEntriesSkipped.Add(float64(result.Skipped + undecodable))
	h.metrics.CounterAwardsEarned.WithLabelValues("new").Add(float64(len(result.NewAwards)))
	h.metrics.CounterAwardsEarned.WithLabelValues("improved").Add(float64(len(result.ImprovedAwards)))
	log.Infof(
		"workout %d of %s logged: %d processed, %d skipped, %d points",
		workoutID, account.Username, result.Processed, result.Skipped+undecodable, result.Points,
	)

	pkg.SeeOther(w, r, summaryPath)
}

func (h *Handler) handleWorkoutSummary(w http.ResponseWriter, r *http.Request) {
	account, ok := h.owner(w, r)
	if !ok {
		return
	}
	workout, ok := h.workout(w, r, account.ID)
	if !ok {
		return
	}
	entries, err := h.exercises.WorkoutLogToday(r.Context(), account.ID, workout.ID)
	if err != nil {
		internalError(w, "workout summary", err)
		return
	}
	h.render(w, r, http.StatusOK, "workout_summary", "Summary", entries)
}

func (h *Handler) handleAwards(w http.ResponseWriter, r *http.Request) {
	account, ok := h.owner(w, r)
	if !ok {
		return
	}
	list, err := h.awards.List(r.Context(), account.ID)
	if err != nil {
		internalError(w, "list awards", err)
		return
	}
	h.render(w, r, http.StatusOK, "view_awards", "Awards", list)
}
