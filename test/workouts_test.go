//go:build integration_test || all_tests

package test

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

func (s *IntegrationTestSuite) TestExerciseNamesAreUniquePerUser() {
	browser := s.newBrowser()
	s.signup(browser, "alice", "correct-horse")

	first := s.createExercise(browser, "alice", "Push Up")
	second := s.createExercise(browser, "alice", "Push Up")
	s.Equal(first, second)

	var count int
	s.Require().NoError(s.DB.QueryRow(`SELECT COUNT(*) FROM exercise_definition`).Scan(&count))
	s.Equal(1, count)

	resp, body := s.get(browser, "/profiles/alice/exercise/view/")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(1, strings.Count(body, "Push Up"))
}

func (s *IntegrationTestSuite) TestWorkoutFlow() {
	browser := s.newBrowser()
	s.signup(browser, "alice", "correct-horse")

	pushUp := s.createExercise(browser, "alice", "Push Up")
	squat := s.createExercise(browser, "alice", "Squat")

	resp := s.postRaw(browser, "/profiles/alice/workout/submit/",
		fmt.Sprintf("workout_name=Morning&exercises=%d&exercises=%d", pushUp, squat))
	s.Require().Equal(http.StatusSeeOther, resp.StatusCode)

	location := resp.Header.Get("Location")
	s.Require().True(strings.HasPrefix(location, "/profiles/alice/workout/"))
	workoutID, err := strconv.Atoi(strings.Trim(strings.TrimPrefix(location, "/profiles/alice/workout/"), "/"))
	s.Require().NoError(err)

	resp, body := s.get(browser, location)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, `name="Push Up"`)
	s.Contains(body, `name="Squat"`)

	resp = s.postRaw(browser, fmt.Sprintf("/profiles/alice/workout/%d/submit/", workoutID),
		"Push+Up=10&Squat=25&Lunge=abc")
	s.Require().Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal(fmt.Sprintf("/profiles/alice/workout/%d/summary/", workoutID), resp.Header.Get("Location"))

	var streak, points int
	s.Require().NoError(s.DB.QueryRow(`
		SELECT p.streak, p.points FROM profile p
		JOIN account a ON a.id = p.account_id
		WHERE a.username = $1`, "alice").Scan(&streak, &points))
	s.Equal(1, streak)
	s.Equal(35, points)

	rows, err := s.DB.Query(`SELECT exercise_name, best_reps FROM award ORDER BY exercise_name`)
	s.Require().NoError(err)
	defer rows.Close()
	best := map[string]int{}
	for rows.Next() {
		var name string
		var reps int
		s.Require().NoError(rows.Scan(&name, &reps))
		best[name] = reps
	}
	s.Require().NoError(rows.Err())
	s.Equal(map[string]int{"Push Up": 10, "Squat": 25}, best)

	// same day: points grow, streak does not, award improves only on more reps
	resp = s.postRaw(browser, fmt.Sprintf("/profiles/alice/workout/%d/submit/", workoutID), "Push+Up=12&Squat=20")
	s.Require().Equal(http.StatusSeeOther, resp.StatusCode)

	s.Require().NoError(s.DB.QueryRow(`
		SELECT p.streak, p.points FROM profile p
		JOIN account a ON a.id = p.account_id
		WHERE a.username = $1`, "alice").Scan(&streak, &points))
	s.Equal(1, streak)
	s.Equal(67, points)

	var squatBest int
	s.Require().NoError(s.DB.QueryRow(`SELECT best_reps FROM award WHERE exercise_name = 'Squat'`).Scan(&squatBest))
	s.Equal(25, squatBest)

	resp, body = s.get(browser, fmt.Sprintf("/profiles/alice/workout/%d/summary/", workoutID))
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(4, strings.Count(body, "<tr><td>"))

	resp, body = s.get(browser, "/leaderboard")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "alice: 67 points, 1 day streak")
}

func (s *IntegrationTestSuite) TestWorkoutWithoutExercisesFallsBack() {
	browser := s.newBrowser()
	s.signup(browser, "alice", "correct-horse")

	resp := s.postForm(browser, "/profiles/alice/workout/submit/", url.Values{"workout_name": {"Empty"}})
	s.Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal("/profiles/alice/workout/", resp.Header.Get("Location"))

	var count int
	s.Require().NoError(s.DB.QueryRow(`SELECT COUNT(*) FROM workout`).Scan(&count))
	s.Zero(count)
}

func (s *IntegrationTestSuite) TestStaleStreakDecaysOnProfileView() {
	browser := s.newBrowser()
	s.signup(browser, "alice", "correct-horse")

	_, err := s.DB.Exec(`
		UPDATE profile SET streak = 5, last_workout = CURRENT_DATE - 3
		WHERE account_id = (SELECT id FROM account WHERE username = $1)`, "alice")
	s.Require().NoError(err)

	resp, body := s.get(browser, "/profiles/alice/")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "Streak: <strong>0</strong> days")

	var streak int
	s.Require().NoError(s.DB.QueryRow(`
		SELECT p.streak FROM profile p JOIN account a ON a.id = p.account_id
		WHERE a.username = $1`, "alice").Scan(&streak))
	s.Zero(streak)
}

func (s *IntegrationTestSuite) TestForeignWorkoutNotFound() {
	bob := s.newBrowser()
	s.signup(bob, "bob", "bob-password")
	bobSquat := s.createExercise(bob, "bob", "Squat")
	resp := s.postRaw(bob, "/profiles/bob/workout/submit/", fmt.Sprintf("workout_name=Legs&exercises=%d", bobSquat))
	s.Require().Equal(http.StatusSeeOther, resp.StatusCode)

	var bobWorkout int
	s.Require().NoError(s.DB.QueryRow(`SELECT id FROM workout`).Scan(&bobWorkout))

	alice := s.newBrowser()
	s.signup(alice, "alice", "correct-horse")
	resp, _ = s.get(alice, fmt.Sprintf("/profiles/alice/workout/%d/", bobWorkout))
	s.Equal(http.StatusNotFound, resp.StatusCode)

	resp = s.postRaw(alice, fmt.Sprintf("/profiles/alice/workout/%d/submit/", bobWorkout), "Squat=100")
	s.Equal(http.StatusNotFound, resp.StatusCode)

	var logged int
	s.Require().NoError(s.DB.QueryRow(`SELECT COUNT(*) FROM exercise_log`).Scan(&logged))
	s.Zero(logged)
}
