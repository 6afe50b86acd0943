//go:build integration_test || all_tests

package test

import (
	"net/http"
	"net/url"
)

func (s *IntegrationTestSuite) TestSignupCreatesProfile() {
	browser := s.newBrowser()
	s.signup(browser, "alice", "correct-horse")

	var streak, points int
	var lastWorkoutIsYesterday bool
	s.Require().NoError(s.DB.QueryRow(`
		SELECT p.streak, p.points, p.last_workout = CURRENT_DATE - 1
		FROM profile p JOIN account a ON a.id = p.account_id
		WHERE a.username = $1`, "alice").Scan(&streak, &points, &lastWorkoutIsYesterday))
	s.Equal(0, streak)
	s.Equal(0, points)
	s.True(lastWorkoutIsYesterday)

	resp, body := s.get(browser, "/profiles/alice/")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "Nothing logged this week")
}

func (s *IntegrationTestSuite) TestSignupDuplicateUsername() {
	s.signup(s.newBrowser(), "alice", "correct-horse")

	resp := s.postForm(s.newBrowser(), "/accounts/signup/", url.Values{
		"username":  {"alice"},
		"password1": {"another-pass"},
		"password2": {"another-pass"},
	})
	s.Equal(http.StatusOK, resp.StatusCode)

	var count int
	s.Require().NoError(s.DB.QueryRow(`SELECT COUNT(*) FROM account WHERE username = $1`, "alice").Scan(&count))
	s.Equal(1, count)
}

func (s *IntegrationTestSuite) TestLoginLogout() {
	s.signup(s.newBrowser(), "alice", "correct-horse")

	browser := s.newBrowser()
	resp := s.postForm(browser, "/accounts/login/", url.Values{
		"username": {"alice"},
		"password": {"wrong-horse"},
	})
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, _ = s.get(browser, "/profiles/alice/")
	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/accounts/login/?next=%2Fprofiles%2Falice%2F", resp.Header.Get("Location"))

	resp = s.postForm(browser, "/accounts/login/", url.Values{
		"username": {"alice"},
		"password": {"correct-horse"},
		"next":     {"/profiles/alice/awards/"},
	})
	s.Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal("/profiles/alice/awards/", resp.Header.Get("Location"))

	resp, body := s.get(browser, "/profiles/alice/awards/")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "No awards earned yet :(")

	resp = s.postForm(browser, "/accounts/logout/", url.Values{})
	s.Equal(http.StatusSeeOther, resp.StatusCode)

	resp, _ = s.get(browser, "/profiles/alice/")
	s.Equal(http.StatusFound, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestForeignProfileForbidden() {
	s.signup(s.newBrowser(), "bob", "bob-password")
	alice := s.newBrowser()
	s.signup(alice, "alice", "correct-horse")

	resp, _ := s.get(alice, "/profiles/bob/")
	s.Equal(http.StatusForbidden, resp.StatusCode)

	resp = s.postForm(alice, "/profiles/bob/exercise/submit/", url.Values{"exercise_name": {"Push Up"}})
	s.Equal(http.StatusForbidden, resp.StatusCode)

	var count int
	s.Require().NoError(s.DB.QueryRow(`SELECT COUNT(*) FROM exercise_definition`).Scan(&count))
	s.Zero(count)
}
