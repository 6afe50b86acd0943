//go:build integration_test || all_tests

package test

import (
	"io"
	"net/http"
	"net/url"
	"strings"
)

func (s *IntegrationTestSuite) get(client *http.Client, path string) (*http.Response, string) {
	resp, err := client.Get(serverEndpoint + path)
	s.Require().NoError(err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp, string(body)
}

// postRaw posts an already encoded form body, keeping the pair order.
func (s *IntegrationTestSuite) postRaw(client *http.Client, path, body string) *http.Response {
	resp, err := client.Post(serverEndpoint+path, "application/x-www-form-urlencoded", strings.NewReader(body))
	s.Require().NoError(err)
	_, _ = io.Copy(io.Discard, resp.Body)
	s.Require().NoError(resp.Body.Close())
	return resp
}

func (s *IntegrationTestSuite) postForm(client *http.Client, path string, form url.Values) *http.Response {
	return s.postRaw(client, path, form.Encode())
}

func (s *IntegrationTestSuite) signup(client *http.Client, username, password string) {
	resp := s.postForm(client, "/accounts/signup/", url.Values{
		"username":  {username},
		"password1": {password},
		"password2": {password},
	})
	s.Require().Equal(http.StatusSeeOther, resp.StatusCode)
	s.Require().Equal("/profiles/"+username+"/", resp.Header.Get("Location"))
}

func (s *IntegrationTestSuite) createExercise(client *http.Client, username, name string) int {
	resp := s.postForm(client, "/profiles/"+username+"/exercise/submit/", url.Values{
		"exercise_name": {name},
	})
	s.Require().Equal(http.StatusSeeOther, resp.StatusCode)

	var id int
	s.Require().NoError(s.DB.QueryRow(`
		SELECT d.id FROM exercise_definition d
		JOIN account a ON a.id = d.account_id
		WHERE a.username = $1 AND d.name = $2`, username, name).Scan(&id))
	return id
}
