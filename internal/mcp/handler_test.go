package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/2beens/hoosfit/internal/fitness/awards"
	"github.com/2beens/hoosfit/internal/fitness/exercises"
	"github.com/2beens/hoosfit/internal/fitness/profiles"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// mockContextService implements contextService for tests.
type mockContextService struct {
	leaderboard    []profiles.Profile
	leaderboardErr error
	gotLimit       int
	profile        *UserProfile
	profileErr     error
	awards         []awards.Award
	awardsErr      error
	log            []exercises.LogEntry
	logErr         error
	gotFrom, gotTo time.Time
}

func (m *mockContextService) Leaderboard(_ context.Context, limit int) ([]profiles.Profile, error) {
	m.gotLimit = limit
	return m.leaderboard, m.leaderboardErr
}

func (m *mockContextService) UserProfile(_ context.Context, _ string) (*UserProfile, error) {
	return m.profile, m.profileErr
}

func (m *mockContextService) UserAwards(_ context.Context, _ string) ([]awards.Award, error) {
	return m.awards, m.awardsErr
}

func (m *mockContextService) UserExerciseLog(_ context.Context, _ string, from, to time.Time) ([]exercises.LogEntry, error) {
	m.gotFrom, m.gotTo = from, to
	return m.log, m.logErr
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected 1 content, got %d", len(res.Content))
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return tc.Text
}

func TestHandler_GetLeaderboardTool(t *testing.T) {
	t.Run("default_limit", func(t *testing.T) {
		svc := &mockContextService{leaderboard: []profiles.Profile{{Username: "alice", Points: 30}}}
		fn := NewHandler(svc).GetLeaderboardTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, LeaderboardInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.IsError {
			t.Fatalf("unexpected IsError: %s", resultText(t, res))
		}
		if svc.gotLimit != defaultLeaderboardLimit {
			t.Fatalf("limit = %d, want %d", svc.gotLimit, defaultLeaderboardLimit)
		}
		if !strings.Contains(resultText(t, res), `"username": "alice"`) {
			t.Fatalf("expected alice in %q", resultText(t, res))
		}
	})

	t.Run("returns_error_when_list_fails", func(t *testing.T) {
		svc := &mockContextService{leaderboardErr: errors.New("db gone")}
		fn := NewHandler(svc).GetLeaderboardTool()
		res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, LeaderboardInput{Limit: 3})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsError {
			t.Fatalf("expected IsError")
		}
		if got := resultText(t, res); got != "Error fetching leaderboard: db gone" {
			t.Fatalf("content text = %q", got)
		}
		if svc.gotLimit != 3 {
			t.Fatalf("limit = %d, want 3", svc.gotLimit)
		}
	})
}

func TestHandler_GetUserProfileTool(t *testing.T) {
	t.Run("username_required", func(t *testing.T) {
		fn := NewHandler(&mockContextService{}).GetUserProfileTool()
		res, _, _ := fn(context.Background(), &mcp.CallToolRequest{}, UserInput{})
		if !res.IsError || resultText(t, res) != "username is required" {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		svc := &mockContextService{profileErr: profiles.ErrProfileNotFound}
		fn := NewHandler(svc).GetUserProfileTool()
		res, _, _ := fn(context.Background(), &mcp.CallToolRequest{}, UserInput{Username: "ghost"})
		if !res.IsError {
			t.Fatalf("expected IsError")
		}
		if got := resultText(t, res); got != "Error fetching profile: profile not found" {
			t.Fatalf("content text = %q", got)
		}
	})

	t.Run("returns_profile", func(t *testing.T) {
		svc := &mockContextService{profile: &UserProfile{Username: "alice", Streak: 2, Points: 40}}
		fn := NewHandler(svc).GetUserProfileTool()
		res, _, _ := fn(context.Background(), &mcp.CallToolRequest{}, UserInput{Username: "alice"})
		if res.IsError {
			t.Fatalf("unexpected IsError: %s", resultText(t, res))
		}
		if !strings.Contains(resultText(t, res), `"points": 40`) {
			t.Fatalf("unexpected body %q", resultText(t, res))
		}
	})
}

func TestHandler_GetUserAwardsTool(t *testing.T) {
	svc := &mockContextService{awards: []awards.Award{{ExerciseName: "Squat", Label: awards.Label("Squat"), BestReps: 20}}}
	fn := NewHandler(svc).GetUserAwardsTool()
	res, _, err := fn(context.Background(), &mcp.CallToolRequest{}, UserInput{Username: "alice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(resultText(t, res), "Personal Best: Squat") {
		t.Fatalf("unexpected body %q", resultText(t, res))
	}

	svc.awardsErr = errors.New("timeout")
	res, _, _ = fn(context.Background(), &mcp.CallToolRequest{}, UserInput{Username: "alice"})
	if !res.IsError || resultText(t, res) != "Error fetching awards: timeout" {
		t.Fatalf("unexpected result: %q", resultText(t, res))
	}
}

func TestHandler_GetUserExerciseLogTool(t *testing.T) {
	t.Run("invalid_from_date", func(t *testing.T) {
		fn := NewHandler(&mockContextService{}).GetUserExerciseLogTool()
		res, _, _ := fn(context.Background(), &mcp.CallToolRequest{}, ExerciseLogInput{
			Username: "alice",
			FromDate: "bad",
			ToDate:   "2024-04-15",
		})
		if !res.IsError || resultText(t, res) != "Invalid from_date: use YYYY-MM-DD" {
			t.Fatalf("unexpected result: %q", resultText(t, res))
		}
	})

	t.Run("invalid_to_date", func(t *testing.T) {
		fn := NewHandler(&mockContextService{}).GetUserExerciseLogTool()
		res, _, _ := fn(context.Background(), &mcp.CallToolRequest{}, ExerciseLogInput{
			Username: "alice",
			FromDate: "2024-04-01",
			ToDate:   "15.04.2024",
		})
		if !res.IsError || resultText(t, res) != "Invalid to_date: use YYYY-MM-DD" {
			t.Fatalf("unexpected result: %q", resultText(t, res))
		}
	})

	t.Run("returns_entries", func(t *testing.T) {
		svc := &mockContextService{log: []exercises.LogEntry{{Name: "Push Up", Reps: 10}}}
		fn := NewHandler(svc).GetUserExerciseLogTool()
		res, _, _ := fn(context.Background(), &mcp.CallToolRequest{}, ExerciseLogInput{
			Username: "alice",
			FromDate: "2024-04-01",
			ToDate:   "2024-04-15",
		})
		if res.IsError {
			t.Fatalf("unexpected IsError: %s", resultText(t, res))
		}
		if !strings.Contains(resultText(t, res), `"name": "Push Up"`) {
			t.Fatalf("unexpected body %q", resultText(t, res))
		}
		if svc.gotFrom.Format(time.DateOnly) != "2024-04-01" || svc.gotTo.Format(time.DateOnly) != "2024-04-15" {
			t.Fatalf("range = %s - %s", svc.gotFrom, svc.gotTo)
		}
	})
}
