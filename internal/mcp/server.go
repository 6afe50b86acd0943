package mcp

import (
	"github.com/2beens/hoosfit/internal/db"
	"github.com/2beens/hoosfit/internal/fitness"
	"github.com/2beens/hoosfit/internal/fitness/awards"
	"github.com/2beens/hoosfit/internal/fitness/exercises"
	"github.com/2beens/hoosfit/internal/fitness/profiles"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with read only hoosfit tools: leaderboard,
// user profile, user awards and user exercise log.
func NewServer(dbPool db.Querier, clock fitness.Clock) *mcp.Server {
	svc := NewContextService(
		profiles.NewRepo(dbPool),
		awards.NewRepo(dbPool),
		exercises.NewRepo(dbPool),
		clock,
	)
	return newServer(NewHandler(svc))
}

func newServer(h *Handler) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "hoosfit-context",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_leaderboard",
		Description: "Returns hoosfit users ranked by points, highest first, with their current streaks. Optional arg: limit (default 10).",
	}, h.GetLeaderboardTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_user_profile",
		Description: "Returns the streak, points and last workout date of a hoosfit user. Arg: username.",
	}, h.GetUserProfileTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_user_awards",
		Description: "Returns the personal best awards of a hoosfit user: exercise name, best reps and the date it was set. Arg: username.",
	}, h.GetUserAwardsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_user_exercise_log",
		Description: "Returns the reps a hoosfit user logged within a date range, oldest first. Args: username, from_date, to_date (YYYY-MM-DD).",
	}, h.GetUserExerciseLogTool())

	return s
}
