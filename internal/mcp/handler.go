package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultLeaderboardLimit = 10

// Handler handles MCP tool requests and responses: parses input, calls the service, formats MCP result.
type Handler struct {
	service contextService
}

func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

// LeaderboardInput is the input for get_leaderboard.
type LeaderboardInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max number of users to return, default 10"`
}

func (h *Handler) GetLeaderboardTool() func(context.Context, *mcp.CallToolRequest, LeaderboardInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in LeaderboardInput) (*mcp.CallToolResult, any, error) {
		limit := in.Limit
		if limit <= 0 {
			limit = defaultLeaderboardLimit
		}
		list, err := h.service.Leaderboard(ctx, limit)
		if err != nil {
			return errorResult("Error fetching leaderboard: " + err.Error()), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}

// UserInput is the input of the per user tools.
type UserInput struct {
	Username string `json:"username" jsonschema:"The hoosfit username"`
}

func (h *Handler) GetUserProfileTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		if in.Username == "" {
			return errorResult("username is required"), nil, nil
		}
		profile, err := h.service.UserProfile(ctx, in.Username)
		if err != nil {
			return errorResult("Error fetching profile: " + err.Error()), nil, nil
		}
		return jsonResult(profile), nil, nil
	}
}

func (h *Handler) GetUserAwardsTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		if in.Username == "" {
			return errorResult("username is required"), nil, nil
		}
		list, err := h.service.UserAwards(ctx, in.Username)
		if err != nil {
			return errorResult("Error fetching awards: " + err.Error()), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}

// ExerciseLogInput is the input for get_user_exercise_log.
type ExerciseLogInput struct {
	Username string `json:"username" jsonschema:"The hoosfit username"`
	FromDate string `json:"from_date" jsonschema:"Start date (YYYY-MM-DD)"`
	ToDate   string `json:"to_date" jsonschema:"End date (YYYY-MM-DD)"`
}

func (h *Handler) GetUserExerciseLogTool() func(context.Context, *mcp.CallToolRequest, ExerciseLogInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ExerciseLogInput) (*mcp.CallToolResult, any, error) {
		if in.Username == "" {
			return errorResult("username is required"), nil, nil
		}
		from, err := time.Parse(time.DateOnly, in.FromDate)
		if err != nil {
			return errorResult("Invalid from_date: use YYYY-MM-DD"), nil, nil
		}
		to, err := time.Parse(time.DateOnly, in.ToDate)
		if err != nil {
			return errorResult("Invalid to_date: use YYYY-MM-DD"), nil, nil
		}

		list, err := h.service.UserExerciseLog(ctx, in.Username, from, to)
		if err != nil {
			return errorResult("Error listing exercise log: " + err.Error()), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}
