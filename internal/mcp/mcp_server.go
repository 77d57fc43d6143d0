// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/logscore/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the logscore MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Logscore Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	s.AddTool(mcp.NewTool("get_leaderboard",
		mcp.WithDescription("Rank forecasting models by mean log score from a scores table."),
		mcp.WithString("scores_file", mcp.Description("Path to the scores CSV (defaults to the configured scores file).")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of models returned. 0 returns all of them.")),
	), h.handleGetLeaderboard)

	s.AddTool(mcp.NewTool("get_model_scores",
		mcp.WithDescription("List the log scores of one model, optionally narrowed to a region and target."),
		mcp.WithString("model", mcp.Description("Model ID such as 'Delphi-Stat'."), mcp.Required()),
		mcp.WithString("location", mcp.Description("Region such as 'US National' or 'HHS Region 1'.")),
		mcp.WithString("target", mcp.Description("Target such as '1 wk ahead' or 'Season onset'.")),
		mcp.WithString("scores_file", mcp.Description("Path to the scores CSV.")),
	), h.handleGetModelScores)

	s.AddTool(mcp.NewTool("get_current_week",
		mcp.WithDescription("Return the MMWR week after the latest submission, or the week named by a commit message."),
		mcp.WithString("commit_message", mcp.Description("Commit message whose last word may name the week.")),
		mcp.WithString("submissions_dir", mcp.Description("Parent directory of submission folders under the root.")),
	), h.handleGetCurrentWeek)

	s.AddTool(mcp.NewTool("score_forecasts",
		mcp.WithDescription("Score every forecast submission against the truth table and report counts and failures."),
		mcp.WithString("model_types", mcp.Description("Comma-separated parent directories to score.")),
		mcp.WithString("truth_file", mcp.Description("Path to the truth CSV.")),
	), h.handleScoreForecasts)

	return s
}

// StartMCPServer starts the logscore MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
