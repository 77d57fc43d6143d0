package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/logscore/core"
	"github.com/huangsam/logscore/internal/contract"
	"github.com/huangsam/logscore/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// jsonResult encodes v as the text of a tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetLeaderboard(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("scores_file", ""); p != "" {
		cfg.ScoresFile = p
	}
	limit := request.GetInt("limit", cfg.ResultLimit)
	if limit < 0 || limit > contract.MaxResultLimit {
		return mcp.NewToolResultError(fmt.Sprintf("limit must be between 0 and %d", contract.MaxResultLimit)), nil
	}

	ranked, err := core.GetLeaderboard(cfg.ScoresFile)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("leaderboard failed: %v", err)), nil
	}
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return jsonResult(schema.ToLeaderboard(ranked))
}

func (h *toolHandler) handleGetModelScores(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("scores_file", ""); p != "" {
		cfg.ScoresFile = p
	}
	model := request.GetString("model", "")
	if model == "" {
		return mcp.NewToolResultError("model is required"), nil
	}

	records, err := core.ReadScores(cfg.ScoresFile)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read scores: %v", err)), nil
	}
	filtered := core.FilterScores(records, model, request.GetString("location", ""), request.GetString("target", ""))
	if len(filtered) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no scores found for model %s", model)), nil
	}
	return jsonResult(filtered)
}

// currentWeek is the get_current_week payload.
type currentWeek struct {
	Week   int    `json:"week"`
	Source string `json:"source"`
}

func (h *toolHandler) handleGetCurrentWeek(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if d := request.GetString("submissions_dir", ""); d != "" {
		cfg.SubmissionsDir = d
	}
	message := request.GetString("commit_message", cfg.CommitMessage)

	week, source, err := core.ResolveWeek(message, cfg.RootDir, cfg.SubmissionsDir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("week detection failed: %v", err)), nil
	}
	return jsonResult(currentWeek{Week: week, Source: source})
}

// scoreRun is the score_forecasts payload. Records are left out because the
// scores table is the place to read them from.
type scoreRun struct {
	RunID    string   `json:"run_id,omitempty"`
	Models   int      `json:"models"`
	Files    int      `json:"files"`
	Scores   int      `json:"scores"`
	Failures []string `json:"failures"`
}

func (h *toolHandler) handleScoreForecasts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if m := request.GetString("model_types", ""); m != "" {
		cfg.ModelTypes = contract.SplitList(m)
		if err := contract.ValidateModelTypes(cfg.ModelTypes); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid model_types: %v", err)), nil
		}
	}
	if p := request.GetString("truth_file", ""); p != "" {
		cfg.TruthFile = p
	}

	output, err := core.GetScoreResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}
	run := scoreRun{
		RunID:    output.RunID,
		Models:   output.Models,
		Files:    output.Files,
		Scores:   len(output.Records),
		Failures: make([]string, 0, len(output.Failures)),
	}
	for _, f := range output.Failures {
		run.Failures = append(run.Failures, fmt.Sprintf("%s: %v", f.Heading(), f.Err))
	}
	return jsonResult(run)
}
