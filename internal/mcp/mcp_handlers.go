package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/typegate/core"
	"github.com/huangsam/typegate/internal/contract"
	"github.com/huangsam/typegate/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.SnapshotManager
}

func (h *toolHandler) handleParseDiagnostics(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := request.GetString("output", "")
	if raw == "" {
		return mcp.NewToolResultError("output is required"), nil
	}

	report, err := core.BuildReport(strings.NewReader(raw))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("parse failed: %v", err)), nil
	}

	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleDiffReports(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	oldReport, err := decodeReportArg(request.GetString("old_report", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid old_report: %v", err)), nil
	}
	newReport, err := decodeReportArg(request.GetString("new_report", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid new_report: %v", err)), nil
	}

	opts := core.DiffOptions{
		Similar:   request.GetBool("similar", h.baseCfg.Similar),
		Threshold: h.baseCfg.SimilarThresh,
		Metric:    core.NewSimilarity(h.baseCfg.SimilarMetric),
	}
	if t := request.GetFloat("threshold", 0); t > 0 && t <= 1 {
		opts.Threshold = t
	}
	if m := request.GetString("metric", ""); m != "" {
		opts.Metric = core.NewSimilarity(schema.SimilarityMetric(m))
	}

	changes := core.DiffReports(oldReport, newReport, opts)
	jsonData, err := json.MarshalIndent(changes, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListSnapshots(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store := h.snapshotStore()
	if store == nil {
		return mcp.NewToolResultError("no snapshot backend configured"), nil
	}

	limit := h.baseCfg.SnapshotLimit
	if l := request.GetInt("limit", 0); l > 0 {
		limit = l
	}

	records, err := store.List(limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}

	jsonData, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetSnapshotStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store := h.snapshotStore()
	if store == nil {
		return mcp.NewToolResultError("no snapshot backend configured"), nil
	}

	status, err := store.GetStatus()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("status failed: %v", err)), nil
	}

	jsonData, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// snapshotStore unwraps the store from the optional manager.
func (h *toolHandler) snapshotStore() contract.SnapshotStore {
	if h.mgr == nil {
		return nil
	}
	return h.mgr.GetSnapshotStore()
}

// decodeReportArg decodes a report passed as a JSON string argument.
func decodeReportArg(raw string) (schema.Report, error) {
	if raw == "" {
		return nil, fmt.Errorf("report JSON is required")
	}
	return schema.DecodeReport(strings.NewReader(raw))
}
