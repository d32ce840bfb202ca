// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/typegate/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Typegate MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.SnapshotManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Typegate Report Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: parse_diagnostics ---
	s.AddTool(mcp.NewTool("parse_diagnostics",
		mcp.WithDescription("Parse raw type checker output into an aggregated JSON error report."),
		mcp.WithString("output", mcp.Description("Raw checker output, one diagnostic per line."), mcp.Required()),
	), h.handleParseDiagnostics)

	// --- 2. Tool: diff_reports ---
	s.AddTool(mcp.NewTool("diff_reports",
		mcp.WithDescription("Compare two JSON error reports and classify the differences into new, resolved and similar buckets."),
		mcp.WithString("old_report", mcp.Description("The baseline report as JSON."), mcp.Required()),
		mcp.WithString("new_report", mcp.Description("The current report as JSON."), mcp.Required()),
		mcp.WithBoolean("similar", mcp.Description("Enable fuzzy matching of reworded messages. Defaults to the configured value.")),
		mcp.WithNumber("threshold", mcp.Description("Minimum similarity ratio in (0, 1] for a fuzzy match.")),
		mcp.WithString("metric", mcp.Description("Similarity metric (levenshtein, token)."), mcp.Enum("levenshtein", "token")),
	), h.handleDiffReports)

	// --- 3. Tool: list_snapshots ---
	s.AddTool(mcp.NewTool("list_snapshots",
		mcp.WithDescription("List stored report snapshots, newest first."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of snapshots returned.")),
	), h.handleListSnapshots)

	// --- 4. Tool: get_snapshot_status ---
	s.AddTool(mcp.NewTool("get_snapshot_status",
		mcp.WithDescription("Get status information about the snapshot store backend."),
	), h.handleGetSnapshotStatus)

	return s
}

// StartMCPServer starts the Typegate MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.SnapshotManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
