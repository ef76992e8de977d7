// Package mcp provides an MCP (Model Context Protocol) server adapter for MindPilot.
// It lets AI assistants request reasoning analyses and inspect quota state.
package mcp

import "errors"

// ErrMissingAnalysisService is returned when the analysis service is not provided.
var ErrMissingAnalysisService = errors.New("mcp: analysis service is required")
