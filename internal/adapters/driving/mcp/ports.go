package mcp

import (
	"github.com/mindpilot-labs/mindpilot/internal/core/ports/driven"
	"github.com/mindpilot-labs/mindpilot/internal/core/ports/driving"
)

// Ports aggregates all port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Analysis runs reasoning analyses.
	Analysis driving.AnalysisService

	// Usage reports remaining quota.
	Usage driving.UsageInspector

	// Tiers exposes the quota plan table.
	Tiers driven.TierPolicyStore
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Analysis == nil {
		return ErrMissingAnalysisService
	}
	// Usage and Tiers are optional; their surfaces degrade gracefully.
	return nil
}
