package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for MindPilot resources.
	uriScheme = "mindpilot://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the quota plan table.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "tiers",
		Name:        "tiers",
		Description: "Quota plan table: per-tier analysis allowances",
		MIMEType:    "application/json",
	}, s.handleTiersResource)
}

// handleTiersResource returns the current quota plan table.
func (s *Server) handleTiersResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Tiers == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	// Build a stable, simplified plan list.
	type tierInfo struct {
		Name        string `json:"name"`
		QuickPer24h int    `json:"quick_per_24h"`
		FullPer30d  int    `json:"full_per_30d"`
		BurstPer15m int    `json:"burst_per_15m"`
		Admin       bool   `json:"admin,omitempty"`
	}

	policy := s.ports.Tiers.Policy()
	infos := make([]tierInfo, 0, len(policy))
	for name, tier := range policy {
		infos = append(infos, tierInfo{
			Name:        string(name),
			QuickPer24h: tier.QuickPer24h,
			FullPer30d:  tier.FullPer30d,
			BurstPer15m: tier.BurstPer15m,
			Admin:       tier.Admin,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling tiers: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
