package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mindpilot-labs/mindpilot/internal/core/domain"
)

// localClientAddr is the identity fallback for MCP callers. The
// transport is local stdio or loopback HTTP, so there is no meaningful
// remote address to hash.
const localClientAddr = "mcp-local"

// AnalyzeInput is the input schema for the analyze tool.
type AnalyzeInput struct {
	Kind   string `json:"kind" jsonschema:"input kind: youtube, article or text"`
	Source string `json:"source,omitempty" jsonschema:"URL for youtube/article inputs, optional label for text"`
	Text   string `json:"text,omitempty" jsonschema:"raw text to analyse when kind is text"`
	Depth  string `json:"depth,omitempty" jsonschema:"analysis depth: quick (default) or full"`
	Enrich bool   `json:"enrich,omitempty" jsonschema:"request live-context enrichment of the synthesis"`
	UserID string `json:"user_id,omitempty" jsonschema:"authenticated user ID for quota accounting"`
}

// AnalyzeOutput is the output schema for the analyze tool.
type AnalyzeOutput struct {
	SourceRef    string            `json:"source_ref"`
	Depth        string            `json:"depth"`
	Findings     []FindingOutput   `json:"findings"`
	Dimensions   []DimensionOutput `json:"dimensions,omitempty"`
	OverallScore *int              `json:"overall_score,omitempty"`
	Synthesis    string            `json:"synthesis"`
	Enrichment   string            `json:"enrichment,omitempty"`
	Cached       bool              `json:"cached"`
}

// FindingOutput represents a single detected reasoning pattern.
type FindingOutput struct {
	Category    string `json:"category"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Severity    string `json:"severity"`
}

// DimensionOutput represents one rationality dimension rating.
type DimensionOutput struct {
	Dimension string  `json:"dimension"`
	Value     float64 `json:"value"`
	ScaleMax  int     `json:"scale_max"`
}

// QuotaInput is the input schema for the remaining_quota tool.
type QuotaInput struct {
	UserID string `json:"user_id,omitempty" jsonschema:"authenticated user ID; omit for the anonymous local identity"`
}

// QuotaOutput is the output schema for the remaining_quota tool.
type QuotaOutput struct {
	Tier           string `json:"tier"`
	QuickRemaining int    `json:"quick_remaining"`
	FullRemaining  int    `json:"full_remaining"`
	BurstRemaining int    `json:"burst_remaining"`
	Unlimited      bool   `json:"unlimited"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze",
		Description: "Analyse a YouTube transcript, web article or pasted text for logical fallacies, cognitive biases and manipulation patterns",
	}, s.handleAnalyze)

	if s.ports.Usage != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "remaining_quota",
			Description: "Report how many analyses remain in the current quota windows",
		}, s.handleQuota)
	}
}

// handleAnalyze handles the analyze tool invocation.
func (s *Server) handleAnalyze(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeInput,
) (*mcp.CallToolResult, AnalyzeOutput, error) {
	req := domain.AnalysisRequest{
		Kind:       domain.SourceKind(input.Kind),
		SourceRef:  input.Source,
		Text:       input.Text,
		Depth:      domain.AnalysisDepth(input.Depth),
		Enrich:     input.Enrich,
		UserID:     input.UserID,
		RemoteAddr: localClientAddr,
	}

	report, err := s.ports.Analysis.Analyze(ctx, req)
	if err != nil {
		var quotaErr *domain.QuotaError
		if errors.As(err, &quotaErr) {
			// Surface the denial as tool output text rather than a
			// protocol error, so assistants can relay it verbatim.
			return &mcp.CallToolResult{
				IsError: true,
				Content: []mcp.Content{&mcp.TextContent{Text: quotaErr.Error()}},
			}, AnalyzeOutput{}, nil
		}
		return nil, AnalyzeOutput{}, err
	}

	output := AnalyzeOutput{
		SourceRef:    report.SourceRef,
		Depth:        report.Depth.String(),
		Findings:     make([]FindingOutput, len(report.Findings)),
		OverallScore: report.OverallScore,
		Synthesis:    report.Synthesis,
		Enrichment:   report.Enrichment,
		Cached:       !report.CachedAt.IsZero(),
	}
	for i, f := range report.Findings {
		output.Findings[i] = FindingOutput{
			Category:    f.Category.String(),
			Name:        f.Name,
			Description: f.Description,
			Severity:    f.Severity.String(),
		}
	}
	for _, d := range report.DimensionScores {
		output.Dimensions = append(output.Dimensions, DimensionOutput{
			Dimension: d.Dimension,
			Value:     d.Value,
			ScaleMax:  d.ScaleMax,
		})
	}

	return nil, output, nil
}

// handleQuota handles the remaining_quota tool invocation.
func (s *Server) handleQuota(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QuotaInput,
) (*mcp.CallToolResult, QuotaOutput, error) {
	status, err := s.ports.Usage.RemainingQuota(ctx, input.UserID, localClientAddr)
	if err != nil {
		return nil, QuotaOutput{}, err
	}

	return nil, QuotaOutput{
		Tier:           string(status.Tier),
		QuickRemaining: status.QuickRemaining,
		FullRemaining:  status.FullRemaining,
		BurstRemaining: status.BurstRemaining,
		Unlimited:      status.QuickRemaining == domain.QuotaUnlimited,
	}, nil
}
