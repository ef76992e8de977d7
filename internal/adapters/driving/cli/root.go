// Package cli provides the cobra-based command line interface for MindPilot.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mindpilot-labs/mindpilot/internal/core/ports/driven"
	"github.com/mindpilot-labs/mindpilot/internal/core/ports/driving"
	"github.com/mindpilot-labs/mindpilot/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Injected services. Set once by SetServices before Execute.
var (
	analysisService driving.AnalysisService
	usageInspector  driving.UsageInspector
	tierStore       driven.TierPolicyStore
	configStore     driven.ConfigStore
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "mindpilot",
	Short: "Reasoning analysis for videos, articles and text",
	Long: `MindPilot analyses YouTube transcripts, web articles and pasted text
for logical fallacies, cognitive biases, rhetorical tactics and
manipulative patterns, then scores the overall quality of reasoning.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Services bundles everything the CLI needs injected.
type Services struct {
	Analysis driving.AnalysisService
	Usage    driving.UsageInspector
	Tiers    driven.TierPolicyStore
	Config   driven.ConfigStore
}

// SetServices injects the service implementations used by the commands.
// Must be called before Execute.
func SetServices(s Services) {
	analysisService = s.Analysis
	usageInspector = s.Usage
	tierStore = s.Tiers
	configStore = s.Config
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
