package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mindpilot-labs/mindpilot/internal/core/domain"
)

var usageUser string

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show remaining analysis quota",
	Long: `Shows how many analyses remain in each rolling quota window for the
current identity.`,
	RunE: runUsage,
}

func init() {
	usageCmd.Flags().StringVarP(&usageUser, "user", "u", "", "user ID for quota accounting")
	rootCmd.AddCommand(usageCmd)
}

func runUsage(cmd *cobra.Command, _ []string) error {
	if usageInspector == nil {
		return errors.New("usage service not configured")
	}

	status, err := usageInspector.RemainingQuota(cmd.Context(), usageUser, "cli-local")
	if err != nil {
		return fmt.Errorf("failed to read quota: %w", err)
	}

	cmd.Printf("Plan: %s\n", status.Tier)
	cmd.Println()
	cmd.Printf("  Quick analyses (24h):  %s\n", formatRemaining(status.QuickRemaining))
	cmd.Printf("  Full analyses (30d):   %s\n", formatRemaining(status.FullRemaining))
	cmd.Printf("  Burst headroom (15m):  %s\n", formatRemaining(status.BurstRemaining))

	return nil
}

// formatRemaining renders a remaining count, with the unlimited
// sentinel and not-offered zero spelled out.
func formatRemaining(n int) string {
	switch {
	case n == domain.QuotaUnlimited:
		return "unlimited"
	case n == 0:
		return "0"
	default:
		return fmt.Sprintf("%d", n)
	}
}
