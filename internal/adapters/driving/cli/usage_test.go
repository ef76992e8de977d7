package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindpilot-labs/mindpilot/internal/core/domain"
)

func TestUsageCmd_Use(t *testing.T) {
	assert.Equal(t, "usage", usageCmd.Use)
}

func TestUsageCmd_ShowsRemaining(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"usage"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "Plan: free")
	assert.Contains(t, out, "Quick analyses (24h):  2")
	assert.Contains(t, out, "Full analyses (30d):   0")
}

func TestUsageCmd_UnlimitedPlan(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	usageInspector = &mockUsageInspector{
		status: &domain.QuotaStatus{
			Tier:           domain.TierAdmin,
			QuickRemaining: domain.QuotaUnlimited,
			FullRemaining:  domain.QuotaUnlimited,
			BurstRemaining: domain.QuotaUnlimited,
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"usage", "--user", "root"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "unlimited")
}

func TestFormatRemaining(t *testing.T) {
	assert.Equal(t, "unlimited", formatRemaining(domain.QuotaUnlimited))
	assert.Equal(t, "0", formatRemaining(0))
	assert.Equal(t, "7", formatRemaining(7))
}
