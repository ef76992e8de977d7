package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindpilot-labs/mindpilot/internal/core/domain"
)

func TestAnalyzeCmd_Use(t *testing.T) {
	assert.Equal(t, "analyze [url]", analyzeCmd.Use)
}

func TestAnalyzeCmd_HasDepthFlag(t *testing.T) {
	flag := analyzeCmd.Flags().Lookup("depth")
	require.NotNil(t, flag, "depth flag should exist")
	assert.Equal(t, "d", flag.Shorthand)
	assert.Equal(t, "quick", flag.DefValue)
}

func TestAnalyzeCmd_ExecutesWithURL(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"analyze", "https://youtu.be/dQw4w9WgXcQ"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Logical Fallacies:")
	assert.Contains(t, buf.String(), "Bandwagon [high]")
	assert.Contains(t, buf.String(), "Overall reasoning score: 35/100")

	mock := analysisService.(*mockAnalysisService)
	assert.Equal(t, domain.SourceYouTube, mock.lastReq.Kind)
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", mock.lastReq.SourceRef)
}

func TestAnalyzeCmd_InfersArticleKind(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"analyze", "https://example.com/opinion"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())

	mock := analysisService.(*mockAnalysisService)
	assert.Equal(t, domain.SourceArticle, mock.lastReq.Kind)
}

func TestAnalyzeCmd_TextFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"analyze", "--text", "Everyone agrees.", "--label", "speech"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())

	mock := analysisService.(*mockAnalysisService)
	assert.Equal(t, domain.SourceText, mock.lastReq.Kind)
	assert.Equal(t, "Everyone agrees.", mock.lastReq.Text)
	assert.Equal(t, "speech", mock.lastReq.SourceRef)
}

func TestAnalyzeCmd_ReadsStdin(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader("Trust me, the numbers never lie."))
	rootCmd.SetArgs([]string{"analyze"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	require.NoError(t, rootCmd.Execute())

	mock := analysisService.(*mockAnalysisService)
	assert.Equal(t, domain.SourceText, mock.lastReq.Kind)
	assert.Contains(t, mock.lastReq.Text, "numbers never lie")
}

func TestAnalyzeCmd_EmptyStdinFails(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader("   \n"))
	rootCmd.SetArgs([]string{"analyze"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to analyse")
}

func TestAnalyzeCmd_QuotaDenialMessage(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	analysisService = &mockAnalysisService{
		err: &domain.QuotaError{
			Reason: domain.QuotaReasonNotOffered,
			Depth:  domain.DepthFull,
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"analyze", "--text", "hello", "--depth", "full"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not included in this plan")
}

func TestAnalyzeCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"analyze", "--text", "hello", "--json"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), `"Name": "Bandwagon"`)
}

func TestAnalyzeCmd_CachedNotice(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	report := defaultTestReport()
	report.CachedAt = time.Now()
	analysisService = &mockAnalysisService{report: report}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"analyze", "--text", "hello"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Served from cache")
}

func TestInferSourceKind(t *testing.T) {
	assert.Equal(t, domain.SourceYouTube, inferSourceKind("https://www.youtube.com/watch?v=x"))
	assert.Equal(t, domain.SourceYouTube, inferSourceKind("https://youtu.be/x"))
	assert.Equal(t, domain.SourceArticle, inferSourceKind("https://example.com/post"))
}
