package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"aoai-tools/pkg/aoai"
)

func TestConfigSummaryLines(t *testing.T) {
	cfg := &aoai.Config{
		Endpoint:   "https://example.openai.azure.com",
		APIVersion: "2024-10-21",
		Deployment: "gpt-4o",
		Timeout:    2 * time.Minute,
	}

	lines := ConfigSummaryLines(cfg)
	require.Contains(t, lines, "Endpoint: https://example.openai.azure.com")
	require.Contains(t, lines, "API version: 2024-10-21")
	require.Contains(t, lines, "Deployment: configured")
	require.Contains(t, lines, "Embedding deployment: not configured")
	require.Contains(t, lines, "Search index: not configured")

	require.Equal(t, []string{"Configuration: <nil>"}, ConfigSummaryLines(nil))
}
