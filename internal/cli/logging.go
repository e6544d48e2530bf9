// Package cli holds glue shared by the command-line entry points: logging
// setup, configuration summaries and the error → exit-code boundary.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"aoai-tools/pkg/aoai"
)

// SetupLogging initialises logx for CLI use. Failure to set up logging is
// fatal with exit code 1 before anything else runs.
func SetupLogging() {
	if err := logx.SetUp(logx.LogConf{}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	logx.DisableStat()
}

// ConfigSummaryLines returns human readable lines describing the loaded config.
func ConfigSummaryLines(cfg *aoai.Config) []string {
	if cfg == nil {
		return []string{"Configuration: <nil>"}
	}

	return []string{
		fmt.Sprintf("Endpoint: %s", cfg.Endpoint),
		fmt.Sprintf("API version: %s", cfg.APIVersion),
		fmt.Sprintf("Deployment: %s", presence(strings.TrimSpace(cfg.Deployment) != "")),
		fmt.Sprintf("Embedding deployment: %s", presence(strings.TrimSpace(cfg.EmbeddingDeployment) != "")),
		fmt.Sprintf("Search index: %s", presence(strings.TrimSpace(cfg.Search.IndexName) != "")),
		fmt.Sprintf("Timeout: %s", cfg.Timeout),
	}
}

// LogConfigSummary emits the configuration summary using logx.
func LogConfigSummary(cfg *aoai.Config) {
	for _, line := range ConfigSummaryLines(cfg) {
		logx.Infof("config • %s", line)
	}
}

// Exit logs err and terminates the process with the exit code its kind maps
// to. A nil err exits 0.
func Exit(err error) {
	if err == nil {
		os.Exit(0)
	}
	logx.Error(err.Error())
	os.Exit(aoai.ExitCode(err))
}

func presence(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}
