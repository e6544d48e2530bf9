package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"aoai-tools/internal/cli"
	"aoai-tools/pkg/aoai"
	"aoai-tools/pkg/batch"
	"aoai-tools/pkg/confkit"
)

func main() {
	var (
		configPath    = flag.String("config", "etc/aoai.yaml", "path to service configuration")
		inputPath     = flag.String("input", "sample.jsonl", "newline-delimited JSON request file to submit")
		filePollEvery = flag.Duration("file-poll-interval", 30*time.Second, "interval between file status polls")
		jobPollEvery  = flag.Duration("batch-poll-interval", 5*time.Second, "interval between batch status polls")
		maxAttempts   = flag.Int("max-attempts", 0, "poll attempt cap per loop (0 = no cap)")
	)
	flag.Parse()

	cli.SetupLogging()
	confkit.LoadDotenvOnce()

	cfg, err := aoai.LoadConfig(resolveOptional(*configPath))
	if err != nil {
		cli.Exit(err)
	}
	cli.LogConfigSummary(cfg)

	client, err := aoai.NewClient(cfg)
	if err != nil {
		cli.Exit(err)
	}

	driver := batch.NewDriver(
		batch.NewOpenAIService(client.OpenAI()),
		batch.WithDriverLogger(client.Logger()),
		batch.WithFilePollPolicy(batch.PollPolicy{Interval: *filePollEvery, MaxAttempts: *maxAttempts}),
		batch.WithBatchPollPolicy(batch.PollPolicy{Interval: *jobPollEvery, MaxAttempts: *maxAttempts}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logx.Infof("received signal %s, aborting", sig)
		cancel()
	}()

	input := confkit.ResolvePath(".", *inputPath)
	if err := driver.Run(ctx, input); err != nil {
		cli.Exit(err)
	}
}

// resolveOptional keeps a missing default config file non-fatal; the
// configuration then comes entirely from the environment.
func resolveOptional(path string) string {
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
