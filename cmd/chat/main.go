package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"aoai-tools/internal/cli"
	"aoai-tools/pkg/aoai"
	"aoai-tools/pkg/chat"
	"aoai-tools/pkg/confkit"
)

func main() {
	var (
		configPath = flag.String("config", "etc/aoai.yaml", "path to service configuration")
		question   = flag.String("question", "What was Microsoft's income?", "question to ask against the search index")
		maxTokens  = flag.Int("max-tokens", 100, "completion token cap")
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

	requester, err := chat.NewRequester(client, chat.WithMaxTokens(*maxTokens))
	if err != nil {
		cli.Exit(err)
	}

	answer, err := requester.Ask(context.Background(), *question)
	if err != nil {
		cli.Exit(err)
	}
	fmt.Println(answer)
}

func resolveOptional(path string) string {
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
