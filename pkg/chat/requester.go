package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"aoai-tools/pkg/aoai"
)

// DefaultSystemPrompt matches the service's historical fixed system message.
const DefaultSystemPrompt = "You are helpful assistant."

const defaultMaxTokens = 100

// Requester sends one retrieval-augmented chat completion per Ask call.
// No streaming, no multi-turn state.
type Requester struct {
	client    *aoai.Client
	cfg       *aoai.Config
	logger    aoai.Logger
	tokens    aoai.TokenProvider
	system    string
	maxTokens int
}

// RequesterOption configures optional requester behaviour.
type RequesterOption func(*Requester)

// WithSystemPrompt replaces the fixed system message.
func WithSystemPrompt(prompt string) RequesterOption {
	return func(r *Requester) {
		r.system = prompt
	}
}

// WithMaxTokens overrides the completion token cap.
func WithMaxTokens(n int) RequesterOption {
	return func(r *Requester) {
		if n > 0 {
			r.maxTokens = n
		}
	}
}

// WithTokenProvider injects the provider used when the search data source
// authenticates with an access token.
func WithTokenProvider(tp aoai.TokenProvider) RequesterOption {
	return func(r *Requester) {
		r.tokens = tp
	}
}

// NewRequester validates the retrieval configuration and builds a requester.
func NewRequester(client *aoai.Client, opts ...RequesterOption) (*Requester, error) {
	if client == nil {
		return nil, aoai.E(aoai.KindConfig, "chat.NewRequester", errors.New("client cannot be nil"))
	}
	cfg := client.Config()
	if err := cfg.ValidateChat(); err != nil {
		return nil, err
	}

	r := &Requester{
		client:    client,
		cfg:       cfg,
		logger:    client.Logger(),
		tokens:    client.TokenProvider(aoai.CognitiveScope),
		system:    DefaultSystemPrompt,
		maxTokens: defaultMaxTokens,
	}
	for _, opt := range opts {
		opt(r)
	}
	if cfg.Search.Authentication == aoai.AuthAccessToken && r.tokens == nil {
		return nil, aoai.E(aoai.KindConfig, "chat.NewRequester",
			errors.New("access_token search authentication requires a token provider"))
	}
	return r, nil
}

// Ask sends the question with exactly one search data source attached and
// returns the first choice's message content.
func (r *Requester) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", aoai.E(aoai.KindCompletion, "chat.Ask", errors.New("question cannot be empty"))
	}

	var token string
	if r.cfg.Search.Authentication == aoai.AuthAccessToken {
		minted, err := r.tokens(ctx)
		if err != nil {
			return "", err
		}
		token = minted
	}
	source := azureSearchDataSource(r.cfg, token)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(r.cfg.Deployment),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(r.system),
			openai.UserMessage(question),
		},
		MaxTokens: openai.Int(int64(r.maxTokens)),
	}

	r.logger.Info(ctx, "augmented chat request", aoai.Fields{
		"deployment": r.cfg.Deployment,
		"index":      r.cfg.Search.IndexName,
		"query_type": source.Parameters.QueryType,
	})

	start := time.Now()
	// data_sources is an Azure extension not modelled by the SDK params,
	// so it rides along as an extra JSON body field.
	completion, err := r.client.OpenAI().Chat.Completions.New(ctx, params,
		option.WithJSONSet("data_sources", []DataSource{source}))
	if err != nil {
		return "", aoai.E(aoai.KindCompletion, "chat.Ask", err)
	}
	if len(completion.Choices) == 0 {
		return "", aoai.E(aoai.KindCompletion, "chat.Ask", errors.New("completion returned no choices"))
	}

	answer := completion.Choices[0].Message.Content
	r.logger.Info(ctx, "augmented chat success", aoai.Fields{
		"duration_ms":       time.Since(start).Milliseconds(),
		"prompt_tokens":     completion.Usage.PromptTokens,
		"completion_tokens": completion.Usage.CompletionTokens,
	})
	return answer, nil
}
