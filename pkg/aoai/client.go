package aoai

import (
	"errors"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
)

// Client bundles an Azure-routed OpenAI SDK client with the credential and
// configuration both command-line utilities share.
type Client struct {
	config       *Config
	openaiClient *openai.Client
	credential   azcore.TokenCredential
	logger       Logger
}

// ClientOption configures optional client behaviour.
type ClientOption func(*clientOptions)

type clientOptions struct {
	logger       Logger
	credential   azcore.TokenCredential
	httpClient   *http.Client
	openaiClient *openai.Client
}

// WithLogger injects a custom logger implementation.
func WithLogger(logger Logger) ClientOption {
	return func(opts *clientOptions) {
		opts.logger = logger
	}
}

// WithCredential injects a pre-resolved token credential.
func WithCredential(cred azcore.TokenCredential) ClientOption {
	return func(opts *clientOptions) {
		opts.credential = cred
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(opts *clientOptions) {
		opts.httpClient = client
	}
}

// WithOpenAIClient injects a pre-configured OpenAI client (primarily for testing).
func WithOpenAIClient(client *openai.Client) ClientOption {
	return func(opts *clientOptions) {
		opts.openaiClient = client
	}
}

// NewClient constructs a client against the configured Azure OpenAI endpoint.
// When no credential is injected the default Azure chain is resolved, which
// may reach out to the identity provider.
func NewClient(cfg *Config, opts ...ClientOption) (*Client, error) {
	if cfg == nil {
		return nil, E(KindConfig, "aoai.NewClient", errors.New("config cannot be nil"))
	}

	clientCfg := cfg.Clone()
	if err := clientCfg.Validate(); err != nil {
		return nil, err
	}

	optState := clientOptions{}
	for _, opt := range opts {
		opt(&optState)
	}

	logger := optState.logger
	if logger == nil {
		logger = NewLogger(clientCfg.LogLevel)
	}

	cred := optState.credential
	var oaClient *openai.Client
	if optState.openaiClient != nil {
		oaClient = optState.openaiClient
	} else {
		if cred == nil {
			resolved, err := NewTokenCredential()
			if err != nil {
				return nil, err
			}
			cred = resolved
		}
		oaOpts := []option.RequestOption{
			azure.WithEndpoint(clientCfg.Endpoint, clientCfg.APIVersion),
			azure.WithTokenCredential(cred),
		}
		if clientCfg.Timeout > 0 {
			oaOpts = append(oaOpts, option.WithRequestTimeout(clientCfg.Timeout))
		}
		if optState.httpClient != nil {
			oaOpts = append(oaOpts, option.WithHTTPClient(optState.httpClient))
		}
		clientVal := openai.NewClient(oaOpts...)
		oaClient = &clientVal
	}

	return &Client{
		config:       clientCfg,
		openaiClient: oaClient,
		credential:   cred,
		logger:       logger,
	}, nil
}

// OpenAI exposes the underlying SDK client.
func (c *Client) OpenAI() *openai.Client {
	return c.openaiClient
}

// Config returns an immutable copy of the client configuration.
func (c *Client) Config() *Config {
	return c.config.Clone()
}

// Logger returns the logger the client was built with.
func (c *Client) Logger() Logger {
	return c.logger
}

// TokenProvider returns a bearer-token provider for the given scope, backed by
// the client's credential. It returns nil when no credential was resolved
// (for instance when a raw OpenAI client was injected in tests).
func (c *Client) TokenProvider(scope string) TokenProvider {
	if c.credential == nil {
		return nil
	}
	return BearerTokenProvider(c.credential, scope)
}
