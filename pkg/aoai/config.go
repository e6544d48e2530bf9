package aoai

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultAPIVersion = "2024-10-21"
	defaultTimeout    = 2 * time.Minute
	defaultLogLevel   = "info"

	envEndpoint            = "AZURE_OPENAI_ENDPOINT"
	envAPIVersion          = "OPENAI_API_VERSION"
	envDeployment          = "LLM_DEPLOYMENT_NAME"
	envEmbeddingDeployment = "EMBEDDING_DEPLOYMENT_NAME"
	envSearchEndpoint      = "AZURE_AI_SEARCH_ENDPOINT"
	envSearchIndex         = "AZURE_AI_SEARCH_INDEX_NAME"
	envSearchSemanticCfg   = "AZURE_AI_SEARCH_SEMANTIC_CONFIG_NAME"
	envTimeout             = "AOAI_TIMEOUT"
	envLogLevel            = "AOAI_LOG_LEVEL"
)

// Config holds runtime settings for the Azure OpenAI clients.
type Config struct {
	Endpoint            string        `yaml:"endpoint"`
	APIVersion          string        `yaml:"api_version"`
	Deployment          string        `yaml:"deployment"`
	EmbeddingDeployment string        `yaml:"embedding_deployment"`
	LogLevel            string        `yaml:"log_level"`
	Timeout             time.Duration `yaml:"-"`
	Search              SearchConfig  `yaml:"search"`

	timeoutRaw string `yaml:"timeout"`
}

// SearchConfig describes the Azure AI Search index used for retrieval augmentation.
type SearchConfig struct {
	Endpoint              string `yaml:"endpoint"`
	IndexName             string `yaml:"index_name"`
	SemanticConfiguration string `yaml:"semantic_configuration"`
	// Authentication selects how the completion service reaches the search
	// index: system_assigned_managed_identity (default) or access_token.
	Authentication string `yaml:"authentication"`
}

// LoadConfig reads configuration from disk. An empty path yields a config
// built purely from defaults and environment variables.
func LoadConfig(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return LoadConfigFromReader(strings.NewReader(""))
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, E(KindConfig, "aoai.LoadConfig", fmt.Errorf("open config: %w", err))
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader constructs a Config from a reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	var raw struct {
		Endpoint            string       `yaml:"endpoint"`
		APIVersion          string       `yaml:"api_version"`
		Deployment          string       `yaml:"deployment"`
		EmbeddingDeployment string       `yaml:"embedding_deployment"`
		LogLevel            string       `yaml:"log_level"`
		Timeout             string       `yaml:"timeout"`
		Search              SearchConfig `yaml:"search"`
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, E(KindConfig, "aoai.LoadConfigFromReader", fmt.Errorf("read config: %w", err))
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, E(KindConfig, "aoai.LoadConfigFromReader", fmt.Errorf("unmarshal config: %w", err))
	}

	cfg := &Config{
		Endpoint:            raw.Endpoint,
		APIVersion:          raw.APIVersion,
		Deployment:          raw.Deployment,
		EmbeddingDeployment: raw.EmbeddingDeployment,
		LogLevel:            raw.LogLevel,
		Search:              raw.Search,
		timeoutRaw:          raw.Timeout,
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	if err := cfg.parseTimeout(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration shared by both utilities.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return E(KindConfig, "aoai.Config.Validate", errors.New("endpoint is required"))
	}
	if strings.TrimSpace(c.APIVersion) == "" {
		return E(KindConfig, "aoai.Config.Validate", errors.New("api_version is required"))
	}
	if c.Timeout <= 0 {
		return E(KindConfig, "aoai.Config.Validate", errors.New("timeout must be positive"))
	}
	return nil
}

// ValidateChat checks the additional settings the augmented chat requester needs.
func (c *Config) ValidateChat() error {
	if strings.TrimSpace(c.Deployment) == "" {
		return E(KindConfig, "aoai.Config.ValidateChat", errors.New("deployment is required"))
	}
	if strings.TrimSpace(c.EmbeddingDeployment) == "" {
		return E(KindConfig, "aoai.Config.ValidateChat", errors.New("embedding_deployment is required"))
	}
	if strings.TrimSpace(c.Search.Endpoint) == "" {
		return E(KindConfig, "aoai.Config.ValidateChat", errors.New("search.endpoint is required"))
	}
	if strings.TrimSpace(c.Search.IndexName) == "" {
		return E(KindConfig, "aoai.Config.ValidateChat", errors.New("search.index_name is required"))
	}
	if strings.TrimSpace(c.Search.SemanticConfiguration) == "" {
		return E(KindConfig, "aoai.Config.ValidateChat", errors.New("search.semantic_configuration is required"))
	}
	switch c.Search.Authentication {
	case AuthSystemAssignedManagedIdentity, AuthAccessToken:
	default:
		return E(KindConfig, "aoai.Config.ValidateChat",
			fmt.Errorf("search.authentication must be %s or %s", AuthSystemAssignedManagedIdentity, AuthAccessToken))
	}
	return nil
}

// Clone returns a shallow copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.APIVersion) == "" {
		c.APIVersion = defaultAPIVersion
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = defaultLogLevel
	}
	if strings.TrimSpace(c.Search.Authentication) == "" {
		c.Search.Authentication = AuthSystemAssignedManagedIdentity
	}
}

func (c *Config) applyEnvOverrides() {
	c.Endpoint = expandAndOverride(c.Endpoint, envEndpoint)
	c.APIVersion = expandAndOverride(c.APIVersion, envAPIVersion)
	c.Deployment = expandAndOverride(c.Deployment, envDeployment)
	c.EmbeddingDeployment = expandAndOverride(c.EmbeddingDeployment, envEmbeddingDeployment)
	c.LogLevel = expandAndOverride(c.LogLevel, envLogLevel)
	c.Search.Endpoint = expandAndOverride(c.Search.Endpoint, envSearchEndpoint)
	c.Search.IndexName = expandAndOverride(c.Search.IndexName, envSearchIndex)
	c.Search.SemanticConfiguration = expandAndOverride(c.Search.SemanticConfiguration, envSearchSemanticCfg)

	if raw := os.Getenv(envTimeout); raw != "" {
		c.timeoutRaw = raw
	} else {
		c.timeoutRaw = os.ExpandEnv(c.timeoutRaw)
	}
}

func (c *Config) parseTimeout() error {
	if strings.TrimSpace(c.timeoutRaw) == "" {
		c.Timeout = defaultTimeout
		return nil
	}

	d, err := time.ParseDuration(c.timeoutRaw)
	if err != nil {
		return E(KindConfig, "aoai.Config.parseTimeout", fmt.Errorf("invalid timeout %q: %w", c.timeoutRaw, err))
	}
	if d <= 0 {
		return E(KindConfig, "aoai.Config.parseTimeout", fmt.Errorf("timeout must be positive, got %s", d))
	}
	c.Timeout = d
	return nil
}

func expandAndOverride(current, envKey string) string {
	current = os.ExpandEnv(current)
	if envVal := os.Getenv(envKey); envVal != "" {
		return envVal
	}
	return current
}
