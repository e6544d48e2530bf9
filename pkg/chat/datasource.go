// Package chat issues a single chat completion augmented with an Azure AI
// Search retrieval data source and returns the model's answer.
package chat

import (
	"aoai-tools/pkg/aoai"
)

// Retrieval contract fields. The query mode and document limits are part of
// the request contract, not tunables.
const (
	dataSourceTypeAzureSearch = "azure_search"
	queryTypeHybrid           = "vector_semantic_hybrid"
	embeddingByDeployment     = "deployment_name"
	topNDocuments             = 3
	maxSearchQueries          = 3
)

// DataSource is one entry of the request's data_sources extension.
type DataSource struct {
	Type       string           `json:"type"`
	Parameters SearchParameters `json:"parameters"`
}

// SearchParameters mirrors the azure_search parameter block of the
// completion service's "on your data" wire format.
type SearchParameters struct {
	Endpoint              string              `json:"endpoint"`
	IndexName             string              `json:"index_name"`
	InScope               bool                `json:"in_scope"`
	QueryType             string              `json:"query_type"`
	EmbeddingDependency   EmbeddingDependency `json:"embedding_dependency"`
	SemanticConfiguration string              `json:"semantic_configuration"`
	TopNDocuments         int                 `json:"top_n_documents"`
	MaxSearchQueries      int                 `json:"max_search_queries"`
	Authentication        Authentication      `json:"authentication"`
}

// EmbeddingDependency names the deployment used to vectorise search queries.
type EmbeddingDependency struct {
	Type           string `json:"type"`
	DeploymentName string `json:"deployment_name"`
}

// Authentication tells the completion service how to reach the search index.
type Authentication struct {
	Type        string `json:"type"`
	AccessToken string `json:"access_token,omitempty"`
}

// azureSearchDataSource builds the single hybrid vector+semantic data source
// from configuration. token is only consulted for access_token authentication.
func azureSearchDataSource(cfg *aoai.Config, token string) DataSource {
	auth := Authentication{Type: cfg.Search.Authentication}
	if auth.Type == aoai.AuthAccessToken {
		auth.AccessToken = token
	}
	return DataSource{
		Type: dataSourceTypeAzureSearch,
		Parameters: SearchParameters{
			Endpoint:  cfg.Search.Endpoint,
			IndexName: cfg.Search.IndexName,
			InScope:   true,
			QueryType: queryTypeHybrid,
			EmbeddingDependency: EmbeddingDependency{
				Type:           embeddingByDeployment,
				DeploymentName: cfg.EmbeddingDeployment,
			},
			SemanticConfiguration: cfg.Search.SemanticConfiguration,
			TopNDocuments:         topNDocuments,
			MaxSearchQueries:      maxSearchQueries,
			Authentication:        auth,
		},
	}
}
