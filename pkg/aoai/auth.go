package aoai

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// CognitiveScope is the token scope for the Azure OpenAI service.
const CognitiveScope = "https://cognitiveservices.azure.com/.default"

// Authentication modes accepted by the search data source.
const (
	AuthSystemAssignedManagedIdentity = "system_assigned_managed_identity"
	AuthAccessToken                   = "access_token"
)

// TokenProvider yields a fresh bearer token on demand. Caching and refresh
// are delegated to the underlying credential chain.
type TokenProvider func(ctx context.Context) (string, error)

// NewTokenCredential resolves a credential from the default Azure chain
// (environment service principal, workload identity, managed identity, CLI).
func NewTokenCredential() (azcore.TokenCredential, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, E(KindAuth, "aoai.NewTokenCredential", fmt.Errorf("failed to obtain access token: %w", err))
	}
	return cred, nil
}

// BearerTokenProvider adapts a credential into a TokenProvider bound to one scope.
func BearerTokenProvider(cred azcore.TokenCredential, scope string) TokenProvider {
	return func(ctx context.Context) (string, error) {
		tok, err := cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{scope}})
		if err != nil {
			return "", E(KindAuth, "aoai.BearerTokenProvider", fmt.Errorf("failed to obtain access token: %w", err))
		}
		return tok.Token, nil
	}
}
