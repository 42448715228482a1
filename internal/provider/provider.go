package provider

import (
	"context"
	"fmt"

	"affiliatebot/internal/model"
)

// Provider adapts one marketplace to the normalized Product shape. Each
// implementation owns its own configuration; there is no shared state
// between providers.
//
// Search/details/trending return an error on transport or parse failure;
// the manager absorbs those errors so a degraded marketplace never aborts
// a cross-platform operation. Per-item parse failures inside a result page
// are logged and skipped by the provider itself.
type Provider interface {
	Platform() string
	RequiredConfigFields() []string

	SearchProducts(ctx context.Context, query string, maxResults int) ([]model.Product, error)

	// GetProductDetails returns (nil, nil) when the product does not exist.
	GetProductDetails(ctx context.Context, id string) (*model.Product, error)

	// GenerateAffiliateLink is a pure transformation of a canonical product
	// URL into a monetized one. It returns the input unchanged when the
	// provider cannot monetize it.
	GenerateAffiliateLink(productURL string) string

	GetTrendingProducts(ctx context.Context, category string) ([]model.Product, error)
}

// ConfigError reports a missing required configuration field for a
// platform. It is fatal at construction time; a provider never runs
// half-configured.
type ConfigError struct {
	Platform string
	Field    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: missing required config field: %s", e.Platform, e.Field)
}

// ValidateConfig checks that every required field is present and non-empty,
// returning a ConfigError naming the first missing one.
func ValidateConfig(platform string, cfg map[string]string, required []string) error {
	for _, field := range required {
		if cfg[field] == "" {
			return &ConfigError{Platform: platform, Field: field}
		}
	}
	return nil
}
