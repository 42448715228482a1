package amazon

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"affiliatebot/internal/model"
	"affiliatebot/internal/provider"
)

const platformName = "amazon"

var requiredFields = []string{"associate_tag"}

// Provider scrapes Amazon search and detail pages. Amazon has no public
// product API without PA-API credentials, so results come from the same
// markup the storefront serves.
type Provider struct {
	tag     string
	baseURL string
	client  *http.Client
}

func New(cfg map[string]string) (*Provider, error) {
	if err := provider.ValidateConfig(platformName, cfg, requiredFields); err != nil {
		return nil, err
	}

	baseURL := cfg["base_url"]
	if baseURL == "" {
		baseURL = "https://www.amazon.com"
	}

	return &Provider{
		tag:     cfg["associate_tag"],
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (p *Provider) Platform() string { return platformName }

func (p *Provider) RequiredConfigFields() []string { return requiredFields }

func (p *Provider) fetch(ctx context.Context, pageURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("amazon status %d for %s", resp.StatusCode, pageURL)
	}
	return resp, nil
}

func (p *Provider) SearchProducts(ctx context.Context, query string, maxResults int) ([]model.Product, error) {
	searchURL := fmt.Sprintf("%s/s?k=%s", p.baseURL, url.QueryEscape(query))

	resp, err := p.fetch(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	defer resp.Body.Close()

	products, err := p.parseSearchResults(resp.Body, maxResults)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return products, nil
}

func (p *Provider) GetProductDetails(ctx context.Context, id string) (*model.Product, error) {
	productURL := fmt.Sprintf("%s/dp/%s", p.baseURL, id)

	resp, err := p.fetch(ctx, productURL)
	if err != nil {
		return nil, fmt.Errorf("details %s: %w", id, err)
	}
	defer resp.Body.Close()

	return p.parseProductPage(resp.Body, id, productURL)
}

// GenerateAffiliateLink appends the associate tag to the product URL,
// preserving any existing query parameters. Unparseable URLs are returned
// unchanged.
func (p *Provider) GenerateAffiliateLink(productURL string) string {
	if productURL == "" || p.tag == "" {
		return productURL
	}

	u, err := url.Parse(productURL)
	if err != nil {
		return productURL
	}

	q := u.Query()
	q.Set("tag", p.tag)
	u.RawQuery = q.Encode()

	return u.String()
}

// GetTrendingProducts approximates Amazon's best sellers with a search;
// the best-sellers listing itself needs PA-API access.
func (p *Provider) GetTrendingProducts(ctx context.Context, category string) ([]model.Product, error) {
	query := "best sellers"
	if category != "" {
		query = "best sellers " + category
	}
	return p.SearchProducts(ctx, query, 20)
}
