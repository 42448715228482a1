package flipkart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"affiliatebot/internal/model"
	"affiliatebot/internal/provider"
)

const platformName = "flipkart"

var requiredFields = []string{"affiliate_id", "affiliate_token"}

// Provider talks to the Flipkart affiliate JSON API. Every request is
// authenticated with the affiliate id/token header pair, and the product
// URLs the API returns already carry the affiliate id.
type Provider struct {
	affiliateID    string
	affiliateToken string
	baseURL        string
	client         *http.Client
}

func New(cfg map[string]string) (*Provider, error) {
	if err := provider.ValidateConfig(platformName, cfg, requiredFields); err != nil {
		return nil, err
	}

	baseURL := cfg["base_url"]
	if baseURL == "" {
		baseURL = "https://affiliate-api.flipkart.net/affiliate"
	}

	return &Provider{
		affiliateID:    cfg["affiliate_id"],
		affiliateToken: cfg["affiliate_token"],
		baseURL:        baseURL,
		client:         &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (p *Provider) Platform() string { return platformName }

func (p *Provider) RequiredConfigFields() []string { return requiredFields }

func (p *Provider) get(ctx context.Context, apiURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Fk-Affiliate-Id", p.affiliateID)
	req.Header.Set("Fk-Affiliate-Token", p.affiliateToken)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("flipkart status %d for %s", resp.StatusCode, apiURL)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (p *Provider) SearchProducts(ctx context.Context, query string, maxResults int) ([]model.Product, error) {
	searchURL := fmt.Sprintf("%s/search/json?query=%s&resultCount=%d",
		p.baseURL, url.QueryEscape(query), maxResults)

	var result searchResponse
	if err := p.get(ctx, searchURL, &result); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	products := make([]model.Product, 0, len(result.Products))
	for _, item := range result.Products {
		// The API is asked for resultCount items but is not trusted to
		// honor it.
		if maxResults > 0 && len(products) >= maxResults {
			break
		}
		products = append(products, item.ProductBaseInfo.toProduct())
	}
	return products, nil
}

func (p *Provider) GetProductDetails(ctx context.Context, id string) (*model.Product, error) {
	detailURL := fmt.Sprintf("%s/products/%s", p.baseURL, url.PathEscape(id))

	var result productResponse
	if err := p.get(ctx, detailURL, &result); err != nil {
		return nil, fmt.Errorf("details %s: %w", id, err)
	}

	if result.ProductBaseInfo.ProductID == "" {
		return nil, nil
	}

	product := result.ProductBaseInfo.toProduct()
	return &product, nil
}

// GenerateAffiliateLink is the identity: URLs served by the affiliate API
// already embed the affiliate id.
func (p *Provider) GenerateAffiliateLink(productURL string) string {
	return productURL
}

func (p *Provider) GetTrendingProducts(ctx context.Context, category string) ([]model.Product, error) {
	offersURL := p.baseURL + "/offers/v1/top/json"

	var result topOffersResponse
	if err := p.get(ctx, offersURL, &result); err != nil {
		return nil, fmt.Errorf("trending: %w", err)
	}

	products := make([]model.Product, 0, len(result.TopOffers))
	for _, offer := range result.TopOffers {
		product := offer.ProductBaseInfo.toProduct()
		if category != "" && product.Category != category {
			continue
		}
		products = append(products, product)
	}
	return products, nil
}
