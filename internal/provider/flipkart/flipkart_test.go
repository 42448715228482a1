package flipkart

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"affiliatebot/internal/provider"
)

const searchJSON = `{
	"products": [
		{
			"productBaseInfoV1": {
				"productId": "MOBFKCTSVZAXUHGR",
				"title": "Pixel 8 (Obsidian, 128 GB)",
				"productDescription": "Google Pixel 8 smartphone",
				"productUrl": "https://dl.flipkart.com/dl/pixel-8?affid=testaffid",
				"categoryPath": "Mobiles",
				"flipkartSellingPrice": {"amount": 52999, "currency": "INR"},
				"maximumRetailPrice": {"amount": 75999, "currency": "INR"},
				"imageUrls": {"400x400": "https://img.flipkart.com/pixel8-400.jpg"}
			}
		},
		{
			"productBaseInfoV1": {
				"productId": "MOBFULLPRICE",
				"title": "Full Price Phone",
				"productUrl": "https://dl.flipkart.com/dl/full-price?affid=testaffid",
				"flipkartSellingPrice": {"amount": 9999, "currency": "INR"},
				"maximumRetailPrice": {"amount": 9999, "currency": "INR"}
			}
		}
	]
}`

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	p, err := New(map[string]string{
		"affiliate_id":    "testaffid",
		"affiliate_token": "testtoken",
		"base_url":        ts.URL,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p
}

func TestSearchProducts(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Fk-Affiliate-Id"); got != "testaffid" {
			t.Errorf("expected affiliate id header, got %q", got)
		}
		if got := r.Header.Get("Fk-Affiliate-Token"); got != "testtoken" {
			t.Errorf("expected affiliate token header, got %q", got)
		}
		if got := r.URL.Query().Get("resultCount"); got != "10" {
			t.Errorf("expected resultCount=10, got %q", got)
		}
		fmt.Fprint(w, searchJSON)
	})

	products, err := p.SearchProducts(context.Background(), "pixel 8", 10)
	if err != nil {
		t.Fatalf("SearchProducts failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}

	first := products[0]
	if first.ID != "MOBFKCTSVZAXUHGR" {
		t.Errorf("unexpected id %q", first.ID)
	}
	if first.Platform != "flipkart" {
		t.Errorf("expected platform flipkart, got %q", first.Platform)
	}
	if first.Price != 52999 {
		t.Errorf("expected price 52999, got %f", first.Price)
	}
	if first.OriginalPrice == nil || *first.OriginalPrice != 75999 {
		t.Errorf("expected original price 75999, got %v", first.OriginalPrice)
	}
	if first.DiscountPercentage == nil || *first.DiscountPercentage < 30 || *first.DiscountPercentage > 31 {
		t.Errorf("expected ~30%% discount, got %v", first.DiscountPercentage)
	}
	if first.AffiliateURL != first.URL {
		t.Errorf("API URLs are already monetized; affiliate URL should equal URL")
	}
	if first.Category != "Mobiles" {
		t.Errorf("unexpected category %q", first.Category)
	}

	// MRP equal to selling price is not a discount.
	if products[1].DiscountPercentage != nil {
		t.Errorf("expected no discount for full-price product, got %v", *products[1].DiscountPercentage)
	}
}

func TestSearchProductsTruncatesOversizedResponse(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		// Serve two products no matter what resultCount was requested.
		fmt.Fprint(w, searchJSON)
	})

	products, err := p.SearchProducts(context.Background(), "pixel", 1)
	if err != nil {
		t.Fatalf("SearchProducts failed: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected results clamped to 1, got %d", len(products))
	}
	if products[0].ID != "MOBFKCTSVZAXUHGR" {
		t.Errorf("expected the first product to survive, got %q", products[0].ID)
	}
}

func TestSearchProductsAPIError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})

	if _, err := p.SearchProducts(context.Background(), "pixel", 5); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestGetProductDetails(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/MOBFKCTSVZAXUHGR" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"productBaseInfoV1": {"productId": "MOBFKCTSVZAXUHGR", "title": "Pixel 8", "flipkartSellingPrice": {"amount": 52999}}}`)
	})

	product, err := p.GetProductDetails(context.Background(), "MOBFKCTSVZAXUHGR")
	if err != nil {
		t.Fatalf("GetProductDetails failed: %v", err)
	}
	if product == nil || product.Title != "Pixel 8" {
		t.Fatalf("unexpected product %+v", product)
	}
}

func TestGetProductDetailsNotFound(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})

	product, err := p.GetProductDetails(context.Background(), "MISSING")
	if err != nil {
		t.Fatalf("GetProductDetails failed: %v", err)
	}
	if product != nil {
		t.Errorf("expected absent product, got %+v", product)
	}
}

func TestGetTrendingProducts(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/offers/v1/top/json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{
			"topOffers": [
				{"productBaseInfoV1": {"productId": "A", "title": "Deal A", "categoryPath": "Mobiles", "flipkartSellingPrice": {"amount": 100}, "maximumRetailPrice": {"amount": 200}}},
				{"productBaseInfoV1": {"productId": "B", "title": "Deal B", "categoryPath": "Laptops", "flipkartSellingPrice": {"amount": 500}}}
			]
		}`)
	})

	all, err := p.GetTrendingProducts(context.Background(), "")
	if err != nil {
		t.Fatalf("GetTrendingProducts failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 offers, got %d", len(all))
	}

	mobiles, err := p.GetTrendingProducts(context.Background(), "Mobiles")
	if err != nil {
		t.Fatalf("GetTrendingProducts failed: %v", err)
	}
	if len(mobiles) != 1 || mobiles[0].ID != "A" {
		t.Fatalf("expected only the Mobiles offer, got %+v", mobiles)
	}
}

func TestGenerateAffiliateLinkIsIdentity(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {})

	url := "https://dl.flipkart.com/dl/pixel-8?affid=testaffid"
	if got := p.GenerateAffiliateLink(url); got != url {
		t.Errorf("expected identity, got %q", got)
	}
}

func TestMissingConfig(t *testing.T) {
	_, err := New(map[string]string{"affiliate_id": "testaffid"})
	if err == nil {
		t.Fatal("expected ConfigError when token is missing")
	}

	var cfgErr *provider.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *provider.ConfigError, got %T", err)
	}
	if cfgErr.Field != "affiliate_token" {
		t.Errorf("expected missing field affiliate_token, got %q", cfgErr.Field)
	}
	if cfgErr.Error() != "flipkart: missing required config field: affiliate_token" {
		t.Errorf("unexpected error text %q", cfgErr.Error())
	}
}
