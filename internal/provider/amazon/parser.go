package amazon

import (
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"affiliatebot/internal/model"
)

func (p *Provider) parseSearchResults(body io.Reader, maxResults int) ([]model.Product, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, err
	}

	var products []model.Product
	doc.Find("div[data-component-type='s-search-result']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if maxResults > 0 && len(products) >= maxResults {
			return false
		}
		product, ok := p.parseSearchItem(s)
		if !ok {
			return true
		}
		products = append(products, product)
		return true
	})

	return products, nil
}

func (p *Provider) parseSearchItem(s *goquery.Selection) (model.Product, bool) {
	asin := s.AttrOr("data-asin", "")
	title := strings.TrimSpace(s.Find("h2 span").First().Text())
	if asin == "" || title == "" {
		// Sponsored placeholders and widget rows come back without both.
		return model.Product{}, false
	}

	productURL := ""
	if href, ok := s.Find("a.a-link-normal").First().Attr("href"); ok {
		// Result links are usually relative, but redirect rows carry
		// absolute URLs.
		if strings.HasPrefix(href, "http") {
			productURL = href
		} else {
			productURL = p.baseURL + href
		}
	}

	product := model.Product{
		ID:           asin,
		Platform:     platformName,
		Title:        title,
		Price:        model.ParsePrice(s.Find("span.a-price-whole").First().Text()),
		URL:          productURL,
		AffiliateURL: p.GenerateAffiliateLink(productURL),
		ImageURL:     s.Find("img.s-image").First().AttrOr("src", ""),
		Rating:       parseRating(s.Find("span.a-icon-alt").First().Text()),
		LastUpdated:  time.Now(),
	}

	if original := model.ParsePrice(s.Find("span.a-text-price span.a-offscreen").First().Text()); original > product.Price && product.Price > 0 {
		product.OriginalPrice = &original
		product.DiscountPercentage = model.DiscountPercent(product.Price, original)
	}

	return product, true
}

func (p *Provider) parseProductPage(body io.Reader, id, productURL string) (*model.Product, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(doc.Find("span#productTitle").Text())
	if title == "" {
		log.Printf("[amazon] no product title on page for %s, treating as not found", id)
		return nil, nil
	}

	var bullets []string
	doc.Find("div#feature-bullets span.a-list-item").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			bullets = append(bullets, text)
		}
	})

	product := &model.Product{
		ID:           id,
		Platform:     platformName,
		Title:        title,
		Price:        model.ParsePrice(doc.Find("span.a-price-whole").First().Text()),
		URL:          productURL,
		AffiliateURL: p.GenerateAffiliateLink(productURL),
		ImageURL:     doc.Find("img#landingImage").AttrOr("src", ""),
		Rating:       parseRating(doc.Find("span.a-icon-alt").First().Text()),
		Description:  strings.Join(bullets, "\n"),
		LastUpdated:  time.Now(),
	}

	return product, nil
}

// parseRating reads the leading number from strings like
// "4.5 out of 5 stars".
func parseRating(s string) *float64 {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return nil
	}
	rating, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || rating < 0 || rating > 5 {
		return nil
	}
	return &rating
}
