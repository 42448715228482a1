package model

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Product is the normalized listing shared by every provider and the store.
// Identity is the composite (ID, Platform): ID is marketplace-native (ASIN,
// Flipkart product id, ...) and only unique together with Platform.
type Product struct {
	ID                 string    `json:"id"`
	Platform           string    `json:"platform"`
	Title              string    `json:"title"`
	Price              float64   `json:"price"`
	OriginalPrice      *float64  `json:"original_price,omitempty"`
	DiscountPercentage *float64  `json:"discount_percentage,omitempty"`
	URL                string    `json:"url"`
	AffiliateURL       string    `json:"affiliate_url"`
	ImageURL           string    `json:"image_url,omitempty"`
	Rating             *float64  `json:"rating,omitempty"`
	ReviewCount        *int      `json:"review_count,omitempty"`
	Category           string    `json:"category,omitempty"`
	Description        string    `json:"description,omitempty"`
	LastUpdated        time.Time `json:"last_updated"`
}

// priceRegex finds the first number-like pattern in a price string,
// handling thousands separators and decimals ("1,079.00", "99").
var priceRegex = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)

// ParsePrice extracts a price from marketplace text like "$1,079.00" or
// "List Price: AED 219.41". Returns 0 when no number is found so that
// Price stays total for sorting.
func ParsePrice(s string) float64 {
	if s == "" {
		return 0
	}
	found := priceRegex.FindString(s)
	if found == "" {
		return 0
	}
	cleaned := strings.ReplaceAll(found, ",", "")
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return price
}

// DiscountPercent derives the discount from the sale and original price.
// Returns nil unless both prices are positive and original is higher.
func DiscountPercent(price, original float64) *float64 {
	if price <= 0 || original <= price {
		return nil
	}
	d := (original - price) / original * 100
	return &d
}

func Float(v float64) *float64 { return &v }
