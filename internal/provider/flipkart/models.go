package flipkart

import (
	"time"

	"affiliatebot/internal/model"
)

type searchResponse struct {
	Products []productResponse `json:"products"`
}

type productResponse struct {
	ProductBaseInfo productBaseInfo `json:"productBaseInfoV1"`
}

type topOffersResponse struct {
	TopOffers []productResponse `json:"topOffers"`
}

type productBaseInfo struct {
	ProductID          string       `json:"productId"`
	Title              string       `json:"title"`
	ProductDescription string       `json:"productDescription"`
	ProductURL         string       `json:"productUrl"`
	CategoryPath       string       `json:"categoryPath"`
	SellingPrice       priceAmount  `json:"flipkartSellingPrice"`
	MaximumRetailPrice priceAmount  `json:"maximumRetailPrice"`
	ImageURLs          imageVariant `json:"imageUrls"`
}

type priceAmount struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type imageVariant struct {
	Square400 string `json:"400x400"`
	Square200 string `json:"200x200"`
}

func (info productBaseInfo) toProduct() model.Product {
	product := model.Product{
		ID:          info.ProductID,
		Platform:    platformName,
		Title:       info.Title,
		Price:       info.SellingPrice.Amount,
		URL:         info.ProductURL,
		ImageURL:    info.ImageURLs.Square400,
		Category:    info.CategoryPath,
		Description: info.ProductDescription,
		LastUpdated: time.Now(),
	}
	// The API serves monetized URLs directly.
	product.AffiliateURL = product.URL

	if mrp := info.MaximumRetailPrice.Amount; mrp > product.Price && product.Price > 0 {
		product.OriginalPrice = &mrp
		product.DiscountPercentage = model.DiscountPercent(product.Price, mrp)
	}

	return product
}
