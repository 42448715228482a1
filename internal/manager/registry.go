package manager

import (
	"log"

	"affiliatebot/internal/config"
	"affiliatebot/internal/provider"
	"affiliatebot/internal/provider/amazon"
	"affiliatebot/internal/provider/flipkart"
)

// BuildProviders constructs the provider registry from configuration.
// A platform whose credentials are entirely absent is skipped with a log
// line; a platform that is configured but missing a required field fails
// with a ConfigError.
func BuildProviders(cfg *config.Config) ([]provider.Provider, error) {
	var providers []provider.Provider

	if cfg.AmazonAssociateTag != "" {
		p, err := amazon.New(map[string]string{
			"associate_tag": cfg.AmazonAssociateTag,
			"base_url":      cfg.AmazonBaseURL,
		})
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
		log.Println("amazon provider initialized")
	} else {
		log.Println("amazon provider disabled: AMAZON_ASSOCIATE_TAG not set")
	}

	if cfg.FlipkartAffiliateID != "" {
		p, err := flipkart.New(map[string]string{
			"affiliate_id":    cfg.FlipkartAffiliateID,
			"affiliate_token": cfg.FlipkartAffiliateToken,
			"base_url":        cfg.FlipkartBaseURL,
		})
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
		log.Println("flipkart provider initialized")
	} else {
		log.Println("flipkart provider disabled: FLIPKART_AFFILIATE_ID not set")
	}

	return providers, nil
}
