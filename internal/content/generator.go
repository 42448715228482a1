package content

import (
	"context"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"affiliatebot/internal/model"
)

// surfaceLimits are the character budgets per posting surface.
var surfaceLimits = map[string]int{
	"twitter":   280,
	"instagram": 2200,
	"facebook":  63206,
}

// Generator writes marketing copy for products. Generation is best-effort:
// any API failure falls back to the product's own description or title, so
// content never fails a core operation.
type Generator struct {
	client *openai.Client
}

func NewGenerator(apiKey string) *Generator {
	return &Generator{client: openai.NewClient(apiKey)}
}

// NewGeneratorWithClient lets callers supply a preconfigured client.
func NewGeneratorWithClient(client *openai.Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) complete(ctx context.Context, system, prompt string, maxTokens int, temperature float32) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func fallbackText(p model.Product) string {
	if p.Description != "" {
		return p.Description
	}
	return p.Title
}

// ProductDescription generates an engaging description for the product.
func (g *Generator) ProductDescription(ctx context.Context, p model.Product) string {
	original := p.Price
	if p.OriginalPrice != nil {
		original = *p.OriginalPrice
	}

	prompt := fmt.Sprintf(
		"Create an engaging product description for:\nTitle: %s\nPrice: $%.2f\nOriginal Price: $%.2f\nPlatform: %s\n\nMake it compelling and highlight key benefits. Keep it under 150 words.",
		p.Title, p.Price, original, p.Platform,
	)

	text, err := g.complete(ctx, "You are a skilled copywriter for affiliate marketing.", prompt, 200, 0.7)
	if err != nil {
		log.Printf("[content] description for %s/%s failed: %v", p.Platform, p.ID, err)
		return fallbackText(p)
	}
	return text
}

// SocialPost generates a post for the given surface (twitter, instagram,
// facebook), honoring its character limit.
func (g *Generator) SocialPost(ctx context.Context, p model.Product, surface string) string {
	limit, ok := surfaceLimits[surface]
	if !ok {
		surface = "twitter"
		limit = surfaceLimits["twitter"]
	}

	discount := 0.0
	if p.DiscountPercentage != nil {
		discount = *p.DiscountPercentage
	}

	prompt := fmt.Sprintf(
		"Create a %s post for this product:\nTitle: %s\nPrice: $%.2f\nDiscount: %.0f%% off\n\nInclude relevant hashtags and make it engaging.\nCharacter limit: %d\nInclude the affiliate link at the end.",
		surface, p.Title, p.Price, discount, limit,
	)

	system := fmt.Sprintf("You are a social media expert specializing in %s.", surface)
	text, err := g.complete(ctx, system, prompt, 100, 0.8)
	if err != nil {
		log.Printf("[content] %s post for %s/%s failed: %v", surface, p.Platform, p.ID, err)
		return fallbackText(p)
	}
	return text
}
