package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"affiliatebot/internal/cache"
	"affiliatebot/internal/config"
	"affiliatebot/internal/content"
	"affiliatebot/internal/manager"
	"affiliatebot/internal/model"
	"affiliatebot/internal/queue"
	"affiliatebot/internal/store"
)

// go run cmd/affiliate/main.go -cmd=search -query="wireless headphones"
// go run cmd/affiliate/main.go -cmd=deals -min-discount=20
// go run cmd/affiliate/main.go -cmd=generate -platform=amazon -id=B08N5WRWNW
func main() {
	cmd := flag.String("cmd", "search", "Command: search, compare, deals, generate, schedule or saved")
	query := flag.String("query", "", "Search query / product name")
	category := flag.String("category", "", "Category filter for deals")
	minDiscount := flag.Float64("min-discount", 20, "Minimum discount percent for deals")
	platform := flag.String("platform", "", "Platform name (amazon, flipkart)")
	id := flag.String("id", "", "Marketplace-native product id")
	limit := flag.Int("limit", 5, "Max results per platform")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer pool.Close()

	productStore := &store.ProductStore{DB: pool}
	if err := productStore.Init(ctx); err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}

	var resultCache manager.ResultCache
	if cfg.RedisURL != "" {
		resultCache = cache.New(cfg.RedisURL, cfg.CacheTTL)
	}

	providers, err := manager.BuildProviders(cfg)
	if err != nil {
		log.Fatalf("Provider configuration error: %v", err)
	}
	if len(providers) == 0 {
		log.Fatal("No providers configured; set AMAZON_ASSOCIATE_TAG and/or FLIPKART_AFFILIATE_ID")
	}

	m := manager.New(productStore, resultCache, cfg.ProviderTimeout, providers...)

	switch *cmd {
	case "search":
		runSearch(ctx, m, *query, *limit)
	case "compare":
		runCompare(ctx, m, *query)
	case "deals":
		runDeals(ctx, m, *category, *minDiscount)
	case "generate":
		runGenerate(ctx, cfg, m, *platform, *id)
	case "schedule":
		runSchedule(ctx, cfg, m)
	case "saved":
		runSaved(ctx, m, *platform)
	default:
		log.Fatalf("Unknown command %q", *cmd)
	}
}

func runSearch(ctx context.Context, m *manager.Manager, query string, limit int) {
	if query == "" {
		log.Fatal("search requires -query")
	}

	results := m.SearchAllPlatforms(ctx, query, limit)
	for _, platform := range m.Platforms() {
		products := results[platform]
		fmt.Printf("\n== %s (%d results)\n", platform, len(products))
		for _, p := range products {
			printProduct(p)
		}
	}
}

func runCompare(ctx context.Context, m *manager.Manager, query string) {
	if query == "" {
		log.Fatal("compare requires -query")
	}

	comparison := m.ComparePrices(ctx, query)
	if len(comparison) == 0 {
		fmt.Println("No products found for comparison")
		return
	}
	for _, platform := range m.Platforms() {
		p, ok := comparison[platform]
		if !ok {
			continue
		}
		fmt.Printf("%-10s $%.2f  %s\n    %s\n", platform, p.Price, truncate(p.Title, 60), p.AffiliateURL)
	}
}

func runDeals(ctx context.Context, m *manager.Manager, category string, minDiscount float64) {
	deals := m.GetBestDeals(ctx, category, minDiscount)
	if len(deals) == 0 {
		fmt.Println("No deals found")
		return
	}
	for _, p := range deals {
		fmt.Printf("%-10s %5.0f%% OFF  $%.2f  %s\n", p.Platform, *p.DiscountPercentage, p.Price, truncate(p.Title, 60))
	}
}

func runGenerate(ctx context.Context, cfg *config.Config, m *manager.Manager, platform, id string) {
	if platform == "" || id == "" {
		log.Fatal("generate requires -platform and -id")
	}
	if cfg.OpenAIKey == "" {
		log.Fatal("generate requires OPENAI_API_KEY")
	}

	prov := m.Provider(platform)
	if prov == nil {
		log.Fatalf("Unknown platform %q (registered: %s)", platform, strings.Join(m.Platforms(), ", "))
	}

	product, err := prov.GetProductDetails(ctx, id)
	if err != nil {
		log.Fatalf("Failed to fetch product details: %v", err)
	}
	if product == nil {
		log.Fatalf("Product %s not found on %s", id, platform)
	}

	generator := content.NewGenerator(cfg.OpenAIKey)

	fmt.Println("== Description")
	fmt.Println(generator.ProductDescription(ctx, *product))

	post := generator.SocialPost(ctx, *product, "twitter")
	fmt.Println("\n== Twitter post")
	fmt.Println(post)

	if err := m.SaveProduct(ctx, *product); err != nil {
		log.Fatalf("Failed to save product: %v", err)
	}
	fmt.Println("\nProduct saved")

	postQueue, err := queue.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open post queue: %v", err)
	}
	defer postQueue.Close()
	if err := postQueue.Init(ctx); err != nil {
		log.Fatalf("Failed to initialize post queue: %v", err)
	}
	if err := postQueue.Enqueue(ctx, product.ID, product.Platform, post); err != nil {
		log.Fatalf("Failed to enqueue post: %v", err)
	}
	fmt.Println("Post queued for the scheduler")
}

// runSchedule renders a post for every saved product and queues it; the
// poster daemon (cmd/poster) delivers them on its cadence.
func runSchedule(ctx context.Context, cfg *config.Config, m *manager.Manager) {
	products, err := m.SavedProducts(ctx, "")
	if err != nil {
		log.Fatalf("Failed to load saved products: %v", err)
	}
	if len(products) == 0 {
		fmt.Println("No saved products to schedule")
		return
	}

	var generator *content.Generator
	if cfg.OpenAIKey != "" {
		generator = content.NewGenerator(cfg.OpenAIKey)
	}

	postQueue, err := queue.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open post queue: %v", err)
	}
	defer postQueue.Close()
	if err := postQueue.Init(ctx); err != nil {
		log.Fatalf("Failed to initialize post queue: %v", err)
	}

	for _, p := range products {
		body := p.Title + " " + p.AffiliateURL
		if generator != nil {
			body = generator.SocialPost(ctx, p, "twitter")
		}
		if err := postQueue.Enqueue(ctx, p.ID, p.Platform, body); err != nil {
			log.Fatalf("Failed to enqueue post for %s/%s: %v", p.Platform, p.ID, err)
		}
	}

	pending, err := postQueue.Pending(ctx)
	if err != nil {
		log.Fatalf("Failed to count pending posts: %v", err)
	}
	fmt.Printf("Queued %d posts (%d pending total); run cmd/poster to deliver them\n", len(products), pending)
}

func runSaved(ctx context.Context, m *manager.Manager, platform string) {
	products, err := m.SavedProducts(ctx, platform)
	if err != nil {
		log.Fatalf("Failed to list saved products: %v", err)
	}
	if len(products) == 0 {
		fmt.Println("No saved products")
		return
	}
	for _, p := range products {
		printProduct(p)
	}
}

func printProduct(p model.Product) {
	rating := "N/A"
	if p.Rating != nil {
		rating = fmt.Sprintf("%.1f", *p.Rating)
	}
	fmt.Printf("  %-12s $%8.2f  %s  %s\n    %s\n", p.ID, p.Price, rating, truncate(p.Title, 50), p.AffiliateURL)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
