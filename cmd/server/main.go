package main

import (
	"context"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"affiliatebot/internal/api"
	"affiliatebot/internal/cache"
	"affiliatebot/internal/config"
	"affiliatebot/internal/manager"
	"affiliatebot/internal/observability"
	"affiliatebot/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	observability.Start(cfg.MetricsPort)

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping Postgres: %v", err)
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

	m := manager.New(productStore, resultCache, cfg.ProviderTimeout, providers...)

	http.Handle("/search", api.SearchHandler(m))
	http.Handle("/compare", api.CompareHandler(m))
	http.Handle("/deals", api.DealsHandler(m))
	http.Handle("/products", api.ProductsHandler(m))

	log.Println("Affiliate API listening on :8080")
	log.Fatal(http.ListenAndServe(":8080", nil))
}
