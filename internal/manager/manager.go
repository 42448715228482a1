package manager

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"affiliatebot/internal/model"
	"affiliatebot/internal/observability"
	"affiliatebot/internal/provider"
)

// Store is the slice of ProductStore the manager needs.
type Store interface {
	Save(ctx context.Context, p model.Product) error
	List(ctx context.Context, platform string) ([]model.Product, error)
	Get(ctx context.Context, id, platform string) (*model.Product, error)
}

// ResultCache caches derived views like price comparisons. A nil cache
// means every operation goes to the providers.
type ResultCache interface {
	Get(ctx context.Context, key string, out any) bool
	Set(ctx context.Context, key string, val any)
}

// Manager fans requests out to every registered provider, isolates
// per-provider failure, and merges the results. The registry is built once
// and read-only afterwards, so fan-out needs no locking.
type Manager struct {
	providers []provider.Provider
	store     Store
	cache     ResultCache
	timeout   time.Duration
}

func New(store Store, cache ResultCache, timeout time.Duration, providers ...provider.Provider) *Manager {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Manager{
		providers: providers,
		store:     store,
		cache:     cache,
		timeout:   timeout,
	}
}

// Platforms returns the registered platform names in registry order.
func (m *Manager) Platforms() []string {
	names := make([]string, len(m.providers))
	for i, p := range m.providers {
		names[i] = p.Platform()
	}
	return names
}

// Provider returns the registered provider for a platform, or nil.
func (m *Manager) Provider(platform string) provider.Provider {
	for _, p := range m.providers {
		if p.Platform() == platform {
			return p
		}
	}
	return nil
}

// fanOut runs call against every provider concurrently and joins on all of
// them. Each call gets its own timeout; a failed, panicking, or expired
// call yields an empty slot for that provider only and never blocks or
// cancels its siblings.
func (m *Manager) fanOut(ctx context.Context, operation string, call func(ctx context.Context, p provider.Provider) ([]model.Product, error)) [][]model.Product {
	results := make([][]model.Product, len(m.providers))

	var wg sync.WaitGroup
	for i, prov := range m.providers {
		wg.Add(1)
		go func(i int, prov provider.Provider) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					observability.ProviderFailures.WithLabelValues(prov.Platform(), operation).Inc()
					log.Printf("[manager] %s %s panicked: %v", prov.Platform(), operation, r)
				}
			}()

			callCtx, cancel := context.WithTimeout(ctx, m.timeout)
			defer cancel()

			observability.ProviderRequests.WithLabelValues(prov.Platform(), operation).Inc()
			products, err := call(callCtx, prov)
			if err != nil {
				observability.ProviderFailures.WithLabelValues(prov.Platform(), operation).Inc()
				log.Printf("[manager] %s %s failed: %v", prov.Platform(), operation, err)
				return
			}
			results[i] = products
		}(i, prov)
	}
	wg.Wait()

	return results
}

// SearchAllPlatforms searches every registered provider with the same
// query and limit. The result always has one entry per registered
// platform, empty when that provider failed or found nothing.
func (m *Manager) SearchAllPlatforms(ctx context.Context, query string, maxPerPlatform int) map[string][]model.Product {
	slots := m.fanOut(ctx, "search", func(ctx context.Context, p provider.Provider) ([]model.Product, error) {
		return p.SearchProducts(ctx, query, maxPerPlatform)
	})

	results := make(map[string][]model.Product, len(m.providers))
	for i, p := range m.providers {
		if slots[i] == nil {
			slots[i] = []model.Product{}
		}
		results[p.Platform()] = slots[i]
	}
	return results
}

// GetBestDeals collects trending products across all providers and keeps
// those with an explicit discount of at least minDiscount percent, sorted
// by discount descending. The sort is stable: equal discounts keep
// registry order, then within-provider order, so output is deterministic
// for deterministic provider output. Products without a discount never
// appear, whatever the threshold.
func (m *Manager) GetBestDeals(ctx context.Context, category string, minDiscount float64) []model.Product {
	slots := m.fanOut(ctx, "trending", func(ctx context.Context, p provider.Provider) ([]model.Product, error) {
		return p.GetTrendingProducts(ctx, category)
	})

	deals := []model.Product{}
	for _, products := range slots {
		for _, p := range products {
			if p.DiscountPercentage != nil && *p.DiscountPercentage >= minDiscount {
				deals = append(deals, p)
			}
		}
	}

	sort.SliceStable(deals, func(i, j int) bool {
		return *deals[i].DiscountPercentage > *deals[j].DiscountPercentage
	})
	return deals
}

// ComparePrices searches each platform for the product name and keeps the
// first hit per platform. Platforms with no hit are omitted entirely.
func (m *Manager) ComparePrices(ctx context.Context, productName string) map[string]model.Product {
	cacheKey := "compare:" + productName

	comparison := map[string]model.Product{}
	if m.cache != nil && m.cache.Get(ctx, cacheKey, &comparison) {
		return comparison
	}

	slots := m.fanOut(ctx, "compare", func(ctx context.Context, p provider.Provider) ([]model.Product, error) {
		return p.SearchProducts(ctx, productName, 1)
	})

	for i, p := range m.providers {
		if len(slots[i]) > 0 {
			comparison[p.Platform()] = slots[i][0]
		}
	}

	if m.cache != nil && len(comparison) > 0 {
		m.cache.Set(ctx, cacheKey, comparison)
	}
	return comparison
}

// SaveProduct promotes a product to durable storage. Unlike provider
// failures, storage failures propagate to the caller.
func (m *Manager) SaveProduct(ctx context.Context, p model.Product) error {
	if err := m.store.Save(ctx, p); err != nil {
		return err
	}
	observability.ProductsSaved.Inc()
	return nil
}

// SavedProducts lists stored products, optionally for one platform.
func (m *Manager) SavedProducts(ctx context.Context, platform string) ([]model.Product, error) {
	return m.store.List(ctx, platform)
}
