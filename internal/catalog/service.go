// Package catalog serves product reads through a Redis-backed snapshot of
// the product collection, falling back to the document store on a miss.
// Writes go through the store directly and invalidate the snapshot.
package catalog

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"

	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/store"
	"golang.org/x/sync/singleflight"
)

type Service struct {
	products store.ProductStore
	cache    SnapshotCache
	sfg      singleflight.Group // collapses concurrent snapshot rebuilds
}

func NewService(products store.ProductStore, cache SnapshotCache) *Service {
	return &Service{
		products: products,
		cache:    cache,
	}
}

// ListAll returns every product, cache-first.
func (s *Service) ListAll(ctx context.Context) ([]product.Product, error) {
	return s.snapshot(ctx)
}

// Search returns products whose name contains the query, case-insensitive.
// An empty query behaves like ListAll. A warm snapshot is filtered in
// memory; a cold one delegates to the store's name search instead of
// rebuilding the whole snapshot for a single query.
func (s *Service) Search(ctx context.Context, query string) ([]product.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.snapshot(ctx)
	}

	all, err := s.cache.Get(ctx)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("[Catalog] Cache get failed, searching store: %v", err)
		}
		return s.products.Search(ctx, query)
	}

	needle := strings.ToLower(query)
	out := make([]product.Product, 0, len(all))
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetByID reads a single product from the store. Detail pages are rare
// enough that they skip the snapshot and always see current data.
func (s *Service) GetByID(ctx context.Context, id string) (*product.Product, error) {
	return s.products.GetByID(ctx, id)
}

// Invalidate drops the snapshot. Callers invoke it after any product write.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx); err != nil {
		log.Printf("[Catalog] Snapshot invalidation failed: %v", err)
	}
}

func (s *Service) snapshot(ctx context.Context) ([]product.Product, error) {
	v, err, _ := s.sfg.Do(snapshotKey, func() (interface{}, error) {
		products, err := s.cache.Get(ctx)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("[Catalog] Cache get failed, serving from store: %v", err)
		}

		products, err = s.products.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		sort.Slice(products, func(i, j int) bool {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		})

		go func() {
			if err := s.cache.Set(context.Background(), products); err != nil {
				log.Printf("[Catalog] Cache set failed: %v", err)
			}
		}()

		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]product.Product), nil
}
