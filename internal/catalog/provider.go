package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"bistro-pos/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

const defaultLoadTimeout = 5 * time.Second

// Provider supplies the ordered list of sellable items
type Provider interface {
	ListCatalogItems(ctx context.Context) []domain.CatalogItem
}

// ItemLister is the read side of the catalog store
type ItemLister interface {
	List(ctx context.Context) ([]*domain.CatalogItem, error)
}

// StaticProvider serves a fixed catalog
type StaticProvider struct {
	items []domain.CatalogItem
}

// NewStaticProvider creates a Provider over a copy of items
func NewStaticProvider(items []domain.CatalogItem) *StaticProvider {
	copied := make([]domain.CatalogItem, len(items))
	copy(copied, items)
	return &StaticProvider{items: copied}
}

// ListCatalogItems returns a copy of the fixed catalog
func (p *StaticProvider) ListCatalogItems(_ context.Context) []domain.CatalogItem {
	items := make([]domain.CatalogItem, len(p.items))
	copy(items, p.items)
	return items
}

// StoreProvider reads the catalog from the store, optionally through a cache.
//
// A failed read is logged and reported as an empty catalog; callers never
// see the error.
type StoreProvider struct {
	store       ItemLister
	cache       Cache
	logger      *zap.Logger
	sfg         singleflight.Group
	cacheMu     sync.Mutex // orders cache writes against Invalidate
	generation  atomic.Uint64
	loadTimeout time.Duration
}

// NewStoreProvider creates a StoreProvider. cache may be nil.
func NewStoreProvider(store ItemLister, cache Cache, logger *zap.Logger) *StoreProvider {
	return &StoreProvider{
		store:       store,
		cache:       cache,
		logger:      logger,
		loadTimeout: defaultLoadTimeout,
	}
}

const catalogFlightKey = "catalog"

// ListCatalogItems returns the catalog, or an empty slice if the store is
// unreachable
func (p *StoreProvider) ListCatalogItems(ctx context.Context) []domain.CatalogItem {
	items, err := p.Items(ctx)
	if err != nil {
		p.logger.Warn("Failed to fetch catalog items", zap.Error(err))
		return []domain.CatalogItem{}
	}
	return items
}

// Items returns the catalog or ErrCatalogUnavailable. Concurrent callers
// share one load; a caller whose ctx ends stops waiting without cancelling
// the load for the others.
func (p *StoreProvider) Items(ctx context.Context) ([]domain.CatalogItem, error) {
	ch := p.sfg.DoChan(catalogFlightKey, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.loadTimeout)
		defer cancel()
		return p.load(loadCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, res.Err)
		}
		shared := res.Val.([]domain.CatalogItem)
		items := make([]domain.CatalogItem, len(shared))
		copy(items, shared)
		return items, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, ctx.Err())
	}
}

// Invalidate drops the cached catalog so the next read goes to the store
func (p *StoreProvider) Invalidate(ctx context.Context) {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()

	p.generation.Add(1)
	p.sfg.Forget(catalogFlightKey)
	if p.cache == nil {
		return
	}
	if err := p.cache.Invalidate(ctx); err != nil {
		p.logger.Warn("Failed to invalidate catalog cache", zap.Error(err))
	}
}

func (p *StoreProvider) load(ctx context.Context) ([]domain.CatalogItem, error) {
	gen := p.generation.Load()

	if p.cache != nil {
		items, err := p.cache.Get(ctx)
		if err == nil {
			return items, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			p.logger.Warn("Catalog cache read failed", zap.Error(err))
		}
	}

	stored, err := p.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog items: %w", err)
	}

	items := make([]domain.CatalogItem, 0, len(stored))
	for _, item := range stored {
		items = append(items, *item)
	}

	if p.cache != nil {
		p.storeInCache(items, gen)
	}

	return items, nil
}

// storeInCache writes items unless an Invalidate happened since generation gen
func (p *StoreProvider) storeInCache(items []domain.CatalogItem, gen uint64) {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()

	if p.generation.Load() != gen {
		p.logger.Debug("Catalog changed during load, skipping cache write")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := p.cache.Set(ctx, items); err != nil {
		p.logger.Warn("Catalog cache write failed", zap.Error(err))
	}
}
