package transport

import (
	"context"
	"sort"
	"sync"
	"time"

	"bistro-pos/internal/domain"
	"bistro-pos/internal/repository"

	"github.com/google/uuid"
)

// fakeOrderRepository is an in-memory order store
type fakeOrderRepository struct {
	mu        sync.Mutex
	records   []*domain.PaymentRecord
	byKey     map[string]*domain.PaymentRecord
	createErr error
	listErr   error
	days      []repository.DailySales
}

func newFakeOrderRepository() *fakeOrderRepository {
	return &fakeOrderRepository{byKey: map[string]*domain.PaymentRecord{}}
}

func (f *fakeOrderRepository) Create(ctx context.Context, record *domain.PaymentRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if existing, ok := f.byKey[record.IdempotencyKey]; ok && record.IdempotencyKey != "" {
		*record = *existing
		return nil
	}

	record.ID = uuid.New()
	record.CreatedAt = time.Now().Add(time.Duration(len(f.records)) * time.Millisecond)
	stored := *record
	f.records = append(f.records, &stored)
	if record.IdempotencyKey != "" {
		f.byKey[record.IdempotencyKey] = &stored
	}
	return nil
}

func (f *fakeOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.PaymentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (f *fakeOrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]*domain.PaymentRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []*domain.PaymentRecord{}
	for _, r := range f.records {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeOrderRepository) DailySales(ctx context.Context, status domain.OrderStatus, from, to time.Time) ([]repository.DailySales, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.days, nil
}

func (f *fakeOrderRepository) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

// fakeCatalogRepository is an in-memory catalog store
type fakeCatalogRepository struct {
	mu      sync.Mutex
	items   map[uuid.UUID]*domain.CatalogItem
	listErr error
}

func newFakeCatalogRepository(items ...domain.CatalogItem) *fakeCatalogRepository {
	f := &fakeCatalogRepository{items: map[uuid.UUID]*domain.CatalogItem{}}
	for i := range items {
		it := items[i]
		f.items[it.ID] = &it
	}
	return f
}

func (f *fakeCatalogRepository) Create(ctx context.Context, item *domain.CatalogItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *item
	f.items[item.ID] = &stored
	return nil
}

func (f *fakeCatalogRepository) Update(ctx context.Context, item *domain.CatalogItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[item.ID]; !ok {
		return repository.ErrCatalogItemNotFound
	}
	stored := *item
	f.items[item.ID] = &stored
	return nil
}

func (f *fakeCatalogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return repository.ErrCatalogItemNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeCatalogRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.CatalogItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return nil, repository.ErrCatalogItemNotFound
	}
	cp := *it
	return &cp, nil
}

func (f *fakeCatalogRepository) List(ctx context.Context) ([]*domain.CatalogItem, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.CatalogItem, 0, len(f.items))
	for _, it := range f.items {
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCatalogRepository) Categories(ctx context.Context) ([]string, error) {
	items, _ := f.List(ctx)
	seen := map[string]bool{}
	out := []string{}
	for _, it := range items {
		if !seen[it.Category] {
			seen[it.Category] = true
			out = append(out, it.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}
