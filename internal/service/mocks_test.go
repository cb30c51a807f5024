package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"bistro-pos/internal/domain"
	"bistro-pos/internal/events"
	"bistro-pos/internal/repository"

	"github.com/google/uuid"
)

// Mock repositories for testing
type mockOrderRepository struct {
	mu        sync.Mutex
	records   []*domain.PaymentRecord
	createErr error
	block     bool // Create waits for ctx to end
	listErr   error
	days      []repository.DailySales
	creates   int
	byKey     map[string]*domain.PaymentRecord
}

func (m *mockOrderRepository) Create(ctx context.Context, record *domain.PaymentRecord) error {
	m.mu.Lock()
	m.creates++
	m.mu.Unlock()

	if m.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if m.createErr != nil {
		return m.createErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.byKey[record.IdempotencyKey]; ok && record.IdempotencyKey != "" {
		*record = *existing
		return nil
	}
	record.ID = uuid.New()
	record.CreatedAt = time.Now()
	stored := *record
	m.records = append(m.records, &stored)
	if record.IdempotencyKey != "" {
		if m.byKey == nil {
			m.byKey = make(map[string]*domain.PaymentRecord)
		}
		m.byKey[record.IdempotencyKey] = &stored
	}
	return nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.PaymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *mockOrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]*domain.PaymentRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*domain.PaymentRecord{}
	for _, r := range m.records {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if !filter.From.IsZero() && r.CreatedAt.Before(filter.From) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockOrderRepository) DailySales(ctx context.Context, status domain.OrderStatus, from, to time.Time) ([]repository.DailySales, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.days, nil
}

type mockCatalogRepository struct {
	items   map[uuid.UUID]*domain.CatalogItem
	err     error
	listErr error
}

func newMockCatalogRepository() *mockCatalogRepository {
	return &mockCatalogRepository{items: make(map[uuid.UUID]*domain.CatalogItem)}
}

func (m *mockCatalogRepository) Create(ctx context.Context, item *domain.CatalogItem) error {
	if m.err != nil {
		return m.err
	}
	stored := *item
	m.items[item.ID] = &stored
	return nil
}

func (m *mockCatalogRepository) Update(ctx context.Context, item *domain.CatalogItem) error {
	if _, ok := m.items[item.ID]; !ok {
		return repository.ErrCatalogItemNotFound
	}
	stored := *item
	m.items[item.ID] = &stored
	return nil
}

func (m *mockCatalogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return repository.ErrCatalogItemNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockCatalogRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.CatalogItem, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, repository.ErrCatalogItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (m *mockCatalogRepository) List(ctx context.Context) ([]*domain.CatalogItem, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*domain.CatalogItem, 0, len(m.items))
	for _, item := range m.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockCatalogRepository) Categories(ctx context.Context) ([]string, error) {
	return []string{}, nil
}

type mockPublisher struct {
	mu     sync.Mutex
	events []events.OrderCompleted
	err    error
}

func (m *mockPublisher) PublishOrderCompleted(ctx context.Context, event events.OrderCompleted) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

// invalidatingProvider counts cache invalidations
type invalidatingProvider struct {
	items         []domain.CatalogItem
	invalidations int
}

func (p *invalidatingProvider) ListCatalogItems(ctx context.Context) []domain.CatalogItem {
	return p.items
}

func (p *invalidatingProvider) Invalidate(ctx context.Context) {
	p.invalidations++
}
