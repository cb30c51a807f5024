package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bistro-pos/internal/catalog"
	"bistro-pos/internal/domain"
	"bistro-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogItemInput holds the editable fields of a catalog item
type CatalogItemInput struct {
	Name         string
	Price        decimal.Decimal
	Category     string
	ImageURL     string
	IsSpicy      bool
	IsVegetarian bool
}

// CatalogService serves the register's menu and the menu-management surface
type CatalogService interface {
	Browse(ctx context.Context, query, category string) []domain.CatalogItem
	Categories(ctx context.Context) []string
	Lookup(ctx context.Context, id uuid.UUID) (domain.CatalogItem, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.CatalogItem, error)
	Create(ctx context.Context, in CatalogItemInput) (*domain.CatalogItem, error)
	Update(ctx context.Context, id uuid.UUID, in CatalogItemInput) (*domain.CatalogItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// invalidator is implemented by providers that cache the catalog
type invalidator interface {
	Invalidate(ctx context.Context)
}

// itemSource is implemented by providers that can report a failed load
type itemSource interface {
	Items(ctx context.Context) ([]domain.CatalogItem, error)
}

type catalogService struct {
	repo     repository.CatalogRepository
	provider catalog.Provider
	logger   *zap.Logger
	now      func() time.Time
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(repo repository.CatalogRepository, provider catalog.Provider, logger *zap.Logger) CatalogService {
	return &catalogService{
		repo:     repo,
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *catalogService) Browse(ctx context.Context, query, category string) []domain.CatalogItem {
	return catalog.Filter(s.provider.ListCatalogItems(ctx), query, category)
}

func (s *catalogService) Categories(ctx context.Context) []string {
	return catalog.Categories(s.provider.ListCatalogItems(ctx))
}

// Lookup finds id in the catalog the register is currently showing. It
// returns catalog.ErrCatalogUnavailable when the catalog could not be loaded
// and repository.ErrCatalogItemNotFound when id is not on it.
func (s *catalogService) Lookup(ctx context.Context, id uuid.UUID) (domain.CatalogItem, error) {
	var items []domain.CatalogItem
	if src, ok := s.provider.(itemSource); ok {
		loaded, err := src.Items(ctx)
		if err != nil {
			s.logger.Warn("Catalog lookup failed", zap.String("item_id", id.String()), zap.Error(err))
			return domain.CatalogItem{}, err
		}
		items = loaded
	} else {
		items = s.provider.ListCatalogItems(ctx)
	}

	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return domain.CatalogItem{}, repository.ErrCatalogItemNotFound
}

func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*domain.CatalogItem, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *catalogService) Create(ctx context.Context, in CatalogItemInput) (*domain.CatalogItem, error) {
	in, err := normalizeCatalogInput(in)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	item := &domain.CatalogItem{
		ID:           uuid.New(),
		Name:         in.Name,
		Price:        in.Price,
		Category:     in.Category,
		ImageURL:     in.ImageURL,
		IsSpicy:      in.IsSpicy,
		IsVegetarian: in.IsVegetarian,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	s.logger.Info("Catalog item created", zap.String("item_id", item.ID.String()), zap.String("name", item.Name))
	return item, nil
}

func (s *catalogService) Update(ctx context.Context, id uuid.UUID, in CatalogItemInput) (*domain.CatalogItem, error) {
	in, err := normalizeCatalogInput(in)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Name = in.Name
	item.Price = in.Price
	item.Category = in.Category
	item.ImageURL = in.ImageURL
	item.IsSpicy = in.IsSpicy
	item.IsVegetarian = in.IsVegetarian
	item.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	s.logger.Info("Catalog item updated", zap.String("item_id", item.ID.String()))
	return item, nil
}

func (s *catalogService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)

	s.logger.Info("Catalog item deleted", zap.String("item_id", id.String()))
	return nil
}

func (s *catalogService) invalidate(ctx context.Context) {
	if inv, ok := s.provider.(invalidator); ok {
		inv.Invalidate(ctx)
	}
}

func normalizeCatalogInput(in CatalogItemInput) (CatalogItemInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.ImageURL = strings.TrimSpace(in.ImageURL)

	switch {
	case in.Name == "":
		return in, fmt.Errorf("%w: name is required", ErrInvalidCatalogItem)
	case in.Category == "":
		return in, fmt.Errorf("%w: category is required", ErrInvalidCatalogItem)
	case in.Price.IsNegative():
		return in, fmt.Errorf("%w: price must not be negative", ErrInvalidCatalogItem)
	}
	return in, nil
}
