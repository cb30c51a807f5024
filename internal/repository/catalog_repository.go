package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bistro-pos/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrCatalogItemNotFound = errors.New("catalog item not found")
)

// CatalogRepository defines the interface for catalog item data access
type CatalogRepository interface {
	Create(ctx context.Context, item *domain.CatalogItem) error
	Update(ctx context.Context, item *domain.CatalogItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.CatalogItem, error)
	List(ctx context.Context) ([]*domain.CatalogItem, error)
	Categories(ctx context.Context) ([]string, error)
}

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new instance of CatalogRepository
func NewCatalogRepository(db *sql.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

const catalogColumns = `id, name, price, category, image_url, is_spicy, is_vegetarian, created_at, updated_at`

// Create inserts a new catalog item using parameterized queries
func (r *catalogRepository) Create(ctx context.Context, item *domain.CatalogItem) error {
	query := `
		INSERT INTO catalog_items (` + catalogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.Name,
		item.Price,
		item.Category,
		nullString(item.ImageURL),
		item.IsSpicy,
		item.IsVegetarian,
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create catalog item: %w", err)
	}

	return nil
}

// Update overwrites an existing catalog item using parameterized queries
func (r *catalogRepository) Update(ctx context.Context, item *domain.CatalogItem) error {
	query := `
		UPDATE catalog_items
		SET name = $2, price = $3, category = $4, image_url = $5,
		    is_spicy = $6, is_vegetarian = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.Name,
		item.Price,
		item.Category,
		nullString(item.ImageURL),
		item.IsSpicy,
		item.IsVegetarian,
		item.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update catalog item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCatalogItemNotFound
	}

	return nil
}

// Delete removes a catalog item using parameterized queries
func (r *catalogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM catalog_items WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete catalog item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCatalogItemNotFound
	}

	return nil
}

// FindByID retrieves a catalog item by ID
func (r *catalogRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.CatalogItem, error) {
	query := `SELECT ` + catalogColumns + ` FROM catalog_items WHERE id = $1`

	item, err := scanCatalogItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCatalogItemNotFound
		}
		return nil, fmt.Errorf("failed to find catalog item by ID: %w", err)
	}

	return item, nil
}

// List retrieves the whole catalog in menu order
func (r *catalogRepository) List(ctx context.Context) ([]*domain.CatalogItem, error) {
	query := `
		SELECT ` + catalogColumns + `
		FROM catalog_items
		ORDER BY created_at ASC, name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog items: %w", err)
	}
	defer rows.Close()

	items := []*domain.CatalogItem{}
	for rows.Next() {
		item, err := scanCatalogItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan catalog item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog items: %w", err)
	}

	return items, nil
}

// Categories retrieves the distinct categories in use, alphabetically
func (r *catalogRepository) Categories(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT category FROM catalog_items ORDER BY category ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCatalogItem(row rowScanner) (*domain.CatalogItem, error) {
	item := &domain.CatalogItem{}
	var imageURL sql.NullString
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Price,
		&item.Category,
		&imageURL,
		&item.IsSpicy,
		&item.IsVegetarian,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.ImageURL = imageURL.String
	return item, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
