package repositories

import (
	"context"
	"errors"

	"inventory/internal/models"
)

var (
	// ErrProductNotFound is returned when no row has the requested id.
	ErrProductNotFound = errors.New("product not found")
	// ErrProductConflict is returned when creating a product whose id is taken.
	ErrProductConflict = errors.New("product already exists")
)

// ProductRepository defines the interface for product data access.
// Every method is its own unit of work.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int64, error)
	// SeedIfEmpty inserts products only when the table has no rows and
	// reports how many were inserted.
	SeedIfEmpty(ctx context.Context, products []models.Product) (int, error)
}
