package repositories

import (
	"context"
	"errors"
	"fmt"

	"inventory/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// unitOfWork runs fn in a transaction: commit on nil, rollback on error or panic.
func (r *GORMProductRepository) unitOfWork(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// GetAll retrieves all products ordered by id.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := r.unitOfWork(ctx, func(tx *gorm.DB) error {
		return tx.Order("id").Find(&products).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	var product models.Product
	err := r.unitOfWork(ctx, func(tx *gorm.DB) error {
		return findByID(tx, id, &product)
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a new product keyed by its caller-supplied ID.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	err := r.unitOfWork(ctx, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("product with ID %d: %w", product.ID, ErrProductConflict)
		}
		return tx.Create(product).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("product with ID %d: %w", product.ID, ErrProductConflict)
	}
	if err != nil && !errors.Is(err, ErrProductConflict) {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return err
}

// Update overwrites name, price, description and quantity of an existing product.
// On success product holds the stored row.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	err := r.unitOfWork(ctx, func(tx *gorm.DB) error {
		var existing models.Product
		if err := findByID(tx, product.ID, &existing); err != nil {
			return err
		}
		existing.Name = product.Name
		existing.Price = product.Price
		existing.Description = product.Description
		existing.Quantity = product.Quantity
		// Save writes zero values too.
		if err := tx.Save(&existing).Error; err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		*product = existing
		return nil
	})
	return err
}

// Delete removes a product by its ID.
func (r *GORMProductRepository) Delete(ctx context.Context, id int) error {
	return r.unitOfWork(ctx, func(tx *gorm.DB) error {
		var existing models.Product
		if err := findByID(tx, id, &existing); err != nil {
			return err
		}
		if err := tx.Delete(&existing).Error; err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return nil
	})
}

// Count returns the number of stored products.
func (r *GORMProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.unitOfWork(ctx, func(tx *gorm.DB) error {
		return tx.Model(&models.Product{}).Count(&count).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// SeedIfEmpty inserts products in one transaction when the table is empty.
func (r *GORMProductRepository) SeedIfEmpty(ctx context.Context, products []models.Product) (int, error) {
	inserted := 0
	err := r.unitOfWork(ctx, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Product{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 || len(products) == 0 {
			return nil
		}
		if err := tx.Create(&products).Error; err != nil {
			return err
		}
		inserted = len(products)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to seed products: %w", err)
	}
	return inserted, nil
}

func findByID(tx *gorm.DB, id int, product *models.Product) error {
	if err := tx.First(product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
		}
		return fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return nil
}
