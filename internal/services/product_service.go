package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"inventory/internal/models"
	"inventory/internal/repositories"
	"inventory/internal/validation"

	"github.com/google/uuid"
)

// EventPublisher delivers product change events. *rabbitmq.Client satisfies it.
type EventPublisher interface {
	Publish(eventType string, body []byte) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	validator *validation.Validator
	events    EventPublisher
}

// NewProductService creates a new ProductService. events may be nil, in which
// case no change events are published.
func NewProductService(repo repositories.ProductRepository, validator *validation.Validator, events EventPublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		validator: validator,
		events:    events,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id int) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct validates the payload and stores it under its own ID.
func (s *ProductService) CreateProduct(ctx context.Context, payload models.ProductPayload) (*models.Product, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}

	product := payload.ToProduct()
	if err := s.repo.Create(ctx, &product); err != nil {
		return nil, err
	}

	s.publish(models.EventProductCreated, product.ID, &product)
	return &product, nil
}

// UpdateProduct validates the payload and overwrites the mutable fields of product id.
// The payload's own ID is ignored.
func (s *ProductService) UpdateProduct(ctx context.Context, id int, payload models.ProductPayload) (*models.Product, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}

	product := payload.ToProduct()
	product.ID = id
	if err := s.repo.Update(ctx, &product); err != nil {
		return nil, err
	}

	s.publish(models.EventProductUpdated, product.ID, &product)
	return &product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(models.EventProductDeleted, id, nil)
	return nil
}

// SeedProducts inserts seeds when the store is empty. Every seed is validated
// first; nothing is written if any of them is invalid.
func (s *ProductService) SeedProducts(ctx context.Context, seeds []models.ProductPayload) (int, error) {
	products := make([]models.Product, 0, len(seeds))
	for _, seed := range seeds {
		if err := s.validator.Struct(seed); err != nil {
			return 0, fmt.Errorf("invalid seed product %d: %w", seed.ID, err)
		}
		products = append(products, seed.ToProduct())
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	log.Printf("Current product count: %d", count)
	if count > 0 {
		return 0, nil
	}

	return s.repo.SeedIfEmpty(ctx, products)
}

// publish sends a change event after a committed write. Failures are logged only.
func (s *ProductService) publish(eventType string, productID int, product *models.Product) {
	if s.events == nil {
		return
	}

	event := models.ProductEvent{
		EventID:    uuid.New().String(),
		Type:       eventType,
		ProductID:  productID,
		OccurredAt: time.Now().UTC(),
	}
	if product != nil {
		payload := models.NewProductPayload(*product)
		event.Product = &payload
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal %s event for product %d: %v", eventType, productID, err)
		return
	}
	if err := s.events.Publish(eventType, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for product %d: %v", eventType, productID, err)
	}
}
