package handlers

import (
	"errors"
	"fmt"
	"log"

	"inventory/internal/models"
	"inventory/internal/repositories"
	"inventory/internal/services"
	"inventory/internal/validation"

	"github.com/gofiber/fiber/v2"
)

var errInvalidBody = errors.New("invalid request body")

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service   *services.ProductService
	validator *validation.Validator
}

// NewProductHandler creates a new ProductHandler. validator checks request
// bodies for missing fields before they reach the service.
func NewProductHandler(service *services.ProductService, validator *validation.Validator) *ProductHandler {
	return &ProductHandler{
		service:   service,
		validator: validator,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products", h.HandleGetProducts)
	router.Get("/products/:id", h.HandleGetProductByID)
	router.Post("/products", h.HandleCreateProduct)
	router.Put("/products/:id", h.HandleUpdateProduct)
	router.Delete("/products/:id", h.HandleDeleteProduct)
}

// HandleGetProducts returns every product.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(models.NewProductPayloads(products))
}

// HandleGetProductByID returns a single product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c)
	}

	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(models.NewProductPayload(*product))
}

// HandleCreateProduct creates a product under the id given in the body.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	payload, err := h.parseProduct(c)
	if err != nil {
		return h.respondError(c, err)
	}

	product, err := h.service.CreateProduct(c.UserContext(), payload)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(models.NewProductPayload(*product))
}

// HandleUpdateProduct overwrites name, price, description and quantity of a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c)
	}

	payload, err := h.parseProduct(c)
	if err != nil {
		return h.respondError(c, err)
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, payload)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(models.NewProductPayload(*product))
}

// HandleDeleteProduct deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return invalidID(c)
	}

	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}

// parseProduct decodes a product body and rejects it unless every field is present and valid.
func (h *ProductHandler) parseProduct(c *fiber.Ctx) (models.ProductPayload, error) {
	var req models.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing product body: %v", err)
		return models.ProductPayload{}, fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return models.ProductPayload{}, err
	}
	return req.ToPayload(), nil
}

// respondError maps service errors onto status codes.
func (h *ProductHandler) respondError(c *fiber.Ctx, err error) error {
	var fieldErr *validation.InvalidFieldError
	switch {
	case errors.As(err, &fieldErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"detail": "Validation failed",
			"errors": fieldErr.Fields,
		})
	case errors.Is(err, errInvalidBody):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"detail": "Invalid request body",
			"error":  err.Error(),
		})
	case errors.Is(err, repositories.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"detail": "Product not found",
		})
	case errors.Is(err, repositories.ErrProductConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"detail": "Product with this ID already exists",
		})
	default:
		log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": "Internal Server Error",
		})
	}
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"detail": "Product ID must be an integer",
	})
}
