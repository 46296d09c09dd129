package handlers

import (
	"errors"
	"log"

	"gudang/internal/models"
	"gudang/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.InventoryService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.InventoryService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Delete("/:name", h.HandleRemoveProduct)
	productRoutes.Patch("/:name/stock", h.HandleUpdateStock)
}

// CreateProductRequest is the body of POST /products. Kind may be omitted, in which
// case it is inferred from the variant field present.
type CreateProductRequest struct {
	Kind           models.Kind `json:"kind" validate:"omitempty,oneof=generic electronic perishable"`
	Name           string      `json:"name" validate:"required"`
	Price          float64     `json:"price" validate:"gte=0"`
	StockQuantity  int         `json:"stock_quantity" validate:"gte=0"`
	WarrantyYears  *int        `json:"warranty_years" validate:"omitempty,gte=0"`
	ExpirationDate *string     `json:"expiration_date" validate:"omitempty,min=1"`
}

func (r CreateProductRequest) record() models.ProductRecord {
	return models.ProductRecord{
		Kind:           r.Kind,
		Name:           r.Name,
		Price:          r.Price,
		StockQuantity:  r.StockQuantity,
		WarrantyYears:  r.WarrantyYears,
		ExpirationDate: r.ExpirationDate,
	}
}

// ProductResponse is the API representation of a product.
type ProductResponse struct {
	Kind           models.Kind `json:"kind"`
	Name           string      `json:"name"`
	Price          float64     `json:"price"`
	StockQuantity  int         `json:"stock_quantity"`
	WarrantyYears  *int        `json:"warranty_years,omitempty"`
	ExpirationDate *string     `json:"expiration_date,omitempty"`
	Description    string      `json:"description"`
}

func newProductResponse(rec models.ProductRecord, description string) ProductResponse {
	return ProductResponse{
		Kind:           rec.Kind,
		Name:           rec.Name,
		Price:          rec.Price,
		StockQuantity:  rec.StockQuantity,
		WarrantyYears:  rec.WarrantyYears,
		ExpirationDate: rec.ExpirationDate,
		Description:    description,
	}
}

// StockUpdateRequest is the body of PATCH /products/:name/stock.
type StockUpdateRequest struct {
	Delta *int `json:"delta" validate:"required"`
}

// HandleListProducts returns every product in inventory order.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	views := h.service.ProductViews()
	products := make([]ProductResponse, len(views))
	for i, v := range views {
		products[i] = newProductResponse(v.Record, v.Description)
	}
	return c.JSON(fiber.Map{
		"count":    len(products),
		"products": products,
	})
}

// HandleCreateProduct validates the body, builds the product of the requested kind
// and appends it to the inventory.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	product, err := models.FromRecord(req.record())
	if err != nil {
		log.Printf("Error building product %q: %v", req.Name, err)
		status := fiber.StatusBadRequest
		if errors.Is(err, models.ErrValidation) {
			status = fiber.StatusUnprocessableEntity
		}
		return c.Status(status).JSON(fiber.Map{
			"message": "Invalid product",
			"error":   err.Error(),
		})
	}

	h.service.AddProduct(product)
	return c.Status(fiber.StatusCreated).JSON(newProductResponse(models.ToRecord(product), product.Describe()))
}

// HandleRemoveProduct removes every product with the given name.
func (h *ProductHandler) HandleRemoveProduct(c *fiber.Ctx) error {
	name, err := nameParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product name",
			"error":   err.Error(),
		})
	}

	removed := h.service.RemoveProduct(name)
	return c.JSON(fiber.Map{
		"name":    name,
		"removed": removed,
	})
}

// HandleUpdateStock adjusts the stock of every product with the given name.
func (h *ProductHandler) HandleUpdateStock(c *fiber.Ctx) error {
	name, err := nameParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product name",
			"error":   err.Error(),
		})
	}

	var req StockUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing stock update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	updated, err := h.service.UpdateStock(name, *req.Delta)
	if err != nil {
		log.Printf("Error updating stock of %q: %v", name, err)
		status := fiber.StatusInternalServerError
		if errors.Is(err, models.ErrValidation) {
			status = fiber.StatusUnprocessableEntity
		}
		return c.Status(status).JSON(fiber.Map{
			"message": "Stock update failed",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"name":    name,
		"updated": updated,
	})
}
