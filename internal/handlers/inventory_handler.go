package handlers

import (
	"errors"

	"gudang/internal/inventory"
	"gudang/internal/services"

	"github.com/gofiber/fiber/v2"
)

// InventoryHandler exposes snapshot persistence of the inventory.
type InventoryHandler struct {
	service *services.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(service *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// RegisterRoutes registers the inventory routes with the Fiber app.
func (h *InventoryHandler) RegisterRoutes(router fiber.Router) {
	inventoryRoutes := router.Group("/inventory")
	inventoryRoutes.Post("/save", h.HandleSave)
	inventoryRoutes.Post("/load", h.HandleLoad)
}

// HandleSave writes the whole inventory to the configured snapshot store.
func (h *InventoryHandler) HandleSave(c *fiber.Ctx) error {
	count, err := h.service.Save()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save inventory",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"count": count})
}

// HandleLoad appends the stored snapshot to the inventory.
func (h *InventoryHandler) HandleLoad(c *fiber.Ctx) error {
	loaded, err := h.service.Load()
	if err != nil {
		status := fiber.StatusInternalServerError
		if !errors.Is(err, inventory.ErrPersistence) {
			// read fine, but a stored record cannot be rebuilt
			status = fiber.StatusUnprocessableEntity
		}
		return c.Status(status).JSON(fiber.Map{
			"message": "Could not load inventory",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"loaded": loaded})
}
