package models

import "time"

// Event types published after successful inventory mutations.
const (
	EventProductAdded    = "product.added"
	EventProductRemoved  = "product.removed"
	EventStockUpdated    = "stock.updated"
	EventInventorySaved  = "inventory.saved"
	EventInventoryLoaded = "inventory.loaded"
)

// InventoryEvent describes a change to the inventory.
type InventoryEvent struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	ProductName string    `json:"product_name,omitempty"`
	Kind        Kind      `json:"kind,omitempty"`
	Delta       int       `json:"delta,omitempty"`
	Count       int       `json:"count"` // products affected
	Timestamp   time.Time `json:"timestamp"`
}
