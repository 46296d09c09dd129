package services

import (
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"gudang/internal/inventory"
	"gudang/internal/models"
	"gudang/internal/repositories"

	"github.com/google/uuid"
)

// EventPublisher delivers inventory events to interested consumers.
type EventPublisher interface {
	PublishInventoryEvent(event models.InventoryEvent) error
}

// InventoryService guards an Inventory for concurrent callers, persists it through a
// snapshot repository and publishes an event after every successful change.
type InventoryService struct {
	mu        sync.RWMutex
	inventory *inventory.Inventory
	repo      repositories.SnapshotRepository
	publisher EventPublisher // may be nil
}

// NewInventoryService creates a new InventoryService. publisher may be nil.
func NewInventoryService(inv *inventory.Inventory, repo repositories.SnapshotRepository, publisher EventPublisher) *InventoryService {
	return &InventoryService{
		inventory: inv,
		repo:      repo,
		publisher: publisher,
	}
}

// AddProduct appends a product to the inventory.
func (s *InventoryService) AddProduct(p models.Product) {
	s.mu.Lock()
	s.inventory.Add(p)
	s.mu.Unlock()

	s.publish(models.InventoryEvent{
		Type:        models.EventProductAdded,
		ProductName: p.Name(),
		Kind:        p.Kind(),
		Count:       1,
	})
}

// RemoveProduct removes every product named name and returns how many were removed.
func (s *InventoryService) RemoveProduct(name string) int {
	s.mu.Lock()
	removed := s.inventory.Remove(name)
	s.mu.Unlock()

	if removed > 0 {
		s.publish(models.InventoryEvent{
			Type:        models.EventProductRemoved,
			ProductName: name,
			Count:       removed,
		})
	}
	return removed
}

// UpdateStock adjusts the stock of every product named name by delta. A zero delta
// changes nothing and publishes no event.
func (s *InventoryService) UpdateStock(name string, delta int) (int, error) {
	s.mu.Lock()
	updated, err := s.inventory.UpdateStock(name, delta)
	s.mu.Unlock()
	if err != nil {
		return 0, err
	}

	if updated > 0 && delta != 0 {
		s.publish(models.InventoryEvent{
			Type:        models.EventStockUpdated,
			ProductName: name,
			Delta:       delta,
			Count:       updated,
		})
	}
	return updated, nil
}

// ListDescriptions returns the description of every product in inventory order.
func (s *InventoryService) ListDescriptions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Collect(s.inventory.List())
}

// Products returns the persisted form of every product in inventory order.
func (s *InventoryService) Products() []models.ProductRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.inventory.Records()
}

// ProductView is a product's persisted form together with its description.
type ProductView struct {
	Record      models.ProductRecord
	Description string
}

// ProductViews returns a view of every product in inventory order.
func (s *InventoryService) ProductViews() []ProductView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	views := make([]ProductView, 0, s.inventory.Len())
	for p := range s.inventory.All() {
		views = append(views, ProductView{Record: models.ToRecord(p), Description: p.Describe()})
	}
	return views
}

// Save writes the whole inventory to the snapshot repository and returns how many
// products were written. Failures are logged and returned.
func (s *InventoryService) Save() (int, error) {
	s.mu.RLock()
	count := s.inventory.Len()
	err := s.inventory.SaveTo(s.repo)
	s.mu.RUnlock()
	if err != nil {
		log.Printf("Error saving inventory: %v", err)
		return 0, fmt.Errorf("failed to save inventory: %w", err)
	}

	s.publish(models.InventoryEvent{Type: models.EventInventorySaved, Count: count})
	return count, nil
}

// Load appends the products stored in the snapshot repository to the inventory and
// returns how many were loaded. Failures are logged and returned; the inventory is
// unchanged on failure.
func (s *InventoryService) Load() (int, error) {
	s.mu.Lock()
	loaded, err := s.inventory.LoadFrom(s.repo)
	s.mu.Unlock()
	if err != nil {
		log.Printf("Error loading inventory: %v", err)
		return 0, fmt.Errorf("failed to load inventory: %w", err)
	}

	s.publish(models.InventoryEvent{Type: models.EventInventoryLoaded, Count: loaded})
	return loaded, nil
}

// publish sends event when a publisher is configured. Failures are logged only;
// the inventory change has already happened.
func (s *InventoryService) publish(event models.InventoryEvent) {
	if s.publisher == nil {
		return
	}
	event.ID = uuid.New().String()
	event.Timestamp = time.Now().UTC()
	if err := s.publisher.PublishInventoryEvent(event); err != nil {
		log.Printf("Warning: Failed to publish %s event %s: %v", event.Type, event.ID, err)
	}
}
