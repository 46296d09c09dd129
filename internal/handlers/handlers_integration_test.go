package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gudang/internal/handlers"
	"gudang/internal/inventory"
	"gudang/internal/middleware"
	"gudang/internal/models"
	"gudang/internal/repositories"
	"gudang/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp sets up a Fiber app for testing with a SQLite snapshot store and all
// handlers/services.
func setupApp(t *testing.T) (*fiber.App, *services.InventoryService, string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "gudang.db")), &gorm.Config{})
	require.NoError(t, err)
	repo := repositories.NewGORMSnapshotRepository(db)
	require.NoError(t, repo.Migrate())

	hash, err := services.HashPassword("password123")
	require.NoError(t, err)

	inventoryService := services.NewInventoryService(inventory.New(), repo, nil)
	authService := services.NewAuthService("operator", hash, "test_jwt_secret", time.Hour)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)

	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	handlers.NewProductHandler(inventoryService).RegisterRoutes(protectedRoutes)
	handlers.NewInventoryHandler(inventoryService).RegisterRoutes(protectedRoutes)

	token, err := authService.LoginUser("operator", "password123")
	require.NoError(t, err)

	return app, inventoryService, token
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func send(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func TestAuthLogin(t *testing.T) {
	app, _, _ := setupApp(t)

	status, body := send(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "operator",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])

	status, _ = send(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "operator",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = send(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "operator",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["errors"], "Password")
}

func TestProductEndpointsWithoutAuth(t *testing.T) {
	app, _, _ := setupApp(t)

	status, _ := send(t, app, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = send(t, app, http.MethodPost, "/api/v1/products", "not-a-token", map[string]interface{}{
		"name":  "Unauthorized Product",
		"price": 100.0,
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestProductLifecycle(t *testing.T) {
	app, service, token := setupApp(t)

	// --- Create one product of each kind ---
	status, body := send(t, app, http.MethodPost, "/api/v1/products", token, map[string]interface{}{
		"kind":           "electronic",
		"name":           "Laptop",
		"price":          1200.0,
		"stock_quantity": 10,
		"warranty_years": 2,
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Laptop - Price: 1200.00 - Stock: 10 - Warranty: 2 years", body["description"])

	// kind inferred from the expiration field
	status, body = send(t, app, http.MethodPost, "/api/v1/products", token, map[string]interface{}{
		"name":            "Apple",
		"price":           0.5,
		"stock_quantity":  100,
		"expiration_date": "2024-09-01",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "perishable", body["kind"])

	status, _ = send(t, app, http.MethodPost, "/api/v1/products", token, map[string]interface{}{
		"name":           "Pen",
		"price":          1.25,
		"stock_quantity": 3,
	})
	require.Equal(t, http.StatusCreated, status)

	// --- List ---
	status, body = send(t, app, http.MethodGet, "/api/v1/products", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 3, body["count"])
	products := body["products"].([]interface{})
	names := make([]string, len(products))
	for i, p := range products {
		names[i] = p.(map[string]interface{})["name"].(string)
	}
	assert.Equal(t, []string{"Laptop", "Apple", "Pen"}, names)

	// --- Stock update ---
	status, body = send(t, app, http.MethodPatch, "/api/v1/products/Laptop/stock", token, map[string]int{"delta": 5})
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["updated"])
	assert.Equal(t, 15, service.Products()[0].StockQuantity)

	status, _ = send(t, app, http.MethodPatch, "/api/v1/products/Laptop/stock", token, map[string]int{"delta": -16})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, 15, service.Products()[0].StockQuantity)

	status, _ = send(t, app, http.MethodPatch, "/api/v1/products/Laptop/stock", token, map[string]int{})
	assert.Equal(t, http.StatusBadRequest, status)

	// --- Remove ---
	status, body = send(t, app, http.MethodDelete, "/api/v1/products/Apple", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["removed"])

	status, body = send(t, app, http.MethodDelete, "/api/v1/products/Apple", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, body["removed"])

	// --- Save then load appends the snapshot ---
	status, body = send(t, app, http.MethodPost, "/api/v1/inventory/save", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["count"])

	status, body = send(t, app, http.MethodPost, "/api/v1/inventory/load", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["loaded"])
	assert.Equal(t, []string{
		"Laptop - Price: 1200.00 - Stock: 15 - Warranty: 2 years",
		"Pen - Price: 1.25 - Stock: 3",
		"Laptop - Price: 1200.00 - Stock: 15 - Warranty: 2 years",
		"Pen - Price: 1.25 - Stock: 3",
	}, service.ListDescriptions())

	// duplicates by name are updated together
	status, body = send(t, app, http.MethodPatch, "/api/v1/products/Pen/stock", token, map[string]int{"delta": -3})
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["updated"])
}

func TestCreateProductValidation(t *testing.T) {
	app, service, token := setupApp(t)

	tests := []struct {
		name   string
		body   map[string]interface{}
		status int
	}{
		{"missing name", map[string]interface{}{"price": 1.0}, http.StatusBadRequest},
		{"negative price", map[string]interface{}{"name": "X", "price": -1.0}, http.StatusBadRequest},
		{"unknown kind", map[string]interface{}{"name": "X", "kind": "furniture"}, http.StatusBadRequest},
		{"empty expiration", map[string]interface{}{"name": "X", "expiration_date": ""}, http.StatusBadRequest},
		{"kind without its field", map[string]interface{}{"name": "X", "kind": "electronic"}, http.StatusBadRequest},
		{"both variant fields", map[string]interface{}{"name": "X", "warranty_years": 1, "expiration_date": "2025-01-01"}, http.StatusBadRequest},
		{"kind contradicts its fields", map[string]interface{}{"name": "X", "kind": "generic", "warranty_years": 1}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := send(t, app, http.MethodPost, "/api/v1/products", token, tt.body)
			assert.Equal(t, tt.status, status, fmt.Sprintf("body %v", tt.body))
		})
	}
	assert.Empty(t, service.Products())
}

func TestLoadRejectsInvalidSnapshot(t *testing.T) {
	repo := repositories.NewMemorySnapshotRepository()
	require.NoError(t, repo.SaveRecords([]models.ProductRecord{{Name: "", Price: 1}}))

	hash, err := services.HashPassword("password123")
	require.NoError(t, err)
	service := services.NewInventoryService(inventory.New(), repo, nil)
	authService := services.NewAuthService("operator", hash, "test_jwt_secret", time.Hour)
	token, err := authService.LoginUser("operator", "password123")
	require.NoError(t, err)

	app := fiber.New()
	handlers.NewInventoryHandler(service).RegisterRoutes(app.Group("/api/v1", middleware.AuthRequired(authService)))

	status, body := send(t, app, http.MethodPost, "/api/v1/inventory/load", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body["error"], "load record 0")
	assert.Empty(t, service.Products())
}
