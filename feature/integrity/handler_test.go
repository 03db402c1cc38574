package integrity

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"timesheet-sync/core/reconcile"
	"timesheet-sync/feature/sheet"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestApp(store reconcile.Store, db *gorm.DB) *fiber.App {
	app := fiber.New()
	NewHandler(NewService(store, testLayout(), testHeader, db, nil)).RegisterRoutes(app)
	return app
}

func get(t *testing.T, app *fiber.App, target string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHandleIntegrityCheck(t *testing.T) {
	app := setupTestApp(duplicatedSheet(), nil)

	status, body := get(t, app, "/integrity")
	assert.Equal(t, 200, status)

	sheetReport := body["sheet"].(map[string]any)
	assert.Equal(t, "error", sheetReport["status"])
	schemaReport := body["schema"].(map[string]any)
	assert.Equal(t, "error", schemaReport["status"])
}

func TestHandleSheetCheck(t *testing.T) {
	t.Run("Check", func(t *testing.T) {
		store := duplicatedSheet()
		status, body := get(t, setupTestApp(store, nil), "/integrity/sheet")
		assert.Equal(t, 200, status)
		assert.Len(t, body["duplicates"], 1)
		assert.Equal(t, 3, store.Len())
	})

	t.Run("Fix", func(t *testing.T) {
		store := duplicatedSheet()
		status, body := get(t, setupTestApp(store, nil), "/integrity/sheet?fix=true")
		assert.Equal(t, 200, status)
		assert.Equal(t, "fixed", body["status"])
		assert.Equal(t, float64(1), body["removed"])
		assert.Equal(t, 2, store.Len())
	})
}

func TestHandleSchemaCheck(t *testing.T) {
	t.Run("NoDatabase", func(t *testing.T) {
		status, body := get(t, setupTestApp(sheet.NewMemory(), nil), "/integrity/schema")
		assert.Equal(t, 500, status)
		assert.NotEmpty(t, body["error"])
	})

	t.Run("Missing table", func(t *testing.T) {
		status, body := get(t, setupTestApp(sheet.NewMemory(), setupSQLite(t)), "/integrity/schema")
		assert.Equal(t, 200, status)
		assert.Equal(t, false, body["matched"])
	})
}
