package timesheet

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"timesheet-sync/core/reconcile"
	"timesheet-sync/feature/calendar"
	"timesheet-sync/feature/sheet"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T, store *sheet.Memory, src calendar.Source, period string) *fiber.App {
	t.Helper()
	app := fiber.New()
	feature := NewFeature(newTestService(store, src, period))
	require.NoError(t, feature.Load(app))
	return app
}

func decode(t *testing.T, app *fiber.App, method, target string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHandlePlan(t *testing.T) {
	store := seededSheet()
	before := store.Rows()
	app := setupTestApp(t, store, &fakeSource{events: []calendar.Event{nightShift()}}, "2025-08")

	status, body := decode(t, app, "GET", "/timesheet/plan")
	assert.Equal(t, 200, status)
	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["updated"])
	assert.Equal(t, float64(1), summary["deleted"])
	assert.Equal(t, before, store.Rows())
}

func TestHandleRefresh(t *testing.T) {
	t.Run("DryRun", func(t *testing.T) {
		store := seededSheet()
		before := store.Rows()
		app := setupTestApp(t, store, &fakeSource{events: []calendar.Event{nightShift()}}, "2025-08")

		status, body := decode(t, app, "POST", "/timesheet/refresh?dry_run=true")
		assert.Equal(t, 200, status)
		assert.Equal(t, true, body["dry_run"])
		assert.Equal(t, before, store.Rows())
	})

	t.Run("Apply", func(t *testing.T) {
		store := seededSheet()
		app := setupTestApp(t, store, &fakeSource{events: []calendar.Event{nightShift()}}, "2025-08")

		status, body := decode(t, app, "POST", "/timesheet/refresh")
		assert.Equal(t, 200, status)
		applied := body["applied"].(map[string]any)
		assert.Equal(t, float64(1), applied["added"])
		assert.Equal(t, 3, store.Len())
	})
}

func TestHandleErrors(t *testing.T) {
	tests := []struct {
		name   string
		store  *sheet.Memory
		src    calendar.Source
		period string
		target string
		status int
	}{
		{"InvalidPeriod", seededSheet(), &fakeSource{}, "Sheet1", "/timesheet/refresh", fiber.StatusUnprocessableEntity},
		{"EmptySheet", sheet.NewMemory(), &fakeSource{}, "2025-08", "/timesheet/refresh", fiber.StatusUnprocessableEntity},
		{"SourceDown", seededSheet(), &fakeSource{err: errors.New("down")}, "2025-08", "/timesheet/refresh", fiber.StatusBadGateway},
		{"HalfWindow", seededSheet(), &fakeSource{}, "2025-08", "/timesheet/add?from=2025-08-01", fiber.StatusBadRequest},
		{"BadDate", seededSheet(), &fakeSource{}, "2025-08", "/timesheet/add?from=2025-08-01&to=soon", fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupTestApp(t, tt.store, tt.src, tt.period)
			status, body := decode(t, app, "POST", tt.target)
			assert.Equal(t, tt.status, status)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandleAdd(t *testing.T) {
	store := sheet.NewMemory()
	src := &fakeSource{events: []calendar.Event{nightShift(), standup()}}
	app := setupTestApp(t, store, src, "2025-08")

	status, body := decode(t, app, "POST", "/timesheet/add?from=2025-08-09&to=2025-08-09")
	assert.Equal(t, 200, status)
	assert.Equal(t, float64(2), body["added"])
	assert.Equal(t, "2025-08-09", body["from"])
	assert.Equal(t, 3, store.Len())
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, 422, statusFor(fmt.Errorf("wrap: %w", reconcile.ErrNoCandidateDates)))
	assert.Equal(t, 502, statusFor(fmt.Errorf("wrap: %w", reconcile.ErrSourceUnavailable)))
	assert.Equal(t, 409, statusFor(fmt.Errorf("failed to flush store: %w", sheet.ErrObjectChanged)))
	assert.Equal(t, 500, statusFor(errors.New("disk full")))
}

func TestFeature(t *testing.T) {
	f := NewFeature(newTestService(sheet.NewMemory(), &fakeSource{}, "2025-08"))
	assert.Equal(t, "timesheet", f.Name())
	assert.True(t, f.IsEnabled())
	assert.False(t, NewFeature(nil).IsEnabled())
}
