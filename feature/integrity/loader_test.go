package integrity

import (
	"testing"

	"timesheet-sync/core/reconcile"
	"timesheet-sync/feature/sheet"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestLoader(t *testing.T) {
	svc := NewService(sheet.NewMemory(), reconcile.DefaultLayout(), nil, nil, nil)
	feature := NewFeature(svc)

	assert.Equal(t, "integrity", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.False(t, NewFeature(nil).IsEnabled())

	app := fiber.New()
	assert.NoError(t, feature.Load(app))
}
