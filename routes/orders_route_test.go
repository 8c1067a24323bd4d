package routes

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func registeredRoutes(t *testing.T) map[string]bool {
	t.Helper()

	app := fiber.New()
	OrderRoutes(app)

	set := map[string]bool{}
	for _, route := range app.GetRoutes(true) {
		set[route.Method+" "+route.Path] = true
	}
	return set
}

func TestOrderRouteSurface(t *testing.T) {
	routes := registeredRoutes(t)

	assert.True(t, routes["GET /api/orders/track/:orderNumber"])
	assert.True(t, routes["POST /api/orders"])
	assert.True(t, routes["GET /api/orders"])
	assert.True(t, routes["GET /api/orders/stats"])
	assert.True(t, routes["GET /api/orders/:id"])

	// Cancellation is a PUT, not a POST.
	assert.True(t, routes["PUT /api/orders/:id/cancel"])
	assert.False(t, routes["POST /api/orders/:id/cancel"])

	assert.True(t, routes["GET /api/admin/orders"])
	assert.True(t, routes["GET /api/admin/orders/stats"])
	assert.True(t, routes["PUT /api/admin/orders/:id/status"])
}
