// Package routes wires handlers onto the router. Route registration lives
// here so cmd/server stays a pure assembly point.
package routes

import (
	"net/http"

	"github.com/tiendalabs/tienda/internal/handler"
)

// APIDeps contains the handlers for the public JSON API.
type APIDeps struct {
	Products *handler.ProductHandler
	Cart     *handler.CartHandler
	Orders   *handler.OrderHandler
	Users    *handler.UserHandler
	Contact  *handler.ContactHandler
}

// OpsDeps contains the operational endpoints: probes and metrics.
type OpsDeps struct {
	Health  *handler.HealthHandler
	Metrics http.Handler
}
