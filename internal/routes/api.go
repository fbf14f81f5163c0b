package routes

import (
	"github.com/tiendalabs/tienda/internal/middleware"
	"github.com/tiendalabs/tienda/internal/router"
)

var requireAuth router.Middleware = middleware.RequireAuth

// RegisterAPIRoutes registers the storefront JSON API.
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	// Catalog (public)
	r.Get("/api/productos", deps.Products.List)
	r.Get("/api/productos/buscar", deps.Products.Search)
	r.Get("/api/productos/{id}", deps.Products.Get)
	r.Get("/api/categorias", deps.Products.ListCategories)
	r.Get("/api/categorias/{slug}", deps.Products.GetCategory)

	// Cart (anonymous or authenticated; keyed by the cart cookie)
	r.Get("/api/carrito", deps.Cart.Get)
	r.Post("/api/carrito", deps.Cart.AddItem)
	r.Delete("/api/carrito", deps.Cart.Clear)
	r.Put("/api/carrito/{id}", deps.Cart.UpdateItem)
	r.Delete("/api/carrito/{id}", deps.Cart.RemoveItem)

	// Accounts and sessions
	r.Post("/api/usuarios/registro", deps.Users.Register)
	r.Post("/api/usuarios/login", deps.Users.Login)
	r.Post("/api/usuarios/logout", deps.Users.Logout)

	// Contact form (public submit; admin inbox behind auth)
	r.Post("/api/contacto", deps.Contact.Submit)

	// Authenticated routes
	auth := r.Group(requireAuth)
	auth.Post("/api/pedidos", deps.Orders.Place)
	auth.Get("/api/pedidos", deps.Orders.List)
	auth.Get("/api/pedidos/{id}", deps.Orders.Get)
	auth.Put("/api/pedidos/{id}/cancelar", deps.Orders.Cancel)
	auth.Get("/api/usuarios/actual", deps.Users.Me)
	auth.Put("/api/usuarios/perfil", deps.Users.UpdateProfile)
	auth.Put("/api/usuarios/password", deps.Users.ChangePassword)
	auth.Get("/api/contacto", deps.Contact.List)
	auth.Put("/api/contacto/{id}/leido", deps.Contact.MarkRead)
}

// RegisterOpsRoutes registers health probes and the Prometheus endpoint.
func RegisterOpsRoutes(r *router.Router, deps OpsDeps) {
	r.Get("/health", deps.Health.Live)
	r.Get("/health/ready", deps.Health.Ready)
	r.Handle("GET", "/metrics", deps.Metrics)
}
