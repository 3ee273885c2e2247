// Package routes registers the REST surface over the store.
package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shashiranjanraj/charvi/app/controllers"
	"github.com/shashiranjanraj/charvi/app/graph"
	"github.com/shashiranjanraj/charvi/app/services"
	"github.com/shashiranjanraj/charvi/app/store"
	"github.com/shashiranjanraj/charvi/pkg/event"
	"github.com/shashiranjanraj/charvi/pkg/graphql"
	"github.com/shashiranjanraj/charvi/pkg/logger"
	"github.com/shashiranjanraj/charvi/pkg/metrics"
	"github.com/shashiranjanraj/charvi/pkg/middleware"
	"github.com/shashiranjanraj/charvi/pkg/response"
	"github.com/shashiranjanraj/charvi/pkg/router"
	"github.com/shashiranjanraj/charvi/pkg/ws"
)

// RegisterAPI mounts the full API surface. Reads are public; every
// mutating catalogue route sits behind the admin gate.
func RegisterAPI(r *router.Router, s store.Store, authService *services.AuthService) {
	productController := controllers.NewProductController(s)
	categoryController := controllers.NewCategoryController(s)
	customerController := controllers.NewCustomerController(s)
	authController := controllers.NewAuthController(authService)
	uploadController := controllers.NewUploadController()

	api := r.Group("/api")

	api.Get("/health", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})

	// Auth. Login is rate-limited per IP against credential stuffing.
	auth := api.Group("/auth")
	auth.Post("/login", "auth.login", authController.Login,
		middleware.RateLimit(10, time.Minute))
	auth.Post("/logout", "auth.logout", authController.Logout)
	auth.Get("/me", "auth.me", authController.Me)

	// Catalogue reads.
	api.Get("/products", "products.index", productController.Index)
	api.Get("/products/{id}", "products.show", productController.Show)
	api.Get("/categories", "categories.index", categoryController.Index)
	api.Get("/categories/{id}", "categories.show", categoryController.Show)

	// Storefront lead capture.
	api.Post("/customers", "customers.store", customerController.Store)

	// Read-only GraphQL view of the catalogue.
	schema, err := graph.NewSchema(s)
	if err != nil {
		logger.Error("graphql schema build failed", "error", err)
	} else {
		api.Post("/graphql", "graphql", graphql.Handler(schema))
	}

	// Admin-gated surface.
	admin := api.Group("", middleware.AdminOnly)
	admin.Post("/products", "products.store", productController.Store)
	admin.Put("/products/{id}", "products.update", productController.Update)
	admin.Delete("/products/{id}", "products.destroy", productController.Destroy)
	admin.Post("/categories", "categories.store", categoryController.Store)
	admin.Put("/categories/{id}", "categories.update", categoryController.Update)
	admin.Delete("/categories/{id}", "categories.destroy", categoryController.Destroy)
	admin.Get("/customers", "customers.index", customerController.Index)
	admin.Post("/uploads", "uploads.store", uploadController.Store)

	// Live catalogue event feed for admin dashboards.
	hub := ws.NewHub()
	go hub.Run()
	forwardEvents(hub)
	admin.Get("/events", "events", func(w http.ResponseWriter, r *http.Request) {
		ws.Upgrade(w, r, hub)
	})

	r.Get("/metrics", "metrics", metrics.Handler())
}

// forwardEvents pushes catalogue mutation events to connected
// WebSocket clients as {"event": ..., "data": ...} frames. The bus is
// flushed first so rebuilding the handler does not leave earlier
// listeners feeding a stale hub.
func forwardEvents(hub *ws.Hub) {
	event.Flush()
	names := []string{
		"product.created", "product.updated", "product.deleted",
		"category.created", "category.updated", "category.deleted",
		"customer.created",
	}
	for _, name := range names {
		name := name // per-iteration copy; required under the go 1.21 directive
		event.Listen(name, func(payload interface{}) {
			frame, err := json.Marshal(map[string]interface{}{
				"event": name,
				"data":  payload,
			})
			if err != nil {
				logger.Warn("event frame marshal failed", "event", name, "error", err)
				return
			}
			select {
			case hub.Broadcast <- frame:
			default:
			}
		})
	}
}
