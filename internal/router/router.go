package router

import (
	"net/http"

	"boutique/internal/handler"
	"boutique/internal/metrics"
	"boutique/internal/middleware"
	"boutique/internal/model"

	"github.com/rs/zerolog"
)

// Handlers bundles everything the router wires up.
type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	Inventory    *handler.InventoryHandler
	Cart         *handler.CartHandler
	Sale         *handler.SaleHandler
	Payment      *handler.PaymentHandler
	Notification *handler.NotificationHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, jwtSecret string, m *metrics.Metrics, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Public endpoints
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})
	mux.Handle("GET /metrics", m.Handler())
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	// The provider callback authenticates via webhook signature, not a token.
	mux.HandleFunc("POST /api/payments/callback", h.Payment.Callback)

	authed := middleware.Authenticate(jwtSecret, logger)
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleEmployee)
	admin := middleware.RequireRole(model.RoleAdmin)

	route := func(pattern string, fn http.HandlerFunc, extra ...func(http.Handler) http.Handler) {
		var hd http.Handler = fn
		for i := len(extra) - 1; i >= 0; i-- {
			hd = extra[i](hd)
		}
		mux.Handle(pattern, authed(hd))
	}

	// Catalogue
	route("GET /api/products", h.Product.List)
	route("GET /api/products/{id}", h.Product.GetByID)
	route("POST /api/categories", h.Product.CreateCategory, staff)
	route("POST /api/products", h.Product.Create, staff)
	route("POST /api/products/{id}/variants", h.Product.CreateVariant, staff)

	// Inventory
	route("POST /api/inventory", h.Inventory.Create, staff)
	route("GET /api/inventory", h.Inventory.List)
	route("GET /api/inventory/{id}", h.Inventory.GetByID)
	route("POST /api/inventory/{id}/discounts", h.Inventory.AddDiscount, staff)

	// Cart
	route("GET /api/cart", h.Cart.List)
	route("POST /api/cart", h.Cart.Add)
	route("PATCH /api/cart/{itemId}", h.Cart.Update)
	route("DELETE /api/cart/{itemId}", h.Cart.Remove)

	// Sales and orders
	route("POST /api/sales", h.Sale.CreateSale, staff)
	route("POST /api/orders", h.Sale.CreateOrder)
	route("GET /api/sales", h.Sale.List, staff)
	route("GET /api/sales/mine", h.Sale.ListMine)
	route("GET /api/sales/{id}", h.Sale.GetByID)
	route("POST /api/sales/{id}/cancel", h.Sale.Cancel)
	route("POST /api/sales/{id}/delivering", h.Sale.SetDelivering, staff)
	route("POST /api/sales/{id}/complete", h.Sale.SetCompleted, staff)
	route("POST /api/sales/{id}/refund-request", h.Sale.RequestRefund)
	route("POST /api/sales/{id}/refund-complete", h.Sale.CompleteRefund, admin)

	// Payments
	route("POST /api/payments/initiate/{saleId}", h.Payment.Initiate)

	// Notifications
	route("GET /api/notifications", h.Notification.List)
	route("POST /api/notifications/{id}/read", h.Notification.MarkRead)
	route("POST /api/notifications/read-all", h.Notification.MarkAllRead)

	// Apply middleware in order: Recovery -> Logging -> Metrics -> CORS
	var root http.Handler = mux
	root = middleware.CORS(root)
	root = middleware.Metrics(m)(root)
	root = middleware.Logging(logger)(root)
	root = middleware.Recovery(logger)(root)

	return root
}
