package router

import (
	"net/http"

	"minishop/internal/auth"
	"minishop/internal/handler"
	"minishop/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	User    *handler.UserHandler
	Product *handler.ProductHandler
	Order   *handler.OrderHandler
	Cart    *handler.CartHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, tokens *auth.TokenIssuer, apiKey string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Order: RequestID -> Recovery -> Logging -> CORS
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)

	r.NotFound(handler.NotFound(logger))

	// Health check endpoint (no authentication required)
	r.Get("/health", handler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(apiKey, logger))

		r.Route("/users", func(r chi.Router) {
			r.Post("/register", h.User.Register)
			r.Post("/login", h.User.Login)
			r.With(middleware.BearerAuth(tokens, logger)).Get("/me", h.User.Me)
			r.Get("/{id}", h.User.GetByID)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Product.List)
			r.Get("/categories", h.Product.Categories)
			r.Get("/{id}", h.Product.GetByID)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.Order.Create)
			r.Get("/user/{user_id}", h.Order.ListByUser)
			r.Get("/{id}", h.Order.GetByID)
			r.Put("/{id}", h.Order.UpdateStatus)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(h.Cart.Available)
			r.Post("/", h.Cart.Create)
			r.Get("/{session}", h.Cart.Get)
			r.Delete("/{session}", h.Cart.Clear)
			r.Post("/{session}/items", h.Cart.AddItem)
			r.Put("/{session}/items/{product_id}", h.Cart.UpdateItem)
			r.Delete("/{session}/items/{product_id}", h.Cart.RemoveItem)
			r.Post("/{session}/checkout", h.Cart.Checkout)
		})
	})

	return r
}
