package handler

import (
	"net/http"

	"minishop/internal/model"
	"minishop/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CartHandler handles session cart HTTP requests. A nil service answers
// every request with 503, for deployments without a cart store.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Available wraps next so it only runs when a cart store is configured.
func (h *CartHandler) Available(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.service == nil {
			writeServiceError(w, r, model.ErrCartUnavailable, "", h.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Create handles POST /api/cart requests by allocating a session.
func (h *CartHandler) Create(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, model.Cart{
		SessionID: h.service.NewSession(),
		Items:     []model.CartItem{},
	})
}

// Get handles GET /api/cart/{session} requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.Get(r.Context(), chi.URLParam(r, "session"))
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve cart", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// AddItem handles POST /api/cart/{session}/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req model.CartItemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	cart, err := h.service.AddItem(r.Context(), chi.URLParam(r, "session"), &req)
	if err != nil {
		writeServiceError(w, r, err, "failed to add cart item", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, cart)
}

// UpdateItem handles PUT /api/cart/{session}/items/{product_id} requests.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := idParam(r, "product_id")
	if !ok {
		writeServiceError(w, r, model.ErrProductNotFound, "", h.logger)
		return
	}

	var req model.CartQuantityRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	cart, err := h.service.UpdateItem(r.Context(), chi.URLParam(r, "session"), productID, req.Quantity)
	if err != nil {
		writeServiceError(w, r, err, "failed to update cart item", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/cart/{session}/items/{product_id} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := idParam(r, "product_id")
	if !ok {
		writeServiceError(w, r, model.ErrProductNotFound, "", h.logger)
		return
	}

	cart, err := h.service.RemoveItem(r.Context(), chi.URLParam(r, "session"), productID)
	if err != nil {
		writeServiceError(w, r, err, "failed to remove cart item", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// Clear handles DELETE /api/cart/{session} requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context(), chi.URLParam(r, "session")); err != nil {
		writeServiceError(w, r, err, "failed to clear cart", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Checkout handles POST /api/cart/{session}/checkout requests.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req model.CheckoutRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	order, err := h.service.Checkout(r.Context(), chi.URLParam(r, "session"), &req)
	if err != nil {
		writeServiceError(w, r, err, "failed to check out cart", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}
