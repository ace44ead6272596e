package model

// CartItem is a product line held in a session cart.
type CartItem struct {
	ProductID int64    `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
	Subtotal  float64  `json:"subtotal"`
}

// Cart is the priced view of a session cart.
type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
}

// CartItemRequest adds a product to a cart.
type CartItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CartQuantityRequest replaces the quantity of a cart line.
type CartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CheckoutRequest turns a cart into an order for the given user.
type CheckoutRequest struct {
	UserID int64 `json:"user_id"`
}
