package service

import (
	"context"

	"minishop/internal/model"
)

// UserService defines operations for user accounts.
type UserService interface {
	// Register creates an account with a hashed password.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)

	// Login verifies credentials and issues an access token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// ProductService defines operations for product management.
type ProductService interface {
	// List retrieves products matching the filter with pagination.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Categories lists the distinct product categories.
	Categories(ctx context.Context) ([]string, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// CreateOrder reserves stock and records a new pending order.
	CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.Order, error)

	// GetByID retrieves an order by its ID with all items.
	GetByID(ctx context.Context, id int64) (*model.Order, error)

	// ListByUser retrieves a user's orders, newest first.
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)

	// UpdateStatus moves an order to a new status.
	UpdateStatus(ctx context.Context, id int64, status string) (*model.Order, error)
}

// CartService defines operations on session carts.
type CartService interface {
	// NewSession allocates a fresh cart session ID.
	NewSession() string

	// Get returns the priced cart for a session.
	Get(ctx context.Context, sessionID string) (*model.Cart, error)

	// AddItem adds a product to the cart, merging with an existing line.
	AddItem(ctx context.Context, sessionID string, req *model.CartItemRequest) (*model.Cart, error)

	// UpdateItem replaces a line's quantity. Non-positive quantities remove it.
	UpdateItem(ctx context.Context, sessionID string, productID int64, quantity int) (*model.Cart, error)

	// RemoveItem deletes a line.
	RemoveItem(ctx context.Context, sessionID string, productID int64) (*model.Cart, error)

	// Clear empties the cart.
	Clear(ctx context.Context, sessionID string) error

	// Checkout places an order for the cart contents and empties the cart.
	Checkout(ctx context.Context, sessionID string, req *model.CheckoutRequest) (*model.Order, error)
}
