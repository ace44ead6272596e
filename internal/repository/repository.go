package repository

import (
	"context"

	"minishop/internal/model"

	"github.com/jackc/pgx/v5"
)

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	// Create inserts a user and fills in its ID and CreatedAt.
	// Returns model.ErrUserExists when the username or email is taken.
	Create(ctx context.Context, user *model.User) error

	// GetByID retrieves a user by ID. Returns nil when not found.
	GetByID(ctx context.Context, id int64) (*model.User, error)

	// GetByUsername retrieves a user by username. Returns nil when not found.
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	// ExistsTx reports whether a user exists, reading through tx.
	ExistsTx(ctx context.Context, tx pgx.Tx, id int64) (bool, error)
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List retrieves products matching the filter, ordered by ID.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns nil when not found.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error)

	// Categories returns the distinct non-empty category labels, sorted.
	Categories(ctx context.Context) ([]string, error)

	// LockByIDs reads the given products with row locks held until tx ends.
	LockByIDs(ctx context.Context, tx pgx.Tx, ids []int64) ([]model.Product, error)

	// AdjustStock adds delta (which may be negative) to a product's stock within tx.
	AdjustStock(ctx context.Context, tx pgx.Tx, id int64, delta int) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction and
	// fills in its ID and timestamps.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items. Returns nil when not found.
	GetByID(ctx context.Context, id int64) (*model.Order, error)

	// GetForUpdate reads an order and its items, locking the order row within tx.
	GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Order, error)

	// ListByUser retrieves a user's orders with items, newest first.
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)

	// UpdateStatus sets an order's status and bumps updated_at within tx.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int64, status string) error
}

// CartRepository stores per-session carts as product ID to quantity maps.
type CartRepository interface {
	// Items returns the session's cart lines keyed by product ID.
	Items(ctx context.Context, sessionID string) (map[int64]int, error)

	// Add increments a line's quantity, creating it if needed, and returns the new quantity.
	Add(ctx context.Context, sessionID string, productID int64, quantity int) (int, error)

	// SetQuantity replaces a line's quantity. Non-positive quantities remove the line.
	SetQuantity(ctx context.Context, sessionID string, productID int64, quantity int) error

	// Remove deletes a line. Removing a missing line is not an error.
	Remove(ctx context.Context, sessionID string, productID int64) error

	// Clear deletes the whole cart.
	Clear(ctx context.Context, sessionID string) error
}
