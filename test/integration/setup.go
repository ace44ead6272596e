// Package integration runs the full HTTP stack against real PostgreSQL and
// Redis containers.
package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"minishop/internal/auth"
	"minishop/internal/events"
	"minishop/internal/fixture"
	"minishop/internal/handler"
	"minishop/internal/repository"
	"minishop/internal/router"
	"minishop/internal/seed"
	"minishop/internal/service"
	"minishop/internal/testutil"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const testAPIKey = "test-api-key"

// Stack is a wired API backed by containers.
type Stack struct {
	Pool    *pgxpool.Pool
	Handler http.Handler
}

// SetupStack starts the backing containers and wires every layer the way
// cmd/api does. The cart is enabled only when withCart is set.
func SetupStack(t *testing.T, withCart bool) *Stack {
	t.Helper()

	testDB := testutil.SetupTestDB(t)
	logger := zerolog.Nop()

	userRepo := repository.NewUserRepository(testDB.Pool, logger)
	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)

	tokens := auth.NewTokenIssuer("integration-secret", time.Hour)
	userService := service.NewUserService(userRepo, tokens, logger)
	productService := service.NewProductService(productRepo, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, userRepo, events.NewNoopPublisher(logger), logger)

	var cartService service.CartService
	if withCart {
		rdb := testutil.SetupRedis(t)
		cartRepo := repository.NewCartRepository(rdb, time.Hour, logger)
		cartService = service.NewCartService(cartRepo, productRepo, orderService, logger)
	}

	h := router.New(router.Handlers{
		User:    handler.NewUserHandler(userService, logger),
		Product: handler.NewProductHandler(productService, logger),
		Order:   handler.NewOrderHandler(orderService, logger),
		Cart:    handler.NewCartHandler(cartService, logger),
	}, tokens, testAPIKey, logger)

	return &Stack{Pool: testDB.Pool, Handler: h}
}

// Reseed wipes the store and loads the built-in dataset.
func (s *Stack) Reseed(t *testing.T) {
	t.Helper()

	if _, err := seed.New(s.Pool, zerolog.Nop()).Run(context.Background(), fixture.Default()); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
}

// Stock reads a product's stock straight from the database.
func (s *Stack) Stock(t *testing.T, productID int64) int {
	t.Helper()

	var stock int
	err := s.Pool.QueryRow(context.Background(),
		"SELECT stock_quantity FROM products WHERE id = $1", productID).Scan(&stock)
	if err != nil {
		t.Fatalf("failed to read stock: %v", err)
	}
	return stock
}
