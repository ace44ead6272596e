package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"minishop/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testAPIKey)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), w.Body.String())
	return v
}

func TestUserAPI_Integration(t *testing.T) {
	stack := SetupStack(t, false)

	t.Run("POST /api/users/login with seeded credentials", func(t *testing.T) {
		stack.Reseed(t)

		w := doRequest(t, stack.Handler, http.MethodPost, "/api/users/login",
			map[string]string{"username": "admin", "password": "admin123"})

		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "password")

		resp := decode[model.LoginResponse](t, w)
		require.NotNil(t, resp.User)
		assert.Equal(t, "admin", resp.User.Username)
		assert.NotEmpty(t, resp.Token)

		me := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		me.Header.Set("X-API-Key", testAPIKey)
		me.Header.Set("Authorization", "Bearer "+resp.Token)
		mw := httptest.NewRecorder()
		stack.Handler.ServeHTTP(mw, me)

		require.Equal(t, http.StatusOK, mw.Code)
		assert.Equal(t, resp.User.ID, decode[model.User](t, mw).ID)
	})

	t.Run("POST /api/users/login rejects a wrong password", func(t *testing.T) {
		stack.Reseed(t)

		w := doRequest(t, stack.Handler, http.MethodPost, "/api/users/login",
			map[string]string{"username": "cliente1", "password": "wrong"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, model.ErrCodeInvalidCredentials, decode[model.ErrorResponse](t, w).Error)
	})

	t.Run("POST /api/users/register assigns unique ids and rejects duplicates", func(t *testing.T) {
		stack.Reseed(t)

		first := doRequest(t, stack.Handler, http.MethodPost, "/api/users/register", model.RegisterRequest{
			Username: "maria", Email: "maria@example.com", Password: "secret1",
		})
		require.Equal(t, http.StatusCreated, first.Code)
		maria := decode[model.User](t, first)

		second := doRequest(t, stack.Handler, http.MethodPost, "/api/users/register", model.RegisterRequest{
			Username: "joana", Email: "joana@example.com", Password: "secret1",
		})
		require.Equal(t, http.StatusCreated, second.Code)
		joana := decode[model.User](t, second)

		assert.NotEqual(t, maria.ID, joana.ID)

		dupUsername := doRequest(t, stack.Handler, http.MethodPost, "/api/users/register", model.RegisterRequest{
			Username: "admin", Email: "other@example.com", Password: "secret1",
		})
		assert.Equal(t, http.StatusConflict, dupUsername.Code)

		dupEmail := doRequest(t, stack.Handler, http.MethodPost, "/api/users/register", model.RegisterRequest{
			Username: "other", Email: "cliente1@email.com", Password: "secret1",
		})
		assert.Equal(t, http.StatusConflict, dupEmail.Code)
	})

	t.Run("POST /api/users/register rejects values the store cannot hold", func(t *testing.T) {
		tests := []struct {
			name string
			req  model.RegisterRequest
		}{
			{name: "Password over 72 bytes", req: model.RegisterRequest{
				Username: "long1", Email: "long1@example.com", Password: strings.Repeat("p", 73),
			}},
			{name: "First name over 80 characters", req: model.RegisterRequest{
				Username: "long2", Email: "long2@example.com", Password: "secret1", FirstName: strings.Repeat("f", 81),
			}},
			{name: "Last name over 80 characters", req: model.RegisterRequest{
				Username: "long3", Email: "long3@example.com", Password: "secret1", LastName: strings.Repeat("l", 81),
			}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := doRequest(t, stack.Handler, http.MethodPost, "/api/users/register", tt.req)

				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Equal(t, model.ErrCodeInvalidField, decode[model.ErrorResponse](t, w).Error)
			})
		}
	})
}

func TestProductAPI_Integration(t *testing.T) {
	stack := SetupStack(t, false)
	stack.Reseed(t)

	t.Run("GET /api/products returns the six seeded products", func(t *testing.T) {
		w := doRequest(t, stack.Handler, http.MethodGet, "/api/products", nil)

		require.Equal(t, http.StatusOK, w.Code)
		products := decode[[]model.Product](t, w)
		assert.Len(t, products, 6)
		for _, p := range products {
			assert.GreaterOrEqual(t, p.Price, 0.0)
			assert.GreaterOrEqual(t, p.StockQuantity, 0)
		}
	})

	t.Run("GET /api/products filters by category", func(t *testing.T) {
		w := doRequest(t, stack.Handler, http.MethodGet, "/api/products?category=eletr%C3%B4nicos", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]model.Product](t, w), 2)
	})

	t.Run("GET /api/products/1 returns the first product", func(t *testing.T) {
		w := doRequest(t, stack.Handler, http.MethodGet, "/api/products/1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		product := decode[model.Product](t, w)
		assert.Equal(t, "iPhone 14", product.Name)
		assert.Equal(t, 4999.99, product.Price)
	})

	t.Run("GET /api/products/{id} returns 404 for unknown and malformed ids", func(t *testing.T) {
		for _, path := range []string{
			"/api/products/999",
			"/api/products/abc",
			"/api/products/3000000000",
			"/api/products/99999999999999999999",
		} {
			w := doRequest(t, stack.Handler, http.MethodGet, path, nil)
			assert.Equal(t, http.StatusNotFound, w.Code, path)
		}
	})

	t.Run("GET /api/products/categories returns sorted distinct categories", func(t *testing.T) {
		w := doRequest(t, stack.Handler, http.MethodGet, "/api/products/categories", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t,
			[]string{"Calçados", "Computadores", "Eletrônicos", "Roupas", "Áudio"},
			decode[[]string](t, w))
	})

	t.Run("GET /api/products without API key returns 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		w := httptest.NewRecorder()
		stack.Handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("GET /health returns 200 without API key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		stack.Handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestOrderAPI_Integration(t *testing.T) {
	stack := SetupStack(t, false)

	newOrder := func(items ...model.OrderItemRequest) model.OrderRequest {
		return model.OrderRequest{UserID: 1, Items: items}
	}

	t.Run("POST /api/orders prices the order and reserves stock", func(t *testing.T) {
		stack.Reseed(t)

		w := doRequest(t, stack.Handler, http.MethodPost, "/api/orders", newOrder(
			model.OrderItemRequest{ProductID: 1, Quantity: 2},
			model.OrderItemRequest{ProductID: 2, Quantity: 1},
		))

		require.Equal(t, http.StatusCreated, w.Code)
		order := decode[model.Order](t, w)
		assert.Equal(t, model.OrderStatusPending, order.Status)
		assert.InDelta(t, 4999.99*2+3999.99, order.TotalAmount, 0.001)
		assert.Len(t, order.Items, 2)

		assert.Equal(t, 8, stack.Stock(t, 1))
		assert.Equal(t, 14, stack.Stock(t, 2))

		list := doRequest(t, stack.Handler, http.MethodGet, "/api/orders/user/1", nil)
		require.Equal(t, http.StatusOK, list.Code)
		orders := decode[[]model.Order](t, list)
		require.Len(t, orders, 1)
		assert.Equal(t, order.ID, orders[0].ID)
	})

	t.Run("POST /api/orders rejects insufficient stock without writing", func(t *testing.T) {
		stack.Reseed(t)

		w := doRequest(t, stack.Handler, http.MethodPost, "/api/orders", newOrder(
			model.OrderItemRequest{ProductID: 1, Quantity: 1},
			model.OrderItemRequest{ProductID: 3, Quantity: 6},
		))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, model.ErrCodeInsufficientStock, decode[model.ErrorResponse](t, w).Error)
		assert.Equal(t, 10, stack.Stock(t, 1))
		assert.Equal(t, 5, stack.Stock(t, 3))

		list := doRequest(t, stack.Handler, http.MethodGet, "/api/orders/user/1", nil)
		assert.JSONEq(t, `[]`, list.Body.String())
	})

	t.Run("POST /api/orders rejects unknown products and users", func(t *testing.T) {
		stack.Reseed(t)

		w := doRequest(t, stack.Handler, http.MethodPost, "/api/orders", newOrder(
			model.OrderItemRequest{ProductID: 999, Quantity: 1},
		))
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = doRequest(t, stack.Handler, http.MethodPost, "/api/orders", model.OrderRequest{
			UserID: 999,
			Items:  []model.OrderItemRequest{{ProductID: 1, Quantity: 1}},
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, model.ErrCodeUserNotFound, decode[model.ErrorResponse](t, w).Error)
	})

	t.Run("PUT /api/orders/{id} is visible on the next read", func(t *testing.T) {
		stack.Reseed(t)

		created := doRequest(t, stack.Handler, http.MethodPost, "/api/orders", newOrder(
			model.OrderItemRequest{ProductID: 6, Quantity: 3},
		))
		require.Equal(t, http.StatusCreated, created.Code)
		order := decode[model.Order](t, created)

		path := fmt.Sprintf("/api/orders/%d", order.ID)
		w := doRequest(t, stack.Handler, http.MethodPut, path, model.StatusUpdateRequest{Status: "confirmed"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, model.OrderStatusConfirmed, decode[model.Order](t, w).Status)

		read := doRequest(t, stack.Handler, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, read.Code)
		assert.Equal(t, model.OrderStatusConfirmed, decode[model.Order](t, read).Status)

		bad := doRequest(t, stack.Handler, http.MethodPut, path, model.StatusUpdateRequest{Status: "lost"})
		assert.Equal(t, http.StatusBadRequest, bad.Code)
	})

	t.Run("Cancelling restores stock and is terminal", func(t *testing.T) {
		stack.Reseed(t)

		created := doRequest(t, stack.Handler, http.MethodPost, "/api/orders", newOrder(
			model.OrderItemRequest{ProductID: 4, Quantity: 5},
		))
		require.Equal(t, http.StatusCreated, created.Code)
		order := decode[model.Order](t, created)
		assert.Equal(t, 15, stack.Stock(t, 4))

		path := fmt.Sprintf("/api/orders/%d", order.ID)
		w := doRequest(t, stack.Handler, http.MethodPut, path, model.StatusUpdateRequest{Status: "cancelled"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 20, stack.Stock(t, 4))

		w = doRequest(t, stack.Handler, http.MethodPut, path, model.StatusUpdateRequest{Status: "pending"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 20, stack.Stock(t, 4))
	})

	t.Run("GET /api/orders/{id} returns 404 for unknown order", func(t *testing.T) {
		stack.Reseed(t)

		w := doRequest(t, stack.Handler, http.MethodGet, "/api/orders/12345", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Ids beyond 32 bits are unknown, not server errors", func(t *testing.T) {
		stack.Reseed(t)

		for _, path := range []string{"/api/orders/3000000000", "/api/users/3000000000"} {
			w := doRequest(t, stack.Handler, http.MethodGet, path, nil)
			assert.Equal(t, http.StatusNotFound, w.Code, path)
		}

		w := doRequest(t, stack.Handler, http.MethodPut, "/api/orders/3000000000", model.StatusUpdateRequest{Status: "confirmed"})
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = doRequest(t, stack.Handler, http.MethodGet, "/api/orders/user/3000000000", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())

		w = doRequest(t, stack.Handler, http.MethodPost, "/api/orders", newOrder(
			model.OrderItemRequest{ProductID: 3000000000, Quantity: 1},
		))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, model.ErrCodeProductNotFound, decode[model.ErrorResponse](t, w).Error)

		w = doRequest(t, stack.Handler, http.MethodPost, "/api/orders", model.OrderRequest{
			UserID: 3000000000,
			Items:  []model.OrderItemRequest{{ProductID: 1, Quantity: 1}},
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, model.ErrCodeUserNotFound, decode[model.ErrorResponse](t, w).Error)
		assert.Equal(t, 10, stack.Stock(t, 1))
	})
}

func TestCartAPI_Integration(t *testing.T) {
	stack := SetupStack(t, true)
	stack.Reseed(t)

	created := doRequest(t, stack.Handler, http.MethodPost, "/api/cart", nil)
	require.Equal(t, http.StatusCreated, created.Code)
	session := decode[model.Cart](t, created).SessionID
	require.NotEmpty(t, session)

	base := "/api/cart/" + session

	t.Run("Adding the same product merges quantities", func(t *testing.T) {
		w := doRequest(t, stack.Handler, http.MethodPost, base+"/items", model.CartItemRequest{ProductID: 6, Quantity: 2})
		require.Equal(t, http.StatusCreated, w.Code)

		w = doRequest(t, stack.Handler, http.MethodPost, base+"/items", model.CartItemRequest{ProductID: 6, Quantity: 3})
		require.Equal(t, http.StatusCreated, w.Code)

		cart := decode[model.Cart](t, w)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 5, cart.Items[0].Quantity)
		assert.InDelta(t, 249.95, cart.Total, 0.001)
	})

	t.Run("Adding a product id beyond 32 bits returns 404", func(t *testing.T) {
		w := doRequest(t, stack.Handler, http.MethodPost, base+"/items", model.CartItemRequest{ProductID: 3000000000, Quantity: 1})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Checkout places an order and clears the cart", func(t *testing.T) {
		w := doRequest(t, stack.Handler, http.MethodPost, base+"/checkout", model.CheckoutRequest{UserID: 2})
		require.Equal(t, http.StatusCreated, w.Code)

		order := decode[model.Order](t, w)
		assert.Equal(t, int64(2), order.UserID)
		assert.InDelta(t, 249.95, order.TotalAmount, 0.001)
		assert.Equal(t, 45, stack.Stock(t, 6))

		cart := doRequest(t, stack.Handler, http.MethodGet, base, nil)
		require.Equal(t, http.StatusOK, cart.Code)
		assert.Empty(t, decode[model.Cart](t, cart).Items)

		again := doRequest(t, stack.Handler, http.MethodPost, base+"/checkout", model.CheckoutRequest{UserID: 2})
		assert.Equal(t, http.StatusBadRequest, again.Code)
	})
}

func TestCORS_Integration(t *testing.T) {
	stack := SetupStack(t, false)

	t.Run("OPTIONS request returns CORS headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
		w := httptest.NewRecorder()
		stack.Handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	})
}
