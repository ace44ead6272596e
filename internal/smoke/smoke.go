// Package smoke drives the API through a fixed end-to-end scenario and
// prints one pass/fail line per step.
package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"minishop/internal/model"

	"github.com/rs/zerolog"
)

// ErrUnreachable is returned when the API cannot be contacted at all.
var ErrUnreachable = errors.New("api unreachable")

// Report counts the outcome of each executed step.
type Report struct {
	Passed int
	Failed int
	// Completed is false when a dependent step failed and the run ended early.
	Completed bool
}

// Runner executes the smoke scenario against one API base URL.
type Runner struct {
	baseURL string
	apiKey  string
	client  *http.Client
	out     io.Writer
	logger  zerolog.Logger
	report  Report
}

// NewRunner creates a Runner. baseURL includes the /api prefix.
func NewRunner(baseURL, apiKey string, out io.Writer, logger zerolog.Logger) *Runner {
	return &Runner{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{},
		out:     out,
		logger:  logger.With().Str("component", "smoke").Logger(),
	}
}

// apiError is a non-2xx response.
type apiError struct {
	status int
	body   model.ErrorResponse
}

func (e *apiError) Error() string {
	if e.body.Error != "" {
		return fmt.Sprintf("%d %s: %s", e.status, e.body.Error, e.body.Message)
	}
	return fmt.Sprintf("status %d", e.status)
}

// Run performs every step in order. Transport failures abort with
// ErrUnreachable; API errors are printed and only stop the run when a later
// step depends on the failed one.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	r.report = Report{}
	r.printf("=== API smoke test against %s ===\n", r.baseURL)

	// 1. Login
	r.printf("\n1. Logging in as admin...\n")
	var login model.LoginResponse
	if err := r.do(ctx, http.MethodPost, "/users/login", model.LoginRequest{Username: "admin", Password: "admin123"}, &login); err != nil {
		if stop := r.fail("login failed", err); stop != nil {
			return &r.report, stop
		}
		return &r.report, nil
	}
	if login.User == nil {
		r.fail("login failed", errors.New("response carried no user"))
		return &r.report, nil
	}
	userID := login.User.ID
	r.pass("logged in as %s (id %d)", login.User.Username, userID)

	// 2. List products
	r.printf("\n2. Listing products...\n")
	var products []model.Product
	if err := r.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		if stop := r.fail("failed to list products", err); stop != nil {
			return &r.report, stop
		}
	} else {
		r.pass("%d products found", len(products))
		for _, p := range products[:min(3, len(products))] {
			r.printf("   - %s: %.2f (%s)\n", p.Name, p.Price, deref(p.Category))
		}
	}

	// 3. Get one product
	r.printf("\n3. Fetching product 1...\n")
	var product model.Product
	if err := r.do(ctx, http.MethodGet, "/products/1", nil, &product); err != nil {
		if stop := r.fail("product not found", err); stop != nil {
			return &r.report, stop
		}
	} else {
		r.pass("found %s", product.Name)
		r.printf("   Price: %.2f\n", product.Price)
		r.printf("   Stock: %d units\n", product.StockQuantity)
	}

	// 4. Create an order
	r.printf("\n4. Creating order...\n")
	orderReq := model.OrderRequest{
		UserID: userID,
		Items: []model.OrderItemRequest{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	}
	var order model.Order
	if err := r.do(ctx, http.MethodPost, "/orders", orderReq, &order); err != nil {
		if stop := r.fail("failed to create order", err); stop != nil {
			return &r.report, stop
		}
		return &r.report, nil
	}
	r.pass("order %d created", order.ID)
	r.printf("   Total: %.2f\n", order.TotalAmount)
	r.printf("   Status: %s\n", order.Status)

	// 5. List the user's orders
	r.printf("\n5. Listing orders for user %d...\n", userID)
	var orders []model.Order
	if err := r.do(ctx, http.MethodGet, fmt.Sprintf("/orders/user/%d", userID), nil, &orders); err != nil {
		if stop := r.fail("failed to list orders", err); stop != nil {
			return &r.report, stop
		}
	} else {
		r.pass("%d orders found", len(orders))
		for _, o := range orders {
			r.printf("   - Order #%d: %.2f (%s)\n", o.ID, o.TotalAmount, o.Status)
		}
	}

	// 6. Confirm the order
	r.printf("\n6. Updating status of order %d...\n", order.ID)
	var updated model.Order
	if err := r.do(ctx, http.MethodPut, fmt.Sprintf("/orders/%d", order.ID), model.StatusUpdateRequest{Status: model.OrderStatusConfirmed}, &updated); err != nil {
		if stop := r.fail("failed to update order", err); stop != nil {
			return &r.report, stop
		}
	} else {
		r.pass("status updated to %s", updated.Status)
	}

	// 7. Register a new user
	r.printf("\n7. Registering a new user...\n")
	register := model.RegisterRequest{
		Username:  fmt.Sprintf("testuser_%d", userID),
		Email:     fmt.Sprintf("test%d@email.com", userID),
		Password:  "123456",
		FirstName: "Usuário",
		LastName:  "Teste",
	}
	var created model.User
	if err := r.do(ctx, http.MethodPost, "/users/register", register, &created); err != nil {
		if stop := r.fail("failed to register user", err); stop != nil {
			return &r.report, stop
		}
	} else {
		r.pass("user %s created (id %d)", created.Username, created.ID)
	}

	// 8. List categories
	r.printf("\n8. Listing categories...\n")
	var categories []string
	if err := r.do(ctx, http.MethodGet, "/products/categories", nil, &categories); err != nil {
		if stop := r.fail("failed to list categories", err); stop != nil {
			return &r.report, stop
		}
	} else {
		r.pass("categories: %s", strings.Join(categories, ", "))
	}

	r.report.Completed = true
	r.printf("\n=== Smoke test finished: %d passed, %d failed ===\n", r.report.Passed, r.report.Failed)
	return &r.report, nil
}

// do sends a JSON request and decodes a 2xx JSON response into out.
func (r *Runner) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.apiKey != "" {
		req.Header.Set("X-API-Key", r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	r.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("smoke request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &apiError{status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr.body)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (r *Runner) pass(format string, args ...any) {
	r.report.Passed++
	r.printf("PASS "+format+"\n", args...)
}

// fail records a failed step. It returns err when the run must abort.
func (r *Runner) fail(what string, err error) error {
	r.report.Failed++
	if errors.Is(err, ErrUnreachable) {
		r.printf("FAIL %s: could not reach the API, is the server running?\n", what)
		return err
	}
	r.printf("FAIL %s: %v\n", what, err)
	return nil
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
