package service

import (
	"context"
	"fmt"
	"sort"

	"minishop/internal/model"
	"minishop/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	orders      OrderService
	logger      zerolog.Logger
}

// NewCartService creates a new cart service. Checkout places orders through orders.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	orders OrderService,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orders:      orders,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// NewSession allocates a fresh cart session ID.
func (s *cartService) NewSession() string {
	return uuid.NewString()
}

// validSession accepts only UUID session IDs.
func validSession(sessionID string) error {
	if _, err := uuid.Parse(sessionID); err != nil {
		return model.ValidationError("session_id", "must be a UUID")
	}
	return nil
}

// Get returns the priced cart for a session. Lines whose product no longer
// exists are left out.
func (s *cartService) Get(ctx context.Context, sessionID string) (*model.Cart, error) {
	if err := validSession(sessionID); err != nil {
		return nil, err
	}

	lines, err := s.cartRepo.Items(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	cart := &model.Cart{SessionID: sessionID, Items: []model.CartItem{}}
	if len(lines) == 0 {
		return cart, nil
	}

	ids := make([]int64, 0, len(lines))
	for id := range lines {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to load cart products")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	total := decimal.Zero
	for i := range products {
		p := &products[i]
		quantity := lines[p.ID]
		lineTotal := model.LineTotal(p.Price, quantity)
		total = total.Add(lineTotal)
		cart.Items = append(cart.Items, model.CartItem{
			ProductID: p.ID,
			Quantity:  quantity,
			Product:   p,
			Subtotal:  model.Amount(lineTotal),
		})
	}
	cart.Total = model.Amount(total)

	if len(products) < len(ids) {
		s.logger.Warn().
			Str("session_id", sessionID).
			Int("lines", len(ids)).
			Int("priced", len(products)).
			Msg("cart references missing products")
	}

	return cart, nil
}

// AddItem adds a product to the cart, merging with an existing line.
func (s *cartService) AddItem(ctx context.Context, sessionID string, req *model.CartItemRequest) (*model.Cart, error) {
	if err := validSession(sessionID); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("cart item request is nil")
	}
	if req.Quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}
	if err := s.ensureProduct(ctx, req.ProductID); err != nil {
		return nil, err
	}

	quantity, err := s.cartRepo.Add(ctx, sessionID, req.ProductID, req.Quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	s.logger.Debug().
		Str("session_id", sessionID).
		Int64("product_id", req.ProductID).
		Int("quantity", quantity).
		Msg("cart item added")

	return s.Get(ctx, sessionID)
}

// UpdateItem replaces a line's quantity. Non-positive quantities remove it.
func (s *cartService) UpdateItem(ctx context.Context, sessionID string, productID int64, quantity int) (*model.Cart, error) {
	if err := validSession(sessionID); err != nil {
		return nil, err
	}
	if quantity > 0 {
		if err := s.ensureProduct(ctx, productID); err != nil {
			return nil, err
		}
	}

	if err := s.cartRepo.SetQuantity(ctx, sessionID, productID, quantity); err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	return s.Get(ctx, sessionID)
}

// RemoveItem deletes a line.
func (s *cartService) RemoveItem(ctx context.Context, sessionID string, productID int64) (*model.Cart, error) {
	if err := validSession(sessionID); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Remove(ctx, sessionID, productID); err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}

	return s.Get(ctx, sessionID)
}

// Clear empties the cart.
func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	if err := validSession(sessionID); err != nil {
		return err
	}

	if err := s.cartRepo.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Checkout places an order for the cart contents and empties the cart. The
// cart is left untouched when the order is rejected.
func (s *cartService) Checkout(ctx context.Context, sessionID string, req *model.CheckoutRequest) (*model.Order, error) {
	if err := validSession(sessionID); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("checkout request is nil")
	}

	lines, err := s.cartRepo.Items(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, model.ErrEmptyCart
	}

	orderReq := &model.OrderRequest{UserID: req.UserID}
	for productID, quantity := range lines {
		orderReq.Items = append(orderReq.Items, model.OrderItemRequest{ProductID: productID, Quantity: quantity})
	}
	sort.Slice(orderReq.Items, func(i, j int) bool { return orderReq.Items[i].ProductID < orderReq.Items[j].ProductID })

	order, err := s.orders.CreateOrder(ctx, orderReq)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.Clear(ctx, sessionID); err != nil {
		s.logger.Warn().Err(err).
			Str("session_id", sessionID).
			Int64("order_id", order.ID).
			Msg("order placed but cart could not be cleared")
	}

	s.logger.Info().
		Str("session_id", sessionID).
		Int64("order_id", order.ID).
		Msg("cart checked out")

	return order, nil
}

func (s *cartService) ensureProduct(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return model.ErrProductNotFound
	}
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to look up product: %w", err)
	}
	if product == nil {
		return model.ErrProductNotFound
	}
	return nil
}
