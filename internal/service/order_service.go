package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"minishop/internal/events"
	"minishop/internal/model"
	"minishop/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	publisher   events.Publisher
	logger      zerolog.Logger
	now         func() time.Time
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	publisher events.Publisher,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		logger:      logger.With().Str("service", "order").Logger(),
		now:         time.Now,
	}
}

// orderLine is a validated request line after duplicates are merged.
type orderLine struct {
	productID int64
	quantity  int
}

// CreateOrder reserves stock and records a new pending order. Stock checks,
// decrements and inserts happen in one transaction; nothing is written when
// any line cannot be fulfilled.
func (s *orderService) CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.Order, error) {
	lines, err := s.validateOrderRequest(req)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(lines))
	for i, line := range lines {
		ids[i] = line.productID
	}

	order := &model.Order{
		UserID: req.UserID,
		Status: model.OrderStatusPending,
	}

	err = s.inTx(ctx, func(tx pgx.Tx) error {
		exists, err := s.userRepo.ExistsTx(ctx, tx, req.UserID)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		if !exists {
			s.logger.Info().Int64("user_id", req.UserID).Msg("order rejected, unknown user")
			return model.ErrUserNotFound
		}

		products, err := s.productRepo.LockByIDs(ctx, tx, ids)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		if len(products) != len(ids) {
			s.logger.Info().
				Int("requested", len(ids)).
				Int("found", len(products)).
				Msg("order rejected, unknown product")
			return model.ErrProductNotFound
		}

		byID := make(map[int64]model.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		total := decimal.Zero
		items := make([]model.OrderItem, len(lines))
		for i, line := range lines {
			p := byID[line.productID]
			if p.StockQuantity < line.quantity {
				s.logger.Info().
					Int64("product_id", p.ID).
					Int("requested", line.quantity).
					Int("available", p.StockQuantity).
					Msg("order rejected, insufficient stock")
				return model.ErrInsufficientStock
			}

			lineTotal := model.LineTotal(p.Price, line.quantity)
			total = total.Add(lineTotal)
			items[i] = model.OrderItem{
				ProductID: p.ID,
				Quantity:  line.quantity,
				UnitPrice: p.Price,
				Subtotal:  model.Amount(lineTotal),
			}
		}

		for _, line := range lines {
			if err := s.productRepo.AdjustStock(ctx, tx, line.productID, -line.quantity); err != nil {
				return err
			}
		}

		order.TotalAmount = model.Amount(total)
		if err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}
		order.Items = items

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("order_id", order.ID).
		Int64("user_id", order.UserID).
		Int("item_count", len(order.Items)).
		Float64("total_amount", order.TotalAmount).
		Msg("order created successfully")

	s.publish(ctx, order, model.EventOrderCreated, "")

	return order, nil
}

// GetByID retrieves an order by its ID with all items.
func (s *orderService) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if id <= 0 {
		return nil, model.ErrOrderNotFound
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", id).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Int64("order_id", id).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

// ListByUser retrieves a user's orders, newest first. Unknown users have no orders.
func (s *orderService) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	if userID <= 0 {
		return []model.Order{}, nil
	}

	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus moves an order to a new status. Cancelled orders are final;
// cancelling returns the order's quantities to stock.
func (s *orderService) UpdateStatus(ctx context.Context, id int64, status string) (*model.Order, error) {
	if !model.ValidOrderStatus(status) {
		s.logger.Debug().Int64("order_id", id).Str("status", status).Msg("invalid order status")
		return nil, model.ErrInvalidStatus
	}
	if id <= 0 {
		return nil, model.ErrOrderNotFound
	}

	var previous string
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		order, err := s.orderRepo.GetForUpdate(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		if order == nil {
			return model.ErrOrderNotFound
		}
		if order.Status == model.OrderStatusCancelled {
			s.logger.Info().Int64("order_id", id).Str("status", status).Msg("cancelled order cannot change status")
			return model.ErrInvalidStatusTransition
		}
		previous = order.Status

		if status == model.OrderStatusCancelled {
			for _, item := range order.Items {
				if err := s.productRepo.AdjustStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
					return fmt.Errorf("failed to restock product %d: %w", item.ProductID, err)
				}
			}
		}

		if err := s.orderRepo.UpdateStatus(ctx, tx, id, status); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("order_id", id).
		Str("previous_status", previous).
		Str("status", status).
		Msg("order status updated")

	s.publish(ctx, order, model.EventOrderStatusChanged, previous)

	return order, nil
}

// inTx runs fn inside a transaction, committing on success and rolling back
// on any error.
func (s *orderService) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// publish emits an order event. Delivery failures are logged and never fail
// the request, as the order is already committed.
func (s *orderService) publish(ctx context.Context, order *model.Order, eventType, previous string) {
	event := model.OrderEvent{
		Type:           eventType,
		OrderID:        order.ID,
		UserID:         order.UserID,
		Status:         order.Status,
		PreviousStatus: previous,
		TotalAmount:    order.TotalAmount,
		OccurredAt:     s.now().UTC(),
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn().Err(err).
			Int64("order_id", order.ID).
			Str("event_type", eventType).
			Msg("failed to publish order event")
	}
}

// validateOrderRequest checks the request and merges duplicate product lines.
// The returned lines are sorted by product ID so row locks are always taken
// in the same order.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) ([]orderLine, error) {
	if req == nil {
		return nil, fmt.Errorf("order request is nil")
	}

	if req.UserID <= 0 {
		return nil, model.MissingFieldError("user_id")
	}

	if len(req.Items) == 0 {
		return nil, model.ErrEmptyOrder
	}

	merged := make(map[int64]int, len(req.Items))
	for i, item := range req.Items {
		if item.ProductID <= 0 {
			return nil, model.ValidationError(fmt.Sprintf("items[%d].product_id", i), "must be a positive integer")
		}

		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Int64("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return nil, model.ErrInvalidQuantity
		}

		merged[item.ProductID] += item.Quantity
	}

	lines := make([]orderLine, 0, len(merged))
	for productID, quantity := range merged {
		lines = append(lines, orderLine{productID: productID, quantity: quantity})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].productID < lines[j].productID })

	return lines, nil
}
