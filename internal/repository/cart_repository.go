package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// cartRepository implements CartRepository with one Redis hash per session.
type cartRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCartRepository creates a Redis-backed cart repository. Every write
// refreshes the cart's expiry to ttl.
func NewCartRepository(client *redis.Client, ttl time.Duration, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

// Items returns the session's cart lines keyed by product ID.
func (r *cartRepository) Items(ctx context.Context, sessionID string) (map[int64]int, error) {
	raw, err := r.client.HGetAll(ctx, cartKey(sessionID)).Result()
	if err != nil {
		r.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to read cart")
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	items := make(map[int64]int, len(raw))
	for field, value := range raw {
		productID, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			r.logger.Warn().Str("session_id", sessionID).Str("field", field).Msg("skipping malformed cart field")
			continue
		}
		quantity, err := strconv.Atoi(value)
		if err != nil || quantity <= 0 {
			r.logger.Warn().Str("session_id", sessionID).Str("field", field).Msg("skipping malformed cart quantity")
			continue
		}
		items[productID] = quantity
	}

	return items, nil
}

// Add increments a line's quantity and returns the new quantity.
func (r *cartRepository) Add(ctx context.Context, sessionID string, productID int64, quantity int) (int, error) {
	key := cartKey(sessionID)

	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.HIncrBy(ctx, key, strconv.FormatInt(productID, 10), int64(quantity))
		pipe.Expire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		r.logger.Error().Err(err).Str("session_id", sessionID).Int64("product_id", productID).Msg("failed to add cart item")
		return 0, fmt.Errorf("failed to add cart item: %w", err)
	}

	return int(incr.Val()), nil
}

// SetQuantity replaces a line's quantity; non-positive quantities remove it.
func (r *cartRepository) SetQuantity(ctx context.Context, sessionID string, productID int64, quantity int) error {
	if quantity <= 0 {
		return r.Remove(ctx, sessionID, productID)
	}

	key := cartKey(sessionID)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, strconv.FormatInt(productID, 10), quantity)
		pipe.Expire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		r.logger.Error().Err(err).Str("session_id", sessionID).Int64("product_id", productID).Msg("failed to set cart quantity")
		return fmt.Errorf("failed to set cart quantity: %w", err)
	}

	return nil
}

// Remove deletes a line.
func (r *cartRepository) Remove(ctx context.Context, sessionID string, productID int64) error {
	err := r.client.HDel(ctx, cartKey(sessionID), strconv.FormatInt(productID, 10)).Err()
	if err != nil {
		r.logger.Error().Err(err).Str("session_id", sessionID).Int64("product_id", productID).Msg("failed to remove cart item")
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	return nil
}

// Clear deletes the whole cart.
func (r *cartRepository) Clear(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		r.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
