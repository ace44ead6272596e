// Package seed wipes the store and fills it with a fixture dataset.
package seed

import (
	"context"
	"fmt"

	"minishop/internal/auth"
	"minishop/internal/database"
	"minishop/internal/fixture"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Summary reports what a seed run inserted.
type Summary struct {
	Users    int
	Products int
	// Credentials lists "username / password" for each seeded account.
	Credentials []string
}

// Seeder resets the schema and inserts a dataset.
type Seeder struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// New creates a Seeder.
func New(pool *pgxpool.Pool, logger zerolog.Logger) *Seeder {
	return &Seeder{
		pool:   pool,
		logger: logger.With().Str("component", "seeder").Logger(),
	}
}

// Run drops and recreates every table, then inserts d, all in one transaction.
// All existing data is lost; a failed run leaves the store untouched.
func (s *Seeder) Run(ctx context.Context, d *fixture.Dataset) (*Summary, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}

	// Hash before touching the database so a failure leaves the store as it was.
	hashes := make([]string, len(d.Users))
	for i, u := range d.Users {
		hash, err := auth.HashPassword(u.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password for %s: %w", u.Username, err)
		}
		hashes[i] = hash
	}

	s.logger.Warn().Msg("resetting database, all existing data will be lost")
	if err := s.write(ctx, d, hashes); err != nil {
		return nil, err
	}

	summary := &Summary{
		Users:    len(d.Users),
		Products: len(d.Products),
	}
	for _, u := range d.Users {
		summary.Credentials = append(summary.Credentials, u.Username+" / "+u.Password)
	}

	s.logger.Info().
		Int("users", summary.Users).
		Int("products", summary.Products).
		Msg("database seeded")

	return summary, nil
}

// write resets the schema and inserts d inside a single transaction. hashes
// holds the password hash of each user in d.
func (s *Seeder) write(ctx context.Context, d *fixture.Dataset, hashes []string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := database.Reset(ctx, tx); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for i, u := range d.Users {
		batch.Queue(`
			INSERT INTO users (username, email, password_hash, first_name, last_name)
			VALUES ($1, $2, $3, $4, $5)
		`, u.Username, u.Email, hashes[i], u.FirstName, u.LastName)
	}
	for _, p := range d.Products {
		batch.Queue(`
			INSERT INTO products (name, description, price, image_url, category, stock_quantity)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, p.Name, nullable(p.Description), p.Price, nullable(p.ImageURL), nullable(p.Category), p.StockQuantity)
	}

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to insert seed row %d: %w", i, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to insert seed rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit seed data: %w", err)
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
