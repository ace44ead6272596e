package repository

import (
	"context"
	"testing"

	"minishop/internal/model"
	"minishop/internal/testutil"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

// seedProducts inserts test products into the database and fills in their IDs.
func seedProducts(t *testing.T, pool *pgxpool.Pool, products []model.Product) []model.Product {
	t.Helper()
	ctx := context.Background()

	query := `
		INSERT INTO products (name, description, price, image_url, category, stock_quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	for i := range products {
		p := &products[i]
		err := pool.QueryRow(ctx, query, p.Name, p.Description, p.Price, p.ImageURL, p.Category, p.StockQuantity).Scan(&p.ID)
		require.NoError(t, err)
	}
	return products
}

func catalogue() []model.Product {
	return []model.Product{
		{Name: "iPhone 14", Description: strPtr("Smartphone Apple"), Price: 4999.99, Category: strPtr("Eletrônicos"), StockQuantity: 10},
		{Name: "Samsung Galaxy S23", Description: strPtr("Smartphone Samsung"), Price: 3999.99, Category: strPtr("Eletrônicos"), StockQuantity: 15},
		{Name: "Notebook Dell", Description: strPtr("Notebook Intel i5"), Price: 2799.99, Category: strPtr("Computadores"), StockQuantity: 5},
		{Name: "Camiseta Básica", Price: 49.99, Category: strPtr("Roupas"), StockQuantity: 50},
		{Name: "Mystery Box", Price: 0, StockQuantity: 0},
	}
}

func TestProductRepository_List(t *testing.T) {
	testDB := testutil.SetupTestDB(t)
	repo := NewProductRepository(testDB.Pool, zerolog.Nop())
	seedProducts(t, testDB.Pool, catalogue())

	tests := []struct {
		name     string
		filter   model.ProductFilter
		expected []string
	}{
		{
			name:     "All products ordered by id",
			filter:   model.ProductFilter{Limit: 10},
			expected: []string{"iPhone 14", "Samsung Galaxy S23", "Notebook Dell", "Camiseta Básica", "Mystery Box"},
		},
		{
			name:     "Second page",
			filter:   model.ProductFilter{Limit: 2, Offset: 2},
			expected: []string{"Notebook Dell", "Camiseta Básica"},
		},
		{
			name:     "Offset beyond results",
			filter:   model.ProductFilter{Limit: 10, Offset: 10},
			expected: []string{},
		},
		{
			name:     "Category is case-insensitive",
			filter:   model.ProductFilter{Category: "ELETRÔNICOS", Limit: 10},
			expected: []string{"iPhone 14", "Samsung Galaxy S23"},
		},
		{
			name:     "Search matches description",
			filter:   model.ProductFilter{Search: "smartphone", Limit: 10},
			expected: []string{"iPhone 14", "Samsung Galaxy S23"},
		},
		{
			name:     "Search matches category",
			filter:   model.ProductFilter{Search: "roupa", Limit: 10},
			expected: []string{"Camiseta Básica"},
		},
		{
			name:     "Search treats wildcards literally",
			filter:   model.ProductFilter{Search: "%", Limit: 10},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.List(context.Background(), tt.filter)
			require.NoError(t, err)

			names := make([]string, len(products))
			for i, p := range products {
				names[i] = p.Name
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestProductRepository_GetByID(t *testing.T) {
	testDB := testutil.SetupTestDB(t)
	repo := NewProductRepository(testDB.Pool, zerolog.Nop())
	seeded := seedProducts(t, testDB.Pool, catalogue())
	ctx := context.Background()

	t.Run("Product exists", func(t *testing.T) {
		product, err := repo.GetByID(ctx, seeded[0].ID)
		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, "iPhone 14", product.Name)
		assert.Equal(t, 4999.99, product.Price)
		assert.Equal(t, 10, product.StockQuantity)
		require.NotNil(t, product.Category)
		assert.Equal(t, "Eletrônicos", *product.Category)
		assert.Nil(t, product.ImageURL)
		assert.False(t, product.CreatedAt.IsZero())
	})

	t.Run("Product does not exist", func(t *testing.T) {
		product, err := repo.GetByID(ctx, 9999)
		require.NoError(t, err)
		assert.Nil(t, product)
	})

	t.Run("Id beyond 32 bits", func(t *testing.T) {
		product, err := repo.GetByID(ctx, 3000000000)
		require.NoError(t, err)
		assert.Nil(t, product)
	})
}

func TestProductRepository_GetByIDs(t *testing.T) {
	testDB := testutil.SetupTestDB(t)
	repo := NewProductRepository(testDB.Pool, zerolog.Nop())
	seeded := seedProducts(t, testDB.Pool, catalogue())
	ctx := context.Background()

	products, err := repo.GetByIDs(ctx, []int64{seeded[2].ID, seeded[0].ID, 9999, 3000000000})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, seeded[0].ID, products[0].ID)
	assert.Equal(t, seeded[2].ID, products[1].ID)

	empty, err := repo.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestProductRepository_Categories(t *testing.T) {
	testDB := testutil.SetupTestDB(t)
	repo := NewProductRepository(testDB.Pool, zerolog.Nop())
	seedProducts(t, testDB.Pool, catalogue())

	categories, err := repo.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Computadores", "Eletrônicos", "Roupas"}, categories)
}

func TestProductRepository_LockAndAdjustStock(t *testing.T) {
	testDB := testutil.SetupTestDB(t)
	repo := NewProductRepository(testDB.Pool, zerolog.Nop())
	seeded := seedProducts(t, testDB.Pool, catalogue())
	ctx := context.Background()

	tx, err := testDB.Pool.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	locked, err := repo.LockByIDs(ctx, tx, []int64{seeded[0].ID})
	require.NoError(t, err)
	require.Len(t, locked, 1)

	require.NoError(t, repo.AdjustStock(ctx, tx, seeded[0].ID, -4))

	err = repo.AdjustStock(ctx, tx, 9999, -1)
	assert.ErrorIs(t, err, model.ErrProductNotFound)

	require.NoError(t, tx.Commit(ctx))

	product, err := repo.GetByID(ctx, seeded[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 6, product.StockQuantity)
}

func TestProductRepository_AdjustStockBelowZero(t *testing.T) {
	testDB := testutil.SetupTestDB(t)
	repo := NewProductRepository(testDB.Pool, zerolog.Nop())
	seeded := seedProducts(t, testDB.Pool, catalogue())
	ctx := context.Background()

	tx, err := testDB.Pool.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	err = repo.AdjustStock(ctx, tx, seeded[2].ID, -6)
	assert.ErrorIs(t, err, model.ErrInsufficientStock)
}
