// Package fixture provides the sample dataset the seeder writes, and loaders
// for alternative datasets kept on disk or in S3.
package fixture

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"minishop/internal/model"
)

// Loader loads a dataset by name. The name is a file path or an object key.
type Loader interface {
	Load(ctx context.Context, name string) (*Dataset, error)
}

// Dataset is the full set of rows a seed run inserts.
type Dataset struct {
	Users    []User    `json:"users"`
	Products []Product `json:"products"`
}

// User is a seed account with its plaintext password.
type User struct {
	Username  string `json:"username" validate:"required,max=80"`
	Email     string `json:"email" validate:"required,max=120,email"`
	Password  string `json:"password" validate:"required,password_bytes"`
	FirstName string `json:"first_name" validate:"max=80"`
	LastName  string `json:"last_name" validate:"max=80"`
}

// Product is a seed catalogue entry.
type Product struct {
	Name          string  `json:"name" validate:"required,max=100"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" validate:"gte=0,lte=99999999.99"`
	Category      string  `json:"category" validate:"max=50"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0,lte=2147483647"`
	ImageURL      string  `json:"image_url" validate:"max=200"`
}

// Validate checks every row against the column limits and constraints of the
// schema, so a bad file fails before anything is written.
func (d *Dataset) Validate() error {
	seen := make(map[string]bool, len(d.Users)*2)
	for i := range d.Users {
		u := &d.Users[i]
		if err := model.Validate(u); err != nil {
			return fmt.Errorf("user %d: %w", i, err)
		}
		if seen["u:"+u.Username] || seen["e:"+u.Email] {
			return fmt.Errorf("user %d: duplicate username or email", i)
		}
		seen["u:"+u.Username] = true
		seen["e:"+u.Email] = true
	}

	for i := range d.Products {
		if err := model.Validate(&d.Products[i]); err != nil {
			return fmt.Errorf("product %d: %w", i, err)
		}
	}

	return nil
}

// Decode reads a JSON dataset from r, gunzipping it first when name ends in .gz.
func Decode(r io.Reader, name string) (*Dataset, error) {
	if strings.HasSuffix(name, ".gz") {
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
		}
		defer gzipReader.Close()
		r = gzipReader
	}

	var d Dataset
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to decode dataset %s: %w", name, err)
	}

	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset %s: %w", name, err)
	}

	return &d, nil
}

// Encode writes d as JSON to w, gzipped when name ends in .gz.
func Encode(w io.Writer, name string, d *Dataset) error {
	if strings.HasSuffix(name, ".gz") {
		gzipWriter := gzip.NewWriter(w)
		if err := encodeJSON(gzipWriter, d); err != nil {
			return err
		}
		if err := gzipWriter.Close(); err != nil {
			return fmt.Errorf("failed to finish gzip stream: %w", err)
		}
		return nil
	}
	return encodeJSON(w, d)
}

func encodeJSON(w io.Writer, d *Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}
	return nil
}

// Default returns the built-in sample dataset: two accounts and six products.
func Default() *Dataset {
	return &Dataset{
		Users: []User{
			{
				Username:  "admin",
				Email:     "admin@ecommerce.com",
				Password:  "admin123",
				FirstName: "Admin",
				LastName:  "Sistema",
			},
			{
				Username:  "cliente1",
				Email:     "cliente1@email.com",
				Password:  "123456",
				FirstName: "João",
				LastName:  "Silva",
			},
		},
		Products: []Product{
			{
				Name:          "iPhone 14",
				Description:   "Smartphone Apple iPhone 14 com 128GB",
				Price:         4999.99,
				Category:      "Eletrônicos",
				StockQuantity: 10,
				ImageURL:      "https://example.com/iphone14.jpg",
			},
			{
				Name:          "Samsung Galaxy S23",
				Description:   "Smartphone Samsung Galaxy S23 com 256GB",
				Price:         3999.99,
				Category:      "Eletrônicos",
				StockQuantity: 15,
				ImageURL:      "https://example.com/galaxy-s23.jpg",
			},
			{
				Name:          "Notebook Dell Inspiron",
				Description:   "Notebook Dell Inspiron 15 com Intel i5, 8GB RAM, 256GB SSD",
				Price:         2799.99,
				Category:      "Computadores",
				StockQuantity: 5,
				ImageURL:      "https://example.com/dell-inspiron.jpg",
			},
			{
				Name:          "Fone de Ouvido Sony",
				Description:   "Fone de ouvido Sony WH-1000XM4 com cancelamento de ruído",
				Price:         1299.99,
				Category:      "Áudio",
				StockQuantity: 20,
				ImageURL:      "https://example.com/sony-headphones.jpg",
			},
			{
				Name:          "Tênis Nike Air Max",
				Description:   "Tênis Nike Air Max 270 - Tamanho 42",
				Price:         599.99,
				Category:      "Calçados",
				StockQuantity: 8,
				ImageURL:      "https://example.com/nike-air-max.jpg",
			},
			{
				Name:          "Camiseta Básica",
				Description:   "Camiseta básica 100% algodão - Tamanho M",
				Price:         49.99,
				Category:      "Roupas",
				StockQuantity: 50,
				ImageURL:      "https://example.com/camiseta-basica.jpg",
			},
		},
	}
}
