package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"minishop/internal/fixture"
)

// Writes the built-in dataset as a fixture file that SEED_FIXTURES can point
// at, either locally or after uploading it to the fixtures bucket. The output
// is gzipped when the name ends in .gz.
func main() {
	path := "data/fixtures/dataset.json.gz"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", path, err)
	}

	d := fixture.Default()
	if err := fixture.Encode(f, path, d); err != nil {
		f.Close()
		log.Fatalf("Failed to write %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("Failed to close %s: %v", path, err)
	}

	fmt.Printf("Created %s with %d users and %d products\n", path, len(d.Users), len(d.Products))
}
