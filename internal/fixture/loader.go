package fixture

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for dataset files on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based dataset loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "fixture-loader").Logger(),
	}
}

// Load reads a JSON dataset file, gunzipping it when the name ends in .gz.
func (l *fileLoader) Load(ctx context.Context, filePath string) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.logger.Info().Str("file", filePath).Msg("loading fixture file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open fixture file")
		return nil, fmt.Errorf("failed to open fixture file %s: %w", filePath, err)
	}
	defer file.Close()

	d, err := Decode(file, filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to read fixture file")
		return nil, err
	}

	l.logger.Info().
		Str("file", filePath).
		Int("users", len(d.Users)).
		Int("products", len(d.Products)).
		Msg("fixture file loaded successfully")

	return d, nil
}

// staticLoader always returns the same dataset.
type staticLoader struct {
	dataset *Dataset
}

// NewStaticLoader returns a Loader that ignores the name and yields d.
func NewStaticLoader(d *Dataset) Loader {
	return &staticLoader{dataset: d}
}

func (l *staticLoader) Load(ctx context.Context, _ string) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.dataset, nil
}
