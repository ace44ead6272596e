package fixture

import (
	"context"

	"minishop/internal/config"

	"github.com/rs/zerolog"
)

// FromConfig picks the loader for the configured dataset source. An empty
// fixtures path selects the built-in dataset; with S3 enabled the path is
// tried as an object key before the local file system.
func FromConfig(ctx context.Context, seed config.SeedConfig, s3cfg config.S3Config, logger zerolog.Logger) (Loader, error) {
	if seed.FixturesPath == "" {
		return NewStaticLoader(Default()), nil
	}

	file := NewFileLoader(logger)
	if !s3cfg.Enabled {
		return file, nil
	}

	remote, err := NewS3Loader(ctx, s3cfg.Bucket, s3cfg.Region, logger)
	if err != nil {
		return nil, err
	}
	return NewFallbackLoader(remote, file, logger), nil
}
