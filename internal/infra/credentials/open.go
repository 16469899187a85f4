package credentials

import (
	"context"
	"fmt"

	"moodspec/internal/infra"
)

// OpenStore picks the Postgres store when a database is configured and the
// local file store otherwise. The returned close function is never nil.
func OpenStore(ctx context.Context, cfg *infra.Config, logger infra.Logger) (KeyStore, func(), error) {
	if cfg.DatabaseURL == "" {
		return NewFileStore(cfg.CredentialFile), func() {}, nil
	}
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		return nil, func() {}, fmt.Errorf("open credential database: %w", err)
	}
	store := NewStore(infra.NewSQLRunner(pool, logger))
	if err := store.Migrate(ctx); err != nil {
		pool.Close()
		return nil, func() {}, err
	}
	return store, pool.Close, nil
}
