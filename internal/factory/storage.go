package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentpay/agentpay/internal/config"
	storepkg "github.com/agentpay/agentpay/internal/store"
	storepg "github.com/agentpay/agentpay/internal/store/postgres"
	storesqlite "github.com/agentpay/agentpay/internal/store/sqlite"
)

// NewStore selects the store driver from cfg.DBDriver.
// Postgres opens synchronously (health checks need the connection right away)
// and runs an async bootstrap check; SQLite creates its schema on open.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	switch cfg.DBDriver {
	case "postgres":
		dsn := cfg.PostgresDSN
		if dsn == "" {
			return nil, fmt.Errorf("AGENTPAY_POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
		db, err := storepg.Open(dsn)
		if err != nil {
			return nil, err
		}

		// Async bootstrap check; don't block startup
		go func() {
			bootstrapCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			if err := storepg.Bootstrap(bootstrapCtx, dsn); err != nil {
				log.Warn().Err(err).Str("driver", cfg.DBDriver).Msg("store bootstrap check failed")
			} else {
				log.Debug().Str("driver", cfg.DBDriver).Msg("store bootstrap check completed")
			}
		}()

		return storepg.NewWithDB(db), nil
	case "sqlite":
		return storesqlite.New(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}
