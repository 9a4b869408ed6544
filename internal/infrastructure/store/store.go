// Package store opens the webinar repository selected by configuration.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-webinar-scheduler/config"
	"github.com/oksasatya/go-webinar-scheduler/internal/domain/repository"
	"github.com/oksasatya/go-webinar-scheduler/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-webinar-scheduler/internal/infrastructure/postgres"
	"github.com/oksasatya/go-webinar-scheduler/internal/infrastructure/sqlite"
)

// Store is an opened webinar repository. Pool is set only for postgres.
type Store struct {
	Repo  repository.WebinarRepository
	Pool  *pgxpool.Pool
	close func()
}

func (s *Store) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}

// Open builds the repository named by cfg.StoreDriver. Postgres migrations
// run before the repository is returned.
func Open(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case "memory":
		logger.Warn("using in-memory webinar store; data is lost on restart")
		return &Store{Repo: memory.NewWebinarRepository()}, nil
	case "sqlite":
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("sqlite dir: %w", err)
			}
		}
		repo, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Store{Repo: repo, close: func() { _ = repo.Close() }}, nil
	case "postgres":
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return &Store{Repo: pginfra.NewWebinarRepository(pool), Pool: pool, close: pool.Close}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
