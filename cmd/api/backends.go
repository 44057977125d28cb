package main

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"
	redis "github.com/redis/go-redis/v9"

	"github.com/yourusername/login-portal/internal/config"
	"github.com/yourusername/login-portal/internal/session"
	"github.com/yourusername/login-portal/internal/storage"
	"github.com/yourusername/login-portal/internal/users"
)

type backends struct {
	db       *sqlx.DB
	rdb      *redis.Client
	users    users.Repository
	sessions session.Store
}

// setupBackends は PostgreSQL とセッションストアを準備します。
// SESSION_REDIS_URL が空の場合はプロセス内のストアを使います。
func setupBackends(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backends, error) {
	db, err := storage.ConnectPostgres(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := storage.Migrate(ctx, db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}

	b := &backends{
		db:    db,
		users: users.NewPostgresRepository(db),
	}

	if cfg.SessionRedisURL == "" {
		logger.Warn("SESSION_REDIS_URL is not set; sessions are kept in process memory")
		b.sessions = session.NewMemoryStore(cfg.SessionMaxLifetime)
		return b, nil
	}

	rdb, err := storage.ConnectRedis(ctx, cfg.SessionRedisURL)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	b.rdb = rdb
	b.sessions = session.NewRedisStore(rdb, cfg.SessionMaxLifetime)
	return b, nil
}

// Close は接続を閉じます。
func (b *backends) Close() {
	if b.rdb != nil {
		_ = b.rdb.Close()
	}
	_ = b.db.Close()
}
