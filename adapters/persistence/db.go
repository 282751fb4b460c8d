package persistence

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/pkg/logger"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func NewPostgresPool(ctx context.Context, cfg config.Config, log logger.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("do not create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database failed: %w", err)
	}

	log.Info("Connect PostgreSQL successfully.")
	return pool, nil
}
