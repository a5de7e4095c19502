package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DBConfig holds database connection parameters
type DBConfig struct {
	DSN           string
	MaxRetries    int
	RetryInterval time.Duration
}

// ConnectDB establishes a connection to the PostgreSQL database
func ConnectDB(ctx context.Context, cfg DBConfig, log *slog.Logger) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	var err error

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	for i := 0; i < maxRetries; i++ {
		pool, err = pgxpool.New(ctx, cfg.DSN)
		if err == nil {
			err = pool.Ping(ctx)
			if err == nil {
				log.Info("connected to postgres")
				return pool, nil
			}
			pool.Close()
		}
		log.Warn("failed to connect to database",
			"attempt", i+1, "max_attempts", maxRetries, "retry_in", cfg.RetryInterval, "error", err)
		if i == maxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.RetryInterval):
		}
	}
	return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", maxRetries, err)
}

// AutoMigrate creates the records table if it doesn't exist
func AutoMigrate(db *pgxpool.Pool) error {
	sql := `
	CREATE TABLE IF NOT EXISTS records (
		collection TEXT NOT NULL,
		id BIGINT NOT NULL,
		data JSONB NOT NULL DEFAULT '{}'::jsonb,
		PRIMARY KEY (collection, id)
	);

	CREATE INDEX IF NOT EXISTS idx_records_collection ON records(collection);
	`
	_, err := db.Exec(context.Background(), sql)
	if err != nil {
		return fmt.Errorf("unable to apply migrations: %w", err)
	}
	return nil
}
