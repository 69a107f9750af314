package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"devlinks/internal/config"
	"devlinks/internal/logger"
	"devlinks/migrations"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB wraps the shared *sql.DB handle together with the error classifier used
// to decide whether failed connection attempts are worth retrying.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// NewConnectPostgres opens a PostgreSQL connection using the pgx stdlib
// driver and verifies it with a bounded ping-retry loop.
//
// The ping is retried cfg.ConnectAttempts times with cfg.ConnectBackoff
// between attempts, but only while the failure classifies as [Retryable];
// authentication and syntax-level failures abort immediately.
func NewConnectPostgres(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	// establish connection
	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	// setup connections
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(4)

	classifier := NewPostgresErrorClassifier()

	// ping database with bounded retry
	attempts := cfg.ConnectAttempts
	if attempts < 1 {
		attempts = 1
	}

	var pingErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		pingErr = conn.PingContext(ctx)
		if pingErr == nil {
			break
		}

		log.Warn().
			Err(pingErr).
			Str("func", "NewConnectPostgres").
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Msg("database ping failed")

		if classifier.Classify(pingErr) == NonRetryable && !isDialError(pingErr) {
			break
		}
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.ConnectBackoff):
		}
	}
	if pingErr != nil {
		log.Err(pingErr).Str("func", "NewConnectPostgres").Msg("error connecting database (ping)")
		return nil, pingErr
	}
	log.Info().Str("func", "NewConnectPostgres").Msg("connected to database successfully")

	// construct a DB struct
	db := &DB{
		DB:                 conn,
		logger:             log,
		errorClassificator: classifier,
	}

	return db, nil
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}

// isDialError reports whether the error looks like the server is simply not
// reachable yet. Such errors never carry a PostgreSQL error code, so the
// classifier alone would treat them as non-retryable.
func isDialError(err error) bool {
	var pgErr *pgconn.PgError
	return !errors.As(err, &pgErr)
}

func postgresError(err error) string {
	var pgErr *pgconn.PgError
	// if postgres returns error
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}
