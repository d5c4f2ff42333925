package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

const queryTimeout = 10 * time.Second

// DB handles all database operations with a shared connection pool
type DB struct {
	db *sql.DB
}

func buildConnectionString(host string, port int, user, password, dbname string) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname,
	)
}

// NewDB opens the PostgreSQL pool and waits for the server to answer a ping
func NewDB(ctx context.Context, host string, port int, user, password, dbname string) (*DB, error) {
	conn, err := sql.Open("postgres", buildConnectionString(host, port, user, password, dbname))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool settings
	conn.SetMaxOpenConns(20)           // Allow multiple concurrent operations
	conn.SetMaxIdleConns(10)           // Keep some connections ready
	conn.SetConnMaxLifetime(time.Hour) // Recreate connections after an hour
	conn.SetConnMaxIdleTime(time.Hour) // Close idle connections after an hour

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = time.Minute

	ping := func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return conn.PingContext(pingCtx)
	}
	notify := func(err error, wait time.Duration) {
		log.WithFields(log.Fields{
			"host":  host,
			"port":  port,
			"error": err,
			"retry": wait,
		}).Warn("Database not reachable yet")
	}

	if err := backoff.RetryNotify(ping, backoff.WithContext(bo, ctx), notify); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	return &DB{db: conn}, nil
}

func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return db.db.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.db.Close()
}

func scanIds(rows *sql.Rows) ([]int64, error) {
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return ids, nil
}
