// Package postgres opens the document database and manages the table the
// Postgres document source reads from.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/resilience"
)

// Client wraps a database/sql handle on the documents table.
type Client struct {
	DB    *sql.DB
	table string
}

// Document is one named text row. Manifests and noise-word lists are stored
// as documents too.
type Document struct {
	Name string
	Body string
}

// New connects to PostgreSQL, retrying the first ping.
func New(cfg config.PostgresConfig) (*Client, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	err = resilience.Retry(ctx, "postgres-ping", resilience.RetryConfig{MaxAttempts: 4}, func() error {
		return db.PingContext(ctx)
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return NewWithDB(db, cfg.Table), nil
}

// NewWithDB wraps an already opened handle.
func NewWithDB(db *sql.DB, table string) *Client {
	if table == "" {
		table = "documents"
	}
	return &Client{DB: db, table: table}
}

func (c *Client) Table() string {
	return c.table
}

func (c *Client) Close() error {
	return c.DB.Close()
}

// EnsureSchema creates the documents table if it does not exist.
func (c *Client) EnsureSchema(ctx context.Context) error {
	stmt := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (name TEXT PRIMARY KEY, body TEXT NOT NULL)",
		pq.QuoteIdentifier(c.table),
	)
	if _, err := c.DB.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("creating table %s: %w", c.table, err)
	}
	return nil
}

// PutDocuments upserts docs in a single transaction.
func (c *Client) PutDocuments(ctx context.Context, docs []Document) error {
	stmt := fmt.Sprintf(
		"INSERT INTO %s (name, body) VALUES ($1, $2) ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body",
		pq.QuoteIdentifier(c.table),
	)
	return c.InTx(ctx, func(tx *sql.Tx) error {
		for _, d := range docs {
			if _, err := tx.ExecContext(ctx, stmt, d.Name, d.Body); err != nil {
				return fmt.Errorf("storing document %q: %w", d.Name, err)
			}
		}
		return nil
	})
}

func (c *Client) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back transaction after error %v: %w", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
