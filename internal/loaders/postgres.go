package loaders

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Conversly/crm-assistant/internal/customers"
	"github.com/Conversly/crm-assistant/internal/utils"
)

// Querier is the subset of pgxpool.Pool used by PostgresClient.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
}

type PostgresClient struct {
	dsn  string
	pool *pgxpool.Pool
	db   Querier
}

const selectCustomersSQL = `
	SELECT id, name, age, gender, risk_profile, aum, last_contact, relevance
	FROM customers
	ORDER BY position, id`

func NewPostgresClient(ctx context.Context, dsn string) (*PostgresClient, error) {
	client := &PostgresClient{dsn: dsn}

	pool, err := client.createConnectionPool(ctx)
	if err != nil {
		return nil, err
	}

	client.pool = pool
	client.db = pool
	utils.Zlog.Info("Connected to PostgreSQL")
	return client, nil
}

// NewPostgresClientFrom wraps an existing querier; used by tests.
func NewPostgresClientFrom(db Querier) *PostgresClient {
	return &PostgresClient{db: db}
}

func (c *PostgresClient) createConnectionPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(c.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Postgres DSN: %w", err)
	}

	cfg.MaxConns = 4
	cfg.MinConns = 1
	cfg.HealthCheckPeriod = 30 * time.Second
	cfg.MaxConnLifetime = 60 * time.Minute
	cfg.MaxConnIdleTime = 15 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping Postgres: %w", err)
	}
	return pool, nil
}

func (c *PostgresClient) Close() error {
	if c.pool != nil {
		c.pool.Close()
	}
	return nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.db.Ping(ctx)
}

// LoadCustomers reads the whole roster once. Ids must be unique.
func (c *PostgresClient) LoadCustomers(ctx context.Context) ([]customers.Customer, error) {
	rows, err := c.db.Query(ctx, selectCustomersSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var out []customers.Customer
	seen := make(map[string]struct{})
	for rows.Next() {
		var rec customers.Customer
		if err := rows.Scan(
			&rec.ID,
			&rec.Name,
			&rec.Age,
			&rec.Gender,
			&rec.RiskProfile,
			&rec.AUM,
			&rec.LastContact,
			&rec.Relevance,
		); err != nil {
			return nil, fmt.Errorf("failed to scan customer row: %w", err)
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("duplicate customer id %q", rec.ID)
		}
		seen[rec.ID] = struct{}{}
		rec.LastContact = rec.LastContact.UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate customer rows: %w", err)
	}

	utils.Zlog.Info("Loaded customers from database", zap.Int("count", len(out)))
	return out, nil
}
