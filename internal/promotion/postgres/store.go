package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sanoria/pricingservice/internal/domain"
	"github.com/sanoria/pricingservice/internal/metrics"
)

// Store is the PostgreSQL-backed promotion catalog over the promotions table
type Store struct {
	db *pgxpool.Pool
}

// NewStore creates a new PostgreSQL store from a connection string
func NewStore(ctx context.Context, connString string, maxConns int32) (*Store, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if maxConns > 0 {
		config.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: pool}, nil
}

// NewStoreWithPool creates a new store with an existing pool
func NewStoreWithPool(pool *pgxpool.Pool) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("database pool cannot be nil")
	}
	return &Store{db: pool}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

const lookupQuery = `
SELECT code, kind, value, minimum_order_amount, valid_from, valid_until, active, created_at, updated_at
FROM promotions
WHERE code = $1`

// Lookup resolves a promo code to its rule
func (s *Store) Lookup(ctx context.Context, code string) (domain.PromotionRule, error) {
	defer observe("lookup", time.Now())
	key := domain.NormalizePromoCode(code)

	var rule domain.PromotionRule
	err := s.db.QueryRow(ctx, lookupQuery, key).Scan(
		&rule.Code,
		&rule.Kind,
		&rule.Value,
		&rule.MinimumOrderAmount,
		&rule.ValidFrom,
		&rule.ValidUntil,
		&rule.Active,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PromotionRule{}, domain.NewNotFoundError("promotion", key)
		}
		return domain.PromotionRule{}, fmt.Errorf("failed to look up promotion %s: %w", key, err)
	}
	return rule, nil
}

const upsertQuery = `
INSERT INTO promotions (code, kind, value, minimum_order_amount, valid_from, valid_until, active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
ON CONFLICT (code) DO UPDATE SET
	kind = EXCLUDED.kind,
	value = EXCLUDED.value,
	minimum_order_amount = EXCLUDED.minimum_order_amount,
	valid_from = EXCLUDED.valid_from,
	valid_until = EXCLUDED.valid_until,
	active = EXCLUDED.active,
	updated_at = EXCLUDED.updated_at`

// Upsert creates or replaces a rule, keyed by its normalized code
func (s *Store) Upsert(ctx context.Context, rule domain.PromotionRule) error {
	defer observe("upsert", time.Now())
	if err := rule.Validate(); err != nil {
		return err
	}
	code := domain.NormalizePromoCode(rule.Code)

	_, err := s.db.Exec(ctx, upsertQuery,
		code,
		rule.Kind,
		rule.Value,
		rule.MinimumOrderAmount,
		rule.ValidFrom,
		rule.ValidUntil,
		rule.Active,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert promotion %s: %w", code, err)
	}
	return nil
}

// Delete removes a rule by code. Deleting an absent code is not an error.
func (s *Store) Delete(ctx context.Context, code string) error {
	defer observe("delete", time.Now())
	key := domain.NormalizePromoCode(code)
	if _, err := s.db.Exec(ctx, `DELETE FROM promotions WHERE code = $1`, key); err != nil {
		return fmt.Errorf("failed to delete promotion %s: %w", key, err)
	}
	return nil
}

const listQuery = `
SELECT code, kind, value, minimum_order_amount, valid_from, valid_until, active, created_at, updated_at
FROM promotions
ORDER BY code`

// List returns all rules, active or not
func (s *Store) List(ctx context.Context) ([]domain.PromotionRule, error) {
	defer observe("list", time.Now())
	rows, err := s.db.Query(ctx, listQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}
	defer rows.Close()

	var rules []domain.PromotionRule
	for rows.Next() {
		var rule domain.PromotionRule
		if err := rows.Scan(
			&rule.Code,
			&rule.Kind,
			&rule.Value,
			&rule.MinimumOrderAmount,
			&rule.ValidFrom,
			&rule.ValidUntil,
			&rule.Active,
			&rule.CreatedAt,
			&rule.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan promotion row: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate promotion rows: %w", err)
	}
	return rules, nil
}

func observe(operation string, start time.Time) {
	metrics.RecordDatabaseQuery(operation, time.Since(start))
}
