// Package shoppinglist persists generated shopping lists in PostgreSQL.
package shoppinglist

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"cookcart/internal/recipe"
	"cookcart/internal/shopping"
)

// ErrNotFound is returned when no list has the requested id.
var ErrNotFound = errors.New("shopping list not found")

// Record is a saved shopping list together with the selections that produced it.
type Record struct {
	ID        string                `json:"id"`
	CreatedAt time.Time             `json:"created_at"`
	Recipes   []recipe.Selection    `json:"recipes"`
	List      shopping.ShoppingList `json:"list"`
}

// Store defines the interface for shopping list persistence.
type Store interface {
	Save(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	Recent(ctx context.Context, limit int) ([]*Record, error)
}

// row mirrors the shopping_lists table.
type row struct {
	ID        string    `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	Recipes   []byte    `db:"recipes"`
	List      []byte    `db:"list"`
}

const schema = `
CREATE TABLE IF NOT EXISTS shopping_lists (
	id TEXT PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL,
	recipes JSONB NOT NULL,
	list JSONB NOT NULL
);
`

// PostgresStore implements Store for PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore connects to dataSourceName, retrying with exponential
// backoff for up to maxWait, and creates the table if needed.
func NewPostgresStore(ctx context.Context, dataSourceName string, maxWait time.Duration) (*PostgresStore, error) {
	if maxWait <= 0 {
		maxWait = 30 * time.Second
	}
	var db *sqlx.DB
	connect := func() error {
		var err error
		db, err = sqlx.ConnectContext(ctx, "postgres", dataSourceName)
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxWait
	if err := backoff.Retry(connect, backoff.WithContext(b, ctx)); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create shopping_lists table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Save stores rec, assigning an id and creation time when they are unset.
func (s *PostgresStore) Save(ctx context.Context, rec *Record) error {
	r, err := toRow(rec)
	if err != nil {
		return err
	}

	_, err = s.db.NamedExecContext(ctx,
		`INSERT INTO shopping_lists (id, created_at, recipes, list) VALUES (:id, :created_at, :recipes, :list)
		ON CONFLICT (id) DO UPDATE SET recipes = EXCLUDED.recipes, list = EXCLUDED.list`,
		r,
	)
	if err != nil {
		return fmt.Errorf("failed to save shopping list: %w", err)
	}
	return nil
}

// Get retrieves a shopping list by id.
func (s *PostgresStore) Get(ctx context.Context, id string) (*Record, error) {
	var r row
	err := s.db.GetContext(ctx, &r, "SELECT id, created_at, recipes, list FROM shopping_lists WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get shopping list: %w", err)
	}
	return fromRow(r)
}

// Recent returns the latest lists, newest first.
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []row
	err := s.db.SelectContext(ctx, &rows, "SELECT id, created_at, recipes, list FROM shopping_lists ORDER BY created_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping lists: %w", err)
	}

	out := make([]*Record, 0, len(rows))
	for _, r := range rows {
		rec, err := fromRow(r)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func toRow(rec *Record) (row, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.Recipes == nil {
		rec.Recipes = []recipe.Selection{}
	}

	recipesJSON, err := json.Marshal(rec.Recipes)
	if err != nil {
		return row{}, fmt.Errorf("failed to marshal recipes: %w", err)
	}
	listJSON, err := json.Marshal(rec.List)
	if err != nil {
		return row{}, fmt.Errorf("failed to marshal list: %w", err)
	}
	return row{ID: rec.ID, CreatedAt: rec.CreatedAt, Recipes: recipesJSON, List: listJSON}, nil
}

func fromRow(r row) (*Record, error) {
	rec := &Record{ID: r.ID, CreatedAt: r.CreatedAt}
	if err := json.Unmarshal(r.Recipes, &rec.Recipes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipes: %w", err)
	}
	if err := json.Unmarshal(r.List, &rec.List); err != nil {
		return nil, fmt.Errorf("failed to unmarshal list: %w", err)
	}
	return rec, nil
}
