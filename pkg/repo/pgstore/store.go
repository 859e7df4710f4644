// Package pgstore persists repo collections as JSONB rows in Postgres.
package pgstore

import (
	"context"
	"embed"
	"encoding/json"
	"sync"

	"github.com/go-faster/errors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const driverName = "pgx"

var gooseMu sync.Mutex

type Store struct {
	db *sqlx.DB
}

// Open connects to databaseURL and applies pending migrations.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, driverName, databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "connect postgres")
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return New(db), nil
}

// Migrate applies the embedded goose migrations.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "goose dialect")
	}
	if err := goose.UpContext(ctx, db.DB, "migrations"); err != nil {
		return errors.Wrap(err, "migrate")
	}
	return nil
}

// New wraps a migrated handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Load(ctx context.Context, collection string) ([]json.RawMessage, error) {
	var bodies []string
	query := s.db.Rebind(`SELECT body FROM collection_items WHERE collection = ? ORDER BY position`)
	if err := s.db.SelectContext(ctx, &bodies, query, collection); err != nil {
		return nil, errors.Wrap(err, "query items")
	}
	out := make([]json.RawMessage, 0, len(bodies))
	for _, b := range bodies {
		out = append(out, json.RawMessage(b))
	}
	return out, nil
}

// Save replaces the stored snapshot of collection in one transaction.
func (s *Store) Save(ctx context.Context, collection string, items []json.RawMessage) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM collection_items WHERE collection = ?`), collection); err != nil {
		return errors.Wrap(err, "clear collection")
	}
	insert := tx.Rebind(`INSERT INTO collection_items (collection, position, body) VALUES (?, ?, ?)`)
	for i, item := range items {
		if _, err = tx.ExecContext(ctx, insert, collection, i, string(item)); err != nil {
			return errors.Wrap(err, "insert item")
		}
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	return nil
}
