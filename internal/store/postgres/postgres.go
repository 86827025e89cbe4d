// Package postgres implements store.Store on PostgreSQL through database/sql and
// lib/pq, instrumented with otelsql.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/joao-fontenele/salesdesk/internal/store"
	"github.com/joao-fontenele/salesdesk/internal/telemetry"
)

const uniqueViolation = "23505"

// Open connects to url and verifies the connection.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := telemetry.OpenDB("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// clock hands out strictly increasing microsecond timestamps so rows created in
// quick succession keep their insertion order.
type clock struct {
	mu   sync.Mutex
	last time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := time.Now().UTC().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}

type Store struct {
	db    *sql.DB
	clock *clock
}

var _ store.Store = (*Store)(nil)

func New(db *sql.DB) *Store {
	return &Store{db: db, clock: &clock{}}
}

func (s *Store) repos(q querier) repos { return repos{q: q, clock: s.clock} }

func (s *Store) Users() store.UserRepository                 { return s.repos(s.db).Users() }
func (s *Store) ProductGroups() store.ProductGroupRepository { return s.repos(s.db).ProductGroups() }
func (s *Store) Products() store.ProductRepository           { return s.repos(s.db).Products() }
func (s *Store) Customers() store.CustomerRepository         { return s.repos(s.db).Customers() }
func (s *Store) Orders() store.OrderRepository               { return s.repos(s.db).Orders() }
func (s *Store) Notifications() store.NotificationRepository { return s.repos(s.db).Notifications() }

func (s *Store) WithinTx(ctx context.Context, fn func(store.Repos) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(s.repos(tx)); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Wipe(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		TRUNCATE notifications, order_items, orders, customers, products, product_groups, users
	`)
	return err
}

type repos struct {
	q     querier
	clock *clock
}

func (r repos) Users() store.UserRepository                 { return userRepo{r} }
func (r repos) ProductGroups() store.ProductGroupRepository { return groupRepo{r} }
func (r repos) Products() store.ProductRepository           { return productRepo{r} }
func (r repos) Customers() store.CustomerRepository         { return customerRepo{r} }
func (r repos) Orders() store.OrderRepository               { return orderRepo{r} }
func (r repos) Notifications() store.NotificationRepository { return notificationRepo{r} }

// validID keeps malformed ids from reaching a UUID column, where they would fail
// the query instead of matching nothing.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func mapErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return store.ErrConflict
	}
	return err
}

func deleteByID(ctx context.Context, q querier, table, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	result, err := q.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func collect[T any](rows *sql.Rows, scan func(*sql.Rows) (T, error)) ([]T, error) {
	defer func() { _ = rows.Close() }()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
