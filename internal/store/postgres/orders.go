package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/joao-fontenele/salesdesk/internal/domain"
	"github.com/joao-fontenele/salesdesk/internal/store"
)

type orderRepo struct{ repos }

const orderColumns = `id, sales_rep_id, customer_id, customer_name, status, total, notes, text_order, images, created_at`

func scanOrder(row scanner) (domain.Order, error) {
	var (
		o          domain.Order
		customerID sql.NullString
		images     pq.StringArray
	)
	err := row.Scan(&o.ID, &o.SalesRepID, &customerID, &o.CustomerName, &o.Status, &o.Total,
		&o.Notes, &o.TextOrder, &images, &o.CreatedAt)
	o.CustomerID = customerID.String
	o.Images = images
	o.Items = []domain.OrderItem{}
	return o, err
}

func imageArray(images []string) pq.StringArray {
	if images == nil {
		return pq.StringArray{}
	}
	return images
}

func (r orderRepo) List(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (r orderRepo) ListBySalesRep(ctx context.Context, salesRepID string) ([]domain.Order, error) {
	if !validID(salesRepID) {
		return []domain.Order{}, nil
	}
	return r.list(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE sales_rep_id = $1 ORDER BY created_at DESC
	`, salesRepID)
}

func (r orderRepo) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	orders, err := collect(rows, func(rows *sql.Rows) (domain.Order, error) { return scanOrder(rows) })
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// loadItems fills the items of every order in one query.
func (r orderRepo) loadItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	index := make(map[string]int, len(orders))
	ids := make([]string, len(orders))
	for i, o := range orders {
		index[o.ID] = i
		ids[i] = o.ID
	}

	rows, err := r.q.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, price, created_at
		FROM order_items
		WHERE order_id = ANY($1::uuid[])
		ORDER BY created_at
	`, pq.Array(ids))
	if err != nil {
		return err
	}
	items, err := collect(rows, func(rows *sql.Rows) (domain.OrderItem, error) {
		var item domain.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.Price, &item.CreatedAt)
		return item, err
	})
	if err != nil {
		return err
	}

	for _, item := range items {
		i := index[item.OrderID]
		orders[i].Items = append(orders[i].Items, item)
	}
	return nil
}

func (r orderRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	if !validID(id) {
		return nil, nil
	}
	o, err := scanOrder(r.q.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	orders := []domain.Order{o}
	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r orderRepo) Create(ctx context.Context, order *domain.Order) error {
	order.ID = uuid.New().String()
	order.CreatedAt = r.clock.now()

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, order.ID, order.SalesRepID, nullable(order.CustomerID), order.CustomerName, order.Status,
		order.Total, order.Notes, order.TextOrder, imageArray(order.Images), order.CreatedAt)
	if err != nil {
		return err
	}

	items, err := r.insertItems(ctx, order.ID, order.Items)
	if err != nil {
		return err
	}
	order.Items = items
	return nil
}

func (r orderRepo) insertItems(ctx context.Context, orderID string, items []domain.OrderItem) ([]domain.OrderItem, error) {
	out := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		item.ID = uuid.New().String()
		item.OrderID = orderID
		item.CreatedAt = r.clock.now()
		_, err := r.q.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, product_name, quantity, price, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, item.ID, item.OrderID, item.ProductID, item.ProductName, item.Quantity, item.Price, item.CreatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// ReplaceDraft is only atomic with respect to the item swap when called inside
// WithinTx; the status guard itself is a single conditional UPDATE.
func (r orderRepo) ReplaceDraft(ctx context.Context, id string, content domain.OrderContent) (*domain.Order, error) {
	if !validID(id) {
		return nil, nil
	}

	result, err := r.q.ExecContext(ctx, `
		UPDATE orders
		SET customer_id = $2, customer_name = $3, total = $4, notes = $5, text_order = $6, images = $7
		WHERE id = $1 AND status = $8
	`, id, nullable(content.CustomerID), content.CustomerName, content.Total, content.Notes,
		content.TextOrder, imageArray(content.Images), domain.OrderStatusDraft)
	if err != nil {
		return nil, err
	}
	found, err := r.guard(ctx, result, id)
	if err != nil || !found {
		return nil, err
	}

	if _, err := r.q.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
		return nil, err
	}
	if _, err := r.insertItems(ctx, id, content.Items); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r orderRepo) Transition(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error) {
	if !validID(id) {
		return nil, nil
	}

	result, err := r.q.ExecContext(ctx, `
		UPDATE orders SET status = $3 WHERE id = $1 AND status = $2
	`, id, from, to)
	if err != nil {
		return nil, err
	}
	found, err := r.guard(ctx, result, id)
	if err != nil || !found {
		return nil, err
	}
	return r.Get(ctx, id)
}

// guard inspects a conditional update: a touched row passes, an untouched
// existing row is store.ErrConflict and a missing row reports found=false.
func (r orderRepo) guard(ctx context.Context, result sql.Result, id string) (found bool, err error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}

	var exists bool
	if err := r.q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, err
	}
	if exists {
		return true, store.ErrConflict
	}
	return false, nil
}

// Delete relies on the order_items foreign key cascading.
func (r orderRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.q, "orders", id)
}
