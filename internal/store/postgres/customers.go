package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/joao-fontenele/salesdesk/internal/domain"
)

type customerRepo struct{ repos }

const customerColumns = `id, sales_rep_id, name, phone, address, created_at`

func scanCustomer(row scanner) (domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.SalesRepID, &c.Name, &c.Phone, &c.Address, &c.CreatedAt)
	return c, err
}

func scanCustomers(rows *sql.Rows) (domain.Customer, error) { return scanCustomer(rows) }

func (r customerRepo) List(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCustomers)
}

func (r customerRepo) ListBySalesRep(ctx context.Context, salesRepID string) ([]domain.Customer, error) {
	if !validID(salesRepID) {
		return []domain.Customer{}, nil
	}
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+customerColumns+` FROM customers WHERE sales_rep_id = $1 ORDER BY created_at DESC
	`, salesRepID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCustomers)
}

func (r customerRepo) Get(ctx context.Context, id string) (*domain.Customer, error) {
	if !validID(id) {
		return nil, nil
	}
	c, err := scanCustomer(r.q.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r customerRepo) Create(ctx context.Context, customer *domain.Customer) error {
	customer.ID = uuid.New().String()
	customer.CreatedAt = r.clock.now()
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO customers (`+customerColumns+`) VALUES ($1, $2, $3, $4, $5, $6)
	`, customer.ID, customer.SalesRepID, customer.Name, customer.Phone, customer.Address, customer.CreatedAt)
	return err
}

func (r customerRepo) Update(ctx context.Context, id string, patch domain.CustomerPatch) (*domain.Customer, error) {
	c, err := r.Get(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	patch.Apply(c)
	_, err = r.q.ExecContext(ctx, `
		UPDATE customers SET name = $2, phone = $3, address = $4 WHERE id = $1
	`, c.ID, c.Name, c.Phone, c.Address)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r customerRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.q, "customers", id)
}
