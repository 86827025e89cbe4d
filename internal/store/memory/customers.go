package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/joao-fontenele/salesdesk/internal/domain"
)

type customerRepo struct{ repos }

func customerCreated(c domain.Customer) time.Time { return c.CreatedAt }

func (r customerRepo) List(ctx context.Context) ([]domain.Customer, error) {
	defer r.read()()
	return newestFirst(filter(r.s.t.customers, nil), customerCreated), nil
}

func (r customerRepo) ListBySalesRep(ctx context.Context, salesRepID string) ([]domain.Customer, error) {
	defer r.read()()
	customers := filter(r.s.t.customers, func(c domain.Customer) bool { return c.SalesRepID == salesRepID })
	return newestFirst(customers, customerCreated), nil
}

func (r customerRepo) Get(ctx context.Context, id string) (*domain.Customer, error) {
	defer r.read()()
	c, ok := r.s.t.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r customerRepo) Create(ctx context.Context, customer *domain.Customer) error {
	defer r.write()()
	customer.ID = uuid.New().String()
	customer.CreatedAt = r.s.stamp()
	r.s.t.customers[customer.ID] = *customer
	return nil
}

func (r customerRepo) Update(ctx context.Context, id string, patch domain.CustomerPatch) (*domain.Customer, error) {
	defer r.write()()
	c, ok := r.s.t.customers[id]
	if !ok {
		return nil, nil
	}
	patch.Apply(&c)
	r.s.t.customers[id] = c
	return &c, nil
}

func (r customerRepo) Delete(ctx context.Context, id string) (bool, error) {
	defer r.write()()
	if _, ok := r.s.t.customers[id]; !ok {
		return false, nil
	}
	delete(r.s.t.customers, id)
	return true, nil
}
