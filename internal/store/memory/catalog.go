package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/joao-fontenele/salesdesk/internal/domain"
)

type groupRepo struct{ repos }

func (r groupRepo) List(ctx context.Context) ([]domain.ProductGroup, error) {
	defer r.read()()
	return newestFirst(filter(r.s.t.groups, nil), func(g domain.ProductGroup) time.Time { return g.CreatedAt }), nil
}

func (r groupRepo) Get(ctx context.Context, id string) (*domain.ProductGroup, error) {
	defer r.read()()
	g, ok := r.s.t.groups[id]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (r groupRepo) Create(ctx context.Context, group *domain.ProductGroup) error {
	defer r.write()()
	group.ID = uuid.New().String()
	group.CreatedAt = r.s.stamp()
	r.s.t.groups[group.ID] = *group
	return nil
}

func (r groupRepo) Update(ctx context.Context, id string, patch domain.GroupPatch) (*domain.ProductGroup, error) {
	defer r.write()()
	g, ok := r.s.t.groups[id]
	if !ok {
		return nil, nil
	}
	patch.Apply(&g)
	r.s.t.groups[id] = g
	return &g, nil
}

func (r groupRepo) Delete(ctx context.Context, id string) (bool, error) {
	defer r.write()()
	if _, ok := r.s.t.groups[id]; !ok {
		return false, nil
	}
	for pid, p := range r.s.t.products {
		if p.GroupID == id {
			delete(r.s.t.products, pid)
		}
	}
	delete(r.s.t.groups, id)
	return true, nil
}

type productRepo struct{ repos }

func (r productRepo) List(ctx context.Context) ([]domain.Product, error) {
	defer r.read()()
	return newestFirst(filter(r.s.t.products, nil), func(p domain.Product) time.Time { return p.CreatedAt }), nil
}

func (r productRepo) Get(ctx context.Context, id string) (*domain.Product, error) {
	defer r.read()()
	p, ok := r.s.t.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r productRepo) Create(ctx context.Context, product *domain.Product) error {
	defer r.write()()
	product.ID = uuid.New().String()
	product.CreatedAt = r.s.stamp()
	r.s.t.products[product.ID] = *product
	return nil
}

func (r productRepo) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	defer r.write()()
	p, ok := r.s.t.products[id]
	if !ok {
		return nil, nil
	}
	patch.Apply(&p)
	r.s.t.products[id] = p
	return &p, nil
}

func (r productRepo) Delete(ctx context.Context, id string) (bool, error) {
	defer r.write()()
	if _, ok := r.s.t.products[id]; !ok {
		return false, nil
	}
	delete(r.s.t.products, id)
	return true, nil
}
