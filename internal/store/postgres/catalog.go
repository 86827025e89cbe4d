package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/joao-fontenele/salesdesk/internal/domain"
)

type groupRepo struct{ repos }

func scanGroup(row scanner) (domain.ProductGroup, error) {
	var g domain.ProductGroup
	err := row.Scan(&g.ID, &g.Name, &g.Description, &g.Image, &g.CreatedAt)
	return g, err
}

func (r groupRepo) List(ctx context.Context) ([]domain.ProductGroup, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, name, description, image, created_at FROM product_groups ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(rows *sql.Rows) (domain.ProductGroup, error) { return scanGroup(rows) })
}

func (r groupRepo) Get(ctx context.Context, id string) (*domain.ProductGroup, error) {
	if !validID(id) {
		return nil, nil
	}
	g, err := scanGroup(r.q.QueryRowContext(ctx, `
		SELECT id, name, description, image, created_at FROM product_groups WHERE id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r groupRepo) Create(ctx context.Context, group *domain.ProductGroup) error {
	group.ID = uuid.New().String()
	group.CreatedAt = r.clock.now()
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO product_groups (id, name, description, image, created_at) VALUES ($1, $2, $3, $4, $5)
	`, group.ID, group.Name, group.Description, group.Image, group.CreatedAt)
	return err
}

func (r groupRepo) Update(ctx context.Context, id string, patch domain.GroupPatch) (*domain.ProductGroup, error) {
	g, err := r.Get(ctx, id)
	if err != nil || g == nil {
		return nil, err
	}
	patch.Apply(g)
	_, err = r.q.ExecContext(ctx, `
		UPDATE product_groups SET name = $2, description = $3, image = $4 WHERE id = $1
	`, g.ID, g.Name, g.Description, g.Image)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Delete relies on the products foreign key cascading.
func (r groupRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.q, "product_groups", id)
}

type productRepo struct{ repos }

func scanProduct(row scanner) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.GroupID, &p.Name, &p.Code, &p.Price, &p.Unit, &p.CreatedAt)
	return p, err
}

func (r productRepo) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, group_id, name, code, price, unit, created_at FROM products ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(rows *sql.Rows) (domain.Product, error) { return scanProduct(rows) })
}

func (r productRepo) Get(ctx context.Context, id string) (*domain.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	p, err := scanProduct(r.q.QueryRowContext(ctx, `
		SELECT id, group_id, name, code, price, unit, created_at FROM products WHERE id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r productRepo) Create(ctx context.Context, product *domain.Product) error {
	product.ID = uuid.New().String()
	product.CreatedAt = r.clock.now()
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO products (id, group_id, name, code, price, unit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, product.ID, product.GroupID, product.Name, product.Code, product.Price, product.Unit, product.CreatedAt)
	return err
}

func (r productRepo) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	p, err := r.Get(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}
	patch.Apply(p)
	_, err = r.q.ExecContext(ctx, `
		UPDATE products SET group_id = $2, name = $3, code = $4, price = $5, unit = $6 WHERE id = $1
	`, p.ID, p.GroupID, p.Name, p.Code, p.Price, p.Unit)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r productRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.q, "products", id)
}
