package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductGroup struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type GroupPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
}

func (p GroupPatch) Apply(g *ProductGroup) {
	setString(&g.Name, p.Name)
	setString(&g.Description, p.Description)
	setString(&g.Image, p.Image)
}

type Product struct {
	ID        string          `json:"id"`
	GroupID   string          `json:"group_id"`
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	Price     decimal.Decimal `json:"price"`
	Unit      string          `json:"unit"`
	CreatedAt time.Time       `json:"created_at"`
}

type ProductPatch struct {
	GroupID *string          `json:"group_id,omitempty"`
	Name    *string          `json:"name,omitempty"`
	Code    *string          `json:"code,omitempty"`
	Price   *decimal.Decimal `json:"price,omitempty"`
	Unit    *string          `json:"unit,omitempty"`
}

func (p ProductPatch) Apply(pr *Product) {
	setString(&pr.GroupID, p.GroupID)
	setString(&pr.Name, p.Name)
	setString(&pr.Code, p.Code)
	setString(&pr.Unit, p.Unit)
	if p.Price != nil {
		pr.Price = *p.Price
	}
}

type Customer struct {
	ID         string    `json:"id"`
	SalesRepID string    `json:"sales_rep_id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type CustomerPatch struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (p CustomerPatch) Apply(c *Customer) {
	setString(&c.Name, p.Name)
	setString(&c.Phone, p.Phone)
	setString(&c.Address, p.Address)
}
