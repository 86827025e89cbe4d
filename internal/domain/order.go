package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusDraft   OrderStatus = "draft"
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPrinted OrderStatus = "printed"
	// OrderStatusCompleted is accepted by the schema but no transition produces it.
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusDeleted   OrderStatus = "deleted"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusPending, OrderStatusPrinted, OrderStatusCompleted, OrderStatusDeleted:
		return true
	}
	return false
}

// UnnamedCustomer is the denormalized name of orders placed without a customer.
const UnnamedCustomer = "طلبية"

type OrderItem struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"order_id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func SumTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

type Order struct {
	ID           string          `json:"id"`
	SalesRepID   string          `json:"sales_rep_id"`
	CustomerID   string          `json:"customer_id,omitempty"`
	CustomerName string          `json:"customer_name"`
	Status       OrderStatus     `json:"status"`
	Total        decimal.Decimal `json:"total"`
	Notes        string          `json:"notes,omitempty"`
	TextOrder    string          `json:"text_order,omitempty"`
	Images       []string        `json:"images,omitempty"`
	Items        []OrderItem     `json:"items"`
	CreatedAt    time.Time       `json:"created_at"`
}

// OrderContent is the replaceable body of an order: everything except identity,
// ownership and status.
type OrderContent struct {
	CustomerID   string
	CustomerName string
	Total        decimal.Decimal
	Notes        string
	TextOrder    string
	Images       []string
	Items        []OrderItem
}

func (o *Order) SetContent(c OrderContent) {
	o.CustomerID = c.CustomerID
	o.CustomerName = c.CustomerName
	o.Total = c.Total
	o.Notes = c.Notes
	o.TextOrder = c.TextOrder
	o.Images = c.Images
	o.Items = c.Items
}
