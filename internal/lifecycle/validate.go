package lifecycle

import (
	"context"
	"strings"

	"github.com/joao-fontenele/salesdesk/internal/domain"
	"github.com/joao-fontenele/salesdesk/internal/store"
	"github.com/joao-fontenele/salesdesk/internal/validators"
)

// MaxQuantity bounds a single line so its total stays in a money column.
const MaxQuantity = 100000

type ItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// NewOrder is what a rep puts in an order. Item names and prices are looked up
// in the catalog, never taken from the client.
type NewOrder struct {
	CustomerID string      `json:"customer_id"`
	Items      []ItemInput `json:"items"`
	TextOrder  string      `json:"text_order"`
	Notes      string      `json:"notes"`
	Images     []string    `json:"images"`
}

// resolve checks the creation precondition and turns in into stored content:
// at least one of items, images or text, and a customer of rep's whenever items
// are present.
func resolve(ctx context.Context, tx store.Repos, rep *domain.User, in NewOrder) (domain.OrderContent, error) {
	text := strings.TrimSpace(in.TextOrder)
	customerID := strings.TrimSpace(in.CustomerID)
	images := nonEmpty(in.Images)

	if len(in.Items) == 0 && len(images) == 0 && text == "" {
		return domain.OrderContent{}, invalid("يجب إضافة منتجات أو صور أو نص للطلبية")
	}
	if len(in.Items) > 0 && customerID == "" {
		return domain.OrderContent{}, invalid("يجب اختيار العميل")
	}
	for _, image := range images {
		if err := validators.ValidateImage("image", image); err != nil {
			return domain.OrderContent{}, invalid("الصورة غير صالحة")
		}
	}

	content := domain.OrderContent{
		CustomerName: domain.UnnamedCustomer,
		Notes:        strings.TrimSpace(in.Notes),
		TextOrder:    text,
		Images:       images,
		Items:        make([]domain.OrderItem, 0, len(in.Items)),
	}

	if customerID != "" {
		customer, err := tx.Customers().Get(ctx, customerID)
		if err != nil {
			return domain.OrderContent{}, err
		}
		if customer == nil || customer.SalesRepID != rep.ID {
			return domain.OrderContent{}, invalid("العميل غير موجود")
		}
		content.CustomerID = customer.ID
		content.CustomerName = customer.Name
	}

	for _, item := range in.Items {
		if item.Quantity < 1 {
			return domain.OrderContent{}, invalid("الكمية يجب أن تكون 1 على الأقل")
		}
		if item.Quantity > MaxQuantity {
			return domain.OrderContent{}, invalid("الكمية كبيرة جداً")
		}
		product, err := tx.Products().Get(ctx, item.ProductID)
		if err != nil {
			return domain.OrderContent{}, err
		}
		if product == nil {
			return domain.OrderContent{}, invalid("المنتج غير موجود")
		}
		line := domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			Price:       product.Price,
		}
		if err := validators.ValidateAmount("total", line.LineTotal()); err != nil {
			return domain.OrderContent{}, invalid("سعر المنتج أو إجمالي السطر غير صالح")
		}
		content.Items = append(content.Items, line)
	}
	content.Total = domain.SumTotal(content.Items)
	if err := validators.ValidateAmount("total", content.Total); err != nil {
		return domain.OrderContent{}, invalid("إجمالي الطلبية يتجاوز الحد المسموح")
	}

	return content, nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
