package lifecycle

import (
	"context"
	"fmt"

	"github.com/joao-fontenele/salesdesk/internal/domain"
	"github.com/joao-fontenele/salesdesk/internal/store"
)

func submittedMessage(rep *domain.User, order *domain.Order) string {
	msg := "طلبية جديدة من " + rep.DisplayName()
	if order.CustomerID != "" {
		msg += " للعميل " + order.CustomerName
	}
	return msg
}

func printedMessage(order *domain.Order) string {
	return fmt.Sprintf("طلبيتك للعميل %s تمت طباعتها وجاهزة للاستلام ✅", order.CustomerName)
}

// notifyAdmins writes one order_submitted notification per admin existing now.
// Failing to list the admins fails the command so the order is not left pending
// without anyone being told.
func notifyAdmins(ctx context.Context, tx store.Repos, rep *domain.User, order *domain.Order) ([]domain.Notification, error) {
	admins, err := tx.Users().ListByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}

	msg := submittedMessage(rep, order)
	out := make([]domain.Notification, 0, len(admins))
	for _, admin := range admins {
		n := domain.Notification{
			UserID:         admin.ID,
			Message:        msg,
			Type:           domain.NotificationOrderSubmitted,
			RelatedOrderID: order.ID,
		}
		if err := tx.Notifications().Create(ctx, &n); err != nil {
			return nil, fmt.Errorf("notify admin %s: %w", admin.ID, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// notifyRep tells the order's rep it was printed. Orders outlive their rep's
// account; with no account left there is nobody to notify.
func notifyRep(ctx context.Context, tx store.Repos, order *domain.Order) ([]domain.Notification, error) {
	rep, err := tx.Users().Get(ctx, order.SalesRepID)
	if err != nil {
		return nil, fmt.Errorf("load rep: %w", err)
	}
	if rep == nil {
		return nil, nil
	}

	n := domain.Notification{
		UserID:         order.SalesRepID,
		Message:        printedMessage(order),
		Type:           domain.NotificationOrderPrinted,
		RelatedOrderID: order.ID,
	}
	if err := tx.Notifications().Create(ctx, &n); err != nil {
		return nil, fmt.Errorf("notify rep %s: %w", order.SalesRepID, err)
	}
	return []domain.Notification{n}, nil
}
