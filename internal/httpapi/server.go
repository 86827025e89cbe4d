// Package httpapi is the JSON API. Routes are grouped by who may call them:
// public, any signed-in user, sales reps, admins and full admins.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/joao-fontenele/salesdesk/internal/domain"
	"github.com/joao-fontenele/salesdesk/internal/lifecycle"
	"github.com/joao-fontenele/salesdesk/internal/maintenance"
	"github.com/joao-fontenele/salesdesk/internal/notifications"
	"github.com/joao-fontenele/salesdesk/internal/orders"
	"github.com/joao-fontenele/salesdesk/internal/session"
	"github.com/joao-fontenele/salesdesk/internal/store"
	"github.com/joao-fontenele/salesdesk/internal/telemetry"
)

type Server struct {
	store         store.Store
	engine        *lifecycle.Engine
	views         *orders.Views
	notifications *notifications.Service
	sessions      *session.Manager
	wiper         *maintenance.Wiper
	logger        *slog.Logger
}

func NewServer(
	st store.Store,
	engine *lifecycle.Engine,
	notes *notifications.Service,
	sessions *session.Manager,
	wiper *maintenance.Wiper,
	logger *slog.Logger,
) *Server {
	return &Server{
		store:         st,
		engine:        engine,
		views:         orders.NewViews(st),
		notifications: notes,
		sessions:      sessions,
		wiper:         wiper,
		logger:        logger,
	}
}

// maxBodyBytes leaves room for a few inline images per order.
const maxBodyBytes = 16 << 20

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	r.Use(s.accessLog, middleware.Recoverer)
	r.Use(telemetry.RouteAttribute)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(middleware.RequestSize(maxBodyBytes))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/recover", s.handleRecover)
	r.Get("/auth/security-question", s.handleSecurityQuestion)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/auth/me", s.handleMe)
		r.Patch("/auth/me", s.handleUpdateProfile)
		r.Post("/auth/logout", s.handleLogout)

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", s.handleListNotifications)
			r.Get("/unread-count", s.handleUnreadCount)
			r.Post("/read-all", s.handleMarkAllRead)
			r.Post("/{id}/read", s.handleMarkRead)
			r.Delete("/{id}", s.handleDeleteNotification)
		})

		r.Get("/catalog/groups", s.handleListGroups)
		r.Get("/catalog/products", s.handleListProducts)

		r.Route("/rep", func(r chi.Router) {
			r.Use(requireRole(domain.RoleSalesRep))

			r.Get("/customers", s.handleListMyCustomers)
			r.Post("/customers", s.handleCreateCustomer)
			r.Patch("/customers/{id}", s.handleUpdateCustomer)
			r.Delete("/customers/{id}", s.handleDeleteCustomer)

			r.Get("/orders", s.handleListMyOrders)
			r.Post("/orders", s.handleCreateOrder)
			r.Get("/orders/{id}", s.handleGetOrder)
			r.Put("/orders/{id}", s.handleUpdateDraft)
			r.Post("/orders/{id}/send", s.handleSendDraft)
			r.Post("/orders/{id}/trash", s.handleTrash)
			r.Post("/orders/{id}/restore", s.handleRestore)
			r.Delete("/orders/{id}", s.handlePermanentDelete)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireRole(domain.RoleAdmin))

			r.Get("/orders", s.handleListAllOrders)
			r.Get("/orders/summary", s.handleOrderSummary)
			r.Get("/orders/{id}", s.handleGetOrder)
			r.Post("/orders/{id}/print", s.handleMarkPrinted)
			r.Post("/orders/{id}/trash", s.handleTrash)
			r.Post("/orders/{id}/restore", s.handleRestore)
			r.Delete("/orders/{id}", s.handlePermanentDelete)

			r.Group(func(r chi.Router) {
				r.Use(requireFullAdmin)

				r.Get("/users", s.handleListUsers)
				r.Post("/users", s.handleCreateUser)
				r.Patch("/users/{id}", s.handleUpdateUser)
				r.Delete("/users/{id}", s.handleDeleteUser)

				r.Post("/groups", s.handleCreateGroup)
				r.Patch("/groups/{id}", s.handleUpdateGroup)
				r.Delete("/groups/{id}", s.handleDeleteGroup)

				r.Post("/products", s.handleCreateProduct)
				r.Patch("/products/{id}", s.handleUpdateProduct)
				r.Delete("/products/{id}", s.handleDeleteProduct)

				r.Get("/customers", s.handleListAllCustomers)
				r.Get("/stats/reps", s.handleRepStats)
				r.Post("/wipe", s.handleWipe)
			})
		})
	})

	return r
}
