package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/salesdesk/internal/changes"
	"github.com/joao-fontenele/salesdesk/internal/domain"
	"github.com/joao-fontenele/salesdesk/internal/lifecycle"
	"github.com/joao-fontenele/salesdesk/internal/maintenance"
	"github.com/joao-fontenele/salesdesk/internal/notifications"
	"github.com/joao-fontenele/salesdesk/internal/seed"
	"github.com/joao-fontenele/salesdesk/internal/session"
	"github.com/joao-fontenele/salesdesk/internal/store/memory"
)

const adminPassword = "admin-secret"

type harness struct {
	t      *testing.T
	router chi.Router
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := memory.New()
	opts := seed.Options{AdminPassword: adminPassword, Catalog: true}
	require.NoError(t, seed.EnsureDefaults(ctx, st, opts, logger))

	tokens, err := session.NewTokens([]byte("test-key"), time.Hour)
	require.NoError(t, err)
	sessions := session.NewManager(st.Users(), session.NewMemoryStore(), tokens, time.Hour, logger)

	srv := NewServer(
		st,
		lifecycle.NewEngine(st, lifecycle.WithLogger(logger)),
		notifications.NewService(st.Notifications(), changes.Discard, logger),
		sessions,
		maintenance.NewWiper(st, sessions, opts, logger),
		logger,
	)
	return &harness{t: t, router: srv.Routes()}
}

func (h *harness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *harness) login(username, password string) string {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())
	var resp session.Login
	require.NoError(h.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func (h *harness) createUser(adminToken string, body map[string]any) domain.User {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/admin/users", adminToken, body)
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())
	var u domain.User
	require.NoError(h.t, json.Unmarshal(rec.Body.Bytes(), &u))
	return u
}

func (h *harness) newRep(adminToken, username string) string {
	h.t.Helper()
	h.createUser(adminToken, map[string]any{
		"username": username, "password": "rep-secret", "full_name": "مندوب " + username, "role": "sales_rep",
	})
	return h.login(username, "rep-secret")
}

func decodeInto[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (h *harness) productByCode(token, code string) domain.Product {
	h.t.Helper()
	products := decodeInto[[]domain.Product](h.t, h.do(http.MethodGet, "/catalog/products", token, nil))
	for _, p := range products {
		if p.Code == code {
			return p
		}
	}
	h.t.Fatalf("product %s not seeded", code)
	return domain.Product{}
}

func TestHealthz(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/healthz", "", nil)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("expected ok, got %s", rec.Body.String())
	}
}

func TestAuth(t *testing.T) {
	h := newHarness(t)

	t.Run("rejects requests without a token", func(t *testing.T) {
		rec := h.do(http.MethodGet, "/auth/me", "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", rec.Code)
		}
		resp := decodeInto[map[string]string](t, rec)
		if resp["error"] != "unauthorized" {
			t.Errorf("expected 'unauthorized', got %s", resp["error"])
		}
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		rec := h.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "admin", "password": "nope"})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", rec.Code)
		}
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		h.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("me returns the signed in user without secrets", func(t *testing.T) {
		token := h.login("admin", adminPassword)
		rec := h.do(http.MethodGet, "/auth/me", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "hash")

		me := decodeInto[domain.User](t, rec)
		assert.Equal(t, "admin", me.Username)
		assert.Equal(t, domain.RoleAdmin, me.Role)
	})

	t.Run("logout ends the session", func(t *testing.T) {
		token := h.login("admin", adminPassword)
		require.Equal(t, http.StatusNoContent, h.do(http.MethodPost, "/auth/logout", token, nil).Code)

		rec := h.do(http.MethodGet, "/auth/me", token, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", rec.Code)
		}
	})

	t.Run("deactivated users cannot log in", func(t *testing.T) {
		admin := h.login("admin", adminPassword)
		u := h.createUser(admin, map[string]any{"username": "gone", "password": "secret1", "role": "sales_rep"})
		rec := h.do(http.MethodPatch, "/admin/users/"+u.ID, admin, map[string]any{"is_active": false})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = h.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "gone", "password": "secret1"})
		if rec.Code != http.StatusForbidden {
			t.Errorf("expected status 403, got %d", rec.Code)
		}
	})

	t.Run("recovers a password with the security answer", func(t *testing.T) {
		admin := h.login("admin", adminPassword)
		h.createUser(admin, map[string]any{
			"username": "forgetful", "password": "secret1", "role": "sales_rep",
			"security_question": "اسم المدينة؟", "security_answer": " Cairo ",
		})

		rec := h.do(http.MethodGet, "/auth/security-question?username=forgetful", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "اسم المدينة؟", decodeInto[map[string]string](t, rec)["question"])

		rec = h.do(http.MethodPost, "/auth/recover", "", map[string]string{"username": "forgetful", "answer": "wrong", "new_password": "secret2"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = h.do(http.MethodPost, "/auth/recover", "", map[string]string{"username": "forgetful", "answer": "cairo", "new_password": "secret2"})
		require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
		h.login("forgetful", "secret2")
	})

	t.Run("profile edits show up in me", func(t *testing.T) {
		token := h.newRep(h.login("admin", adminPassword), "profiled")
		rec := h.do(http.MethodPatch, "/auth/me", token, map[string]any{"phone": "+20 100 000"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		me := decodeInto[domain.User](t, h.do(http.MethodGet, "/auth/me", token, nil))
		assert.Equal(t, "+20 100 000", me.Phone)

		rec = h.do(http.MethodPatch, "/auth/me", token, map[string]any{"email": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRoleGates(t *testing.T) {
	h := newHarness(t)
	admin := h.login("admin", adminPassword)
	rep := h.newRep(admin, "rep1")

	h.createUser(admin, map[string]any{
		"username": "printer", "password": "secret1", "role": "admin", "admin_permission": "orders_only",
	})
	ordersOnly := h.login("printer", "secret1")

	tests := []struct {
		name   string
		token  string
		method string
		path   string
		want   int
	}{
		{"rep cannot list admin orders", rep, http.MethodGet, "/admin/orders", http.StatusForbidden},
		{"admin cannot use rep orders", admin, http.MethodGet, "/rep/orders", http.StatusForbidden},
		{"orders only admin lists orders", ordersOnly, http.MethodGet, "/admin/orders", http.StatusOK},
		{"orders only admin cannot manage users", ordersOnly, http.MethodGet, "/admin/users", http.StatusForbidden},
		{"orders only admin cannot see stats", ordersOnly, http.MethodGet, "/admin/stats/reps", http.StatusForbidden},
		{"full admin sees stats", admin, http.MethodGet, "/admin/stats/reps", http.StatusOK},
		{"any user reads the catalog", rep, http.MethodGet, "/catalog/groups", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.do(tt.method, tt.path, tt.token, nil)
			if rec.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestOrderFlow(t *testing.T) {
	h := newHarness(t)
	admin := h.login("admin", adminPassword)
	rep := h.newRep(admin, "rep1")

	rec := h.do(http.MethodPost, "/rep/customers", rep, map[string]string{"name": "Acme", "phone": "0100000000"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	customer := decodeInto[domain.Customer](t, rec)

	product := h.productByCode(rep, "P101")

	rec = h.do(http.MethodPost, "/rep/orders", rep, map[string]any{
		"customer_id": customer.ID,
		"items":       []map[string]any{{"product_id": product.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decodeInto[domain.Order](t, rec)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.True(t, product.Price.Mul(decimal.NewFromInt(2)).Equal(order.Total), "total %s", order.Total)

	unread := decodeInto[map[string]int](t, h.do(http.MethodGet, "/notifications/unread-count", admin, nil))
	assert.Equal(t, 1, unread["count"])

	summary := h.do(http.MethodGet, "/admin/orders/summary", admin, nil)
	require.Equal(t, http.StatusOK, summary.Code)
	assert.JSONEq(t, `{"pending":1,"printed":0,"deleted":0}`, summary.Body.String())

	rec = h.do(http.MethodPost, "/admin/orders/"+order.ID+"/print", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, domain.OrderStatusPrinted, decodeInto[domain.Order](t, rec).Status)

	t.Run("printing twice conflicts", func(t *testing.T) {
		rec := h.do(http.MethodPost, "/admin/orders/"+order.ID+"/print", admin, nil)
		if rec.Code != http.StatusConflict {
			t.Errorf("expected status 409, got %d", rec.Code)
		}
	})

	t.Run("rep is told the order was printed", func(t *testing.T) {
		list := decodeInto[[]domain.Notification](t, h.do(http.MethodGet, "/notifications", rep, nil))
		require.Len(t, list, 1)
		assert.Equal(t, domain.NotificationOrderPrinted, list[0].Type)
		assert.Equal(t, order.ID, list[0].RelatedOrderID)

		rec := h.do(http.MethodPost, "/notifications/"+list[0].ID+"/read", rep, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, decodeInto[domain.Notification](t, rec).IsRead)

		rec = h.do(http.MethodPost, "/notifications/"+list[0].ID+"/read", admin, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("admin lists carry the rep name", func(t *testing.T) {
		rec := h.do(http.MethodGet, "/admin/orders?status=printed", admin, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var list []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		require.Len(t, list, 1)
		assert.Equal(t, "مندوب rep1", list[0]["sales_rep_name"])
	})

	t.Run("trash restore and delete", func(t *testing.T) {
		rec := h.do(http.MethodPost, "/rep/orders/"+order.ID+"/trash", rep, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = h.do(http.MethodPost, "/rep/orders/"+order.ID+"/restore", rep, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, domain.OrderStatusPending, decodeInto[domain.Order](t, rec).Status)

		require.Equal(t, http.StatusNoContent, h.do(http.MethodDelete, "/admin/orders/"+order.ID, admin, nil).Code)
		assert.Equal(t, http.StatusNotFound, h.do(http.MethodDelete, "/admin/orders/"+order.ID, admin, nil).Code)
		assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/rep/orders/"+order.ID, rep, nil).Code)
	})

	t.Run("stats count the submitted order once", func(t *testing.T) {
		rec := h.do(http.MethodGet, "/admin/stats/reps", admin, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var report struct {
			ActiveReps int `json:"active_reps"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		assert.Equal(t, 1, report.ActiveReps)
	})
}

func TestDrafts(t *testing.T) {
	h := newHarness(t)
	admin := h.login("admin", adminPassword)
	rep := h.newRep(admin, "rep1")

	rec := h.do(http.MethodPost, "/rep/orders", rep, map[string]any{"draft": true, "text_order": "10 علب"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	draft := decodeInto[domain.Order](t, rec)
	assert.Equal(t, domain.OrderStatusDraft, draft.Status)
	assert.Equal(t, domain.UnnamedCustomer, draft.CustomerName)

	t.Run("admins cannot see drafts", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/admin/orders/"+draft.ID, admin, nil).Code)
		assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/admin/orders?status=draft", admin, nil).Code)
	})

	t.Run("empty orders are rejected", func(t *testing.T) {
		rec := h.do(http.MethodPut, "/rep/orders/"+draft.ID, rep, map[string]any{})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("edit then send", func(t *testing.T) {
		rec := h.do(http.MethodPut, "/rep/orders/"+draft.ID, rep, map[string]any{"text_order": "20 علبة"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "20 علبة", decodeInto[domain.Order](t, rec).TextOrder)

		rec = h.do(http.MethodPost, "/rep/orders/"+draft.ID+"/send", rep, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, domain.OrderStatusPending, decodeInto[domain.Order](t, rec).Status)

		rec = h.do(http.MethodPut, "/rep/orders/"+draft.ID, rep, map[string]any{"text_order": "late"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("filters by status", func(t *testing.T) {
		list := decodeInto[[]domain.Order](t, h.do(http.MethodGet, "/rep/orders?status=pending", rep, nil))
		assert.Len(t, list, 1)
		assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/rep/orders?status=bogus", rep, nil).Code)
	})

	t.Run("other reps get 404", func(t *testing.T) {
		other := h.newRep(admin, "rep2")
		assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/rep/orders/"+draft.ID, other, nil).Code)
		assert.Equal(t, http.StatusNotFound, h.do(http.MethodPost, "/rep/orders/"+draft.ID+"/trash", other, nil).Code)
	})
}

func TestCustomers(t *testing.T) {
	h := newHarness(t)
	admin := h.login("admin", adminPassword)
	rep := h.newRep(admin, "rep1")
	other := h.newRep(admin, "rep2")

	rec := h.do(http.MethodPost, "/rep/customers", rep, map[string]string{"name": "Acme"})
	require.Equal(t, http.StatusCreated, rec.Code)
	c := decodeInto[domain.Customer](t, rec)

	t.Run("requires a name", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPost, "/rep/customers", rep, map[string]string{"phone": "0100000000"}).Code)
	})

	t.Run("reps only see their own", func(t *testing.T) {
		assert.Empty(t, decodeInto[[]domain.Customer](t, h.do(http.MethodGet, "/rep/customers", other, nil)))
		assert.Equal(t, http.StatusNotFound, h.do(http.MethodPatch, "/rep/customers/"+c.ID, other, map[string]string{"name": "x"}).Code)
		assert.Equal(t, http.StatusNotFound, h.do(http.MethodDelete, "/rep/customers/"+c.ID, other, nil).Code)
	})

	t.Run("admin sees all", func(t *testing.T) {
		assert.Len(t, decodeInto[[]domain.Customer](t, h.do(http.MethodGet, "/admin/customers", admin, nil)), 1)
	})

	t.Run("owner updates and deletes", func(t *testing.T) {
		rec := h.do(http.MethodPatch, "/rep/customers/"+c.ID, rep, map[string]string{"address": "Giza"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Giza", decodeInto[domain.Customer](t, rec).Address)
		assert.Equal(t, http.StatusNoContent, h.do(http.MethodDelete, "/rep/customers/"+c.ID, rep, nil).Code)
	})
}

func TestAdminUsersAndCatalog(t *testing.T) {
	h := newHarness(t)
	admin := h.login("admin", adminPassword)

	t.Run("duplicate username conflicts", func(t *testing.T) {
		body := map[string]any{"username": "dup", "password": "secret1", "role": "sales_rep"}
		h.createUser(admin, body)
		rec := h.do(http.MethodPost, "/admin/users", admin, body)
		if rec.Code != http.StatusConflict {
			t.Errorf("expected status 409, got %d", rec.Code)
		}
	})

	t.Run("validates fields", func(t *testing.T) {
		tests := map[string]map[string]any{
			"short password": {"username": "ok_name", "password": "123", "role": "sales_rep"},
			"bad role":       {"username": "ok_name", "password": "secret1", "role": "boss"},
			"bad permission": {"username": "ok_name", "password": "secret1", "role": "admin", "admin_permission": "all"},
			"bad username":   {"username": "a b", "password": "secret1", "role": "sales_rep"},
		}
		for name, body := range tests {
			t.Run(name, func(t *testing.T) {
				assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPost, "/admin/users", admin, body).Code)
			})
		}
	})

	t.Run("admins default to full permission", func(t *testing.T) {
		u := h.createUser(admin, map[string]any{"username": "second", "password": "secret1", "role": "admin"})
		assert.Equal(t, domain.PermissionFull, u.AdminPermission)
	})

	t.Run("deleting or disabling a user signs them out", func(t *testing.T) {
		h.createUser(admin, map[string]any{"username": "leaver", "password": "secret1", "role": "sales_rep"})
		disabled := h.createUser(admin, map[string]any{"username": "paused", "password": "secret1", "role": "sales_rep"})
		leaverToken := h.login("leaver", "secret1")
		pausedToken := h.login("paused", "secret1")
		leaver := decodeInto[domain.User](t, h.do(http.MethodGet, "/auth/me", leaverToken, nil))

		require.Equal(t, http.StatusNoContent, h.do(http.MethodDelete, "/admin/users/"+leaver.ID, admin, nil).Code)
		assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/auth/me", leaverToken, nil).Code)

		rec := h.do(http.MethodPatch, "/admin/users/"+disabled.ID, admin, map[string]any{"is_active": false})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/auth/me", pausedToken, nil).Code)

		assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/auth/me", admin, nil).Code, "other sessions survive")
	})

	t.Run("cannot delete self", func(t *testing.T) {
		me := decodeInto[domain.User](t, h.do(http.MethodGet, "/auth/me", admin, nil))
		assert.Equal(t, http.StatusBadRequest, h.do(http.MethodDelete, "/admin/users/"+me.ID, admin, nil).Code)
	})

	t.Run("group and product crud", func(t *testing.T) {
		rec := h.do(http.MethodPost, "/admin/groups", admin, map[string]string{"name": "أدوية"})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		group := decodeInto[domain.ProductGroup](t, rec)

		rec = h.do(http.MethodPost, "/admin/products", admin, map[string]any{
			"group_id": group.ID, "name": "شراب", "code": "X1", "price": "12.50", "unit": "زجاجة",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		product := decodeInto[domain.Product](t, rec)
		assert.True(t, decimal.RequireFromString("12.5").Equal(product.Price))

		rec = h.do(http.MethodPost, "/admin/products", admin, map[string]any{"group_id": "missing", "name": "x"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		rec = h.do(http.MethodPatch, "/admin/products/"+product.ID, admin, map[string]any{"price": "-1"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		rec = h.do(http.MethodPatch, "/admin/products/"+product.ID, admin, map[string]any{"price": "0.005"})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "sub-cent prices would be rounded by the database")

		list := decodeInto[[]domain.Product](t, h.do(http.MethodGet, "/catalog/products?group_id="+group.ID, admin, nil))
		assert.Len(t, list, 1)

		require.Equal(t, http.StatusNoContent, h.do(http.MethodDelete, "/admin/groups/"+group.ID, admin, nil).Code)
		list = decodeInto[[]domain.Product](t, h.do(http.MethodGet, "/catalog/products?group_id="+group.ID, admin, nil))
		assert.Empty(t, list)
	})
}

func TestWipe(t *testing.T) {
	h := newHarness(t)
	admin := h.login("admin", adminPassword)
	h.newRep(admin, "rep1")

	rec := h.do(http.MethodPost, "/admin/wipe", admin, map[string]string{"code": "1234"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}

	rec = h.do(http.MethodPost, "/admin/wipe", admin, map[string]string{"code": maintenance.ConfirmationCode})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/auth/me", admin, nil).Code)
	assert.Equal(t, http.StatusUnauthorized,
		h.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "rep1", "password": "rep-secret"}).Code)

	fresh := h.login("admin", adminPassword)
	users := decodeInto[[]domain.User](t, h.do(http.MethodGet, "/admin/users", fresh, nil))
	assert.Len(t, users, 1)
}
