package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Login(t *testing.T) {
	t.Run("stores the token for later calls", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/auth/login":
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.Header.Get("Content-Type") != "application/json" {
					t.Errorf("expected application/json, got %s", r.Header.Get("Content-Type"))
				}
				body, _ := io.ReadAll(r.Body)
				if string(body) != `{"password":"secret","username":"rep1"}` {
					t.Errorf("unexpected body: %s", body)
				}
				_, _ = w.Write([]byte(`{"token":"tok","user":{"id":"u1","username":"rep1","role":"sales_rep"}}`))
			case "/notifications/unread-count":
				if r.Header.Get("Authorization") != "Bearer tok" {
					t.Errorf("expected bearer token, got %q", r.Header.Get("Authorization"))
				}
				_, _ = w.Write([]byte(`{"count":3}`))
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		}))
		defer server.Close()

		c := New(server.URL+"/", server.Client())
		me, err := c.Login(context.Background(), "rep1", "secret")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if me.Role != "sales_rep" {
			t.Errorf("expected sales_rep, got %s", me.Role)
		}

		n, err := c.UnreadCount(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 3 {
			t.Errorf("expected 3, got %d", n)
		}
	})

	t.Run("surfaces the server error message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid credentials"}`))
		}))
		defer server.Close()

		_, err := New(server.URL, server.Client()).Login(context.Background(), "x", "y")
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.Status != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", apiErr.Status)
		}
		if apiErr.Message != "invalid credentials" {
			t.Errorf("expected 'invalid credentials', got %s", apiErr.Message)
		}
	})

	t.Run("returns transport errors", func(t *testing.T) {
		_, err := New("http://localhost:99999", &http.Client{}).Login(context.Background(), "x", "y")
		if err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestClient_Raw(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"pending":2}`))
	}))
	defer server.Close()

	raw, err := New(server.URL, server.Client()).Raw(context.Background(), "/admin/orders/summary")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != `{"pending":2}` {
		t.Errorf("unexpected body: %s", raw)
	}
}
