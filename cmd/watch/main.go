// Command watch signs in to salesdesk and prints notifications and order
// changes as they happen, by polling the API.
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/joao-fontenele/salesdesk/internal/changes"
	"github.com/joao-fontenele/salesdesk/internal/client"
	"github.com/joao-fontenele/salesdesk/internal/domain"
)

func main() {
	_ = godotenv.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	baseURL := flag.String("url", "http://localhost:8080", "salesdesk API base URL")
	username := flag.String("username", os.Getenv("SALESDESK_USERNAME"), "account to sign in as")
	interval := flag.Duration("interval", 5*time.Second, "poll interval")
	flag.Parse()

	password := os.Getenv("SALESDESK_PASSWORD")
	if *username == "" || password == "" {
		logger.Error("username flag and SALESDESK_PASSWORD are required")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	api := client.New(*baseURL, &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
	me, err := api.Login(ctx, *username, password)
	if err != nil {
		logger.Error("login failed", "error", err)
		os.Exit(1)
	}
	logger.Info("signed in", "username", me.Username, "role", me.Role)

	ordersPath := "/rep/orders"
	if me.Role == string(domain.RoleAdmin) {
		ordersPath = "/admin/orders/summary"
	}

	poller := changes.NewPoller(*interval, logger)
	poller.Register(domain.EntityNotifications, func(ctx context.Context) (string, error) {
		n, err := api.UnreadCount(ctx)
		return strconv.Itoa(n), err
	})
	poller.Register(domain.EntityOrders, func(ctx context.Context) (string, error) {
		body, err := api.Raw(ctx, ordersPath)
		if err != nil {
			return "", err
		}
		sum := sha256.Sum256(body)
		return hex.EncodeToString(sum[:]), nil
	})

	err = poller.OnChange(ctx, domain.EntityNotifications, func(ctx context.Context, _ domain.ChangeEvent) {
		list, err := api.Notifications(ctx)
		if err != nil {
			logger.Warn("failed to fetch notifications", "error", err)
			return
		}
		printUnread(list)
	})
	if err != nil {
		logger.Error("failed to watch notifications", "error", err)
		os.Exit(1)
	}

	// The first event is the initial fetch, not a change.
	first := true
	err = poller.OnChange(ctx, domain.EntityOrders, func(ctx context.Context, ev domain.ChangeEvent) {
		if first {
			first = false
			return
		}
		fmt.Printf("%s  orders changed\n", ev.Timestamp.Format(time.TimeOnly))
		// A change of orders usually comes with a notification.
		poller.Refresh(domain.EntityNotifications)
	})
	if err != nil {
		logger.Error("failed to watch orders", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
}

func printUnread(list []client.Notification) {
	unread := 0
	for _, n := range list {
		if !n.IsRead {
			unread++
		}
	}
	fmt.Printf("%d unread notifications\n", unread)
	for _, n := range list {
		if !n.IsRead {
			fmt.Printf("  • %s\n", n.Message)
		}
	}
}
