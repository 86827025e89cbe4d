// Package seed creates the data a fresh installation needs to be usable.
package seed

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/salesdesk/internal/domain"
	"github.com/joao-fontenele/salesdesk/internal/session"
	"github.com/joao-fontenele/salesdesk/internal/store"
)

const (
	DefaultAdminUsername = "admin"
	defaultAdminName     = "المدير العام"
	sampleUnit           = "علبة"
)

// sampleGroups holds the product prices of each sample group.
var sampleGroups = [][]int64{
	{100, 150, 200},
	{120, 180},
	{90, 110, 130},
	{250, 300, 350},
}

type Options struct {
	// AdminPassword is used for a newly created default admin. When empty a
	// random password is generated and logged once.
	AdminPassword string
	Catalog       bool
}

// EnsureDefaults creates the default admin when there are no users and the
// sample catalog when enabled and there are no groups. It is safe to run on
// every start.
func EnsureDefaults(ctx context.Context, st store.Store, opts Options, logger *slog.Logger) error {
	return st.WithinTx(ctx, func(tx store.Repos) error {
		if err := ensureAdmin(ctx, tx, opts.AdminPassword, logger); err != nil {
			return err
		}
		if opts.Catalog {
			return ensureCatalog(ctx, tx, logger)
		}
		return nil
	})
}

func ensureAdmin(ctx context.Context, tx store.Repos, password string, logger *slog.Logger) error {
	users, err := tx.Users().List(ctx)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}

	generated := password == ""
	if generated {
		if password, err = randomPassword(); err != nil {
			return err
		}
	}
	hash, err := session.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Username:        DefaultAdminUsername,
		PasswordHash:    hash,
		FullName:        defaultAdminName,
		Role:            domain.RoleAdmin,
		IsActive:        true,
		AdminPermission: domain.PermissionFull,
	}
	if err := tx.Users().Create(ctx, admin); err != nil {
		return fmt.Errorf("create default admin: %w", err)
	}

	if generated {
		logger.Warn("created default admin with a generated password",
			"username", DefaultAdminUsername, "password", password)
	} else {
		logger.Info("created default admin", "username", DefaultAdminUsername)
	}
	return nil
}

func ensureCatalog(ctx context.Context, tx store.Repos, logger *slog.Logger) error {
	groups, err := tx.ProductGroups().List(ctx)
	if err != nil {
		return err
	}
	if len(groups) > 0 {
		return nil
	}

	for gi, prices := range sampleGroups {
		group := &domain.ProductGroup{Name: fmt.Sprintf("مجموعة %d", gi+1)}
		if err := tx.ProductGroups().Create(ctx, group); err != nil {
			return err
		}
		for pi, price := range prices {
			product := &domain.Product{
				GroupID: group.ID,
				Name:    fmt.Sprintf("منتج %d-%d", gi+1, pi+1),
				Code:    fmt.Sprintf("P%d%02d", gi+1, pi+1),
				Price:   decimal.NewFromInt(price),
				Unit:    sampleUnit,
			}
			if err := tx.Products().Create(ctx, product); err != nil {
				return err
			}
		}
	}

	logger.Info("created sample catalog", "groups", len(sampleGroups))
	return nil
}

func randomPassword() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
