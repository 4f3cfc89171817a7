// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielhkuo/vivendo-na-fe/auth"
	"github.com/danielhkuo/vivendo-na-fe/models"
)

const adminColumns = `id, username, password_hash, name, role, is_active, created_at`

func scanAdmin(row scanner) (models.AdminUser, error) {
	var a models.AdminUser
	err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Name, &a.Role, &a.IsActive, &a.CreatedAt)
	return a, err
}

// UpsertAdmin creates the account or resets its password, name and role.
// Returns the stored account.
func (s *Store) UpsertAdmin(ctx context.Context, username, name, passwordHash string) (models.AdminUser, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_users (`+adminColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (username) DO UPDATE
		SET password_hash = excluded.password_hash,
		    name = excluded.name,
		    role = excluded.role,
		    is_active = excluded.is_active
	`, auth.NewID(), username, passwordHash, name, models.RoleAdmin, true, s.now())
	if err != nil {
		return models.AdminUser{}, fmt.Errorf("failed to upsert admin: %w", err)
	}
	return s.FindAdminByUsername(ctx, username)
}

func (s *Store) FindAdminByUsername(ctx context.Context, username string) (models.AdminUser, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admin_users WHERE username = $1`, username)
	a, err := scanAdmin(row)
	return a, notFound(err)
}

func (s *Store) GetAdmin(ctx context.Context, id string) (models.AdminUser, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admin_users WHERE id = $1`, id)
	a, err := scanAdmin(row)
	return a, notFound(err)
}

// IsAdmin reports whether the account exists, is active and holds the admin role
func (s *Store) IsAdmin(ctx context.Context, id string) (bool, error) {
	a, err := s.GetAdmin(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return a.IsActive && a.Role == models.RoleAdmin, nil
}
