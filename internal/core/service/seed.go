package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

// EnsureAdmin creates an admin account for email when none exists. An existing
// account is left untouched, including its role.
func EnsureAdmin(ctx context.Context, users ports.UserRepository, hasher ports.PasswordHasher, name, email, password string, logger zerolog.Logger) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}
	if err := validatePassword(password); err != nil {
		return fmt.Errorf("admin seed: %w", err)
	}

	if _, err := users.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	created, err := users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		AvatarURL:    domain.DefaultAvatarURL,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil
		}
		return err
	}
	logger.Info().Str("user_id", created.ID).Msg("admin account seeded")
	return nil
}
