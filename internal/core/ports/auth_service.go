package ports

import (
	"context"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/pkg/token"
)

// ProfileUpdate is the self-service field set. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Password *string
}

// AuthResult pairs a user with a token reflecting that user's persisted state.
type AuthResult struct {
	Token string
	User  *domain.User
}

// AvatarResult is returned after a successful avatar upload.
type AvatarResult struct {
	ImageURL string
	AuthResult
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	AdminLogin(ctx context.Context, email, password string) (*AuthResult, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*AuthResult, error)
	UpdateAvatar(ctx context.Context, userID, filename string, data []byte) (*AvatarResult, error)
	Logout(ctx context.Context, claims *token.Claims) error
}
