package ports

import (
	"context"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// UserChanges carries the fields of a partial user update. Nil fields are
// left untouched. Role is deliberately absent.
type UserChanges struct {
	Name         *string
	Email        *string
	PasswordHash *string
	AvatarURL    *string
	AvatarBlobID *string
}

// Empty reports whether no field is set.
func (c UserChanges) Empty() bool {
	return c.Name == nil && c.Email == nil && c.PasswordHash == nil && c.AvatarURL == nil && c.AvatarBlobID == nil
}

// UserRepository is the credential store. Email is unique across users.
type UserRepository interface {
	// Create inserts a user and returns it with ID and timestamps populated.
	// Returns domain.ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Update applies changes atomically and returns the post-update record.
	Update(ctx context.Context, id string, changes UserChanges) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Delete(ctx context.Context, id string) error
}
