package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
	"github.com/storefront/storefront-api/internal/pkg/token"
)

// AuthService implements registration, login and the self-service profile.
// Every operation that changes an identity field returns a freshly issued token.
type AuthService struct {
	users   ports.UserRepository
	hasher  ports.PasswordHasher
	tokens  ports.TokenIssuer
	revoker ports.TokenRevoker
	blobs   ports.BlobStore
	logger  zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	revoker ports.TokenRevoker,
	blobs ports.BlobStore,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		revoker: revoker,
		blobs:   blobs,
		logger:  logger,
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*ports.AuthResult, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s required", domain.ErrInvalidInput, joinFields(missing))
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		AvatarURL:    domain.DefaultAvatarURL,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Msg("user registered")
	return s.issue(created)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// AdminLogin is Login restricted to accounts whose stored role is admin.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		s.logger.Warn().Str("user_id", user.ID).Msg("admin login refused for non-admin account")
		return nil, domain.ErrForbidden
	}
	return s.issue(user)
}

func (s *AuthService) authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfile applies the provided fields only and re-issues a token from
// the persisted result.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ports.ProfileUpdate) (*ports.AuthResult, error) {
	var changes ports.UserChanges

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidInput)
		}
		changes.Name = &name
	}

	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email == "" {
			return nil, fmt.Errorf("%w: email cannot be empty", domain.ErrInvalidInput)
		}
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		existing, err := s.users.FindByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != userID:
			return nil, domain.ErrEmailTaken
		case err != nil && !errors.Is(err, domain.ErrUserNotFound):
			return nil, err
		}
		changes.Email = &email
	}

	if in.Password != nil {
		if *in.Password == "" {
			return nil, fmt.Errorf("%w: password cannot be empty", domain.ErrInvalidInput)
		}
		if err := validatePassword(*in.Password); err != nil {
			return nil, err
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		changes.PasswordHash = &hash
	}

	var (
		user *domain.User
		err  error
	)
	if changes.Empty() {
		user, err = s.users.FindByID(ctx, userID)
	} else {
		user, err = s.users.Update(ctx, userID, changes)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Bool("name", changes.Name != nil).
		Bool("email", changes.Email != nil).
		Bool("password", changes.PasswordHash != nil).
		Msg("profile updated")
	return s.issue(user)
}

// UpdateAvatar stores a new profile image and points the account at it. The
// previous uploaded image, if any, is removed best-effort.
func (s *AuthService) UpdateAvatar(ctx context.Context, userID, filename string, data []byte) (*ports.AvatarResult, error) {
	contentType, err := detectImage("image", data)
	if err != nil {
		return nil, err
	}

	current, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	blob, err := s.blobs.Upload(ctx, filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("store avatar: %w", err)
	}

	user, err := s.users.Update(ctx, userID, ports.UserChanges{
		AvatarURL:    &blob.URL,
		AvatarBlobID: &blob.ID,
	})
	if err != nil {
		s.discardBlob(ctx, blob.ID)
		return nil, err
	}

	if current.AvatarBlobID != "" && current.AvatarBlobID != blob.ID {
		s.discardBlob(ctx, current.AvatarBlobID)
	}

	res, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", user.ID).Str("blob_id", blob.ID).Msg("avatar updated")
	return &ports.AvatarResult{ImageURL: blob.URL, AuthResult: *res}, nil
}

// Logout deny-lists the presented token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims *token.Claims) error {
	if claims == nil || claims.ID == "" {
		return domain.ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", claims.UserID).Str("jti", claims.ID).Msg("token revoked")
	return nil
}

func (s *AuthService) issue(user *domain.User) (*ports.AuthResult, error) {
	signed, _, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &ports.AuthResult{Token: signed, User: user}, nil
}

func (s *AuthService) discardBlob(ctx context.Context, id string) {
	if err := s.blobs.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrBlobNotFound) {
		s.logger.Warn().Err(err).Str("blob_id", id).Msg("failed to delete image")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return fmt.Errorf("%w: email must be a valid email", domain.ErrInvalidInput)
	}
	return nil
}

// maxPasswordBytes is the longest input bcrypt will hash.
const maxPasswordBytes = 72

func validatePassword(password string) error {
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", domain.ErrInvalidInput, maxPasswordBytes)
	}
	return nil
}

func joinFields(fields []string) string {
	if len(fields) == 1 {
		return fields[0] + " is"
	}
	return strings.Join(fields[:len(fields)-1], ", ") + " and " + fields[len(fields)-1] + " are"
}
