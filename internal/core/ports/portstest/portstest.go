// Package portstest provides in-memory implementations of the core ports for
// use in tests.
package portstest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

var seq atomic.Uint64

// NewID returns a unique 24-character lowercase hex identifier shaped like an
// ObjectID. The fixed prefix keeps letters in every id.
func NewID() string {
	return fmt.Sprintf("65fa%020x", seq.Add(1))
}

// Users is an in-memory ports.UserRepository enforcing unique emails. Ids are
// matched case-insensitively, the way hex ObjectIDs are parsed.
type Users struct {
	mu    sync.Mutex
	byID  map[string]*domain.User
	order []string

	// Err, when set, is returned by every call.
	Err error
}

func NewUsers() *Users {
	return &Users{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (r *Users) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	c := cloneUser(user)
	if c.Role == "" {
		c.Role = domain.RoleUser
	}
	if !domain.ValidRole(c.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, c.Role)
	}
	c.ID = NewID()
	if c.AvatarURL == "" {
		c.AvatarURL = domain.DefaultAvatarURL
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	r.byID[c.ID] = c
	r.order = append(r.order, c.ID)
	return cloneUser(c), nil
}

func (r *Users) FindByID(_ context.Context, id string) (*domain.User, error) {
	id = strings.ToLower(id)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *Users) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *Users) Update(_ context.Context, id string, ch ports.UserChanges) (*domain.User, error) {
	id = strings.ToLower(id)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if ch.Email != nil {
		for _, other := range r.byID {
			if other.ID != id && other.Email == *ch.Email {
				return nil, domain.ErrEmailTaken
			}
		}
		u.Email = *ch.Email
	}
	if ch.Name != nil {
		u.Name = *ch.Name
	}
	if ch.PasswordHash != nil {
		u.PasswordHash = *ch.PasswordHash
	}
	if ch.AvatarURL != nil {
		u.AvatarURL = *ch.AvatarURL
	}
	if ch.AvatarBlobID != nil {
		u.AvatarBlobID = *ch.AvatarBlobID
	}
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

func (r *Users) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]*domain.User, 0, len(r.order))
	for _, id := range r.order {
		if u, ok := r.byID[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *Users) Delete(_ context.Context, id string) error {
	id = strings.ToLower(id)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

// SetRole changes a stored role directly, the way an operator would.
func (r *Users) SetRole(id, role string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		u.Role = role
	}
}

// Count returns the number of stored users.
func (r *Users) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// Orders is an in-memory ports.OrderRepository.
type Orders struct {
	mu     sync.Mutex
	orders []*domain.Order
}

func NewOrders() *Orders {
	return &Orders{}
}

func (r *Orders) Create(_ context.Context, o *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *o
	c.ID = NewID()
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	r.orders = append(r.orders, &c)
	out := c
	return &out, nil
}

func (r *Orders) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	m, err := r.ListByUsers(ctx, []string{userID})
	if err != nil {
		return nil, err
	}
	return m[userID], nil
}

func (r *Orders) ListByUsers(_ context.Context, userIDs []string) (map[string][]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		want[id] = true
	}
	out := make(map[string][]*domain.Order)
	for _, o := range r.orders {
		if want[o.UserID] {
			c := *o
			out[o.UserID] = append(out[o.UserID], &c)
		}
	}
	return out, nil
}

func (r *Orders) DeleteByUser(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.orders[:0]
	var removed int64
	for _, o := range r.orders {
		if o.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, o)
	}
	r.orders = kept
	return removed, nil
}

// CountFor returns how many orders reference userID.
func (r *Orders) CountFor(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, o := range r.orders {
		if o.UserID == userID {
			n++
		}
	}
	return n
}

// Products is an in-memory ports.ProductRepository.
type Products struct {
	mu   sync.Mutex
	byID map[string]*domain.Product
}

func NewProducts() *Products {
	return &Products{byID: make(map[string]*domain.Product)}
}

func (r *Products) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *p
	c.ID = NewID()
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	r.byID[c.ID] = &c
	out := c
	return &out, nil
}

func (r *Products) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	c := *p
	return &c, nil
}

func (r *Products) List(_ context.Context) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Product, 0, len(r.byID))
	for _, p := range r.byID {
		c := *p
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Products) Update(_ context.Context, id string, ch ports.ProductChanges) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	if ch.Name != nil {
		p.Name = *ch.Name
	}
	if ch.Description != nil {
		p.Description = *ch.Description
	}
	if ch.Price != nil {
		p.Price = *ch.Price
	}
	if ch.Category != nil {
		p.Category = *ch.Category
	}
	if ch.ImageURL != nil {
		p.ImageURL = *ch.ImageURL
	}
	if ch.ImageID != nil {
		p.ImageID = *ch.ImageID
	}
	p.UpdatedAt = time.Now().UTC()
	c := *p
	return &c, nil
}

func (r *Products) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.byID, id)
	return nil
}

type blob struct {
	contentType string
	data        []byte
}

// Blobs is an in-memory ports.BlobStore.
type Blobs struct {
	mu    sync.Mutex
	files map[string]blob

	// UploadErr, when set, is returned by Upload.
	UploadErr error
}

func NewBlobs() *Blobs {
	return &Blobs{files: make(map[string]blob)}
}

func (b *Blobs) Upload(_ context.Context, _ string, contentType string, data []byte) (ports.StoredBlob, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.UploadErr != nil {
		return ports.StoredBlob{}, b.UploadErr
	}
	id := NewID()
	b.files[id] = blob{contentType: contentType, data: append([]byte(nil), data...)}
	return ports.StoredBlob{ID: id, URL: "http://test.local/uploads/" + id}, nil
}

func (b *Blobs) Open(_ context.Context, id string) (io.ReadCloser, string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, ok := b.files[id]
	if !ok {
		return nil, "", domain.ErrBlobNotFound
	}
	return io.NopCloser(bytes.NewReader(f.data)), f.contentType, nil
}

func (b *Blobs) Delete(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.files[id]; !ok {
		return domain.ErrBlobNotFound
	}
	delete(b.files, id)
	return nil
}

// Has reports whether id is stored.
func (b *Blobs) Has(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.files[id]
	return ok
}

// Revocations is an in-memory ports.TokenRevoker.
type Revocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time

	// Err, when set, is returned by IsRevoked.
	Err error
}

func NewRevocations() *Revocations {
	return &Revocations{revoked: make(map[string]time.Time)}
}

func (r *Revocations) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[jti] = expiresAt
	return nil
}

func (r *Revocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	_, ok := r.revoked[jti]
	return ok, nil
}
