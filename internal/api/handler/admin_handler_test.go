package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

type stubAdminService struct {
	listFn   func(ctx context.Context) ([]ports.UserWithOrders, error)
	deleteFn func(ctx context.Context, requesterID, targetID string) (*domain.User, error)
}

func (s *stubAdminService) ListUsersWithOrders(ctx context.Context) ([]ports.UserWithOrders, error) {
	return s.listFn(ctx)
}

func (s *stubAdminService) DeleteUser(ctx context.Context, requesterID, targetID string) (*domain.User, error) {
	return s.deleteFn(ctx, requesterID, targetID)
}

func TestAdminHandler_ListUsers(t *testing.T) {
	e := newTestEcho()
	stub := &stubAdminService{
		listFn: func(ctx context.Context) ([]ports.UserWithOrders, error) {
			return []ports.UserWithOrders{
				{User: &domain.User{ID: "u1", Name: "Alice"}, Orders: []*domain.Order{{ID: "o1", UserID: "u1"}}},
				{User: &domain.User{ID: "u2", Name: "Bob"}, Orders: []*domain.Order{}},
			}, nil
		},
	}
	handler := NewAdminHandler(stub)

	c, rec := jsonContext(e, http.MethodGet, "/admin/users", "")
	if err := handler.ListUsers(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Users []struct {
			ID     string            `json:"id"`
			Name   string            `json:"name"`
			Orders []json.RawMessage `json:"orders"`
		} `json:"users"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(resp.Users))
	}
	if resp.Users[0].ID != "u1" || len(resp.Users[0].Orders) != 1 {
		t.Fatalf("expected user fields flattened with orders: %s", rec.Body.String())
	}
	if resp.Users[1].Orders == nil {
		t.Fatalf("expected empty orders array, got null: %s", rec.Body.String())
	}
}

func TestAdminHandler_DeleteUser(t *testing.T) {
	e := newTestEcho()
	stub := &stubAdminService{
		deleteFn: func(ctx context.Context, requesterID, targetID string) (*domain.User, error) {
			if requesterID != "admin1" || targetID != "u2" {
				t.Fatalf("unexpected ids: %s %s", requesterID, targetID)
			}
			return &domain.User{ID: targetID}, nil
		},
	}
	handler := NewAdminHandler(stub)

	c, rec := jsonContext(e, http.MethodDelete, "/admin/users/u2", "")
	c.SetParamNames("id")
	c.SetParamValues("u2")
	c.Set("user", &domain.User{ID: "admin1", Role: domain.RoleAdmin})

	if err := handler.DeleteUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAdminHandler_DeleteUser_Self(t *testing.T) {
	e := newTestEcho()
	stub := &stubAdminService{
		deleteFn: func(ctx context.Context, requesterID, targetID string) (*domain.User, error) {
			return nil, domain.ErrSelfDelete
		},
	}
	handler := NewAdminHandler(stub)

	c, _ := jsonContext(e, http.MethodDelete, "/admin/users/admin1", "")
	c.SetParamNames("id")
	c.SetParamValues("admin1")
	c.Set("user", &domain.User{ID: "admin1", Role: domain.RoleAdmin})

	if err := handler.DeleteUser(c); !errors.Is(err, domain.ErrSelfDelete) {
		t.Fatalf("expected ErrSelfDelete, got %v", err)
	}
}
