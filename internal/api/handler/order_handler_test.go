package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

type stubOrderService struct {
	createFn func(ctx context.Context, in ports.CreateOrderInput) (*domain.Order, error)
}

func (s *stubOrderService) Create(ctx context.Context, in ports.CreateOrderInput) (*domain.Order, error) {
	return s.createFn(ctx, in)
}

func (s *stubOrderService) ListMine(ctx context.Context, userID string) ([]*domain.Order, error) {
	return []*domain.Order{}, nil
}

func TestOrderHandler_Create(t *testing.T) {
	e := newTestEcho()
	stub := &stubOrderService{
		createFn: func(ctx context.Context, in ports.CreateOrderInput) (*domain.Order, error) {
			if in.UserID != "u1" {
				t.Fatalf("expected order owner from context, got %q", in.UserID)
			}
			if len(in.Items) != 1 || in.Items[0].ProductID != "p1" || in.Items[0].Quantity != 2 {
				t.Fatalf("unexpected items: %+v", in.Items)
			}
			if in.ShippingAddress.City != "Lima" {
				t.Fatalf("unexpected address: %+v", in.ShippingAddress)
			}
			return &domain.Order{ID: "o1", UserID: in.UserID}, nil
		},
	}
	handler := NewOrderHandler(stub)

	c, rec := jsonContext(e, http.MethodPost, "/orders",
		`{"user_id":"someone-else","items":[{"product_id":"p1","quantity":2}],"shipping_address":{"city":"Lima"},"total_amount":10}`)
	c.Set("user", &domain.User{ID: "u1"})

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestOrderHandler_Create_EmptyItems(t *testing.T) {
	e := newTestEcho()
	stub := &stubOrderService{
		createFn: func(ctx context.Context, in ports.CreateOrderInput) (*domain.Order, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewOrderHandler(stub)

	c, _ := jsonContext(e, http.MethodPost, "/orders", `{"items":[]}`)
	c.Set("user", &domain.User{ID: "u1"})
	expectHTTPError(t, handler.Create(c), http.StatusBadRequest)
}
