package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

type stubProductService struct {
	createFn func(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error)
	updateFn func(ctx context.Context, id string, in ports.UpdateProductInput) (*domain.Product, error)
	listFn   func(ctx context.Context) ([]*domain.Product, error)
}

func (s *stubProductService) Create(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error) {
	return s.createFn(ctx, in)
}

func (s *stubProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return nil, domain.ErrProductNotFound
}

func (s *stubProductService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.listFn(ctx)
}

func (s *stubProductService) Update(ctx context.Context, id string, in ports.UpdateProductInput) (*domain.Product, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubProductService) Delete(ctx context.Context, id string) error {
	return nil
}

func formContext(e *echo.Echo, method, target string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestProductHandler_Create(t *testing.T) {
	e := newTestEcho()
	stub := &stubProductService{
		createFn: func(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error) {
			if in.Name != "Lamp" || in.Price != 12.5 || in.Category != "home" || in.Image != nil {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Product{ID: "p1", Name: in.Name, Price: in.Price}, nil
		},
	}
	handler := NewProductHandler(stub)

	c, rec := formContext(e, http.MethodPost, "/products", url.Values{
		"name": {"Lamp"}, "price": {"12.5"}, "category": {"home"},
	})
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp productResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Product == nil || resp.Product.ID != "p1" {
		t.Fatalf("unexpected response: %s", rec.Body.String())
	}
}

func TestProductHandler_Create_BadPrice(t *testing.T) {
	e := newTestEcho()
	handler := NewProductHandler(&stubProductService{})

	c, _ := formContext(e, http.MethodPost, "/products", url.Values{"name": {"Lamp"}, "price": {"cheap"}})
	if err := handler.Create(c); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	c, _ = formContext(e, http.MethodPost, "/products", url.Values{"name": {"Lamp"}})
	if err := handler.Create(c); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing price, got %v", err)
	}
}

func TestProductHandler_Update_OnlySentFields(t *testing.T) {
	e := newTestEcho()
	stub := &stubProductService{
		updateFn: func(ctx context.Context, id string, in ports.UpdateProductInput) (*domain.Product, error) {
			if id != "p1" {
				t.Fatalf("unexpected id %q", id)
			}
			if in.Description == nil || *in.Description != "" {
				t.Fatalf("expected explicit empty description, got %+v", in.Description)
			}
			if in.Name != nil || in.Price != nil || in.Category != nil || in.Image != nil {
				t.Fatalf("expected other fields nil: %+v", in)
			}
			return &domain.Product{ID: id}, nil
		},
	}
	handler := NewProductHandler(stub)

	c, rec := formContext(e, http.MethodPut, "/products/p1", url.Values{"description": {""}})
	c.SetParamNames("id")
	c.SetParamValues("p1")
	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProductHandler_List_Empty(t *testing.T) {
	e := newTestEcho()
	stub := &stubProductService{
		listFn: func(ctx context.Context) ([]*domain.Product, error) { return nil, nil },
	}
	handler := NewProductHandler(stub)

	c, rec := jsonContext(e, http.MethodGet, "/products", "")
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"products":[]`) {
		t.Fatalf("expected empty products array, got %s", rec.Body.String())
	}
}
