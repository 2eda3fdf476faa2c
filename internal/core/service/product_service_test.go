package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
	"github.com/storefront/storefront-api/internal/core/ports/portstest"
)

func newProductService() (*ProductService, *portstest.Products, *portstest.Blobs) {
	repo := portstest.NewProducts()
	blobs := portstest.NewBlobs()
	return NewProductService(repo, blobs, zerolog.Nop()), repo, blobs
}

func TestProductService_Create(t *testing.T) {
	svc, _, blobs := newProductService()

	p, err := svc.Create(context.Background(), ports.CreateProductInput{
		Name:     " Lamp ",
		Price:    19.5,
		Category: "home",
		Image:    &ports.ImageUpload{Filename: "lamp.png", Data: pngBytes},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Name != "Lamp" || p.Price != 19.5 {
		t.Fatalf("unexpected product %+v", p)
	}
	if p.ImageURL == "" || !blobs.Has(p.ImageID) {
		t.Fatalf("expected image stored, got %+v", p)
	}
}

func TestProductService_Create_Validation(t *testing.T) {
	svc, repo, _ := newProductService()

	if _, err := svc.Create(context.Background(), ports.CreateProductInput{Price: 1}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing name, got %v", err)
	}
	if _, err := svc.Create(context.Background(), ports.CreateProductInput{Name: "x", Price: -1}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative price, got %v", err)
	}
	if _, err := svc.Create(context.Background(), ports.CreateProductInput{
		Name:  "x",
		Image: &ports.ImageUpload{Filename: "a.txt", Data: []byte("hello")},
	}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for non-image, got %v", err)
	}
	list, _ := repo.List(context.Background())
	if len(list) != 0 {
		t.Fatalf("expected nothing stored, got %d", len(list))
	}
}

func TestProductService_Update_ReplacesImage(t *testing.T) {
	svc, _, blobs := newProductService()
	ctx := context.Background()

	p, _ := svc.Create(ctx, ports.CreateProductInput{
		Name:  "Chair",
		Price: 40,
		Image: &ports.ImageUpload{Filename: "a.png", Data: pngBytes},
	})
	oldImage := p.ImageID

	price := 35.0
	updated, err := svc.Update(ctx, p.ID, ports.UpdateProductInput{
		Price: &price,
		Image: &ports.ImageUpload{Filename: "b.png", Data: pngBytes},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price != 35 || updated.Name != "Chair" {
		t.Fatalf("unexpected product %+v", updated)
	}
	if blobs.Has(oldImage) {
		t.Fatalf("expected old image removed")
	}
	if !blobs.Has(updated.ImageID) {
		t.Fatalf("expected new image stored")
	}
}

func TestProductService_Update_NotFound(t *testing.T) {
	svc, _, _ := newProductService()
	name := "x"
	if _, err := svc.Update(context.Background(), "missing", ports.UpdateProductInput{Name: &name}); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductService_Delete(t *testing.T) {
	svc, _, blobs := newProductService()
	ctx := context.Background()
	p, _ := svc.Create(ctx, ports.CreateProductInput{
		Name:  "Desk",
		Image: &ports.ImageUpload{Filename: "d.png", Data: pngBytes},
	})

	if err := svc.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, p.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected product gone, got %v", err)
	}
	if blobs.Has(p.ImageID) {
		t.Fatalf("expected image removed with product")
	}
	if err := svc.Delete(ctx, p.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound on second delete, got %v", err)
	}
}
