package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

type ProductService struct {
	repo   ports.ProductRepository
	blobs  ports.BlobStore
	logger zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, blobs ports.BlobStore, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, blobs: blobs, logger: logger}
}

func (s *ProductService) Create(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price must be zero or greater", domain.ErrInvalidInput)
	}

	p := &domain.Product{
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
	}
	if in.Image != nil {
		blob, err := s.storeImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		p.ImageURL, p.ImageID = blob.URL, blob.ID
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		if p.ImageID != "" {
			s.discard(ctx, p.ImageID)
		}
		return nil, err
	}
	s.logger.Info().Str("product_id", created.ID).Msg("product created")
	return created, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

// Update applies the provided fields. A new image replaces the stored one.
func (s *ProductService) Update(ctx context.Context, id string, in ports.UpdateProductInput) (*domain.Product, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := ports.ProductChanges{
		Description: in.Description,
		Category:    in.Category,
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidInput)
		}
		changes.Name = &name
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, fmt.Errorf("%w: price must be zero or greater", domain.ErrInvalidInput)
		}
		changes.Price = in.Price
	}
	if in.Image != nil {
		blob, err := s.storeImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		changes.ImageURL, changes.ImageID = &blob.URL, &blob.ID
	}

	updated, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		if changes.ImageID != nil {
			s.discard(ctx, *changes.ImageID)
		}
		return nil, err
	}
	if changes.ImageID != nil && current.ImageID != "" {
		s.discard(ctx, current.ImageID)
	}
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if current.ImageID != "" {
		s.discard(ctx, current.ImageID)
	}
	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

func (s *ProductService) storeImage(ctx context.Context, img *ports.ImageUpload) (ports.StoredBlob, error) {
	contentType, err := detectImage("image", img.Data)
	if err != nil {
		return ports.StoredBlob{}, err
	}
	blob, err := s.blobs.Upload(ctx, img.Filename, contentType, img.Data)
	if err != nil {
		return ports.StoredBlob{}, fmt.Errorf("store product image: %w", err)
	}
	return blob, nil
}

func (s *ProductService) discard(ctx context.Context, blobID string) {
	if err := s.blobs.Delete(ctx, blobID); err != nil && !errors.Is(err, domain.ErrBlobNotFound) {
		s.logger.Warn().Err(err).Str("blob_id", blobID).Msg("failed to delete image")
	}
}
