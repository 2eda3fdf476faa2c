package service

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// MaxImageSize is the largest accepted image upload.
const MaxImageSize = 5 << 20

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// detectImage sniffs data and returns its MIME type when it is an accepted image.
func detectImage(field string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, field)
	}
	if len(data) > MaxImageSize {
		return "", fmt.Errorf("%w: %s must be at most 5MB", domain.ErrInvalidInput, field)
	}
	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedImageTypes...) {
		return "", fmt.Errorf("%w: %s must be a JPEG, PNG, GIF or WEBP image", domain.ErrInvalidInput, field)
	}
	return mt.String(), nil
}
