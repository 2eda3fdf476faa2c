package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/core/ports"
)

// maxImageBytes mirrors the service-side limit; one extra byte is read so the
// service can tell an oversize file from one that is exactly at the limit.
const maxImageBytes = 5 << 20

// formImage reads the first multipart file found under fields. It returns
// (nil, nil) when the request carries none.
func formImage(c echo.Context, fields ...string) (*ports.ImageUpload, error) {
	for _, field := range fields {
		fh, err := c.FormFile(field)
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
				continue
			}
			return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form").SetInternal(err)
		}

		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload: %w", err)
		}
		data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload: %w", err)
		}
		return &ports.ImageUpload{Filename: fh.Filename, Data: data}, nil
	}
	return nil, nil
}
