package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/core/ports"
)

// UploadHandler streams stored images back to clients.
type UploadHandler struct {
	blobs ports.BlobStore
}

func NewUploadHandler(blobs ports.BlobStore) *UploadHandler {
	return &UploadHandler{blobs: blobs}
}

// Serve handles GET /uploads/:id.
//
// @Summary      Fetch an uploaded image
// @Tags         uploads
// @Produce      image/jpeg,image/png,image/gif,image/webp
// @Param        id   path  string  true  "Image ID"
// @Success      200  {file}  binary
// @Failure      404  {object}  errorResponse
// @Router       /uploads/{id} [get]
func (h *UploadHandler) Serve(c echo.Context) error {
	rc, contentType, err := h.blobs.Open(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	defer rc.Close()

	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400, immutable")
	return c.Stream(http.StatusOK, contentType, rc)
}
