package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/api/metrics"
	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

// ProductHandler serves the catalog. Writes take multipart forms so an image
// can travel with the product fields.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles GET /products.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Success      200  {object}  productsResponse
// @Router       /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	if products == nil {
		products = []*domain.Product{}
	}
	return c.JSON(http.StatusOK, productsResponse{Products: products})
}

// Get handles GET /products/:id.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  errorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	p, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productResponse{Product: p})
}

// Create handles POST /products.
//
// @Summary      Create a product
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        name         formData  string  true   "Name"
// @Param        description  formData  string  false  "Description"
// @Param        price        formData  number  true   "Price"
// @Param        category     formData  string  false  "Category"
// @Param        image        formData  file    false  "Product image"
// @Success      201          {object}  productResponse
// @Failure      400          {object}  errorResponse
// @Failure      401          {object}  errorResponse
// @Failure      403          {object}  errorResponse
// @Router       /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	params, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	in := ports.CreateProductInput{
		Name:        params.Get("name"),
		Description: params.Get("description"),
		Category:    params.Get("category"),
	}
	price, err := formPrice(params)
	if err != nil {
		return err
	}
	if price == nil {
		return fmt.Errorf("%w: price is required", domain.ErrInvalidInput)
	}
	in.Price = *price

	if in.Image, err = formImage(c, "image"); err != nil {
		return err
	}

	p, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	if in.Image != nil {
		metrics.ImageUploadsTotal.WithLabelValues("product").Inc()
	}
	return c.JSON(http.StatusCreated, productResponse{Product: p})
}

// Update handles PUT /products/:id. Omitted fields are left unchanged.
//
// @Summary      Update a product
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      string  true   "Product ID"
// @Param        name         formData  string  false  "Name"
// @Param        description  formData  string  false  "Description"
// @Param        price        formData  number  false  "Price"
// @Param        category     formData  string  false  "Category"
// @Param        image        formData  file    false  "Replacement image"
// @Success      200          {object}  productResponse
// @Failure      400          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	params, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	in := ports.UpdateProductInput{
		Name:        formOptional(params, "name"),
		Description: formOptional(params, "description"),
		Category:    formOptional(params, "category"),
	}
	if in.Price, err = formPrice(params); err != nil {
		return err
	}
	if in.Image, err = formImage(c, "image"); err != nil {
		return err
	}

	p, err := h.service.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	if in.Image != nil {
		metrics.ImageUploadsTotal.WithLabelValues("product").Inc()
	}
	return c.JSON(http.StatusOK, productResponse{Product: p})
}

// Delete handles DELETE /products/:id.
//
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "product removed"})
}

func formOptional(params url.Values, key string) *string {
	vs, ok := params[key]
	if !ok || len(vs) == 0 {
		return nil
	}
	v := vs[0]
	return &v
}

func formPrice(params url.Values) (*float64, error) {
	raw := formOptional(params, "price")
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(*raw), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: price must be a number", domain.ErrInvalidInput)
	}
	return &price, nil
}
