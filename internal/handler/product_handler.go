package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"marketplace/internal/repository"
	"marketplace/internal/service"
)

// ProductHandler handles product endpoints.
type ProductHandler struct {
	productService service.ProductService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// CreateProductRequest represents a new listing. Seller is only honoured for admins.
type CreateProductRequest struct {
	Title       string           `json:"title" validate:"required,max=50"`
	ProductType string           `json:"productType" validate:"required,max=50"`
	Description string           `json:"description" validate:"required,max=500"`
	Photo       string           `json:"photo" validate:"omitempty,max=255"`
	Price       *decimal.Decimal `json:"price" validate:"required" swaggertype:"number"`
	Seller      *uuid.UUID       `json:"seller" swaggertype:"string"`
}

// UpdateProductRequest represents listing changes.
type UpdateProductRequest struct {
	Title       *string          `json:"title" validate:"omitempty,max=50"`
	ProductType *string          `json:"productType" validate:"omitempty,max=50"`
	Description *string          `json:"description" validate:"omitempty,max=500"`
	Photo       *string          `json:"photo" validate:"omitempty,max=255"`
	Price       *decimal.Decimal `json:"price" swaggertype:"number"`
}

// ListProducts godoc
// @Summary List products
// @Tags products
// @Produce json
// @Param seller query string false "Filter by seller id"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} ListResponse
// @Router /products [get]
func (h *ProductHandler) ListProducts(c echo.Context) error {
	filter := repository.ProductFilter{Page: pageFromQuery(c)}
	if s := c.QueryParam("seller"); s != "" {
		sellerID, err := uuid.Parse(s)
		if err != nil {
			return sendList(c, []struct{}{})
		}
		filter.SellerID = &sellerID
	}

	products, err := h.productService.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return sendList(c, products)
}

// GetProduct godoc
// @Summary Get product by id
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} DataResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := paramID(c, "id", "product")
	if err != nil {
		return err
	}
	product, err := h.productService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return sendData(c, http.StatusOK, product)
}

// CreateProduct godoc
// @Summary Create product
// @Description Sellers may own at most 10 products; admins are not capped.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateProductRequest true "Product"
// @Success 201 {object} DataResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req CreateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.productService.Create(c.Request().Context(), service.CreateProductInput{
		Title:       req.Title,
		ProductType: req.ProductType,
		Description: req.Description,
		Photo:       req.Photo,
		Price:       *req.Price,
		SellerID:    req.Seller,
	})
	if err != nil {
		return err
	}
	return sendData(c, http.StatusCreated, product)
}

// UpdateProduct godoc
// @Summary Update product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body UpdateProductRequest true "Fields to change"
// @Success 200 {object} DataResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := paramID(c, "id", "product")
	if err != nil {
		return err
	}
	var req UpdateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.productService.Update(c.Request().Context(), id, service.UpdateProductInput{
		Title:       req.Title,
		ProductType: req.ProductType,
		Description: req.Description,
		Photo:       req.Photo,
		Price:       req.Price,
	})
	if err != nil {
		return err
	}
	return sendData(c, http.StatusOK, product)
}

// DeleteProduct godoc
// @Summary Delete product
// @Description Also deletes the product's reviews.
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} DataResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := paramID(c, "id", "product")
	if err != nil {
		return err
	}
	if err := h.productService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return sendData(c, http.StatusOK, struct{}{})
}
