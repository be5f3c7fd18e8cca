package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"marketplace/internal/repository"
	"marketplace/internal/service"
)

// ReviewHandler handles review endpoints.
type ReviewHandler struct {
	reviewService service.ReviewService
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// CreateReviewRequest represents a new review.
type CreateReviewRequest struct {
	Title  string `json:"title" validate:"required,max=100"`
	Text   string `json:"text" validate:"required,max=500"`
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Photo  string `json:"photo" validate:"omitempty,max=255"`
}

// UpdateReviewRequest represents review changes.
type UpdateReviewRequest struct {
	Title  *string `json:"title" validate:"omitempty,max=100"`
	Text   *string `json:"text" validate:"omitempty,max=500"`
	Rating *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Photo  *string `json:"photo" validate:"omitempty,max=255"`
}

// ListReviews godoc
// @Summary List reviews
// @Tags reviews
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} ListResponse
// @Router /reviews [get]
func (h *ReviewHandler) ListReviews(c echo.Context) error {
	reviews, err := h.reviewService.List(c.Request().Context(), repository.ReviewFilter{Page: pageFromQuery(c), WithProduct: true})
	if err != nil {
		return err
	}
	return sendList(c, reviews)
}

// ListProductReviews godoc
// @Summary List reviews of a product
// @Tags reviews
// @Produce json
// @Param id path string true "Product ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} ListResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id}/reviews [get]
func (h *ReviewHandler) ListProductReviews(c echo.Context) error {
	productID, err := paramID(c, "id", "product")
	if err != nil {
		return err
	}
	reviews, err := h.reviewService.List(c.Request().Context(), repository.ReviewFilter{
		ProductID: &productID,
		Page:      pageFromQuery(c),
	})
	if err != nil {
		return err
	}
	return sendList(c, reviews)
}

// GetReview godoc
// @Summary Get review by id
// @Tags reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} DataResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reviews/{id} [get]
func (h *ReviewHandler) GetReview(c echo.Context) error {
	id, err := paramID(c, "id", "review")
	if err != nil {
		return err
	}
	review, err := h.reviewService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return sendData(c, http.StatusOK, review)
}

// CreateReview godoc
// @Summary Review a product
// @Description One review per user and product.
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body CreateReviewRequest true "Review"
// @Success 201 {object} DataResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /products/{id}/reviews [post]
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	productID, err := paramID(c, "id", "product")
	if err != nil {
		return err
	}
	var req CreateReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	review, err := h.reviewService.Create(c.Request().Context(), productID, service.CreateReviewInput{
		Title:  req.Title,
		Text:   req.Text,
		Rating: req.Rating,
		Photo:  req.Photo,
	})
	if err != nil {
		return err
	}
	return sendData(c, http.StatusCreated, review)
}

// UpdateReview godoc
// @Summary Update review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Param request body UpdateReviewRequest true "Fields to change"
// @Success 200 {object} DataResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reviews/{id} [put]
func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	id, err := paramID(c, "id", "review")
	if err != nil {
		return err
	}
	var req UpdateReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	review, err := h.reviewService.Update(c.Request().Context(), id, service.UpdateReviewInput{
		Title:  req.Title,
		Text:   req.Text,
		Rating: req.Rating,
		Photo:  req.Photo,
	})
	if err != nil {
		return err
	}
	return sendData(c, http.StatusOK, review)
}

// DeleteReview godoc
// @Summary Delete review
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} DataResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	id, err := paramID(c, "id", "review")
	if err != nil {
		return err
	}
	if err := h.reviewService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return sendData(c, http.StatusOK, struct{}{})
}
