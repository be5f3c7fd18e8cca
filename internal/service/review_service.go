package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"marketplace/internal/auth"
	apperrors "marketplace/internal/errors"
	"marketplace/internal/logger"
	"marketplace/internal/metrics"
	"marketplace/internal/model"
	"marketplace/internal/repository"
)

// CreateReviewInput carries a new review.
type CreateReviewInput struct {
	Title  string `validate:"required,max=100"`
	Text   string `validate:"required,max=500"`
	Rating int    `validate:"required,min=1,max=5"`
	Photo  string `validate:"omitempty,max=255"`
}

// UpdateReviewInput carries review changes. Nil fields are left alone.
type UpdateReviewInput struct {
	Title  *string `validate:"omitempty,max=100"`
	Text   *string `validate:"omitempty,max=500"`
	Rating *int    `validate:"omitempty,min=1,max=5"`
	Photo  *string `validate:"omitempty,max=255"`
}

// ReviewService manages product reviews.
type ReviewService interface {
	List(ctx context.Context, filter repository.ReviewFilter) ([]model.Review, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Review, error)
	Create(ctx context.Context, productID uuid.UUID, in CreateReviewInput) (*model.Review, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateReviewInput) (*model.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type reviewService struct {
	reviews     repository.ReviewRepository
	products    repository.ProductRepository
	consistency *ConsistencyManager
	log         logger.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(reviews repository.ReviewRepository, products repository.ProductRepository, consistency *ConsistencyManager, log logger.Logger) ReviewService {
	return &reviewService{reviews: reviews, products: products, consistency: consistency, log: log}
}

func (s *reviewService) List(ctx context.Context, filter repository.ReviewFilter) ([]model.Review, error) {
	if filter.ProductID != nil {
		if _, err := s.products.FindByID(ctx, *filter.ProductID); err != nil {
			return nil, storeError(err, fmt.Sprintf("no product with the id of %s", *filter.ProductID), "find product")
		}
	}
	reviews, err := s.reviews.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal("list reviews", err)
	}
	return reviews, nil
}

func (s *reviewService) Get(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, fmt.Sprintf("no review found with the id of %s", id), "find review")
	}
	return review, nil
}

// Create posts the caller's review of a product. A second review of the same
// product by the same user fails with DuplicateReview.
func (s *reviewService) Create(ctx context.Context, productID uuid.UUID, in CreateReviewInput) (*model.Review, error) {
	ctx = context.WithoutCancel(ctx)
	p, err := auth.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireRole(p, model.RoleUser, model.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, storeError(err, fmt.Sprintf("no product with the id of %s", productID), "find product")
	}

	photo := in.Photo
	if photo == "" {
		photo = model.DefaultPhoto
	}
	review := &model.Review{
		ID:        uuid.New(),
		Title:     in.Title,
		Slug:      slug.Make(in.Title),
		Text:      in.Text,
		Rating:    in.Rating,
		Photo:     photo,
		ProductID: productID,
		UserID:    p.ID,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.DuplicateReview("you have already reviewed this product")
		}
		return nil, apperrors.Internal("create review", err)
	}
	if err := s.consistency.ReviewCreated(ctx, review); err != nil {
		return nil, err
	}

	metrics.ReviewsCreated.Inc()
	return review, nil
}

// Update changes a review. Only its author or an admin may do so; a rating
// change recomputes the product's average.
func (s *reviewService) Update(ctx context.Context, id uuid.UUID, in UpdateReviewInput) (*model.Review, error) {
	ctx = context.WithoutCancel(ctx)
	p, err := auth.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireRole(p, model.RoleUser, model.RoleAdmin); err != nil {
		return nil, err
	}
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwner(p, review.UserID, "update this review"); err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, apperrors.Validation("please add a title")
		}
		fields["title"] = *in.Title
		fields["slug"] = slug.Make(*in.Title)
	}
	if in.Text != nil {
		fields["text"] = *in.Text
	}
	if in.Photo != nil {
		fields["photo"] = *in.Photo
	}
	ratingChanged := in.Rating != nil && *in.Rating != review.Rating
	if ratingChanged {
		fields["rating"] = *in.Rating
	}
	if len(fields) == 0 {
		return review, nil
	}

	updated, err := s.reviews.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, storeError(err, fmt.Sprintf("no review found with the id of %s", id), "update review")
	}
	if ratingChanged {
		s.consistency.refreshAverageRating(ctx, updated.ProductID)
	}
	return updated, nil
}

// Delete removes a review. Only its author or an admin may do so.
func (s *reviewService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx = context.WithoutCancel(ctx)
	p, err := auth.Authenticated(ctx)
	if err != nil {
		return err
	}
	if err := auth.RequireRole(p, model.RoleUser, model.RoleAdmin); err != nil {
		return err
	}
	review, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.RequireOwner(p, review.UserID, "delete this review"); err != nil {
		return err
	}
	return s.consistency.DeleteReview(ctx, review)
}
