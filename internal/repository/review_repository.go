package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketplace/internal/model"
)

// ReviewFilter narrows review listings.
type ReviewFilter struct {
	ProductID *uuid.UUID
	UserID    *uuid.UUID
	Page      Page
	// WithProduct attaches each review's product title and description.
	WithProduct bool
}

// ReviewRepository defines review persistence operations.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	List(ctx context.Context, filter ReviewFilter) ([]model.Review, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByProduct(ctx context.Context, productID uuid.UUID) error
	DeleteAll(ctx context.Context) error
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) List(ctx context.Context, filter ReviewFilter) ([]model.Review, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	var reviews []model.Review
	if err := filter.Page.apply(q).Find(&reviews).Error; err != nil {
		return nil, err
	}
	if filter.WithProduct {
		if err := r.attachProducts(ctx, reviews); err != nil {
			return nil, err
		}
	}
	return reviews, nil
}

func (r *reviewRepository) attachProducts(ctx context.Context, reviews []model.Review) error {
	if len(reviews) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(reviews))
	seen := make(map[uuid.UUID]bool, len(reviews))
	for _, rv := range reviews {
		if !seen[rv.ProductID] {
			seen[rv.ProductID] = true
			ids = append(ids, rv.ProductID)
		}
	}

	var summaries []model.ProductSummary
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select("id", "title", "description").
		Where("id IN ?", ids).
		Find(&summaries).Error
	if err != nil {
		return err
	}

	byID := make(map[uuid.UUID]*model.ProductSummary, len(summaries))
	for i := range summaries {
		byID[summaries[i].ID] = &summaries[i]
	}
	for i := range reviews {
		reviews[i].ProductInfo = byID[reviews[i].ProductID]
	}
	return nil
}

func (r *reviewRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Review, error) {
	if err := r.db.WithContext(ctx).Model(&model.Review{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Review{}).Error
}

func (r *reviewRepository) DeleteByProduct(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&model.Review{}).Error
}

func (r *reviewRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Review{}).Error
}
