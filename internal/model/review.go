package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a rating left by a user on a product. At most one per (product, user).
type Review struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Title     string    `json:"title" gorm:"size:100;not null"`
	Slug      string    `json:"slug" gorm:"size:128"`
	Text      string    `json:"text" gorm:"size:500;not null"`
	Rating    int       `json:"rating" gorm:"not null"`
	Photo     string    `json:"photo" gorm:"size:255;default:'no-photo.jpg'"`
	ProductID uuid.UUID `json:"product" gorm:"type:char(36);not null;uniqueIndex:idx_review_product_user"`
	UserID    uuid.UUID `json:"user" gorm:"type:char(36);not null;uniqueIndex:idx_review_product_user;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// ProductInfo is filled by listings that join the parent product. When
	// set, it replaces the bare id under "product" in JSON.
	ProductInfo *ProductSummary `json:"-" gorm:"-"`
}

// ProductSummary is the slice of a product embedded in review listings.
type ProductSummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

func (r Review) MarshalJSON() ([]byte, error) {
	type plain Review
	if r.ProductInfo == nil {
		return json.Marshal(plain(r))
	}
	return json.Marshal(struct {
		plain
		Product *ProductSummary `json:"product"`
	}{plain: plain(r), Product: r.ProductInfo})
}

// BeforeCreate sets UUID before creating the record.
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
