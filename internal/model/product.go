package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultPhoto is used when a listing is created without a photo.
const DefaultPhoto = "no-photo.jpg"

// Product is a listing owned by a seller.
type Product struct {
	ID            uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Title         string          `json:"title" gorm:"size:50;not null"`
	Slug          string          `json:"slug" gorm:"size:64"`
	ProductType   string          `json:"product_type" gorm:"size:50;not null"`
	Description   string          `json:"description" gorm:"uniqueIndex;size:500;not null"`
	AverageRating *float64        `json:"average_rating,omitempty"`
	Photo         string          `json:"photo" gorm:"size:255;default:'no-photo.jpg'"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null;default:0"`
	SellerID      uuid.UUID       `json:"seller" gorm:"type:char(36);not null;index"`
	Reviews       IDList          `json:"reviews" gorm:"type:text"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
