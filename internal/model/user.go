package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered marketplace account.
type User struct {
	ID                  uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Name                string     `json:"name" gorm:"size:50;not null"`
	Slug                string     `json:"slug" gorm:"size:64"`
	Email               string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Phone               *string    `json:"phone,omitempty" gorm:"uniqueIndex;size:20"`
	PasswordHash        string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role                Role       `json:"role" gorm:"size:20;not null;default:'user'"`
	Products            IDList     `json:"products" gorm:"type:text"`
	Reviews             IDList     `json:"reviews" gorm:"type:text"`
	ResetPasswordToken  *string    `json:"-" gorm:"size:64;index"`
	ResetPasswordExpire *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
