package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID          uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID             string    `gorm:"not null;index"`
	Rating             int       `gorm:"not null;check:rating BETWEEN 1 AND 5"`
	Title              *string   `gorm:"size:255"`
	Comment            *string   `gorm:"type:text"`
	IsVerifiedPurchase bool      `gorm:"not null;default:false"`
	HelpfulCount       int       `gorm:"not null;default:0"`
	CreatedAt          time.Time `gorm:"index"`
}

func (r *Review) TableName() string {
	return "reviews"
}

func (r *Review) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
