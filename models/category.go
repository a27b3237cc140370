package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups products for browsing (e.g. "Banarasi", "Kanjivaram").
// The slug is unique and used in storefront URLs.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:100;not null"`
	Slug        string    `gorm:"size:100;uniqueIndex;not null"`
	Description *string   `gorm:"type:text"`
	ImageURL    *string
	IsActive    bool `gorm:"not null"`
	CreatedAt   time.Time
}

func (c *Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
