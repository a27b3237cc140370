package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a saree in the catalog.
// Products are never hard-deleted; IsActive=false hides them from every query.
type Product struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Name             string           `gorm:"size:255;not null"`
	Slug             string           `gorm:"size:255;uniqueIndex;not null"`
	Description      *string          `gorm:"type:text"`
	ShortDescription *string          `gorm:"type:text"`
	Price            decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	OriginalPrice    *decimal.Decimal `gorm:"type:decimal(10,2)"`
	CategoryID       *uuid.UUID       `gorm:"type:uuid;index"`
	Category         *Category        `gorm:"foreignKey:CategoryID"`
	Fabric           *string          `gorm:"size:100;index"`
	Occasion         *string          `gorm:"size:100;index"`
	Color            *string          `gorm:"size:50;index"`
	Size             *string          `gorm:"size:50"`
	Stock            int              `gorm:"not null;default:0;check:stock >= 0"`
	IsActive         bool             `gorm:"not null;index"`
	IsFeatured       bool             `gorm:"not null;default:false"`
	IsNew            bool             `gorm:"not null;default:false"`
	IsSale           bool             `gorm:"not null;default:false"`
	Rating           decimal.Decimal  `gorm:"type:decimal(3,2);not null;default:0"`
	ReviewCount      int              `gorm:"not null;default:0"`
	Tags             []string         `gorm:"type:text;serializer:json"`
	CareInstructions *string          `gorm:"type:text"`
	SizeGuide        *string          `gorm:"type:text"`
	Images           []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Reviews          []Review         `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time        `gorm:"index"`
	UpdatedAt        time.Time
}

func (p *Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PrimaryImage returns the lead image: the first flagged primary, else the
// lowest sort order. Images are expected in display order, but the choice does
// not depend on it.
func (p *Product) PrimaryImage() *ProductImage {
	var best *ProductImage
	for i := range p.Images {
		img := &p.Images[i]
		switch {
		case best == nil:
			best = img
		case img.IsPrimary && !best.IsPrimary:
			best = img
		case img.IsPrimary == best.IsPrimary && img.SortOrder < best.SortOrder:
			best = img
		}
	}
	return best
}

// ProductImage is a gallery image. SortOrder drives display order after the
// primary image.
type ProductImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	ImageURL  string    `gorm:"not null"`
	AltText   *string
	IsPrimary bool `gorm:"not null;default:false"`
	SortOrder int  `gorm:"not null;default:0"`
	CreatedAt time.Time
}

func (i *ProductImage) TableName() string {
	return "product_images"
}

func (i *ProductImage) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
