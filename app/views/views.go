// Package views holds the JSON shapes returned by the API. Money is always a
// string with two decimals.
package views

import (
	"time"

	"github.com/google/uuid"
	"github.com/sareeghar/storefront/models"
	"github.com/sareeghar/storefront/pricing"
	"github.com/shopspring/decimal"
)

func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func optionalMoney(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := Money(*d)
	return &s
}

type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
}

func NewCategory(c models.Category) Category {
	return Category{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ImageURL:    c.ImageURL,
	}
}

type Image struct {
	ID        uuid.UUID `json:"id"`
	ImageURL  string    `json:"imageUrl"`
	AltText   *string   `json:"altText,omitempty"`
	IsPrimary bool      `json:"isPrimary"`
	SortOrder int       `json:"sortOrder"`
}

type Product struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Slug             string     `json:"slug"`
	Description      *string    `json:"description,omitempty"`
	ShortDescription *string    `json:"shortDescription,omitempty"`
	Price            string     `json:"price"`
	OriginalPrice    *string    `json:"originalPrice,omitempty"`
	CategoryID       *uuid.UUID `json:"categoryId,omitempty"`
	Category         *Category  `json:"category,omitempty"`
	Fabric           *string    `json:"fabric,omitempty"`
	Occasion         *string    `json:"occasion,omitempty"`
	Color            *string    `json:"color,omitempty"`
	Size             *string    `json:"size,omitempty"`
	Stock            int        `json:"stock"`
	IsFeatured       bool       `json:"isFeatured"`
	IsNew            bool       `json:"isNew"`
	IsSale           bool       `json:"isSale"`
	Rating           string     `json:"rating"`
	ReviewCount      int        `json:"reviewCount"`
	Tags             []string   `json:"tags"`
	CareInstructions *string    `json:"careInstructions,omitempty"`
	SizeGuide        *string    `json:"sizeGuide,omitempty"`
	PrimaryImage     *string    `json:"primaryImage,omitempty"`
	Images           []Image    `json:"images"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func NewProduct(p models.Product) Product {
	out := Product{
		ID:               p.ID,
		Name:             p.Name,
		Slug:             p.Slug,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		Price:            Money(p.Price),
		OriginalPrice:    optionalMoney(p.OriginalPrice),
		CategoryID:       p.CategoryID,
		Fabric:           p.Fabric,
		Occasion:         p.Occasion,
		Color:            p.Color,
		Size:             p.Size,
		Stock:            p.Stock,
		IsFeatured:       p.IsFeatured,
		IsNew:            p.IsNew,
		IsSale:           p.IsSale,
		Rating:           Money(p.Rating),
		ReviewCount:      p.ReviewCount,
		Tags:             p.Tags,
		CareInstructions: p.CareInstructions,
		SizeGuide:        p.SizeGuide,
		Images:           make([]Image, len(p.Images)),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if p.Category != nil {
		c := NewCategory(*p.Category)
		out.Category = &c
	}
	for i, img := range p.Images {
		out.Images[i] = Image{
			ID:        img.ID,
			ImageURL:  img.ImageURL,
			AltText:   img.AltText,
			IsPrimary: img.IsPrimary,
			SortOrder: img.SortOrder,
		}
	}
	if img := p.PrimaryImage(); img != nil {
		out.PrimaryImage = &img.ImageURL
	}
	return out
}

func NewProducts(products []models.Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = NewProduct(p)
	}
	return out
}

type Review struct {
	ID                 uuid.UUID `json:"id"`
	ProductID          uuid.UUID `json:"productId"`
	UserID             string    `json:"userId"`
	Rating             int       `json:"rating"`
	Title              *string   `json:"title,omitempty"`
	Comment            *string   `json:"comment,omitempty"`
	IsVerifiedPurchase bool      `json:"isVerifiedPurchase"`
	HelpfulCount       int       `json:"helpfulCount"`
	CreatedAt          time.Time `json:"createdAt"`
}

func NewReview(r models.Review) Review {
	return Review{
		ID:                 r.ID,
		ProductID:          r.ProductID,
		UserID:             r.UserID,
		Rating:             r.Rating,
		Title:              r.Title,
		Comment:            r.Comment,
		IsVerifiedPurchase: r.IsVerifiedPurchase,
		HelpfulCount:       r.HelpfulCount,
		CreatedAt:          r.CreatedAt,
	}
}

func NewReviews(reviews []models.Review) []Review {
	out := make([]Review, len(reviews))
	for i, r := range reviews {
		out[i] = NewReview(r)
	}
	return out
}

// ProductDetail is a product with its full review list.
type ProductDetail struct {
	Product
	Reviews []Review `json:"reviews"`
}

func NewProductDetail(p models.Product) ProductDetail {
	return ProductDetail{Product: NewProduct(p), Reviews: NewReviews(p.Reviews)}
}

type Summary struct {
	Subtotal  string `json:"subtotal"`
	Shipping  string `json:"shipping"`
	Tax       string `json:"tax"`
	Total     string `json:"total"`
	ItemCount int    `json:"itemCount"`
}

func NewSummary(s pricing.Summary) Summary {
	return Summary{
		Subtotal:  Money(s.Subtotal),
		Shipping:  Money(s.Shipping),
		Tax:       Money(s.Tax),
		Total:     Money(s.Total),
		ItemCount: s.ItemCount,
	}
}

type CartItem struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
	Product   *Product  `json:"product,omitempty"`
	LineTotal string    `json:"lineTotal"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewCartItem(item models.CartItem) CartItem {
	out := CartItem{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		LineTotal: Money(decimal.Zero),
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
	if item.Product != nil {
		p := NewProduct(*item.Product)
		out.Product = &p
		out.LineTotal = Money(pricing.Line{UnitPrice: item.Product.Price, Quantity: item.Quantity}.Total())
	}
	return out
}

type WishlistItem struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"productId"`
	Product   *Product  `json:"product,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewWishlistItem(item models.WishlistItem) WishlistItem {
	out := WishlistItem{ID: item.ID, ProductID: item.ProductID, CreatedAt: item.CreatedAt}
	if item.Product != nil {
		p := NewProduct(*item.Product)
		out.Product = &p
	}
	return out
}

type OrderItem struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"productId"`
	Product   *Product  `json:"product,omitempty"`
	Quantity  int       `json:"quantity"`
	Price     string    `json:"price"`
	Total     string    `json:"total"`
}

type Order struct {
	ID              uuid.UUID       `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	Status          string          `json:"status"`
	Subtotal        string          `json:"subtotal"`
	Tax             string          `json:"tax"`
	Shipping        string          `json:"shipping"`
	Total           string          `json:"total"`
	ShippingAddress *models.Address `json:"shippingAddress,omitempty"`
	BillingAddress  *models.Address `json:"billingAddress,omitempty"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentStatus   string          `json:"paymentStatus"`
	PaymentIntentID *string         `json:"paymentIntentId,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	Items           []OrderItem     `json:"items"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func NewOrder(o models.Order) Order {
	out := Order{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		Status:          string(o.Status),
		Subtotal:        Money(o.Subtotal),
		Tax:             Money(o.Tax),
		Shipping:        Money(o.Shipping),
		Total:           Money(o.Total),
		ShippingAddress: o.ShippingAddress,
		BillingAddress:  o.BillingAddress,
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   o.PaymentStatus,
		PaymentIntentID: o.PaymentIntentID,
		Notes:           o.Notes,
		Items:           make([]OrderItem, len(o.Items)),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	for i, item := range o.Items {
		oi := OrderItem{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     Money(item.Price),
			Total:     Money(item.Total),
		}
		if item.Product != nil {
			p := NewProduct(*item.Product)
			oi.Product = &p
		}
		out.Items[i] = oi
	}
	return out
}

func NewOrders(orders []models.Order) []Order {
	out := make([]Order, len(orders))
	for i, o := range orders {
		out[i] = NewOrder(o)
	}
	return out
}

type User struct {
	ID              string    `json:"id"`
	Email           *string   `json:"email,omitempty"`
	FirstName       *string   `json:"firstName,omitempty"`
	LastName        *string   `json:"lastName,omitempty"`
	ProfileImageURL *string   `json:"profileImageUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func NewUser(u models.User) User {
	return User{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}
