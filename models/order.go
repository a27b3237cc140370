package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// CanTransitionTo reports whether an order in status s may move to next.
// Delivered and cancelled are terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

const (
	PaymentStatusCompleted = "completed"
	PaymentStatusRefunded  = "refunded"
)

// Address is stored as a JSON snapshot on the order; later profile edits do not
// reach past orders.
type Address struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Order is immutable after creation apart from Status and PaymentStatus.
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID          string          `gorm:"not null;index"`
	OrderNumber     string          `gorm:"size:50;uniqueIndex;not null"`
	Status          OrderStatus     `gorm:"size:50;not null;default:pending"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Tax             decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Shipping        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Total           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ShippingAddress *Address        `gorm:"type:jsonb;serializer:json"`
	BillingAddress  *Address        `gorm:"type:jsonb;serializer:json"`
	PaymentMethod   string          `gorm:"size:50"`
	PaymentStatus   string          `gorm:"size:50;not null;default:pending"`
	PaymentIntentID *string         `gorm:"size:255"`
	Notes           *string         `gorm:"type:text"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time       `gorm:"index"`
	UpdatedAt       time.Time
}

func (o *Order) TableName() string {
	return "orders"
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem freezes the unit price and line total at checkout time.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Product   *Product        `gorm:"foreignKey:ProductID"`
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Total     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time
}

func (i *OrderItem) TableName() string {
	return "order_items"
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// User mirrors the identity provider's profile. ID is the provider subject.
type User struct {
	ID              string  `gorm:"primaryKey"`
	Email           *string `gorm:"uniqueIndex"`
	FirstName       *string
	LastName        *string
	ProfileImageURL *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (u *User) TableName() string {
	return "users"
}
