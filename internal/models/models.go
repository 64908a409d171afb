package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentCard           PaymentMethod = "card"
)

type User struct {
	ID             uuid.UUID  `gorm:"primaryKey"                   json:"id"`
	Email          string     `gorm:"uniqueIndex;not null"         json:"email"`
	UserName       string     `gorm:"size:100"                     json:"user_name,omitempty"`
	PasswordHash   string     `gorm:"not null"                     json:"-"`
	Role           string     `gorm:"not null;default:user"        json:"role"`
	OTPHash        *string    `                                    json:"-"`
	OTPExpiresAt   *time.Time `                                    json:"-"`
	ResetTokenHash *string    `gorm:"index"                        json:"-"`
	ResetExpiresAt *time.Time `                                    json:"-"`
	CreatedAt      time.Time  `                                    json:"created_at"`
	UpdatedAt      time.Time  `                                    json:"updated_at"`
}

type Category struct {
	ID          uuid.UUID `gorm:"primaryKey"             json:"id"`
	Name        string    `gorm:"uniqueIndex;not null"   json:"name"`
	Description string    `gorm:"not null"               json:"description"`
	CreatedAt   time.Time `                              json:"created_at"`
	UpdatedAt   time.Time `                              json:"updated_at"`
}

type Product struct {
	ID          uuid.UUID       `gorm:"primaryKey"                        json:"id"`
	Name        string          `gorm:"not null"                          json:"name"`
	Brand       string          `gorm:"index;not null"                    json:"brand"`
	Description string          `                                         json:"description"`
	AboutItem   []string        `gorm:"serializer:json"                   json:"about_item"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"       json:"price"`
	CategoryID  uuid.UUID       `gorm:"index;not null"                    json:"category_id"`
	Stock       int             `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	IsActive    bool            `gorm:"not null"                          json:"is_active"`
	Discount    int             `gorm:"not null;default:0"                json:"discount"`
	Images      []string        `gorm:"serializer:json"                   json:"images"`
	Banner      string          `                                         json:"banner,omitempty"`
	Stars       float64         `gorm:"not null;default:0"                json:"stars"`
	ReviewCount int             `gorm:"not null;default:0"                json:"review_count"`
	CreatedAt   time.Time       `                                         json:"created_at"`
	UpdatedAt   time.Time       `                                         json:"updated_at"`
}

type Cart struct {
	ID          uuid.UUID       `gorm:"primaryKey"                   json:"id"`
	UserID      uuid.UUID       `gorm:"uniqueIndex;not null"         json:"user_id"`
	Items       []CartItem      `gorm:"constraint:OnDelete:CASCADE;" json:"items"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"  json:"total_amount"`
	CreatedAt   time.Time       `                                    json:"created_at"`
	UpdatedAt   time.Time       `                                    json:"updated_at"`
}

type CartItem struct {
	ID        uuid.UUID       `gorm:"primaryKey"                                json:"id"`
	CartID    uuid.UUID       `gorm:"uniqueIndex:idx_cart_product;not null"     json:"-"`
	ProductID uuid.UUID       `gorm:"uniqueIndex:idx_cart_product;not null"     json:"product_id"`
	Quantity  int             `gorm:"not null;default:1;check:quantity > 0"     json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null"               json:"price"`
	Product   *CartProduct    `gorm:"-"                                         json:"product,omitempty"`
}

// CartProduct is the current catalog view of a cart line's product. It is not stored.
type CartProduct struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

type Order struct {
	ID              uuid.UUID       `gorm:"primaryKey"                                      json:"id"`
	UserID          uuid.UUID       `gorm:"index;uniqueIndex:idx_order_idem;not null"       json:"user_id"`
	Items           []OrderItem     `gorm:"constraint:OnDelete:CASCADE;"                    json:"items"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null"                     json:"total_amount"`
	Status          OrderStatus     `gorm:"type:varchar(16);index;not null;default:pending" json:"status"`
	ShippingAddress string          `gorm:"not null"                                        json:"shipping_address"`
	PaymentMethod   PaymentMethod   `gorm:"type:varchar(32);not null"                       json:"payment_method"`
	IdempotencyKey  *string         `gorm:"uniqueIndex:idx_order_idem"                      json:"-"`
	CreatedAt       time.Time       `gorm:"index"                                           json:"created_at"`
	UpdatedAt       time.Time       `                                                       json:"updated_at"`
}

type OrderItem struct {
	ID          uuid.UUID       `gorm:"primaryKey"                            json:"id"`
	OrderID     uuid.UUID       `gorm:"index;not null"                        json:"-"`
	ProductID   uuid.UUID       `gorm:"not null"                              json:"product_id"`
	ProductName string          `gorm:"not null"                              json:"product_name"`
	Quantity    int             `gorm:"not null;check:quantity > 0"           json:"quantity"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"           json:"price"`
}

type WishlistItem struct {
	ID        uuid.UUID `gorm:"primaryKey"                                 json:"id"`
	UserID    uuid.UUID `gorm:"uniqueIndex:idx_wishlist_user_product;not null" json:"user_id"`
	ProductID uuid.UUID `gorm:"uniqueIndex:idx_wishlist_user_product;not null" json:"product_id"`
	CreatedAt time.Time `                                                  json:"created_at"`
}

type Feedback struct {
	ID        uuid.UUID `gorm:"primaryKey"                                      json:"id"`
	UserID    uuid.UUID `gorm:"uniqueIndex:idx_feedback_user_product;not null"  json:"user_id"`
	ProductID uuid.UUID `gorm:"uniqueIndex:idx_feedback_user_product;index;not null" json:"product_id"`
	Rating    int       `gorm:"not null;check:rating BETWEEN 1 AND 5"           json:"rating"`
	Comment   string    `                                                       json:"comment,omitempty"`
	CreatedAt time.Time `                                                       json:"created_at"`
	UpdatedAt time.Time `                                                       json:"updated_at"`
}

func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error         { newID(&u.ID); return nil }
func (c *Category) BeforeCreate(*gorm.DB) error     { newID(&c.ID); return nil }
func (p *Product) BeforeCreate(*gorm.DB) error      { newID(&p.ID); return nil }
func (c *Cart) BeforeCreate(*gorm.DB) error         { newID(&c.ID); return nil }
func (i *CartItem) BeforeCreate(*gorm.DB) error     { newID(&i.ID); return nil }
func (o *Order) BeforeCreate(*gorm.DB) error        { newID(&o.ID); return nil }
func (i *OrderItem) BeforeCreate(*gorm.DB) error    { newID(&i.ID); return nil }
func (w *WishlistItem) BeforeCreate(*gorm.DB) error { newID(&w.ID); return nil }
func (f *Feedback) BeforeCreate(*gorm.DB) error     { newID(&f.ID); return nil }

// All lists every table for AutoMigrate.
func All() []any {
	return []any{
		&User{}, &Category{}, &Product{},
		&Cart{}, &CartItem{},
		&Order{}, &OrderItem{},
		&WishlistItem{}, &Feedback{},
	}
}
