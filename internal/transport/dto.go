package transport

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/service"
)

type RegisterRequest struct {
	Email    string `json:"email"     validate:"required,email,max=254"`
	Password string `json:"password"  validate:"required,min=6,max=72"`
	UserName string `json:"user_name" validate:"omitempty,max=100"`
}

func (r RegisterRequest) Command() service.RegisterCommand {
	return service.RegisterCommand{Email: r.Email, Password: r.Password, UserName: r.UserName}
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp"   validate:"required,len=6,numeric"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type RoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type CategoryRequest struct {
	Name        string `json:"name"        validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"required,min=10,max=500"`
}

func (r CategoryRequest) Command() service.CategoryCommand {
	return service.CategoryCommand{Name: r.Name, Description: r.Description}
}

type ProductRequest struct {
	Name        string           `json:"name"        validate:"required,min=2,max=100"`
	Brand       string           `json:"brand"       validate:"required,min=2,max=100"`
	Description string           `json:"description" validate:"max=500"`
	AboutItem   []string         `json:"about_item"  validate:"omitempty,dive,max=500"`
	Price       *decimal.Decimal `json:"price"       validate:"required"`
	CategoryID  string           `json:"category_id" validate:"required,uuid"`
	Stock       int              `json:"stock"       validate:"min=0"`
	Discount    int              `json:"discount"    validate:"min=0,max=100"`
	Images      []string         `json:"images"      validate:"omitempty,dive,url"`
	Banner      string           `json:"banner"      validate:"omitempty,url"`
	IsActive    *bool            `json:"is_active"`
}

// Command assumes the request already passed validation.
func (r ProductRequest) Command() service.ProductCommand {
	cmd := service.ProductCommand{
		Name:        r.Name,
		Brand:       r.Brand,
		Description: r.Description,
		AboutItem:   r.AboutItem,
		CategoryID:  uuid.MustParse(r.CategoryID),
		Stock:       r.Stock,
		Discount:    r.Discount,
		Images:      r.Images,
		Banner:      r.Banner,
		IsActive:    true,
	}
	if r.Price != nil {
		cmd.Price = *r.Price
	}
	if r.IsActive != nil {
		cmd.IsActive = *r.IsActive
	}
	return cmd
}

type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  *int   `json:"quantity"`
}

func (r AddToCartRequest) Qty() int {
	if r.Quantity == nil {
		return 1
	}
	return *r.Quantity
}

type UpdateCartRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"max=500"`
	PaymentMethod   string `json:"payment_method"   validate:"omitempty,oneof=cash_on_delivery card"`
}

func (r CreateOrderRequest) Command(idempotencyKey string) service.PlaceOrderCommand {
	return service.PlaceOrderCommand{
		ShippingAddress: r.ShippingAddress,
		PaymentMethod:   models.PaymentMethod(r.PaymentMethod),
		IdempotencyKey:  idempotencyKey,
	}
}

type OrderStatusRequest struct {
	Status string `json:"status"`
}

type ProductRefRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

type FeedbackRequest struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	Rating    int     `json:"rating"     validate:"required,min=1,max=5"`
	Comment   *string `json:"comment"    validate:"omitempty,min=2,max=500"`
}

func (r FeedbackRequest) Command() service.FeedbackCommand {
	return service.FeedbackCommand{
		ProductID: uuid.MustParse(r.ProductID),
		Rating:    r.Rating,
		Comment:   r.Comment,
	}
}
