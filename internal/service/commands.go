package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/authz"
	"github.com/Skotchmaster/storefront/internal/models"
)

type RegisterCommand struct {
	Email    string
	Password string
	UserName string
}

type CategoryCommand struct {
	Name        string
	Description string
}

type ProductCommand struct {
	Name        string
	Brand       string
	Description string
	AboutItem   []string
	Price       decimal.Decimal
	CategoryID  uuid.UUID
	Stock       int
	Discount    int
	Images      []string
	Banner      string
	IsActive    bool
}

// ProductQuery drives the public filter listing. Nil pointers are unset filters.
type ProductQuery struct {
	CategoryID *uuid.UUID
	Brand      string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	MinStars   *float64
}

type PlaceOrderCommand struct {
	ShippingAddress string
	PaymentMethod   models.PaymentMethod
	IdempotencyKey  string
}

type FeedbackCommand struct {
	ProductID uuid.UUID
	Rating    int
	Comment   *string
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID uuid.UUID
	Role   authz.Role
}
