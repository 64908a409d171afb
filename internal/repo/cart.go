package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
)

// CartByUser loads the user's cart and its lines. With lock set the cart row is held
// FOR UPDATE until the surrounding transaction ends.
func (r *GormRepo) CartByUser(ctx context.Context, userID uuid.UUID, lock bool) (*models.Cart, error) {
	q := r.DB.WithContext(ctx)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var cart models.Cart
	if err := q.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}

	items, err := r.CartItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	return &cart, nil
}

// EnsureCart returns the user's locked cart, creating an empty one first if needed.
func (r *GormRepo) EnsureCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := r.CartByUser(ctx, userID, true)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := models.Cart{UserID: userID, TotalAmount: decimal.Zero}
	if err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Omit(clause.Associations).
		Create(&fresh).Error; err != nil {
		return nil, err
	}
	return r.CartByUser(ctx, userID, true)
}

func (r *GormRepo) CartItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	items := []models.CartItem{}
	if err := r.DB.WithContext(ctx).Where("cart_id = ?", cartID).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateCartItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormRepo) SetCartItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	return r.DB.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, cartID, productID uuid.UUID) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

func (r *GormRepo) DeleteCartItems(ctx context.Context, cartID uuid.UUID) error {
	return r.DB.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

func (r *GormRepo) SetCartTotal(ctx context.Context, cartID uuid.UUID, total decimal.Decimal) error {
	return r.DB.WithContext(ctx).Model(&models.Cart{}).
		Where("id = ?", cartID).
		Update("total_amount", total).Error
}
