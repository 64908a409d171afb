package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *GormRepo) WishlistProducts(ctx context.Context, userID uuid.UUID) ([]models.Product, error) {
	products := []models.Product{}
	err := r.DB.WithContext(ctx).
		Joins("JOIN wishlist_items ON wishlist_items.product_id = products.id").
		Where("wishlist_items.user_id = ?", userID).
		Order("wishlist_items.created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormRepo) CountWishlist(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.WishlistItem{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *GormRepo) InWishlist(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.WishlistItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) AddWishlistItem(ctx context.Context, item *models.WishlistItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormRepo) RemoveWishlistItem(ctx context.Context, userID, productID uuid.UUID) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{})
	return res.RowsAffected, res.Error
}

func (r *GormRepo) ClearWishlist(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.WishlistItem{})
	return res.RowsAffected, res.Error
}
