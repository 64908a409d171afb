package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

type WishlistService struct {
	Repo *repo.GormRepo
}

func (s *WishlistService) List(ctx context.Context, userID uuid.UUID) ([]models.Product, error) {
	return s.Repo.WishlistProducts(ctx, userID)
}

func (s *WishlistService) Add(ctx context.Context, userID, productID uuid.UUID) error {
	p, err := s.Repo.ProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(ErrNotFound, "Product not found")
		}
		return err
	}
	if !p.IsActive {
		return fail(ErrUnavailable, "Product is not available")
	}

	exists, err := s.Repo.InWishlist(ctx, userID, productID)
	if err != nil {
		return err
	}
	if exists {
		return fail(ErrConflict, "Product already in wishlist")
	}

	if err := s.Repo.AddWishlistItem(ctx, &models.WishlistItem{UserID: userID, ProductID: productID}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fail(ErrConflict, "Product already in wishlist")
		}
		return err
	}
	return nil
}

func (s *WishlistService) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	n, err := s.Repo.CountWishlist(ctx, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fail(ErrNotFound, "Wishlist not found")
	}

	removed, err := s.Repo.RemoveWishlistItem(ctx, userID, productID)
	if err != nil {
		return err
	}
	if removed == 0 {
		return fail(ErrNotFound, "Product not found in wishlist")
	}
	return nil
}

// Clear reports whether anything was removed.
func (s *WishlistService) Clear(ctx context.Context, userID uuid.UUID) (bool, error) {
	n, err := s.Repo.ClearWishlist(ctx, userID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
