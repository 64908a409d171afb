package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

type CartService struct {
	Repo *repo.GormRepo
}

// CartTotal sums price*quantity over the lines, rounded to cents.
func CartTotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total.Round(2)
}

func emptyCart(userID uuid.UUID) *models.Cart {
	return &models.Cart{UserID: userID, Items: []models.CartItem{}, TotalAmount: decimal.Zero}
}

// Get never fails for a missing cart; it reads as empty.
func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.Repo.CartByUser(ctx, userID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return emptyCart(userID), nil
		}
		return nil, err
	}
	if err := describeItems(ctx, s.Repo, cart.Items); err != nil {
		return nil, err
	}
	return cart, nil
}

// describeItems attaches the product summary to every line. Lines whose product is gone keep a nil one.
func describeItems(ctx context.Context, r *repo.GormRepo, items []models.CartItem) error {
	ids := make([]uuid.UUID, len(items))
	for i, it := range items {
		ids[i] = it.ProductID
	}
	products, err := r.ProductsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range items {
		p, ok := products[items[i].ProductID]
		if !ok {
			continue
		}
		summary := &models.CartProduct{ID: p.ID, Name: p.Name, Price: p.Price}
		if len(p.Images) > 0 {
			summary.Image = p.Images[0]
		}
		items[i].Product = summary
	}
	return nil
}

// refresh recomputes and stores the total of a cart inside tx, then reloads its lines.
func refresh(ctx context.Context, tx *repo.GormRepo, cart *models.Cart) error {
	items, err := tx.CartItems(ctx, cart.ID)
	if err != nil {
		return err
	}
	cart.Items = items
	cart.TotalAmount = CartTotal(items)
	if err := tx.SetCartTotal(ctx, cart.ID, cart.TotalAmount); err != nil {
		return err
	}
	return describeItems(ctx, tx, cart.Items)
}

func (s *CartService) Add(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, fail(ErrValidation, "Quantity must be at least 1")
	}

	var out *models.Cart
	err := s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		product, err := tx.ProductByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fail(ErrNotFound, "Product not found")
			}
			return err
		}
		if !product.IsActive {
			return fail(ErrUnavailable, "Product is not available")
		}

		cart, err := tx.EnsureCart(ctx, userID)
		if err != nil {
			return err
		}

		var line *models.CartItem
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				line = &cart.Items[i]
				break
			}
		}
		if line != nil {
			if err := tx.SetCartItemQuantity(ctx, line.ID, line.Quantity+quantity); err != nil {
				return err
			}
		} else {
			if err := tx.CreateCartItem(ctx, &models.CartItem{
				CartID:    cart.ID,
				ProductID: productID,
				Quantity:  quantity,
				Price:     product.Price,
			}); err != nil {
				return err
			}
		}

		if err := refresh(ctx, tx, cart); err != nil {
			return err
		}
		out = cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CartService) Update(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, fail(ErrValidation, "Quantity must be at least 1")
	}

	var out *models.Cart
	err := s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		cart, err := tx.CartByUser(ctx, userID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fail(ErrNotFound, "Cart not found")
			}
			return err
		}

		var line *models.CartItem
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				line = &cart.Items[i]
				break
			}
		}
		if line == nil {
			return fail(ErrNotFound, "Item not found in cart")
		}
		if err := tx.SetCartItemQuantity(ctx, line.ID, quantity); err != nil {
			return err
		}

		if err := refresh(ctx, tx, cart); err != nil {
			return err
		}
		out = cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Remove drops a line; removing something that is not there is not an error.
func (s *CartService) Remove(ctx context.Context, userID, productID uuid.UUID) (*models.Cart, error) {
	var out *models.Cart
	err := s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		cart, err := tx.CartByUser(ctx, userID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				out = emptyCart(userID)
				return nil
			}
			return err
		}
		if _, err := tx.DeleteCartItem(ctx, cart.ID, productID); err != nil {
			return err
		}
		if err := refresh(ctx, tx, cart); err != nil {
			return err
		}
		out = cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		cart, err := tx.CartByUser(ctx, userID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.DeleteCartItems(ctx, cart.ID); err != nil {
			return err
		}
		return tx.SetCartTotal(ctx, cart.ID, decimal.Zero)
	})
}
