package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Create(order).Error
}

func (r *GormRepo) OrderByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*models.Order, error) {
	var o models.Order
	err := r.DB.WithContext(ctx).Preload("Items").
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) OrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// OrderForUser is OrderByID scoped to an owner; other users' orders read as not found.
func (r *GormRepo) OrderForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var o models.Order
	err := r.DB.WithContext(ctx).Preload("Items").
		Where("id = ? AND user_id = ?", id, userID).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

type OrderFilter struct {
	UserID *uuid.UUID
	Status models.OrderStatus
}

func (r *GormRepo) ListOrders(ctx context.Context, f OrderFilter, offset, limit int) ([]models.Order, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orders := []models.Order{}
	if err := q.Preload("Items").Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// CompareAndSetStatus moves an order from one status to another only if it still holds from.
// It reports whether this call made the change.
func (r *GormRepo) CompareAndSetStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

type StatusTotals struct {
	Orders  int64
	Revenue decimal.Decimal
}

// OrderTotalsByStatus returns the order count and summed total_amount per status.
func (r *GormRepo) OrderTotalsByStatus(ctx context.Context) (map[models.OrderStatus]StatusTotals, error) {
	rows, err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*), COALESCE(SUM(total_amount), 0)").
		Group("status").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[models.OrderStatus]StatusTotals)
	for rows.Next() {
		var (
			status string
			t      StatusTotals
		)
		if err := rows.Scan(&status, &t.Orders, &t.Revenue); err != nil {
			return nil, err
		}
		t.Revenue = t.Revenue.Round(2)
		out[models.OrderStatus(status)] = t
	}
	return out, rows.Err()
}

// OrderLedger returns the fields revenue reporting needs for every order, oldest first.
func (r *GormRepo) OrderLedger(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Select("id", "status", "total_amount", "created_at").
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
