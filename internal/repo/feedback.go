package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *GormRepo) FeedbackFor(ctx context.Context, userID, productID uuid.UUID) (*models.Feedback, error) {
	var f models.Feedback
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *GormRepo) CreateFeedback(ctx context.Context, f *models.Feedback) error {
	return r.DB.WithContext(ctx).Create(f).Error
}

func (r *GormRepo) SaveFeedback(ctx context.Context, f *models.Feedback) error {
	return r.DB.WithContext(ctx).Save(f).Error
}

func (r *GormRepo) ProductFeedback(ctx context.Context, productID uuid.UUID, offset, limit int) ([]models.Feedback, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Feedback{}).Where("product_id = ?", productID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := []models.Feedback{}
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// RatingHistogram counts a product's feedback rows per rating value.
func (r *GormRepo) RatingHistogram(ctx context.Context, productID uuid.UUID) (map[int]int64, error) {
	rows, err := r.DB.WithContext(ctx).Model(&models.Feedback{}).
		Select("rating, COUNT(*)").
		Where("product_id = ?", productID).
		Group("rating").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int]int64, 5)
	for rows.Next() {
		var (
			rating int
			n      int64
		)
		if err := rows.Scan(&rating, &n); err != nil {
			return nil, err
		}
		out[rating] = n
	}
	return out, rows.Err()
}
