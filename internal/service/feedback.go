package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/util"
)

type FeedbackService struct {
	Repo *repo.GormRepo
}

type FeedbackStats struct {
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int64   `json:"total_reviews"`
	OneStar       int64   `json:"one_star"`
	TwoStar       int64   `json:"two_star"`
	ThreeStar     int64   `json:"three_star"`
	FourStar      int64   `json:"four_star"`
	FiveStar      int64   `json:"five_star"`
}

func statsFromHistogram(h map[int]int64) FeedbackStats {
	st := FeedbackStats{
		OneStar:   h[1],
		TwoStar:   h[2],
		ThreeStar: h[3],
		FourStar:  h[4],
		FiveStar:  h[5],
	}
	var sum int64
	for rating := 1; rating <= 5; rating++ {
		st.TotalReviews += h[rating]
		sum += int64(rating) * h[rating]
	}
	if st.TotalReviews > 0 {
		avg := decimal.NewFromInt(sum).Div(decimal.NewFromInt(st.TotalReviews)).Round(2)
		st.AverageRating = avg.InexactFloat64()
	}
	return st
}

func validRating(r int) error {
	if r < 1 || r > 5 {
		return fail(ErrValidation, "Rating must be between 1 and 5")
	}
	return nil
}

// rerate recomputes a product's stars and review count from its feedback rows inside tx.
func rerate(ctx context.Context, tx *repo.GormRepo, productID uuid.UUID) error {
	h, err := tx.RatingHistogram(ctx, productID)
	if err != nil {
		return err
	}
	st := statsFromHistogram(h)
	return tx.SetProductRating(ctx, productID, st.AverageRating, int(st.TotalReviews))
}

func (s *FeedbackService) Create(ctx context.Context, userID uuid.UUID, cmd FeedbackCommand) (*models.Feedback, error) {
	if err := validRating(cmd.Rating); err != nil {
		return nil, err
	}

	var out *models.Feedback
	err := s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.ProductByID(ctx, cmd.ProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fail(ErrNotFound, "Product not found")
			}
			return err
		}

		if _, err := tx.FeedbackFor(ctx, userID, cmd.ProductID); err == nil {
			return fail(ErrConflict, "You have already submitted feedback for this product")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		f := &models.Feedback{UserID: userID, ProductID: cmd.ProductID, Rating: cmd.Rating}
		if cmd.Comment != nil {
			f.Comment = strings.TrimSpace(*cmd.Comment)
		}
		if err := tx.CreateFeedback(ctx, f); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fail(ErrConflict, "You have already submitted feedback for this product")
			}
			return err
		}
		out = f
		return rerate(ctx, tx, cmd.ProductID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update changes the rating, and the comment only when one is given.
func (s *FeedbackService) Update(ctx context.Context, userID uuid.UUID, cmd FeedbackCommand) (*models.Feedback, error) {
	if err := validRating(cmd.Rating); err != nil {
		return nil, err
	}

	var out *models.Feedback
	err := s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		f, err := tx.FeedbackFor(ctx, userID, cmd.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fail(ErrNotFound, "Feedback not found")
			}
			return err
		}
		f.Rating = cmd.Rating
		if cmd.Comment != nil {
			f.Comment = strings.TrimSpace(*cmd.Comment)
		}
		if err := tx.SaveFeedback(ctx, f); err != nil {
			return err
		}
		out = f
		return rerate(ctx, tx, cmd.ProductID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *FeedbackService) UserFeedback(ctx context.Context, userID, productID uuid.UUID) (*models.Feedback, error) {
	f, err := s.Repo.FeedbackFor(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fail(ErrNotFound, "Feedback not found")
		}
		return nil, err
	}
	return f, nil
}

func (s *FeedbackService) ProductFeedback(ctx context.Context, productID uuid.UUID, page, limit int) ([]models.Feedback, util.Meta, error) {
	offset, limit := util.Calculate(page, limit)
	rows, total, err := s.Repo.ProductFeedback(ctx, productID, offset, limit)
	if err != nil {
		return nil, util.Meta{}, err
	}
	return rows, util.NewMeta(page, limit, total), nil
}

func (s *FeedbackService) Stats(ctx context.Context, productID uuid.UUID) (FeedbackStats, error) {
	h, err := s.Repo.RatingHistogram(ctx, productID)
	if err != nil {
		return FeedbackStats{}, err
	}
	return statsFromHistogram(h), nil
}
