package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/authz"
)

func strPtr(s string) *string { return &s }

func TestFeedback_CreateUpdateAndStats(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	svc := &FeedbackService{Repo: r}
	ctx := context.Background()
	p := seedProduct(t, r, "Lamp", "10", true)
	a := seedUser(t, r, "a@x.com", authz.RoleUser)
	b := seedUser(t, r, "b@x.com", authz.RoleUser)

	st, err := svc.Stats(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, FeedbackStats{}, st)

	_, err = svc.Create(ctx, a.ID, FeedbackCommand{ProductID: p.ID, Rating: 5, Comment: strPtr("Great lamp")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, b.ID, FeedbackCommand{ProductID: p.ID, Rating: 2})
	require.NoError(t, err)

	_, err = svc.Create(ctx, a.ID, FeedbackCommand{ProductID: p.ID, Rating: 1})
	assert.Equal(t, "You have already submitted feedback for this product", Message(err))

	stored, err := r.ProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.5, stored.Stars)
	assert.Equal(t, 2, stored.ReviewCount)

	updated, err := svc.Update(ctx, a.ID, FeedbackCommand{ProductID: p.ID, Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, "Great lamp", updated.Comment, "an omitted comment keeps the old one")

	st, err = svc.Stats(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.TotalReviews)
	assert.Equal(t, 3.0, st.AverageRating)
	assert.Equal(t, int64(1), st.FourStar)
	assert.Equal(t, int64(1), st.TwoStar)
	assert.Equal(t, int64(0), st.FiveStar)

	stored, err = r.ProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, stored.Stars)

	rows, meta, err := svc.ProductFeedback(ctx, p.ID, 1, 1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, int64(2), meta.Total)
	assert.True(t, meta.HasNext)
}

func TestFeedback_Errors(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	svc := &FeedbackService{Repo: r}
	ctx := context.Background()
	p := seedProduct(t, r, "Lamp", "10", true)
	u := seedUser(t, r, "a@x.com", authz.RoleUser)

	_, err := svc.Create(ctx, u.ID, FeedbackCommand{ProductID: uuid.New(), Rating: 3})
	assert.Equal(t, "Product not found", Message(err))

	_, err = svc.Create(ctx, u.ID, FeedbackCommand{ProductID: p.ID, Rating: 6})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = svc.Update(ctx, u.ID, FeedbackCommand{ProductID: p.ID, Rating: 3})
	assert.Equal(t, "Feedback not found", Message(err))

	_, err = svc.UserFeedback(ctx, u.ID, p.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStatsFromHistogram_RoundsAverage(t *testing.T) {
	t.Parallel()

	st := statsFromHistogram(map[int]int64{5: 2, 4: 1})
	assert.Equal(t, 4.67, st.AverageRating)
	assert.Equal(t, int64(3), st.TotalReviews)
}
