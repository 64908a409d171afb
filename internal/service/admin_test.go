package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
)

func TestAdmin_OverviewLabelsRevenue(t *testing.T) {
	t.Parallel()
	f := newOrderFixture(t)
	ctx := context.Background()
	admin := &AdminService{Repo: f.repo}

	for i := 0; i < 2; i++ {
		f.fillCart(t, 1)
		_, _, err := f.orders.Create(ctx, f.user.ID, PlaceOrderCommand{ShippingAddress: "x"})
		require.NoError(t, err)
	}
	orders, _, err := f.orders.UserOrders(ctx, f.user.ID, 1, 10)
	require.NoError(t, err)
	_, err = f.orders.AdminUpdateStatus(ctx, adminActor(uuid.New()), orders[0].ID, "completed")
	require.NoError(t, err)

	ov, err := admin.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ov.TotalProducts)
	assert.Equal(t, int64(1), ov.TotalUsers)
	assert.Equal(t, int64(2), ov.TotalOrders)
	assert.True(t, decimal.RequireFromString("24.50").Equal(ov.GrossRevenue), ov.GrossRevenue.String())
	assert.True(t, decimal.RequireFromString("12.25").Equal(ov.CompletedRevenue), ov.CompletedRevenue.String())

	require.Len(t, ov.MonthlyRevenue, 1)
	assert.Equal(t, time.Now().UTC().Format("2006-01"), ov.MonthlyRevenue[0].Month)
	assert.Equal(t, int64(2), ov.MonthlyRevenue[0].Orders)
}

func TestMonthly_SortsAndSplitsRevenue(t *testing.T) {
	t.Parallel()

	at := func(s string) time.Time {
		ts, err := time.Parse(time.RFC3339, s)
		require.NoError(t, err)
		return ts
	}
	orders := []models.Order{
		{CreatedAt: at("2024-03-10T10:00:00Z"), Status: models.OrderStatusCompleted, TotalAmount: decimal.NewFromInt(10)},
		{CreatedAt: at("2024-01-31T23:59:00Z"), Status: models.OrderStatusPending, TotalAmount: decimal.NewFromInt(5)},
		{CreatedAt: at("2024-03-01T00:00:00Z"), Status: models.OrderStatusCancelled, TotalAmount: decimal.NewFromInt(7)},
	}

	out := monthly(orders)
	require.Len(t, out, 2)
	assert.Equal(t, "2024-01", out[0].Month)
	assert.Equal(t, "2024-03", out[1].Month)
	assert.Equal(t, int64(2), out[1].Orders)
	assert.True(t, decimal.NewFromInt(17).Equal(out[1].GrossRevenue))
	assert.True(t, decimal.NewFromInt(10).Equal(out[1].CompletedRevenue))
	assert.True(t, out[0].CompletedRevenue.IsZero())
}
