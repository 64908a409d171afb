package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/authz"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

type orderFixture struct {
	repo   *repo.GormRepo
	cart   *CartService
	orders *OrderService
	pub    *recordingPublisher
	user   *models.User
	p      *models.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	r := newTestRepo(t)
	pub := &recordingPublisher{}
	return &orderFixture{
		repo:   r,
		cart:   &CartService{Repo: r},
		orders: &OrderService{Repo: r, Events: pub},
		pub:    pub,
		user:   seedUser(t, r, "buyer@x.com", authz.RoleUser),
		p:      seedProduct(t, r, "Lamp", "12.25", true),
	}
}

func (f *orderFixture) fillCart(t *testing.T, qty int) {
	t.Helper()
	_, err := f.cart.Add(context.Background(), f.user.ID, f.p.ID, qty)
	require.NoError(t, err)
}

func TestOrder_CreateSnapshotsAndClearsCart(t *testing.T) {
	t.Parallel()
	f := newOrderFixture(t)
	ctx := context.Background()
	f.fillCart(t, 2)

	order, replay, err := f.orders.Create(ctx, f.user.ID, PlaceOrderCommand{ShippingAddress: "1 Main St"})
	require.NoError(t, err)
	assert.False(t, replay)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentCashOnDelivery, order.PaymentMethod)
	assert.True(t, decimal.RequireFromString("24.50").Equal(order.TotalAmount))
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Lamp", order.Items[0].ProductName)
	assert.Equal(t, 2, order.Items[0].Quantity)

	cart, err := f.cart.Get(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.TotalAmount.IsZero())

	assert.Equal(t, []string{"order_created"}, f.pub.types())
}

func TestOrder_CreateValidation(t *testing.T) {
	t.Parallel()
	f := newOrderFixture(t)
	ctx := context.Background()

	_, _, err := f.orders.Create(ctx, f.user.ID, PlaceOrderCommand{ShippingAddress: "  "})
	assert.Equal(t, "Shipping address is required", Message(err))

	_, _, err = f.orders.Create(ctx, f.user.ID, PlaceOrderCommand{ShippingAddress: "x", PaymentMethod: "bitcoin"})
	assert.True(t, errors.Is(err, ErrValidation))

	_, _, err = f.orders.Create(ctx, f.user.ID, PlaceOrderCommand{ShippingAddress: "x"})
	assert.Equal(t, "Cart is empty", Message(err))
}

func TestOrder_CreateRejectsInactiveProductAndKeepsCart(t *testing.T) {
	t.Parallel()
	f := newOrderFixture(t)
	ctx := context.Background()
	f.fillCart(t, 1)

	f.p.IsActive = false
	require.NoError(t, f.repo.SaveProduct(ctx, f.p))

	_, _, err := f.orders.Create(ctx, f.user.ID, PlaceOrderCommand{ShippingAddress: "x"})
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, "Product Lamp is no longer available", Message(err))

	cart, err := f.cart.Get(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestOrder_IdempotentReplay(t *testing.T) {
	t.Parallel()
	f := newOrderFixture(t)
	ctx := context.Background()
	f.fillCart(t, 1)

	cmd := PlaceOrderCommand{ShippingAddress: "x", PaymentMethod: models.PaymentCard, IdempotencyKey: "key-1"}
	first, replay, err := f.orders.Create(ctx, f.user.ID, cmd)
	require.NoError(t, err)
	require.False(t, replay)

	f.fillCart(t, 3)
	second, replay, err := f.orders.Create(ctx, f.user.ID, cmd)
	require.NoError(t, err)
	assert.True(t, replay)
	assert.Equal(t, first.ID, second.ID)

	cart, err := f.cart.Get(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1, "a replay must not touch the cart")

	orders, meta, err := f.orders.UserOrders(ctx, f.user.ID, 1, 10)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, int64(1), meta.TotalOrders)
}

func TestOrder_CancelTransitions(t *testing.T) {
	t.Parallel()
	f := newOrderFixture(t)
	ctx := context.Background()
	f.fillCart(t, 1)
	order, _, err := f.orders.Create(ctx, f.user.ID, PlaceOrderCommand{ShippingAddress: "x"})
	require.NoError(t, err)

	stranger := seedUser(t, f.repo, "other@x.com", authz.RoleUser)
	_, err = f.orders.Cancel(ctx, userActor(stranger.ID), order.ID)
	assert.Equal(t, "Order not found", Message(err))

	cancelled, err := f.orders.Cancel(ctx, userActor(f.user.ID), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)

	_, err = f.orders.Cancel(ctx, userActor(f.user.ID), order.ID)
	assert.Equal(t, "Only pending orders can be cancelled", Message(err))

	stored, err := f.orders.UserOrder(ctx, f.user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, stored.Status)
}

func TestOrder_AdminTransitionTable(t *testing.T) {
	t.Parallel()
	f := newOrderFixture(t)
	ctx := context.Background()
	admin := adminActor(uuid.New())
	f.fillCart(t, 1)
	order, _, err := f.orders.Create(ctx, f.user.ID, PlaceOrderCommand{ShippingAddress: "x"})
	require.NoError(t, err)

	_, err = f.orders.AdminUpdateStatus(ctx, admin, order.ID, "shipped")
	assert.Equal(t, "Invalid status. Must be: pending, completed, or cancelled", Message(err))

	_, err = f.orders.AdminUpdateStatus(ctx, admin, uuid.New(), "completed")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = f.orders.AdminUpdateStatus(ctx, admin, order.ID, "pending")
	assert.Equal(t, "Cannot change order status from pending to pending", Message(err))

	done, err := f.orders.AdminUpdateStatus(ctx, admin, order.ID, "completed")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, done.Status)

	_, err = f.orders.AdminUpdateStatus(ctx, admin, order.ID, "cancelled")
	assert.Equal(t, "Cannot change order status from completed to cancelled", Message(err))

	_, err = f.orders.Cancel(ctx, userActor(f.user.ID), order.ID)
	assert.Equal(t, "Only pending orders can be cancelled", Message(err))
}

func TestOrder_CompareAndSetLosesStaleRead(t *testing.T) {
	t.Parallel()
	f := newOrderFixture(t)
	ctx := context.Background()
	f.fillCart(t, 1)
	order, _, err := f.orders.Create(ctx, f.user.ID, PlaceOrderCommand{ShippingAddress: "x"})
	require.NoError(t, err)

	won, err := f.repo.CompareAndSetStatus(ctx, order.ID, models.OrderStatusPending, models.OrderStatusCompleted)
	require.NoError(t, err)
	require.True(t, won)

	// order still holds the stale pending status
	err = f.orders.move(ctx, order, models.OrderStatusCancelled, userActor(f.user.ID))
	assert.True(t, errors.Is(err, ErrInvalidState))

	stored, err := f.repo.OrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, stored.Status)
}

func TestOrder_AdminListAndStats(t *testing.T) {
	t.Parallel()
	f := newOrderFixture(t)
	ctx := context.Background()
	admin := adminActor(uuid.New())

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		f.fillCart(t, 1)
		o, _, err := f.orders.Create(ctx, f.user.ID, PlaceOrderCommand{ShippingAddress: "x"})
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}
	_, err := f.orders.AdminUpdateStatus(ctx, admin, ids[0], "completed")
	require.NoError(t, err)
	_, err = f.orders.Cancel(ctx, userActor(f.user.ID), ids[1])
	require.NoError(t, err)

	_, _, err = f.orders.AdminOrders(ctx, "bogus", 1, 10)
	assert.True(t, errors.Is(err, ErrValidation))

	pending, meta, err := f.orders.AdminOrders(ctx, "pending", 1, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Equal(t, int64(1), meta.TotalOrders)

	st, err := f.orders.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), st.TotalOrders)
	assert.Equal(t, int64(1), st.PendingOrders)
	assert.Equal(t, int64(1), st.CompletedOrders)
	assert.Equal(t, int64(1), st.CancelledOrders)
	assert.True(t, decimal.RequireFromString("12.25").Equal(st.CompletedRevenue), st.CompletedRevenue.String())
	assert.True(t, decimal.RequireFromString("36.75").Equal(st.GrossRevenue), st.GrossRevenue.String())
}

func TestCanTransition(t *testing.T) {
	t.Parallel()

	assert.True(t, CanTransition(models.OrderStatusPending, models.OrderStatusCancelled, authz.RoleUser))
	assert.True(t, CanTransition(models.OrderStatusPending, models.OrderStatusCancelled, authz.RoleAdmin))
	assert.True(t, CanTransition(models.OrderStatusPending, models.OrderStatusCompleted, authz.RoleAdmin))
	assert.False(t, CanTransition(models.OrderStatusPending, models.OrderStatusCompleted, authz.RoleUser))
	assert.False(t, CanTransition(models.OrderStatusCompleted, models.OrderStatusPending, authz.RoleAdmin))
	assert.False(t, CanTransition(models.OrderStatusCancelled, models.OrderStatusPending, authz.RoleAdmin))
}
