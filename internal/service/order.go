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
	"github.com/Skotchmaster/storefront/pkg/events"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type OrderService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

type OrderStats struct {
	TotalOrders      int64           `json:"total_orders"`
	PendingOrders    int64           `json:"pending_orders"`
	CompletedOrders  int64           `json:"completed_orders"`
	CancelledOrders  int64           `json:"cancelled_orders"`
	CompletedRevenue decimal.Decimal `json:"completed_revenue"`
	GrossRevenue     decimal.Decimal `json:"gross_revenue"`
}

// Create turns the user's cart into a pending order and empties the cart in one transaction.
// The bool result is true when an earlier order with the same idempotency key was returned
// instead of creating a new one.
func (s *OrderService) Create(ctx context.Context, userID uuid.UUID, cmd PlaceOrderCommand) (*models.Order, bool, error) {
	l := logging.FromContext(ctx).With("svc", "order.create")

	address := strings.TrimSpace(cmd.ShippingAddress)
	if address == "" {
		return nil, false, fail(ErrValidation, "Shipping address is required")
	}
	method, ok := ParsePaymentMethod(string(cmd.PaymentMethod))
	if !ok {
		return nil, false, fail(ErrValidation, "Payment method must be cash_on_delivery or card")
	}
	var key *string
	if k := strings.TrimSpace(cmd.IdempotencyKey); k != "" {
		key = &k
	}

	var (
		order    *models.Order
		replayed bool
	)
	err := s.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		cart, err := tx.CartByUser(ctx, userID, true)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if key != nil {
			prev, err := tx.OrderByIdempotencyKey(ctx, userID, *key)
			if err == nil {
				order, replayed = prev, true
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		if cart == nil || len(cart.Items) == 0 {
			return fail(ErrBusinessRule, "Cart is empty")
		}

		ids := make([]uuid.UUID, len(cart.Items))
		for i, it := range cart.Items {
			ids[i] = it.ProductID
		}
		products, err := tx.ProductsByIDs(ctx, ids)
		if err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, it := range cart.Items {
			p, ok := products[it.ProductID]
			if !ok {
				return fail(ErrUnavailable, "Product %s is no longer available", it.ProductID)
			}
			if !p.IsActive {
				return fail(ErrUnavailable, "Product %s is no longer available", p.Name)
			}
			items = append(items, models.OrderItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    it.Quantity,
				Price:       it.Price,
			})
		}

		order = &models.Order{
			UserID:          userID,
			Items:           items,
			TotalAmount:     CartTotal(cart.Items),
			Status:          models.OrderStatusPending,
			ShippingAddress: address,
			PaymentMethod:   method,
			IdempotencyKey:  key,
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}
		if err := tx.DeleteCartItems(ctx, cart.ID); err != nil {
			return err
		}
		return tx.SetCartTotal(ctx, cart.ID, decimal.Zero)
	})
	if err != nil {
		return nil, false, err
	}

	if replayed {
		l.Info("create_order_replayed", "order_id", order.ID)
		return order, true, nil
	}

	events.Publish(ctx, s.Events, events.TopicOrder, order.ID.String(), events.New("order_created", map[string]any{
		"order_id":     order.ID.String(),
		"user_id":      userID.String(),
		"total_amount": order.TotalAmount.StringFixed(2),
		"items":        len(order.Items),
	}))
	l.Info("create_order_success", "order_id", order.ID)
	return order, false, nil
}

func (s *OrderService) UserOrders(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Order, util.OrderMeta, error) {
	offset, limit := util.Calculate(page, limit)
	orders, total, err := s.Repo.ListOrders(ctx, repo.OrderFilter{UserID: &userID}, offset, limit)
	if err != nil {
		return nil, util.OrderMeta{}, err
	}
	return orders, util.NewOrderMeta(page, limit, total), nil
}

func orderNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(ErrNotFound, "Order not found")
	}
	return err
}

func (s *OrderService) UserOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	o, err := s.Repo.OrderForUser(ctx, orderID, userID)
	if err != nil {
		return nil, orderNotFound(err)
	}
	return o, nil
}

// Cancel lets an owner cancel their own order.
func (s *OrderService) Cancel(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error) {
	o, err := s.Repo.OrderForUser(ctx, orderID, actor.UserID)
	if err != nil {
		return nil, orderNotFound(err)
	}
	if !CanTransition(o.Status, models.OrderStatusCancelled, actor.Role) {
		return nil, fail(ErrInvalidState, "Only pending orders can be cancelled")
	}
	if err := s.move(ctx, o, models.OrderStatusCancelled, actor); err != nil {
		if errors.Is(err, ErrInvalidState) {
			return nil, fail(ErrInvalidState, "Only pending orders can be cancelled")
		}
		return nil, err
	}
	return o, nil
}

func (s *OrderService) AdminOrders(ctx context.Context, status string, page, limit int) ([]models.Order, util.OrderMeta, error) {
	var f repo.OrderFilter
	if status != "" {
		st, ok := ParseOrderStatus(status)
		if !ok {
			return nil, util.OrderMeta{}, fail(ErrValidation, "Invalid status. Must be: pending, completed, or cancelled")
		}
		f.Status = st
	}
	offset, limit := util.Calculate(page, limit)
	orders, total, err := s.Repo.ListOrders(ctx, f, offset, limit)
	if err != nil {
		return nil, util.OrderMeta{}, err
	}
	return orders, util.NewOrderMeta(page, limit, total), nil
}

func (s *OrderService) AdminUpdateStatus(ctx context.Context, actor Actor, orderID uuid.UUID, status string) (*models.Order, error) {
	to, ok := ParseOrderStatus(status)
	if !ok {
		return nil, fail(ErrValidation, "Invalid status. Must be: pending, completed, or cancelled")
	}
	o, err := s.Repo.OrderByID(ctx, orderID)
	if err != nil {
		return nil, orderNotFound(err)
	}
	if !CanTransition(o.Status, to, actor.Role) {
		return nil, fail(ErrInvalidState, "Cannot change order status from %s to %s", o.Status, to)
	}
	if err := s.move(ctx, o, to, actor); err != nil {
		return nil, err
	}
	return o, nil
}

// move applies a checked transition with compare-and-set, so a concurrent change between the
// read and the write makes this call lose instead of overwriting.
func (s *OrderService) move(ctx context.Context, o *models.Order, to models.OrderStatus, actor Actor) error {
	from := o.Status
	ok, err := s.Repo.CompareAndSetStatus(ctx, o.ID, from, to)
	if err != nil {
		return err
	}
	if !ok {
		return fail(ErrInvalidState, "Cannot change order status from %s to %s", from, to)
	}
	o.Status = to

	events.Publish(ctx, s.Events, events.TopicOrder, o.ID.String(), events.New("order_status_changed", map[string]any{
		"order_id": o.ID.String(),
		"from":     string(from),
		"to":       string(to),
		"by_role":  actor.Role.String(),
	}))
	logging.FromContext(ctx).Info("order_status_changed", "svc", "order.move", "order_id", o.ID, "from", from, "to", to)
	return nil
}

func (s *OrderService) Stats(ctx context.Context) (OrderStats, error) {
	byStatus, err := s.Repo.OrderTotalsByStatus(ctx)
	if err != nil {
		return OrderStats{}, err
	}
	return statsFrom(byStatus), nil
}

func statsFrom(byStatus map[models.OrderStatus]repo.StatusTotals) OrderStats {
	st := OrderStats{
		PendingOrders:    byStatus[models.OrderStatusPending].Orders,
		CompletedOrders:  byStatus[models.OrderStatusCompleted].Orders,
		CancelledOrders:  byStatus[models.OrderStatusCancelled].Orders,
		CompletedRevenue: byStatus[models.OrderStatusCompleted].Revenue.Round(2),
		GrossRevenue:     decimal.Zero,
	}
	for _, t := range byStatus {
		st.TotalOrders += t.Orders
		st.GrossRevenue = st.GrossRevenue.Add(t.Revenue)
	}
	st.GrossRevenue = st.GrossRevenue.Round(2)
	return st
}
