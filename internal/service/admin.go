package service

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

type AdminService struct {
	Repo *repo.GormRepo
}

type MonthlyRevenue struct {
	Month            string          `json:"month"`
	Orders           int64           `json:"orders"`
	GrossRevenue     decimal.Decimal `json:"gross_revenue"`
	CompletedRevenue decimal.Decimal `json:"completed_revenue"`
}

type Overview struct {
	TotalProducts    int64            `json:"total_products"`
	TotalOrders      int64            `json:"total_orders"`
	TotalUsers       int64            `json:"total_users"`
	GrossRevenue     decimal.Decimal  `json:"gross_revenue"`
	CompletedRevenue decimal.Decimal  `json:"completed_revenue"`
	MonthlyRevenue   []MonthlyRevenue `json:"monthly_revenue"`
}

// Overview runs the dashboard aggregates concurrently; the first failure cancels the rest.
func (s *AdminService) Overview(ctx context.Context) (*Overview, error) {
	var (
		out    Overview
		stats  OrderStats
		ledger []models.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.Repo.CountProducts(gctx)
		out.TotalProducts = n
		return err
	})
	g.Go(func() error {
		n, err := s.Repo.CountUsers(gctx)
		out.TotalUsers = n
		return err
	})
	g.Go(func() error {
		byStatus, err := s.Repo.OrderTotalsByStatus(gctx)
		if err != nil {
			return err
		}
		stats = statsFrom(byStatus)
		return nil
	})
	g.Go(func() error {
		var err error
		ledger, err = s.Repo.OrderLedger(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.TotalOrders = stats.TotalOrders
	out.GrossRevenue = stats.GrossRevenue
	out.CompletedRevenue = stats.CompletedRevenue
	out.MonthlyRevenue = monthly(ledger)
	return &out, nil
}

// monthly buckets orders by UTC calendar month, ascending.
func monthly(orders []models.Order) []MonthlyRevenue {
	buckets := make(map[string]*MonthlyRevenue)
	for _, o := range orders {
		key := o.CreatedAt.UTC().Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			b = &MonthlyRevenue{Month: key, GrossRevenue: decimal.Zero, CompletedRevenue: decimal.Zero}
			buckets[key] = b
		}
		b.Orders++
		b.GrossRevenue = b.GrossRevenue.Add(o.TotalAmount)
		if o.Status == models.OrderStatusCompleted {
			b.CompletedRevenue = b.CompletedRevenue.Add(o.TotalAmount)
		}
	}

	out := make([]MonthlyRevenue, 0, len(buckets))
	for _, b := range buckets {
		b.GrossRevenue = b.GrossRevenue.Round(2)
		b.CompletedRevenue = b.CompletedRevenue.Round(2)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
