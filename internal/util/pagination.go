package util

import (
	"math"
	"strconv"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPage keeps page*size inside int32 so offsets never overflow.
	MaxPage = math.MaxInt32 / MaxPageSize
)

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	if page > MaxPage {
		return MaxPage
	}
	return page
}

// Calculate clamps page and size and returns the row offset for them.
func Calculate(page, size int) (from, limit int) {
	page = clampPage(page)
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	from = (page - 1) * size
	return from, size
}

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func TotalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

func NewMeta(page, limit int, total int64) Meta {
	page = clampPage(page)
	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: TotalPages(total, limit),
		HasPrev:    page > 1,
		HasNext:    int64(page)*int64(limit) < total,
	}
}

// OrderMeta is the pagination block of the order listings.
type OrderMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int64 `json:"total_pages"`
	TotalOrders int64 `json:"total_orders"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

func NewOrderMeta(page, limit int, total int64) OrderMeta {
	m := NewMeta(page, limit, total)
	return OrderMeta{
		CurrentPage: m.Page,
		TotalPages:  m.TotalPages,
		TotalOrders: m.Total,
		HasNext:     m.HasNext,
		HasPrev:     m.HasPrev,
	}
}
