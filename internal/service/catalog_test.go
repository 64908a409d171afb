package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIndex struct {
	indexed   map[string]any
	searchErr error
	docs      []json.RawMessage
}

func (f *fakeIndex) IndexProduct(_ context.Context, id string, doc any) error {
	if f.indexed == nil {
		f.indexed = map[string]any{}
	}
	f.indexed[id] = doc
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id string) error {
	delete(f.indexed, id)
	return nil
}

func (f *fakeIndex) SearchProducts(context.Context, string, int, int) (int64, []json.RawMessage, error) {
	if f.searchErr != nil {
		return 0, nil, f.searchErr
	}
	return int64(len(f.docs)), f.docs, nil
}

func productCmd(categoryID uuid.UUID, name, brand, price string) ProductCommand {
	return ProductCommand{
		Name:       name,
		Brand:      brand,
		Price:      decimal.RequireFromString(price),
		CategoryID: categoryID,
		Stock:      5,
		IsActive:   true,
	}
}

func TestCatalog_Categories(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, CategoryCommand{Name: "Lighting", Description: "Lamps and bulbs"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, CategoryCommand{Name: "lighting", Description: "Duplicate category"})
	assert.True(t, errors.Is(err, ErrConflict))

	_, err = svc.UpdateCategory(ctx, uuid.New(), CategoryCommand{Name: "X1", Description: "whatever text"})
	assert.Equal(t, "Category not found", Message(err))

	updated, err := svc.UpdateCategory(ctx, c.ID, CategoryCommand{Name: "Lights", Description: "Lamps and bulbs"})
	require.NoError(t, err)
	assert.Equal(t, "Lights", updated.Name)

	all, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCatalog_ProductLifecycle(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	idx := &fakeIndex{}
	pub := &recordingPublisher{}
	svc := &CatalogService{Repo: r, Index: idx, Events: pub}
	ctx := context.Background()
	cat := seedCategory(t, r, "Lighting")

	_, err := svc.CreateProduct(ctx, productCmd(uuid.New(), "Lamp", "Acme", "10"))
	assert.Equal(t, "Category not found", Message(err))

	_, err = svc.CreateProduct(ctx, productCmd(cat.ID, "Lamp", "Acme", "-1"))
	assert.True(t, errors.Is(err, ErrValidation))

	p, err := svc.CreateProduct(ctx, productCmd(cat.ID, "Lamp", "Acme", "10.499"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("10.50").Equal(p.Price))
	assert.Contains(t, idx.indexed, p.ID.String())

	cmd := productCmd(cat.ID, "Desk Lamp", "Acme", "12")
	cmd.IsActive = false
	updated, err := svc.UpdateProduct(ctx, p.ID, cmd)
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", updated.Name)
	assert.False(t, updated.IsActive)
	assert.NotContains(t, idx.indexed, p.ID.String())

	stored, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	_, err = svc.UpdateProduct(ctx, uuid.New(), cmd)
	assert.Equal(t, "Product not found", Message(err))

	assert.Equal(t, []string{"product_created", "product_updated"}, pub.types())
}

func TestCatalog_FilterBrandsAndPaging(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()
	cat := seedCategory(t, r, "Lighting")

	for _, c := range []ProductCommand{
		productCmd(cat.ID, "Lamp", "Zeta", "5"),
		productCmd(cat.ID, "Bulb", "Acme", "15"),
		productCmd(cat.ID, "Shade", "Acme", "25"),
	} {
		_, err := svc.CreateProduct(ctx, c)
		require.NoError(t, err)
	}

	brands, err := svc.Brands(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Zeta"}, brands)

	lo, hi := decimal.NewFromInt(10), decimal.NewFromInt(20)
	items, meta, err := svc.FilterProducts(ctx, ProductQuery{MinPrice: &lo, MaxPrice: &hi}, 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Bulb", items[0].Name)
	assert.Equal(t, int64(1), meta.Total)

	items, _, err = svc.FilterProducts(ctx, ProductQuery{Brand: "acme", CategoryID: &cat.ID}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	stars := 1.0
	items, _, err = svc.FilterProducts(ctx, ProductQuery{MinStars: &stars}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, _, err = svc.FilterProducts(ctx, ProductQuery{MinPrice: &hi, MaxPrice: &lo}, 1, 10)
	assert.True(t, errors.Is(err, ErrValidation))

	items, meta, err = svc.Products(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(3), meta.Total)
	assert.Equal(t, int64(2), meta.TotalPages)
	assert.True(t, meta.HasPrev)
	assert.False(t, meta.HasNext)
}

func TestCatalog_SearchFallsBackToDatabase(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	svc := &CatalogService{Repo: r, Index: &fakeIndex{searchErr: errors.New("es down")}}
	ctx := context.Background()
	cat := seedCategory(t, r, "Lighting")

	_, err := svc.CreateProduct(ctx, productCmd(cat.ID, "Reading Lamp", "Acme", "5"))
	require.NoError(t, err)
	hidden := productCmd(cat.ID, "Old Lamp", "Acme", "5")
	hidden.IsActive = false
	_, err = svc.CreateProduct(ctx, hidden)
	require.NoError(t, err)

	items, meta, err := svc.Search(ctx, "LAMP", 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Reading Lamp", items[0].Name)
	assert.Equal(t, int64(1), meta.Total)

	_, _, err = svc.Search(ctx, "  ", 1, 10)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestCatalog_SearchDecodesIndexHits(t *testing.T) {
	t.Parallel()
	id := uuid.New()
	doc := json.RawMessage(`{"id":"` + id.String() + `","name":"Lamp","brand":"Acme","price":"9.99","is_active":true}`)
	svc := &CatalogService{Repo: newTestRepo(t), Index: &fakeIndex{docs: []json.RawMessage{doc}}}

	items, _, err := svc.Search(context.Background(), "lamp", 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
	assert.True(t, decimal.RequireFromString("9.99").Equal(items[0].Price))
}
