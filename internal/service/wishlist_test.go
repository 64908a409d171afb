package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/authz"
)

func TestWishlist(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	svc := &WishlistService{Repo: r}
	ctx := context.Background()
	u := seedUser(t, r, "w@x.com", authz.RoleUser)
	p := seedProduct(t, r, "Lamp", "10", true)
	inactive := seedProduct(t, r, "Old", "1", false)

	list, err := svc.List(ctx, u.ID)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	err = svc.Remove(ctx, u.ID, p.ID)
	assert.Equal(t, "Wishlist not found", Message(err))

	assert.Equal(t, "Product not found", Message(svc.Add(ctx, u.ID, uuid.New())))
	assert.Equal(t, "Product is not available", Message(svc.Add(ctx, u.ID, inactive.ID)))

	require.NoError(t, svc.Add(ctx, u.ID, p.ID))
	assert.Equal(t, "Product already in wishlist", Message(svc.Add(ctx, u.ID, p.ID)))

	list, err = svc.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)

	assert.Equal(t, "Product not found in wishlist", Message(svc.Remove(ctx, u.ID, inactive.ID)))

	cleared, err := svc.Clear(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, cleared)
	cleared, err = svc.Clear(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, cleared)
}
