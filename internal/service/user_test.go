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

func TestUsers_ProfileAndEmail(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	svc := &UserService{Repo: r}
	ctx := context.Background()
	a := seedUser(t, r, "a@x.com", authz.RoleUser)
	seedUser(t, r, "b@x.com", authz.RoleUser)

	_, err := svc.Profile(ctx, uuid.New())
	assert.Equal(t, "User not found", Message(err))

	_, err = svc.UpdateEmail(ctx, a.ID, "B@x.com")
	assert.True(t, errors.Is(err, ErrConflict))

	u, err := svc.UpdateEmail(ctx, a.ID, "new@x.com")
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", u.Email)

	got, err := svc.Profile(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", got.Email)
}

func TestUsers_AdminOps(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	pub := &recordingPublisher{}
	svc := &UserService{Repo: r, Events: pub}
	ctx := context.Background()
	a := seedUser(t, r, "alice@x.com", authz.RoleUser)
	seedUser(t, r, "albert@x.com", authz.RoleUser)
	seedUser(t, r, "bob@x.com", authz.RoleUser)
	seedUser(t, r, "a_b@x.com", authz.RoleUser)

	users, meta, err := svc.List(ctx, "AL", 1, 10)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, int64(2), meta.Total)

	users, _, err = svc.List(ctx, "a_", 1, 10)
	require.NoError(t, err)
	require.Len(t, users, 1, "LIKE wildcards in the term are literal")
	assert.Equal(t, "a_b@x.com", users[0].Email)

	_, err = svc.SetRole(ctx, a.ID, "root")
	assert.True(t, errors.Is(err, ErrValidation))
	_, err = svc.SetRole(ctx, uuid.New(), "admin")
	assert.True(t, errors.Is(err, ErrNotFound))

	u, err := svc.SetRole(ctx, a.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Role)

	require.NoError(t, svc.Delete(ctx, a.ID))
	assert.True(t, errors.Is(svc.Delete(ctx, a.ID), ErrNotFound))

	assert.Equal(t, []string{"user_role_changed", "user_deleted"}, pub.types())
}
