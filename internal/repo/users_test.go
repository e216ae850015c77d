package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/agro_shop/internal/models"
)

func strPtr(s string) *string { return &s }

func TestUpsertUserRequiresOpenID(t *testing.T) {
	r := newTestRepo(t)
	err := r.UpsertUser(context.Background(), UpsertUserInput{OpenID: " "})
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpsertUserInsertThenUpdate(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	first := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, r.UpsertUser(ctx, UpsertUserInput{
		OpenID:       "u-1",
		Name:         strPtr("Ivan"),
		Email:        strPtr("ivan@example.com"),
		LoginMethod:  strPtr("email"),
		LastSignedIn: &first,
	}))

	u, err := r.GetUserByOpenID(ctx, "u-1")
	require.NoError(t, err)
	require.NotNil(t, u.Name)
	assert.Equal(t, "Ivan", *u.Name)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.True(t, first.Equal(u.LastSignedIn))

	// only lastSignedIn and email change; empty email clears it
	second := first.Add(time.Hour)
	require.NoError(t, r.UpsertUser(ctx, UpsertUserInput{OpenID: "u-1", Email: strPtr(""), LastSignedIn: &second}))

	u, err = r.GetUserByOpenID(ctx, "u-1")
	require.NoError(t, err)
	require.NotNil(t, u.Name)
	assert.Equal(t, "Ivan", *u.Name)
	assert.Nil(t, u.Email)
	require.NotNil(t, u.LoginMethod)
	assert.Equal(t, "email", *u.LoginMethod)
	assert.True(t, second.Equal(u.LastSignedIn))

	var n int64
	require.NoError(t, r.DB.Model(&models.User{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestUpsertUserRoles(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	owner := seedUser(t, r, "owner-1")
	assert.Equal(t, models.RoleAdmin, owner.Role)

	require.NoError(t, r.UpsertUser(ctx, UpsertUserInput{OpenID: "u-2", Role: strPtr(models.RoleAdmin)}))
	u, err := r.GetUserByOpenID(ctx, "u-2")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)

	// a later upsert without role keeps the stored one
	require.NoError(t, r.UpsertUser(ctx, UpsertUserInput{OpenID: "u-2"}))
	u, err = r.GetUserByOpenID(ctx, "u-2")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
}

func TestGetUserByEmailIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	require.NoError(t, r.UpsertUser(ctx, UpsertUserInput{OpenID: "u-3", Email: strPtr("farmer@example.com")}))

	u, err := r.GetUserByEmail(ctx, " Farmer@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "u-3", u.OpenID)

	_, err = r.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.GetUserByOpenID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
