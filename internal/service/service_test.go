package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/agro_shop/internal/models"
	"github.com/Skotchmaster/agro_shop/internal/repo"
	"github.com/Skotchmaster/agro_shop/internal/testdb"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	return repo.New(testdb.New(t), "")
}

func seedUser(t *testing.T, r *repo.GormRepo, openID string) *models.User {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, r.UpsertUser(ctx, repo.UpsertUserInput{OpenID: openID}))
	u, err := r.GetUserByOpenID(ctx, openID)
	require.NoError(t, err)
	return u
}

func seedProduct(t *testing.T, r *repo.GormRepo, name, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:        name,
		Description: name + " description",
		Category:    "tractors",
		Price:       models.MustMoney(price),
		Stock:       stock,
		IsActive:    true,
	}
	require.NoError(t, r.CreateProduct(context.Background(), p))
	return p
}
