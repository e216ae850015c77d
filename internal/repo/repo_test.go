package repo

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/agro_shop/internal/models"
	"github.com/Skotchmaster/agro_shop/internal/testdb"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()
	return New(testdb.New(t), "owner-1")
}

func seedUser(t *testing.T, r *GormRepo, openID string) *models.User {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, r.UpsertUser(ctx, UpsertUserInput{OpenID: openID}))
	u, err := r.GetUserByOpenID(ctx, openID)
	require.NoError(t, err)
	return u
}

func seedProduct(t *testing.T, r *GormRepo, name, description, category string) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:        name,
		Description: description,
		Category:    category,
		Price:       models.MustMoney("100.50"),
		Stock:       5,
		Images:      models.StringList{fmt.Sprintf("/img/%s.jpg", name)},
		IsActive:    true,
	}
	require.NoError(t, r.CreateProduct(context.Background(), p))
	return p
}
