package httpserver

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/agro_shop/internal/models"
)

func TestProductsList(t *testing.T) {
	app := newTestApp(t)
	app.product(t, "Tractor", "")
	hidden := &models.Product{Name: "Old baler", Category: "balers", IsActive: false}
	require.NoError(t, app.repo.CreateProduct(context.Background(), hidden))

	got := data[[]models.Product](t, app.query(t, "products.list", "", ""))
	assert.Len(t, got, 2)

	got = data[[]models.Product](t, app.query(t, "products.list", `{"limit":1,"offset":1}`, ""))
	require.Len(t, got, 1)
	assert.Equal(t, "Old baler", got[0].Name)

	rec := app.query(t, "products.list", `{"limit":101}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", errCode(t, rec))
}

func TestProductsGetByID(t *testing.T) {
	app := newTestApp(t)
	p := app.product(t, "Seeder", "12 rows")

	rec := app.query(t, "products.getById", `{"id":`+uintStr(p.ID)+`}`, "")
	assert.Contains(t, rec.Body.String(), `"price":"1000.00"`)
	got := data[*models.Product](t, rec)
	require.NotNil(t, got)
	assert.Equal(t, "Seeder", got.Name)
	assert.Equal(t, "1000", got.Price.String())

	rec = app.query(t, "products.getById", `{"id":424242}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"result":{"data":null}}`, rec.Body.String())

	rec = app.query(t, "products.getById", `{"id":0}`, "")
	assert.Equal(t, "BAD_REQUEST", errCode(t, rec))
	rec = app.query(t, "products.getById", `{"id":-3}`, "")
	assert.Equal(t, "BAD_REQUEST", errCode(t, rec))
}

func TestProductsSearch(t *testing.T) {
	app := newTestApp(t)
	app.product(t, "Tractor GPS kit", "Guidance")
	app.product(t, "Harvester", "Autosteer with GPS")
	app.product(t, "Plough", "Five furrow")

	got := data[[]models.Product](t, app.query(t, "products.search", `{"query":"GPS"}`, ""))
	names := make([]string, 0, len(got))
	for _, p := range got {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"Tractor GPS kit", "Harvester"}, names)

	got = data[[]models.Product](t, app.query(t, "products.search", `{"query":"GPS","category":"seeders"}`, ""))
	assert.Empty(t, got)
}
