package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/agro_shop/internal/rpc"
	"github.com/Skotchmaster/agro_shop/internal/service"
	"github.com/Skotchmaster/agro_shop/internal/util"
)

type ProductRPC struct {
	Svc *service.CatalogService
}

type listProductsInput struct {
	Limit  *int `json:"limit" validate:"omitempty,min=1,max=100"`
	Offset *int `json:"offset" validate:"omitempty,min=0"`
}

type productByIDInput struct {
	ID uint `json:"id" validate:"required"`
}

type searchProductsInput struct {
	Query    string `json:"query" validate:"max=200"`
	Category string `json:"category" validate:"max=100"`
}

func (h *ProductRPC) register(g *rpc.Group) {
	g.Query("list", rpc.Bind(h.list))
	g.Query("getById", rpc.Bind(h.getByID))
	g.Query("search", rpc.Bind(h.search))
}

func (h *ProductRPC) list(c echo.Context, in listProductsInput) (any, error) {
	limit, offset := util.DefaultPageSize, 0
	if in.Limit != nil {
		limit = *in.Limit
	}
	if in.Offset != nil {
		offset = *in.Offset
	}
	return h.Svc.List(c.Request().Context(), limit, offset)
}

func (h *ProductRPC) getByID(c echo.Context, in productByIDInput) (any, error) {
	return h.Svc.Get(c.Request().Context(), in.ID)
}

func (h *ProductRPC) search(c echo.Context, in searchProductsInput) (any, error) {
	return h.Svc.Search(c.Request().Context(), in.Query, in.Category)
}
