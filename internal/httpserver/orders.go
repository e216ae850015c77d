package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/agro_shop/internal/rpc"
	"github.com/Skotchmaster/agro_shop/internal/service"
)

type OrderRPC struct {
	Svc *service.OrderService
}

type orderByIDInput struct {
	ID uint `json:"id" validate:"required"`
}

type orderItemsInput struct {
	OrderID uint `json:"orderId" validate:"required"`
}

func (h *OrderRPC) register(g *rpc.Group) {
	g.ProtectedQuery("list", rpc.NoInput(h.list))
	g.ProtectedQuery("getById", rpc.Bind(h.getByID))
	g.ProtectedQuery("getItems", rpc.Bind(h.getItems))
}

func (h *OrderRPC) list(c echo.Context) (any, error) {
	user, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	return h.Svc.List(c.Request().Context(), user.ID)
}

func (h *OrderRPC) getByID(c echo.Context, in orderByIDInput) (any, error) {
	user, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	return h.Svc.Get(c.Request().Context(), user.ID, in.ID)
}

func (h *OrderRPC) getItems(c echo.Context, in orderItemsInput) (any, error) {
	user, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	return h.Svc.Items(c.Request().Context(), user.ID, in.OrderID)
}
