package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/agro_shop/internal/rpc"
	"github.com/Skotchmaster/agro_shop/internal/service"
)

type FavoriteRPC struct {
	Svc *service.FavoriteService
}

type favoriteInput struct {
	ProductID uint `json:"productId" validate:"required"`
}

func (h *FavoriteRPC) register(g *rpc.Group) {
	g.ProtectedQuery("list", rpc.NoInput(h.list))
	g.ProtectedMutation("add", rpc.Bind(h.add))
	g.ProtectedMutation("remove", rpc.Bind(h.remove))
}

func (h *FavoriteRPC) list(c echo.Context) (any, error) {
	user, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	return h.Svc.List(c.Request().Context(), user.ID)
}

func (h *FavoriteRPC) add(c echo.Context, in favoriteInput) (any, error) {
	user, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	return h.Svc.Add(c.Request().Context(), user.ID, in.ProductID)
}

func (h *FavoriteRPC) remove(c echo.Context, in favoriteInput) (any, error) {
	user, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	if err := h.Svc.Remove(c.Request().Context(), user.ID, in.ProductID); err != nil {
		return nil, err
	}
	return map[string]bool{"success": true}, nil
}
