package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/agro_shop/internal/logging"
	"github.com/Skotchmaster/agro_shop/internal/rpc"
	"github.com/Skotchmaster/agro_shop/internal/service"
)

type CartRPC struct {
	Svc *service.CartService
}

type addToCartInput struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  int  `json:"quantity" validate:"min=1"`
}

type cartItemInput struct {
	ID uint `json:"id" validate:"required"`
}

type updateQuantityInput struct {
	ID       uint `json:"id" validate:"required"`
	Quantity int  `json:"quantity" validate:"min=1"`
}

func (h *CartRPC) register(g *rpc.Group) {
	g.ProtectedQuery("list", rpc.NoInput(h.list))
	g.ProtectedMutation("add", rpc.Bind(h.add))
	g.ProtectedMutation("remove", rpc.Bind(h.remove))
	g.ProtectedMutation("updateQuantity", rpc.Bind(h.updateQuantity))
}

func (h *CartRPC) list(c echo.Context) (any, error) {
	user, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	return h.Svc.List(c.Request().Context(), user.ID)
}

func (h *CartRPC) add(c echo.Context, in addToCartInput) (any, error) {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	user, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	item, err := h.Svc.Add(ctx, user.ID, in.ProductID, in.Quantity)
	if err != nil {
		return nil, err
	}
	l.Info("add_to_cart_success", "product_id", in.ProductID, "quantity", item.Quantity)
	return item, nil
}

func (h *CartRPC) remove(c echo.Context, in cartItemInput) (any, error) {
	user, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	if err := h.Svc.Remove(c.Request().Context(), user.ID, in.ID); err != nil {
		return nil, err
	}
	return map[string]bool{"success": true}, nil
}

func (h *CartRPC) updateQuantity(c echo.Context, in updateQuantityInput) (any, error) {
	user, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	return h.Svc.UpdateQuantity(c.Request().Context(), user.ID, in.ID, in.Quantity)
}
