package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/agro_shop/internal/repo"
	"github.com/Skotchmaster/agro_shop/internal/rpc"
	"github.com/Skotchmaster/agro_shop/internal/service"
	"github.com/Skotchmaster/agro_shop/internal/session"
)

const RPCPrefix = "/api/trpc"

type Deps struct {
	Repo      *repo.GormRepo
	Sessions  *session.Manager
	Auth      *service.AuthService
	Catalog   *service.CatalogService
	Cart      *service.CartService
	Favorites *service.FavoriteService
	Orders    *service.OrderService

	CORSOrigins []string
	StaticDir   string
}

// Register mounts the procedure router, health checks and the optional
// single-page app on e. Recover, request id and logging middleware are
// expected to be installed by the caller.
func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/ready", ready(d.Repo))

	api := e.Group(RPCPrefix)
	if len(d.CORSOrigins) > 0 {
		api.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, "trpc-accept"},
			AllowCredentials: true,
		}))
	}
	api.Use(d.Sessions.Middleware(d.Repo))
	NewRPCRouter(d).Mount(api)

	if d.StaticDir != "" {
		e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
			Root:  d.StaticDir,
			HTML5: true,
			Skipper: func(c echo.Context) bool {
				p := c.Request().URL.Path
				return strings.HasPrefix(p, "/api/") || strings.HasPrefix(p, "/health/")
			},
		}))
	}
}

// NewRPCRouter wires every procedure group.
func NewRPCRouter(d *Deps) *rpc.Router {
	r := rpc.NewRouter(
		rpc.WithAuth(session.Authenticated),
		rpc.WithErrorMapper(mapError),
	)
	(&AuthRPC{Svc: d.Auth, Sessions: d.Sessions}).register(r.Group("auth"))
	(&ProductRPC{Svc: d.Catalog}).register(r.Group("products"))
	(&CartRPC{Svc: d.Cart}).register(r.Group("cart"))
	(&FavoriteRPC{Svc: d.Favorites}).register(r.Group("favorites"))
	(&OrderRPC{Svc: d.Orders}).register(r.Group("orders"))
	return r
}

func ready(r *repo.GormRepo) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !r.Available() {
			return c.JSON(http.StatusOK, map[string]string{"status": "ok", "database": "not configured"})
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := r.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "database": "down"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "database": "up"})
	}
}
