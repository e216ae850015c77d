package session

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/agro_shop/internal/logging"
	"github.com/Skotchmaster/agro_shop/internal/models"
)

const tokenContextKey = "session_token"

type ctxKey struct{}

type UserLookup interface {
	GetUserByOpenID(ctx context.Context, openID string) (*models.User, error)
}

// Middleware reads the session from the cookie or a bearer header and, when
// it resolves to a stored user, attaches that user to the request context.
// Missing or invalid sessions leave the request anonymous.
func (m *Manager) Middleware(users UserLookup) echo.MiddlewareFunc {
	parse := echojwt.WithConfig(echojwt.Config{
		SigningKey:    m.Secret,
		SigningMethod: "HS256",
		ContextKey:    tokenContextKey,
		TokenLookup:   "cookie:" + CookieName + ",header:Authorization:Bearer ",
		NewClaimsFunc: func(echo.Context) jwt.Claims { return new(Claims) },
		ErrorHandler: func(c echo.Context, err error) error {
			logging.FromContext(c.Request().Context()).Debug("session_ignored", "error", err)
			return nil
		},
		ContinueOnIgnoredError: true,
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return parse(attachUser(users, next))
	}
}

func attachUser(users UserLookup, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get(tokenContextKey).(*jwt.Token)
		if !ok || !token.Valid {
			return next(c)
		}
		claims, ok := token.Claims.(*Claims)
		if !ok || claims.Subject == "" {
			return next(c)
		}

		ctx := c.Request().Context()
		user, err := users.GetUserByOpenID(ctx, claims.Subject)
		if err != nil {
			logging.FromContext(ctx).Warn("session_user_lookup_failed", "open_id", claims.Subject, "error", err)
			return next(c)
		}

		ctx = IntoContext(ctx, user)
		ctx = logging.IntoContext(ctx, logging.FromContext(ctx).With("user_id", user.ID))
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

func IntoContext(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(ctxKey{}).(*models.User)
	return u
}

// Authenticated reports whether the request carries a resolved user.
func Authenticated(c echo.Context) bool {
	return UserFromContext(c.Request().Context()) != nil
}
