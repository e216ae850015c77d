package httpserver

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/agro_shop/internal/models"
	"github.com/Skotchmaster/agro_shop/internal/rpc"
	"github.com/Skotchmaster/agro_shop/internal/service"
	"github.com/Skotchmaster/agro_shop/internal/session"
)

func mapError(err error) *rpc.Error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return rpc.Wrap(rpc.CodeBadRequest, errorMessage(err), err)
	case errors.Is(err, service.ErrNotFound):
		return rpc.Wrap(rpc.CodeNotFound, errorMessage(err), err)
	case errors.Is(err, service.ErrConflict):
		return rpc.Wrap(rpc.CodeConflict, errorMessage(err), err)
	case errors.Is(err, service.ErrUnauthorized):
		return rpc.Wrap(rpc.CodeUnauthorized, errorMessage(err), err)
	default:
		return rpc.Wrap(rpc.CodeInternal, "internal server error", err)
	}
}

// errorMessage keeps the text before the sentinel suffix, e.g.
// "quantity must be at least 1: validation" becomes "quantity must be at least 1".
func errorMessage(err error) string {
	msg := err.Error()
	for _, s := range []error{service.ErrValidation, service.ErrNotFound, service.ErrConflict, service.ErrUnauthorized} {
		if cut, ok := strings.CutSuffix(msg, ": "+s.Error()); ok {
			return cut
		}
		if cut, ok := strings.CutPrefix(msg, s.Error()+": "); ok {
			return cut
		}
	}
	return msg
}

// currentUser returns the session user; protected procedures always have one.
func currentUser(c echo.Context) (*models.User, error) {
	u := session.UserFromContext(c.Request().Context())
	if u == nil {
		return nil, rpc.NewError(rpc.CodeUnauthorized, "please login")
	}
	return u, nil
}
