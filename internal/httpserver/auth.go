package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/agro_shop/internal/logging"
	"github.com/Skotchmaster/agro_shop/internal/models"
	"github.com/Skotchmaster/agro_shop/internal/rpc"
	"github.com/Skotchmaster/agro_shop/internal/service"
	"github.com/Skotchmaster/agro_shop/internal/session"
)

type AuthRPC struct {
	Svc      *service.AuthService
	Sessions *session.Manager
}

type registerInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthRPC) register(g *rpc.Group) {
	g.Query("me", rpc.NoInput(h.me))
	g.Mutation("logout", rpc.NoInput(h.logout))
	g.Mutation("register", rpc.Bind(h.registerUser))
	g.Mutation("login", rpc.Bind(h.login))
}

func (h *AuthRPC) me(c echo.Context) (any, error) {
	return session.UserFromContext(c.Request().Context()), nil
}

func (h *AuthRPC) logout(c echo.Context) (any, error) {
	h.Sessions.ClearCookie(c)
	if u := session.UserFromContext(c.Request().Context()); u != nil {
		logging.FromContext(c.Request().Context()).Info("logout_success", "user_id", u.ID)
	}
	return map[string]bool{"success": true}, nil
}

func (h *AuthRPC) registerUser(c echo.Context, in registerInput) (any, error) {
	ctx := c.Request().Context()
	user, err := h.Svc.Register(ctx, service.RegisterInput{Name: in.Name, Email: in.Email, Password: in.Password})
	if err != nil {
		return nil, err
	}
	return h.startSession(c, user)
}

func (h *AuthRPC) login(c echo.Context, in loginInput) (any, error) {
	ctx := c.Request().Context()
	user, err := h.Svc.Login(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	return h.startSession(c, user)
}

func (h *AuthRPC) startSession(c echo.Context, user *models.User) (any, error) {
	token, exp, err := h.Sessions.Issue(user)
	if err != nil {
		return nil, err
	}
	h.Sessions.SetCookie(c, token, exp)
	return user, nil
}
