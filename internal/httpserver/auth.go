package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog_panel/internal/service"
	"github.com/Skotchmaster/catalog_panel/internal/transport"
)

func (h *PanelHTTP) LoginPage(c echo.Context) error {
	return c.Render(http.StatusOK, pageLogin, h.newPage(c, "Login"))
}

func (h *PanelHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := h.logger(c).With("handler", "auth.login")

	var form transport.LoginForm
	if err := c.Bind(&form); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid form", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	nav, err := h.Auth.Login(ctx, form)
	if err != nil {
		if errors.Is(err, service.ErrNoSession) {
			l.Error("login_error", "status", 500, "reason", "no session", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "no session")
		}
		return c.Redirect(http.StatusSeeOther, service.LoginPath)
	}
	return h.navigate(c, nav)
}

func (h *PanelHTTP) RegisterPage(c echo.Context) error {
	return c.Render(http.StatusOK, pageRegister, h.newPage(c, "Register"))
}

func (h *PanelHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := h.logger(c).With("handler", "auth.register")

	var form transport.RegisterForm
	if err := c.Bind(&form); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid form", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	nav, err := h.Auth.Register(ctx, form)
	if err != nil {
		return c.Redirect(http.StatusSeeOther, service.RegisterPath)
	}
	return h.navigate(c, nav)
}

func (h *PanelHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := h.logger(c).With("handler", "auth.logout")

	nav, err := h.newDashboard().Logout(ctx)
	if err != nil {
		l.Error("logout_error", "status", 500, "reason", "cannot clear session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot clear session")
	}
	l.Info("logout_success")
	return h.navigate(c, nav)
}
