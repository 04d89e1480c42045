package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog_panel/internal/events"
	"github.com/Skotchmaster/catalog_panel/internal/service"
	"github.com/Skotchmaster/catalog_panel/internal/session"
	"github.com/Skotchmaster/catalog_panel/pkg/logging"
)

type PanelHTTP struct {
	Auth     *service.AuthService
	Products service.ProductAPI
	Store    session.Store
	Notifier service.Notifier
	Audit    events.Publisher
	Now      func() time.Time
}

func (h *PanelHTTP) logger(c echo.Context) *slog.Logger {
	return logging.FromContext(c.Request().Context())
}

func (h *PanelHTTP) newDashboard() *service.Dashboard {
	d := service.NewDashboard(h.Products, h.Store, h.Notifier, h.Audit)
	if h.Now != nil {
		d.Now = h.Now
	}
	return d
}

// navigate follows a service navigation: immediately with a redirect, or
// through a transition page that shows the pending notices first.
func (h *PanelHTTP) navigate(c echo.Context, nav *service.Navigation) error {
	if nav.Delay <= 0 {
		return c.Redirect(http.StatusSeeOther, nav.To)
	}
	p := h.newPage(c, "Redirecting")
	p.RefreshContent = refreshContent(nav)
	p.RefreshURL = nav.To
	return c.Render(http.StatusOK, pageTransition, p)
}

func (h *PanelHTTP) Live(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (h *PanelHTTP) Ready(c echo.Context) error {
	if err := h.Store.Ping(c.Request().Context()); err != nil {
		h.logger(c).Error("ready_check_failed", "status", 503, "reason", "session store", "error", err)
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}
