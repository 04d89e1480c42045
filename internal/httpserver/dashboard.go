package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog_panel/internal/apiclient"
	"github.com/Skotchmaster/catalog_panel/internal/models"
	"github.com/Skotchmaster/catalog_panel/internal/service"
	"github.com/Skotchmaster/catalog_panel/internal/session"
	"github.com/Skotchmaster/catalog_panel/internal/transport"
)

func (h *PanelHTTP) Dashboard(c echo.Context) error {
	d := h.newDashboard()
	st, err := d.Mount(c.Request().Context())
	if st != service.GuardAuthenticated || errors.Is(err, apiclient.ErrUnauthorized) {
		return c.Redirect(http.StatusSeeOther, service.LoginPath)
	}
	return h.renderDashboard(c, d, nil)
}

func (h *PanelHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := h.logger(c).With("handler", "dashboard.create_product")

	var form transport.ProductForm
	if err := c.Bind(&form); err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "invalid form", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	d := h.newDashboard()
	if d.Check(ctx) != service.GuardAuthenticated {
		return c.Redirect(http.StatusSeeOther, service.LoginPath)
	}
	return h.finish(c, d, d.Create(ctx, form))
}

func (h *PanelHTTP) EditPage(c echo.Context) error {
	ctx := c.Request().Context()

	d := h.newDashboard()
	st, err := d.Mount(ctx)
	if st != service.GuardAuthenticated || errors.Is(err, apiclient.ErrUnauthorized) {
		return c.Redirect(http.StatusSeeOther, service.LoginPath)
	}

	id := models.ProductID(c.Param("id"))
	p, ok := findProduct(d.Products(), id)
	if !ok {
		if err == nil {
			h.Notifier.Notify(ctx, session.Notice{Level: session.LevelError, Title: "Error", Text: "Product not found"})
		}
		return h.renderDashboard(c, d, nil)
	}

	dialog := &dialogPrompter{}
	if err := d.Edit(ctx, p, dialog); err != nil && !errors.Is(err, service.ErrForbidden) {
		h.logger(c).Error("product_edit_dialog_error", "error", err)
	}
	return h.renderDashboard(c, d, func(pd *pageData) {
		pd.Edit = dialog.edit
	})
}

func (h *PanelHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := h.logger(c).With("handler", "dashboard.update_product")

	var form transport.ProductForm
	if err := c.Bind(&form); err != nil {
		l.Warn("product_update_error", "status", 400, "reason", "invalid form", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	d := h.newDashboard()
	if d.Check(ctx) != service.GuardAuthenticated {
		return c.Redirect(http.StatusSeeOther, service.LoginPath)
	}

	p := models.Product{ID: models.ProductID(c.Param("id"))}
	answer := formPrompter{action: c.FormValue("action"), form: form}
	return h.finish(c, d, d.Edit(ctx, p, answer))
}

func (h *PanelHTTP) DeletePage(c echo.Context) error {
	ctx := c.Request().Context()

	d := h.newDashboard()
	st, err := d.Mount(ctx)
	if st != service.GuardAuthenticated || errors.Is(err, apiclient.ErrUnauthorized) {
		return c.Redirect(http.StatusSeeOther, service.LoginPath)
	}

	id := models.ProductID(c.Param("id"))
	target, ok := findProduct(d.Products(), id)
	if !ok {
		target = models.Product{ID: id}
	}

	dialog := &dialogPrompter{}
	if err := d.Delete(ctx, id, dialog); err != nil && !errors.Is(err, service.ErrForbidden) {
		h.logger(c).Error("product_delete_dialog_error", "error", err)
	}
	return h.renderDashboard(c, d, func(pd *pageData) {
		if dialog.confirm != nil {
			pd.Confirm = dialog.confirm
			pd.Target = &target
		}
	})
}

func (h *PanelHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	d := h.newDashboard()
	if d.Check(ctx) != service.GuardAuthenticated {
		return c.Redirect(http.StatusSeeOther, service.LoginPath)
	}

	id := models.ProductID(c.Param("id"))
	answer := formPrompter{action: c.FormValue("action")}
	return h.finish(c, d, d.Delete(ctx, id, answer))
}

// finish renders the dashboard after a product action. A successful action has
// already refreshed the list; otherwise it is fetched here so the page is complete.
func (h *PanelHTTP) finish(c echo.Context, d *service.Dashboard, actionErr error) error {
	if errors.Is(actionErr, apiclient.ErrUnauthorized) {
		return c.Redirect(http.StatusSeeOther, service.LoginPath)
	}
	if !d.Fetched() {
		if err := d.Fetch(c.Request().Context()); errors.Is(err, apiclient.ErrUnauthorized) {
			return c.Redirect(http.StatusSeeOther, service.LoginPath)
		}
	}
	return h.renderDashboard(c, d, nil)
}

func (h *PanelHTTP) renderDashboard(c echo.Context, d *service.Dashboard, with func(*pageData)) error {
	p := h.newPage(c, "Dashboard")
	p.Products = d.Products()
	p.Form = d.Form()
	if with != nil {
		with(p)
	}
	return c.Render(http.StatusOK, pageDashboard, p)
}

func findProduct(items []models.Product, id models.ProductID) (models.Product, bool) {
	for _, p := range items {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}
