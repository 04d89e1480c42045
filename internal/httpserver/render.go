package httpserver

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog_panel/internal/models"
	"github.com/Skotchmaster/catalog_panel/internal/service"
	"github.com/Skotchmaster/catalog_panel/internal/session"
	"github.com/Skotchmaster/catalog_panel/internal/transport"
	"github.com/Skotchmaster/catalog_panel/pkg/middleware/csrf"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageLogin      = "login"
	pageRegister   = "register"
	pageDashboard  = "dashboard"
	pageTransition = "transition"
)

type Templates struct {
	pages map[string]*template.Template
}

func NewTemplates() (*Templates, error) {
	t := &Templates{pages: make(map[string]*template.Template)}
	for _, name := range []string{pageLogin, pageRegister, pageDashboard, pageTransition} {
		tpl, err := template.New(name).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		t.pages[name] = tpl
	}
	return t, nil
}

func (t *Templates) Render(w io.Writer, name string, data any, _ echo.Context) error {
	tpl, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return tpl.ExecuteTemplate(w, "layout", data)
}

type noticeView struct {
	session.Notice
	AutoCloseMs int64
}

type pageData struct {
	Title   string
	CSRF    string
	Notices []noticeView

	RoleLabel string
	IsAdmin   bool

	Products []models.Product
	Form     transport.ProductForm
	Edit     *models.Product
	Confirm  *service.Confirmation
	Target   *models.Product

	RefreshContent string
	RefreshURL     string
}

func (h *PanelHTTP) newPage(c echo.Context, title string) *pageData {
	ctx := c.Request().Context()
	p := &pageData{Title: title, CSRF: csrf.Token(c)}

	sess := session.FromContext(ctx)
	if sess == nil {
		return p
	}
	p.IsAdmin = sess.IsAdmin()
	p.RoleLabel = "User"
	if p.IsAdmin {
		p.RoleLabel = "Admin"
	}

	notices, err := h.Store.PopNotices(ctx, sess.ID)
	if err != nil {
		h.logger(c).Error("notices_pop_failed", "error", err)
	}
	for _, n := range notices {
		p.Notices = append(p.Notices, noticeView{Notice: n, AutoCloseMs: n.AutoClose.Milliseconds()})
	}
	return p
}

func refreshContent(nav *service.Navigation) string {
	secs := strconv.FormatFloat(nav.Delay.Seconds(), 'f', -1, 64)
	return secs + ";url=" + nav.To
}
