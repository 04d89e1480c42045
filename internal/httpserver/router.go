package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog_panel/internal/session"
	"github.com/Skotchmaster/catalog_panel/pkg/middleware/csrf"
)

type Deps struct {
	Handler   *PanelHTTP
	Templates *Templates
	Store     session.Store
	Session   SessionConfig
	CSRF      csrf.Config
}

// CSRFConfig is the forgery protection every panel form post runs behind.
func CSRFConfig(secure bool) csrf.Config {
	cfg := csrf.DefaultConfig()
	cfg.Secure = secure
	return cfg
}

func Register(e *echo.Echo, d *Deps) {
	e.Renderer = d.Templates

	e.GET("/health/live", d.Handler.Live)
	e.GET("/health/ready", d.Handler.Ready)

	d.CSRF.Secure = d.CSRF.Secure || d.Session.Secure
	panel := e.Group("", SessionMiddleware(d.Store, d.Session), csrf.Middleware(d.CSRF))

	panel.GET("/", d.Handler.LoginPage)
	panel.POST("/login", d.Handler.Login)
	panel.GET("/register", d.Handler.RegisterPage)
	panel.POST("/register", d.Handler.Register)
	panel.POST("/logout", d.Handler.Logout)

	dash := panel.Group("/dashboard")
	dash.GET("", d.Handler.Dashboard)
	dash.POST("/products", d.Handler.CreateProduct)
	dash.GET("/products/:id/edit", d.Handler.EditPage)
	dash.POST("/products/:id", d.Handler.UpdateProduct)
	dash.GET("/products/:id/delete", d.Handler.DeletePage)
	dash.POST("/products/:id/delete", d.Handler.DeleteProduct)
}
