package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog_panel/internal/session"
	"github.com/Skotchmaster/catalog_panel/pkg/logging"
)

const sessionCookieMaxAge = 30 * 24 * 60 * 60

type SessionConfig struct {
	CookieName string
	Secure     bool
}

// SessionMiddleware binds the visitor session to the request context. Unknown
// or missing cookies always start a fresh, empty session under a new id; it is
// persisted on first write.
func SessionMiddleware(store session.Store, cfg SessionConfig) echo.MiddlewareFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = "panel_sid"
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			l := logging.FromContext(ctx)

			var sess *session.Session
			if ck, err := c.Cookie(cfg.CookieName); err == nil && ck.Value != "" {
				loaded, err := store.Load(ctx, ck.Value)
				switch {
				case err == nil:
					sess = loaded
				case errors.Is(err, session.ErrNotFound):
					l.Info("session_unknown", "reason", "cookie id not issued by store")
				default:
					l.Error("session_load_failed", "status", 500, "error", err)
					return echo.NewHTTPError(http.StatusInternalServerError, "cannot load session")
				}
			}
			if sess == nil {
				sess = &session.Session{ID: session.NewID()}
			}

			// Written just before the headers go out, so an id rotated by the handler is what the browser keeps.
			c.Response().Before(func() {
				c.SetCookie(&http.Cookie{
					Name:     cfg.CookieName,
					Value:    sess.ID,
					Path:     "/",
					MaxAge:   sessionCookieMaxAge,
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			})

			ctx = session.IntoContext(ctx, sess)
			ctx = logging.IntoContext(ctx, l.With("session", shortID(sess.ID)))
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
