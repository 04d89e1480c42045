package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog_panel/internal/apiclient"
	panelcfg "github.com/Skotchmaster/catalog_panel/internal/config"
	"github.com/Skotchmaster/catalog_panel/internal/events"
	"github.com/Skotchmaster/catalog_panel/internal/httpserver"
	"github.com/Skotchmaster/catalog_panel/internal/service"
	"github.com/Skotchmaster/catalog_panel/internal/session"
	pkgdb "github.com/Skotchmaster/catalog_panel/pkg/db"
	"github.com/Skotchmaster/catalog_panel/pkg/logging"
)

func main() {
	panelcfg.LoadDotEnv()

	cfg, err := panelcfg.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.SessionDBDriver, cfg.SessionDBDSN)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	store, err := session.NewGormStore(db)
	if err != nil {
		log.Fatalf("session store: %v", err)
	}

	audit := events.New(cfg.KafkaBrokers, cfg.AuditTopic)
	notifier := service.StoreNotifier{Store: store}
	expiry := &service.SessionExpiry{Store: store, Notifier: notifier, Audit: audit}

	api := apiclient.NewClient(cfg.APIBaseURL, apiclient.TokenSourceFunc(session.TokenFromContext), expiry.Handle)

	handler := &httpserver.PanelHTTP{
		Auth:     &service.AuthService{API: api, Store: store, Notifier: notifier, Audit: audit},
		Products: api,
		Store:    store,
		Notifier: notifier,
		Audit:    audit,
	}

	templates, err := httpserver.NewTemplates()
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(httpserver.Common(logger)...)

	httpserver.Register(e, &httpserver.Deps{
		Handler:   handler,
		Templates: templates,
		Store:     store,
		Session:   httpserver.SessionConfig{CookieName: cfg.SessionCookie, Secure: cfg.CookieSecure},
		CSRF:      httpserver.CSRFConfig(cfg.CookieSecure),
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("panel_listening", "addr", srv.Addr, "api", cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_failed", "error", err)
	}
	if err := audit.Close(); err != nil {
		logger.Error("audit_close_failed", "error", err)
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close_failed", "error", err)
	}

	logger.Info("panel_stopped")
}
