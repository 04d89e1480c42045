package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/catalog_panel/pkg/config"
	"github.com/Skotchmaster/catalog_panel/pkg/db"
)

type Config struct {
	ListenAddr  string
	APIBaseURL  string
	ServiceName string
	LogLevel    string

	SessionDBDriver string
	SessionDBDSN    string
	SessionCookie   string
	CookieSecure    bool

	KafkaBrokers []string
	AuditTopic   string

	ShutdownTimeout time.Duration
}

// LoadDotEnv reads the given files into the environment. Missing files are not an error.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			log.Printf("notice: %s not loaded: %v, using system environment variables", f, err)
		}
	}
}

func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:      config.EnvDefault("PANEL_ADDR", ":3000"),
		APIBaseURL:      config.EnvDefault("API_BASE_URL", "http://localhost:8080"),
		ServiceName:     config.EnvDefault("SERVICE_NAME", "catalog-panel"),
		LogLevel:        config.EnvDefault("LOG_LEVEL", "info"),
		SessionDBDriver: config.EnvDefault("SESSION_DB_DRIVER", db.DriverSQLite),
		SessionDBDSN:    config.EnvDefault("SESSION_DB_DSN", "panel.db"),
		SessionCookie:   config.EnvDefault("SESSION_COOKIE", "panel_sid"),
		CookieSecure:    config.EnvBoolDefault("COOKIE_SECURE", false),
		KafkaBrokers:    config.CSV(config.EnvDefault("KAFKA_BROKERS", "")),
		AuditTopic:      config.EnvDefault("AUDIT_TOPIC", "panel_events"),
		ShutdownTimeout: time.Duration(config.EnvIntDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if err := config.RequireNonEmpty(c.APIBaseURL, "API_BASE_URL"); err != nil {
		return err
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL %q is not an absolute url", c.APIBaseURL)
	}

	switch c.SessionDBDriver {
	case db.DriverSQLite, db.DriverPostgres:
	default:
		return fmt.Errorf("unsupported SESSION_DB_DRIVER %q", c.SessionDBDriver)
	}
	if err := config.RequireNonEmpty(c.SessionDBDSN, "SESSION_DB_DSN"); err != nil {
		return err
	}
	if len(c.KafkaBrokers) > 0 && c.AuditTopic == "" {
		return errors.New("AUDIT_TOPIC must be set when KAFKA_BROKERS is set")
	}
	return nil
}
