package service

import (
	"context"

	"github.com/Skotchmaster/catalog_panel/internal/events"
	"github.com/Skotchmaster/catalog_panel/internal/session"
	"github.com/Skotchmaster/catalog_panel/pkg/logging"
)

// SessionExpiry reacts to a 401 from the backend: the visitor's token and role
// are dropped and a blocking notice sends them back to the login page.
type SessionExpiry struct {
	Store    session.Store
	Notifier Notifier
	Audit    events.Publisher
}

func (e *SessionExpiry) Handle(ctx context.Context) {
	s := session.FromContext(ctx)
	if s == nil {
		return
	}
	l := logging.FromContext(ctx).With("svc", "session.expiry")

	role := s.Role
	s.Forget()
	if err := e.Store.Clear(ctx, s.ID); err != nil {
		l.Error("session_clear_failed", "error", err)
	}

	if e.Notifier != nil {
		e.Notifier.Notify(ctx, session.Notice{
			Level:    session.LevelWarning,
			Title:    "Session expired",
			Text:     "Your session has expired. Please login again.",
			AckURL:   LoginPath,
			AckLabel: "Go to Login",
		})
	}

	l.Info("session_expired")
	events.Emit(ctx, e.Audit, events.Event{Type: events.TypeSessionExpired, SessionID: s.ID, Role: role})
}
