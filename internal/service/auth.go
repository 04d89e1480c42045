package service

import (
	"context"
	"strings"
	"time"

	"github.com/Skotchmaster/catalog_panel/internal/apiclient"
	"github.com/Skotchmaster/catalog_panel/internal/events"
	"github.com/Skotchmaster/catalog_panel/internal/session"
	"github.com/Skotchmaster/catalog_panel/internal/transport"
	"github.com/Skotchmaster/catalog_panel/pkg/logging"
)

const (
	LoginRedirectDelay    = 1500 * time.Millisecond
	RegisterRedirectDelay = 2000 * time.Millisecond
)

type AuthAPI interface {
	Login(ctx context.Context, req transport.LoginRequest) (*transport.LoginResponse, error)
	Register(ctx context.Context, req transport.RegisterRequest) error
}

type AuthService struct {
	API      AuthAPI
	Store    session.Store
	Notifier Notifier
	Audit    events.Publisher
}

func (s *AuthService) Login(ctx context.Context, form transport.LoginForm) (*Navigation, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	sess := session.FromContext(ctx)
	if sess == nil {
		return nil, ErrNoSession
	}

	email := strings.TrimSpace(form.Email)
	if email == "" || form.Password == "" {
		notify(ctx, s.Notifier, session.LevelInfo, "Validation", "Email and password are required")
		return nil, ErrValidation
	}

	res, err := s.API.Login(ctx, transport.LoginRequest{Email: email, Password: form.Password})
	if err != nil {
		l.Warn("login_failed", "error", err)
		notify(ctx, s.Notifier, session.LevelError, "Login Failed", apiclient.ServerMessage(err, "Invalid credentials"))
		return nil, err
	}

	// A login always starts a new session id so a cookie planted before it is worthless.
	prevID := sess.ID
	sess.ID = session.NewID()
	sess.Token = res.Token
	sess.Role = res.Role
	if err := s.Store.Save(ctx, sess); err != nil {
		sess.ID = prevID
		sess.Forget()
		l.Error("login_failed", "reason", "cannot persist session", "error", err)
		notify(ctx, s.Notifier, session.LevelError, "Login Failed", "Invalid credentials")
		return nil, err
	}

	if err := s.Store.Delete(ctx, prevID); err != nil {
		l.Warn("previous_session_delete_failed", "error", err)
	}

	if s.Notifier != nil {
		s.Notifier.Notify(ctx, session.Notice{
			Level:     session.LevelSuccess,
			Title:     "Login Successful!",
			AutoClose: LoginRedirectDelay,
		})
	}

	l.Info("login_successful", "role", res.Role)
	events.Emit(ctx, s.Audit, events.Event{Type: events.TypeLoginSucceeded, SessionID: sess.ID, Role: res.Role})

	return &Navigation{To: DashboardPath, Delay: LoginRedirectDelay}, nil
}

// Register creates a regular account. Admin accounts are never requested from the panel.
func (s *AuthService) Register(ctx context.Context, form transport.RegisterForm) (*Navigation, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	req := transport.RegisterRequest{
		Name:     strings.TrimSpace(form.Name),
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
		Role:     session.RoleUser,
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		notify(ctx, s.Notifier, session.LevelInfo, "Validation", "Name, email and password are required")
		return nil, ErrValidation
	}

	if err := s.API.Register(ctx, req); err != nil {
		l.Warn("register_failed", "error", err)
		notify(ctx, s.Notifier, session.LevelError, "Registration Failed", apiclient.ServerMessage(err, "Unknown error"))
		return nil, err
	}

	if s.Notifier != nil {
		s.Notifier.Notify(ctx, session.Notice{
			Level:     session.LevelSuccess,
			Title:     "Registration Successful!",
			Text:      "Please login to continue.",
			AutoClose: RegisterRedirectDelay,
		})
	}

	l.Info("register_successful")
	if sess := session.FromContext(ctx); sess != nil {
		events.Emit(ctx, s.Audit, events.Event{Type: events.TypeRegistered, SessionID: sess.ID, Role: req.Role})
	}

	return &Navigation{To: LoginPath, Delay: RegisterRedirectDelay}, nil
}
