// Package session holds the visitor's authentication state: the backend token
// and the role string returned at login, plus notices waiting to be shown.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

// CanManageProducts decides whether the product add/edit/delete controls are
// reachable. It gates the UI only; the backend re-checks every mutation.
func CanManageProducts(role string) bool {
	return role == RoleAdmin
}

// NewID returns a fresh, unguessable session id.
func NewID() string {
	return uuid.NewString()
}

type Session struct {
	ID    string
	Token string
	Role  string
}

func (s *Session) HasToken() bool {
	return s != nil && s.Token != ""
}

func (s *Session) IsAdmin() bool {
	return s != nil && CanManageProducts(s.Role)
}

// Forget drops the token and role together.
func (s *Session) Forget() {
	s.Token = ""
	s.Role = ""
}

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a message queued for the visitor's next rendered page.
type Notice struct {
	Level Level
	Title string
	Text  string
	// AckURL makes the notice blocking: its only action navigates there.
	AckURL   string
	AckLabel string
	// AutoClose hides the notice after the given time when non-zero.
	AutoClose time.Duration
}

func (n Notice) Blocking() bool {
	return n.AckURL != ""
}

type ctxKey struct{}

func IntoContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the visitor session bound to ctx, or nil.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(ctxKey{}).(*Session); ok {
		return s
	}
	return nil
}

// TokenFromContext returns the token of the session bound to ctx, or "".
func TokenFromContext(ctx context.Context) string {
	if s := FromContext(ctx); s != nil {
		return s.Token
	}
	return ""
}
