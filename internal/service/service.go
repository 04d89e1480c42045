// Package service holds the panel's view logic: login, registration and the
// product dashboard. It issues backend calls through small interfaces and
// reports outcomes to the visitor as notices.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/catalog_panel/internal/session"
	"github.com/Skotchmaster/catalog_panel/pkg/logging"
)

var (
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation failed")
	ErrNoSession  = errors.New("no visitor session in context")
)

const (
	LoginPath     = "/"
	RegisterPath  = "/register"
	DashboardPath = "/dashboard"
)

// Navigation tells the view where to go next and how long to wait first.
type Navigation struct {
	To    string
	Delay time.Duration
}

type Notifier interface {
	Notify(ctx context.Context, n session.Notice)
}

// StoreNotifier queues notices on the visitor session bound to the context.
type StoreNotifier struct {
	Store session.Store
}

func (n StoreNotifier) Notify(ctx context.Context, notice session.Notice) {
	l := logging.FromContext(ctx)
	s := session.FromContext(ctx)
	if s == nil {
		l.Warn("notice_dropped", "reason", "no session", "title", notice.Title)
		return
	}
	if err := n.Store.PushNotice(ctx, s.ID, notice); err != nil {
		l.Error("notice_dropped", "reason", "store", "title", notice.Title, "error", err)
	}
}

func notify(ctx context.Context, n Notifier, level session.Level, title, text string) {
	if n == nil {
		return
	}
	n.Notify(ctx, session.Notice{Level: level, Title: title, Text: text})
}
