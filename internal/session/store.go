package session

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("session not found")

type Store interface {
	// Load returns ErrNotFound for unknown ids.
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	// Clear removes the token and role but keeps the visitor's notices.
	Clear(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	// PushNotice creates an empty session for id when none is stored yet.
	PushNotice(ctx context.Context, id string, n Notice) error
	// PopNotices returns pending notices oldest first and forgets them.
	PopNotices(ctx context.Context, id string) ([]Notice, error)
	Ping(ctx context.Context) error
}
