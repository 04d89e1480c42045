package events

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/catalog_panel/pkg/logging"
)

type recorder struct {
	events []Event
	err    error
}

func (r *recorder) Publish(_ context.Context, e Event) error {
	r.events = append(r.events, e)
	return r.err
}

func (r *recorder) Close() error { return nil }

func TestNew_WithoutBrokersIsNop(t *testing.T) {
	t.Parallel()

	p := New(nil, "panel_events")
	_, ok := p.(Nop)
	assert.True(t, ok)
	require.NoError(t, p.Publish(context.Background(), Event{Type: TypeLogout}))
	require.NoError(t, p.Close())

	_, ok = New([]string{"kafka:9092"}, "panel_events").(*Producer)
	assert.True(t, ok)
}

func TestEmit_StampsTimeAndSwallowsErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := logging.IntoContext(context.Background(), logging.NewWithWriter(&buf, "info"))

	r := &recorder{err: errors.New("broker down")}
	Emit(ctx, r, Event{Type: TypeProductDeleted, ProductID: "7"})

	require.Len(t, r.events, 1)
	assert.False(t, r.events[0].At.IsZero())
	assert.Contains(t, buf.String(), "audit_publish_failed")
	assert.Contains(t, buf.String(), "broker down")

	Emit(ctx, nil, Event{Type: TypeLogout})
}
