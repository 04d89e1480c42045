package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgdb "github.com/Skotchmaster/catalog_panel/pkg/db"
)

func newGormStore(t *testing.T) *GormStore {
	t.Helper()

	db, err := pkgdb.Open(context.Background(), pkgdb.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = pkgdb.Close(db) })

	st, err := NewGormStore(db)
	require.NoError(t, err)
	return st
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"gorm":   newGormStore(t),
	}
}

func TestStore_SaveLoadClear(t *testing.T) {
	for name, st := range stores(t) {
		st := st
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			id := uuid.NewString()

			_, err := st.Load(ctx, id)
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, st.Save(ctx, &Session{ID: id}))
			require.NoError(t, st.Save(ctx, &Session{ID: id, Token: "tok", Role: RoleAdmin}))

			got, err := st.Load(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, "tok", got.Token)
			assert.Equal(t, RoleAdmin, got.Role)

			require.NoError(t, st.Clear(ctx, id))
			got, err = st.Load(ctx, id)
			require.NoError(t, err)
			assert.Empty(t, got.Token)
			assert.Empty(t, got.Role)

			require.NoError(t, st.Delete(ctx, id))
			_, err = st.Load(ctx, id)
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_PushNoticePersistsNewSession(t *testing.T) {
	for name, st := range stores(t) {
		st := st
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			id := uuid.NewString()

			require.NoError(t, st.PushNotice(ctx, id, Notice{Title: "first"}))
			got, err := st.Load(ctx, id)
			require.NoError(t, err)
			assert.False(t, got.HasToken())

			require.NoError(t, st.Save(ctx, &Session{ID: id, Token: "tok", Role: RoleUser}))
			require.NoError(t, st.PushNotice(ctx, id, Notice{Title: "second"}))
			got, err = st.Load(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, "tok", got.Token)
		})
	}
}

func TestStore_NoticesArePoppedInOrder(t *testing.T) {
	for name, st := range stores(t) {
		st := st
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			id := uuid.NewString()
			other := uuid.NewString()

			require.NoError(t, st.PushNotice(ctx, id, Notice{Level: LevelError, Title: "first"}))
			require.NoError(t, st.PushNotice(ctx, id, Notice{
				Level:     LevelWarning,
				Title:     "second",
				AckURL:    "/",
				AutoClose: 1500 * time.Millisecond,
			}))
			require.NoError(t, st.PushNotice(ctx, other, Notice{Title: "not mine"}))

			got, err := st.PopNotices(ctx, id)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "first", got[0].Title)
			assert.Equal(t, "second", got[1].Title)
			assert.True(t, got[1].Blocking())
			assert.Equal(t, 1500*time.Millisecond, got[1].AutoClose)

			got, err = st.PopNotices(ctx, id)
			require.NoError(t, err)
			assert.Empty(t, got)

			got, err = st.PopNotices(ctx, other)
			require.NoError(t, err)
			assert.Len(t, got, 1)
		})
	}
}

func TestInspectToken(t *testing.T) {
	t.Parallel()

	now := time.Now()
	assert.Equal(t, TokenMissing, InspectToken("", now))
	assert.Equal(t, TokenMalformed, InspectToken("not.a-token", now))
	assert.Equal(t, TokenExpired, InspectToken(testToken(t, now.Add(-time.Minute)), now))
	assert.Equal(t, TokenValid, InspectToken(testToken(t, now.Add(time.Hour)), now))
}

func TestCanManageProducts(t *testing.T) {
	t.Parallel()

	assert.True(t, CanManageProducts(RoleAdmin))
	assert.False(t, CanManageProducts(RoleUser))
	assert.False(t, CanManageProducts(""))
	assert.False(t, CanManageProducts("admin"))

	var nilSession *Session
	assert.False(t, nilSession.IsAdmin())
	assert.False(t, nilSession.HasToken())
}

func TestContext(t *testing.T) {
	t.Parallel()

	assert.Nil(t, FromContext(context.Background()))

	s := &Session{ID: "x"}
	ctx := IntoContext(context.Background(), s)
	assert.Same(t, s, FromContext(ctx))
}
