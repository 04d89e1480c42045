package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/catalog_panel/internal/models"
	"github.com/Skotchmaster/catalog_panel/internal/session"
	"github.com/Skotchmaster/catalog_panel/internal/transport"
)

type fakeAPI struct {
	mu sync.Mutex

	products []models.Product

	listErr, createErr, updateErr, deleteErr error
	loginErr, registerErr                    error
	loginRes                                 *transport.LoginResponse

	lists   int
	creates []transport.ProductRequest
	updates map[models.ProductID]transport.ProductRequest
	deletes []models.ProductID
	logins  []transport.LoginRequest
	regs    []transport.RegisterRequest
}

func (f *fakeAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists + len(f.creates) + len(f.updates) + len(f.deletes)
}

func (f *fakeAPI) ListProducts(context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.products, nil
}

func (f *fakeAPI) CreateProduct(_ context.Context, req transport.ProductRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, req)
	return f.createErr
}

func (f *fakeAPI) UpdateProduct(_ context.Context, id models.ProductID, req transport.ProductRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updates == nil {
		f.updates = map[models.ProductID]transport.ProductRequest{}
	}
	f.updates[id] = req
	return f.updateErr
}

func (f *fakeAPI) DeleteProduct(_ context.Context, id models.ProductID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return f.deleteErr
}

func (f *fakeAPI) Login(_ context.Context, req transport.LoginRequest) (*transport.LoginResponse, error) {
	f.logins = append(f.logins, req)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginRes, nil
}

func (f *fakeAPI) Register(_ context.Context, req transport.RegisterRequest) error {
	f.regs = append(f.regs, req)
	return f.registerErr
}

type recordingNotifier struct {
	notices []session.Notice
}

func (r *recordingNotifier) Notify(_ context.Context, n session.Notice) {
	r.notices = append(r.notices, n)
}

func (r *recordingNotifier) titles() []string {
	out := make([]string, 0, len(r.notices))
	for _, n := range r.notices {
		out = append(out, n.Title)
	}
	return out
}

func (r *recordingNotifier) last() session.Notice {
	if len(r.notices) == 0 {
		return session.Notice{}
	}
	return r.notices[len(r.notices)-1]
}

type scriptedPrompter struct {
	edit    *transport.ProductRequest
	editErr error
	confirm bool

	asked []Confirmation
	seen  []models.Product
}

func (p *scriptedPrompter) EditProduct(_ context.Context, prod models.Product) (*transport.ProductRequest, error) {
	p.seen = append(p.seen, prod)
	return p.edit, p.editErr
}

func (p *scriptedPrompter) Confirm(_ context.Context, c Confirmation) (bool, error) {
	p.asked = append(p.asked, c)
	return p.confirm, nil
}

var errBackend = errors.New("backend down")

func tokenExpiringAt(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "a@b.com",
		"role": session.RoleAdmin,
		"exp":  exp.Unix(),
	}).SignedString([]byte("test-jwt-secret"))
	require.NoError(t, err)
	return tok
}

type dashboardEnv struct {
	api      *fakeAPI
	store    *session.MemoryStore
	notifier *recordingNotifier
	sess     *session.Session
	ctx      context.Context
	d        *Dashboard
}

func newDashboardEnv(t *testing.T, token, role string) *dashboardEnv {
	t.Helper()

	env := &dashboardEnv{
		api:      &fakeAPI{products: []models.Product{{ID: "1", Name: "tea", Price: 3}}},
		store:    session.NewMemoryStore(),
		notifier: &recordingNotifier{},
		sess:     &session.Session{ID: "sid-1", Token: token, Role: role},
	}
	env.ctx = session.IntoContext(context.Background(), env.sess)
	require.NoError(t, env.store.Save(env.ctx, env.sess))
	env.d = NewDashboard(env.api, env.store, env.notifier, nil)
	return env
}

func (env *dashboardEnv) stored(t *testing.T) *session.Session {
	t.Helper()
	s, err := env.store.Load(env.ctx, env.sess.ID)
	require.NoError(t, err)
	return s
}
