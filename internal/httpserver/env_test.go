package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/catalog_panel/internal/apiclient"
	"github.com/Skotchmaster/catalog_panel/internal/events"
	"github.com/Skotchmaster/catalog_panel/internal/service"
	"github.com/Skotchmaster/catalog_panel/internal/session"
	"github.com/Skotchmaster/catalog_panel/pkg/logging"
)

const testOrigin = "http://example.com"

// fakeBackend stands in for the catalog REST API.
type fakeBackend struct {
	mu sync.Mutex

	role         string
	token        string
	loginStatus  int
	loginBody    string
	unauthorized bool
	products     string

	calls  map[string]int
	bodies map[string]string
	auth   []string
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	b := &fakeBackend{
		role:     session.RoleAdmin,
		token:    signedToken(t, time.Now().Add(time.Hour)),
		products: `[{"id":1,"name":"Laptop","description":"14 inch","price":999.5}]`,
		calls:    map[string]int{},
		bodies:   map[string]string{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		b.record("login", r)
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.loginStatus != 0 {
			w.WriteHeader(b.loginStatus)
			_, _ = io.WriteString(w, b.loginBody)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": b.token, "role": b.role})
	})
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		b.record("register", r)
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("GET /api/v1/products", func(w http.ResponseWriter, r *http.Request) {
		if b.record("list", r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, b.products)
	})
	mux.HandleFunc("POST /api/v1/products", func(w http.ResponseWriter, r *http.Request) {
		if b.record("create", r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("PUT /api/v1/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if b.record("update:"+r.PathValue("id"), r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("DELETE /api/v1/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if b.record("delete:"+r.PathValue("id"), r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return b, srv
}

// record counts the call and reports whether the backend should answer 401.
func (b *fakeBackend) record(name string, r *http.Request) bool {
	body, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[name]++
	b.bodies[name] = string(body)
	b.auth = append(b.auth, r.Header.Get("Authorization"))
	return b.unauthorized
}

func (b *fakeBackend) count(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[name]
}

func (b *fakeBackend) body(name string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bodies[name]
}

func (b *fakeBackend) set(fn func(b *fakeBackend)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b)
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user@example.com",
		"exp": exp.Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return tok
}

type testEnv struct {
	E       *echo.Echo
	Store   *session.MemoryStore
	Backend *fakeBackend
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	backend, srv := newFakeBackend(t)
	store := session.NewMemoryStore()
	notifier := service.StoreNotifier{Store: store}
	audit := events.Nop{}
	expiry := &service.SessionExpiry{Store: store, Notifier: notifier, Audit: audit}
	api := apiclient.NewClient(srv.URL, apiclient.TokenSourceFunc(session.TokenFromContext), expiry.Handle)

	templates, err := NewTemplates()
	require.NoError(t, err)

	e := echo.New()
	e.Use(Common(logging.NewWithWriter(io.Discard, "error"))...)
	Register(e, &Deps{
		Handler: &PanelHTTP{
			Auth:     &service.AuthService{API: api, Store: store, Notifier: notifier, Audit: audit},
			Products: api,
			Store:    store,
			Notifier: notifier,
			Audit:    audit,
		},
		Templates: templates,
		Store:     store,
		Session:   SessionConfig{CookieName: "panel_sid"},
		CSRF:      CSRFConfig(false),
	})

	return &testEnv{E: e, Store: store, Backend: backend}
}

// browser keeps cookies and the CSRF token between requests like a real one would.
type browser struct {
	t       *testing.T
	env     *testEnv
	cookies map[string]string
	csrf    string
}

func (env *testEnv) browser(t *testing.T) *browser {
	b := &browser{t: t, env: env, cookies: map[string]string{}}
	rec := b.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, b.csrf)
	require.NotEmpty(t, b.cookies["panel_sid"])
	return b
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (b *browser) post(target string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf_token", b.csrf)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.Header.Set("Origin", testOrigin)
	return b.do(req)
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for name, v := range b.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: v})
	}
	rec := httptest.NewRecorder()
	b.env.E.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		b.cookies[ck.Name] = ck.Value
	}
	if tok := rec.Header().Get("X-CSRF-Token"); tok != "" {
		b.csrf = tok
	}
	return rec
}

func (b *browser) session() *session.Session {
	b.t.Helper()
	s, err := b.env.Store.Load(context.Background(), b.cookies["panel_sid"])
	if err != nil {
		return &session.Session{ID: b.cookies["panel_sid"]}
	}
	return s
}

func (b *browser) login() {
	b.t.Helper()
	rec := b.post("/login", url.Values{"email": {"admin@example.com"}, "password": {"secret"}})
	require.Equal(b.t, http.StatusOK, rec.Code)
	require.Contains(b.t, rec.Body.String(), "Login Successful!")
	require.True(b.t, b.session().HasToken())
}
