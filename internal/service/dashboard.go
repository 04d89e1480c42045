package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Skotchmaster/catalog_panel/internal/apiclient"
	"github.com/Skotchmaster/catalog_panel/internal/events"
	"github.com/Skotchmaster/catalog_panel/internal/models"
	"github.com/Skotchmaster/catalog_panel/internal/session"
	"github.com/Skotchmaster/catalog_panel/internal/transport"
	"github.com/Skotchmaster/catalog_panel/pkg/logging"
)

type ProductAPI interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, req transport.ProductRequest) error
	UpdateProduct(ctx context.Context, id models.ProductID, req transport.ProductRequest) error
	DeleteProduct(ctx context.Context, id models.ProductID) error
}

type GuardState int

const (
	GuardUnchecked GuardState = iota
	GuardAuthenticated
	GuardRedirected
)

func (g GuardState) String() string {
	switch g {
	case GuardUnchecked:
		return "unchecked"
	case GuardAuthenticated:
		return "authenticated"
	case GuardRedirected:
		return "redirected"
	}
	return "unknown"
}

// Dashboard is the state of one dashboard view: the guard outcome, the last
// fetched product list, the add-product form and the loading flag. It is not
// safe for concurrent use; every visitor action gets its own view.
type Dashboard struct {
	API      ProductAPI
	Store    session.Store
	Notifier Notifier
	Audit    events.Publisher
	Now      func() time.Time

	state    GuardState
	products []models.Product
	fetched  bool
	form     transport.ProductForm
	loading  bool
}

func NewDashboard(api ProductAPI, store session.Store, notifier Notifier, audit events.Publisher) *Dashboard {
	return &Dashboard{
		API:      api,
		Store:    store,
		Notifier: notifier,
		Audit:    audit,
		Now:      time.Now,
	}
}

func (d *Dashboard) State() GuardState { return d.state }
func (d *Dashboard) Products() []models.Product { return d.products }
func (d *Dashboard) Fetched() bool { return d.fetched }
func (d *Dashboard) Form() transport.ProductForm { return d.form }
func (d *Dashboard) Loading() bool { return d.loading }

// Check validates the visitor's token without calling the backend.
// A missing token redirects; a malformed or expired one also clears the session.
func (d *Dashboard) Check(ctx context.Context) GuardState {
	l := logging.FromContext(ctx).With("svc", "dashboard.check")

	sess := session.FromContext(ctx)
	if !sess.HasToken() {
		l.Info("dashboard_redirect", "reason", "no token")
		d.state = GuardRedirected
		return d.state
	}

	now := time.Now
	if d.Now != nil {
		now = d.Now
	}

	switch st := session.InspectToken(sess.Token, now()); st {
	case session.TokenValid:
		d.state = GuardAuthenticated
		return d.state
	case session.TokenExpired:
		notify(ctx, d.Notifier, session.LevelInfo, "Session Expired", "Please login again")
		l.Info("dashboard_redirect", "reason", "token expired")
	default:
		l.Warn("dashboard_redirect", "reason", "invalid token", "token_state", st.String())
	}

	sess.Forget()
	if err := d.Store.Clear(ctx, sess.ID); err != nil {
		l.Error("session_clear_failed", "error", err)
	}
	d.state = GuardRedirected
	return d.state
}

// Mount runs the entry guard and, when it passes, fetches the product list once.
func (d *Dashboard) Mount(ctx context.Context) (GuardState, error) {
	if d.Check(ctx) != GuardAuthenticated {
		return d.state, nil
	}
	return d.state, d.Fetch(ctx)
}

// Fetch replaces the product list. On failure the previous list is kept.
func (d *Dashboard) Fetch(ctx context.Context) error {
	l := logging.FromContext(ctx).With("svc", "dashboard.fetch")

	d.loading = true
	defer func() { d.loading = false }()

	items, err := d.API.ListProducts(ctx)
	if err != nil {
		l.Error("fetch_products_failed", "error", err)
		notify(ctx, d.Notifier, session.LevelError, "Error", "Failed to fetch products")
		return err
	}
	if items == nil {
		items = []models.Product{}
	}
	d.products = items
	d.fetched = true
	return nil
}

func (d *Dashboard) forbidden(ctx context.Context, action string) bool {
	if session.FromContext(ctx).IsAdmin() {
		return false
	}
	notify(ctx, d.Notifier, session.LevelWarning, "Forbidden", fmt.Sprintf("Only admin can %s products", action))
	logging.FromContext(ctx).Warn("product_action_forbidden", "action", action)
	return true
}

// ParsePrice accepts a decimal number. Empty, NaN and infinite values are rejected.
func ParsePrice(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: price %q is not a number", ErrValidation, raw)
	}
	return v, nil
}

func (d *Dashboard) Create(ctx context.Context, form transport.ProductForm) error {
	l := logging.FromContext(ctx).With("svc", "dashboard.create")
	d.form = form

	if d.forbidden(ctx, "add") {
		return ErrForbidden
	}
	if strings.TrimSpace(form.Name) == "" || strings.TrimSpace(form.Price) == "" {
		notify(ctx, d.Notifier, session.LevelInfo, "Validation", "Name and Price required")
		return ErrValidation
	}
	price, err := ParsePrice(form.Price)
	if err != nil {
		notify(ctx, d.Notifier, session.LevelInfo, "Validation", "Price must be a number")
		return err
	}

	d.loading = true
	defer func() { d.loading = false }()

	req := transport.ProductRequest{
		Name:        strings.TrimSpace(form.Name),
		Description: strings.TrimSpace(form.Description),
		Price:       price,
	}
	if err := d.API.CreateProduct(ctx, req); err != nil {
		l.Error("product_create_failed", "error", err)
		notify(ctx, d.Notifier, session.LevelError, "Error", apiclient.ServerMessage(err, "Add failed"))
		return err
	}

	l.Info("product_create_success", "name", req.Name)
	notify(ctx, d.Notifier, session.LevelSuccess, "Added", "Product added successfully")
	d.form = transport.ProductForm{}
	d.audit(ctx, events.TypeProductCreated, "", req.Name)

	return d.Fetch(ctx)
}

func (d *Dashboard) Edit(ctx context.Context, p models.Product, prompter Prompter) error {
	l := logging.FromContext(ctx).With("svc", "dashboard.edit", "product_id", p.ID.String())

	if d.forbidden(ctx, "edit") {
		return ErrForbidden
	}

	updated, err := prompter.EditProduct(ctx, p)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			notify(ctx, d.Notifier, session.LevelInfo, "Validation", "Price must be a number")
		}
		return err
	}
	if updated == nil {
		l.Debug("product_edit_cancelled")
		return nil
	}

	d.loading = true
	defer func() { d.loading = false }()

	if err := d.API.UpdateProduct(ctx, p.ID, *updated); err != nil {
		l.Error("product_update_failed", "error", err)
		notify(ctx, d.Notifier, session.LevelError, "Error", "Failed to update product")
		return err
	}

	l.Info("product_update_success")
	notify(ctx, d.Notifier, session.LevelSuccess, "Updated", "Product updated successfully")
	d.audit(ctx, events.TypeProductUpdated, p.ID, updated.Name)

	return d.Fetch(ctx)
}

func (d *Dashboard) Delete(ctx context.Context, id models.ProductID, prompter Prompter) error {
	l := logging.FromContext(ctx).With("svc", "dashboard.delete", "product_id", id.String())

	if d.forbidden(ctx, "delete") {
		return ErrForbidden
	}

	ok, err := prompter.Confirm(ctx, deleteConfirmation)
	if err != nil {
		return err
	}
	if !ok {
		l.Debug("product_delete_cancelled")
		return nil
	}

	d.loading = true
	defer func() { d.loading = false }()

	if err := d.API.DeleteProduct(ctx, id); err != nil {
		l.Error("product_delete_failed", "error", err)
		notify(ctx, d.Notifier, session.LevelError, "Error", "Failed to delete product")
		return err
	}

	l.Info("product_delete_success")
	notify(ctx, d.Notifier, session.LevelSuccess, "Deleted", "Product removed successfully")
	d.audit(ctx, events.TypeProductDeleted, id, "")

	return d.Fetch(ctx)
}

// Logout forgets the visitor's token and role and sends them to the login page.
func (d *Dashboard) Logout(ctx context.Context) (*Navigation, error) {
	sess := session.FromContext(ctx)
	if sess == nil {
		return nil, ErrNoSession
	}
	role := sess.Role
	sess.Forget()
	if err := d.Store.Clear(ctx, sess.ID); err != nil {
		return nil, fmt.Errorf("clear session: %w", err)
	}
	d.state = GuardRedirected
	events.Emit(ctx, d.Audit, events.Event{Type: events.TypeLogout, SessionID: sess.ID, Role: role})
	return &Navigation{To: LoginPath}, nil
}

func (d *Dashboard) audit(ctx context.Context, typ string, id models.ProductID, name string) {
	e := events.Event{Type: typ, ProductID: id.String(), Name: name}
	if sess := session.FromContext(ctx); sess != nil {
		e.SessionID = sess.ID
		e.Role = sess.Role
	}
	events.Emit(ctx, d.Audit, e)
}
