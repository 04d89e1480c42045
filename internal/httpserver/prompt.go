package httpserver

import (
	"context"
	"strings"

	"github.com/Skotchmaster/catalog_panel/internal/models"
	"github.com/Skotchmaster/catalog_panel/internal/service"
	"github.com/Skotchmaster/catalog_panel/internal/transport"
)

const (
	actionConfirm = "confirm"
	actionCancel  = "cancel"
)

// dialogPrompter records which dialog the page should open. The decision
// arrives later with the dialog's form post, so nothing is answered here.
type dialogPrompter struct {
	edit    *models.Product
	confirm *service.Confirmation
}

func (p *dialogPrompter) EditProduct(_ context.Context, prod models.Product) (*transport.ProductRequest, error) {
	p.edit = &prod
	return nil, nil
}

func (p *dialogPrompter) Confirm(_ context.Context, c service.Confirmation) (bool, error) {
	p.confirm = &c
	return false, nil
}

// formPrompter answers with the decision posted from a dialog.
type formPrompter struct {
	action string
	form   transport.ProductForm
}

func (p formPrompter) EditProduct(context.Context, models.Product) (*transport.ProductRequest, error) {
	if p.action != actionConfirm {
		return nil, nil
	}
	price, err := service.ParsePrice(p.form.Price)
	if err != nil {
		return nil, err
	}
	return &transport.ProductRequest{
		Name:        strings.TrimSpace(p.form.Name),
		Description: strings.TrimSpace(p.form.Description),
		Price:       price,
	}, nil
}

func (p formPrompter) Confirm(context.Context, service.Confirmation) (bool, error) {
	return p.action == actionConfirm, nil
}
