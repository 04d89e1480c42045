package service

import (
	"context"

	"github.com/Skotchmaster/catalog_panel/internal/models"
	"github.com/Skotchmaster/catalog_panel/internal/transport"
)

type Confirmation struct {
	Title        string
	Text         string
	ConfirmLabel string
}

// Prompter asks the visitor for a decision. A nil edit or a false confirmation
// means the visitor cancelled.
type Prompter interface {
	EditProduct(ctx context.Context, p models.Product) (*transport.ProductRequest, error)
	Confirm(ctx context.Context, c Confirmation) (bool, error)
}

var deleteConfirmation = Confirmation{
	Title:        "Delete Product?",
	Text:         "This action cannot be undone!",
	ConfirmLabel: "Yes, Delete",
}

// DeleteConfirmation is the question asked before a product is deleted.
func DeleteConfirmation() Confirmation { return deleteConfirmation }
