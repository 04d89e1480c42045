package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Skotchmaster/catalog_panel/internal/models"
	"github.com/Skotchmaster/catalog_panel/internal/transport"
)

const productsPath = "/api/v1/products"

func productPath(id models.ProductID) string {
	return productsPath + "/" + url.PathEscape(id.String())
}

// ListProducts returns an empty, non-nil slice when the body is absent.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	if err := c.do(ctx, http.MethodGet, productsPath, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Product{}
	}
	return items, nil
}

func (c *Client) CreateProduct(ctx context.Context, req transport.ProductRequest) error {
	return c.do(ctx, http.MethodPost, productsPath, req, nil)
}

func (c *Client) UpdateProduct(ctx context.Context, id models.ProductID, req transport.ProductRequest) error {
	return c.do(ctx, http.MethodPut, productPath(id), req, nil)
}

func (c *Client) DeleteProduct(ctx context.Context, id models.ProductID) error {
	return c.do(ctx, http.MethodDelete, productPath(id), nil, nil)
}
