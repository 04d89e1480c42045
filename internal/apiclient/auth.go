package apiclient

import (
	"context"
	"net/http"

	"github.com/Skotchmaster/catalog_panel/internal/transport"
)

const (
	loginPath    = "/api/auth/login"
	registerPath = "/api/auth/register"
)

func (c *Client) Login(ctx context.Context, req transport.LoginRequest) (*transport.LoginResponse, error) {
	var res transport.LoginResponse
	if err := c.do(ctx, http.MethodPost, loginPath, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Register(ctx context.Context, req transport.RegisterRequest) error {
	return c.do(ctx, http.MethodPost, registerPath, req, nil)
}
