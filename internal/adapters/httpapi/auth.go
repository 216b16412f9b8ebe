package httpapi

import (
	"context"

	"github.com/openhvx/hvxctl/internal/domain"
	"github.com/openhvx/hvxctl/internal/ports"
)

// AuthAPI wraps the admin auth endpoints.
type AuthAPI struct {
	client *Client
}

var _ ports.AuthAPI = (*AuthAPI)(nil)

func NewAuthAPI(client *Client) *AuthAPI {
	return &AuthAPI{client: client}
}

func (a *AuthAPI) Login(ctx context.Context, email, password string) (domain.LoginResponse, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var resp domain.LoginResponse
	if err := a.client.Post(ctx, "v1/admin/auth/login", body, &resp); err != nil {
		return domain.LoginResponse{}, err
	}
	return resp, nil
}

func (a *AuthAPI) Me(ctx context.Context) (domain.Profile, error) {
	var profile domain.Profile
	if err := a.client.Get(ctx, "v1/admin/auth/me", nil, &profile); err != nil {
		return domain.Profile{}, err
	}
	return profile, nil
}
