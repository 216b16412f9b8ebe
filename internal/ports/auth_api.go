package ports

import (
	"context"

	"github.com/openhvx/hvxctl/internal/domain"
)

// AuthAPI is the remote identity surface consumed by the session
// manager.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (domain.LoginResponse, error)
	Me(ctx context.Context) (domain.Profile, error)
}
