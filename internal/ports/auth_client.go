package ports

import (
	"context"

	"github.com/bnema/dropwatch/internal/domain"
)

type AuthClient interface {
	Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
	// Validate returns domain.ErrUnauthorized when the token is rejected.
	Validate(ctx context.Context, token string) (domain.TokenValidation, error)
	ValidatePassword(ctx context.Context, password string) (bool, error)
}
