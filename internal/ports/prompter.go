package ports

import (
	"context"

	"github.com/bnema/dropwatch/internal/domain"
)

type CredentialPrompter interface {
	Username(ctx context.Context) (string, error)
	Password(ctx context.Context, prompt string) (string, error)
	TwoFactorCode(ctx context.Context, kind domain.TwoFactorKind) (string, error)
}
