package ports

import (
	"context"

	"github.com/bnema/dropwatch/internal/domain"
)

// Gateway executes GQL operations with an explicit token. A 401 surfaces as
// domain.ErrUnauthorized.
type Gateway interface {
	Execute(ctx context.Context, token string, op domain.Operation, out any) error
}

// Executor executes GQL operations on behalf of the logged-in session.
type Executor interface {
	Execute(ctx context.Context, op domain.Operation, out any) error
}
