package ports

import "context"

// SecretSource resolves a named secret, such as the account password, from an
// external password manager.
type SecretSource interface {
	Get(ctx context.Context, name string) (string, error)
}
