package pass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bnema/dropwatch/internal/ports"
)

var ErrUnavailable = errors.New("pass command unavailable")

type runFunc func(ctx context.Context, args ...string) (stdout string, stderr string, err error)

// Store reads entries from the standard unix password manager. Only the first
// line of an entry is the secret; the rest is free-form metadata by pass
// convention.
type Store struct {
	run runFunc
}

var _ ports.SecretSource = (*Store)(nil)

func NewStore() *Store {
	return &Store{run: runPass}
}

func (s *Store) Get(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" {
		return "", errors.New("pass entry name is empty")
	}

	stdout, stderr, err := s.run(ctx, "show", name)
	if err != nil {
		if stderr == "" {
			return "", fmt.Errorf("pass show %q: %w", name, err)
		}
		return "", fmt.Errorf("pass show %q: %w: %s", name, err, stderr)
	}

	secret, _, _ := strings.Cut(stdout, "\n")
	secret = strings.TrimSuffix(secret, "\r")
	if secret == "" {
		return "", fmt.Errorf("pass entry %q is empty", name)
	}
	return secret, nil
}

func runPass(ctx context.Context, args ...string) (string, string, error) {
	path, err := exec.LookPath("pass")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", ErrUnavailable
		}
		return "", "", fmt.Errorf("locate pass command: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}
