package pass

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreGetReturnsFirstLine(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(_ context.Context, args ...string) (string, string, error) {
			assert.Equal(t, []string{"show", "twitch/viewer"}, args)
			return "hunter22\r\nlogin: viewer\nurl: twitch.tv\n", "", nil
		},
	}

	value, err := store.Get(context.Background(), "twitch/viewer")
	require.NoError(t, err)
	assert.Equal(t, "hunter22", value)
}

func TestStoreGetErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		entry  string
		stdout string
		stderr string
		runErr error
		want   []string
	}{
		{name: "missing entry", entry: "twitch/viewer", stderr: "Error: twitch/viewer is not in the password store.", runErr: errors.New("exit status 1"), want: []string{"pass show", "twitch/viewer", "not in the password store"}},
		{name: "no stderr", entry: "twitch/viewer", runErr: ErrUnavailable, want: []string{"pass command unavailable"}},
		{name: "empty secret", entry: "twitch/viewer", stdout: "\nlogin: viewer\n", want: []string{"is empty"}},
		{name: "empty name", want: []string{"entry name is empty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &Store{
				run: func(context.Context, ...string) (string, string, error) {
					return tt.stdout, tt.stderr, tt.runErr
				},
			}

			_, err := store.Get(context.Background(), tt.entry)
			require.Error(t, err)
			for _, want := range tt.want {
				assert.ErrorContains(t, err, want)
			}
		})
	}
}

func TestStoreGetHonoursCanceledContext(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(context.Context, ...string) (string, string, error) {
			t.Fatal("pass must not run after cancellation")
			return "", "", nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := store.Get(ctx, "twitch/viewer")
	require.ErrorIs(t, err, context.Canceled)
}
