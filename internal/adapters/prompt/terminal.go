package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/bnema/dropwatch/internal/domain"
	"github.com/bnema/dropwatch/internal/ports"
	"golang.org/x/term"
)

var _ ports.CredentialPrompter = (*Terminal)(nil)

// Terminal prompts on out and reads answers from in. Passwords are read
// without echo when in is a terminal.
type Terminal struct {
	out    io.Writer
	reader *bufio.Reader
	fd     int
	tty    bool
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{out: out, reader: bufio.NewReader(in), fd: -1}
	if file, ok := in.(*os.File); ok {
		fd := int(file.Fd())
		if term.IsTerminal(fd) {
			t.fd = fd
			t.tty = true
		}
	}
	return t
}

func (t *Terminal) Username(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		_, _ = fmt.Fprint(t.out, "Username: ")
		value, err := t.readLine()
		if err != nil {
			return "", fmt.Errorf("read username: %w", err)
		}
		if value = sanitize(value); value != "" {
			return value, nil
		}
	}
}

func (t *Terminal) Password(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		prompt = domain.DefaultPasswordPrompt
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	_, _ = fmt.Fprint(t.out, prompt)

	if !t.tty {
		value, err := t.readLine()
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return value, nil
	}

	secret, err := term.ReadPassword(t.fd)
	_, _ = fmt.Fprintln(t.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(string(secret), "\r\n"), nil
}

func (t *Terminal) TwoFactorCode(ctx context.Context, kind domain.TwoFactorKind) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		_, _ = fmt.Fprintf(t.out, "%s: ", kind.Label())
		value, err := t.readLine()
		if err != nil {
			return "", fmt.Errorf("read %s: %w", kind.Label(), err)
		}
		if value = strings.ReplaceAll(sanitize(value), " ", ""); value != "" {
			return value, nil
		}
	}
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func sanitize(value string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value))
}
