package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/bnema/dropwatch/internal/domain"
	"github.com/bnema/dropwatch/internal/ports"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

type SessionOptions struct {
	ClientID         string
	MaxLoginAttempts int
	// MaxTokenInvalidations bounds consecutive token rejections during one
	// restore. Zero keeps retrying forever.
	MaxTokenInvalidations int
	// PasswordEntry names the secret holding the password when none is
	// configured. Empty disables the lookup.
	PasswordEntry string
}

type LoginResult struct {
	AccessToken string
	Attempts    int
}

// SessionService owns the access token, the user id and the cookie jar. It
// restores sessions from cookies, drives the interactive login and re-logs in
// when the server rejects the token.
type SessionService struct {
	auth     ports.AuthClient
	gateway  ports.Gateway
	jar      ports.CookieJar
	prompter ports.CredentialPrompter
	secrets  ports.SecretSource
	metrics  ports.Metrics
	opts     SessionOptions

	group singleflight.Group

	mu            sync.RWMutex
	creds         domain.Credentials
	session       domain.Session
	loggedIn      chan struct{}
	loginAttempts int
}

func NewSessionService(auth ports.AuthClient, gateway ports.Gateway, jar ports.CookieJar, prompter ports.CredentialPrompter, creds domain.Credentials, opts SessionOptions) *SessionService {
	if opts.MaxLoginAttempts <= 0 {
		opts.MaxLoginAttempts = domain.DefaultMaxLoginAttempts
	}

	return &SessionService{
		auth:     auth,
		gateway:  gateway,
		jar:      jar,
		prompter: prompter,
		metrics:  ports.NopMetrics{},
		opts:     opts,
		creds:    creds,
		loggedIn: make(chan struct{}),
	}
}

func (s *SessionService) SetMetrics(metrics ports.Metrics) {
	if metrics != nil {
		s.metrics = metrics
	}
}

// SetSecretSource enables reading the password from a password manager.
func (s *SessionService) SetSecretSource(secrets ports.SecretSource) {
	s.secrets = secrets
}

func (s *SessionService) Session() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *SessionService) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.AccessToken
}

func (s *SessionService) UserID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.UserID
}

// LastLoginAttempts returns how many submissions the most recent interactive
// login needed.
func (s *SessionService) LastLoginAttempts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loginAttempts
}

// WaitLoggedIn blocks until the first successful validation.
func (s *SessionService) WaitLoggedIn(ctx context.Context) error {
	select {
	case <-s.loggedIn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Invalidate drops the in-memory access token. The logged-in latch is kept.
func (s *SessionService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.AccessToken = ""
}

// EnsureLoggedIn returns immediately when the session holds a token and a user
// id. Otherwise it restores the session; concurrent callers share one restore.
func (s *SessionService) EnsureLoggedIn(ctx context.Context) error {
	if s.Session().Valid() {
		return nil
	}

	_, err, _ := s.group.Do("session", func() (any, error) {
		if s.Session().Valid() {
			return nil, nil
		}
		return nil, s.restore(ctx)
	})
	return err
}

func (s *SessionService) restore(ctx context.Context) error {
	invalidations := 0
	for {
		cookies := s.jar.Cookies(domain.CookieDomain)
		if cookies == nil {
			cookies = domain.Cookies{}
		}
		token := s.AccessToken()

		switch {
		case cookies[domain.CookieAuthToken] == "":
			result, err := s.Login(ctx)
			if err != nil {
				return err
			}
			token = result.AccessToken
			cookies[domain.CookieAuthToken] = token
			s.jar.SetCookies(domain.CookieDomain, cookies)
		case token == "":
			token = cookies[domain.CookieAuthToken]
			s.setAccessToken(token)
			slog.Debug("restored access token from cookie")
		}

		validation, err := s.auth.Validate(ctx, token)
		if errors.Is(err, domain.ErrUnauthorized) {
			invalidations++
			s.metrics.TokenInvalidated()
			s.jar.ClearDomain(domain.CookieDomain)
			s.setAccessToken("")
			slog.Warn("access token rejected, logging in again", "invalidations", invalidations)
			if s.opts.MaxTokenInvalidations > 0 && invalidations >= s.opts.MaxTokenInvalidations {
				return fmt.Errorf("restore session after %d rejections: %w", invalidations, domain.ErrTokenInvalidated)
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("validate access token: %w", err)
		}

		return s.commit(ctx, cookies, token, validation)
	}
}

// AdoptToken installs a token obtained outside the password login, such as the
// device authorization grant, after validating it.
func (s *SessionService) AdoptToken(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("access token is empty")
	}

	validation, err := s.auth.Validate(ctx, token)
	if err != nil {
		return fmt.Errorf("validate access token: %w", err)
	}

	cookies := s.jar.Cookies(domain.CookieDomain)
	if cookies == nil {
		cookies = domain.Cookies{}
	}
	cookies[domain.CookieAuthToken] = token
	return s.commit(ctx, cookies, token, validation)
}

func (s *SessionService) commit(ctx context.Context, cookies domain.Cookies, token string, validation domain.TokenValidation) error {
	s.markLoggedIn(token, validation.UserID)
	cookies[domain.CookiePersistent] = strconv.FormatInt(validation.UserID, 10)
	if cookies[domain.CookieUniqueID] == "" {
		cookies[domain.CookieUniqueID] = newDeviceID()
	}
	s.jar.SetCookies(domain.CookieDomain, cookies)
	if err := s.jar.Save(ctx); err != nil {
		return fmt.Errorf("save cookies: %w", err)
	}

	slog.Info("session ready", "user_id", validation.UserID, "login", validation.Login)
	return nil
}

// Login runs the interactive login loop. Missing credentials are prompted for;
// a rejected password and second factor codes are prompted for and resubmitted
// until the attempt budget runs out.
func (s *SessionService) Login(ctx context.Context) (LoginResult, error) {
	creds, err := s.credentials(ctx)
	if err != nil {
		return LoginResult{}, err
	}

	req := domain.LoginRequest{
		Username:   creds.Username,
		Password:   creds.Password,
		ClientID:   s.opts.ClientID,
		RememberMe: true,
	}

	for attempt := 1; attempt <= s.opts.MaxLoginAttempts; attempt++ {
		resp, err := s.auth.Login(ctx, req)
		if err != nil {
			return LoginResult{Attempts: attempt}, fmt.Errorf("submit login: %w", err)
		}
		if resp.CaptchaProof != "" {
			req.CaptchaProof = resp.CaptchaProof
		}

		if resp.Failed() {
			if err := s.handleLoginFailure(ctx, resp, &req); err != nil {
				return LoginResult{Attempts: attempt}, err
			}
			continue
		}
		if resp.AccessToken == "" {
			slog.Debug("login response carried no token, retrying", "attempt", attempt)
			continue
		}

		s.mu.Lock()
		s.session.AccessToken = resp.AccessToken
		s.loginAttempts = attempt
		s.mu.Unlock()
		return LoginResult{AccessToken: resp.AccessToken, Attempts: attempt}, nil
	}

	s.mu.Lock()
	s.loginAttempts = s.opts.MaxLoginAttempts
	s.mu.Unlock()
	return LoginResult{Attempts: s.opts.MaxLoginAttempts}, domain.ErrLoginExhausted
}

func (s *SessionService) handleLoginFailure(ctx context.Context, resp domain.LoginResponse, req *domain.LoginRequest) error {
	if resp.ErrorCode == domain.LoginCodeCaptchaRequired {
		return domain.ErrCaptchaRequired
	}

	if resp.ErrorCode == domain.LoginCodeBadPassword {
		password, err := s.promptPassword(ctx, fmt.Sprintf(domain.IncorrectCredentialsPromptFmt, req.Username))
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrBadPassword, err)
		}
		req.Password = password
		s.mu.Lock()
		s.creds.Password = password
		s.mu.Unlock()
		return nil
	}

	kind, ok := domain.TwoFactorKindForCode(resp.ErrorCode)
	if !ok {
		return &domain.LoginFailedError{Code: resp.ErrorCode, Message: resp.Error}
	}

	code, err := s.prompter.TwoFactorCode(ctx, kind)
	if err != nil {
		return fmt.Errorf("prompt %s: %w", kind.Label(), err)
	}
	switch kind {
	case domain.TwoFactorAuthenticator:
		req.AuthyToken = code
	case domain.TwoFactorEmail:
		req.TwitchGuardCode = code
	}
	return nil
}

func (s *SessionService) credentials(ctx context.Context) (domain.Credentials, error) {
	s.mu.RLock()
	creds := s.creds
	s.mu.RUnlock()

	if creds.Username == "" {
		username, err := s.prompter.Username(ctx)
		if err != nil {
			return domain.Credentials{}, fmt.Errorf("prompt username: %w", err)
		}
		creds.Username = username
	}
	if creds.Password == "" {
		creds.Password = s.storedPassword(ctx)
	}
	if creds.Password == "" {
		password, err := s.promptPassword(ctx, domain.DefaultPasswordPrompt)
		if err != nil {
			return domain.Credentials{}, err
		}
		creds.Password = password
	}

	s.mu.Lock()
	s.creds = creds
	s.mu.Unlock()
	return creds, nil
}

// storedPassword returns "" when no secret source is set up or the lookup
// fails, leaving the prompt as the fallback.
func (s *SessionService) storedPassword(ctx context.Context) string {
	if s.secrets == nil || s.opts.PasswordEntry == "" {
		return ""
	}
	password, err := s.secrets.Get(ctx, s.opts.PasswordEntry)
	if err != nil {
		slog.Warn("read password from password manager", "entry", s.opts.PasswordEntry, "error", err)
		return ""
	}
	return password
}

// promptPassword asks until the password passes the server-side strength
// check, so an obvious typo never reaches the login endpoint.
func (s *SessionService) promptPassword(ctx context.Context, prompt string) (string, error) {
	for {
		password, err := s.prompter.Password(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("prompt password: %w", err)
		}

		valid, err := s.auth.ValidatePassword(ctx, password)
		if err != nil {
			slog.Warn("password strength check failed, submitting as is", "error", err)
			return password, nil
		}
		if valid {
			return password, nil
		}
		prompt = domain.InvalidPasswordPrompt
	}
}

// Execute runs op with the session token. A rejected token is dropped and the
// operation is retried once after logging in again.
func (s *SessionService) Execute(ctx context.Context, op domain.Operation, out any) error {
	if err := s.EnsureLoggedIn(ctx); err != nil {
		return err
	}

	err := s.gateway.Execute(ctx, s.AccessToken(), op, out)
	if !errors.Is(err, domain.ErrUnauthorized) {
		return err
	}

	slog.Warn("gql request unauthorized, restoring session", "operation", op.Name)
	s.Invalidate()
	if err := s.EnsureLoggedIn(ctx); err != nil {
		return err
	}
	return s.gateway.Execute(ctx, s.AccessToken(), op, out)
}

// Logout forgets the session and removes the stored cookies.
func (s *SessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.session.AccessToken = ""
	s.session.UserID = 0
	s.mu.Unlock()

	s.jar.ClearDomain(domain.CookieDomain)
	if err := s.jar.Save(ctx); err != nil {
		return fmt.Errorf("save cookies: %w", err)
	}
	return nil
}

// Close persists the cookie jar.
func (s *SessionService) Close(ctx context.Context) error {
	if err := s.jar.Save(ctx); err != nil {
		return fmt.Errorf("save cookies: %w", err)
	}
	return nil
}

// newDeviceID mimics the 32 hex character id the web client keeps in the
// unique_id cookie.
func newDeviceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *SessionService) setAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.AccessToken = token
}

func (s *SessionService) markLoggedIn(token string, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.AccessToken = token
	s.session.UserID = userID
	if !s.session.LoggedIn {
		s.session.LoggedIn = true
		close(s.loggedIn)
	}
}
