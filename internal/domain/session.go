package domain

type Session struct {
	AccessToken string
	UserID      int64
	// LoggedIn latches after the first successful validation and never resets.
	LoggedIn bool
}

func (s Session) Valid() bool {
	return s.AccessToken != "" && s.UserID != 0
}

type Credentials struct {
	Username string
	Password string
}

type TwoFactorKind string

const (
	TwoFactorAuthenticator TwoFactorKind = "authenticator"
	TwoFactorEmail         TwoFactorKind = "email"
)

func (k TwoFactorKind) Label() string {
	switch k {
	case TwoFactorAuthenticator:
		return "2FA token"
	case TwoFactorEmail:
		return "E-mail code"
	default:
		return string(k)
	}
}

type TokenValidation struct {
	ClientID  string
	Login     string
	UserID    int64
	ExpiresIn int64
}
