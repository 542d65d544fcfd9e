package domain

const (
	LoginCodeCaptchaRequired      = 1000
	LoginCodeBadPassword          = 3001
	LoginCodeAuthyTokenNeeded     = 3011
	LoginCodeAuthyTokenInvalid    = 3012
	LoginCodeEmailCodeNeeded      = 3022
	LoginCodeEmailCodeInvalid     = 3023
	DefaultMaxLoginAttempts       = 10
	DefaultPasswordPrompt         = "Password: "
	IncorrectCredentialsPromptFmt = "Incorrect username or password.\nUsername: %s\nPassword: "
	InvalidPasswordPrompt         = "Password does not meet the requirements.\nPassword: "
)

type LoginRequest struct {
	Username        string
	Password        string
	ClientID        string
	UndeleteUser    bool
	RememberMe      bool
	CaptchaProof    string
	AuthyToken      string
	TwitchGuardCode string
}

type LoginResponse struct {
	AccessToken      string
	CaptchaProof     string
	ErrorCode        int
	Error            string
	ErrorDescription string
}

func (r LoginResponse) Failed() bool {
	return r.ErrorCode != 0
}

// TwoFactorKindForCode reports which second factor a login error code asks for.
func TwoFactorKindForCode(code int) (TwoFactorKind, bool) {
	switch code {
	case LoginCodeAuthyTokenNeeded, LoginCodeAuthyTokenInvalid:
		return TwoFactorAuthenticator, true
	case LoginCodeEmailCodeNeeded, LoginCodeEmailCodeInvalid:
		return TwoFactorEmail, true
	default:
		return "", false
	}
}
