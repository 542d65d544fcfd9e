package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".dropwatch"
	envPrefix  = "DW"

	KeyUsername              = "username"
	KeyPassword              = "password"
	KeyPasswordPassEntry     = "password_pass_entry"
	KeyChannels              = "channels"
	KeyCookiesPath           = "cookies.path"
	KeyLogLevel              = "log.level"
	KeyLogFormat             = "log.format"
	KeyMaxLoginAttempts      = "session.max_login_attempts"
	KeyMaxTokenInvalidations = "session.max_token_invalidations"
	KeyExitWhenIdle          = "watch.exit_when_idle"
	KeyMetricsListen         = "metrics.listen"
	KeyGQLRequestsPerSecond  = "gql.requests_per_second"
	KeyClientID              = "gql.client_id"

	KeyPassportURL = "endpoints.passport"
	KeyIDURL       = "endpoints.id"
	KeyGQLURL      = "endpoints.gql"
	KeyPubSubURL   = "endpoints.pubsub"
	KeyWebURL      = "endpoints.web"
)

// DefaultClientID is the public web client id the Twitch site uses.
const DefaultClientID = "kimne78kx3ncx6brgo4mv6wki5h1ko"

type Config struct {
	Username string
	Password string
	// PasswordPassEntry names a pass(1) entry holding the password.
	PasswordPassEntry string
	Channels          []string

	CookiesPath string
	ClientID    string

	LogLevel  string
	LogFormat string

	MaxLoginAttempts      int
	MaxTokenInvalidations int
	ExitWhenIdle          bool

	MetricsListen        string
	GQLRequestsPerSecond float64

	Endpoints Endpoints
}

// Endpoints are only overridden to point the client at test servers.
type Endpoints struct {
	Passport string
	ID       string
	GQL      string
	PubSub   string
	Web      string
}

// New returns a viper instance reading ~/.dropwatch/config.toml, DW_* variables
// and an optional .env file in the working directory.
func New(homeDir string) (*viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(filepath.Join(homeDir, configDir))
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v, homeDir)

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		slog.Debug("no config file found, using defaults and environment")
	}

	return v, nil
}

func SetDefaults(v *viper.Viper, homeDir string) {
	v.SetDefault(KeyCookiesPath, filepath.Join(homeDir, configDir, "cookies.toml"))
	v.SetDefault(KeyClientID, DefaultClientID)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyMaxLoginAttempts, 10)
	v.SetDefault(KeyMaxTokenInvalidations, 0)
	v.SetDefault(KeyExitWhenIdle, false)
	v.SetDefault(KeyMetricsListen, "")
	v.SetDefault(KeyGQLRequestsPerSecond, 5.0)
	v.SetDefault(KeyPassportURL, "https://passport.twitch.tv")
	v.SetDefault(KeyIDURL, "https://id.twitch.tv")
	v.SetDefault(KeyGQLURL, "https://gql.twitch.tv/gql")
	v.SetDefault(KeyPubSubURL, "wss://pubsub-edge.twitch.tv/v1")
	v.SetDefault(KeyWebURL, "https://www.twitch.tv")
}

func Decode(v *viper.Viper) (Config, error) {
	cfg := Config{
		Username:              strings.TrimSpace(v.GetString(KeyUsername)),
		Password:              v.GetString(KeyPassword),
		PasswordPassEntry:     strings.TrimSpace(v.GetString(KeyPasswordPassEntry)),
		Channels:              normalizeChannels(v.GetStringSlice(KeyChannels)),
		CookiesPath:           v.GetString(KeyCookiesPath),
		ClientID:              v.GetString(KeyClientID),
		LogLevel:              v.GetString(KeyLogLevel),
		LogFormat:             v.GetString(KeyLogFormat),
		MaxLoginAttempts:      v.GetInt(KeyMaxLoginAttempts),
		MaxTokenInvalidations: v.GetInt(KeyMaxTokenInvalidations),
		ExitWhenIdle:          v.GetBool(KeyExitWhenIdle),
		MetricsListen:         v.GetString(KeyMetricsListen),
		GQLRequestsPerSecond:  v.GetFloat64(KeyGQLRequestsPerSecond),
		Endpoints: Endpoints{
			Passport: v.GetString(KeyPassportURL),
			ID:       v.GetString(KeyIDURL),
			GQL:      v.GetString(KeyGQLURL),
			PubSub:   v.GetString(KeyPubSubURL),
			Web:      v.GetString(KeyWebURL),
		},
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.CookiesPath == "" {
		return errors.New("cookies.path is empty")
	}
	if cfg.ClientID == "" {
		return errors.New("gql.client_id is empty")
	}
	if cfg.MaxLoginAttempts < 1 {
		return fmt.Errorf("session.max_login_attempts must be at least 1, got %d", cfg.MaxLoginAttempts)
	}
	if cfg.MaxTokenInvalidations < 0 {
		return fmt.Errorf("session.max_token_invalidations must not be negative, got %d", cfg.MaxTokenInvalidations)
	}
	if cfg.GQLRequestsPerSecond <= 0 {
		return fmt.Errorf("gql.requests_per_second must be positive, got %v", cfg.GQLRequestsPerSecond)
	}
	return nil
}

// normalizeChannels lowercases logins and accepts comma separated entries
// coming from a single environment variable.
func normalizeChannels(values []string) []string {
	var channels []string
	seen := map[string]struct{}{}
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			login := strings.ToLower(strings.TrimSpace(part))
			if login == "" {
				continue
			}
			if _, ok := seen[login]; ok {
				continue
			}
			seen[login] = struct{}{}
			channels = append(channels, login)
		}
	}
	return channels
}
