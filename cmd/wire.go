package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	authadapter "github.com/bnema/dropwatch/internal/adapters/auth"
	gqladapter "github.com/bnema/dropwatch/internal/adapters/gql"
	metricsadapter "github.com/bnema/dropwatch/internal/adapters/metrics"
	"github.com/bnema/dropwatch/internal/adapters/prompt"
	"github.com/bnema/dropwatch/internal/adapters/pubsub"
	inventoryadapter "github.com/bnema/dropwatch/internal/adapters/render/inventory"
	tomlrepo "github.com/bnema/dropwatch/internal/adapters/repo/toml"
	"github.com/bnema/dropwatch/internal/adapters/secrets/pass"
	twitchadapter "github.com/bnema/dropwatch/internal/adapters/twitch"
	"github.com/bnema/dropwatch/internal/application"
	"github.com/bnema/dropwatch/internal/config"
	"github.com/bnema/dropwatch/internal/domain"
	"github.com/bnema/dropwatch/internal/platform/logging"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type app struct {
	v               *viper.Viper
	clock           clockwork.Clock
	now             func() time.Time
	inventoryRender func([]domain.DropsCampaign, inventoryadapter.RenderOptions) (string, error)
}

func wireApp() (*app, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	v, err := config.New(homeDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return &app{
		v:               v,
		clock:           clockwork.NewRealClock(),
		now:             time.Now,
		inventoryRender: inventoryadapter.Render,
	}, nil
}

// runtime holds the collaborators of one command invocation. It is built after
// flag parsing so flags bound to viper are visible.
type runtime struct {
	cfg        config.Config
	httpClient *http.Client
	jar        *tomlrepo.CookieJar
	session    *application.SessionService
	twitch     *twitchadapter.Client
	bus        *pubsub.Pool
	metrics    *metricsadapter.Recorder
	device     authadapter.DeviceFlowAdapter
}

func (a *app) build(cmd *cobra.Command) (*runtime, error) {
	cfg, err := config.Decode(a.v)
	if err != nil {
		return nil, err
	}
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())

	jar, err := tomlrepo.NewCookieJar(a.v)
	if err != nil {
		return nil, fmt.Errorf("wire cookie jar: %w", err)
	}

	transport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, errors.New("unexpected default http transport")
	}
	httpClient := &http.Client{Transport: transport.Clone(), Timeout: 60 * time.Second}

	passport := authadapter.PassportClient{
		API:        authadapter.PassportAPI{PassportURL: cfg.Endpoints.Passport, IDURL: cfg.Endpoints.ID},
		HTTPClient: httpClient,
		UserAgent:  userAgent,
	}
	gateway := gqladapter.New(gqladapter.Options{
		URL:               cfg.Endpoints.GQL,
		ClientID:          cfg.ClientID,
		UserAgent:         userAgent,
		RequestsPerSecond: cfg.GQLRequestsPerSecond,
		HTTPClient:        httpClient,
	})

	recorder := metricsadapter.NewRecorder()
	session := application.NewSessionService(
		passport,
		gateway,
		jar,
		prompt.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout()),
		domain.Credentials{Username: cfg.Username, Password: cfg.Password},
		application.SessionOptions{
			ClientID:              cfg.ClientID,
			MaxLoginAttempts:      cfg.MaxLoginAttempts,
			MaxTokenInvalidations: cfg.MaxTokenInvalidations,
			PasswordEntry:         cfg.PasswordPassEntry,
		},
	)
	session.SetMetrics(recorder)
	session.SetSecretSource(pass.NewStore())

	return &runtime{
		cfg:        cfg,
		httpClient: httpClient,
		jar:        jar,
		session:    session,
		twitch: twitchadapter.NewClient(session, session, twitchadapter.Options{
			WebURL:     cfg.Endpoints.Web,
			UserAgent:  userAgent,
			HTTPClient: httpClient,
		}),
		bus:     pubsub.NewPool(session, pubsub.Options{URL: cfg.Endpoints.PubSub, Clock: a.clock}),
		metrics: recorder,
		device: authadapter.DeviceFlowAdapter{
			BaseURL:    cfg.Endpoints.ID,
			HTTPClient: httpClient,
			Clock:      a.clock,
		},
	}, nil
}

// close persists the session and drops pooled connections.
func (r *runtime) close(ctx context.Context) error {
	err := r.session.Close(ctx)
	r.httpClient.CloseIdleConnections()
	return err
}
