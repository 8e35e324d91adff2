package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/pantopia/console/internal/breadcrumb"
	"github.com/pantopia/console/internal/config"
	"github.com/pantopia/console/internal/logging"
	"github.com/pantopia/console/internal/pantopia"
	"github.com/pantopia/console/internal/prefs"
	"github.com/pantopia/console/internal/session"
	"github.com/pantopia/console/internal/state"
	"github.com/pantopia/console/internal/ui"
)

// Options configure the console.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses ~/.config/pantopia/prefs.toml
	// Flags are layered over the config file; only explicitly set flags apply.
	Flags *pflag.FlagSet
	// LogToStderr mirrors the log file to stderr for non-interactive commands.
	LogToStderr bool
}

// Env holds the long-lived dependencies shared by the TUI and the CLI
// commands.
type Env struct {
	Config    config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	Logger    *zap.Logger
	Session   *session.Store
	Client    *pantopia.Client
	Resolver  *breadcrumb.Resolver

	// LoginRequired receives the login URL whenever the API rejects the token.
	LoginRequired <-chan string
}

// Bootstrap loads config and opens the logger, session store and API client.
// The caller must Close the returned Env.
func Bootstrap(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath, opts.Flags)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logging.Options{
		File:    cfg.LogPath(),
		Stderr:  opts.LogToStderr,
		Verbose: cfg.Verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	store, err := session.Open(cfg.SessionPath())
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("open session: %w", err)
	}

	loginRequired := make(chan string, 1)
	client, err := pantopia.NewClient(cfg.APIURL,
		pantopia.WithTokens(newTokenChain(cfg.Token, store)),
		pantopia.WithTimeout(cfg.RequestTimeout),
		pantopia.WithLoginURL(cfg.LoginURL),
		pantopia.WithLogger(logger.Named("api")),
		pantopia.OnUnauthorized(func(loginURL string) {
			select {
			case loginRequired <- loginURL:
			default:
			}
		}),
	)
	if err != nil {
		_ = store.Close()
		_ = logger.Sync()
		return nil, fmt.Errorf("init api client: %w", err)
	}

	resolver := breadcrumb.NewResolver(logger.Named("breadcrumb"))
	breadcrumb.RegisterDirectory(resolver, client)

	logger.Info("console starting",
		zap.String("api_url", client.BaseURL()),
		zap.String("config", cfg.File),
		zap.String("session", cfg.SessionPath()))

	return &Env{
		Config:        cfg,
		Prefs:         prefs.Load(opts.PrefsPath),
		PrefsPath:     opts.PrefsPath,
		Logger:        logger,
		Session:       store,
		Client:        client,
		Resolver:      resolver,
		LoginRequired: loginRequired,
	}, nil
}

// Close releases the session database and flushes the logger.
func (e *Env) Close() error {
	if e == nil {
		return nil
	}
	var errs []error
	if e.Session != nil {
		errs = append(errs, e.Session.Close())
	}
	if e.Logger != nil {
		_ = e.Logger.Sync()
	}
	return errors.Join(errs...)
}

// Run boots the console TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	env, err := Bootstrap(opts)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store := &state.Store{}
	done := StartPoller(ctx, store, env.Client, env.Config.RefreshInterval, env.Logger.Named("poller"))
	defer func() {
		cancel()
		<-done
	}()

	startPath := env.Prefs.LastView
	if last, err := env.Session.LastPath(); err == nil && last != "" {
		startPath = last
	}

	return ui.Run(ui.Options{
		Context:       ctx,
		Client:        env.Client,
		Store:         store,
		Resolver:      env.Resolver,
		Session:       env.Session,
		Config:        env.Config,
		Prefs:         env.Prefs,
		PrefsPath:     env.PrefsPath,
		Logger:        env.Logger.Named("ui"),
		LoginRequired: env.LoginRequired,
		StartPath:     startPath,
	})
}
