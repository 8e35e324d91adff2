package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/pantopia/console/internal/app"
)

// rootFlags are the options every command shares. Config keys such as
// --api-url are read straight from the flag set by config.Load.
type rootFlags struct {
	configPath string
	prefsPath  string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "pantopia",
		Short: "Terminal console for the Pantopia CRM",
		Long: `pantopia browses clients, contacts, projects and briefs, and drives data
source processing from the terminal.

Run without a command to open the interactive console.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), flags.appOptions(cmd, false))
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default: ~/.config/pantopia/config.toml)")
	pf.StringVar(&flags.prefsPath, "prefs", "", "preferences file (default: ~/.config/pantopia/prefs.toml)")
	pf.String("api-url", "", "Pantopia API base URL")
	pf.String("login-url", "", "web login page shown when the token is rejected")
	pf.String("token", "", "bearer token; overrides the saved session")
	pf.String("data-dir", "", "directory for the session database")
	pf.String("log-dir", "", "directory for pantopia.log")
	pf.Duration("request-timeout", 0, "per-request API timeout")
	pf.Duration("refresh-interval", 0, "list refresh interval")
	pf.Duration("poll-interval", 0, "processing status poll interval")
	pf.Int("max-failures", 0, "consecutive status failures before processing stalls")
	pf.BoolP("verbose", "v", false, "debug logging")

	root.AddCommand(
		newCrumbsCmd(flags),
		newProcessCmd(flags),
		newLoginCmd(flags),
		newLogoutCmd(flags),
		newMockAPICmd(),
	)
	for _, r := range resources() {
		root.AddCommand(newResourceCmd(flags, r))
	}
	return root
}

func (f *rootFlags) appOptions(cmd *cobra.Command, stderr bool) app.Options {
	return app.Options{
		ConfigPath:  f.configPath,
		PrefsPath:   f.prefsPath,
		Flags:       cmd.Flags(),
		LogToStderr: stderr,
	}
}

// bootstrap opens an Env for a non-interactive command. Logs also go to
// stderr.
func (f *rootFlags) bootstrap(cmd *cobra.Command) (*app.Env, error) {
	return app.Bootstrap(f.appOptions(cmd, true))
}

const commandTimeout = 30 * time.Second
