package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Save an API token, or print where to get one",
		Long: `login stores the token given with --token in the session database. Without
--token it prints the web login page where a token can be created.`,
		Example: `  pantopia login
  pantopia login --token 3f2c...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := cmd.Flags().GetString("token")
			if err != nil {
				return err
			}

			env, err := flags.bootstrap(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			out := cmd.OutOrStdout()
			if strings.TrimSpace(token) == "" {
				fmt.Fprintf(out, "Sign in at %s\nthen run: pantopia login --token <token>\n", env.Client.LoginURL())
				return nil
			}
			if err := env.Session.SetToken(token); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			fmt.Fprintf(out, "Token saved for %s\n", env.Client.BaseURL())
			return nil
		},
	}
}

func newLogoutCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := flags.bootstrap(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			if err := env.Session.ClearToken(); err != nil {
				return fmt.Errorf("clear token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}
