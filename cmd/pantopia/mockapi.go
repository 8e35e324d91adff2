package main

import (
	"github.com/spf13/cobra"

	"github.com/pantopia/console/internal/logging"
	"github.com/pantopia/console/internal/mockapi"
)

func newMockAPICmd() *cobra.Command {
	var (
		addr      string
		token     string
		stepEvery int
	)

	cmd := &cobra.Command{
		Use:   "mock-api",
		Short: "Serve an in-memory Pantopia API seeded with sample data",
		Example: `  pantopia mock-api --addr :8000 --require-token dev
  pantopia --api-url http://localhost:8000` + mockapi.APIPrefix + ` --token dev`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			logger, err := logging.New(logging.Options{Stderr: true, Verbose: verbose})
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			srv := mockapi.New(mockapi.Options{
				Token:     token,
				StepEvery: stepEvery,
				Logger:    logger.Named("mockapi"),
			})
			return mockapi.ListenAndServe(cmd.Context(), addr, srv)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8000", "listen address")
	cmd.Flags().StringVar(&token, "require-token", "", "bearer token clients must present; empty disables auth")
	cmd.Flags().IntVar(&stepEvery, "step-every", 2, "status calls spent in each of InQueue and Extracting")
	return cmd
}
