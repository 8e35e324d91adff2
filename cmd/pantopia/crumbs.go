package main

import (
	"context"
	"fmt"
	"maps"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pantopia/console/internal/breadcrumb"
	"github.com/pantopia/console/internal/prefs"
)

func newCrumbsCmd(flags *rootFlags) *cobra.Command {
	var (
		resolve bool
		sample  bool
		paths   bool
		labels  map[string]string
	)

	cmd := &cobra.Command{
		Use:   "crumbs <path>",
		Short: "Print the breadcrumb trail for a console path",
		Example: `  pantopia crumbs /clients/1/datasources/2
  pantopia crumbs /clients/1 --resolve
  pantopia crumbs /clients/1 --sample --label /clients=Accounts`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			custom := maps.Clone(prefs.Load(flags.prefsPath).Labels)
			if custom == nil {
				custom = map[string]string{}
			}
			maps.Copy(custom, labels)

			items, err := crumbs(cmd, flags, args[0], resolve, sample)
			if err != nil {
				return err
			}
			items = breadcrumb.WithLabels(items, custom)

			out := cmd.OutOrStdout()
			if !paths {
				fmt.Fprintln(out, breadcrumb.Render(items, " › "))
				return nil
			}
			for _, item := range items {
				fmt.Fprintf(out, "%s\t%s\n", item.Path, item.Label)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&resolve, "resolve", false, "look up entity names through the API")
	cmd.Flags().BoolVar(&sample, "sample", false, "look up entity names in the built-in sample data")
	cmd.Flags().BoolVar(&paths, "paths", false, "print one path and label per line")
	cmd.Flags().StringToStringVar(&labels, "label", nil, "override a label, e.g. --label /clients=Accounts")
	return cmd
}

func crumbs(cmd *cobra.Command, flags *rootFlags, path string, resolve, sample bool) ([]breadcrumb.Item, error) {
	switch {
	case sample:
		return breadcrumb.SampleResolver(zap.NewNop()).Resolve(cmd.Context(), path)
	case resolve:
		env, err := flags.bootstrap(cmd)
		if err != nil {
			return nil, err
		}
		defer func() { _ = env.Close() }()

		ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
		defer cancel()
		return env.Resolver.Resolve(ctx, path)
	default:
		return breadcrumb.FromPath(path, nil), nil
	}
}
