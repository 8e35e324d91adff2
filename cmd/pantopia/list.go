package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pantopia/console/internal/pantopia"
)

// resource is a CRM collection with a "list" subcommand.
type resource struct {
	name  string
	short string
	// args names the positional arguments of "list", e.g. "<company-id>".
	args  string
	nargs int
	fetch func(ctx context.Context, dir pantopia.Directory, args []string) (table.Row, []table.Row, error)
}

func resources() []resource {
	return []resource{
		{
			name:  "companies",
			short: "Client companies",
			fetch: func(ctx context.Context, dir pantopia.Directory, _ []string) (table.Row, []table.Row, error) {
				companies, err := dir.ListCompanies(ctx)
				rows := make([]table.Row, 0, len(companies))
				for _, c := range companies {
					rows = append(rows, table.Row{c.ID, c.Name, c.Industry, c.Website})
				}
				return table.Row{"ID", "Name", "Industry", "Website"}, rows, err
			},
		},
		{
			name:  "contacts",
			short: "Contacts at client companies",
			fetch: func(ctx context.Context, dir pantopia.Directory, _ []string) (table.Row, []table.Row, error) {
				contacts, err := dir.ListContacts(ctx)
				rows := make([]table.Row, 0, len(contacts))
				for _, c := range contacts {
					rows = append(rows, table.Row{c.ID, c.DisplayName(), c.Title, c.Email, c.CompanyID})
				}
				return table.Row{"ID", "Name", "Title", "Email", "Company"}, rows, err
			},
		},
		{
			name:  "projects",
			short: "Client projects",
			fetch: func(ctx context.Context, dir pantopia.Directory, _ []string) (table.Row, []table.Row, error) {
				projects, err := dir.ListProjects(ctx)
				rows := make([]table.Row, 0, len(projects))
				for _, p := range projects {
					rows = append(rows, table.Row{p.ID, p.Name, p.CompanyID, p.Status, p.StartDate, p.EndDate})
				}
				return table.Row{"ID", "Name", "Company", "Status", "Start", "End"}, rows, err
			},
		},
		{
			name:  "briefs",
			short: "Sales and strategy briefs",
			fetch: func(ctx context.Context, dir pantopia.Directory, _ []string) (table.Row, []table.Row, error) {
				briefs, err := dir.ListBriefs(ctx)
				rows := make([]table.Row, 0, len(briefs))
				for _, b := range briefs {
					rows = append(rows, table.Row{b.ID, b.Title, b.ClientID, b.Status, b.UpdatedAt})
				}
				return table.Row{"ID", "Title", "Client", "Status", "Updated"}, rows, err
			},
		},
		{
			name:  "datasources",
			short: "Data sources of a client company",
			args:  "<company-id>",
			nargs: 1,
			fetch: func(ctx context.Context, dir pantopia.Directory, args []string) (table.Row, []table.Row, error) {
				sources, err := dir.ListDataSources(ctx, args[0])
				rows := make([]table.Row, 0, len(sources))
				for _, ds := range sources {
					rows = append(rows, table.Row{ds.ID, ds.Name, ds.Kind, ds.Location(), ds.Status.Label()})
				}
				return table.Row{"ID", "Name", "Kind", "Location", "Status"}, rows, err
			},
		},
	}
}

func newResourceCmd(flags *rootFlags, r resource) *cobra.Command {
	cmd := &cobra.Command{
		Use:   r.name,
		Short: r.short,
	}

	use := "list"
	if r.args != "" {
		use += " " + r.args
	}
	list := &cobra.Command{
		Use:   use,
		Short: "List " + r.name,
		Args:  cobra.ExactArgs(r.nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.bootstrap(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			return listResource(ctx, cmd.OutOrStdout(), env.Client, r, args)
		},
	}
	cmd.AddCommand(list)
	return cmd
}

func listResource(ctx context.Context, w io.Writer, dir pantopia.Directory, r resource, args []string) error {
	header, rows, err := r.fetch(ctx, dir, args)
	if err != nil {
		return fmt.Errorf("list %s: %w", r.name, err)
	}
	if len(rows) == 0 {
		_, _ = fmt.Fprintf(w, "No %s.\n", r.name)
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	t.AppendRows(rows)
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d %s)\n", len(rows), r.name)
	return nil
}
