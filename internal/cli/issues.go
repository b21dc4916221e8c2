package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/codehub/internal/adapter/driving/terminal"
	"github.com/ericfisherdev/codehub/internal/application"
)

func newIssuesCommand(env *Env) *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "issues owner/repo",
		Short: "List the issues of a repository.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := parseRepo(args[0])
			if err != nil {
				return err
			}
			provider, err := env.provider()
			if err != nil {
				return err
			}

			view := application.NewIssuesView(provider, application.IssueQuery{Repo: repo, State: state}, application.ViewDeps{PerPage: env.cfg.PageSize})
			if err := view.Load(cmd.Context(), false); err != nil {
				return fmt.Errorf("listing issues of %s: %w", repo, err)
			}

			terminal.PrintIssues(cmd.OutOrStdout(), view.Items().Snapshot().Items, env.now())
			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "open", "issue state: open, closed or all")
	return cmd
}
