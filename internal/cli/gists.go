package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/codehub/internal/adapter/driving/terminal"
	"github.com/ericfisherdev/codehub/internal/application"
)

func newGistsCommand(env *Env) *cobra.Command {
	var (
		user    string
		starred bool
		public  bool
		pages   int
	)

	cmd := &cobra.Command{
		Use:   "gists",
		Short: "List gists.",
		Long: `List gists. Without flags the authenticated user's gists are shown.

Examples:
  codehub gists                # your gists
  codehub gists --user octocat # octocat's gists
  codehub gists --starred      # gists you starred
  codehub gists --public       # recent public gists`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pages < 1 {
				return fmt.Errorf("invalid --pages %d: must be at least 1", pages)
			}

			query := application.UserGists(user)
			switch {
			case starred:
				query = application.StarredGists()
			case public:
				query = application.PublicGists()
			}

			provider, err := env.provider()
			if err != nil {
				return err
			}

			view := application.NewGistsView(provider, query, application.ViewDeps{PerPage: env.cfg.PageSize})
			if err := view.Load(cmd.Context(), false); err != nil {
				return fmt.Errorf("listing gists: %w", err)
			}
			for i := 1; i < pages && view.Items().Snapshot().HasMore; i++ {
				if err := view.LoadMore(cmd.Context()); err != nil {
					return fmt.Errorf("listing gists (page %d): %w", i+1, err)
				}
			}

			snap := view.Items().Snapshot()
			terminal.PrintGists(cmd.OutOrStdout(), snap.Items, env.now())
			if snap.HasMore {
				fmt.Fprintf(cmd.OutOrStdout(), "\nmore gists available, use --pages %d\n", pages+1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "list the gists of this user")
	cmd.Flags().BoolVar(&starred, "starred", false, "list starred gists")
	cmd.Flags().BoolVar(&public, "public", false, "list recent public gists")
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to load")
	cmd.MarkFlagsMutuallyExclusive("user", "starred", "public")
	return cmd
}
