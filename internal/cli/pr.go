package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/codehub/internal/adapter/driving/terminal"
	"github.com/ericfisherdev/codehub/internal/application"
)

const uiQueueSize = 64

func newPRCommand(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pr",
		Short: "Show pull requests.",
	}

	cmd.AddCommand(newPRListCommand(env))
	cmd.AddCommand(newPRViewCommand(env))
	cmd.AddCommand(newPRWatchCommand(env))
	return cmd
}

func newPRListCommand(env *Env) *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "list owner/repo",
		Short: "List the pull requests of a repository.",
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

			view := application.NewPullRequestsView(provider, application.PullRequestQuery{Repo: repo, State: state}, application.ViewDeps{PerPage: env.cfg.PageSize})
			if err := view.Load(cmd.Context(), false); err != nil {
				return fmt.Errorf("listing pull requests of %s: %w", repo, err)
			}

			terminal.PrintPullRequests(cmd.OutOrStdout(), view.Items().Snapshot().Items, env.now())
			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "open", "pull request state: open, closed or all")
	return cmd
}

func newPRViewCommand(env *Env) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "view owner/repo number",
		Short: "Show a pull request with its conversation.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPRView(cmd.Context(), env, cmd.OutOrStdout(), args, refresh)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the HTTP cache")
	return cmd
}

func runPRView(ctx context.Context, env *Env, out io.Writer, args []string, refresh bool) error {
	repo, number, err := parsePullRequestArgs(args)
	if err != nil {
		return err
	}
	provider, err := env.provider()
	if err != nil {
		return err
	}
	md, loc, err := env.renderers()
	if err != nil {
		return err
	}

	view := application.NewPullRequestView(provider.Get(), repo, number, application.ViewDeps{
		Localizer: loc,
		Markdown:  md,
		Now:       env.now,
		PerPage:   env.cfg.PageSize,
	})

	if err := view.Load(ctx, refresh); err != nil {
		if view.PullRequest() == nil {
			return fmt.Errorf("loading %s#%d: %w", repo, number, err)
		}
		slog.Warn("pull request loaded partially", "repo", repo, "pr", number, "error", err)
	}

	terminal.NewDisplay(out, md.StripHTML).ShowDetail(view.Model())
	return nil
}

func newPRWatchCommand(env *Env) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch owner/repo number",
		Short: "Show a pull request and keep it up to date.",
		Long: `Show a pull request and reload it on an interval. Press Enter to
reload immediately, bypassing the HTTP cache.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return fmt.Errorf("invalid --interval %s: must be positive", interval)
			}
			return runPRWatch(cmd.Context(), env, cmd.InOrStdin(), cmd.OutOrStdout(), args, interval)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", time.Minute, "reload interval")
	return cmd
}

func runPRWatch(ctx context.Context, env *Env, in io.Reader, out io.Writer, args []string, interval time.Duration) error {
	repo, number, err := parsePullRequestArgs(args)
	if err != nil {
		return err
	}
	provider, err := env.provider()
	if err != nil {
		return err
	}
	md, loc, err := env.renderers()
	if err != nil {
		return err
	}

	queue := application.NewUIQueue(uiQueueSize)
	display := terminal.NewDisplay(out, md.StripHTML)

	view := application.NewPullRequestView(provider.Get(), repo, number, application.ViewDeps{
		Dispatcher: queue,
		Display:    display,
		Localizer:  loc,
		Markdown:   md,
		Now:        env.now,
		PerPage:    env.cfg.PageSize,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watch := application.NewWatchService(view, fmt.Sprintf("%s#%d", repo, number), interval)
	go watch.Start(ctx)
	go refreshOnInput(ctx, in, watch, queue, display)

	queue.Run(ctx)
	return nil
}

// refreshOnInput forces a reload for every line read from in.
func refreshOnInput(ctx context.Context, in io.Reader, watch *application.WatchService, queue application.Dispatcher, display application.DetailDisplay) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := watch.Refresh(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			queue.Dispatch(func() { display.ShowAlert("Refresh failed", err.Error()) })
		}
	}
}
