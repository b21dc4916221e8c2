// Package cli implements the codehub command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	githubadapter "github.com/ericfisherdev/codehub/internal/adapter/driven/github"
	"github.com/ericfisherdev/codehub/internal/adapter/driven/i18n"
	"github.com/ericfisherdev/codehub/internal/adapter/driven/markdown"
	"github.com/ericfisherdev/codehub/internal/application"
	"github.com/ericfisherdev/codehub/internal/config"
	"github.com/ericfisherdev/codehub/internal/domain/model"
	"github.com/ericfisherdev/codehub/internal/domain/port/driven"
)

var errNoToken = errors.New("CODEHUB_GITHUB_TOKEN is not set")

// Env is the state shared by all commands of one invocation.
type Env struct {
	cfg       *config.Config
	newClient application.ClientFactory
	now       func() time.Time
}

func newEnv() *Env {
	env := &Env{now: time.Now}
	env.newClient = func(token, apiURL string) (driven.GitHubClient, error) {
		pageSize := 0
		if env.cfg != nil {
			pageSize = env.cfg.PageSize
		}
		return githubadapter.NewClient(token, apiURL, pageSize)
	}
	return env
}

// Execute runs the root command until ctx is canceled or the command returns.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the codehub command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(newEnv())
}

func newRootCommand(env *Env) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "codehub",
		Short: "Browse and act on GitHub pull requests, issues and gists.",
		Long: `codehub is a GitHub client. It serves a JSON API and web pages for
pinned repositories, and shows pull requests and gists in the terminal.

Configuration is read from CODEHUB_* environment variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd, env, logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides CODEHUB_LOG_LEVEL")

	cmd.AddCommand(newServeCommand(env))
	cmd.AddCommand(newPRCommand(env))
	cmd.AddCommand(newIssuesCommand(env))
	cmd.AddCommand(newGistsCommand(env))

	return cmd
}

func loadConfig(cmd *cobra.Command, env *Env, logLevel string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if logLevel != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
		}
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.LogLevel})))
	env.cfg = cfg
	return nil
}

// provider returns a provider bound to the CODEHUB_GITHUB_TOKEN client.
func (env *Env) provider() (*application.GitHubClientProvider, error) {
	if !env.cfg.HasGitHubToken() {
		return nil, errNoToken
	}

	client, err := env.newClient(env.cfg.GitHubToken, env.cfg.GitHubAPIURL)
	if err != nil {
		return nil, fmt.Errorf("creating github client: %w", err)
	}
	return application.NewGitHubClientProvider(client, ""), nil
}

// renderers builds the markdown renderer and localizer for the configured locale.
func (env *Env) renderers() (*markdown.Renderer, *i18n.Localizer, error) {
	md, err := markdown.New(markdown.DefaultCacheSize)
	if err != nil {
		return nil, nil, fmt.Errorf("creating markdown renderer: %w", err)
	}

	loc, err := i18n.New(env.cfg.Locale)
	if err != nil {
		return nil, nil, fmt.Errorf("loading locale %q: %w", env.cfg.Locale, err)
	}
	return md, loc, nil
}

// parseRepo validates an owner/repo argument.
func parseRepo(arg string) (string, error) {
	if !model.IsValidRepoName(arg) {
		return "", fmt.Errorf("invalid repository %q: expected owner/repo", arg)
	}
	return arg, nil
}

// parsePullRequestArgs parses the owner/repo and number arguments.
func parsePullRequestArgs(args []string) (string, int, error) {
	repo, err := parseRepo(args[0])
	if err != nil {
		return "", 0, err
	}

	number, err := strconv.Atoi(args[1])
	if err != nil || number < 1 {
		return "", 0, fmt.Errorf("invalid pull request number %q", args[1])
	}
	return repo, number, nil
}
