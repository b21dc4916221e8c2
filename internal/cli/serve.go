package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	sqliteadapter "github.com/ericfisherdev/codehub/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/codehub/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/codehub/internal/adapter/driving/web"
	"github.com/ericfisherdev/codehub/internal/application"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(env *Env) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and the web pages.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				env.cfg.ListenAddr = addr
			}
			return runServe(cmd.Context(), env)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address; overrides CODEHUB_LISTEN_ADDR")
	return cmd
}

func runServe(ctx context.Context, env *Env) error {
	cfg := env.cfg
	logger := slog.Default()

	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	if err := db.RunMigrations(); err != nil {
		return err
	}
	slog.Info("migrations complete")

	provider := application.NewGitHubClientProvider(nil, "")
	if cfg.HasGitHubToken() {
		client, err := env.newClient(cfg.GitHubToken, cfg.GitHubAPIURL)
		if err != nil {
			return fmt.Errorf("creating github client: %w", err)
		}
		provider.Replace(client, "")
	}

	// Stored accounts need the secret key. Without it the account routes
	// answer 503 and only the environment token is used.
	var accounts *application.AccountService
	if cfg.SecretKey != nil {
		accounts = application.NewAccountService(sqliteadapter.NewAccountRepo(db, cfg.SecretKey), provider, env.newClient)
		if err := accounts.Restore(ctx); err != nil {
			slog.Error("failed to restore active account", "error", err)
		}
	}
	if !provider.HasClient() {
		slog.Info("no github credentials configured, add an account to start browsing")
	}

	md, loc, err := env.renderers()
	if err != nil {
		return err
	}

	views, err := application.NewViewRegistry(provider, application.ViewDeps{
		Localizer: loc,
		Markdown:  md,
		PerPage:   cfg.PageSize,
	}, application.DefaultRegistrySize)
	if err != nil {
		return err
	}

	pins := sqliteadapter.NewPinnedRepoRepo(db)
	health := application.NewHealthService(db, provider)

	mux := http.NewServeMux()
	httphandler.RegisterRoutes(mux, httphandler.NewHandler(views, accounts, pins, health, logger))
	webhandler.RegisterRoutes(mux, webhandler.NewHandler(views, pins, provider, loc, logger))

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httphandler.Wrap(mux, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
