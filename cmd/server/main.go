package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/charmbracelet/log"
	"github.com/saveblue/saveblue/infra/initializer"
	"github.com/saveblue/saveblue/pkg/app"
	"github.com/saveblue/saveblue/pkg/config"
	"github.com/saveblue/saveblue/webapi"
	"github.com/spf13/cobra"
)

// @title SaveBlue API
// @version 1.0.0
// @description Personal finance backend: accounts, incomes, expenses and savings goals.
// @host localhost:3000
// @BasePath /
//
// @securityDefinitions.apikey Bearer
// @in header
// @name x-access-token
// @description Session token returned by /auth/login
func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string
	root := &cobra.Command{
		Use:           "saveblue",
		Short:         "SaveBlue personal finance API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "environment file to load before reading the environment")

	load := func() (*config.App, error) {
		cfg, err := config.Load(envFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load application configuration: %w", err)
		}
		return cfg, nil
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := load()
				if err != nil {
					return err
				}
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return serve(ctx, cfg)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := load()
				if err != nil {
					return err
				}
				db, err := initializer.OpenDatabase(cfg)
				if err != nil {
					return err
				}
				if db == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "memory driver has no schema, nothing to migrate")
					return nil
				}
				if err := initializer.Migrate(db); err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			},
		},
		&cobra.Command{
			Use:   "sweep-tokens",
			Short: "Remove expired session tokens from the whitelist",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := load()
				if err != nil {
					return err
				}
				deps, res, err := initializer.InitializeDependencies(cfg)
				if err != nil {
					return fmt.Errorf("failed to initialize dependencies: %w", err)
				}
				defer res.Close() //nolint: errcheck
				removed, err := app.New(deps, cfg).AuthService.SweepExpired(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired tokens\n", removed)
				return nil
			},
		},
	)
	return root
}

func serve(ctx context.Context, cfg *config.App) error {
	deps, res, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer res.Close() //nolint: errcheck
	logger := deps.Logger

	a := app.New(deps, cfg)
	fiberApp := webapi.SetupApp(a)

	go a.AuthService.RunSweeper(ctx, cfg.Whitelist.SweepInterval)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Starting server",
		"env", cfg.Env,
		"address", addr,
		"scheme", cfg.Server.Scheme,
	)

	errCh := make(chan error, 1)
	go func() { errCh <- fiberApp.Listen(addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := fiberApp.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return nil
	}
}
