package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/EasterCompany/package-builder-service/config"
	"github.com/EasterCompany/package-builder-service/endpoints"
	"github.com/EasterCompany/package-builder-service/internal/pricing"
	"github.com/EasterCompany/package-builder-service/internal/wizard"
	"github.com/EasterCompany/package-builder-service/templates"
	"github.com/EasterCompany/package-builder-service/utils"
)

const ServiceName = "package-builder-service"

var (
	version   string
	branch    string
	commit    string
	buildDate string
	buildHash string
)

func main() {
	utils.SetVersion(version, branch, commit, buildDate, buildHash)
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          ServiceName,
		Short:        "Package builder journey service",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to service.yaml (default ~/PackageBuilder/config/service.yaml)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the service",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return serve(cmd.Context(), configPath)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Display version information",
			Run: func(cmd *cobra.Command, _ []string) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), utils.GetVersion().Str)
			},
		},
		newSessionsCmd(&configPath),
		newQuoteCmd(),
	)
	return root
}

func newSessionsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect or delete stored sessions",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all stored sessions",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd.Context(), *configPath, func(a *app) error {
					return ListSessions(cmd.Context(), a.store, cmd.OutOrStdout())
				})
			},
		},
		&cobra.Command{
			Use:   "delete <pattern>...",
			Short: "Delete sessions matching glob patterns",
			Example: `  package-builder-service sessions delete '*'          # Delete all sessions
  package-builder-service sessions delete '1f*'        # Delete all starting with 1f
  package-builder-service sessions delete '*abc*' '*def*'`,
			Args: cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, patterns []string) error {
				return withApp(cmd.Context(), *configPath, func(a *app) error {
					_, err := DeleteSessions(cmd.Context(), a.store, patterns, cmd.InOrStdin(), cmd.OutOrStdout(), a.logger)
					return err
				})
			},
		},
	)
	return cmd
}

func newQuoteCmd() *cobra.Command {
	var text bool
	cmd := &cobra.Command{
		Use:   "quote <answers.json|->",
		Short: "Print the package generated for a set of answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, err := readAnswers(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			pkg := pricing.Generate(answers)
			out := cmd.OutOrStdout()
			if text {
				_, err = fmt.Fprint(out, templates.FormatPackage(pkg))
				return err
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(pkg)
		},
	}
	cmd.Flags().BoolVar(&text, "text", false, "print a readable summary instead of JSON")
	return cmd
}

func readAnswers(path string, stdin io.Reader) (wizard.Answers, error) {
	var answers wizard.Answers
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return answers, err
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	if err := json.NewDecoder(r).Decode(&answers); err != nil {
		return answers, fmt.Errorf("failed to parse answers: %w", err)
	}
	return answers, nil
}

// withApp loads configuration and opens the stores for a one-shot command.
func withApp(ctx context.Context, configPath string, fn func(*app) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := utils.InitLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(a)
}

func serve(parent context.Context, configPath string) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withApp(ctx, configPath, func(a *app) error {
		a.logger.Info("Loaded configuration", zap.Any("config", a.cfg.GetSanitized()))

		srv := &http.Server{
			Addr: fmt.Sprintf(":%d", a.cfg.Port),
			Handler: endpoints.NewRouter(endpoints.Deps{
				Builder:   a.builder,
				Tokens:    a.tokens,
				Dashboard: a.provider,
				Activity:  a.activity,
				Decay:     a.decay,
				Profiles:  a.client,
				Metrics:   a.metrics,
				Gatherer:  a.registry,
			}),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			a.logger.Info("Core Logic: Starting...")
			defer a.logger.Info("Core Logic: Stopped")
			return RunCoreLogic(gctx, a)
		})
		g.Go(func() error {
			a.logger.Info(fmt.Sprintf("Starting %s on :%d", ServiceName, a.cfg.Port))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP server crashed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			a.logger.Info("Shutting down service...")
			utils.SetHealthStatus("SHUTTING_DOWN", "Service is shutting down")

			// Give the HTTP server 5 seconds to finish current requests
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Warn("HTTP shutdown error", zap.Error(err))
			}
			return nil
		})

		if err := g.Wait(); err != nil {
			return err
		}
		a.logger.Info("Service exited cleanly")
		return nil
	})
}
