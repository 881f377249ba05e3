package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/banglish/backend/internal/app"
	"github.com/banglish/backend/internal/config"
	"github.com/banglish/backend/internal/handlers"
	"github.com/banglish/backend/internal/logging"
	"github.com/banglish/backend/internal/services"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var cfgFile string
	v := config.NewViper()

	cmd := &cobra.Command{
		Use:           "banglish-server",
		Short:         "Banglish to Bengali conversion API",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./banglish.yaml)")
	cmd.Flags().String("addr", ":8080", "HTTP listen address")
	cmd.Flags().String("data-dir", "./data", "directory for file storage")
	cmd.Flags().String("storage", "file", "storage backend: file or mongo")
	cmd.Flags().String("llm-provider", "gemini", "model provider: gemini, openai or ollama")

	// Bind flags to viper
	v.BindPFlag("server.address", cmd.Flags().Lookup("addr"))
	v.BindPFlag("storage.data_dir", cmd.Flags().Lookup("data-dir"))
	v.BindPFlag("storage.backend", cmd.Flags().Lookup("storage"))
	v.BindPFlag("llm.provider", cmd.Flags().Lookup("llm-provider"))

	return cmd
}

func run(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := app.OpenStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.Close(context.Background()); err != nil {
			logger.Warn("failed to close storage", zap.Error(err))
		}
	}()

	if err := app.SeedAdmin(ctx, cfg, stores.Accounts, logger); err != nil {
		return err
	}

	gen := app.NewGenerator(ctx, cfg, logger)

	analytics := services.NewAnalytics(nil)
	defer analytics.Close()

	translator := services.NewTranslator(gen, stores.Contributions, services.TranslatorConfig{
		ExampleLimit: cfg.Prompt.ExampleLimit,
		Timeout:      cfg.LLM.Timeout,
	}, logger)
	titles := services.NewTitleCaptionService(gen, cfg.LLM.Timeout, logger)
	chat := services.NewChatService(translator, gen, cfg.LLM.Timeout, logger)
	exporter := services.NewPDFExporter(cfg.PDF.FontsDir, cfg.PDF.DefaultFont, logger)

	// One conversion makes two sequential model calls.
	requestTimeout := 2*cfg.LLM.Timeout + cfg.LLM.Timeout/2

	router := handlers.NewRouter(handlers.Handlers{
		Auth:          handlers.NewAuthHandler(stores.Accounts, cfg.JWT.Secret, cfg.JWT.Expiration, logger),
		Convert:       handlers.NewConvertHandler(translator, titles, analytics, requestTimeout, logger),
		Export:        handlers.NewExportHandler(exporter, analytics, logger),
		Contributions: handlers.NewContributionHandler(stores.Contributions, logger),
		Analytics:     handlers.NewAnalyticsHandler(analytics),
		Chat:          handlers.NewChatHandler(chat, requestTimeout, logger),
	}, handlers.RouterConfig{
		JWTSecret:      cfg.JWT.Secret,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", cfg.Server.Address), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received, draining connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
