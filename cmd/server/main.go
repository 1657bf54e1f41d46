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
	"golang.org/x/sync/errgroup"

	"github.com/todmy/hamster-court/internal/api"
	"github.com/todmy/hamster-court/internal/config"
	"github.com/todmy/hamster-court/internal/judge"
	"github.com/todmy/hamster-court/internal/logging"
	"github.com/todmy/hamster-court/internal/seal"
	"github.com/todmy/hamster-court/internal/verdict"
)

var (
	// Global flags
	configPath string
	addr       string
)

// rootCmd starts the server when run without a subcommand
var rootCmd = &cobra.Command{
	Use:   "hamster-court",
	Short: "仓鼠法官 - dispute verdicts for couples and friends",
	Long: `Hamster Court scores a two-party dispute and issues a sealed verdict.

Scores come from a local simulation or from an OpenAI-compatible chat
completion endpoint, falling back to the simulation when the AI is not
configured or fails.

Run without arguments to start the web server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web form and the JSON API",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a yaml config file")
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	rootCmd.AddCommand(serveCmd, verdictCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// components is everything a verdict needs, built once from config
type components struct {
	resolver     *judge.Resolver
	formResolver *judge.Resolver
	renderer     *verdict.Renderer
	sealer       *seal.Sealer
}

func buildComponents(cfg config.Config, logger *zap.Logger) (components, error) {
	// Left as a nil interface when unconfigured so the resolver falls back
	var completer judge.Completer
	if aiConfig := cfg.AIClientConfig(); aiConfig.Configured() {
		completer = judge.NewChatClient(aiConfig)
	} else {
		logger.Warn("AI endpoint not configured, AI verdicts will use simulated scoring")
	}

	sealer, err := seal.NewSealer(cfg.SealerConfig())
	if err != nil {
		return components{}, fmt.Errorf("create sealer: %w", err)
	}
	if cfg.Seal.Secret == "" {
		logger.Warn("seal secret not configured, seals will not survive a restart")
	}

	labels := cfg.LabelScheme()
	drawer := judge.NewUniformDrawer(nil)

	return components{
		resolver:     judge.NewResolver(judge.NewSimulator(drawer, 0), completer, labels, logger),
		formResolver: judge.NewResolver(judge.NewSimulator(drawer, cfg.Judge.SimulatedDelay), completer, labels, logger),
		renderer:     verdict.NewRenderer(labels),
		sealer:       sealer,
	}, nil
}

func loadConfig() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.JSON)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if addr != "" {
		cfg.Server.Addr = addr
	}

	c, err := buildComponents(cfg, logger)
	if err != nil {
		return err
	}

	server := api.NewServer(api.ServerConfig{
		Resolver:       c.resolver,
		FormResolver:   c.formResolver,
		Renderer:       c.renderer,
		Sealer:         c.sealer,
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})
	httpServer := server.HTTPServer(cfg.Server.Addr)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting hamster-court server",
			zap.String("addr", cfg.Server.Addr),
			zap.Bool("ai_available", c.resolver.AIAvailable()),
			zap.String("labels", string(cfg.LabelScheme())),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return err
	}
	return nil
}
