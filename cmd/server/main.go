package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sleepstars/bayportbot/internal/clients"
	"github.com/sleepstars/bayportbot/internal/completion"
	"github.com/sleepstars/bayportbot/internal/config"
	"github.com/sleepstars/bayportbot/internal/logger"
	"github.com/sleepstars/bayportbot/internal/metrics"
	"github.com/sleepstars/bayportbot/internal/server"
)

var (
	version    = "0.1.0"
	configPath string
	envFile    string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "bayportbot",
		Short:   "BayportBot: customer assistant web front end",
		Long:    "BayportBot serves the customer web forms and a JSON API, forwarding chat questions to an OpenAI-compatible completion service.",
		Version: version,
		RunE:    runServe,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (defaults and environment only when empty)")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(serveCmd())
	root.AddCommand(askCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Send one question to the completion service and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			reply, err := newProxy(cfg, nil).Complete(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.GetLogger().WithComponent("main")
	defer log.Sync()

	if cfg.Completion.APIKey == config.PlaceholderAPIKey {
		log.Warn("No API key configured, using placeholder; completion calls will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.NewMetrics()
	app := server.New(cfg, newProxy(cfg, m), m)

	log.Info("Starting bayportbot %s (model %s via %s)", version, cfg.Completion.Model, cfg.Completion.APIBase)
	if err := app.Run(ctx); err != nil {
		log.WithError(err).Error("Server stopped")
		return err
	}
	log.Info("Server stopped")
	return nil
}

// loadConfig reads the dotenv file, builds the configuration and initializes
// the default logger from it.
func loadConfig() (*config.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger.SetDevelopment(cfg.Logging.Development)
	logger.InitLogger(logger.ParseLevel(cfg.Logging.Level), "bayportbot")
	return cfg, nil
}

func newProxy(cfg *config.Config, m *metrics.Metrics) *completion.Proxy {
	client := clients.NewOpenAIClient(clients.ChatClientConfig{
		APIBase: cfg.Completion.APIBase,
		APIKey:  cfg.Completion.APIKey,
		Timeout: cfg.Completion.Timeout,
	})
	return completion.NewProxy(client, completion.Options{
		Model:        cfg.Completion.Model,
		Temperature:  cfg.Completion.Temperature,
		SystemPrompt: cfg.Prompts.System,
	}, m)
}
