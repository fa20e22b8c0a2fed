package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/chamsin/digest/internal/app"
	"github.com/chamsin/digest/internal/config"
	"github.com/chamsin/digest/internal/logger"
	"github.com/chamsin/digest/internal/metrics"
)

var (
	version = "dev"
	commit  = "none"
)

var (
	flagConfig   string
	flagLogLevel string
	flagStats    bool
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "chamsin",
		Short: "Middle East and Caucasus news digest",
		Long:  "Collects RSS/Atom feeds, scores and compresses them into a JSON artifact, and injects an LLM digest into a static page.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(flagLogLevel)
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to feeds config (default $CHAMSIN_CONFIG or "+config.DefaultPath+")")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "debug, info, warn or error (default $LOG_LEVEL)")
	root.PersistentFlags().BoolVar(&flagStats, "stats", false, "print run counters as JSON when done")

	root.AddCommand(fetchCmd(), digestCmd(), runCmd(), versionCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func loadApp() (*app.App, *config.Config, error) {
	cfg, err := config.Load(config.Path(flagConfig))
	if err != nil {
		return nil, nil, err
	}
	return app.New(cfg, metrics.Global, logger.Logger), cfg, nil
}

func fetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Fetch feeds and write the JSON artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := loadApp()
			if err != nil {
				return err
			}
			defer finish(a)
			_, err = a.Fetch(cmd.Context())
			return err
		},
	}
}

func digestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "digest",
		Short: "Generate commentary from the artifact and inject it into the page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cfg, err := loadApp()
			if err != nil {
				return err
			}
			defer finish(a)
			return digest(cmd.Context(), a, cfg)
		},
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Fetch, then digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cfg, err := loadApp()
			if err != nil {
				return err
			}
			defer finish(a)
			if _, err := a.Fetch(cmd.Context()); err != nil {
				return err
			}
			return digest(cmd.Context(), a, cfg)
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("chamsin %s (commit: %s)\n", version, commit)
		},
	}
}

func digest(ctx context.Context, a *app.App, cfg *config.Config) error {
	client, err := app.NewCommentator(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()
	return a.Digest(ctx, client)
}

func finish(a *app.App) {
	a.LogStats()
	if !flagStats {
		return
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(metrics.Global.GetStats())
}
