package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/red-maple-labs/proxherald/internal/api"
	"github.com/red-maple-labs/proxherald/internal/discord"
	"github.com/red-maple-labs/proxherald/internal/logstore"
	"github.com/red-maple-labs/proxherald/internal/metrics"
	"github.com/red-maple-labs/proxherald/internal/retention"
	"github.com/red-maple-labs/proxherald/pkg/config"
)

var (
	configFile string
	httpAddr   string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "proxherald-server",
	Short: "proxherald - Proxmox to Discord alert relay",
	Long: `proxherald receives alert notifications from Proxmox, forwards a
formatted summary to a Discord webhook, and archives the full raw
alert text for later retrieval.`,
	RunE: runServer,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("proxherald-server %s\n", config.Version)
		fmt.Printf("  commit: %s\n", config.Commit)
		fmt.Printf("  built:  %s\n", config.BuildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (optional)")
	rootCmd.PersistentFlags().StringVarP(&httpAddr, "address", "a", "", "HTTP listen address")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	var cfg *Config

	// Load configuration from file if provided
	if configFile != "" {
		var err error
		cfg, err = LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg = DefaultConfig()
	}

	// Override with CLI flags
	if httpAddr != "" {
		cfg.Server.Address = httpAddr
	}
	cfg.Verbose = verbose

	// Environment overrides the configured default webhook
	if webhook := os.Getenv("PROXHERALD_DISCORD_WEBHOOK"); webhook != "" {
		if err := discord.ValidateWebhookURL(webhook); err != nil {
			return fmt.Errorf("PROXHERALD_DISCORD_WEBHOOK: %w", err)
		}
		cfg.Discord.WebhookURL = webhook
	}

	// Initialize the alert log archive (creates the directory if absent)
	store, err := logstore.New(cfg.Logs.Directory)
	if err != nil {
		return fmt.Errorf("open log store: %w", err)
	}
	log.Printf("alert logs archived in %s", store.Dir())

	dispatcher := discord.NewDispatcher()

	srv, err := api.New(&api.Config{
		Address:        cfg.Server.Address,
		BaseURL:        cfg.Server.BaseURL,
		DefaultWebhook: cfg.Discord.WebhookURL,
		RateLimitPerIP: cfg.Server.RateLimitPerIP,
		Verbose:        cfg.Verbose,
	}, store, dispatcher)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	sweeper := retention.NewSweeper(store, cfg.Logs.RetentionDays)

	// Setup signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("received signal %v, shutting down...", sig)
		cancel()
	}()

	log.Printf("starting proxherald-server %s", config.Version)
	if cfg.Logs.RetentionDays > 0 {
		log.Printf("log retention: %d days", cfg.Logs.RetentionDays)
	} else {
		log.Printf("log retention disabled, entries are kept forever")
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sweeper.Run(gCtx)
	})
	g.Go(func() error {
		return srv.Run(gCtx)
	})
	if cfg.Metrics.IsEnabled() {
		metricsSrv := metrics.NewServer(cfg.Metrics.Address)
		g.Go(func() error {
			return metricsSrv.Run(gCtx)
		})
	}

	err = g.Wait()

	// The sweeper has acknowledged cancellation by now; only then is the
	// shared webhook client torn down.
	dispatcher.Close()

	if err != nil {
		return fmt.Errorf("run server: %w", err)
	}
	log.Printf("server stopped")
	return nil
}
