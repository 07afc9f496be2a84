// Command a2ahost runs the A2A host orchestrator HTTP service: it loads
// agents from the configured registry, serves the run endpoint, and keeps
// the directory fresh in the background.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/a2ahost/config"
	"github.com/hupe1980/a2ahost/directory"
	"github.com/hupe1980/a2ahost/executor"
	"github.com/hupe1980/a2ahost/host"
	"github.com/hupe1980/a2ahost/logging"
	"github.com/hupe1980/a2ahost/memory"
	"github.com/hupe1980/a2ahost/registry"
	"github.com/hupe1980/a2ahost/selector"
	"github.com/hupe1980/a2ahost/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "a2ahost",
		Short:         "A2A host orchestrator with recursive delegation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the orchestrator HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
	rootCmd.AddCommand(serveCmd)

	return rootCmd
}

func serve(cfg *config.Config) error {
	logger := logging.NewSlogLogger(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)

	dir := directory.NewInMemoryStore()
	mem := memory.NewInMemoryStore()
	sel := selector.New()

	exec := executor.New(func(o *executor.Options) {
		o.Timeout = cfg.Executor.Timeout
		o.BearerToken = cfg.Executor.BearerToken
		o.Logger = logger
	})

	h := host.New(mem, dir, exec, sel, func(o *host.Options) {
		o.MaxHops = cfg.Host.MaxHops
		o.Logger = logger
	})

	client := registry.NewClient(func(o *registry.ClientOptions) {
		o.RegistryURL = cfg.Registry.URL
		o.APIKey = cfg.Registry.APIKey
	})
	loader := registry.NewLoader(client, dir, func(o *registry.LoaderOptions) {
		o.Interval = cfg.Registry.RefreshInterval
		o.PageSize = cfg.Registry.PageSize
		o.MaxAgents = cfg.Registry.MaxAgents
		o.Logger = logger
	})

	if cfg.Registry.LoadOnStartup {
		if count, err := loader.Refresh(context.Background()); err != nil {
			logger.Error("initial registry load failed, starting with empty directory", "error", err)
		} else {
			logger.Info("loaded agents from registry", "count", count, "registry_url", cfg.Registry.URL)
		}
	}
	loader.Start()
	defer loader.Stop()

	srv := server.New(h, loader, dir, func(o *server.Options) {
		o.EnableCORS = cfg.Server.EnableCORS
		o.Logger = logger
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(cfg.Server.Addr()) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
