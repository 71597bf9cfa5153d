package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"nexaplan/internal/di"
	"nexaplan/internal/infrastructure/env"
	"nexaplan/internal/infrastructure/web"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		container, err := di.NewContainer(config, di.Options{
			LogName:    "serve",
			LogConsole: os.Stderr,
			WithHub:    true,
		})
		if err != nil {
			return err
		}
		defer container.Close()

		for _, f := range config.Loaded {
			container.Logger.Info("Environment file loaded", "file", f)
		}

		server := web.NewServer(container.Pipeline, container.Store, container.Hub, container.Logger, web.Config{
			Addr:          config.Get(env.KeyHTTPAddr),
			JSONAccessLog: config.GetBool(env.KeyHTTPJSONLog, false),
		})
		return server.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (HTTP_ADDR)")
}
