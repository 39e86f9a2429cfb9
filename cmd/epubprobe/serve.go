package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yuhara/epubprobe/internal/config"
	"github.com/yuhara/epubprobe/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the extraction engine over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.New()
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.HTTP.Port = port
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.New(cfg, logger).ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "Listen port (default from EPUBPROBE_PORT or 8080)")
	rootCmd.AddCommand(serveCmd)
}
