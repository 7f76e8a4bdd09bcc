package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/spinescan/spinescan/internal/server"
	"github.com/spinescan/spinescan/internal/store"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP scan server",
	Long: `Start an HTTP server exposing the spine scan pipeline.

Endpoints:
  POST /scan     - scan an uploaded spine image
  GET  /runs     - list recorded scan runs
  GET  /health   - health check
  GET  /metrics  - Prometheus metrics
  GET  /ws/scan  - WebSocket scan stream

Detection grids come from a detector inference service (--detector-url).

Examples:
  spinescan serve --detector-url http://localhost:9000
  spinescan serve --host 0.0.0.0 --port 3000 --detector-url http://det:9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		host := cfg.Server.Host
		if cmd.Flags().Changed("host") {
			host, _ = cmd.Flags().GetString("host")
		}
		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}
		detectorURL, _ := cmd.Flags().GetString("detector-url")
		storePath := cfg.Store.Path
		if cmd.Flags().Changed("store") {
			storePath, _ = cmd.Flags().GetString("store")
		}
		overlayEnable, _ := cmd.Flags().GetBool("overlay-enable")

		if port < 1 || port > 65535 {
			return fmt.Errorf("invalid port number: %d (must be between 1 and 65535)", port)
		}

		p, err := buildPipeline(cfg, "", detectorURL)
		if err != nil {
			return err
		}
		defer func() { _ = p.Engine.Close() }()

		var st *store.Store
		if storePath != "" {
			st, err = store.Open(storePath)
			if err != nil {
				return fmt.Errorf("open run store: %w", err)
			}
			defer func() { _ = st.Close() }()
		}

		serverConfig := server.Config{
			Host:            host,
			Port:            port,
			MaxUploadMB:     int64(cfg.Server.MaxUploadMB),
			ShutdownTimeout: time.Duration(cfg.Server.ShutdownTimeout) * time.Second,
			OverlayEnabled:  overlayEnable,
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := server.NewServer(p, st, serverConfig)
		if err := srv.Run(ctx, serverConfig); err != nil {
			return fmt.Errorf("server: %w", err)
		}
		slog.Info("shutdown complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("host", "H", "127.0.0.1", "server host")
	serveCmd.Flags().IntP("port", "p", 8080, "server port")
	serveCmd.Flags().String("detector-url", "", "detector inference service base URL")
	serveCmd.Flags().String("store", "", "run store database path (overrides config)")
	serveCmd.Flags().Bool("overlay-enable", true, "enable overlay image responses")
}
