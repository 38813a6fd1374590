package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/basel-ax/archrender/internal/service"
	"github.com/basel-ax/archrender/internal/web"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser UI",
	Long: `Serve the rendering UI locally. Each browser gets its own in-memory
session; nothing is kept after the server stops.

Examples:
  archrender serve
  archrender serve --addr 127.0.0.1:8088 --render-url http://gpu-box:5000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listenAddr != "" {
			cfg.HTTP.ListenAddr = listenAddr
		}

		sessions := service.NewRegistry(newRenderClient(), cfg.Origin(), logger)
		defer sessions.CloseAll()

		sweepDone := make(chan struct{})
		defer close(sweepDone)
		go sessions.RunEvictor(sweepDone, cfg.HTTP.SessionSweep, cfg.HTTP.SessionIdleTimeout)

		app := &web.App{
			Sessions:       sessions,
			Log:            logger,
			MaxUploadBytes: cfg.MaxUploadBytes(),
		}
		server := web.NewServer(cfg, web.NewRouter(app))

		errCh := make(chan error, 1)
		go func() {
			logger.Info().Str("addr", cfg.HTTP.ListenAddr).Str("render_url", cfg.RenderBaseURL).Msg("UI listening")
			errCh <- server.Start()
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(stop)

		select {
		case err := <-errCh:
			return err
		case sig := <-stop:
			logger.Info().Str("signal", sig.String()).Msg("shutting down")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server")
		}
		logger.Info().Msg("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address (overrides LISTEN_ADDR)")
}
