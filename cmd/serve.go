package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/slide-gallery/internal/server"
	"github.com/ziadkadry99/slide-gallery/internal/webui"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the gallery widget over HTTP",
	Long: `Starts an HTTP server with a host page, the embeddable widget script,
server-rendered gallery and panel markup, and live widget sessions over WebSocket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, c, err := setup()
		if err != nil {
			return err
		}

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		srv := server.New(server.Config{
			Port:           port,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowAll:       cfg.Server.AllowAll,
		}, logger)

		ui, err := webui.New(webui.Options{
			Index:          c.index,
			Fragments:      c.fragments,
			Allow:          cfg.Fragments.Allow,
			MountID:        cfg.MountID,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowAll:       cfg.Server.AllowAll,
			Logger:         logger,
		})
		if err != nil {
			return err
		}
		ui.RegisterRoutes(srv.Router())

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		fmt.Fprintf(os.Stderr, "slidegallery %s listening on port %d\n", Version, port)
		fmt.Fprintf(os.Stderr, "  Index: %s\n", cfg.IndexRef())
		if cfg.Origin != "" {
			fmt.Fprintf(os.Stderr, "  Origin: %s\n", cfg.Origin)
		}

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}
