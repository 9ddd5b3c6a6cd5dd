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

	"github.com/jonesrussell/wikigraph/internal/api"
	"github.com/jonesrussell/wikigraph/internal/storage"
)

const (
	errorChannelBufferSize  = 1
	signalChannelBufferSize = 1
	shutdownTimeout         = 10 * time.Second
)

// newServeCommand creates the serve command: run the HTTP API over the
// storage file until interrupted.
func newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve saved runs over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps()
			if err != nil {
				return err
			}
			if addr != "" {
				d.cfg.Server.Address = addr
			}

			store, err := storage.Open(d.cfg.Storage.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			server := api.NewServer(d.cfg.Server.Address, d.log, store)

			d.log.Info("Starting HTTP server", "addr", d.cfg.Server.Address)
			errChan := make(chan error, errorChannelBufferSize)
			go func() {
				if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
					errChan <- serveErr
				}
			}()

			sigChan := make(chan os.Signal, signalChannelBufferSize)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case serverErr := <-errChan:
				d.log.Error("Server error", "error", serverErr)
				return fmt.Errorf("server error: %w", serverErr)
			case sig := <-sigChan:
				d.log.Info("Shutdown signal received", "signal", sig.String())
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
					return fmt.Errorf("shutdown failed: %w", shutdownErr)
				}
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}
