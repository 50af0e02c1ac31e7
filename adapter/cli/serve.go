package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var runOutbox bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON API server",
	Long: `Start the HTTP JSON API and block until interrupted.

With --outbox the outbox processor runs in the same process and
publishes task events to the configured broker.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		if app.Server == nil {
			return fmt.Errorf("server not configured")
		}

		ctx := cmd.Context()
		if runOutbox || app.OutboxEnabled {
			if app.OutboxProcessor == nil {
				return fmt.Errorf("outbox processor not configured")
			}
			if err := app.OutboxProcessor.Start(ctx); err != nil {
				return fmt.Errorf("start outbox processor: %w", err)
			}
			defer app.OutboxProcessor.Stop()
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- app.Server.Start()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.ShutdownTimeout)
		defer cancel()
		if err := app.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&runOutbox, "outbox", false, "run the outbox processor in-process")
	rootCmd.AddCommand(serveCmd)
}
