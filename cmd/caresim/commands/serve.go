package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/panyam/caresim/console"
	"github.com/panyam/caresim/runtime"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the caresim dashboard API",
	Long: `Start the HTTP server that hosts the dashboard and its JSON API. Each
browser session keeps its own saved comparisons in memory until the
session lifetime lapses.

Example:
  caresim serve
  caresim serve --port 9090
  CARESIM_HOURLY_WINDOW=72 caresim serve`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sc := cfg.Server
		if cmd.Flags().Changed("host") {
			sc.Host, _ = cmd.Flags().GetString("host")
		}
		if cmd.Flags().Changed("port") {
			sc.Port, _ = cmd.Flags().GetInt("port")
		}

		api := console.NewServer(console.ServerOptions{
			Palette:         cfg.Reporting.Palette,
			Window:          cfg.Reporting.Window(),
			SessionLifetime: sc.SessionLifetime,
		})
		server := &http.Server{
			Addr:              sc.Addr(),
			Handler:           api.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

		errChan := make(chan error, 1)
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

		baseURL := fmt.Sprintf("http://%s", sc.Addr())
		fmt.Fprintf(cmd.OutOrStdout(), "caresim %s\n", Version)
		fmt.Fprintf(cmd.OutOrStdout(), "  Dashboard: %s\n", baseURL)
		fmt.Fprintf(cmd.OutOrStdout(), "  API:       %s/api\n", baseURL)
		runtime.Info("listening on %s (session lifetime %s)", sc.Addr(), sc.SessionLifetime)

		select {
		case err := <-errChan:
			return fmt.Errorf("server failed to start: %w", err)
		case <-sigChan:
		}

		runtime.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		runtime.Info("server stopped gracefully")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("host", "", "Server host (default: config server.host or CARESIM_HOST)")
	serveCmd.Flags().Int("port", 0, "Server port (default: config server.port or CARESIM_PORT)")
	rootCmd.AddCommand(serveCmd)
}
