package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_scribe/internal/webui"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			driver := ctx.runner()
			if port == "" {
				port = env.Str("UI_PORT", "8892")
			}
			ui, err := webui.New(driver, driver.Variants)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              ":" + port,
				Handler:           ui.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
				WriteTimeout:      600 * time.Second,
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			go func() {
				<-runCtx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					slog.Warn("web ui shutdown", slog.Any("error", err))
				}
			}()

			fmt.Fprintf(cmd.OutOrStdout(), "web ui listening on http://localhost:%s\n", port)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen port (default UI_PORT or 8892)")
	return cmd
}
