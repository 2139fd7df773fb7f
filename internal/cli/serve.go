package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/gin-gonic/gin"
	"github.com/greenpulse/pulse-client/devserver"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(o *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an in-memory Green Pulse API for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = o.cfg.GetPort()
			}
			if !o.cfg.GetDebug() {
				gin.SetMode(gin.ReleaseMode)
			}

			srv, err := devserver.New(o.cfg, devserver.WithLogger(log.Logger.With().Str("component", "devserver").Logger()))
			if err != nil {
				return err
			}
			email, password, err := srv.Bootstrap()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			displayAppname(out, o.cfg.GetAppName())
			if password != "" {
				fmt.Fprintf(out, "Demo account: %s / %s\n\n", email, password)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, &http.Server{Addr: addr, Handler: srv})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default $PORT)")
	return cmd
}

// serve runs server until ctx is done, then shuts it down.
func serve(ctx context.Context, server *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- listenAndServe(server)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	return shutdown(server)
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("dev server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe: %w", err)
	}
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	log.Info().Msg("dev server stopped")
	return nil
}

func displayAppname(w io.Writer, appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	fmt.Fprintln(w, myFigure.String())
}
