// Package cli is the greenpulse command line: session commands against the
// REST API, resource listings and a local dev server.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/greenpulse/pulse-client/internal/app"
	"github.com/greenpulse/pulse-client/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Opener builds the application for one command invocation.
type Opener func(ctx context.Context, cfg config.Config) (*app.App, error)

type rootOptions struct {
	cfg    config.Config
	open   Opener
	output string
}

// NewRootCmd returns the greenpulse command tree. open defaults to app.New.
func NewRootCmd(cfg config.Config, open Opener) *cobra.Command {
	if open == nil {
		open = app.New
	}
	opts := &rootOptions{cfg: cfg, open: open}

	root := &cobra.Command{
		Use:           "greenpulse",
		Short:         "Green Pulse session and resources client",
		Long:          "greenpulse logs in to the Green Pulse API, keeps the session on disk and reads rewards and trees on behalf of the logged in user.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			setupLogging(cmd.ErrOrStderr(), cfg.GetDebug())
			return validateOutput(opts.output)
		},
	}
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", outputYAML, "output format: yaml or json")

	root.AddCommand(
		newLoginCmd(opts),
		newRegisterCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newProfileCmd(opts),
		newRewardsCmd(opts),
		newTreesCmd(opts),
		newServeCmd(opts),
	)
	return root
}

// Execute runs the command tree with the environment configuration.
func Execute(ctx context.Context) error {
	return NewRootCmd(config.New(), nil).ExecuteContext(ctx)
}

// withApp opens the application for the duration of fn.
func (o *rootOptions) withApp(fn func(cmd *cobra.Command, args []string, a *app.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := o.open(cmd.Context(), o.cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := a.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close session store")
			}
		}()
		return fn(cmd, args, a)
	}
}

func setupLogging(w io.Writer, debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
}
