package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/greenpulse/pulse-client/internal/app"
	"github.com/greenpulse/pulse-client/users"
	"github.com/spf13/cobra"
)

// passwordEnvVar is read when --password is not given.
const passwordEnvVar = "GREENPULSE_PASSWORD"

type whoami struct {
	State     string      `json:"state" yaml:"state"`
	User      *users.User `json:"user,omitempty" yaml:"user,omitempty"`
	ExpiresAt *time.Time  `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Expired   bool        `json:"expired,omitempty" yaml:"expired,omitempty"`
}

func newLoginCmd(o *rootOptions) *cobra.Command {
	var creds users.LoginCredentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Args:  cobra.NoArgs,
		RunE: o.withApp(func(cmd *cobra.Command, _ []string, a *app.App) error {
			if creds.Password == "" {
				creds.Password = os.Getenv(passwordEnvVar)
			}
			user, err := a.Auth.Login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			return o.print(cmd, user)
		}),
	}
	cmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "account password (default $"+passwordEnvVar+")")
	return cmd
}

func newRegisterCmd(o *rootOptions) *cobra.Command {
	var creds users.RegisterCredentials
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: o.withApp(func(cmd *cobra.Command, _ []string, a *app.App) error {
			if creds.Password == "" {
				creds.Password = os.Getenv(passwordEnvVar)
			}
			if creds.ConfirmPassword == "" {
				creds.ConfirmPassword = creds.Password
			}
			user, err := a.Auth.Register(cmd.Context(), creds)
			if err != nil {
				return err
			}
			return o.print(cmd, user)
		}),
	}
	cmd.Flags().StringVar(&creds.Name, "name", "", "display name")
	cmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "account password (default $"+passwordEnvVar+")")
	cmd.Flags().StringVar(&creds.ConfirmPassword, "confirm-password", "", "repeat the password (default the password)")
	cmd.Flags().StringVar(&creds.NationalID, "cpf", "", "CPF number")
	return cmd
}

func newLogoutCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the stored tokens",
		Args:  cobra.NoArgs,
		RunE: o.withApp(func(cmd *cobra.Command, _ []string, a *app.App) error {
			if err := a.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return err
		}),
	}
}

func newWhoamiCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session without contacting the server",
		Args:  cobra.NoArgs,
		RunE: o.withApp(func(cmd *cobra.Command, _ []string, a *app.App) error {
			view := whoami{State: a.Auth.State().String(), User: a.Auth.CurrentUser()}
			if bundle, ok := a.Auth.Token(); ok {
				// A guess only, the server decides on the next request.
				view.ExpiresAt = &bundle.Expiry
				view.Expired = bundle.ExpiredAt(time.Now())
			}
			return o.print(cmd, view)
		}),
	}
}

func newProfileCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Fetch the logged in user's profile",
		Args:  cobra.NoArgs,
		RunE: o.withApp(func(cmd *cobra.Command, _ []string, a *app.App) error {
			user, err := a.Auth.Profile(cmd.Context())
			if err != nil {
				return err
			}
			return o.print(cmd, user)
		}),
	}
}
