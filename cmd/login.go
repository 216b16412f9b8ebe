package cmd

import (
	"fmt"

	"github.com/openhvx/hvxctl/internal/domain"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *app) *cobra.Command {
	var email string
	var password string
	var remember bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the admin gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.nav.SetLocation("login")

			if err := app.session.Login(cmd.Context(), email, password, remember); err != nil {
				return err
			}

			who := email
			if user := app.session.User(); user != nil && user.Name != "" {
				who = user.Name
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", who)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin account email")
	cmd.Flags().StringVar(&password, "password", "", "Admin account password")
	cmd.Flags().BoolVar(&remember, "remember", false, "Persist the session across restarts")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.session.Logout(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "whoami",
		Short:             "Show the authenticated admin profile",
		Args:              cobra.NoArgs,
		PersistentPreRunE: app.requireSession(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			user := app.session.User()
			if user == nil {
				return fmt.Errorf("no profile loaded: %w", domain.ErrUnauthorized)
			}
			return printJSON(cmd, user)
		},
	}

	return cmd
}
