package cli

import (
	"fmt"

	"user_manager/internal/model"

	"github.com/spf13/cobra"
)

func loginCmd(app func() *App) *cobra.Command {
	var req model.LoginRequest
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if _, err := a.Session.Login(cmd.Context(), req); err != nil {
				return sessionError(a, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), describeState(a.Session.State()))
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "Account password")
	return cmd
}

func signupCmd(app func() *App) *cobra.Command {
	var req model.SignupRequest
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if _, err := a.Session.Signup(cmd.Context(), req); err != nil {
				return sessionError(a, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), describeState(a.Session.State()))
			return nil
		},
	}
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password (min 6 characters)")
	cmd.Flags().StringVar(&req.PhoneNumber, "phone", "", "Phone number (digits only)")
	return cmd
}

func logoutCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			app().Session.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		},
	}
}

func whoamiCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), describeState(app().Session.State()))
		},
	}
}

func pingCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the record store is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := app().API.Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s at %s\n", status.Status, status.Timestamp)
			return nil
		},
	}
}
