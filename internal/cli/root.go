package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"user_manager/internal/config"
	"user_manager/internal/session"

	"github.com/spf13/cobra"
)

// Builder constructs the App once flags are parsed.
type Builder func(configPath string) (*App, error)

// DefaultBuilder loads the client config and wires a real App.
func DefaultBuilder(logOut io.Writer) Builder {
	return func(configPath string) (*App, error) {
		cfg, err := config.LoadClientConfig(configPath)
		if err != nil {
			return nil, err
		}
		return NewApp(cfg, logOut)
	}
}

// NewRootCmd creates the user_manager command tree.
func NewRootCmd(build Builder) *cobra.Command {
	var (
		configPath string
		app        *App
	)

	cmd := &cobra.Command{
		Use:   "user_manager",
		Short: "Manage accounts and users of a record store",
		Long: `Manage accounts and users of a record store.

Examples:
  user_manager signup --first-name Ann --last-name Lee --email a@x.com --password secret1 --phone 12345
  user_manager login --email a@x.com --password secret1
  user_manager users list
  user_manager users update 1 --status active
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			app, err = build(configPath)
			if err != nil {
				return err
			}
			if err := app.Session.Restore(cmd.Context()); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), app.Session.State().Message)
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML client profile")

	current := func() *App { return app }
	cmd.AddCommand(
		loginCmd(current),
		signupCmd(current),
		logoutCmd(current),
		whoamiCmd(current),
		pingCmd(current),
		usersCmd(current),
	)
	return cmd
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context, build Builder, args []string, out, errOut io.Writer) error {
	cmd := NewRootCmd(build)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd.ExecuteContext(ctx)
}

// sessionError replaces a session failure with the message shown to the user.
func sessionError(app *App, err error) error {
	if msg := app.Session.State().Message; msg != "" {
		return errors.New(msg)
	}
	return err
}

func requireLogin(app *App) error {
	if !app.Session.State().IsAuthenticated() {
		return errors.New("not logged in, run `user_manager login` first")
	}
	return nil
}

func describeState(s session.State) string {
	if !s.IsAuthenticated() {
		return "Not logged in"
	}
	return fmt.Sprintf("Logged in as %s <%s> (account %d)", s.Account.FullName(), s.Account.Email, s.Account.ID)
}
