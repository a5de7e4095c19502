package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"user_manager/internal/model"

	"github.com/spf13/cobra"
)

func usersCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users (requires login)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if root := cmd.Root(); root.PersistentPreRunE != nil {
				if err := root.PersistentPreRunE(cmd, args); err != nil {
					return err
				}
			}
			return requireLogin(app())
		},
	}
	cmd.AddCommand(usersListCmd(app), usersCreateCmd(app), usersUpdateCmd(app), usersDeleteCmd(app))
	return cmd
}

func usersListCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users := app().Users
			if err := users.Refresh(cmd.Context()); err != nil {
				return err
			}
			if err := printUsers(cmd.OutOrStdout(), users.Users()); err != nil {
				return err
			}
			n := users.Counts()
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Total: %d  Active: %d  Pending: %d  Inactive: %d\n",
				n.Total, n.Active, n.Pending, n.Inactive)
			return err
		},
	}
}

func usersCreateCmd(app func() *App) *cobra.Command {
	var (
		req    model.CreateUserRequest
		status string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Status = model.UserStatus(status)
			created, err := app().Users.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printUsers(cmd.OutOrStdout(), []model.User{created})
		},
	}
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email")
	cmd.Flags().StringVar(&req.PhoneNumber, "phone", "", "Phone number (digits only)")
	cmd.Flags().StringVar(&status, "status", string(model.UserStatusPending), "pending, active or inactive")
	return cmd
}

func usersUpdateCmd(app func() *App) *cobra.Command {
	var firstName, lastName, email, phone, status string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the given fields of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}

			var patch model.UpdateUserRequest
			flags := cmd.Flags()
			if flags.Changed("first-name") {
				patch.FirstName = &firstName
			}
			if flags.Changed("last-name") {
				patch.LastName = &lastName
			}
			if flags.Changed("email") {
				patch.Email = &email
			}
			if flags.Changed("phone") {
				patch.PhoneNumber = &phone
			}
			if flags.Changed("status") {
				s := model.UserStatus(status)
				patch.Status = &s
			}
			if patch.IsEmpty() {
				return fmt.Errorf("nothing to update, pass at least one field flag")
			}

			updated, err := app().Users.Update(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			return printUsers(cmd.OutOrStdout(), []model.User{updated})
		},
	}
	cmd.Flags().StringVar(&firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&email, "email", "", "Email")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number (digits only)")
	cmd.Flags().StringVar(&status, "status", "", "pending, active or inactive")
	return cmd
}

func usersDeleteCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			if err := app().Users.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %d\n", id)
			return nil
		},
	}
}

func parseUserID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return id, nil
}

func printUsers(out io.Writer, users []model.User) error {
	if len(users) == 0 {
		_, err := fmt.Fprintln(out, "No users")
		return err
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tSTATUS")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s %s\t%s\t%s\t%s\n", u.ID, u.FirstName, u.LastName, u.Email, u.PhoneNumber, u.Status)
	}
	return w.Flush()
}
