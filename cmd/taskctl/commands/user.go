package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newUserCommand(d *deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Work with user accounts",
	}

	cmd.AddCommand(newUserListCommand(d))
	return cmd
}

func newUserListCommand(d *deps) *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List user accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := d.requireLogin(); err != nil {
				return err
			}

			list := d.client.ListAllUsers
			if activeOnly {
				list = d.client.ListActiveUsers
			}
			users, err := list(cmd.Context())
			if err != nil {
				return err
			}

			if len(users) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No users found")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tUSERNAME\tROLE\tSTATE\tEMAIL")
			for _, user := range users {
				state := color.GreenString("active")
				if !user.IsActive {
					state = color.RedString("inactive")
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					user.ID, user.Username, user.Role, state, user.Email)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "only active accounts")
	return cmd
}
