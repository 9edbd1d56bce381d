package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/session"
	"github.com/taskdeck/taskdeck/internal/validation"
)

func newLoginCommand(d *deps) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and store the session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]

			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				reader := bufio.NewReader(cmd.InOrStdin())
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			if errs := validation.ValidateLoginForm(username, password); validation.HasErrors(errs) {
				return fmt.Errorf("%s", validation.FormatErrors(errs))
			}

			login, err := d.client.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}

			state := session.State{
				Token:    login.BearerToken(),
				Username: login.EffectiveUsername(username),
			}
			if err := d.session.Save(state); err != nil {
				return err
			}

			color.Green("Logged in as %s", state.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func newLogoutCommand(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			d.client.Logout()
			if err := d.session.Clear(); err != nil {
				return err
			}
			color.Green("Logged out")
			return nil
		},
	}
}
