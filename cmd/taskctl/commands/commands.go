// Package commands implements the taskctl command tree.
package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/session"
)

// deps holds what every subcommand needs: the remote client and the
// persisted login.
type deps struct {
	cfg     *config.Config
	client  *api.Client
	session *session.FileStore
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	d := &deps{}
	var apiURL string

	rootCmd := &cobra.Command{
		Use:           "taskctl",
		Short:         "Command-line client for the task management service",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return d.init(apiURL)
		},
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "remote API base URL (overrides TASKDECK_API_URL)")

	// Add subcommands
	rootCmd.AddCommand(
		newLoginCommand(d),
		newLogoutCommand(d),
		newTaskCommand(d),
		newUserCommand(d),
		newStatsCommand(d),
	)

	return rootCmd
}

func (d *deps) init(apiURL string) error {
	d.cfg = config.Load()
	if apiURL != "" {
		d.cfg.APIBaseURL = apiURL
	}

	if d.cfg.Debug {
		lgr.Setup(lgr.Debug, lgr.Msec)
	} else {
		// Keep command output clean unless something goes wrong.
		lgr.Setup(lgr.Out(io.Discard))
	}

	path, err := session.DefaultPath()
	if err != nil {
		return err
	}
	d.session = session.NewFileStore(path)

	d.client = api.New(d.cfg)

	state, err := d.session.Load()
	if err != nil {
		return err
	}
	if state.Token != "" {
		d.client.SetToken(state.Token)
	}
	return nil
}

// requireLogin errors out early with a hint instead of letting the remote
// reply 401.
func (d *deps) requireLogin() error {
	if !d.client.LoggedIn() {
		return fmt.Errorf("not logged in, run %s first", color.CyanString("taskctl login"))
	}
	return nil
}
