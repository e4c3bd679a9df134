package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/jbstime/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create a credentials file",
	Long: `Asks for a username and password and writes them to
~/.jbstime/config.yaml, replacing any existing credentials.

WARNING: the password is stored in plaintext in your home directory. If that
is a concern, pass it with --pass or JBS_TIMETRACK_PASS instead.`,
	Args: invalidArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return runConfig(a)
	},
}

func runConfig(a *app) error {
	username, err := a.prompt.Line("Username")
	if err != nil {
		return err
	}
	password, err := a.prompt.Password("Password")
	if err != nil {
		return err
	}

	path := config.FilePath(a.base)
	if err := config.Write(path, config.Config{Username: username, Password: password}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Config written to %s\n", path)
	return nil
}
