package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/jbstime/internal/apperr"
	"github.com/Tiliavir/jbstime/internal/remote"
)

var (
	flagUser      string
	flagPass      string
	flagVerbose   bool
	flagLogFormat string
	flagBaseURL   string
)

var rootCmd = &cobra.Command{
	Use:   "jbstime",
	Short: "Commands for managing JBS timesheets",
	Long: `Commands for managing JBS timesheets.

Any place a timesheet date is called for, any date covered by that timesheet
works: a timesheet ending Sunday, July 20th accepts any date from 7/14 to 7/20.
"current" and "today" both mean the current date.

Credentials come from --user/--pass, the JBS_TIMETRACK_USER and
JBS_TIMETRACK_PASS environment variables or the file written by "jbstime
config", in that order. Anything still missing is prompted for.`,
	Args:          invalidArgs(cobra.NoArgs),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute is the entry point called from main. Errors are printed as one line
// on stderr and mapped to the process exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, apperr.Message(err))
		os.Exit(apperr.ExitCode(err))
	}
}

// invalidArgs turns cobra's argument and flag errors into usage errors.
func invalidArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return apperr.Wrap(apperr.InvalidArgument, err, "%s", err.Error())
		}
		return nil
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagUser, "user", "u", "", "Username for the timesheet site")
	pf.StringVarP(&flagPass, "pass", "p", "", "Password for the timesheet site")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Log requests and decisions to stderr")
	pf.StringVar(&flagLogFormat, "log-format", "text", `Diagnostic log format, "text" or "json"`)
	pf.StringVar(&flagBaseURL, "base-url", remote.DefaultBaseURL, "Timesheet site address")
	_ = pf.MarkHidden("base-url")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperr.Wrap(apperr.InvalidArgument, err, "%s", err.Error())
	})

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(addallCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(timesheetsCmd)
	rootCmd.AddCommand(timesheetCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(holidaysCmd)
	rootCmd.AddCommand(ptoCmd)
	rootCmd.AddCommand(configCmd)
}
