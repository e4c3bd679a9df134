package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var projectsAll bool

var projectsCmd = &cobra.Command{
	Use:   "projects [<search>]",
	Short: "List projects",
	Long: `Lists projects.

With SEARCH only projects whose name contains it, ignoring case, are listed.
By default only favorited projects are shown.`,
	Args: invalidArgs(cobra.MaximumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return runProjects(cmd.Context(), a, argOr(args, ""), projectsAll)
	},
}

func init() {
	projectsCmd.Flags().BoolVar(&projectsAll, "all", false, "Include non-favorited projects")
}

func runProjects(ctx context.Context, a *app, search string, all bool) error {
	projects, err := a.session.Projects(ctx)
	if err != nil {
		return err
	}
	search = strings.ToLower(search)
	for _, p := range projects {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if all || p.Favorite {
			fmt.Fprintln(a.out, p.Name)
		}
	}
	return nil
}
