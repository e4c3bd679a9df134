package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var ptoCmd = &cobra.Command{
	Use:   "pto",
	Short: "Show your PTO balance",
	Args:  invalidArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return runPTO(cmd.Context(), a)
	},
}

func runPTO(ctx context.Context, a *app) error {
	latest, err := a.session.Latest(ctx)
	if err != nil {
		return err
	}
	return checkPTO(ctx, a, latest, true)
}
