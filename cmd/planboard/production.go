package main

import (
	"github.com/harunnryd/planboard/cmd/planboard/runtime"

	"github.com/harunnryd/planboard/internal/gate"

	"github.com/spf13/cobra"
)

var productionCmd = &cobra.Command{
	Use:   "production",
	Short: "Follow the published production sequence",
	Long: `Show the published schedule grouped by line and refresh it whenever the
scheduling service announces a change. Press Ctrl-C to stop.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		once, _ := cmd.Flags().GetBool("once")
		return executeWithRuntime(cmd, func(c *runtime.Components) error {
			out := cmd.OutOrStdout()
			if err := requireRoute(c, out, gate.PathProduction); err != nil {
				return err
			}

			watcher, err := runtime.NewProductionWatcher(c, out)
			if err != nil {
				return err
			}
			if once {
				return watcher.Once(c.Ctx)
			}
			return watcher.Run(c.Ctx)
		})
	},
}

func init() {
	productionCmd.Flags().Bool("once", false, "print the current schedule and exit")
	rootCmd.AddCommand(productionCmd)
}
