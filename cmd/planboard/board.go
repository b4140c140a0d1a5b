package main

import (
	"os"

	"github.com/harunnryd/planboard/cmd/planboard/runtime"

	"github.com/harunnryd/planboard/internal/gate"

	"github.com/spf13/cobra"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the interactive planning board",
	Long: `Generate schedule drafts, review their KPIs and publish them.
The draft is kept in memory only and is discarded when the board closes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeWithRuntime(cmd, func(c *runtime.Components) error {
			out := cmd.OutOrStdout()
			if err := requireRoute(c, out, gate.PathBoard); err != nil {
				return err
			}
			return runtime.NewBoardREPL(c, os.Stdin, out).Start()
		})
	},
}

func init() {
	rootCmd.AddCommand(boardCmd)
}
