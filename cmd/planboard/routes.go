package main

import (
	"fmt"

	"github.com/harunnryd/planboard/cmd/planboard/runtime"

	"github.com/harunnryd/planboard/internal/gate"
	"github.com/harunnryd/planboard/internal/render"
	"github.com/harunnryd/planboard/internal/session"

	"github.com/spf13/cobra"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the screens available to the current role",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		return executeWithRuntime(cmd, func(c *runtime.Components) error {
			return runRoutes(c, cmd, all)
		})
	},
}

// runRoutes prints the navigation menu. Only admins may list the full route
// table; for anyone else --all is ignored so restricted routes stay hidden.
func runRoutes(c *runtime.Components, cmd *cobra.Command, all bool) error {
	out := cmd.OutOrStdout()
	snap := c.Session.Snapshot()
	if !snap.LoggedIn() {
		fmt.Fprintln(out, "Not logged in. Run 'planboard login' first.")
		return nil
	}
	if !all || snap.Role != session.RoleAdmin {
		return printNavigation(c, out)
	}

	rendered, err := c.Renderer.Routes(render.NewRouteViews(snap, gate.Routes()))
	if err != nil {
		return err
	}
	fmt.Fprintln(out, rendered)
	return nil
}

func init() {
	routesCmd.Flags().Bool("all", false, "list every route with its decision (admin only)")
	rootCmd.AddCommand(routesCmd)
}
