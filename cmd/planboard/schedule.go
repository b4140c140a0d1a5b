package main

import (
	"fmt"
	"strconv"

	"github.com/harunnryd/planboard/cmd/planboard/runtime"

	"github.com/harunnryd/planboard/internal/gate"
	"github.com/harunnryd/planboard/internal/render"

	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Inspect or restore published schedules",
}

var scheduleRollbackCmd = &cobra.Command{
	Use:   "rollback <version>",
	Short: "Republish an earlier schedule version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.Atoi(args[0])
		if err != nil || version <= 0 {
			return fmt.Errorf("invalid version %q", args[0])
		}

		return executeWithRuntime(cmd, func(c *runtime.Components) error {
			out := cmd.OutOrStdout()
			if err := requireRoute(c, out, gate.PathBoard); err != nil {
				return err
			}

			restored, err := c.Client.Rollback(c.Ctx, version)
			if err != nil {
				fmt.Fprintln(out, render.Failure("Rollback failed."))
				return err
			}
			fmt.Fprintln(out, render.Success(fmt.Sprintf("Version %d is published again.", restored.Schedule.Version)))

			rendered, err := c.Renderer.Schedule(render.NewScheduleView(restored))
			if err != nil {
				return err
			}
			fmt.Fprintln(out, rendered)
			return nil
		})
	},
}

var scheduleKPICmd = &cobra.Command{
	Use:   "kpi [schedule-id]",
	Short: "Show KPIs of a published schedule (default: the current one)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeWithRuntime(cmd, func(c *runtime.Components) error {
			out := cmd.OutOrStdout()
			if err := requireRoute(c, out, gate.PathProduction); err != nil {
				return err
			}

			scheduleID, err := resolveScheduleID(c, args)
			if err != nil {
				return err
			}
			if scheduleID == 0 {
				fmt.Fprintln(out, "No published plan yet")
				return nil
			}

			kpi, err := c.Client.KPISummary(c.Ctx, scheduleID)
			if err != nil {
				return err
			}
			rendered, err := c.Renderer.KPI(render.NewKPIView(kpi))
			if err != nil {
				return err
			}
			fmt.Fprintln(out, rendered)
			return nil
		})
	},
}

func resolveScheduleID(c *runtime.Components, args []string) (int, error) {
	if len(args) == 1 {
		id, err := strconv.Atoi(args[0])
		if err != nil || id <= 0 {
			return 0, fmt.Errorf("invalid schedule id %q", args[0])
		}
		return id, nil
	}

	current, ok, err := c.Client.FetchCurrent(c.Ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return current.Schedule.ID, nil
}

func init() {
	scheduleCmd.AddCommand(scheduleRollbackCmd)
	scheduleCmd.AddCommand(scheduleKPICmd)
	rootCmd.AddCommand(scheduleCmd)
}
