package main

import (
	"context"
	"fmt"
	"io"

	"github.com/harunnryd/planboard/cmd/planboard/runtime"

	"github.com/harunnryd/planboard/internal/config"
	"github.com/harunnryd/planboard/internal/gate"
	"github.com/harunnryd/planboard/internal/render"
	"github.com/harunnryd/planboard/internal/store"

	"github.com/spf13/cobra"
)

func executeWithRuntime(cmd *cobra.Command, fn func(*runtime.Components) error) error {
	loadedCfg, err := loadConfigForCommand(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	format, err := render.ParseOutputFormat(outputFmt)
	if err != nil {
		return err
	}

	signals := NewSignalHandler(context.Background())
	signals.Start()
	defer signals.Stop()

	builder := runtime.NewRuntimeBuilder().
		WithContext(signals.Context()).
		WithConfig(loadedCfg).
		WithOutput(format)
	if ephemeral {
		builder = builder.WithStorage(store.NewMemoryStore())
	}

	components, err := builder.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize runtime: %w", err)
	}
	defer components.Stop()

	return fn(components)
}

func loadConfigForCommand(cmd *cobra.Command) (*config.Config, error) {
	if cfg != nil {
		return cfg, nil
	}
	return config.Load(cmd)
}

// errNotAuthorized stops a command whose route the gate did not render.
type errNotAuthorized struct{ decision gate.Decision }

func (e errNotAuthorized) Error() string {
	return "not authorized (" + e.decision.String() + ")"
}

// requireRoute applies the access gate to path. Anonymous sessions are sent
// to login; forbidden ones fall back to the landing menu without naming the
// route they asked for.
func requireRoute(c *runtime.Components, out io.Writer, path string) error {
	outcome := c.Navigate(path)
	if outcome.Render() {
		return nil
	}

	switch outcome.Redirect {
	case gate.LoginPath:
		fmt.Fprintln(out, "Not logged in. Run 'planboard login' first.")
	default:
		if err := printNavigation(c, out); err != nil {
			return err
		}
	}
	return errNotAuthorized{decision: outcome.Decision}
}

func printNavigation(c *runtime.Components, out io.Writer) error {
	snap := c.Session.Snapshot()
	rendered, err := c.Renderer.Routes(render.NewRouteViews(snap, gate.Navigation(snap)))
	if err != nil {
		return err
	}
	fmt.Fprintln(out, rendered)
	return nil
}
