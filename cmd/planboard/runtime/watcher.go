package runtime

import (
	"context"
	"fmt"
	"io"

	"github.com/harunnryd/planboard/internal/livesync"
	"github.com/harunnryd/planboard/internal/render"
)

// ProductionWatcher renders the live production view until its context ends.
type ProductionWatcher struct {
	components *Components
	view       *livesync.View
	out        io.Writer
}

func NewProductionWatcher(components *Components, out io.Writer) (*ProductionWatcher, error) {
	view, err := components.NewLiveView()
	if err != nil {
		return nil, err
	}
	return &ProductionWatcher{
		components: components,
		view:       view,
		out:        out,
	}, nil
}

func (w *ProductionWatcher) View() *livesync.View {
	return w.view
}

// Run activates the view and re-renders after every update. The push channel
// is closed when ctx is done.
func (w *ProductionWatcher) Run(ctx context.Context) error {
	if err := w.view.Activate(ctx); err != nil {
		return err
	}
	defer w.view.Deactivate()

	if err := w.print(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.view.Updates():
			if !w.view.Active() {
				return nil
			}
			if err := w.print(); err != nil {
				return err
			}
		}
	}
}

// Once prints the current schedule a single time without keeping the push
// channel open.
func (w *ProductionWatcher) Once(ctx context.Context) error {
	if err := w.view.Activate(ctx); err != nil {
		return err
	}
	w.view.Deactivate()
	return w.print()
}

func (w *ProductionWatcher) print() error {
	out, err := w.components.Renderer.Production(render.NewProductionView(w.view.Status(), w.view.Grouped()))
	if err != nil {
		return err
	}
	fmt.Fprintln(w.out, out)
	fmt.Fprintln(w.out)
	return nil
}
