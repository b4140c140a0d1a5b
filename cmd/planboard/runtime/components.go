package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/harunnryd/planboard/internal/api"
	"github.com/harunnryd/planboard/internal/config"
	"github.com/harunnryd/planboard/internal/gate"
	"github.com/harunnryd/planboard/internal/livesync"
	"github.com/harunnryd/planboard/internal/render"
	"github.com/harunnryd/planboard/internal/session"
	"github.com/harunnryd/planboard/internal/store"
	"github.com/harunnryd/planboard/internal/workflow"
)

type Components struct {
	Ctx    context.Context
	Cancel context.CancelFunc

	Config   *config.Config
	Storage  store.Storage
	Session  *session.Store
	Client   *api.Client
	Renderer render.Renderer
}

func NewComponents(ctx context.Context, cfg *config.Config, storage store.Storage, hc *http.Client, format render.OutputFormat) (*Components, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)

	components := &Components{
		Ctx:    ctx,
		Cancel: cancel,
		Config: cfg,
	}

	if err := components.initStorage(storage); err != nil {
		cancel()
		return nil, err
	}

	components.Session = session.NewStore(components.Storage, cfg.Session.Key)
	components.Session.Hydrate()

	timeout, err := config.DurationOrDefault(cfg.API.Timeout, config.DefaultAPITimeout)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("api.timeout: %w", err)
	}

	client, err := api.NewClient(api.ClientConfig{
		BaseURL: cfg.API.BaseURL,
		WSURL:   cfg.API.WSURL,
		Timeout: timeout,
	}, components.Session, api.WithHTTPClient(hc))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}
	components.Client = client

	renderer, err := render.New(format)
	if err != nil {
		cancel()
		return nil, err
	}
	components.Renderer = renderer

	slog.Debug("Runtime components ready",
		"api", client.BaseURL(),
		"live", client.WSURL(),
		"role", components.Session.Snapshot().Role,
	)
	return components, nil
}

func (c *Components) initStorage(storage store.Storage) error {
	if storage != nil {
		c.Storage = storage
		return nil
	}

	lockCfg, err := store.FileLockConfigFrom(c.Config.Session)
	if err != nil {
		return err
	}
	fileStore, err := store.NewFileStore(c.Config.Session.Path, lockCfg)
	if err != nil {
		return fmt.Errorf("failed to open session storage: %w", err)
	}
	c.Storage = fileStore
	return nil
}

// Navigate runs the access gate for path against the current session.
func (c *Components) Navigate(path string) gate.Outcome {
	return gate.Navigate(c.Session.Snapshot(), path)
}

// NewWorkflow returns a board workflow bound to this runtime's client. Each
// board view owns its own workflow.
func (c *Components) NewWorkflow() *workflow.Workflow {
	return workflow.New(c.Client)
}

// NewLiveView returns an inactive production view bound to this runtime's
// client.
func (c *Components) NewLiveView() (*livesync.View, error) {
	opts, err := livesync.OptionsFrom(c.Config.Sync)
	if err != nil {
		return nil, err
	}
	dialer := livesync.DialerFunc(func(ctx context.Context) (livesync.Channel, error) {
		ch, err := c.Client.Dial(ctx)
		if err != nil {
			return nil, err
		}
		return ch, nil
	})
	return livesync.New(c.Client, dialer, opts), nil
}

func (c *Components) Stop() {
	c.Cancel()
}
