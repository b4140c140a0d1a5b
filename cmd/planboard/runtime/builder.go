package runtime

import (
	"context"
	"fmt"
	"net/http"

	"github.com/harunnryd/planboard/internal/config"
	"github.com/harunnryd/planboard/internal/render"
	"github.com/harunnryd/planboard/internal/store"
)

type RuntimeBuilder interface {
	WithContext(ctx context.Context) RuntimeBuilder
	WithConfig(cfg *config.Config) RuntimeBuilder
	WithStorage(storage store.Storage) RuntimeBuilder
	WithHTTPClient(hc *http.Client) RuntimeBuilder
	WithOutput(format render.OutputFormat) RuntimeBuilder
	Build() (*Components, error)
}

type DefaultRuntimeBuilder struct {
	ctx        context.Context
	cfg        *config.Config
	storage    store.Storage
	httpClient *http.Client
	format     render.OutputFormat
}

func NewRuntimeBuilder() RuntimeBuilder {
	return &DefaultRuntimeBuilder{}
}

func (b *DefaultRuntimeBuilder) WithContext(ctx context.Context) RuntimeBuilder {
	b.ctx = ctx
	return b
}

func (b *DefaultRuntimeBuilder) WithConfig(cfg *config.Config) RuntimeBuilder {
	b.cfg = cfg
	return b
}

// WithStorage replaces the session file; tests and --ephemeral runs use a
// MemoryStore.
func (b *DefaultRuntimeBuilder) WithStorage(storage store.Storage) RuntimeBuilder {
	b.storage = storage
	return b
}

func (b *DefaultRuntimeBuilder) WithHTTPClient(hc *http.Client) RuntimeBuilder {
	b.httpClient = hc
	return b
}

func (b *DefaultRuntimeBuilder) WithOutput(format render.OutputFormat) RuntimeBuilder {
	b.format = format
	return b
}

func (b *DefaultRuntimeBuilder) Build() (*Components, error) {
	if b.ctx == nil {
		b.ctx = context.Background()
	}

	if b.cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	if b.format == "" {
		b.format = render.OutputFormatTable
	}

	return NewComponents(b.ctx, b.cfg, b.storage, b.httpClient, b.format)
}
