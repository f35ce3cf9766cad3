package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/specialistvlad/pulsegrid/internal/compiler"
	"github.com/specialistvlad/pulsegrid/internal/config"
	"github.com/specialistvlad/pulsegrid/internal/ctxlog"
	"github.com/specialistvlad/pulsegrid/internal/document"
)

// Source reads descriptor files and parses command-line overrides in the
// same format.
type Source interface {
	config.Loader
	config.OverrideParser
}

// Publisher receives every successfully compiled document.
type Publisher interface {
	Publish(ctx context.Context, doc *document.Document) error
	Close() error
}

// Option customizes an App.
type Option func(*App)

// WithPublisher installs a publisher instead of dialing Config.PublishURL.
func WithPublisher(p Publisher) Option {
	return func(a *App) { a.publisher = p }
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	source Source
	ctx    context.Context

	publisher  Publisher
	httpServer *http.Server

	compiler *compiler.Compiler
	// emitted is a snapshot of the last document written out.
	emitted *document.Document

	mu     sync.RWMutex
	latest []byte
}

// NewApp is the constructor for the main application. Compiled documents go
// to outW (unless Config.OutPath is set), logs go to logW.
func NewApp(outW, logW io.Writer, cfg *Config, source Source, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	a := &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		source: source,
		ctx:    ctxlog.WithLogger(context.Background(), logger),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Compiler returns the live compiler, nil before the first successful load.
// This is primarily for testing.
func (a *App) Compiler() *compiler.Compiler {
	return a.compiler
}

// Latest returns the JSON of the last successfully compiled document.
func (a *App) Latest() []byte {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.latest
}

func (a *App) setLatest(data []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.latest = data
}
