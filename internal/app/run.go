package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/specialistvlad/pulsegrid/internal/ctxlog"
	"github.com/specialistvlad/pulsegrid/internal/document"
	"github.com/specialistvlad/pulsegrid/internal/publish"
)

// Run compiles the descriptors once, or keeps recompiling them until ctx is
// cancelled when a watch interval is configured.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.")

	a.startHealthcheckServer()
	defer a.closeHealthcheckServer()

	if err := a.connectPublisher(ctx); err != nil {
		return err
	}
	defer a.closePublisher()

	err := a.compile(ctx)
	if a.config.Watch <= 0 {
		if err != nil {
			return err
		}
		a.logger.Info("🏁 Compilation finished.")
		return nil
	}
	if err != nil {
		a.logger.Error("Compilation failed, waiting for descriptor changes.", "error", err)
	}
	return a.watch(ctx)
}

// compile runs one load + compile pass and emits the document on success.
func (a *App) compile(ctx context.Context) error {
	model, elements, err := a.load(ctx)
	if err != nil {
		return err
	}

	// 1. Create the compiler on the first good load, merge afterwards.
	if a.compiler == nil {
		c, err := a.newCompiler(ctx, model, elements)
		if err != nil {
			return err
		}
		a.compiler = c
	} else if err := a.merge(ctx, elements); err != nil {
		return err
	}

	// 2. Compile incrementally.
	start := time.Now()
	doc, err := a.compiler.Compile(ctx)
	if err != nil {
		return fmt.Errorf("compilation failed: %w", err)
	}
	a.logger.Debug("Document compiled.", "duration", time.Since(start))

	// 3. Emit only when something changed since the last emitted document.
	if a.emitted != nil {
		paths := document.Diff(a.emitted, doc)
		if len(paths) == 0 {
			a.logger.Debug("Document unchanged.")
			return nil
		}
		changed := make([]string, len(paths))
		for i, p := range paths {
			changed[i] = p.String()
		}
		a.logger.Info("Document changed.", "count", len(changed), "paths", changed)
	}
	return a.emit(ctx, doc)
}

func (a *App) emit(ctx context.Context, doc *document.Document) error {
	data, err := doc.JSON(true)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	data = append(data, '\n')

	if a.config.OutPath != "" {
		if err := writeFileAtomic(a.config.OutPath, data); err != nil {
			return fmt.Errorf("failed to write %s: %w", a.config.OutPath, err)
		}
		a.logger.Info("📄 Document written.", "path", a.config.OutPath, "bytes", len(data))
	} else if _, err := a.outW.Write(data); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	a.emitted = doc.Snapshot()
	a.setLatest(data)

	if a.publisher != nil {
		if err := a.publisher.Publish(ctx, doc); err != nil {
			return fmt.Errorf("failed to publish document: %w", err)
		}
	}
	return nil
}

// watch recompiles on every tick until ctx is cancelled. Failures are logged
// and retried on the next tick.
func (a *App) watch(ctx context.Context) error {
	a.logger.Info("👀 Watching descriptors.", "paths", a.config.DescriptorPaths, "interval", a.config.Watch)
	ticker := time.NewTicker(a.config.Watch)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Watch stopped.")
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			if err := a.compile(ctx); err != nil {
				a.logger.Error("Recompilation failed.", "error", err)
			}
		}
	}
}

func (a *App) connectPublisher(ctx context.Context) error {
	if a.publisher != nil || a.config.PublishURL == "" {
		return nil
	}
	p, err := publish.Dial(ctx, publish.Options{URL: a.config.PublishURL, Event: a.config.PublishEvent})
	if err != nil {
		return fmt.Errorf("failed to connect publisher: %w", err)
	}
	a.publisher = p
	return nil
}

func (a *App) closePublisher() {
	if a.publisher == nil {
		return
	}
	if err := a.publisher.Close(); err != nil {
		a.logger.Warn("Publisher did not close cleanly.", "error", err)
	}
}

// writeFileAtomic replaces path so readers never see a half-written document.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
