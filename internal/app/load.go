package app

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/hashicorp/go-multierror"
	"github.com/specialistvlad/pulsegrid/internal/compiler"
	"github.com/specialistvlad/pulsegrid/internal/config"
	"github.com/specialistvlad/pulsegrid/internal/ctxlog"
	"github.com/specialistvlad/pulsegrid/internal/element"
)

// load reads the descriptor files, builds one element per block and applies
// the command-line overrides on top.
func (a *App) load(ctx context.Context) (*config.Model, []*element.Element, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading descriptors...", "paths", a.config.DescriptorPaths)

	model, err := a.source.Load(ctx, a.config.DescriptorPaths...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load descriptors: %w", err)
	}

	elements, err := model.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build elements: %w", err)
	}

	var result *multierror.Error
	overrides := make([]config.Override, 0, len(a.config.Overrides))
	for _, raw := range a.config.Overrides {
		o, err := a.source.ParseOverride(raw)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		overrides = append(overrides, o)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, nil, fmt.Errorf("invalid override: %w", err)
	}
	if err := config.Apply(elements, overrides); err != nil {
		return nil, nil, err
	}

	logger.Debug("Descriptors loaded.", "elements", len(elements), "pulses", len(model.Pulses), "overrides", len(overrides))
	return model, elements, nil
}

// newCompiler wires a compiler for a freshly loaded model.
func (a *App) newCompiler(ctx context.Context, model *config.Model, elements []*element.Element) (*compiler.Compiler, error) {
	logger := ctxlog.FromContext(ctx)

	opts := []compiler.Option{
		compiler.WithObserver(func(name, param string) {
			logger.Debug("Compiling parameter.", "element", name, "parameter", param)
		}),
	}
	for _, name := range slices.Sorted(maps.Keys(model.Controllers)) {
		opts = append(opts, compiler.WithController(name, model.Controllers[name]))
	}
	return compiler.New(elements, opts...)
}

// merge pushes reloaded descriptors into the live compiler. Known elements
// take the new parameters, new ones are added. Deleting an element is not
// supported, so a vanished block only produces a warning.
func (a *App) merge(ctx context.Context, elements []*element.Element) error {
	logger := ctxlog.FromContext(ctx)

	var result *multierror.Error
	seen := make(map[string]struct{}, len(elements))
	for _, e := range elements {
		seen[e.Name()] = struct{}{}
		live, ok := a.compiler.Element(e.Name())
		if !ok {
			logger.Info("New element found.", "element", e.Name())
			if err := a.compiler.Add(e); err != nil {
				result = multierror.Append(result, err)
			}
			continue
		}
		if err := live.Replace(e); err != nil {
			result = multierror.Append(result, err)
		}
	}
	for _, name := range a.compiler.Names() {
		if _, ok := seen[name]; !ok {
			logger.Warn("Element removed from descriptors, its configuration is kept.", "element", name)
		}
	}
	return result.ErrorOrNil()
}
