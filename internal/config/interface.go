package config

import "context"

// Loader is the interface for a format-specific descriptor loader.
type Loader interface {
	// Load reads every descriptor file under the given paths and merges
	// them into one model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// OverrideParser turns a raw "element.param=value" assignment into an
// Override. The value syntax belongs to the concrete format.
type OverrideParser interface {
	ParseOverride(raw string) (Override, error)
}
