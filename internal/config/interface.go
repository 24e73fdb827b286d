package config

import "context"

// Loader is the interface for a format-specific configuration file loader.
type Loader interface {
	// Load reads a configuration file and translates it into the raw,
	// not-yet-resolved Pipeline model. Validation happens later in Resolve
	// so file, environment and flag layers are all checked the same way.
	Load(ctx context.Context, path string) (*Pipeline, error)
}
