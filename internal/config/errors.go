package config

import "fmt"

// ConfigError reports an invalid or missing configuration value. It is
// always fatal and always raised before any subprocess runs, with one
// exception: a missing client id is only detectable once the invoke stage
// knows the run is not build-only.
type ConfigError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}
