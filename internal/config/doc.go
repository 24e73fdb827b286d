// Package config defines the immutable pipeline configuration model, its
// validation rules, and the Loader interface for reading configuration from
// a file. Concrete loaders, such as the HCL one, live in separate packages.
//
// A resolved *config.Pipeline is the single value threaded through every
// pipeline stage; it is constructed once and never mutated afterwards.
package config
