// Package app contains the core application logic. It defines the main App
// struct, resolves the layered configuration (defaults, release file,
// environment, CLI flags), and owns the execution lifecycle, decoupled from
// any specific entrypoint.
package app
