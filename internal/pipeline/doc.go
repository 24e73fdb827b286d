// Package pipeline implements the sequential release flow: prepare an
// isolated packaging environment, build the single-file artifact, then
// optionally sign it, publish the project, and launch the artifact.
//
// Control flows strictly forward. The environment and build stages are
// fatal on failure; signing and publishing are advisory and never abort the
// run. Every external action is a blocking subprocess call made through an
// execx.Runner, and the only state shared between stages is the filesystem.
package pipeline
