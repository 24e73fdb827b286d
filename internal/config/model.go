package config

import "fmt"

// Mode selects what the wrapped migration tool does when invoked.
type Mode string

// Supported invocation modes.
const (
	ModePlan Mode = "plan"
	ModeCopy Mode = "copy"
	ModeMove Mode = "move"
)

// Conflict selects how the wrapped tool treats name collisions on upload.
type Conflict string

// Supported conflict behaviors.
const (
	ConflictRename  Conflict = "rename"
	ConflictReplace Conflict = "replace"
)

// DefaultTimestampURL is the public timestamp authority used when no
// override is configured.
const DefaultTimestampURL = "http://timestamp.digicert.com"

// SizeUnset marks an absent optional size bound.
const SizeUnset = -1

// Pipeline is the single configuration value threading through all stages.
// Fields left empty disable the stage or flag that consumes them.
type Pipeline struct {
	// ClientID is the OAuth client forwarded to the built tool. Required
	// only when the pipeline actually invokes the artifact.
	ClientID string

	// Mode is the subcommand forwarded to the built tool.
	Mode Mode

	SourceRoot     string
	TargetRoot     string
	SkipIdenticals bool

	// ExtensionFilter is a comma-separated extension list, e.g. ".docx,.pdf".
	ExtensionFilter string

	// ModifiedAfter is a YYYY-MM-DD date string, passed through verbatim.
	ModifiedAfter string

	// MinSizeMB and MaxSizeMB bound forwarded file sizes. SizeUnset means
	// no bound.
	MinSizeMB float64
	MaxSizeMB float64

	ResumeCachePath string

	// Conflict is forwarded only when it differs from the tool's own
	// default of rename.
	Conflict Conflict

	// OutputPrefix names the report files the wrapped tool writes.
	OutputPrefix string

	// RemoteRepoURL enables the publish stage when non-empty.
	RemoteRepoURL string

	// UpxDir points at a UPX installation; when set the packaging tool is
	// asked to compress the artifact.
	UpxDir string

	// SignPfxPath enables the signing stage when non-empty. SignPfxPassword
	// may stay empty for passwordless PFX files.
	SignPfxPath     string
	SignPfxPassword string

	// TimestampURL is the countersignature authority for signing.
	TimestampURL string

	// BuildOnly stops the pipeline after build/sign/publish without
	// launching the artifact.
	BuildOnly bool
}

// NewPipeline returns a raw Pipeline with the optional numeric bounds marked
// unset. Empty strings already mean unset for every other optional field.
func NewPipeline() Pipeline {
	return Pipeline{MinSizeMB: SizeUnset, MaxSizeMB: SizeUnset}
}

// Resolve validates raw configuration and fills defaults, returning the
// immutable value the pipeline runs against. It is pure: no file or process
// state is touched.
func Resolve(raw Pipeline) (*Pipeline, error) {
	p := raw

	if p.Mode == "" {
		p.Mode = ModePlan
	}
	switch p.Mode {
	case ModePlan, ModeCopy, ModeMove:
	default:
		return nil, &ConfigError{Field: "mode", Reason: fmt.Sprintf("must be one of plan, copy or move, got %q", p.Mode)}
	}

	if p.Conflict == "" {
		p.Conflict = ConflictRename
	}
	switch p.Conflict {
	case ConflictRename, ConflictReplace:
	default:
		return nil, &ConfigError{Field: "conflict", Reason: fmt.Sprintf("must be rename or replace, got %q", p.Conflict)}
	}

	if p.TimestampURL == "" {
		p.TimestampURL = DefaultTimestampURL
	}

	if p.MinSizeMB != SizeUnset && p.MinSizeMB < 0 {
		return nil, &ConfigError{Field: "min-mb", Reason: "must not be negative"}
	}
	if p.MaxSizeMB != SizeUnset && p.MaxSizeMB < 0 {
		return nil, &ConfigError{Field: "max-mb", Reason: "must not be negative"}
	}
	if p.MinSizeMB != SizeUnset && p.MaxSizeMB != SizeUnset && p.MinSizeMB > p.MaxSizeMB {
		return nil, &ConfigError{Field: "min-mb", Reason: "must not exceed max-mb"}
	}

	// ClientID is deliberately not required here: build-only flows carry no
	// client id, and the invoke stage enforces the requirement at the last
	// responsible moment.
	return &p, nil
}
