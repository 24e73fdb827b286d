package hcladapter

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/shipline/internal/config"
	"github.com/vk/shipline/internal/ctxlog"
)

// Loader implements config.Loader for HCL release files.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot decodes the top-level structure of a release file.
type fileRoot struct {
	Pipeline *pipelineBlock `hcl:"pipeline,block"`
}

// pipelineBlock mirrors config.Pipeline in HCL attribute form. Numeric
// bounds are pointers so an absent attribute stays distinguishable from an
// explicit zero.
type pipelineBlock struct {
	ClientID        string   `hcl:"client_id,optional"`
	Mode            string   `hcl:"mode,optional"`
	SourceRoot      string   `hcl:"source_root,optional"`
	TargetRoot      string   `hcl:"target_root,optional"`
	SkipIdenticals  bool     `hcl:"skip_identicals,optional"`
	ExtensionFilter string   `hcl:"exts,optional"`
	ModifiedAfter   string   `hcl:"modified_after,optional"`
	MinSizeMB       *float64 `hcl:"min_mb,optional"`
	MaxSizeMB       *float64 `hcl:"max_mb,optional"`
	ResumeCachePath string   `hcl:"resume_cache,optional"`
	Conflict        string   `hcl:"conflict,optional"`
	OutputPrefix    string   `hcl:"output_prefix,optional"`
	UpxDir          string   `hcl:"upx_dir,optional"`
	BuildOnly       bool     `hcl:"build_only,optional"`

	Sign    *signBlock    `hcl:"sign,block"`
	Publish *publishBlock `hcl:"publish,block"`
}

type signBlock struct {
	PfxPath      string `hcl:"pfx_path,optional"`
	PfxPassword  string `hcl:"pfx_password,optional"`
	TimestampURL string `hcl:"timestamp_url,optional"`
}

type publishBlock struct {
	RemoteURL string `hcl:"remote_url,optional"`
}

// Load implements config.Loader.
func (l *Loader) Load(ctx context.Context, path string) (*config.Pipeline, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse release file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(hclFile.Body, evalContext(), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode release file %s: %w", path, diags)
	}
	if root.Pipeline == nil {
		return nil, fmt.Errorf("release file %s contains no pipeline block", path)
	}

	p := translate(root.Pipeline)
	logger.Debug("HCL loading complete.", "mode", p.Mode, "build_only", p.BuildOnly)
	return p, nil
}

// translate maps the decoded block onto the raw configuration model.
func translate(b *pipelineBlock) *config.Pipeline {
	p := config.NewPipeline()
	p.ClientID = b.ClientID
	p.Mode = config.Mode(b.Mode)
	p.SourceRoot = b.SourceRoot
	p.TargetRoot = b.TargetRoot
	p.SkipIdenticals = b.SkipIdenticals
	p.ExtensionFilter = b.ExtensionFilter
	p.ModifiedAfter = b.ModifiedAfter
	if b.MinSizeMB != nil {
		p.MinSizeMB = *b.MinSizeMB
	}
	if b.MaxSizeMB != nil {
		p.MaxSizeMB = *b.MaxSizeMB
	}
	p.ResumeCachePath = b.ResumeCachePath
	p.Conflict = config.Conflict(b.Conflict)
	p.OutputPrefix = b.OutputPrefix
	p.UpxDir = b.UpxDir
	p.BuildOnly = b.BuildOnly
	if b.Sign != nil {
		p.SignPfxPath = b.Sign.PfxPath
		p.SignPfxPassword = b.Sign.PfxPassword
		p.TimestampURL = b.Sign.TimestampURL
	}
	if b.Publish != nil {
		p.RemoteRepoURL = b.Publish.RemoteURL
	}
	return &p
}

// evalContext exposes the host environment as an `env` object so release
// files can pull in values without hardcoding them.
func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}
